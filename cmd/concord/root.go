package main

import (
	"github.com/spf13/cobra"
)

const (
	groupAnnotate  = "annotate"
	groupAgreement = "agreement"
	groupSetup     = "setup"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag string
		jsonFlag   bool
	)
	ctx := newCommandContext(&configFlag, &jsonFlag)

	root := &cobra.Command{
		Use:   "concord",
		Short: "Annotation scheduling and agreement validation",
		Long: `concord hands out corpus items to annotate in a fixed, seeded order,
records labels, and checks that independent annotators agree before the
adjudicated data set is released.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit machine-readable JSON")

	root.AddGroup(
		&cobra.Group{ID: groupAnnotate, Title: "Annotation:"},
		&cobra.Group{ID: groupAgreement, Title: "Agreement:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	groups := []struct {
		id       string
		commands []*cobra.Command
	}{
		{groupAnnotate, []*cobra.Command{
			newNextCommand(ctx),
			newSubmitCommand(ctx),
			newProgressCommand(ctx),
			newSplitsCommand(ctx),
			newServeCommand(ctx),
		}},
		{groupAgreement, []*cobra.Command{
			newValidateCommand(ctx),
			newExportCommand(ctx),
		}},
		{groupSetup, []*cobra.Command{
			newCorpusCommand(ctx),
			newPreflightCommand(ctx),
			newConfigCommand(ctx),
		}},
	}
	for _, group := range groups {
		for _, cmd := range group.commands {
			cmd.GroupID = group.id
			root.AddCommand(cmd)
		}
	}
	return root
}
