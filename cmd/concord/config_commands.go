package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"concord/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect, and check the configuration file",
	}
	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigShowCommand(ctx),
		newConfigValidateCommand(ctx),
	)
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		pathFlag  string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := initTarget(pathFlag)
			if err != nil {
				return err
			}
			if !overwrite {
				switch _, err := os.Stat(target); {
				case err == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\nEdit paths.corpus_file and add [[annotators]] entries before validating.\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&pathFlag, "path", "p", "", "Where to write the file (default: user config path)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(flagValue)
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after defaults and overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, cfg)
			}
			encoded, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# source: %s (exists: %s)\n%s", ctx.configPath, yesNo(ctx.configExists), encoded)
			return nil
		},
	}
}

// newConfigValidateCommand loads the config (Load already validates) and
// summarizes what the other commands will operate on.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and summarize its key settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			source := ctx.configPath
			sourceKind := statusOK
			if !ctx.configExists {
				source += " (missing, defaults used)"
				sourceKind = statusWarn
			}
			vocabulary := "any non-blank label"
			if len(cfg.Labels.Vocabulary) > 0 {
				vocabulary = strings.Join(cfg.Labels.Vocabulary, ", ")
			}
			annotatorsKind := statusInfo
			if len(cfg.Annotators) < cfg.Agreement.RatersPerItem {
				annotatorsKind = statusWarn
			}

			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Config", sourceKind, source, colorize),
				renderStatusLine("Corpus", statusInfo, cfg.Paths.CorpusFile, colorize),
				renderStatusLine("Store", statusInfo, cfg.Store.Backend+" at "+cfg.StorePath(), colorize),
				renderStatusLine("Labels", statusInfo, vocabulary, colorize),
				renderStatusLine("Annotators", annotatorsKind, strconv.Itoa(len(cfg.Annotators))+" configured", colorize),
			)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
