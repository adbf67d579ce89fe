package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"concord/internal/agreement"
	"concord/internal/config"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var adjudicatedPath string
	var individualPath string
	var reportPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate export files and compute Fleiss' kappa",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			opts := agreement.Options{
				AdjudicatedFile:     pathOr(adjudicatedPath, cfg.Agreement.AdjudicatedFile),
				IndividualFile:      pathOr(individualPath, cfg.Agreement.IndividualFile),
				MinAdjudicatedItems: cfg.Agreement.MinAdjudicatedItems,
				MinIndividualItems:  cfg.Agreement.MinIndividualItems,
				RatersPerItem:       cfg.Agreement.RatersPerItem,
				Precision:           cfg.Agreement.Precision,
				Logger:              logger,
			}
			for _, p := range []*string{&opts.AdjudicatedFile, &opts.IndividualFile} {
				if *p, err = config.ExpandPath(*p); err != nil {
					return err
				}
			}

			report, err := agreement.Check(opts)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			target, err := config.ExpandPath(pathOr(reportPath, cfg.Agreement.ReportFile))
			if err != nil {
				return err
			}
			if err := report.WriteFile(target); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			if _, err := report.WriteTo(out); err != nil {
				return err
			}
			fmt.Fprintf(out, "Report written to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&adjudicatedPath, "adjudicated", "", "Adjudicated export (default agreement.adjudicated_file)")
	cmd.Flags().StringVar(&individualPath, "individual", "", "Individual export (default agreement.individual_file)")
	cmd.Flags().StringVarP(&reportPath, "output", "o", "", "Report destination (default agreement.report_file)")
	return cmd
}

func pathOr(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
