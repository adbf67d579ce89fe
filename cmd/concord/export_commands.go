package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"concord/internal/config"
	"concord/internal/corpus"
	"concord/internal/export"
	"concord/internal/workspace"
)

type exportSummary struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write agreement input files",
	}

	exportCmd.AddCommand(newExportAdjudicatedCommand(ctx))
	exportCmd.AddCommand(newExportIndividualCommand(ctx))

	return exportCmd
}

func newExportAdjudicatedCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "adjudicated",
		Short: "Export labeled items from the annotation store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			target, err := config.ExpandPath(pathOr(output, cfg.Agreement.AdjudicatedFile))
			if err != nil {
				return err
			}
			return ctx.withWorkspace(cmd.Context(), true, func(ws *workspace.Workspace) error {
				rows, err := export.Adjudicated(ws.Corpus, ws.Store.Snapshot(), cfg.Corpus.TextFields)
				if err != nil {
					return err
				}
				if err := export.WriteRecords(target, rows); err != nil {
					return err
				}
				return ctx.emitExport(cmd, exportSummary{Kind: "adjudicated", Path: target, Rows: len(rows)})
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination (default agreement.adjudicated_file)")
	return cmd
}

func newExportIndividualCommand(ctx *commandContext) *cobra.Command {
	var output string
	var split string

	cmd := &cobra.Command{
		Use:   "individual",
		Short: "Merge annotator store files over the evaluation split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if len(cfg.Annotators) == 0 {
				return errors.New("no annotators configured; add [[annotators]] entries to the config")
			}
			if split == "" {
				split = cfg.Corpus.EvaluationSplit
			}
			target, err := config.ExpandPath(pathOr(output, cfg.Agreement.IndividualFile))
			if err != nil {
				return err
			}

			c, err := corpus.Load(cfg.Paths.CorpusFile, workspace.CorpusOptions(cfg))
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			sources := make([]export.Source, 0, len(cfg.Annotators))
			for _, annotator := range cfg.Annotators {
				sources = append(sources, export.Source{AnnotatorID: annotator.ID, Path: annotator.File})
			}
			rows, err := export.Individual(cmd.Context(), c, split, sources, cfg.Corpus.TextFields)
			if err != nil {
				return err
			}
			if err := export.WriteRecords(target, rows); err != nil {
				return err
			}
			return ctx.emitExport(cmd, exportSummary{Kind: "individual", Path: target, Rows: len(rows)})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination (default agreement.individual_file)")
	cmd.Flags().StringVarP(&split, "split", "s", "", "Split to export (default corpus.evaluation_split)")
	return cmd
}

func (c *commandContext) emitExport(cmd *cobra.Command, summary exportSummary) error {
	return c.emit(cmd, summary, func() string {
		return fmt.Sprintf("Wrote %d %s rows to %s", summary.Rows, summary.Kind, summary.Path)
	})
}
