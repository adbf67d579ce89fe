package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"concord/internal/corpus"
	"concord/internal/fileutil"
	"concord/internal/logging"
	"concord/internal/workspace"
)

func newCorpusCommand(ctx *commandContext) *cobra.Command {
	corpusCmd := &cobra.Command{
		Use:   "corpus",
		Short: "Corpus maintenance",
	}

	corpusCmd.AddCommand(newAssignSplitsCommand(ctx))

	return corpusCmd
}

func newAssignSplitsCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var seed uint64

	cmd := &cobra.Command{
		Use:   "assign-splits",
		Short: "Partition the corpus into exploration and evaluation splits",
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
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Corpus.SplitSeed
			}

			path := cfg.Paths.CorpusFile
			c, err := corpus.Load(path, workspace.CorpusOptions(cfg))
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			if len(c.Splits()) > 0 && !force {
				return errors.New("corpus already has split assignments (use --force to reassign)")
			}

			assigned, err := corpus.AssignSplits(c, seed, cfg.Corpus.ExplorationSplit, cfg.Corpus.EvaluationSplit)
			if err != nil {
				return err
			}
			backup := path + ".bak"
			if err := fileutil.CopyFile(path, backup); err != nil {
				return fmt.Errorf("back up corpus: %w", err)
			}
			if err := assigned.WriteFile(path); err != nil {
				return fmt.Errorf("write corpus: %w", err)
			}
			logger.Info("corpus splits assigned",
				logging.String("corpus", path),
				logging.String("backup", backup),
				logging.Int("items", assigned.Len()),
			)

			tbl := tableSpec{
				headers: []string{"Split", "Items"},
				aligns:  []columnAlignment{alignLeft, alignRight},
				footer:  []string{"Total", strconv.Itoa(assigned.Len())},
			}
			counts := make(map[string]int, 2)
			for _, split := range assigned.Splits() {
				counts[split] = assigned.SplitSize(split)
				tbl.rows = append(tbl.rows, []string{split, strconv.Itoa(counts[split])})
			}
			return ctx.emit(cmd, counts, tbl.render)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Reassign splits even when the corpus already has them")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Split seed (default corpus.split_seed)")
	return cmd
}
