package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"concord/internal/api"
	"concord/internal/export"
	"concord/internal/scheduler"
	"concord/internal/workspace"
)

func newNextCommand(ctx *commandContext) *cobra.Command {
	var split string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next unlabeled item of a split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if strings.TrimSpace(split) == "" {
				split = cfg.Schedule.DefaultSplit
			}
			return ctx.withWorkspace(cmd.Context(), true, func(ws *workspace.Workspace) error {
				item, err := ws.Scheduler.NextItem(split)
				if errors.Is(err, scheduler.ErrExhaustedSplit) {
					progress := ws.Scheduler.Progress(split)
					return ctx.emit(cmd, api.ExhaustedResponse{Exhausted: true, Split: split, Progress: progress}, func() string {
						return fmt.Sprintf("Split %s is fully annotated (%d/%d)", split, progress.Labeled, progress.Total)
					})
				}
				if err != nil {
					return err
				}
				resp := api.ItemResponse{
					ItemID:   item.ID,
					Split:    item.Split,
					Fields:   item.Fields,
					Text:     export.ItemText(item, cfg.Corpus.TextFields),
					Progress: ws.Scheduler.Progress(split),
				}
				return ctx.emit(cmd, resp, func() string { return renderItem(resp, cfg.Corpus.TextFields) })
			})
		},
	}

	cmd.Flags().StringVarP(&split, "split", "s", "", "Split to draw from (default from config)")
	return cmd
}

func renderItem(resp api.ItemResponse, textFields []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Item %d", resp.ItemID)
	if resp.Split != "" {
		fmt.Fprintf(&b, " (%s)", resp.Split)
	}
	fmt.Fprintf(&b, "  %d/%d labeled in %s\n", resp.Progress.Labeled, resp.Progress.Total, resp.Progress.Split)
	for _, field := range textFields {
		value, ok := resp.Fields[field]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", field, value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <item-id> <label>",
		Short: "Record a label for an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q: %w", args[0], err)
			}
			label := args[1]
			return ctx.withWorkspace(cmd.Context(), false, func(ws *workspace.Workspace) error {
				if err := ws.Scheduler.Submit(cmd.Context(), id, label); err != nil {
					return fmt.Errorf("submit item %d: %w", id, err)
				}
				record, _ := ws.Store.Get(id)
				return ctx.emit(cmd, record, func() string {
					return fmt.Sprintf("Recorded label %s for item %d", record.Label, id)
				})
			})
		},
	}
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var split string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show labeled counts per split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd.Context(), true, func(ws *workspace.Workspace) error {
				names := ws.Scheduler.Splits()
				if s := strings.TrimSpace(split); s != "" {
					names = []string{s}
				}
				progress := make([]scheduler.Progress, 0, len(names))
				for _, name := range names {
					progress = append(progress, ws.Scheduler.Progress(name))
				}
				colorize := shouldColorize(cmd.OutOrStdout())
				return ctx.emit(cmd, progress, func() string { return renderProgress(progress, colorize) })
			})
		},
	}

	cmd.Flags().StringVarP(&split, "split", "s", "", "Only report this split")
	return cmd
}

func renderProgress(progress []scheduler.Progress, colorize bool) string {
	lines := renderSectionHeader("Annotation progress", colorize)
	for _, p := range progress {
		message := fmt.Sprintf("%d/%d labeled (%s)", p.Labeled, p.Total, percent(p.Labeled, p.Total))
		if p.Total == 0 {
			message = "no items"
		}
		lines = append(lines, renderStatusLine(p.Split, progressKind(p.Labeled, p.Total), message, colorize))
	}
	return strings.Join(lines, "\n")
}

func newSplitsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "splits",
		Short: "List splits with their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			return ctx.withWorkspace(cmd.Context(), true, func(ws *workspace.Workspace) error {
				names := ws.Scheduler.Splits()
				resp := api.SplitsResponse{
					Default:    cfg.Schedule.DefaultSplit,
					Splits:     make([]scheduler.Progress, 0, len(names)),
					Vocabulary: ws.Scheduler.Vocabulary(),
				}
				for _, name := range names {
					resp.Splits = append(resp.Splits, ws.Scheduler.Progress(name))
				}
				return ctx.emit(cmd, resp, func() string { return renderSplits(resp) })
			})
		},
	}
}

func renderSplits(resp api.SplitsResponse) string {
	tbl := tableSpec{
		headers: []string{"Split", "Items", "Labeled", "Remaining", "Done", "Default"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	}
	for _, p := range resp.Splits {
		tbl.rows = append(tbl.rows, []string{
			p.Split,
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Labeled),
			strconv.Itoa(p.Remaining()),
			percent(p.Labeled, p.Total),
			yesNo(p.Split == resp.Default),
		})
	}
	out := tbl.render()
	if len(resp.Vocabulary) > 0 {
		out += "\nLabels: " + strings.Join(resp.Vocabulary, ", ")
	}
	return out
}
