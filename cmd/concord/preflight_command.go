package main

import (
	"strings"

	"github.com/spf13/cobra"

	"concord/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check that files, directories and the bind address are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := preflight.RunAll(ctx.configValue())
			colorize := shouldColorize(cmd.OutOrStdout())
			if err := ctx.emit(cmd, results, func() string { return renderPreflight(results, colorize) }); err != nil {
				return err
			}
			return preflight.Failed(results)
		},
	}
}

func renderPreflight(results []preflight.Result, colorize bool) string {
	lines := renderSectionHeader("Preflight", colorize)
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}
	return strings.Join(lines, "\n")
}
