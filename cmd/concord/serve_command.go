package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"concord/internal/api"
	"concord/internal/logging"
	"concord/internal/preflight"
	"concord/internal/workspace"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Paths.APIBind = bind
			}
			if err := preflight.Failed(preflight.RunAll(cfg)); err != nil {
				return err
			}

			logger, err := ctx.logger(true)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws, err := workspace.Open(runCtx, cfg, logger, workspace.Options{})
			if err != nil {
				return err
			}
			defer ws.Close()

			srv := api.NewServer(ws.Scheduler, api.Options{
				Bind:         cfg.Paths.APIBind,
				DefaultSplit: cfg.Schedule.DefaultSplit,
				TextFields:   cfg.Corpus.TextFields,
				Logger:       logger,
			})
			if err := srv.Listen(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d items on http://%s\n", ws.Corpus.Len(), srv.Addr())
			if err := srv.Serve(runCtx); err != nil {
				logger.Error("api server failed", logging.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind")
	return cmd
}
