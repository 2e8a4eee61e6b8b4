package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/pipeline"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the status server and the optional run schedule",
		Long: `Serves the status page and JSON API. Runs are triggered with
POST /api/runs and, when RUN_INTERVAL is set, on a fixed schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail fast on unknown dataset keys rather than on the first trigger.
			if _, err := core.Lookup(a.cfg.Pipeline.Datasets); err != nil {
				return err
			}

			p, closeFn, err := a.openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			runner := pipeline.NewRunner(p, a.cfg.Pipeline.Datasets, a.cfg.Pipeline.HistorySize)
			server := web.NewServer(runner, a.cfg.Server)

			slog.Info("datasets registered", "count", core.DatasetCount(), "dry_run", a.cfg.Pipeline.DryRun)

			// Background jobs stop with the command context.
			jobCtx, cancelJobs := context.WithCancel(cmd.Context())
			defer cancelJobs()
			go runner.StartScheduler(jobCtx, a.cfg.Pipeline.Interval)

			// Graceful shutdown
			go func() {
				<-cmd.Context().Done()
				slog.Info("shutting down...")
				cancelJobs()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("shutdown error", "error", err)
				}
			}()

			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
