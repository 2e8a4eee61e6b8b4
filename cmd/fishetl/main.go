// Command fishetl loads the farm's record-keeping spreadsheets into a
// database: it extracts each worksheet, detects the header row, normalizes
// and cleans the columns, drops incomplete rows and bulk-loads the result.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/config"
	_ "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core/datasets" // Register all datasets
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/extract"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/load"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/logging"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by subcommands once the root pre-run finished.
type app struct {
	envFile  string
	dryRun   bool
	datasets []string

	cfg      *config.Config
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "fishetl",
		Short:         "Load the farm spreadsheets into the database",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Environment file to load (default: .env)")
	root.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "Transform and validate without writing to the database")
	root.PersistentFlags().StringSliceVarP(&a.datasets, "dataset", "d", nil, "Dataset keys to process (default: all)")

	root.AddCommand(
		newRunCmd(a),
		newInspectCmd(a),
		newDatasetsCmd(),
		newMigrateCmd(a),
		newServeCmd(a),
	)
	return root
}

// annotationDryRun marks commands that never write to the database.
const annotationDryRun = "fishetl/dry-run"

// setup loads the env file and configuration and installs the logger.
// Flags take precedence over the environment.
func (a *app) setup(cmd *cobra.Command) error {
	var envErr error
	if a.envFile != "" {
		envErr = godotenv.Overload(a.envFile)
	} else {
		envErr = godotenv.Overload()
	}

	if a.dryRun || cmd.Annotations[annotationDryRun] == "true" {
		os.Setenv("DRY_RUN", "true")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}
	if len(a.datasets) > 0 {
		cfg.Pipeline.Datasets = a.datasets
	}

	closeLog, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.closeLog = closeLog

	if envErr != nil {
		if a.envFile != "" {
			return fmt.Errorf("load env file %s: %w", a.envFile, envErr)
		}
		slog.Debug("no .env file found, using environment variables")
	}
	slog.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// openPipeline connects the configured source and loader. The returned
// close function releases both.
func (a *app) openPipeline(ctx context.Context) (*pipeline.Pipeline, func(), error) {
	ext, err := extract.Open(a.cfg.Source)
	if err != nil {
		return nil, nil, err
	}

	loader, err := load.Open(ctx, a.cfg.Database, a.cfg.Pipeline)
	if err != nil {
		ext.Close()
		return nil, nil, err
	}

	p := pipeline.New(ext, loader, pipeline.Options{
		ScanLimit:    a.cfg.Pipeline.ScanLimit,
		Completeness: a.cfg.Pipeline.Completeness,
		Timeout:      a.cfg.Pipeline.Timeout,
		PreviewRows:  a.cfg.Pipeline.PreviewRows,
		DryRun:       a.cfg.Pipeline.DryRun,
	})

	closeFn := func() {
		if err := loader.Close(); err != nil {
			slog.Warn("close loader", "error", err)
		}
		if err := ext.Close(); err != nil {
			slog.Warn("close extractor", "error", err)
		}
	}
	return p, closeFn, nil
}
