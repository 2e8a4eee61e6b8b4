// Package pipeline runs datasets through extract, transform and load.
//
// A Pipeline handles one dataset at a time and always returns a report:
// failures are recorded in the report instead of stopping the caller.
// RunAll processes a dataset list sequentially under one run ID, and the
// Runner adds de-duplicated triggering, history and scheduling on top.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/logging"
)

// Extractor returns the raw worksheet behind a dataset.
type Extractor interface {
	Extract(ctx context.Context, info core.DatasetInfo) (core.RawTable, error)
}

// Loader writes a validated table and returns the rows written.
type Loader interface {
	Load(ctx context.Context, def core.DatasetDefinition, table *core.Table) (int64, error)
}

// Options tune a pipeline. Zero values fall back to defaults.
type Options struct {
	ScanLimit    int
	Completeness float64
	Timeout      time.Duration
	PreviewRows  int
	DryRun       bool
}

// Pipeline wires one extractor and one loader.
type Pipeline struct {
	extractor Extractor
	loader    Loader
	opts      Options
	now       func() time.Time
}

// New creates a pipeline.
func New(extractor Extractor, loader Loader, opts Options) *Pipeline {
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = core.DefaultScanLimit
	}
	if opts.Completeness <= 0 {
		opts.Completeness = core.DefaultCompleteness
	}
	if opts.PreviewRows < 0 {
		opts.PreviewRows = 0
	}
	return &Pipeline{extractor: extractor, loader: loader, opts: opts, now: time.Now}
}

// Run processes one dataset. The run ID is taken from ctx when present.
func (p *Pipeline) Run(ctx context.Context, def core.DatasetDefinition) core.DatasetReport {
	start := p.now()
	report := core.DatasetReport{
		RunID:     core.RunIDFromContext(ctx),
		Dataset:   def.Info.Key,
		StartedAt: start,
	}

	ctx = core.ContextWithDataset(ctx, def.Info.Key)
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}
	log := logging.FromContext(ctx)

	finish := func(status core.RunStatus, err error) core.DatasetReport {
		report.Status = status
		report.Duration = p.now().Sub(start)
		if err != nil {
			report.Error = err.Error()
			report.ErrorCode = core.MapError(err).Code
			log.Error("dataset failed", "error", err, "code", report.ErrorCode)
		}
		return report
	}

	raw, err := p.extractor.Extract(ctx, def.Info)
	if err != nil {
		return finish(core.StatusFailed, err)
	}
	report.Extracted = len(raw)

	result := core.NewTransformer(def,
		core.WithScanLimit(p.opts.ScanLimit),
		core.WithCompleteness(p.opts.Completeness),
	).Transform(raw)
	report.Transform = result.Report

	log.Info("dataset transformed",
		"extracted", report.Extracted,
		"header_index", result.Report.Header.HeaderIndex,
		"header_score", result.Report.Header.Score,
		"rows_dropped", result.Report.Filter.Dropped,
		"rows", result.Report.OutputRows,
	)
	if result.Report.Mapping.Warning != "" {
		log.Warn("column mapping", "warning", result.Report.Mapping.Warning)
	}
	if len(result.Report.MissingExpected) > 0 {
		log.Warn("expected columns missing", "columns", result.Report.MissingExpected)
	}

	if result.Empty || result.Table.NumRows() == 0 {
		log.Info("dataset empty, nothing to load")
		return finish(core.StatusEmpty, nil)
	}

	report.Profile = core.Profile(result.Table)
	report.Preview = result.Table.Head(p.opts.PreviewRows)

	loaded, err := p.loader.Load(ctx, def, result.Table)
	if err != nil {
		return finish(core.StatusFailed, err)
	}
	report.Loaded = loaded

	if p.opts.DryRun {
		log.Info("dataset validated (dry run)", "rows", loaded)
		return finish(core.StatusDryRun, nil)
	}
	log.Info("dataset loaded", "rows", loaded, "table", def.Info.TargetTable)
	return finish(core.StatusLoaded, nil)
}

// Summary collects the reports of one run.
type Summary struct {
	RunID     string               `json:"runId"`
	StartedAt time.Time            `json:"startedAt"`
	Duration  time.Duration        `json:"duration"`
	Reports   []core.DatasetReport `json:"reports"`
}

// Failed returns the number of datasets that ended in an error.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Reports {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Loaded returns the total rows written across datasets.
func (s Summary) Loaded() int64 {
	var n int64
	for _, r := range s.Reports {
		n += r.Loaded
	}
	return n
}

// Err returns an error when any dataset failed.
func (s Summary) Err() error {
	var errs []error
	for _, r := range s.Reports {
		if r.Failed() {
			errs = append(errs, errors.New(r.Dataset+": "+r.Error))
		}
	}
	return errors.Join(errs...)
}

// RunAll processes defs in order under a fresh run ID. A failing dataset
// is recorded and the run moves on. Datasets not started before ctx is
// cancelled are reported as skipped.
func (p *Pipeline) RunAll(ctx context.Context, defs []core.DatasetDefinition) Summary {
	summary := Summary{RunID: uuid.NewString(), StartedAt: p.now()}
	ctx = core.ContextWithRunID(ctx, summary.RunID)
	log := logging.FromContext(ctx)

	log.Info("run started", "datasets", len(defs), "dry_run", p.opts.DryRun)

	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			summary.Reports = append(summary.Reports, core.DatasetReport{
				RunID:   summary.RunID,
				Dataset: def.Info.Key,
				Status:  core.StatusSkipped,
				Error:   err.Error(),
			})
			continue
		}
		summary.Reports = append(summary.Reports, p.Run(ctx, def))
	}

	summary.Duration = p.now().Sub(summary.StartedAt)
	log.Info("run finished",
		"duration", summary.Duration,
		"failed", summary.Failed(),
		"loaded", summary.Loaded(),
	)
	return summary
}
