package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

// ErrRunInProgress is returned by Trigger when the request joined a run
// that was already executing.
var ErrRunInProgress = errors.New("run already in progress")

// DefaultHistorySize is the number of summaries a Runner keeps.
const DefaultHistorySize = 20

// BatchRunner runs a list of datasets. *Pipeline implements it.
type BatchRunner interface {
	RunAll(ctx context.Context, defs []core.DatasetDefinition) Summary
}

// Runner serializes runs of the configured datasets. Concurrent callers
// share the run in flight instead of starting another.
type Runner struct {
	batch    BatchRunner
	datasets []string

	group   singleflight.Group
	running atomic.Bool

	mu      sync.RWMutex
	history []Summary // newest first
	size    int
}

// NewRunner creates a runner for the given dataset keys (empty means all).
func NewRunner(batch BatchRunner, datasets []string, historySize int) *Runner {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Runner{batch: batch, datasets: datasets, size: historySize}
}

// Run executes one run and waits for it. If a run is already executing,
// Run waits for that one and returns its summary. The run itself is
// detached from ctx: cancelling ctx stops the wait, not the shared run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	defs, err := core.Lookup(r.datasets)
	if err != nil {
		return Summary{}, err
	}

	runCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("run", func() (any, error) {
		r.running.Store(true)
		defer r.running.Store(false)

		s := r.batch.RunAll(runCtx, defs)
		r.record(s)
		return s, nil
	})

	select {
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Summary{}, res.Err
		}
		return res.Val.(Summary), nil
	}
}

// Trigger starts a run in the background, detached from ctx cancellation.
// It returns ErrRunInProgress when a run is already executing; the trigger
// is absorbed by that run.
func (r *Runner) Trigger(ctx context.Context) error {
	if _, err := core.Lookup(r.datasets); err != nil {
		return err
	}
	if r.running.Load() {
		return ErrRunInProgress
	}

	go func() {
		if _, err := r.Run(context.WithoutCancel(ctx)); err != nil {
			slog.Error("triggered run failed", "error", err)
		}
	}()
	return nil
}

// Running reports whether a run is executing.
func (r *Runner) Running() bool {
	return r.running.Load()
}

func (r *Runner) record(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append([]Summary{s}, r.history...)
	if len(r.history) > r.size {
		r.history = r.history[:r.size]
	}
}

// Last returns the most recent summary.
func (r *Runner) Last() (Summary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.history) == 0 {
		return Summary{}, false
	}
	return r.history[0], true
}

// History returns recorded summaries, newest first.
func (r *Runner) History() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Summary, len(r.history))
	copy(out, r.history)
	return out
}

// StartScheduler runs every interval until ctx is cancelled. A tick that
// lands while a run is executing joins it. The first run starts after one
// interval.
func (r *Runner) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	slog.Info("run scheduler started", "interval", interval, "datasets", r.datasets)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("run scheduler stopped")
			return
		case <-ticker.C:
			s, err := r.Run(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("scheduled run failed", "error", err)
				}
				continue
			}
			if s.Failed() > 0 {
				slog.Warn("scheduled run finished with failures", "run_id", s.RunID, "failed", s.Failed())
			}
		}
	}
}
