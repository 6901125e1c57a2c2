package rtkaller

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
)

// Driver runs the single-threaded generate/execute/classify loop (spec.md
// §4.8, §5) plus its two auxiliary goroutines: a 10s stats sampler and a
// signal handler that drains the recent-ring on shutdown. Grounded on the
// teacher's separation between the mutex-guarded Ring and the lock-free
// atomic counters it samples from a different goroutine than the one that
// mutates them.
type Driver struct {
	Gen      *Generator
	Executor Executor
	Stats    *Stats
	Ring     *RecentRing
	Store    *Store
	Log      *logrus.Entry

	// Shutdown, if set, is called once by the signal handler before the
	// process exits (spec.md §4.8: "calls debugger Exit if applicable").
	Shutdown func(ctx context.Context) error
}

// Run starts the auxiliary goroutines and then blocks running the fuzz loop
// until ctx is cancelled or an execution returns an error, which Run returns.
// RunID is stamped into every log line.
func (d *Driver) Run(ctx context.Context, runID string) error {
	logBanner(d.Log, runID)

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go d.sampleStats(statsCtx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go d.handleSignal(ctx, sigCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := d.step(ctx); err != nil {
			return err
		}
	}
}

// step generates one Program, executes it, and classifies the outcome per
// spec.md §4.8. An executor error (an unresolvable symbol, a missing result
// marker) is not a classified outcome; step returns it so Run stops.
func (d *Driver) step(ctx context.Context) error {
	p := d.Gen.Gen()

	outcome, err := d.Executor.Execute(ctx, p)
	if err != nil {
		d.Log.WithError(err).Error("execution failed to complete")
		return err
	}

	switch outcome.Kind {
	case OutcomeSuccess:
		d.Ring.Push(p)
		d.Stats.IncExecuted()

	case OutcomeFailed:
		count := d.Stats.Failed()
		if err := d.Store.WriteFailed(p, outcome.Detail, count); err != nil {
			d.Log.WithError(err).Error("failed to persist failed case")
		}
		d.Stats.IncFailed()

	case OutcomeCrashed:
		d.Log.WithField("info", outcome.Detail).Warn("target crashed")
		count := d.Stats.Crashed()
		if err := d.Store.WriteCrashed(p, outcome.Detail, count); err != nil {
			d.Log.WithError(err).Error("failed to persist crashed case")
		}
		d.Stats.IncCrashed()
	}
	return nil
}

// sampleStats implements the stats-sampler auxiliary thread (spec.md §5.1):
// sleep 10s, log the three counters, repeat.
func (d *Driver) sampleStats(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Log.Info(d.Stats.String())
		}
	}
}

// handleSignal implements the signal-handler auxiliary thread (spec.md §5.2,
// §4.8): on interrupt, drain the recent-ring to exec/case_<i> files, call
// Shutdown if set, and terminate the process with status 0.
func (d *Driver) handleSignal(ctx context.Context, sigCh <-chan os.Signal) {
	select {
	case <-ctx.Done():
		return
	case <-sigCh:
	}

	cases := d.Ring.Drain()
	if err := d.Store.DumpExecCases(cases); err != nil {
		d.Log.WithError(err).Error("failed to dump exec cases on shutdown")
	}

	if d.Shutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.Shutdown(shutdownCtx); err != nil {
			d.Log.WithError(err).Error("debugger shutdown failed")
		}
	}

	os.Exit(0)
}
