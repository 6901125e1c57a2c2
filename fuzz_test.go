package rtkaller

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor returns a fixed Outcome for every Execute call, letting
// driver tests exercise classification without a real backend.
type stubExecutor struct {
	outcome Outcome
}

func (s *stubExecutor) Execute(_ context.Context, _ *Program) (Outcome, error) {
	return s.outcome, nil
}

func newTestDriver(t *testing.T, outcome Outcome) *Driver {
	t.Helper()
	app := DefaultAPPConfig()
	return &Driver{
		Gen:      NewGenerator(&app, 32, 1),
		Executor: &stubExecutor{outcome: outcome},
		Stats:    &Stats{},
		Ring:     NewRecentRing(WithCapacity(4)),
		Store:    &Store{Root: t.TempDir()},
		Log:      testLog(),
	}
}

// TestDriverStepSuccess covers Testable Property 9's driver-side half: one
// successful step increments executed to 1 and pushes one Program to the
// ring (spec.md §4.8).
func TestDriverStepSuccess(t *testing.T) {
	d := newTestDriver(t, Success())
	d.step(context.Background())

	assert.Equal(t, uint64(1), d.Stats.Executed())
	assert.Equal(t, 1, d.Ring.Len())
}

// TestDriverStepFailedPersistsAndDedups covers Testable Property 7 at the
// driver level: a Failed outcome persists under failed/<digest>/ and
// increments the failed counter.
func TestDriverStepFailedPersistsAndDedups(t *testing.T) {
	d := newTestDriver(t, Failed("boom"))
	d.step(context.Background())
	d.step(context.Background())

	assert.Equal(t, uint64(2), d.Stats.Failed())

	dir := filepath.Join(d.Store.Root, "failed", digest("boom"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"reason", "p0", "p1"}, names)
}

// TestDriverStepCrashedPersists covers Testable Property 10 at the driver
// level: a Crashed outcome writes crashed/<digest>/{reason,p0} and
// increments the crashed counter.
func TestDriverStepCrashedPersists(t *testing.T) {
	d := newTestDriver(t, Crashed("segfault"))
	d.step(context.Background())

	assert.Equal(t, uint64(1), d.Stats.Crashed())

	dir := filepath.Join(d.Store.Root, "crashed", digest("segfault"))
	_, err := os.Stat(filepath.Join(dir, "p0"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "reason"))
	assert.NoError(t, err)
}

func init() {
	logrus.StandardLogger().SetLevel(logrus.PanicLevel)
}
