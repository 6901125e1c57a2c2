package rtkaller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHookIterationOrder covers Testable Property 6: IterHook yields enabled
// hooks in the fixed order ERROR, PRE_TASK, POST_TASK, STARTUP, SHUTDOWN,
// skipping disabled kinds.
func TestHookIterationOrder(t *testing.T) {
	enabled := HookShutdown | HookError | HookPostTask
	h := NewHookInst(enabled)

	entries := h.IterHook()
	require.Len(t, entries, 3)
	assert.Equal(t, HookError, entries[0].Kind)
	assert.Equal(t, HookPostTask, entries[1].Kind)
	assert.Equal(t, HookShutdown, entries[2].Kind)
}

func TestHookInstAllDisabledYieldsNoEntries(t *testing.T) {
	h := NewHookInst(0)
	assert.Empty(t, h.IterHook())
}

func TestNewProgramMatchesAppConfigShape(t *testing.T) {
	app := DefaultAPPConfig()
	p := NewProgram(&app)

	assert.Len(t, p.Tasks, len(app.Tasks))
	assert.Len(t, p.ISR, len(app.ISR))
	for i, task := range app.Tasks {
		assert.Equal(t, task.ID, p.Tasks[i].ID)
		assert.Empty(t, p.Tasks[i].Seq)
	}
}

func TestProgramAllNonEmptyAndLongestSequence(t *testing.T) {
	app := DefaultAPPConfig()
	p := NewProgram(&app)
	assert.False(t, p.AllNonEmpty())
	assert.Equal(t, 0, p.LongestSequence())

	for i := range p.Tasks {
		p.Tasks[i].Seq = append(p.Tasks[i].Seq, ScheduleCall())
	}
	for i := range p.ISR {
		p.ISR[i].Seq = append(p.ISR[i].Seq, DisableAllInterruptsCall())
	}
	for _, e := range p.Hooks.IterHook() {
		p.Hooks.Append(e.Kind, GetActiveApplicationModeCall())
	}
	assert.True(t, p.AllNonEmpty())

	p.Tasks[0].Seq = append(p.Tasks[0].Seq, ScheduleCall(), ScheduleCall(), ScheduleCall())
	assert.Equal(t, 4, p.LongestSequence())
}
