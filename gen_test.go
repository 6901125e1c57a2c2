package rtkaller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGeneratorTerminates covers Testable Property 3: for a valid APPConfig
// with at least one task, one ISR, and one enabled hook, Gen terminates and
// produces a Program where every task/ISR/enabled-hook has at least one
// call and at least one entity reaches >= 4 calls.
func TestGeneratorTerminates(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42, 1000} {
		app := DefaultAPPConfig()
		g := NewGenerator(&app, 32, seed)
		p := g.Gen()

		assert.True(t, p.AllNonEmpty(), "seed %d: every entity should have >=1 call", seed)
		assert.GreaterOrEqual(t, p.LongestSequence(), 4, "seed %d: longest sequence should be >= 4", seed)
	}
}

// TestGeneratorTaskStateInvariant covers Testable Property 4 by replaying
// each task's own sequence through the same hold/wait transition rule
// update_state applies (ignoring the interrupt auto-balance branches, which
// never touch task state) and asserting no blacklisted call is appended
// while the replay says the task is holding or waiting.
func TestGeneratorTaskStateInvariant(t *testing.T) {
	app := DefaultAPPConfig()
	g := NewGenerator(&app, 32, 7)
	p := g.Gen()

	for _, task := range p.Tasks {
		state := NormalState()
		for _, c := range task.Seq {
			if state.IsHolding() {
				assert.NotContains(t, []string{"Schedule", "WaitEvent", "GetResource"}, c.Name,
					"task %s: %s appended while HoldingResource(%s)", task.ID, c.Name, state.ID)
			}
			if state.IsWaiting() {
				assert.NotContains(t, []string{"WaitEvent", "GetResource"}, c.Name,
					"task %s: %s appended while WaitingEvent(%s)", task.ID, c.Name, state.ID)
			}
			state = replayState(state, c)
		}
	}
}

func replayState(state TaskState, c Call) TaskState {
	if state.IsHolding() && c.Name == "ReleaseResource" {
		if sym, ok := c.Args[0].AsSymbol(); ok && sym == state.ID {
			return NormalState()
		}
	}
	if state.Kind == StateNormal {
		switch c.Name {
		case "GetResource":
			if sym, ok := c.Args[0].AsSymbol(); ok {
				return HoldingResourceState(sym)
			}
		case "WaitEvent":
			if sym, ok := c.Args[0].AsSymbol(); ok {
				return WaitingEventState(sym)
			}
		}
	}
	return state
}

// TestGeneratorTerminationCall covers Testable Property 5: after Gen, each
// task sequence's last call is either TerminateTask or ChainTask.
func TestGeneratorTerminationCall(t *testing.T) {
	app := DefaultAPPConfig()
	g := NewGenerator(&app, 32, 99)
	p := g.Gen()

	for _, task := range p.Tasks {
		lastCall := task.Seq[len(task.Seq)-1].Name
		assert.Contains(t, []string{"TerminateTask", "ChainTask"}, lastCall, "task %s", task.ID)
	}
}

// TestCategory1ISRRestriction covers Testable Property 8: calls generated
// for a Category-1 ISR context belong only to the interrupt-enable/disable
// set.
func TestCategory1ISRRestriction(t *testing.T) {
	app := DefaultAPPConfig()
	prim := NewPrimitives(&app, 32, 13)
	allowed := map[string]bool{
		"DisableAllInterrupts": true, "EnableAllInterrupts": true,
		"SuspendAllInterrupts": true, "ResumeAllInterrupts": true,
		"SuspendOSInterrupts": true, "ResumeOSInterrupts": true,
	}
	ctx := Context{Kind: CtxISR, ISRMeta: &ISR{IsISR1: true, ID: "isr1"}}

	for i := 0; i < 500; i++ {
		c := prim.RandCall(ctx)
		assert.True(t, allowed[c.Name], "call %q not in the Category-1 interrupt set", c.Name)
	}
}
