package rtkaller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rrooach/Rtkaller/internal/sys"
)

// TestCallIDTableStability covers Testable Property 1: each of the 30
// documented call names maps to the exact id in the source table, and
// round-trip id->name->id is identity on the defined domain.
func TestCallIDTableStability(t *testing.T) {
	wantOrder := []string{
		"ActivateTask", "TerminateTask", "ChainTask", "Schedule", "ForceSchedule",
		"GetTaskID", "GetTaskState", "DisableAllInterrupts", "EnableAllInterrupts",
		"SuspendAllInterrupts", "ResumeAllInterrupts", "SuspendOSInterrupts",
		"ResumeOSInterrupts", "GetResource", "ReleaseResource", "SetEvent",
		"ClearEvent", "GetEvent", "WaitEvent", "IncrementCounter", "GetAlarmBase",
		"GetAlarm", "SetRelAlarm", "SetAbsAlarm", "CancelAlarm",
		"GetActiveApplicationMode", "StartOS", "ShutdownOS", "GetCounterValue",
		"GetElapsedValue",
	}

	for wantID, name := range wantOrder {
		t.Run(name, func(t *testing.T) {
			id, ok := sys.IDOf(name)
			assert.True(t, ok)
			assert.Equal(t, sys.CallID(wantID), id)
			assert.Equal(t, name, id.Name())

			roundTripped, ok := sys.IDOf(id.Name())
			assert.True(t, ok)
			assert.Equal(t, id, roundTripped)
		})
	}
}

func TestCallIDUnknownName(t *testing.T) {
	_, ok := sys.IDOf("NotARealCall")
	assert.False(t, ok)
}

func TestStartOSCallFixedSymbol(t *testing.T) {
	c := StartOSCall()
	assert.Equal(t, "StartOS", c.Name)
	sym, ok := c.Args[0].AsSymbol()
	assert.True(t, ok)
	assert.Equal(t, "OSDEFAULTAPPMODE", sym)
}

func TestShutdownOSCallSingleNumArg(t *testing.T) {
	c := ShutdownOSCall(7)
	assert.Equal(t, "ShutdownOS", c.Name)
	assert.Len(t, c.Args, 1)
	assert.Equal(t, ValueNum, c.Args[0].Kind)
	assert.Equal(t, int64(7), c.Args[0].Num)
}

func TestGetElapsedValueCallArity(t *testing.T) {
	c := GetElapsedValueCall(Symbol("Counter1"))
	assert.Len(t, c.Args, 3)
	assert.Equal(t, ValuePtr, c.Args[1].Kind)
	assert.Equal(t, ValuePtr, c.Args[2].Kind)
}
