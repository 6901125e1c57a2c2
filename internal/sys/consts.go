// Package sys provides the low-level wire constants and record layout shared
// between the generator, the serializer, and the debugger backend: the
// call-id table (the ABI contract with the target-side kernel stub) and the
// rendezvous protocol's well-known state values.
package sys

// CallID identifies one of the 30 system-call shapes on the wire. The
// numeric assignment below IS the ABI contract described in spec.md §4.1 and
// must be preserved bit-exact; it is taken directly from the original
// source's id_of() table (exec.rs) and is not alphabetical or otherwise
// derivable — do not reorder.
type CallID uint32

const (
	ActivateTask CallID = iota
	TerminateTask
	ChainTask
	Schedule
	ForceSchedule
	GetTaskID
	GetTaskState
	DisableAllInterrupts
	EnableAllInterrupts
	SuspendAllInterrupts
	ResumeAllInterrupts
	SuspendOSInterrupts
	ResumeOSInterrupts
	GetResource
	ReleaseResource
	SetEvent
	ClearEvent
	GetEvent
	WaitEvent
	IncrementCounter
	GetAlarmBase
	GetAlarm
	SetRelAlarm
	SetAbsAlarm
	CancelAlarm
	GetActiveApplicationMode
	StartOS
	ShutdownOS
	GetCounterValue
	GetElapsedValue

	numCallIDs = GetElapsedValue + 1
)

var callNames = [numCallIDs]string{
	ActivateTask:             "ActivateTask",
	TerminateTask:            "TerminateTask",
	ChainTask:                "ChainTask",
	Schedule:                 "Schedule",
	ForceSchedule:            "ForceSchedule",
	GetTaskID:                "GetTaskID",
	GetTaskState:             "GetTaskState",
	DisableAllInterrupts:     "DisableAllInterrupts",
	EnableAllInterrupts:      "EnableAllInterrupts",
	SuspendAllInterrupts:     "SuspendAllInterrupts",
	ResumeAllInterrupts:      "ResumeAllInterrupts",
	SuspendOSInterrupts:      "SuspendOSInterrupts",
	ResumeOSInterrupts:       "ResumeOSInterrupts",
	GetResource:              "GetResource",
	ReleaseResource:          "ReleaseResource",
	SetEvent:                 "SetEvent",
	ClearEvent:               "ClearEvent",
	GetEvent:                 "GetEvent",
	WaitEvent:                "WaitEvent",
	IncrementCounter:         "IncrementCounter",
	GetAlarmBase:             "GetAlarmBase",
	GetAlarm:                 "GetAlarm",
	SetRelAlarm:              "SetRelAlarm",
	SetAbsAlarm:              "SetAbsAlarm",
	CancelAlarm:              "CancelAlarm",
	GetActiveApplicationMode: "GetActiveApplicationMode",
	StartOS:                  "StartOS",
	ShutdownOS:               "ShutdownOS",
	GetCounterValue:          "GetCounterValue",
	GetElapsedValue:          "GetElapsedValue",
}

var nameToID = func() map[string]CallID {
	m := make(map[string]CallID, len(callNames))
	for id, n := range callNames {
		m[n] = CallID(id)
	}
	return m
}()

// Name returns the call's canonical wire name.
func (c CallID) Name() string {
	if int(c) < 0 || int(c) >= len(callNames) {
		return ""
	}
	return callNames[c]
}

// IDOf resolves a call name to its wire id. ok is false for unknown names;
// callers are expected to treat that as fatal per spec.md §4.1.
func IDOf(name string) (CallID, bool) {
	id, ok := nameToID[name]
	return id, ok
}

// Record layout constants, spec.md §4.5.
const (
	RecordSize = 20 // 4-byte call id + four 4-byte argument slots
	ArgSlots   = 4
	BufferSize = 1024
	Terminator = uint32(0x0000FFFF)
	TermBytes  = 4
	MaxRecords = (BufferSize - TermBytes) / RecordSize // 51: records that fit ahead of the terminator
)

// Rendezvous protocol constants, spec.md §4.6 / §6.
const (
	TaskReady  uint32 = 0x0001
	DataReady  uint32 = 0x0010
	ExecFinish uint32 = 0x1000
	OSCrashed  uint32 = 1
)

// Retry-loop shapes used throughout the debugger backend (§4.6).
const (
	WaitReadyRetries   = 600
	WaitReadyInterval  = 5 // ms
	MonitorRetries     = 200
	MonitorInterval    = 50 // ms
	CrashInfoRetries   = 100
	CrashInfoInterval  = 200 // ms
	MemRetryInterval   = 5    // ms
	MemRetryTimeoutSec = 10
	AttachRetries      = 3
	AttachInterval     = 100 // ms
)

// PossibleRegSizes enumerates the only valid --reg-size values (rtk_erika.rs
// POSSIBLE_SIZE), validated at CLI-parse time per SPEC_FULL.md #2.
var PossibleRegSizes = [4]uint8{8, 16, 32, 64}
