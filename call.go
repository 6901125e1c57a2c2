package rtkaller

// Call pairs a static call name (one of the 30-entry closed vocabulary) with
// its ordered argument list. Grounded on prog.rs's Call struct; each
// constructor below fixes both the name and the structural arity/shape
// (which slots are Symbol-shaped vs Num-shaped vs Ptr-shaped) documented in
// spec.md §4.1.
type Call struct {
	Name string
	Args []Value
}

// The constructors below accept Value directly rather than a bare string/int
// plus a family of "_1"/"_2"/"_3" numeric-injection siblings (SPEC_FULL.md
// supplemented feature #6): callers pass Symbol(x) for the normal path or
// Num(n) for a type-violating substitution, and any symbolic slot can be
// independently substituted. primitives.go's substitution logic builds
// these calls by deciding, per slot, whether to pass Symbol or Num.

func ActivateTaskCall(task Value) Call {
	return Call{Name: "ActivateTask", Args: []Value{task}}
}

func TerminateTaskCall() Call {
	return Call{Name: "TerminateTask"}
}

func ChainTaskCall(task Value) Call {
	return Call{Name: "ChainTask", Args: []Value{task}}
}

func ScheduleCall() Call {
	return Call{Name: "Schedule"}
}

func ForceScheduleCall() Call {
	return Call{Name: "ForceSchedule"}
}

func GetTaskIDCall() Call {
	return Call{Name: "GetTaskID", Args: []Value{Ptr(PtrValue{Kind: PtrOut, Type: "TaskType"})}}
}

func GetTaskStateCall(task Value) Call {
	return Call{Name: "GetTaskState", Args: []Value{task, Ptr(PtrValue{Kind: PtrOut, Type: "TaskStateType"})}}
}

func DisableAllInterruptsCall() Call { return Call{Name: "DisableAllInterrupts"} }
func EnableAllInterruptsCall() Call  { return Call{Name: "EnableAllInterrupts"} }
func SuspendAllInterruptsCall() Call { return Call{Name: "SuspendAllInterrupts"} }
func ResumeAllInterruptsCall() Call  { return Call{Name: "ResumeAllInterrupts"} }
func SuspendOSInterruptsCall() Call  { return Call{Name: "SuspendOSInterrupts"} }
func ResumeOSInterruptsCall() Call   { return Call{Name: "ResumeOSInterrupts"} }

func GetResourceCall(res Value) Call {
	return Call{Name: "GetResource", Args: []Value{res}}
}

func ReleaseResourceCall(res Value) Call {
	return Call{Name: "ReleaseResource", Args: []Value{res}}
}

func SetEventCall(task, mask Value) Call {
	return Call{Name: "SetEvent", Args: []Value{task, mask}}
}

func ClearEventCall(mask Value) Call {
	return Call{Name: "ClearEvent", Args: []Value{mask}}
}

func GetEventCall(task Value) Call {
	return Call{Name: "GetEvent", Args: []Value{task, Ptr(PtrValue{Kind: PtrOut, Type: "EventMaskType"})}}
}

func WaitEventCall(mask Value) Call {
	return Call{Name: "WaitEvent", Args: []Value{mask}}
}

func IncrementCounterCall(counter Value) Call {
	return Call{Name: "IncrementCounter", Args: []Value{counter}}
}

func GetAlarmBaseCall(alarm Value) Call {
	return Call{Name: "GetAlarmBase", Args: []Value{alarm, Ptr(PtrValue{Kind: PtrOut, Type: "AlarmBaseType"})}}
}

func GetAlarmCall(alarm Value) Call {
	return Call{Name: "GetAlarm", Args: []Value{alarm, Ptr(PtrValue{Kind: PtrOut, Type: "TickType"})}}
}

func SetRelAlarmCall(alarm, increment, cycle Value) Call {
	return Call{Name: "SetRelAlarm", Args: []Value{alarm, increment, cycle}}
}

func SetAbsAlarmCall(alarm, start, cycle Value) Call {
	return Call{Name: "SetAbsAlarm", Args: []Value{alarm, start, cycle}}
}

func CancelAlarmCall(alarm Value) Call {
	return Call{Name: "CancelAlarm", Args: []Value{alarm}}
}

func GetActiveApplicationModeCall() Call {
	return Call{Name: "GetActiveApplicationMode"}
}

// StartOSCall always carries the fixed OSDEFAULTAPPMODE symbol argument
// (SPEC_FULL.md supplemented feature #4; prog.rs's start_os()).
func StartOSCall() Call {
	return Call{Name: "StartOS", Args: []Value{Symbol("OSDEFAULTAPPMODE")}}
}

// ShutdownOSCall takes a single numeric error-code argument; no symbolic
// variant exists for it in the source (SPEC_FULL.md supplemented feature #5).
func ShutdownOSCall(errCode int64) Call {
	return Call{Name: "ShutdownOS", Args: []Value{Num(errCode)}}
}

func GetCounterValueCall(counter Value) Call {
	return Call{Name: "GetCounterValue", Args: []Value{counter, Ptr(PtrValue{Kind: PtrOut, Type: "TickType"})}}
}

func GetElapsedValueCall(counter Value) Call {
	return Call{Name: "GetElapsedValue", Args: []Value{
		counter,
		Ptr(PtrValue{Kind: PtrOut, Type: "TickType"}),
		Ptr(PtrValue{Kind: PtrOut, Type: "TickType"}),
	}}
}
