package rtkaller

import (
	"math/rand"

	"github.com/Rrooach/Rtkaller/internal/sys"
)

// PossibleRegSizes are the only valid register widths (rtk_erika.rs's
// POSSIBLE_SIZE), re-exported from internal/sys so CLI validation and the
// generator share one definition.
var PossibleRegSizes = sys.PossibleRegSizes

// ContextKind tags which of the three generation contexts rand_call is being
// asked to emit for.
type ContextKind uint8

const (
	CtxTask ContextKind = iota
	CtxISR
	CtxHook
)

// Context mirrors gen.rs/primitives.rs's InstType: the generator passes one
// of these to RandCall to say what kind of entity (and, for ISR/Hook, which
// specific one) the emitted Call will be appended to.
type Context struct {
	Kind     ContextKind
	Task     *Task // set when Kind == CtxTask
	ISRMeta  *ISR  // set when Kind == CtxISR
	HookKind HookType
}

// Primitives is the generator-owned call factory configuration. Unlike
// primitives.rs's REG_SIZE thread_local, RegSize here is an explicit field
// set once at startup and threaded through the generator (spec.md §9 Design
// Notes: "promote to a value owned by the generator configuration; no
// thread-local state").
type Primitives struct {
	App     *APPConfig
	RegSize uint8
	rng     *rand.Rand
}

// NewPrimitives builds a call factory for app with the given register width
// (validated by the caller against PossibleRegSizes) and a private PRNG
// source so concurrent Primitives instances (e.g. in tests) don't share
// math/rand's global lock.
func NewPrimitives(app *APPConfig, regSize uint8, seed int64) *Primitives {
	return &Primitives{App: app, RegSize: regSize, rng: rand.New(rand.NewSource(seed))}
}

// randRegNum draws a random integer of the configured register width,
// widened to 64 bits, matching primitives.rs's rand_reg_num.
func (p *Primitives) randRegNum(signed bool) int64 {
	switch p.RegSize {
	case 8:
		if signed {
			return int64(int8(p.rng.Intn(256)))
		}
		return int64(uint8(p.rng.Intn(256)))
	case 16:
		if signed {
			return int64(int16(p.rng.Intn(65536)))
		}
		return int64(uint16(p.rng.Intn(65536)))
	case 64:
		// The full 64-bit pattern; an unsigned draw above MaxInt64 keeps its
		// bits and reads as negative in int64.
		return int64(p.rng.Uint64())
	default: // 32
		if signed {
			return int64(int32(p.rng.Uint32()))
		}
		return int64(uint32(p.rng.Uint32()))
	}
}

func (p *Primitives) randRegSigned() int64   { return p.randRegNum(true) }
func (p *Primitives) randRegUnsigned() int64 { return p.randRegNum(false) }

// substituteChance is the ≈0.09 type-violation probability from spec.md
// §4.3. Individual call sites below use the source's own literal
// thresholds (0.1, 0.09, 0.08) rather than a single shared constant, to
// preserve the original distribution exactly per call kind.
const substituteChance = 0.09

func (p *Primitives) chance(threshold float64) bool { return p.rng.Float32() < float32(threshold) }

// RandCall dispatches uniformly across six families (task, interrupt,
// resource, event, counter/alarm, other) then restricts emission to what's
// legal for ctx, matching primitives.rs's rand_call/PRIMITIVES table.
func (p *Primitives) RandCall(ctx Context) Call {
	families := [...]func(Context) Call{
		p.randTaskCall,
		p.randIntCall,
		p.randResCall,
		p.randEventCall,
		p.randCntCall,
		p.randOther,
	}
	return families[p.rng.Intn(len(families))](ctx)
}

func (p *Primitives) randTaskCall(ctx Context) Call {
	switch ctx.Kind {
	case CtxTask:
		switch p.rng.Intn(5) {
		case 0:
			return p.activateTask()
		case 1:
			return ScheduleCall()
		case 2:
			return ForceScheduleCall()
		case 3:
			return GetTaskIDCall()
		default:
			return p.getTaskState()
		}
	case CtxISR:
		if ctx.ISRMeta.IsISR1 {
			return p.randISR1()
		}
		switch p.rng.Intn(3) {
		case 0:
			return p.activateTask()
		case 1:
			return GetTaskIDCall()
		default:
			return p.getTaskState()
		}
	default: // CtxHook
		switch ctx.HookKind {
		case HookStartup:
			return p.randStartupHook()
		case HookShutdown:
			return p.randShutdownHook()
		default:
			if p.rng.Intn(2) == 0 {
				return GetTaskIDCall()
			}
			return p.getTaskState()
		}
	}
}

func (p *Primitives) randIntCall(ctx Context) Call {
	if ctx.Kind == CtxHook {
		switch ctx.HookKind {
		case HookStartup:
			return p.randStartupHook()
		case HookShutdown:
			return p.randShutdownHook()
		default:
			if p.rng.Intn(2) == 0 {
				return SuspendAllInterruptsCall()
			}
			return ResumeAllInterruptsCall()
		}
	}
	return p.randISR1()
}

func (p *Primitives) randResCall(ctx Context) Call {
	switch ctx.Kind {
	case CtxTask:
		if p.rng.Intn(2) == 0 {
			_, call := p.getRes(ctx.Task)
			return call
		}
		return p.releaseRes("", false)
	case CtxISR:
		// TODO: add resource support to ISR contexts.
		return p.releaseRes("", false)
	default:
		return p.randShutdownHook()
	}
}

func (p *Primitives) randEventCall(ctx Context) Call {
	switch ctx.Kind {
	case CtxTask:
		switch p.rng.Intn(4) {
		case 0:
			return p.setEvent()
		case 1:
			return p.clearEvent(ctx.Task)
		case 2:
			return p.getEvent()
		default:
			_, call := p.waitEvent(ctx.Task)
			return call
		}
	case CtxISR:
		if ctx.ISRMeta.IsISR1 {
			return p.randISR1()
		}
		if p.rng.Intn(2) == 0 {
			return p.setEvent()
		}
		return p.getEvent()
	default:
		switch ctx.HookKind {
		case HookStartup:
			return p.randStartupHook()
		case HookShutdown:
			return p.randShutdownHook()
		default:
			return p.getEvent()
		}
	}
}

func (p *Primitives) randCntCall(ctx Context) Call {
	switch ctx.Kind {
	case CtxTask:
		return p.randCntAll()
	case CtxISR:
		if ctx.ISRMeta.IsISR1 {
			return p.randISR1()
		}
		return p.randCntAll()
	default:
		switch ctx.HookKind {
		case HookStartup:
			return p.randStartupHook()
		case HookShutdown:
			return p.randShutdownHook()
		default:
			if p.rng.Intn(2) == 0 {
				return p.getAlarmBase()
			}
			return p.getAlarm()
		}
	}
}

func (p *Primitives) randOther(ctx Context) Call {
	switch ctx.Kind {
	case CtxTask:
		switch p.rng.Intn(3) {
		case 0:
			return GetActiveApplicationModeCall()
		case 1:
			return StartOSCall()
		default:
			return p.shutdown()
		}
	case CtxISR:
		if ctx.ISRMeta.IsISR1 {
			return p.randISR1()
		}
		if p.rng.Intn(2) == 0 {
			return GetActiveApplicationModeCall()
		}
		return p.shutdown()
	default:
		if ctx.HookKind == HookError || ctx.HookKind == HookStartup {
			return p.randStartupHook()
		}
		return p.randShutdownHook()
	}
}

func (p *Primitives) randShutdownHook() Call { return GetActiveApplicationModeCall() }

func (p *Primitives) randStartupHook() Call {
	if p.rng.Intn(2) == 0 {
		return GetActiveApplicationModeCall()
	}
	return p.shutdown()
}

func (p *Primitives) randISR1() Call {
	switch p.rng.Intn(6) {
	case 0:
		return DisableAllInterruptsCall()
	case 1:
		return EnableAllInterruptsCall()
	case 2:
		return SuspendAllInterruptsCall()
	case 3:
		return ResumeAllInterruptsCall()
	case 4:
		return SuspendOSInterruptsCall()
	default:
		return ResumeOSInterruptsCall()
	}
}

func (p *Primitives) randCntAll() Call {
	switch p.rng.Intn(8) {
	case 0:
		return p.incCounter()
	case 1:
		return p.getAlarmBase()
	case 2:
		return p.getAlarm()
	case 3:
		return p.setRelAlarm()
	case 4:
		return p.setAbsAlarm()
	case 5:
		return p.cancelAlarm()
	case 6:
		return p.getCounterValue()
	default:
		return p.getElapsed()
	}
}

// --- symbolic/numeric substitution leaves, each preserving the source's own
// literal probability threshold (0.1, 0.09, or 0.08) per call kind. ---

func (p *Primitives) activateTask() Call {
	if p.chance(0.1) {
		return ActivateTaskCall(Num(p.randRegSigned()))
	}
	t := p.App.Tasks[p.rng.Intn(len(p.App.Tasks))]
	return ActivateTaskCall(Symbol(t.ID))
}

// ChainTask builds a ChainTask call, exported because the generator's
// termination step (gen.go) calls it directly outside of RandCall.
func (p *Primitives) ChainTask() Call {
	if p.chance(0.1) {
		return ChainTaskCall(Num(p.randRegSigned()))
	}
	t := p.App.Tasks[p.rng.Intn(len(p.App.Tasks))]
	return ChainTaskCall(Symbol(t.ID))
}

func (p *Primitives) getTaskState() Call {
	if p.chance(0.1) {
		return GetTaskStateCall(Num(p.randRegSigned()))
	}
	t := p.App.Tasks[p.rng.Intn(len(p.App.Tasks))]
	return GetTaskStateCall(Symbol(t.ID))
}

// getRes returns the chosen resource name (empty if none/substituted) and
// the Call, mirroring primitives.rs's get_res returning (Option<String>, Call)
// so the generator can learn which resource was acquired.
func (p *Primitives) getRes(t *Task) (string, Call) {
	if len(t.Resources) == 0 || p.chance(0.1) {
		return "", GetResourceCall(Num(p.randRegUnsigned()))
	}
	r := t.Resources[p.rng.Intn(len(t.Resources))]
	return r, GetResourceCall(Symbol(r))
}

func (p *Primitives) releaseRes(r string, known bool) Call {
	if known {
		return ReleaseResourceCall(Symbol(r))
	}
	return ReleaseResourceCall(Num(p.randRegUnsigned()))
}

func (p *Primitives) setEvent() Call {
	candidates := tasksWithEvents(p.App.Tasks)
	if len(candidates) == 0 {
		return SetEventCall(Num(p.randRegSigned()), Num(p.randRegUnsigned()))
	}
	t := candidates[p.rng.Intn(len(candidates))]
	return p.setTaskEvent(t)
}

func (p *Primitives) setTaskEvent(t Task) Call {
	e := t.Events[p.rng.Intn(len(t.Events))]
	task := Symbol(t.ID)
	if p.chance(0.08) {
		task = Num(p.randRegSigned())
	}
	if !p.chance(0.08) {
		return SetEventCall(task, Symbol(e))
	}
	return SetEventCall(task, Num(p.randRegUnsigned()))
}

func (p *Primitives) clearEvent(t *Task) Call {
	if len(t.Events) == 0 {
		return ClearEventCall(Num(p.randRegUnsigned()))
	}
	e := t.Events[p.rng.Intn(len(t.Events))]
	if !p.chance(substituteChance) {
		return ClearEventCall(Symbol(e))
	}
	return ClearEventCall(Num(p.randRegUnsigned()))
}

func (p *Primitives) getEvent() Call {
	candidates := tasksWithEvents(p.App.Tasks)
	if len(candidates) == 0 {
		return GetEventCall(Num(p.randRegUnsigned()))
	}
	t := candidates[p.rng.Intn(len(candidates))]
	if !p.chance(substituteChance) {
		return GetEventCall(Symbol(t.ID))
	}
	return GetEventCall(Num(p.randRegUnsigned()))
}

// waitEvent returns the chosen event name (empty if none/substituted) and
// the Call, so the generator can learn which event the task now waits on.
func (p *Primitives) waitEvent(t *Task) (string, Call) {
	if len(t.Events) == 0 {
		return "", WaitEventCall(Num(p.randRegUnsigned()))
	}
	e := t.Events[p.rng.Intn(len(t.Events))]
	if !p.chance(substituteChance) {
		return e, WaitEventCall(Symbol(e))
	}
	return "", WaitEventCall(Num(p.randRegUnsigned()))
}

func (p *Primitives) incCounter() Call {
	if len(p.App.Counters) == 0 {
		return IncrementCounterCall(Num(p.randRegUnsigned()))
	}
	c := p.App.Counters[p.rng.Intn(len(p.App.Counters))]
	if !p.chance(substituteChance) {
		return IncrementCounterCall(Symbol(c))
	}
	return IncrementCounterCall(Num(p.randRegSigned()))
}

func (p *Primitives) getCounterValue() Call {
	if len(p.App.Counters) == 0 {
		return GetCounterValueCall(Num(p.randRegUnsigned()))
	}
	c := p.App.Counters[p.rng.Intn(len(p.App.Counters))]
	if !p.chance(substituteChance) {
		return GetCounterValueCall(Symbol(c))
	}
	return GetCounterValueCall(Num(p.randRegSigned()))
}

func (p *Primitives) getElapsed() Call {
	if len(p.App.Counters) == 0 {
		return GetElapsedValueCall(Num(p.randRegUnsigned()))
	}
	c := p.App.Counters[p.rng.Intn(len(p.App.Counters))]
	if !p.chance(substituteChance) {
		return GetElapsedValueCall(Symbol(c))
	}
	return GetElapsedValueCall(Num(p.randRegSigned()))
}

func (p *Primitives) getAlarmBase() Call {
	if len(p.App.Alarms) == 0 {
		return GetAlarmBaseCall(Num(p.randRegUnsigned()))
	}
	a := p.App.Alarms[p.rng.Intn(len(p.App.Alarms))]
	if !p.chance(substituteChance) {
		return GetAlarmBaseCall(Symbol(a))
	}
	return GetAlarmBaseCall(Num(p.randRegSigned()))
}

func (p *Primitives) getAlarm() Call {
	if len(p.App.Alarms) == 0 {
		return GetAlarmCall(Num(p.randRegUnsigned()))
	}
	a := p.App.Alarms[p.rng.Intn(len(p.App.Alarms))]
	if !p.chance(substituteChance) {
		return GetAlarmCall(Symbol(a))
	}
	return GetAlarmCall(Num(p.randRegSigned()))
}

func (p *Primitives) setRelAlarm() Call {
	if len(p.App.Alarms) == 0 {
		return SetRelAlarmCall(Num(p.randRegSigned()), Num(p.randRegUnsigned()), Num(p.randRegUnsigned()))
	}
	a := p.App.Alarms[p.rng.Intn(len(p.App.Alarms))]
	if !p.chance(substituteChance) {
		return SetRelAlarmCall(Symbol(a), Num(p.randRegUnsigned()), Num(p.randRegUnsigned()))
	}
	return SetRelAlarmCall(Num(p.randRegSigned()), Num(p.randRegUnsigned()), Num(p.randRegUnsigned()))
}

func (p *Primitives) setAbsAlarm() Call {
	if len(p.App.Alarms) == 0 {
		return SetAbsAlarmCall(Num(p.randRegSigned()), Num(p.randRegUnsigned()), Num(p.randRegUnsigned()))
	}
	a := p.App.Alarms[p.rng.Intn(len(p.App.Alarms))]
	if !p.chance(substituteChance) {
		return SetAbsAlarmCall(Symbol(a), Num(p.randRegUnsigned()), Num(p.randRegUnsigned()))
	}
	return SetAbsAlarmCall(Num(p.randRegSigned()), Num(p.randRegUnsigned()), Num(p.randRegUnsigned()))
}

func (p *Primitives) cancelAlarm() Call {
	if len(p.App.Alarms) == 0 {
		return CancelAlarmCall(Num(p.randRegSigned()))
	}
	a := p.App.Alarms[p.rng.Intn(len(p.App.Alarms))]
	if !p.chance(substituteChance) {
		return CancelAlarmCall(Symbol(a))
	}
	return CancelAlarmCall(Num(p.randRegSigned()))
}

func (p *Primitives) shutdown() Call {
	return ShutdownOSCall(int64(uint8(p.rng.Intn(256))))
}

func tasksWithEvents(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if len(t.Events) > 0 {
			out = append(out, t)
		}
	}
	return out
}
