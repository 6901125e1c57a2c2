package rtkaller

import "math/rand"

// holdResBlacklist and waitingBlacklist are the call names add_call rejects
// while a task holds a resource or waits on an event (spec.md §4.4.2).
var holdResBlacklist = map[string]bool{"Schedule": true, "WaitEvent": true, "GetResource": true}
var waitingBlacklist = map[string]bool{"WaitEvent": true, "GetResource": true}

// Generator synthesizes a Program against an APPConfig, following the
// stateful loop in spec.md §4.4. It owns its Primitives call factory and its
// own PRNG source (gen.rs uses rand::thread_rng() freely; here the rng is
// explicit and owned, matching the "no hidden process-global state" Design
// Note direction applied to the generator as well as the debugger session).
type Generator struct {
	app   *APPConfig
	prim  *Primitives
	rng   *rand.Rand
	state map[string]TaskState // keyed by task id
}

// NewGenerator builds a Generator for app using regSize-wide numeric
// substitutions and the given PRNG seed.
func NewGenerator(app *APPConfig, regSize uint8, seed int64) *Generator {
	return &Generator{
		app:   app,
		prim:  NewPrimitives(app, regSize, seed),
		rng:   rand.New(rand.NewSource(seed + 1)),
		state: initialState(app),
	}
}

func initialState(app *APPConfig) map[string]TaskState {
	m := make(map[string]TaskState, len(app.Tasks))
	for _, t := range app.Tasks {
		m[t.ID] = NormalState()
	}
	return m
}

// Gen runs the main loop to completion and returns the generated Program.
// Each iteration draws one value in 0..9 (gen.rs's rng.gen_range(0, 9)):
// 0..=5 grows a task sequence, 6..=7 grows an ISR sequence, 8 grows a hook
// sequence. Every task starts the run in the Normal state.
func (g *Generator) Gen() *Program {
	p := NewProgram(g.app)
	g.state = initialState(g.app)

	for {
		switch roll := g.rng.Intn(9); {
		case roll <= 5:
			g.genTask(p)
		case roll <= 7:
			g.genISR(p)
		default:
			g.genHook(p)
		}
		if g.shouldStop(p) {
			break
		}
	}

	g.termTasks(p)
	return p
}

// shouldStop implements spec.md §4.4's termination rule: every task, every
// ISR, and every enabled hook sequence is non-empty, AND the longest
// sequence across all entities is >= 4.
func (g *Generator) shouldStop(p *Program) bool {
	return p.AllNonEmpty() && p.LongestSequence() >= 4
}

// genTask implements gen_task (spec.md §4.4.1): prefer a task not currently
// WaitingEvent; try to wake a waiting task; else try to release a held
// resource (0.85 probability); else add_call.
func (g *Generator) genTask(p *Program) {
	idx := g.pickTaskIndex()
	t := &p.Tasks[idx]
	st := g.state[t.ID]

	if task, event, ok := g.anyWaitingTask(); ok {
		if !st.IsWaiting() {
			t.Seq = append(t.Seq, SetEventCall(Symbol(task), Symbol(event)))
			g.state[task] = NormalState()
			return
		}
	}

	if st.IsHolding() {
		if g.rng.Float32() < 0.85 {
			t.Seq = append(t.Seq, ReleaseResourceCall(Symbol(st.ID)))
			g.state[t.ID] = NormalState()
			return
		}
	}

	g.addCall(t)
}

// pickTaskIndex prefers a task whose state != WaitingEvent; if all are
// waiting, picks any.
func (g *Generator) pickTaskIndex() int {
	var candidates []int
	for i, t := range g.app.Tasks {
		if !g.state[t.ID].IsWaiting() {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return g.rng.Intn(len(g.app.Tasks))
	}
	return candidates[g.rng.Intn(len(candidates))]
}

func (g *Generator) anyWaitingTask() (task, event string, ok bool) {
	for _, t := range g.app.Tasks {
		if st := g.state[t.ID]; st.IsWaiting() {
			return t.ID, st.ID, true
		}
	}
	return "", "", false
}

// addCall draws from RandCall in a rejection loop, forbidding nested
// blocking while holding a resource or waiting on an event (§4.4.2).
func (g *Generator) addCall(t *TaskInst) {
	task := g.taskConfig(t.ID)
	ctx := Context{Kind: CtxTask, Task: task}

	for {
		c := g.prim.RandCall(ctx)

		st := g.state[t.ID]
		if st.IsHolding() && holdResBlacklist[c.Name] {
			continue
		}
		if st.IsWaiting() && waitingBlacklist[c.Name] {
			continue
		}

		t.Seq = append(t.Seq, c)
		g.updateState(t, c)
		return
	}
}

func (g *Generator) taskConfig(id string) *Task {
	for i := range g.app.Tasks {
		if g.app.Tasks[i].ID == id {
			return &g.app.Tasks[i]
		}
	}
	return nil
}

// updateState implements update_state (§4.4.2): self-balancing interrupt
// criticals at 0.92, release-matches-hold transition to Normal, and
// Normal -> HoldingResource/WaitingEvent on GetResource/WaitEvent.
func (g *Generator) updateState(t *TaskInst, c Call) {
	switch c.Name {
	case "DisableAllInterrupts":
		if g.rng.Float32() > 0.08 {
			t.Seq = append(t.Seq, EnableAllInterruptsCall())
			return
		}
	case "SuspendAllInterrupts":
		if g.rng.Float32() > 0.08 {
			t.Seq = append(t.Seq, ResumeAllInterruptsCall())
			return
		}
	case "SuspendOSInterrupts":
		if g.rng.Float32() > 0.08 {
			t.Seq = append(t.Seq, ResumeOSInterruptsCall())
			return
		}
	}

	st := g.state[t.ID]
	if st.IsHolding() && c.Name == "ReleaseResource" {
		if sym, ok := c.Args[0].AsSymbol(); ok && sym == st.ID {
			g.state[t.ID] = NormalState()
			return
		}
	}

	if st.Kind == StateNormal {
		switch c.Name {
		case "GetResource":
			if sym, ok := c.Args[0].AsSymbol(); ok {
				g.state[t.ID] = HoldingResourceState(sym)
			}
		case "WaitEvent":
			if sym, ok := c.Args[0].AsSymbol(); ok {
				g.state[t.ID] = WaitingEventState(sym)
			}
		}
	}
}

// genISR implements gen_isr1/gen_isr2 (§4.4.3): with 5% probability (and if
// any Category-1 ISR exists), append a raw interrupt call to a
// uniformly-chosen ISR; otherwise wake a waiting task via SetEvent, or emit
// a random Category-2 call.
func (g *Generator) genISR(p *Program) {
	if len(p.ISR) == 0 {
		return
	}
	if g.rng.Float32() < 0.05 && g.anyISR1() {
		g.genISR1(p)
		return
	}
	g.genISR2(p)
}

func (g *Generator) anyISR1() bool {
	for _, isr := range g.app.ISR {
		if isr.IsISR1 {
			return true
		}
	}
	return false
}

func (g *Generator) genISR1(p *Program) {
	idx := g.rng.Intn(len(p.ISR))
	isr := &p.ISR[idx]
	ctx := Context{Kind: CtxISR, ISRMeta: &isr.Meta}
	isr.Seq = append(isr.Seq, g.prim.RandCall(ctx))
}

func (g *Generator) genISR2(p *Program) {
	idx := g.rng.Intn(len(p.ISR))
	isr := &p.ISR[idx]
	if task, event, ok := g.anyWaitingTask(); ok {
		isr.Seq = append(isr.Seq, SetEventCall(Symbol(task), Symbol(event)))
		g.state[task] = NormalState()
		return
	}
	ctx := Context{Kind: CtxISR, ISRMeta: &isr.Meta}
	isr.Seq = append(isr.Seq, g.prim.RandCall(ctx))
}

// genHook implements gen_hook (§4.4.3): collect the enabled hook sequences
// and pick one uniformly, then append a RandCall for that hook kind.
func (g *Generator) genHook(p *Program) {
	entries := p.Hooks.IterHook()
	if len(entries) == 0 {
		return
	}
	i := g.rng.Intn(len(entries))
	kind := entries[i].Kind
	ctx := Context{Kind: CtxHook, HookKind: kind}
	p.Hooks.Append(kind, g.prim.RandCall(ctx))
}

// termTasks gives every task a terminating call: 50% TerminateTask, else
// ChainTask (itself subject to the ≈10% numeric-substitution rule per
// SPEC_FULL.md #6 / primitives.rs's chain_task).
func (g *Generator) termTasks(p *Program) {
	for i := range p.Tasks {
		if g.rng.Intn(2) == 0 {
			p.Tasks[i].Seq = append(p.Tasks[i].Seq, TerminateTaskCall())
		} else {
			p.Tasks[i].Seq = append(p.Tasks[i].Seq, g.prim.ChainTask())
		}
	}
}
