package rtkaller

// TaskInst is one task's append-only generated call sequence, grounded on
// prog.rs's TaskInst.
type TaskInst struct {
	ID  string
	Seq []Call
}

// ISRInst is one ISR's append-only generated call sequence plus its
// configuration metadata, grounded on prog.rs's ISRInst.
type ISRInst struct {
	Meta ISR
	Seq  []Call
}

// HookInst holds up to five optional hook sequences keyed by hook kind.
// Unlike prog.rs's hand-written Option<Vec<Call>> fields plus a hand-rolled
// IterHook iterator, this is a map keyed by HookType with absence encoded by
// a missing key (spec.md §9 Design Notes: "replace with a mapping from
// HookType to sequence... iterate in the fixed order by iterating a fixed
// array").
type HookInst struct {
	Enabled HookType
	seqs    map[HookType][]Call
}

// NewHookInst allocates an empty sequence for every bit set in enabled, and
// no entry for any bit that is clear — spec.md §3's invariant "Hook
// sequences are present (possibly empty) iff their bit is set".
func NewHookInst(enabled HookType) *HookInst {
	h := &HookInst{Enabled: enabled, seqs: make(map[HookType][]Call)}
	for _, bit := range orderedHooks {
		if enabled.has(bit) {
			h.seqs[bit] = []Call{}
		}
	}
	return h
}

// Get returns the sequence for kind and whether it is present.
func (h *HookInst) Get(kind HookType) ([]Call, bool) {
	seq, ok := h.seqs[kind]
	return seq, ok
}

// Append adds a call to kind's sequence. kind must already be enabled.
func (h *HookInst) Append(kind HookType, c Call) {
	h.seqs[kind] = append(h.seqs[kind], c)
}

// HookEntry is one (kind, sequence) pair yielded by IterHook, in place of
// the source's hand-written IterHook<'a> iterator struct.
type HookEntry struct {
	Kind HookType
	Seq  []Call
}

// IterHook returns the enabled hook sequences in the fixed order required by
// spec.md §4.2 and Testable Property 6: ERROR, PRE_TASK, POST_TASK, STARTUP,
// SHUTDOWN, skipping any disabled (absent) kind.
func (h *HookInst) IterHook() []HookEntry {
	out := make([]HookEntry, 0, len(orderedHooks))
	for _, bit := range orderedHooks {
		if seq, ok := h.seqs[bit]; ok {
			out = append(out, HookEntry{Kind: bit, Seq: seq})
		}
	}
	return out
}

// Program is the fixed-identity, mutable-sequence program representation of
// spec.md §3. The fleet of TaskInst/ISRInst and the set of enabled hooks are
// fixed at creation from an APPConfig; only the per-entity call sequences
// grow during generation.
type Program struct {
	Tasks []TaskInst
	ISR   []ISRInst
	Hooks *HookInst
}

// NewProgram builds a fresh Program from app: one empty TaskInst per
// configured task, one empty ISRInst per configured ISR (cloning its
// metadata), and a HookInst populated per app.EnabledHook.
func NewProgram(app *APPConfig) *Program {
	p := &Program{
		Tasks: make([]TaskInst, len(app.Tasks)),
		ISR:   make([]ISRInst, len(app.ISR)),
		Hooks: NewHookInst(app.EnabledHook),
	}
	for i, t := range app.Tasks {
		p.Tasks[i] = TaskInst{ID: t.ID}
	}
	for i, isr := range app.ISR {
		p.ISR[i] = ISRInst{Meta: isr}
	}
	return p
}

// LongestSequence returns the length of the longest call sequence across
// every task, ISR, and enabled hook — used by should_stop (spec.md §4.4).
func (p *Program) LongestSequence() int {
	max := 0
	for _, t := range p.Tasks {
		if len(t.Seq) > max {
			max = len(t.Seq)
		}
	}
	for _, isr := range p.ISR {
		if len(isr.Seq) > max {
			max = len(isr.Seq)
		}
	}
	for _, e := range p.Hooks.IterHook() {
		if len(e.Seq) > max {
			max = len(e.Seq)
		}
	}
	return max
}

// AllNonEmpty reports whether every task, every ISR, and every enabled hook
// has at least one call.
func (p *Program) AllNonEmpty() bool {
	for _, t := range p.Tasks {
		if len(t.Seq) == 0 {
			return false
		}
	}
	for _, isr := range p.ISR {
		if len(isr.Seq) == 0 {
			return false
		}
	}
	for _, e := range p.Hooks.IterHook() {
		if len(e.Seq) == 0 {
			return false
		}
	}
	return true
}
