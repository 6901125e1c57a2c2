package rtkaller

// TaskStateKind tags which of the three TaskState variants a task is in
// during generation (spec.md §3's Generation context).
type TaskStateKind uint8

const (
	StateNormal TaskStateKind = iota
	StateWaitingEvent
	StateHoldingResource
)

// TaskState is one task's generation-time state: Normal, WaitingEvent(event),
// or HoldingResource(resource). Grounded on gen.rs's TaskState enum, and on
// go-ublk's runner.go per-tag TagState convention (a small enum carried
// alongside per-entity data). The generator keeps one per task in a plain
// map and mutates it from a single goroutine, without a lock.
type TaskState struct {
	Kind TaskStateKind
	ID   string // event id if WaitingEvent, resource id if HoldingResource
}

func NormalState() TaskState                    { return TaskState{Kind: StateNormal} }
func WaitingEventState(event string) TaskState   { return TaskState{Kind: StateWaitingEvent, ID: event} }
func HoldingResourceState(res string) TaskState  { return TaskState{Kind: StateHoldingResource, ID: res} }

func (s TaskState) IsWaiting() bool { return s.Kind == StateWaitingEvent }
func (s TaskState) IsHolding() bool { return s.Kind == StateHoldingResource }
