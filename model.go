package rtkaller

// HookType is a bitmask over the five kernel lifecycle hook kinds. It mirrors
// model.rs's bitflags type: each bit independently enables one hook kind in
// an APPConfig, and HookInst/iteration order depends on this exact bit
// assignment.
type HookType uint8

const (
	HookError    HookType = 1 << 0
	HookPreTask  HookType = 1 << 1
	HookPostTask HookType = 1 << 2
	HookStartup  HookType = 1 << 3
	HookShutdown HookType = 1 << 4

	hookAll = HookError | HookPreTask | HookPostTask | HookStartup | HookShutdown
)

// orderedHooks fixes the iteration order required by spec.md §4.2 and
// Testable Property 6: ERROR, PRE_TASK, POST_TASK, STARTUP, SHUTDOWN.
var orderedHooks = [5]HookType{HookError, HookPreTask, HookPostTask, HookStartup, HookShutdown}

func (h HookType) has(bit HookType) bool { return h&bit != 0 }

func (h HookType) String() string {
	if h == 0 {
		return "none"
	}
	names := []string{}
	for _, b := range orderedHooks {
		if h.has(b) {
			names = append(names, hookName(b))
		}
	}
	s := ""
	for i, n := range names {
		if i > 0 {
			s += "|"
		}
		s += n
	}
	return s
}

func hookName(b HookType) string {
	switch b {
	case HookError:
		return "ERROR"
	case HookPreTask:
		return "PRE_TASK"
	case HookPostTask:
		return "POST_TASK"
	case HookStartup:
		return "STARTUP"
	case HookShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// ISR describes one configured interrupt service routine.
type ISR struct {
	IsISR1  bool    `json:"is_isr1"`
	ID      string  `json:"id"`
	Handler *string `json:"handler,omitempty"`
}

// NewISR2 builds a Category-2 ISR descriptor with the given handler name,
// matching model.rs's ISR::new_isr2 convenience constructor.
func NewISR2(id string, handler string) ISR {
	h := handler
	return ISR{IsISR1: false, ID: id, Handler: &h}
}

// Task describes one configured schedulable task and the events/resources it
// may reference when the generator emits calls for it.
type Task struct {
	ID        string   `json:"id"`
	Events    []string `json:"events"`
	Resources []string `json:"resources"`
}

// APPConfig is the immutable, process-lifetime application description a
// Program is generated against. See spec.md §3.
type APPConfig struct {
	EnabledHook HookType          `json:"enabled_hook"`
	ISR         []ISR             `json:"isr"`
	Tasks       []Task            `json:"tasks"`
	Counters    []string          `json:"counters"`
	Alarms      []string          `json:"alarms"`
	SymVal      map[string]uint32 `json:"sym_val"`
}

// DefaultAPPConfig reproduces model.rs's impl Default for APPConfig: a
// concrete 3-task/3-ISR/2-counter/3-alarm fixture used whenever the CLI is
// not given an --app-config-path. See SPEC_FULL.md "Supplemented features" #1.
func DefaultAPPConfig() APPConfig {
	return APPConfig{
		EnabledHook: HookError | HookStartup | HookPreTask | HookPostTask,
		ISR: []ISR{
			NewISR2("isr1_handler", "isr1_handler"),
			NewISR2("isr2_handler", "isr2_handler"),
			NewISR2("isr3_handler", "isr3_handler"),
		},
		Tasks: []Task{
			{ID: "Task1", Events: []string{"Event1", "Event2"}, Resources: []string{"Resource1", "Resource2"}},
			{ID: "Task2", Events: []string{"Event1", "Event3"}, Resources: []string{"Resource1", "Resource3"}},
			{ID: "Task3", Events: []string{"Event2", "Event3"}, Resources: []string{"Resource2", "Resource3"}},
		},
		Counters: []string{"Counter1", "Counter2"},
		Alarms:   []string{"Alarm1", "Alarm2", "Alarm3"},
		SymVal:   map[string]uint32{},
	}
}

// InstType tags which kind of program entity a generation context slot
// refers to: a Task, an ISR, or a hook kind.
type InstType struct {
	Task *Task
	Isr  *ISR
	Hook *HookType
}
