package rtkaller

import (
	"context"
	"encoding/binary"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Rrooach/Rtkaller/internal/debugger"
	"github.com/Rrooach/Rtkaller/internal/sys"
)

// ExecutionSession drives the three-phase rendezvous protocol (spec.md §4.6)
// over a debugger.Conn for one APPConfig's lifetime. Symbol addresses are
// memoized once per process (initialize-once semantics) in symCache; the
// app configuration is fixed at construction, mirroring
// spec.md §5's "all debugger-side address caches are initialize-once and
// thereafter read-only" rule.
type ExecutionSession struct {
	conn        debugger.Conn
	app         *APPConfig
	restartHook string
	log         *logrus.Entry

	symMu    sync.Mutex
	symCache map[string]uint32
}

// NewExecutionSession builds a session bound to conn and app. restartHook is
// the debugger macro text run at the top of every execution (§4.6 step 1).
func NewExecutionSession(conn debugger.Conn, app *APPConfig, restartHook string, log *logrus.Entry) *ExecutionSession {
	return &ExecutionSession{
		conn:        conn,
		app:         app,
		restartHook: restartHook,
		log:         log,
		symCache:    make(map[string]uint32),
	}
}

// Attach performs Config(NODE/PORT/PACKLEN) + Init + retried Attach + Nop,
// matching original_source/t32.rs's init() (spec.md §4.6.1: "On first
// Attach, retry up to 3 times at 100 ms intervals").
func (s *ExecutionSession) Attach(ctx context.Context, node string, port int) error {
	if err := s.conn.Config(ctx, "NODE", node); err != nil {
		return errors.Wrap(err, "configure NODE")
	}
	if err := s.conn.Config(ctx, "PORT", portString(port)); err != nil {
		return errors.Wrap(err, "configure PORT")
	}
	if err := s.conn.Config(ctx, "PACKLEN", "1024"); err != nil {
		return errors.Wrap(err, "configure PACKLEN")
	}
	if err := s.conn.Init(ctx); err != nil {
		return errors.Wrap(err, "init")
	}

	var lastErr error
	for attempt := 0; attempt <= sys.AttachRetries; attempt++ {
		lastErr = s.conn.Attach(ctx, devICD)
		if lastErr == nil {
			return errors.Wrap(s.conn.Nop(ctx), "nop after attach")
		}
		if attempt < sys.AttachRetries {
			time.Sleep(sys.AttachInterval * time.Millisecond)
		}
	}
	return errors.Wrap(lastErr, "attach")
}

const devICD = 1

func portString(port int) string {
	return strconv.Itoa(port)
}

// Execute implements Executor: it runs the full rendezvous protocol for one
// Program and classifies the result.
func (s *ExecutionSession) Execute(ctx context.Context, p *Program) (Outcome, error) {
	if err := s.restartOS(ctx); err != nil {
		return Outcome{}, errors.Wrap(err, "restart OS")
	}

	buffers, err := s.serialize(p)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "serialize")
	}

	if err := s.waitTaskReady(ctx); err != nil {
		return Failed(err.Error()), nil
	}

	if err := s.writeAll(ctx, buffers); err != nil {
		return Failed(err.Error()), nil
	}

	if err := s.notify(ctx); err != nil {
		return Failed(err.Error()), nil
	}

	return s.monitor(ctx)
}

// restartOS runs the restart hook macro; if it looks like a PRACTICE "DO"
// script, waits for the practice state to settle before resuming (spec.md
// §4.6 step 1).
func (s *ExecutionSession) restartOS(ctx context.Context) error {
	if s.restartHook == "" {
		return nil
	}
	if err := s.conn.Cmd(ctx, s.restartHook); err != nil {
		return errors.Wrap(err, "run restart hook")
	}
	if strings.Contains(s.restartHook, "DO") || strings.Contains(s.restartHook, "do") {
		err := pollUntil(ctx, sys.WaitReadyInterval*time.Millisecond, 0, func(int) (bool, error) {
			state, err := s.conn.GetPracticeState(ctx)
			if err != nil {
				return false, err
			}
			return state == debugger.NotRunning, nil
		})
		if err != nil {
			return errors.Wrap(err, "wait for practice state")
		}
	}
	return s.conn.Go(ctx)
}

type entityWrite struct {
	symbol string
	buf    sys.EntityBuffer
}

// serialize fills one EntityBuffer per enabled hook, per ISR, and per task
// (spec.md §4.5), keyed by the `*_DATA` symbol it will be written to.
func (s *ExecutionSession) serialize(p *Program) ([]entityWrite, error) {
	var out []entityWrite

	for _, h := range p.Hooks.IterHook() {
		buf, err := SerializeEntity(h.Seq, s.app.SymVal)
		if err != nil {
			return nil, errors.Wrapf(err, "serialize hook %s", hookName(h.Kind))
		}
		out = append(out, entityWrite{symbol: hookDataSymbol(h.Kind), buf: buf})
	}
	for _, isr := range p.ISR {
		buf, err := SerializeEntity(isr.Seq, s.app.SymVal)
		if err != nil {
			return nil, errors.Wrapf(err, "serialize isr %s", isr.Meta.ID)
		}
		out = append(out, entityWrite{symbol: isr.Meta.ID + "_DATA", buf: buf})
	}
	for _, t := range p.Tasks {
		buf, err := SerializeEntity(t.Seq, s.app.SymVal)
		if err != nil {
			return nil, errors.Wrapf(err, "serialize task %s", t.ID)
		}
		out = append(out, entityWrite{symbol: t.ID + "_DATA", buf: buf})
	}
	return out, nil
}

// hookDataSymbol returns the target-side buffer variable name for a hook
// kind (spec.md §4.5: ERROR_HOOK_DATA, PRE_TASK_DATA, POST_TASK_DATA,
// STARTUP_DATA, SHUTDOWN_DATA).
func hookDataSymbol(kind HookType) string {
	switch kind {
	case HookError:
		return "ERROR_HOOK_DATA"
	case HookPreTask:
		return "PRE_TASK_DATA"
	case HookPostTask:
		return "POST_TASK_DATA"
	case HookStartup:
		return "STARTUP_DATA"
	default:
		return "SHUTDOWN_DATA"
	}
}

// waitTaskReady implements §4.6 step 3: poll every 5ms, up to 600 retries,
// succeeding as soon as any `<task>_STATE` reads TASK_READY.
func (s *ExecutionSession) waitTaskReady(ctx context.Context) error {
	seenReady := false
	err := pollUntil(ctx, sys.WaitReadyInterval*time.Millisecond, sys.WaitReadyRetries, func(int) (bool, error) {
		if err := s.conn.Break(ctx); err != nil {
			return false, err
		}
		ready := false
		for _, t := range s.app.Tasks {
			v, err := s.readTaskState(ctx, t.ID)
			if err != nil {
				return false, err
			}
			if v == sys.TaskReady {
				ready = true
			}
		}
		if err := s.conn.Go(ctx); err != nil {
			return false, err
		}
		seenReady = ready
		return ready, nil
	})
	if err == nil && !seenReady {
		return errors.New("wait task ready: time out")
	}
	return err
}

// writeAll implements §4.6 step 4: break, write every entity buffer, resume.
func (s *ExecutionSession) writeAll(ctx context.Context, buffers []entityWrite) error {
	if err := s.conn.Break(ctx); err != nil {
		return err
	}
	for _, ew := range buffers {
		addr, err := s.symbol(ctx, ew.symbol)
		if err != nil {
			return err
		}
		if err := s.writeMemoryRetry(ctx, addr, ew.buf[:]); err != nil {
			return errors.Wrapf(err, "write %s", ew.symbol)
		}
	}
	return s.conn.Go(ctx)
}

// notify implements §4.6 step 5: break, write DATA_READY into every task
// state variable, resume.
func (s *ExecutionSession) notify(ctx context.Context) error {
	if err := s.conn.Break(ctx); err != nil {
		return err
	}
	for _, t := range s.app.Tasks {
		if err := s.writeTaskState(ctx, t.ID, sys.DataReady); err != nil {
			return err
		}
	}
	return s.conn.Go(ctx)
}

// monitor implements §4.6 step 6: every 50ms, check EXEC_FINISH then
// OS_CRASHED, up to 200 retries before timing out.
func (s *ExecutionSession) monitor(ctx context.Context) (Outcome, error) {
	outcome := Failed("Time out")
	err := pollUntil(ctx, sys.MonitorInterval*time.Millisecond, sys.MonitorRetries, func(int) (bool, error) {
		if err := s.conn.Break(ctx); err != nil {
			return false, err
		}

		finished := false
		for _, t := range s.app.Tasks {
			v, err := s.readTaskState(ctx, t.ID)
			if err != nil {
				return false, err
			}
			if v == sys.ExecFinish {
				finished = true
			}
		}
		if finished {
			outcome = Success()
			return true, s.conn.Go(ctx)
		}

		osState, err := s.readOSState(ctx)
		if err != nil {
			return false, err
		}
		if osState == sys.OSCrashed {
			info, err := s.pollCrashInfo(ctx)
			if err != nil {
				return false, err
			}
			outcome = Crashed(info)
			return true, nil
		}

		return false, s.conn.Go(ctx)
	})
	if err != nil {
		return Failed("Time out"), nil
	}
	return outcome, nil
}

// pollCrashInfo implements §4.6 step 6b: read OS_CRASH_INFO as a NUL-
// terminated C string up to 1024 bytes, retrying every 200ms up to 100
// times.
func (s *ExecutionSession) pollCrashInfo(ctx context.Context) (string, error) {
	var info string
	err := pollUntil(ctx, sys.CrashInfoInterval*time.Millisecond, sys.CrashInfoRetries, func(int) (bool, error) {
		addr, err := s.symbol(ctx, "OS_CRASH_INFO")
		if err != nil {
			return false, err
		}
		buf := make([]byte, sys.BufferSize)
		if err := s.readMemoryRetry(ctx, addr, buf); err != nil {
			return false, err
		}
		info = cString(buf)
		return true, nil
	})
	return info, err
}

func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

func (s *ExecutionSession) readTaskState(ctx context.Context, taskID string) (uint32, error) {
	addr, err := s.symbol(ctx, taskID+"_STATE")
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	if err := s.readMemoryRetry(ctx, addr, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (s *ExecutionSession) writeTaskState(ctx context.Context, taskID string, value uint32) error {
	addr, err := s.symbol(ctx, taskID+"_STATE")
	if err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	return s.writeMemoryRetry(ctx, addr, buf[:])
}

func (s *ExecutionSession) readOSState(ctx context.Context) (uint32, error) {
	addr, err := s.symbol(ctx, "OS_STATE")
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	if err := s.readMemoryRetry(ctx, addr, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// symbol resolves name once per process and memoizes the address, matching
// spec.md §4.6's "memoized thread-locally... initialize-once semantics".
func (s *ExecutionSession) symbol(ctx context.Context, name string) (uint32, error) {
	s.symMu.Lock()
	if addr, ok := s.symCache[name]; ok {
		s.symMu.Unlock()
		return addr, nil
	}
	s.symMu.Unlock()

	addr, err := s.conn.GetSymbol(ctx, name)
	if err != nil {
		return 0, errors.Wrapf(err, "resolve symbol %s", name)
	}

	s.symMu.Lock()
	s.symCache[name] = addr
	s.symMu.Unlock()
	return addr, nil
}

// readMemoryRetry and writeMemoryRetry wrap the debugger's memory calls in
// the 5ms/10s retry loop required by spec.md §4.6 ("Memory reads and writes
// to the target wrap the underlying debugger call in a retry loop").
func (s *ExecutionSession) readMemoryRetry(ctx context.Context, addr uint32, buf []byte) error {
	cctx, cancel := context.WithTimeout(ctx, sys.MemRetryTimeoutSec*time.Second)
	defer cancel()
	return pollUntil(cctx, sys.MemRetryInterval*time.Millisecond, 0, func(int) (bool, error) {
		err := s.conn.ReadMemory(cctx, addr, buf)
		return err == nil, err
	})
}

func (s *ExecutionSession) writeMemoryRetry(ctx context.Context, addr uint32, buf []byte) error {
	cctx, cancel := context.WithTimeout(ctx, sys.MemRetryTimeoutSec*time.Second)
	defer cancel()
	return pollUntil(cctx, sys.MemRetryInterval*time.Millisecond, 0, func(int) (bool, error) {
		err := s.conn.WriteMemory(cctx, addr, buf)
		return err == nil, err
	})
}

var _ Executor = (*ExecutionSession)(nil)
