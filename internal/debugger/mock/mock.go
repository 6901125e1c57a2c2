// Package mock provides a fake debugger.Conn for tests, grounded on
// go-ublk's runner.go stub/simulation-mode convention (a hardware-free
// implementation of the same interface driven entirely by in-memory state,
// so the state-machine logic above it can be tested without real hardware).
package mock

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/Rrooach/Rtkaller/internal/debugger"
)

// Conn is an in-memory fake of the TRACE32 remote-API surface. Symbols are
// assigned sequential fake addresses on first GetSymbol call; memory is
// backed by a sparse byte map keyed by address.
type Conn struct {
	mu sync.Mutex

	symbols   map[string]uint32
	nextAddr  uint32
	mem       map[uint32][]byte
	practice  debugger.PracticeState
	attached  bool
	exited    bool

	// FailSymbol, when set, makes GetSymbol fail for that exact name - used
	// to exercise the "missing symbol is fatal" paths.
	FailSymbol string
	// FailReadAddr/FailWriteAddr, when non-zero, make the matching memory op
	// fail once then clear themselves, to exercise the retry wrapper.
	FailReadAddr  uint32
	FailWriteAddr uint32
}

// New returns an empty mock connection.
func New() *Conn {
	return &Conn{
		symbols:  make(map[string]uint32),
		nextAddr: 0x1000,
		mem:      make(map[uint32][]byte),
		practice: debugger.NotRunning,
	}
}

func (c *Conn) Config(_ context.Context, _, _ string) error { return nil }
func (c *Conn) Init(_ context.Context) error                { return nil }

func (c *Conn) Attach(_ context.Context, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = true
	return nil
}

func (c *Conn) Nop(_ context.Context) error  { return nil }
func (c *Conn) Exit(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exited = true
	return nil
}
func (c *Conn) Break(_ context.Context) error { return nil }
func (c *Conn) Go(_ context.Context) error    { return nil }

func (c *Conn) GetSymbol(_ context.Context, name string) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == c.FailSymbol {
		return 0, errors.Errorf("mock: symbol %q not found", name)
	}
	if addr, ok := c.symbols[name]; ok {
		return addr, nil
	}
	addr := c.nextAddr
	c.nextAddr += 0x1000
	c.symbols[name] = addr
	return addr, nil
}

func (c *Conn) ReadMemory(_ context.Context, addr uint32, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if addr == c.FailReadAddr && c.FailReadAddr != 0 {
		c.FailReadAddr = 0
		return errors.New("mock: simulated read failure")
	}
	src := c.mem[addr]
	for i := range buf {
		if i < len(src) {
			buf[i] = src[i]
		} else {
			buf[i] = 0
		}
	}
	return nil
}

func (c *Conn) WriteMemory(_ context.Context, addr uint32, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if addr == c.FailWriteAddr && c.FailWriteAddr != 0 {
		c.FailWriteAddr = 0
		return errors.New("mock: simulated write failure")
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	c.mem[addr] = cp
	return nil
}

func (c *Conn) GetPracticeState(_ context.Context) (debugger.PracticeState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.practice, nil
}

// SetPracticeState lets a test drive the NotRunning transition the restart
// hook polls for.
func (c *Conn) SetPracticeState(s debugger.PracticeState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.practice = s
}

func (c *Conn) Cmd(_ context.Context, _ string) error { return nil }

func (c *Conn) ExecuteCommand(_ context.Context, _ string, _ int) (string, error) {
	return "", nil
}

// WriteUint32 is a test helper for seeding a <task>_STATE-style variable
// at addr as a little-endian u32, bypassing WriteMemory's injected failures.
func (c *Conn) WriteUint32(addr uint32, v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[addr] = []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

var _ debugger.Conn = (*Conn)(nil)
