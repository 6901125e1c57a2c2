// Package debugger declares the on-chip debugger library contract that the
// execution session drives the three-phase rendezvous protocol through
// (spec.md §4.6.1). It intentionally knows nothing about programs, calls, or
// APPConfig — those live in the root package, which depends on this one, not
// the other way around (kept free of a cycle the way the teacher keeps
// internal/sys free of any dependency on the ring/SQE/CQE types built on top
// of it).
package debugger

import "context"

// PracticeState mirrors the debugger's practice-script execution state,
// returned by GetPracticeState (spec.md §4.6.1).
type PracticeState int

const (
	NotRunning PracticeState = iota
	Running
	WindowOpen
)

// Conn is the native debugger library surface the execution session needs.
// All operations return 0/nil on success per spec.md §4.6.1; the trace32
// package adapts this onto a cgo "extern C" binding, and the mock package
// fakes it for tests that never touch real hardware.
type Conn interface {
	Config(ctx context.Context, key, value string) error
	Init(ctx context.Context) error
	Attach(ctx context.Context, icdDevice int) error
	Nop(ctx context.Context) error
	Exit(ctx context.Context) error
	Break(ctx context.Context) error
	Go(ctx context.Context) error

	// GetSymbol resolves a symbol name to its target address.
	GetSymbol(ctx context.Context, name string) (address uint32, err error)

	ReadMemory(ctx context.Context, addr uint32, buf []byte) error
	WriteMemory(ctx context.Context, addr uint32, buf []byte) error

	GetPracticeState(ctx context.Context) (PracticeState, error)

	Cmd(ctx context.Context, command string) error
	ExecuteCommand(ctx context.Context, command string, bufLen int) (string, error)
}
