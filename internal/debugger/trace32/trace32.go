//go:build cgo

// Package trace32 adapts the vendor TRACE32 remote-API C library onto the
// debugger.Conn interface via cgo, grounded on original_source/t32.rs's
// `bindings` extern "C" module and its config/init/read_memory/write_memory
// wrapper functions. Build with the t32api headers/library on the include
// and link path; callers without hardware access use
// internal/debugger/mock instead.
package trace32

/*
#cgo LDFLAGS: -lt32api
#include <stdlib.h>

extern int T32_Config(const char *key, const char *value);
extern int T32_Init(void);
extern int T32_Attach(int device);
extern int T32_Exit(void);
extern int T32_Nop(void);
extern int T32_Break(void);
extern int T32_Go(void);
extern int T32_GetSymbol(const char *name, unsigned int *address, unsigned int *size, unsigned int *access);
extern int T32_ReadMemory(unsigned int addr, int access, unsigned char *buf, int size);
extern int T32_WriteMemory(unsigned int addr, int access, const unsigned char *buf, int size);
extern int T32_GetPracticeState(int *state);
extern int T32_Cmd(const char *cmd);
extern int T32_ExecuteCommand(const char *cmd, char *buf, unsigned int bufLen);
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/Rrooach/Rtkaller/internal/debugger"
)

// DevICD is the device specifier passed to T32_Attach for an ICD connection
// (original_source/t32.rs's T32_DEV_ICD = 1, spec.md §4.6.1).
const DevICD = 1

// Conn is a live TRACE32 remote-API connection.
type Conn struct{}

// New returns a Conn backed by the linked t32api library.
func New() *Conn { return &Conn{} }

func tErr(op string, ret C.int) error {
	if ret == 0 {
		return nil
	}
	return errors.Errorf("t32: %s failed, ret=%d", op, int(ret))
}

func (c *Conn) Config(_ context.Context, key, value string) error {
	ck := C.CString(key)
	defer C.free(unsafe.Pointer(ck))
	cv := C.CString(value)
	defer C.free(unsafe.Pointer(cv))
	return tErr("config", C.T32_Config(ck, cv))
}

func (c *Conn) Init(_ context.Context) error { return tErr("init", C.T32_Init()) }

func (c *Conn) Attach(_ context.Context, icdDevice int) error {
	return tErr("attach", C.T32_Attach(C.int(icdDevice)))
}

func (c *Conn) Nop(_ context.Context) error  { return tErr("nop", C.T32_Nop()) }
func (c *Conn) Exit(_ context.Context) error { return tErr("exit", C.T32_Exit()) }
func (c *Conn) Break(_ context.Context) error { return tErr("break", C.T32_Break()) }
func (c *Conn) Go(_ context.Context) error    { return tErr("go", C.T32_Go()) }

func (c *Conn) GetSymbol(_ context.Context, name string) (uint32, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var addr, size, access C.uint
	ret := C.T32_GetSymbol(cname, &addr, &size, &access)
	if err := tErr("get_symbol:"+name, ret); err != nil {
		return 0, err
	}
	return uint32(addr), nil
}

func (c *Conn) ReadMemory(_ context.Context, addr uint32, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	ret := C.T32_ReadMemory(C.uint(addr), 0, (*C.uchar)(unsafe.Pointer(&buf[0])), C.int(len(buf)))
	return tErr("read_memory", ret)
}

func (c *Conn) WriteMemory(_ context.Context, addr uint32, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	ret := C.T32_WriteMemory(C.uint(addr), 0, (*C.uchar)(unsafe.Pointer(&buf[0])), C.int(len(buf)))
	return tErr("write_memory", ret)
}

func (c *Conn) GetPracticeState(_ context.Context) (debugger.PracticeState, error) {
	var state C.int
	if err := tErr("get_practice_state", C.T32_GetPracticeState(&state)); err != nil {
		return debugger.NotRunning, err
	}
	return debugger.PracticeState(state), nil
}

func (c *Conn) Cmd(_ context.Context, command string) error {
	ccmd := C.CString(command)
	defer C.free(unsafe.Pointer(ccmd))
	return tErr("cmd", C.T32_Cmd(ccmd))
}

func (c *Conn) ExecuteCommand(_ context.Context, command string, bufLen int) (string, error) {
	ccmd := C.CString(command)
	defer C.free(unsafe.Pointer(ccmd))
	buf := make([]byte, bufLen)
	ret := C.T32_ExecuteCommand(ccmd, (*C.char)(unsafe.Pointer(&buf[0])), C.uint(bufLen))
	out := C.GoString((*C.char)(unsafe.Pointer(&buf[0])))
	return out, tErr("execute_command", ret)
}

var _ debugger.Conn = (*Conn)(nil)
