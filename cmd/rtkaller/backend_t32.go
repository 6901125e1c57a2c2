//go:build cgo

package main

import (
	"github.com/Rrooach/Rtkaller/internal/debugger"
	"github.com/Rrooach/Rtkaller/internal/debugger/trace32"
)

// newDebuggerConn returns a live TRACE32 connection when the binary is built
// with cgo (and linked against t32api).
func newDebuggerConn() (debugger.Conn, error) {
	return trace32.New(), nil
}
