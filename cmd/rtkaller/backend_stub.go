//go:build !cgo

package main

import (
	"github.com/pkg/errors"

	"github.com/Rrooach/Rtkaller/internal/debugger"
)

// newDebuggerConn reports that the debugger backend is unavailable in a
// cgo-free build; --use-script still works without it.
func newDebuggerConn() (debugger.Conn, error) {
	return nil, errors.New("rtkaller was built without cgo; only --use-script is supported in this build")
}
