package rtkaller

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgram(t *testing.T) *Program {
	t.Helper()
	app := DefaultAPPConfig()
	p := NewProgram(&app)
	p.Tasks[0].Seq = append(p.Tasks[0].Seq, ActivateTaskCall(Symbol("Task1")), TerminateTaskCall())
	return p
}

// TestWriteFailedDedupIdempotence covers Testable Property 7: two failures
// with identical reason text land in the same digest directory, and writing
// a second case does not clobber the first case file.
func TestWriteFailedDedupIdempotence(t *testing.T) {
	store := &Store{Root: t.TempDir(), ExtraHeader: "ee.h"}
	p := newTestProgram(t)

	require.NoError(t, store.WriteFailed(p, "same reason", 0))
	require.NoError(t, store.WriteFailed(p, "same reason", 1))

	dir := filepath.Join(store.Root, "failed", digest("same reason"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"reason", "p0", "p1"}, names)

	reasonBytes, err := os.ReadFile(filepath.Join(dir, "reason"))
	require.NoError(t, err)
	assert.Equal(t, "same reason", string(reasonBytes))
}

func TestWriteFailedDifferentReasonsDifferentDirs(t *testing.T) {
	store := &Store{Root: t.TempDir(), ExtraHeader: "ee.h"}
	p := newTestProgram(t)

	require.NoError(t, store.WriteFailed(p, "reason a", 0))
	require.NoError(t, store.WriteFailed(p, "reason b", 0))

	entries, err := os.ReadDir(filepath.Join(store.Root, "failed"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWriteCrashedUsesCrashedRoot(t *testing.T) {
	store := &Store{Root: t.TempDir(), ExtraHeader: "ee.h"}
	p := newTestProgram(t)

	require.NoError(t, store.WriteCrashed(p, "null deref at 0x0", 0))

	dir := filepath.Join(store.Root, "crashed", digest("null deref at 0x0"))
	_, err := os.Stat(filepath.Join(dir, "p0"))
	assert.NoError(t, err)
}

func TestDumpExecCasesWritesIndexedFiles(t *testing.T) {
	store := &Store{Root: t.TempDir(), ExtraHeader: "ee.h"}
	cases := []*Program{newTestProgram(t), newTestProgram(t)}

	require.NoError(t, store.DumpExecCases(cases))

	for i := range cases {
		_, err := os.Stat(filepath.Join(store.Root, "exec", fmt.Sprintf("case_%d", i)))
		assert.NoError(t, err)
	}
}

func TestDumpExecCasesEmptyIsNoop(t *testing.T) {
	store := &Store{Root: t.TempDir(), ExtraHeader: "ee.h"}
	require.NoError(t, store.DumpExecCases(nil))
	_, err := os.Stat(filepath.Join(store.Root, "exec"))
	assert.True(t, os.IsNotExist(err))
}
