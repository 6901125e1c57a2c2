package rtkaller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScriptBackendSuccess covers Testable Property 9: a stub shell command
// emitting "rtkaller: result=success" classifies as Success.
func TestScriptBackendSuccess(t *testing.T) {
	backend := &ScriptBackend{
		ShellCmd:    "echo 'rtkaller: result=success'",
		TemplateDir: t.TempDir(),
		OutName:     "rtkaller.c",
		Timeout:     5 * time.Second,
	}

	app := DefaultAPPConfig()
	p := NewProgram(&app)

	outcome, err := backend.Execute(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, outcome.IsSuccess())
}

// TestScriptBackendCrashed covers Testable Property 10: a stub emitting
// "rtkaller: result=crashed" classifies as Crashed, carrying the full output.
func TestScriptBackendCrashed(t *testing.T) {
	backend := &ScriptBackend{
		ShellCmd:    "echo 'rtkaller: result=crashed'",
		TemplateDir: t.TempDir(),
		OutName:     "rtkaller.c",
		Timeout:     5 * time.Second,
	}

	app := DefaultAPPConfig()
	p := NewProgram(&app)

	outcome, err := backend.Execute(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, outcome.IsCrashed())
	assert.Contains(t, outcome.Detail, "rtkaller: result=crashed")
}

// TestScriptBackendTimeout covers Testable Property 11: a shell command that
// sleeps past the configured timeout yields Failed("Time out").
func TestScriptBackendTimeout(t *testing.T) {
	backend := &ScriptBackend{
		ShellCmd:    "sleep 5 && echo 'rtkaller: result=success'",
		TemplateDir: t.TempDir(),
		OutName:     "rtkaller.c",
		Timeout:     100 * time.Millisecond,
	}

	app := DefaultAPPConfig()
	p := NewProgram(&app)

	outcome, err := backend.Execute(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, outcome.IsFailed())
	assert.Equal(t, "Time out", outcome.Detail)
}

// TestScriptBackendMissingMarkerIsFatal covers spec.md §4.7/§7: absence of
// the "rtkaller:" marker in subprocess output is a fatal error, not a
// classified Outcome.
func TestScriptBackendMissingMarkerIsFatal(t *testing.T) {
	backend := &ScriptBackend{
		ShellCmd:    "echo 'no marker here'",
		TemplateDir: t.TempDir(),
		OutName:     "rtkaller.c",
		Timeout:     5 * time.Second,
	}

	app := DefaultAPPConfig()
	p := NewProgram(&app)

	_, err := backend.Execute(context.Background(), p)
	assert.Error(t, err)
}

// TestScriptBackendUnknownKeyIsFailed covers the "any other key returns
// Failed" branch of spec.md §4.7's marker protocol.
func TestScriptBackendUnknownKeyIsFailed(t *testing.T) {
	backend := &ScriptBackend{
		ShellCmd:    "echo 'rtkaller: other=value'",
		TemplateDir: t.TempDir(),
		OutName:     "rtkaller.c",
		Timeout:     5 * time.Second,
	}

	app := DefaultAPPConfig()
	p := NewProgram(&app)

	outcome, err := backend.Execute(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, outcome.IsFailed())
}
