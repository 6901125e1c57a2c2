package rtkaller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateRegSize covers SPEC_FULL.md supplemented feature #2: reg-size
// must be one of {8,16,32,64}.
func TestValidateRegSize(t *testing.T) {
	for _, size := range PossibleRegSizes {
		assert.NoError(t, ValidateRegSize(size))
	}
	assert.Error(t, ValidateRegSize(24))
	assert.Error(t, ValidateRegSize(0))
}

// TestValidateBackendFlags covers SPEC_FULL.md supplemented feature #3
// (rtk_erika.rs lines 87-91): --use-script requires a non-empty --shell-cmd,
// but a --shell-cmd left set with --use-script off is accepted, matching the
// original's one-directional check.
func TestValidateBackendFlags(t *testing.T) {
	assert.NoError(t, ValidateBackendFlags(true, "make run"))
	assert.Error(t, ValidateBackendFlags(true, ""))
	assert.NoError(t, ValidateBackendFlags(false, ""))
	assert.NoError(t, ValidateBackendFlags(false, "make run"))
}

// TestLoadAppConfigDefaultsWhenPathEmpty covers SPEC_FULL.md supplemented
// feature #1: no --app-config-path falls back to DefaultAPPConfig().
func TestLoadAppConfigDefaultsWhenPathEmpty(t *testing.T) {
	app, err := LoadAppConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPPConfig(), app)
}

// TestLoadAppConfigParsesJSON covers the JSON-config path, including the
// sym_val map being initialized when absent from the file.
func TestLoadAppConfigParsesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	const body = `{
		"enabled_hook": 1,
		"isr": [{"is_isr1": true, "id": "isr1"}],
		"tasks": [{"id": "Task1", "events": ["Event1"], "resources": []}],
		"counters": ["Counter1"],
		"alarms": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	app, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, HookError, app.EnabledHook)
	require.Len(t, app.ISR, 1)
	assert.True(t, app.ISR[0].IsISR1)
	require.Len(t, app.Tasks, 1)
	assert.Equal(t, "Task1", app.Tasks[0].ID)
	assert.Equal(t, []string{"Counter1"}, app.Counters)
	assert.NotNil(t, app.SymVal)
}

// TestLoadAppConfigMissingFileIsError covers the "read app config" error
// path.
func TestLoadAppConfigMissingFileIsError(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

// TestLoadAppConfigInvalidJSONIsError covers the "parse app config" error
// path.
func TestLoadAppConfigInvalidJSONIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadAppConfig(path)
	assert.Error(t, err)
}
