package rtkaller

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Config is the fully-resolved runtime configuration assembled from CLI
// flags (cmd/rtkaller/main.go), mirroring rtk_erika.rs's Settings struct
// field-for-field (SPEC_FULL.md "Ambient stack").
type Config struct {
	RegSize  uint8
	ExtraHeader string
	ShellCmd    string
	TemplateDir string
	OutName     string
	NumSave     uint32
	ExecTimeoutSec int

	AppConfigPath string
	App           APPConfig

	UseScript bool

	T32Node          string
	T32Port          int
	RestartOSCmmHook string
}

// LoadAppConfig reads an APPConfig from path if non-empty, otherwise returns
// DefaultAPPConfig() (SPEC_FULL.md supplemented feature #1).
func LoadAppConfig(path string) (APPConfig, error) {
	if path == "" {
		return DefaultAPPConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return APPConfig{}, errors.Wrapf(err, "read app config %s", path)
	}
	var app APPConfig
	if err := json.Unmarshal(data, &app); err != nil {
		return APPConfig{}, errors.Wrapf(err, "parse app config %s", path)
	}
	if app.SymVal == nil {
		app.SymVal = map[string]uint32{}
	}
	return app, nil
}

// ValidateRegSize checks size against PossibleRegSizes (SPEC_FULL.md #2).
func ValidateRegSize(size uint8) error {
	for _, v := range PossibleRegSizes {
		if v == size {
			return nil
		}
	}
	return errors.Errorf("reg-size must be one of %v, got %d", PossibleRegSizes, size)
}

// ValidateBackendFlags enforces the --use-script/--shell-cmd requirement
// (SPEC_FULL.md supplemented feature #3, rtk_erika.rs lines 87-91): a script
// backend needs a shell command to spawn. The original only rejects this one
// direction; it has no complaint about a --shell-cmd left set while the
// debugger backend is selected, so neither does this.
func ValidateBackendFlags(useScript bool, shellCmd string) error {
	if useScript && shellCmd == "" {
		return errors.New("--use-script requires --shell-cmd")
	}
	return nil
}
