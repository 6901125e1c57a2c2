package rtkaller

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ScriptBackend implements Executor by rendering a Program to C, writing it
// to disk, and running the configured shell command as a subprocess
// (spec.md §4.7). It has no analogue in the teacher (which never shells
// out); os/exec is used directly here since no process-execution library
// appears anywhere in the retrieved pack (justified stdlib use, DESIGN.md).
type ScriptBackend struct {
	ShellCmd    string
	TemplateDir string
	OutName     string
	ExtraHeader string
	Timeout     time.Duration
}

// Execute renders p, writes it under TemplateDir/OutName, and runs ShellCmd
// with that file's directory as its working directory, merging stderr into
// stdout, then scans stdout for the `rtkaller: <key>=<value>` marker line.
func (s *ScriptBackend) Execute(ctx context.Context, p *Program) (Outcome, error) {
	source := ToC(p, s.ExtraHeader)

	path := filepath.Join(s.TemplateDir, s.OutName)
	if err := os.MkdirAll(s.TemplateDir, 0o755); err != nil {
		return Outcome{}, errors.Wrapf(err, "create template dir %s", s.TemplateDir)
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return Outcome{}, errors.Wrapf(err, "write %s", path)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", s.ShellCmd)
	cmd.Dir = s.TemplateDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return Failed("Time out"), nil
	}
	if runErr != nil {
		// A non-zero exit without a result marker still needs to be parsed:
		// the subprocess contract is the marker line, not the exit code.
		_ = runErr
	}

	return parseScriptOutput(out.String())
}

// parseScriptOutput implements spec.md §4.7's marker protocol: scan line by
// line for the first line containing the literal "rtkaller:" marker, parse
// it as "rtkaller: <key>=<value>", and classify by key/value. Absence of the
// marker is a fatal error.
func parseScriptOutput(output string) (Outcome, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "rtkaller:")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("rtkaller:"):])
		key, value, ok := strings.Cut(rest, "=")
		if !ok {
			return Failed(output), nil
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key != "result" {
			return Failed(output), nil
		}
		switch value {
		case "success":
			return Success(), nil
		case "crashed":
			return Crashed(output), nil
		default:
			return Failed(output), nil
		}
	}
	return Outcome{}, errors.New("rtkaller: subprocess output missing \"rtkaller:\" marker")
}

var _ Executor = (*ScriptBackend)(nil)
