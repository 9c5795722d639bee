package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// We prefer to return stderr over the process exit code
type ExitErrorVerbose struct {
	E      exec.ExitError
	Stderr string
}

func (e ExitErrorVerbose) Error() string {
	if e.Stderr != "" {
		return strings.TrimSpace(e.Stderr)
	}
	return e.E.Error()
}

func (e ExitErrorVerbose) ExitCode() int {
	return e.E.ExitCode()
}

func Run(name string, args ...string) (string, error) {
	return RunContext(context.Background(), name, args...)
}

// RunContext runs a program and returns its stdout.
// The program is killed if ctx is cancelled before it exits.
func RunContext(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), ExitErrorVerbose{E: *exitErr, Stderr: stderr.String()}
		}
		return "", err
	}
	return stdout.String(), nil
}
