package bytecode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// RunResult is the outcome of running a bytecode file in the VM.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the bytecode file at `path` with the VM at `vmPath` and waits
// for it to exit.  A non-zero exit code is not an error: an error is only
// returned if the VM could not be run at all.
func Run(ctx context.Context, vmPath, path string) (*RunResult, error) {
	cmd := exec.CommandContext(ctx, vmPath, path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to run VM `%s`: %w", vmPath, err)
	}

	return result, nil
}
