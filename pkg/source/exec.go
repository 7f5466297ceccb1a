package source

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Exit codes reported for failures that never reached the child process.
const (
	exitTimeout  = 124
	exitNotFound = 127
)

// execResult holds the outcome of one external command.
type execResult struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
	ExitCode int
}

// run executes name with args in dir, capturing output and duration.
func run(ctx context.Context, name string, args []string, dir string) (execResult, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := execResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = exitTimeout
	case errors.Is(err, exec.ErrNotFound):
		res.ExitCode = exitNotFound
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = 1
	}
	return res, err
}
