package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout reports that a git subcommand exceeded the configured deadline.
var ErrTimeout = errors.New("git command timed out")

// Result holds the outcome of one git invocation. A non-zero exit is not a
// Go error; callers inspect ExitCode.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the command exited zero.
func (r Result) Ok() bool { return r.ExitCode == 0 }

// Runner executes git subcommands in a working directory. rvw operates on
// arbitrary repos, so every call takes the directory explicitly.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// CLIRunner implements Runner using the real git binary.
type CLIRunner struct {
	// Timeout bounds each invocation; zero means no deadline.
	Timeout time.Duration
}

// NewRunner returns a CLIRunner with the given per-command timeout.
func NewRunner(timeout time.Duration) *CLIRunner {
	return &CLIRunner{Timeout: timeout}
}

func (r *CLIRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("git %s: %w", strings.Join(args, " "), ErrTimeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return res, nil
}

// Lines splits command output into non-empty lines, preserving order.
func Lines(out string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
