// Package publish runs the commands that follow generation: installing,
// publishing and documenting the generated artifacts.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single command.
const DefaultTimeout = 10 * time.Minute

// Result is the outcome of one command.
type Result struct {
	Command  string
	Dir      string
	ExitCode int
	Output   string
	Duration time.Duration
}

// CommandError is returned when a command exits unsuccessfully. Output
// holds its combined stdout and stderr.
type CommandError struct {
	Result
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command [%s] in directory [%s] failed (exit code %d): %v\n%s",
		e.Command, e.Dir, e.ExitCode, e.Err, strings.TrimSpace(e.Output))
}

func (e *CommandError) Unwrap() error { return e.Err }

// Executor runs shell commands with sh -c.
type Executor struct {
	logger  *slog.Logger
	timeout time.Duration
	shell   string
}

// NewExecutor creates an executor. A zero timeout means DefaultTimeout.
func NewExecutor(logger *slog.Logger, timeout time.Duration) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{logger: logger, timeout: timeout, shell: "sh"}
}

// Run executes command in dir.
func (e *Executor) Run(ctx context.Context, dir, command string) (*Result, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Info("Running command", slog.String("command", command), slog.String("dir", dir))
	start := time.Now()

	cmd := exec.CommandContext(cmdCtx, e.shell, "-c", command)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	result := Result{
		Command:  command,
		Dir:      dir,
		Output:   output.String(),
		Duration: time.Since(start),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Context deadline exceeded or other OS-level error.
			result.ExitCode = -1
		}
		e.logger.Error("Command failed",
			slog.String("command", command),
			slog.Int("exit_code", result.ExitCode),
			slog.Duration("duration", result.Duration))
		return &result, &CommandError{Result: result, Err: runErr}
	}

	e.logger.Debug("Command succeeded",
		slog.String("command", command),
		slog.Duration("duration", result.Duration))
	return &result, nil
}
