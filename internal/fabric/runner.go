// Package fabric wraps the remote-execution fabric the distributor speaks
// to. The fabric is Ansible invoked as an external command: inventory
// queries via ansible-inventory, fleet and per-node mutations via ad-hoc
// ansible module calls. Nothing in this package interprets remote state;
// it only builds command lines, runs them with a timeout, and captures
// their output.
package fabric

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Command is one external command invocation.
type Command struct {
	// Binary is the executable to run (e.g. "ansible").
	Binary string

	// Args are the command-line arguments.
	Args []string

	// Timeout bounds the run; zero means the runner's default.
	Timeout time.Duration
}

// String renders the command for logs and diagnostics.
func (c Command) String() string {
	out := c.Binary
	for _, a := range c.Args {
		out += " " + a
	}
	return out
}

// Result captures a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes commands. The distributor and inventory layers depend on
// this interface so tests can substitute a fake fabric.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// DefaultTimeout bounds a command when neither the command nor the runner
// specifies one.
const DefaultTimeout = 60 * time.Second

// ExecRunner runs commands on the host with os/exec, capturing stdout and
// stderr separately.
type ExecRunner struct {
	// Default is applied when a command carries no timeout.
	Default time.Duration

	logger *zap.Logger
}

// NewExecRunner returns a host runner with the given default timeout.
func NewExecRunner(defaultTimeout time.Duration, logger *zap.Logger) *ExecRunner {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{Default: defaultTimeout, logger: logger}
}

// Run executes the command, blocking until it finishes or times out. A
// non-zero exit returns the populated Result alongside the error so the
// caller can surface captured stderr.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = r.Default
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.logger.Debug("running command", zap.String("cmd", cmd.String()), zap.Duration("timeout", timeout))

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	exit := -1
	if c.ProcessState != nil {
		exit = c.ProcessState.ExitCode()
	}
	result := &Result{
		ExitCode: exit,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		r.logger.Debug("command failed",
			zap.String("cmd", cmd.String()),
			zap.Int("exit", result.ExitCode),
			zap.String("stderr", result.Stderr))
		return result, err
	}
	return result, nil
}
