package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned for a blank command line.
var ErrEmptyCommand = errors.New("empty command")

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Options configures an Executor.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // added to the current environment
	Dir    string
}

// Executor runs commands with their output connected to the given writers.
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
	dir    string

	// replaced in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExecutor creates an executor. Nil writers default to stdout and stderr.
func NewExecutor(opts Options) *Executor {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: exec.CommandContext,
	}
}

// Run executes name with args and waits for it. The process is killed when
// ctx is cancelled.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.commandFunc(ctx, name, args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		cmd.Env = append(append(os.Environ(), cmd.Env...), e.env...)
	}
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case isCommandNotFound(err):
		return enhanceError(err, name)
	default:
		return fmt.Errorf("%s failed: %w", name, err)
	}
}

// RunLine splits a command line on whitespace and runs it.
func RunLine(ctx context.Context, r Runner, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return ErrEmptyCommand
	}
	return r.Run(ctx, parts[0], parts[1:]...)
}

func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

func enhanceError(err error, cmd string) error {
	return fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, cmd)
}
