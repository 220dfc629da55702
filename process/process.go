package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/alessio/shellescape"
)

// ErrStart indicates the process could not be spawned (missing binary,
// permissions, ...).
var ErrStart = errors.New("start process")

// Stream selects how a standard stream of the child is connected.
type Stream int

const (
	// Inherit connects the stream to the parent's corresponding stream.
	Inherit Stream = iota
	// Capture collects the stream into [Result].
	Capture
	// Discard drops the stream.
	Discard
)

// Command describes a subprocess invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the parent's environment.
	Env    []string
	Stdout Stream
	Stderr Stream
}

// Argv returns the full argument vector, starting with the command name.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Name)

	return append(argv, c.Args...)
}

// String returns the command line quoted for a POSIX shell.
func (c Command) String() string {
	return shellescape.QuoteCommand(c.Argv())
}

// Result holds the outcome of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs a [Command] to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Exec is a [Runner] that spawns real processes.
//
// Create instances with [NewExec].
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec creates an [Exec] wired to the current process's standard streams.
func NewExec() *Exec {
	return &Exec{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts cmd, waits for it to exit and returns its captured output and
// exit status. Stdin is always inherited.
func (e *Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // Running user tools is the point.
	c.Dir = cmd.Dir
	c.Stdin = e.Stdin

	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer

	c.Stdout = e.connect(cmd.Stdout, e.Stdout, &stdout)
	c.Stderr = e.connect(cmd.Stderr, e.Stderr, &stderr)

	err := c.Run()

	res := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()

			return res, nil
		}

		return res, fmt.Errorf("%w: %s: %w", ErrStart, cmd.Name, err)
	}

	return res, nil
}

func (e *Exec) connect(s Stream, parent io.Writer, buf *bytes.Buffer) io.Writer {
	switch s {
	case Capture:
		return buf
	case Discard:
		return io.Discard
	case Inherit:
		return parent
	}

	return parent
}
