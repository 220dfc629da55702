// Package processtest provides a fake [process.Runner] for tests.
package processtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.jacobcolvin.com/cargo-heaptrack/process"
)

// ErrUnexpectedCommand is returned by [Fake.Run] for commands without a
// registered response.
var ErrUnexpectedCommand = errors.New("unexpected command")

// Response is a canned reply for a command.
type Response struct {
	// Err is returned instead of a result, e.g. to simulate a missing binary.
	Err      error
	Stdout   string
	ExitCode int
}

// Fake is a [process.Runner] that returns canned responses and records every
// command it was asked to run. Safe for concurrent use.
//
// Responses are keyed by "<name> <first arg>" (e.g. "cargo metadata"), falling
// back to the bare command name (e.g. "heaptrack").
type Fake struct {
	responses map[string]Response
	calls     []process.Command
	mu        sync.Mutex
}

// NewFake creates a [Fake] without any responses.
func NewFake() *Fake {
	return &Fake{responses: map[string]Response{}}
}

// Set registers the response for key.
func (f *Fake) Set(key string, r Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.responses[key] = r

	return f
}

// Run implements [process.Runner].
func (f *Fake) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)

	keys := []string{cmd.Name}
	if len(cmd.Args) > 0 {
		keys = []string{cmd.Name + " " + cmd.Args[0], cmd.Name}
	}

	for _, key := range keys {
		r, ok := f.responses[key]
		if !ok {
			continue
		}

		if r.Err != nil {
			return process.Result{}, r.Err
		}

		return process.Result{Stdout: []byte(r.Stdout), ExitCode: r.ExitCode}, nil
	}

	return process.Result{}, fmt.Errorf("%w: %s", ErrUnexpectedCommand, cmd)
}

// Calls returns a copy of the commands run so far, in order.
func (f *Fake) Calls() []process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]process.Command, len(f.calls))
	copy(calls, f.calls)

	return calls
}

// Argvs returns the argument vectors of [Fake.Calls].
func (f *Fake) Argvs() [][]string {
	calls := f.Calls()
	argvs := make([][]string, 0, len(calls))

	for _, c := range calls {
		argvs = append(argvs, c.Argv())
	}

	return argvs
}
