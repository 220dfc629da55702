package heaptrack

import (
	"context"
	"errors"
	"fmt"

	"go.jacobcolvin.com/cargo-heaptrack/process"
)

// Sentinel errors returned by [Launcher.Launch].
var (
	// ErrProfilerLaunchFailed means heaptrack itself could not be started,
	// usually because it is not installed.
	ErrProfilerLaunchFailed = errors.New("failed to execute heaptrack command")
	// ErrProfilerFailed means heaptrack ran and exited with a non-zero status.
	ErrProfilerFailed = errors.New("heaptrack failed")
)

// Launcher runs executables under heaptrack.
//
// Create instances with [Config.NewLauncher].
type Launcher struct {
	runner process.Runner
	Config
}

// Command returns the heaptrack invocation for executable and args:
// the output pair, the raw flag, extra arguments, then the workload.
func (l *Launcher) Command(executable string, args []string) process.Command {
	var argv []string

	if l.Output != "" {
		argv = append(argv, "--output", l.Output)
	}

	if l.Raw {
		argv = append(argv, "--raw")
	}

	argv = append(argv, l.ExtraArgs...)
	argv = append(argv, executable)
	argv = append(argv, args...)

	binary := l.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	return process.Command{
		Name:   binary,
		Args:   argv,
		Stdout: process.Inherit,
		Stderr: process.Inherit,
	}
}

// Launch runs executable with args under heaptrack and waits for it to exit.
func (l *Launcher) Launch(ctx context.Context, executable string, args []string) error {
	cmd := l.Command(executable, args)

	res, err := l.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%w: %w\nHint: make sure %s is installed and on your PATH",
			ErrProfilerLaunchFailed, err, cmd.Name)
	}

	if !res.Success() {
		return fmt.Errorf("%w: exit status %d", ErrProfilerFailed, res.ExitCode)
	}

	return nil
}
