package cargo

import (
	"bytes"
	"context"
	"fmt"

	"go.jacobcolvin.com/cargo-heaptrack/process"
)

// MessageFormat is the --message-format value cargo is always invoked with:
// JSON messages on stdout, rendered diagnostics on stderr.
const MessageFormat = "json-render-diagnostics"

// BuildArgs returns the cargo arguments (without the cargo binary) that build
// the target req selects. kinds are the kinds of the resolved target, if any;
// they decide whether a named unit test is the library harness or a binary.
func BuildArgs(req Request, kinds []string) []string {
	var args []string

	sel := req.Selection

	switch {
	case !req.Dev && sel.Kind == SelectBench:
		// The bench profile cannot be selected through `cargo build`.
		args = append(args, "bench", "--no-run")
	case sel.Kind == SelectUnitTest:
		args = append(args, "test", "--no-run")
	default:
		args = append(args, "build")
	}

	if req.Profile != "" {
		args = append(args, "--profile", req.Profile)
	} else if !req.Dev && sel.Kind != SelectBench {
		args = append(args, "--release")
	}

	if req.Package != "" {
		args = append(args, "--package", req.Package)
	}

	switch sel.Kind {
	case SelectBin, SelectExample, SelectTest, SelectBench:
		args = append(args, "--"+string(sel.Kind), sel.Name)
	case SelectUnitTest:
		if sel.Name != "" {
			if Intersects(kinds, []string{KindLib}) {
				args = append(args, "--lib")
			} else {
				args = append(args, "--bin", sel.Name)
			}
		}
	case SelectNone:
	}

	if req.ManifestPath != "" {
		args = append(args, "--manifest-path", req.ManifestPath)
	}

	if req.Features != "" {
		args = append(args, "--features", req.Features)
	}

	if req.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}

	return append(args, "--message-format="+MessageFormat)
}

// Build runs cargo for req and returns every compiler artifact it reported,
// in order. cargo's diagnostics stream to the parent's stderr as they happen.
func (c *Client) Build(ctx context.Context, req Request, kinds []string) ([]Artifact, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	cmd := process.Command{
		Name:   c.binary,
		Args:   BuildArgs(req, kinds),
		Stdout: process.Capture,
		Stderr: process.Inherit,
	}

	c.logger.Debug("building", "command", cmd.String())

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute cargo build command: %w", ErrBuildFailed, err)
	}

	if !res.Success() {
		return nil, fmt.Errorf("%w: exit status %d", ErrBuildFailed, res.ExitCode)
	}

	artifacts, err := ParseMessages(bytes.NewReader(res.Stdout))
	if err != nil {
		return nil, err
	}

	for _, a := range artifacts {
		if a.IsExecutable() {
			return artifacts, nil
		}
	}

	return nil, ErrNoExecutableProduced
}
