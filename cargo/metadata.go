package cargo

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.jacobcolvin.com/cargo-heaptrack/process"
)

// Metadata is the subset of `cargo metadata --format-version 1` output that
// target resolution needs.
type Metadata struct {
	WorkspaceRoot   string    `json:"workspace_root"`
	TargetDirectory string    `json:"target_directory"`
	Packages        []Package `json:"packages"`
}

// Package is a package of the workspace. DefaultRun names the target
// `cargo run` picks and is empty when the manifest does not set one.
type Package struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	ID           string   `json:"id"`
	ManifestPath string   `json:"manifest_path"`
	DefaultRun   string   `json:"default_run"`
	Targets      []Target `json:"targets"`
}

// Target is a build target declared by a [Package].
type Target struct {
	Name       string   `json:"name"`
	SrcPath    string   `json:"src_path"`
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
}

// HasKind reports whether the target's kinds intersect kinds.
func (t Target) HasKind(kinds ...string) bool {
	return Intersects(t.Kind, kinds)
}

// Target kinds as reported by cargo.
const (
	KindBin     = "bin"
	KindLib     = "lib"
	KindExample = "example"
	KindTest    = "test"
	KindBench   = "bench"
)

// Intersects reports whether a and b share at least one element.
func Intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}

	return false
}

// Metadata queries the package graph without resolving dependencies or
// compiling anything. An empty manifestPath lets cargo discover the manifest
// from the working directory.
func (c *Client) Metadata(ctx context.Context, manifestPath string) (*Metadata, error) {
	args := []string{"metadata", "--format-version", "1", "--no-deps"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}

	cmd := process.Command{
		Name:   c.binary,
		Args:   args,
		Stdout: process.Capture,
		Stderr: process.Inherit,
	}

	c.logger.Debug("querying metadata", "command", cmd.String())

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}

	if !res.Success() {
		return nil, fmt.Errorf("%w: cargo metadata exited with status %d", ErrMetadataUnavailable, res.ExitCode)
	}

	return ParseMetadata(res.Stdout)
}

// ParseMetadata decodes the JSON document printed by `cargo metadata`.
func ParseMetadata(data []byte) (*Metadata, error) {
	var md Metadata

	err := json.Unmarshal(data, &md)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}

	return &md, nil
}

// Scope returns the packages in scope. When name is set, only the package
// with exactly that name is in scope; otherwise every package whose manifest
// lies in root or below.
func (m *Metadata) Scope(name, root string) ([]Package, error) {
	var pkgs []Package

	for _, p := range m.Packages {
		if name != "" {
			if p.Name == name {
				pkgs = append(pkgs, p)
			}

			continue
		}

		if isWithin(root, p.ManifestPath) {
			pkgs = append(pkgs, p)
		}
	}

	if len(pkgs) > 0 {
		return pkgs, nil
	}

	if name != "" {
		return nil, fmt.Errorf("%w: %w: workspace has no package named %s",
			ErrNoMatchingPackage, ErrUnknownPackage, name)
	}

	return nil, fmt.Errorf("%w: failed to find any package in '%s' or below", ErrNoMatchingPackage, root)
}

// isWithin reports whether path equals root or lies below it, comparing whole
// path components.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
