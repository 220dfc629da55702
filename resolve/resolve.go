package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.jacobcolvin.com/cargo-heaptrack/cargo"
)

// Sentinel errors returned by target resolution.
var (
	ErrNoTarget        = errors.New("crate has no automatically selectable target")
	ErrAmbiguousTarget = errors.New("several possible targets found")
)

// Target is a resolved build target.
type Target struct {
	Package string
	Name    string
	Kind    []string
}

// String implements [fmt.Stringer].
func (t Target) String() string {
	return fmt.Sprintf("target %s in package %s", t.Name, t.Package)
}

// Resolution is the outcome of a successful resolution.
type Resolution struct {
	Target Target
	// DefaultRun is set when exactly one package was in scope and it declares
	// a default-run target, i.e. the choice is what `cargo run` would do and
	// needs no announcement.
	DefaultRun bool
}

// Notice returns the message announcing the automatic choice.
func (r Resolution) Notice() string {
	return fmt.Sprintf("automatically selected %s as it is the only valid target", r.Target)
}

// Query describes what to resolve.
type Query struct {
	// Package restricts the scope to the package with exactly this name.
	// Otherwise all packages under the crate root are in scope.
	Package string
	// ManifestPath overrides crate root discovery.
	ManifestPath string
	// Name keeps only targets with exactly this name.
	Name  string
	Kinds []string
}

// MetadataSource provides the workspace package graph.
type MetadataSource interface {
	Metadata(ctx context.Context, manifestPath string) (*cargo.Metadata, error)
}

// Resolver resolves queries against a workspace.
//
// Create instances with [NewResolver].
type Resolver struct {
	metadata MetadataSource
	cwd      string
}

// NewResolver creates a [Resolver] that reads metadata from m and discovers
// the crate root starting at cwd.
func NewResolver(m MetadataSource, cwd string) *Resolver {
	return &Resolver{metadata: m, cwd: cwd}
}

// Resolve finds the unique target matching q.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Resolution, error) {
	root, err := cargo.FindCrateRoot(q.ManifestPath, r.cwd)
	if err != nil {
		return Resolution{}, err
	}

	md, err := r.metadata.Metadata(ctx, q.ManifestPath)
	if err != nil {
		return Resolution{}, err
	}

	pkgs, err := md.Scope(q.Package, root)
	if err != nil {
		return Resolution{}, err
	}

	return Select(pkgs, q.Kinds, q.Name)
}

// Select picks the unique target of the given kinds among pkgs, which must
// already be scoped. A package's default-run marker restricts its candidates
// before name is applied, so naming a non-default target of such a package
// yields [ErrNoTarget].
func Select(pkgs []cargo.Package, kinds []string, name string) (Resolution, error) {
	var (
		candidates []Target
		defaultRun bool
	)

	for _, p := range pkgs {
		if p.DefaultRun != "" {
			defaultRun = true
		}

		for _, t := range p.Targets {
			if !t.HasKind(kinds...) {
				continue
			}

			if p.DefaultRun != "" && p.DefaultRun != t.Name {
				continue
			}

			if name != "" && name != t.Name {
				continue
			}

			candidates = append(candidates, Target{Package: p.Name, Name: t.Name, Kind: t.Kind})
		}
	}

	switch len(candidates) {
	case 0:
		return Resolution{}, fmt.Errorf("%w\nHint: try passing `--example <example>` or similar to choose a binary",
			ErrNoTarget)
	case 1:
		return Resolution{
			Target:     candidates[0],
			DefaultRun: len(pkgs) == 1 && defaultRun,
		}, nil
	}

	list := make([]string, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, fmt.Sprintf("%s %s (package %s)", strings.Join(c.Kind, ","), c.Name, c.Package))
	}

	return Resolution{}, fmt.Errorf("%w: %s; please pass an explicit target",
		ErrAmbiguousTarget, strings.Join(list, ", "))
}
