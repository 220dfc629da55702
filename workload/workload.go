package workload

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.jacobcolvin.com/cargo-heaptrack/cargo"
)

// Sentinel errors returned by [Extract].
var (
	ErrNoSelectionCriteria    = errors.New("no target for profiling")
	ErrTargetArtifactNotFound = errors.New("could not find desired target")
)

// Workload is the executable to profile and its arguments.
type Workload struct {
	Executable string
	Args       []string
}

// Argv returns the executable followed by its arguments.
func (w Workload) Argv() []string {
	return append([]string{w.Executable}, w.Args...)
}

// Extract finds the artifact built for req's selection and returns it with
// req's trailing arguments. The returned [Advice] is non-nil when the
// executable was built without debuginfo in a non-dev profile; it is purely
// informational.
func Extract(req cargo.Request, artifacts []cargo.Artifact) (Workload, *Advice, error) {
	sel := req.Selection

	kinds := sel.Kinds()
	if kinds == nil || sel.Name == "" {
		return Workload{}, nil, ErrNoSelectionCriteria
	}

	idx := slices.IndexFunc(artifacts, func(a cargo.Artifact) bool {
		return a.IsExecutable() && a.Target.Name == sel.Name && a.Target.HasKind(kinds...)
	})
	if idx < 0 {
		found := make([]string, 0, len(artifacts))
		for _, a := range artifacts {
			found = append(found, "("+a.String()+")")
		}

		return Workload{}, nil, fmt.Errorf("%w (%v %s) in the targets for this crate: [%s]",
			ErrTargetArtifactNotFound, kinds, sel.Name, strings.Join(found, ", "))
	}

	match := artifacts[idx]

	var advice *Advice
	if !req.IsDev() && match.Profile.DebugInfo == cargo.DebugInfoNone {
		advice = &Advice{Profile: effectiveProfile(req)}
	}

	return Workload{
		Executable: match.Executable,
		Args:       slices.Clone(req.Args),
	}, advice, nil
}

// effectiveProfile names the cargo profile the build used.
func effectiveProfile(req cargo.Request) string {
	if req.Profile != "" {
		return req.Profile
	}

	switch req.Selection.Kind {
	case cargo.SelectBin, cargo.SelectExample, cargo.SelectUnitTest:
		return "release"
	case cargo.SelectNone, cargo.SelectTest, cargo.SelectBench:
	}

	return "bench"
}
