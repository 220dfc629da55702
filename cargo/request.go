package cargo

import (
	"fmt"
	"strings"
)

// SelectionKind names the exec-style option of a [Request].
type SelectionKind string

// Exec-style options. [SelectNone] asks for the project's unique binary.
const (
	SelectNone     SelectionKind = ""
	SelectBin      SelectionKind = "bin"
	SelectExample  SelectionKind = "example"
	SelectTest     SelectionKind = "test"
	SelectBench    SelectionKind = "bench"
	SelectUnitTest SelectionKind = "unit-test"
)

// Selection is the single exec-style option of a [Request]. A unit-test
// selection may leave Name empty when the crate has only one candidate.
type Selection struct {
	Kind SelectionKind
	Name string
}

// NewSelection builds a [Selection] from the individual exec-style options.
// unitTest reports whether a unit test was requested at all, with
// unitTestName optionally naming it. More than one option is an
// [ErrConflictingSelection].
func NewSelection(bin, example, test, bench string, unitTest bool, unitTestName string) (Selection, error) {
	var set []Selection

	for _, s := range []Selection{
		{Kind: SelectBin, Name: bin},
		{Kind: SelectExample, Name: example},
		{Kind: SelectTest, Name: test},
		{Kind: SelectBench, Name: bench},
	} {
		if s.Name != "" {
			set = append(set, s)
		}
	}

	if unitTest {
		set = append(set, Selection{Kind: SelectUnitTest, Name: unitTestName})
	}

	switch len(set) {
	case 0:
		return Selection{}, nil
	case 1:
		return set[0], nil
	}

	flags := make([]string, 0, len(set))
	for _, s := range set {
		flags = append(flags, "--"+string(s.Kind))
	}

	return Selection{}, fmt.Errorf("%w: %s cannot be used together", ErrConflictingSelection, strings.Join(flags, ", "))
}

// IsSet reports whether an exec-style option was chosen.
func (s Selection) IsSet() bool {
	return s.Kind != SelectNone
}

// Kinds returns the target kinds that may satisfy the selection.
func (s Selection) Kinds() []string {
	switch s.Kind {
	case SelectBin:
		return []string{KindBin}
	case SelectExample:
		return []string{KindExample}
	case SelectTest:
		return []string{KindTest}
	case SelectBench:
		return []string{KindBench}
	case SelectUnitTest:
		return []string{KindLib, KindBin}
	case SelectNone:
	}

	return nil
}

// Validate checks that the selection kind is known and that named kinds
// carry a name.
func (s Selection) Validate() error {
	switch s.Kind {
	case SelectNone:
		if s.Name != "" {
			return fmt.Errorf("%w: target name %q without a target kind", ErrInvalidRequest, s.Name)
		}
	case SelectBin, SelectExample, SelectTest, SelectBench:
		if s.Name == "" {
			return fmt.Errorf("%w: --%s requires a target name", ErrInvalidRequest, s.Kind)
		}
	case SelectUnitTest:
	default:
		return fmt.Errorf("%w: unknown target kind %q", ErrInvalidRequest, s.Kind)
	}

	return nil
}

// Request is a build request: what to build, how, and what to pass to the
// resulting executable.
type Request struct {
	Selection Selection
	// Profile is an explicit cargo profile name; it wins over Dev and the
	// implicit release profile.
	Profile      string
	Package      string
	ManifestPath string
	// Features is a comma- or space-separated feature list passed verbatim.
	Features string
	// Args are the trailing arguments for the profiled executable.
	Args              []string
	Dev               bool
	NoDefaultFeatures bool
	// Release is accepted for compatibility with `cargo run --release` and has
	// no effect.
	Release bool
}

// Validate checks the request before any subprocess is spawned.
func (r Request) Validate() error {
	return r.Selection.Validate()
}

// IsDev reports whether the request builds with the dev profile.
func (r Request) IsDev() bool {
	return r.Dev || r.Profile == "dev"
}
