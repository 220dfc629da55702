package cargo

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ReasonCompilerArtifact is the "reason" of messages describing a built
// artifact. Other reasons are ignored.
const ReasonCompilerArtifact = "compiler-artifact"

// DebugInfo is the debuginfo level an artifact was built with.
type DebugInfo string

// Debuginfo levels. Older cargo versions report 0, 1 and 2, which decode to
// [DebugInfoNone], [DebugInfoLimited] and [DebugInfoFull]. Levels cargo may
// add later are kept verbatim, numbers in decimal.
const (
	DebugInfoNone               DebugInfo = "none"
	DebugInfoLineDirectivesOnly DebugInfo = "line-directives-only"
	DebugInfoLineTablesOnly     DebugInfo = "line-tables-only"
	DebugInfoLimited            DebugInfo = "limited"
	DebugInfoFull               DebugInfo = "full"
)

// UnmarshalJSON accepts both the numeric and the named encodings. null
// leaves the level unset, as if the field were missing.
func (d *DebugInfo) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	}

	var n int

	err := json.Unmarshal(b, &n)
	if err == nil {
		switch n {
		case 0:
			*d = DebugInfoNone
		case 1:
			*d = DebugInfoLimited
		case 2:
			*d = DebugInfoFull
		default:
			*d = DebugInfo(strconv.Itoa(n))
		}

		return nil
	}

	var s string

	err = json.Unmarshal(b, &s)
	if err != nil {
		return fmt.Errorf("debuginfo must be a number or a string, got %s", b)
	}

	*d = DebugInfo(s)

	return nil
}

// Artifact is a compiler artifact produced by a build. Executable is empty
// for non-executable artifacts such as libraries.
type Artifact struct {
	PackageID  string          `json:"package_id"`
	Executable string          `json:"executable"`
	Target     Target          `json:"target"`
	Filenames  []string        `json:"filenames"`
	Profile    ArtifactProfile `json:"profile"`
	Fresh      bool            `json:"fresh"`
}

// ArtifactProfile describes the profile settings an [Artifact] was built with.
type ArtifactProfile struct {
	OptLevel        string    `json:"opt_level"`
	DebugInfo       DebugInfo `json:"debuginfo"`
	DebugAssertions bool      `json:"debug_assertions"`
	OverflowChecks  bool      `json:"overflow_checks"`
	Test            bool      `json:"test"`
}

// IsExecutable reports whether the artifact has an executable path.
func (a Artifact) IsExecutable() bool {
	return a.Executable != ""
}

// String renders the artifact as its kinds and name, e.g. `[bin] app`.
func (a Artifact) String() string {
	return fmt.Sprintf("%v %s", a.Target.Kind, a.Target.Name)
}

type messageHeader struct {
	Reason string `json:"reason"`
}

// ParseMessages decodes cargo's line-delimited JSON message stream and
// returns the compiler artifacts in the order they were reported. Blank lines
// and messages with other reasons are skipped; a line that is not a JSON
// object, or a compiler-artifact message that does not decode, is an
// [ErrBuildOutputParse].
func ParseMessages(r io.Reader) ([]Artifact, error) {
	var artifacts []Artifact

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var hdr messageHeader

		err := json.Unmarshal(line, &hdr)
		if err != nil {
			return nil, parseError(lineNo, line, err)
		}

		if hdr.Reason != ReasonCompilerArtifact {
			continue
		}

		var a Artifact

		err = json.Unmarshal(line, &a)
		if err != nil {
			return nil, parseError(lineNo, line, err)
		}

		artifacts = append(artifacts, a)
	}

	err := sc.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildOutputParse, err)
	}

	return artifacts, nil
}

func parseError(lineNo int, line []byte, err error) error {
	return fmt.Errorf("%w: line %d: %s: %w", ErrBuildOutputParse, lineNo, strconv.Quote(string(line)), err)
}
