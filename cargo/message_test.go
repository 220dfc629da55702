package cargo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/cargo-heaptrack/cargo"
	"go.jacobcolvin.com/cargo-heaptrack/stringtest"
)

func TestParseMessages(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input     string
		wantNames []string
		wantDebug []cargo.DebugInfo
		wantErr   bool
	}{
		"artifacts in order": {
			input:     libArtifact + "\n" + binArtifact + "\n",
			wantNames: []string{"app", "app"},
			wantDebug: []cargo.DebugInfo{cargo.DebugInfoNone, cargo.DebugInfoNone},
		},
		"other reasons ignored": {
			input: stringtest.JoinLF(
				`{"reason":"compiler-message","message":{"rendered":"warning: unused"}}`,
				`{"reason":"build-script-executed","package_id":"app 0.1.0"}`,
				binArtifact,
				buildDone,
			),
			wantNames: []string{"app"},
			wantDebug: []cargo.DebugInfo{cargo.DebugInfoNone},
		},
		"unknown future reason ignored": {
			input:     `{"reason":"timing-info","unit":{"name":"x"}}` + "\n" + binArtifact,
			wantNames: []string{"app"},
			wantDebug: []cargo.DebugInfo{cargo.DebugInfoNone},
		},
		"crlf line endings": {
			input:     stringtest.JoinCRLF(libArtifact, binArtifact, ""),
			wantNames: []string{"app", "app"},
			wantDebug: []cargo.DebugInfo{cargo.DebugInfoNone, cargo.DebugInfoNone},
		},
		"blank lines skipped": {
			input:     "\n\n" + binArtifact + "\n\n",
			wantNames: []string{"app"},
			wantDebug: []cargo.DebugInfo{cargo.DebugInfoNone},
		},
		"numeric debuginfo": {
			input: `{"reason":"compiler-artifact","target":{"name":"a","kind":["bin"]},"profile":{"debuginfo":2},"executable":"/a"}` + "\n" +
				`{"reason":"compiler-artifact","target":{"name":"b","kind":["bin"]},"profile":{"debuginfo":1},"executable":"/b"}`,
			wantNames: []string{"a", "b"},
			wantDebug: []cargo.DebugInfo{cargo.DebugInfoFull, cargo.DebugInfoLimited},
		},
		"named debuginfo": {
			input:     `{"reason":"compiler-artifact","target":{"name":"a","kind":["bin"]},"profile":{"debuginfo":"line-tables-only"},"executable":"/a"}`,
			wantNames: []string{"a"},
			wantDebug: []cargo.DebugInfo{cargo.DebugInfoLineTablesOnly},
		},
		"unknown debuginfo levels kept": {
			input: stringtest.JoinLF(
				`{"reason":"compiler-artifact","target":{"name":"a","kind":["bin"]},"profile":{"debuginfo":3},"executable":"/a"}`,
				`{"reason":"compiler-artifact","target":{"name":"b","kind":["bin"]},"profile":{"debuginfo":"extra"},"executable":"/b"}`,
			),
			wantNames: []string{"a", "b"},
			wantDebug: []cargo.DebugInfo{"3", "extra"},
		},
		"null debuginfo same as missing": {
			input: stringtest.JoinLF(
				`{"reason":"compiler-artifact","target":{"name":"a","kind":["bin"]},"profile":{"debuginfo":null},"executable":"/a"}`,
				`{"reason":"compiler-artifact","target":{"name":"b","kind":["bin"]},"profile":{},"executable":"/b"}`,
			),
			wantNames: []string{"a", "b"},
			wantDebug: []cargo.DebugInfo{"", ""},
		},
		"empty stream": {
			input: "",
		},
		"not json": {
			input:   "Compiling app v0.1.0\n",
			wantErr: true,
		},
		"malformed artifact": {
			input:   `{"reason":"compiler-artifact","target":{"name":["not","a","string"]}}`,
			wantErr: true,
		},
		"invalid debuginfo": {
			input:   `{"reason":"compiler-artifact","target":{"name":"a","kind":["bin"]},"profile":{"debuginfo":true}}`,
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			artifacts, err := cargo.ParseMessages(strings.NewReader(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, cargo.ErrBuildOutputParse)

				return
			}

			require.NoError(t, err)

			var names []string

			var debug []cargo.DebugInfo

			for _, a := range artifacts {
				names = append(names, a.Target.Name)
				debug = append(debug, a.Profile.DebugInfo)
			}

			assert.Equal(t, tc.wantNames, names)
			assert.Equal(t, tc.wantDebug, debug)
		})
	}
}

func TestParseMessages_ErrorQuotesLine(t *testing.T) {
	t.Parallel()

	_, err := cargo.ParseMessages(strings.NewReader(binArtifact + "\n{broken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), `"{broken"`)
}

func TestArtifact_String(t *testing.T) {
	t.Parallel()

	a := cargo.Artifact{Target: cargo.Target{Name: "app", Kind: []string{"bin"}}}
	assert.Equal(t, "[bin] app", a.String())
	assert.False(t, a.IsExecutable())
}
