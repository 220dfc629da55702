package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/cargo-heaptrack/cargo"
	"go.jacobcolvin.com/cargo-heaptrack/cli"
	"go.jacobcolvin.com/cargo-heaptrack/heaptrack"
	"go.jacobcolvin.com/cargo-heaptrack/process"
	"go.jacobcolvin.com/cargo-heaptrack/process/processtest"
	"go.jacobcolvin.com/cargo-heaptrack/resolve"
	"go.jacobcolvin.com/cargo-heaptrack/workload"
)

type crate struct {
	dir    string
	config string
}

// newCrate creates a crate directory with a Cargo.toml and an empty settings
// file, so tests never read the user's settings.
func newCrate(t *testing.T) crate {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cargo.ManifestName), []byte("[package]\n"), 0o644))

	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, nil, 0o644))

	return crate{dir: dir, config: config}
}

func (c crate) metadata(t *testing.T, pkgs ...cargo.Package) string {
	t.Helper()

	for i := range pkgs {
		pkgs[i].ManifestPath = filepath.Join(c.dir, cargo.ManifestName)
	}

	out, err := json.Marshal(cargo.Metadata{WorkspaceRoot: c.dir, Packages: pkgs})
	require.NoError(t, err)

	return string(out)
}

func artifactLine(name, kind, executable, debuginfo string) string {
	exe := "null"
	if executable != "" {
		exe = fmt.Sprintf("%q", executable)
	}

	return fmt.Sprintf(`{"reason":"compiler-artifact","package_id":"app 0.1.0","target":{"name":%q,"kind":[%q]},`+
		`"profile":{"opt_level":"3","debuginfo":%s,"test":false},"executable":%s,"fresh":false}`,
		name, kind, debuginfo, exe)
}

func binTarget(name string) cargo.Target {
	return cargo.Target{Name: name, Kind: []string{cargo.KindBin}}
}

type run struct {
	fake   *processtest.Fake
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	err    error
}

func execute(t *testing.T, c crate, fake *processtest.Fake, env map[string]string, args ...string) run {
	t.Helper()

	var stdout, stderr bytes.Buffer

	app := cli.NewApp(fake)
	app.Stdout = &stdout
	app.Stderr = &stderr
	app.Getwd = func() (string, error) { return c.dir, nil }
	app.Getenv = func(key string) string { return env[key] }

	cmd := app.NewCommand()
	cmd.SetArgs(append([]string{"heaptrack", "--config", c.config, "--log-format", "logfmt"}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return run{fake: fake, stdout: &stdout, stderr: &stderr, err: err}
}

func TestRun_AutoSelectsOnlyBinary(t *testing.T) {
	t.Parallel()

	c := newCrate(t)
	fake := processtest.NewFake().
		Set("cargo metadata", processtest.Response{
			Stdout: c.metadata(t, cargo.Package{Name: "app", Targets: []cargo.Target{binTarget("app")}}),
		}).
		Set("cargo build", processtest.Response{
			Stdout: artifactLine("app", cargo.KindBin, "/target/release/app", `"line-tables-only"`) + "\n",
		}).
		Set("heaptrack", processtest.Response{})

	r := execute(t, c, fake, nil, "--", "--flag", "value")
	require.NoError(t, r.err)

	assert.Equal(t, [][]string{
		{"cargo", "metadata", "--format-version", "1", "--no-deps"},
		{
			"cargo", "build", "--release", "--package", "app", "--bin", "app",
			"--message-format=json-render-diagnostics",
		},
		{"heaptrack", "--raw", "/target/release/app", "--flag", "value"},
	}, r.fake.Argvs())

	assert.Contains(t, r.stderr.String(), "automatically selected target app in package app")
	assert.NotContains(t, r.stderr.String(), "WARNING")

	calls := r.fake.Calls()
	assert.Equal(t, process.Capture, calls[1].Stdout)
	assert.Equal(t, process.Inherit, calls[1].Stderr)
	assert.Equal(t, process.Inherit, calls[2].Stderr)
}

func TestRun_DefaultRunIsSilent(t *testing.T) {
	t.Parallel()

	c := newCrate(t)
	fake := processtest.NewFake().
		Set("cargo metadata", processtest.Response{
			Stdout: c.metadata(t, cargo.Package{
				Name:       "app",
				DefaultRun: "a",
				Targets:    []cargo.Target{binTarget("a"), binTarget("b")},
			}),
		}).
		Set("cargo build", processtest.Response{
			Stdout: artifactLine("a", cargo.KindBin, "/target/release/a", "2") + "\n",
		}).
		Set("heaptrack", processtest.Response{})

	r := execute(t, c, fake, nil)
	require.NoError(t, r.err)

	assert.NotContains(t, r.stderr.String(), "automatically selected")
	assert.Equal(t, []string{"heaptrack", "--raw", "/target/release/a"}, r.fake.Argvs()[2])
}

func TestRun_ExplicitTargetSkipsMetadata(t *testing.T) {
	t.Parallel()

	c := newCrate(t)
	fake := processtest.NewFake().
		Set("cargo bench", processtest.Response{
			Stdout: `{"reason":"build-script-executed","package_id":"app 0.1.0"}` + "\n" +
				artifactLine("x", cargo.KindBench, "/target/release/deps/x-123", "0") + "\n",
		}).
		Set("heaptrack", processtest.Response{})

	r := execute(t, c, fake, nil, "--bench", "x", "-o", "out.gz", "--raw=false")
	require.NoError(t, r.err)

	assert.Equal(t, [][]string{
		{"cargo", "bench", "--no-run", "--bench", "x", "--message-format=json-render-diagnostics"},
		{"heaptrack", "--output", "out.gz", "/target/release/deps/x-123"},
	}, r.fake.Argvs())

	assert.Contains(t, r.stderr.String(), "[profile.bench]")
	assert.Contains(t, r.stderr.String(), "CARGO_PROFILE_BENCH_DEBUG")
}

func TestRun_UnitTest(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args []string
	}{
		"without name": {args: []string{"--unit-test"}},
		"with name":    {args: []string{"--unit-test=core"}},
		"positional":   {args: []string{"--unit-test", "core"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newCrate(t)
			fake := processtest.NewFake().
				Set("cargo metadata", processtest.Response{
					Stdout: c.metadata(t, cargo.Package{
						Name:    "core",
						Targets: []cargo.Target{{Name: "core", Kind: []string{cargo.KindLib}}},
					}),
				}).
				Set("cargo test", processtest.Response{
					Stdout: artifactLine("core", cargo.KindLib, "/target/release/deps/core-abc", "2") + "\n",
				}).
				Set("heaptrack", processtest.Response{})

			r := execute(t, c, fake, nil, tc.args...)
			require.NoError(t, r.err)

			assert.Equal(t, []string{
				"cargo", "test", "--no-run", "--release", "--package", "core", "--lib",
				"--message-format=json-render-diagnostics",
			}, r.fake.Argvs()[1])
			assert.Equal(t, []string{"heaptrack", "--raw", "/target/release/deps/core-abc"}, r.fake.Argvs()[2])
		})
	}
}

func TestRun_Settings(t *testing.T) {
	t.Parallel()

	c := newCrate(t)
	require.NoError(t, os.WriteFile(c.config,
		[]byte("heaptrack: /opt/heaptrack/bin/heaptrack\nheaptrackArgs: --record-only\n"), 0o644))

	fake := processtest.NewFake().
		Set("/opt/cargo build", processtest.Response{
			Stdout: artifactLine("app", cargo.KindBin, "/target/debug/app", "2") + "\n",
		}).
		Set("/opt/heaptrack/bin/heaptrack", processtest.Response{})

	r := execute(t, c, fake, map[string]string{"CARGO": "/opt/cargo"}, "--bin", "app", "--dev")
	require.NoError(t, r.err)

	assert.Equal(t, [][]string{
		{"/opt/cargo", "build", "--bin", "app", "--message-format=json-render-diagnostics"},
		{"/opt/heaptrack/bin/heaptrack", "--raw", "--record-only", "/target/debug/app"},
	}, r.fake.Argvs())
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	errNotFound := errors.New("executable file not found in $PATH")

	tcs := map[string]struct {
		setup     func(t *testing.T, c crate) *processtest.Fake
		err       error
		args      []string
		wantCalls int
	}{
		"conflicting selection": {
			setup: func(*testing.T, crate) *processtest.Fake { return processtest.NewFake() },
			args:  []string{"--bin", "a", "--example", "b"},
		},
		"unexpected positional": {
			setup: func(*testing.T, crate) *processtest.Fake { return processtest.NewFake() },
			args:  []string{"--bin", "a", "stray"},
			err:   cargo.ErrInvalidRequest,
		},
		"invalid manifest path": {
			setup: func(*testing.T, crate) *processtest.Fake { return processtest.NewFake() },
			args:  []string{"--manifest-path", "missing/Cargo.toml"},
			err:   cargo.ErrInvalidManifestPath,
		},
		"ambiguous target": {
			setup: func(t *testing.T, c crate) *processtest.Fake {
				t.Helper()

				return processtest.NewFake().Set("cargo metadata", processtest.Response{
					Stdout: c.metadata(t, cargo.Package{Name: "app", Targets: []cargo.Target{binTarget("a"), binTarget("b")}}),
				})
			},
			err:       resolve.ErrAmbiguousTarget,
			wantCalls: 1,
		},
		"unknown package": {
			setup: func(t *testing.T, c crate) *processtest.Fake {
				t.Helper()

				return processtest.NewFake().Set("cargo metadata", processtest.Response{
					Stdout: c.metadata(t, cargo.Package{Name: "app", Targets: []cargo.Target{binTarget("a")}}),
				})
			},
			args:      []string{"-p", "other"},
			err:       cargo.ErrUnknownPackage,
			wantCalls: 1,
		},
		"build failed": {
			setup: func(*testing.T, crate) *processtest.Fake {
				return processtest.NewFake().Set("cargo build", processtest.Response{ExitCode: 101})
			},
			args:      []string{"--bin", "app"},
			err:       cargo.ErrBuildFailed,
			wantCalls: 1,
		},
		"artifact not found": {
			setup: func(*testing.T, crate) *processtest.Fake {
				return processtest.NewFake().Set("cargo build", processtest.Response{
					Stdout: artifactLine("other", cargo.KindBin, "/target/release/other", "2") + "\n",
				})
			},
			args:      []string{"--bin", "app"},
			err:       workload.ErrTargetArtifactNotFound,
			wantCalls: 1,
		},
		"profiler missing": {
			setup: func(*testing.T, crate) *processtest.Fake {
				return processtest.NewFake().
					Set("cargo build", processtest.Response{
						Stdout: artifactLine("app", cargo.KindBin, "/target/release/app", "2") + "\n",
					}).
					Set("heaptrack", processtest.Response{Err: fmt.Errorf("%w: %w", process.ErrStart, errNotFound)})
			},
			args:      []string{"--bin", "app"},
			err:       heaptrack.ErrProfilerLaunchFailed,
			wantCalls: 2,
		},
		"profiler failed": {
			setup: func(*testing.T, crate) *processtest.Fake {
				return processtest.NewFake().
					Set("cargo build", processtest.Response{
						Stdout: artifactLine("app", cargo.KindBin, "/target/release/app", "2") + "\n",
					}).
					Set("heaptrack", processtest.Response{ExitCode: 1})
			},
			args:      []string{"--bin", "app"},
			err:       heaptrack.ErrProfilerFailed,
			wantCalls: 2,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newCrate(t)
			r := execute(t, c, tc.setup(t, c), nil, tc.args...)
			require.Error(t, r.err)

			if tc.err != nil {
				require.ErrorIs(t, r.err, tc.err)
			}

			assert.Len(t, r.fake.Calls(), tc.wantCalls)
		})
	}
}

func TestRun_PrintConfigSchema(t *testing.T) {
	t.Parallel()

	c := newCrate(t)
	r := execute(t, c, processtest.NewFake(), nil, "--print-config-schema")
	require.NoError(t, r.err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(r.stdout.Bytes(), &doc))
	assert.Contains(t, doc, "properties")
	assert.Empty(t, r.fake.Calls())
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	c := newCrate(t)
	r := execute(t, c, processtest.NewFake(), nil, "--version")
	require.NoError(t, r.err)

	assert.True(t, strings.Contains(r.stdout.String(), "revision"))
	assert.Empty(t, r.fake.Calls())
}
