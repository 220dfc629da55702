package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/cargo-heaptrack/cargo"
)

// AutoUnitTest is the value --unit-test takes when given without a name.
const AutoUnitTest = "<auto>"

// Profiles offered as --profile completions.
var Profiles = []string{"dev", "release", "test", "bench"}

// Flags holds CLI flag names for build request configuration, allowing
// callers to customize flag names while keeping sensible defaults via
// [NewConfig].
type Flags struct {
	Dev               string
	Profile           string
	Package           string
	Bin               string
	Example           string
	Test              string
	UnitTest          string
	Bench             string
	ManifestPath      string
	Features          string
	NoDefaultFeatures string
	Release           string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds CLI flag values describing what to build.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewRequest] to create a [cargo.Request].
type Config struct {
	Flags Flags

	Profile      string
	Package      string
	Bin          string
	Example      string
	Test         string
	UnitTest     string
	Bench        string
	ManifestPath string
	Features     string

	Dev               bool
	NoDefaultFeatures bool
	Release           bool
}

// NewConfig creates a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Dev:               "dev",
		Profile:           "profile",
		Package:           "package",
		Bin:               "bin",
		Example:           "example",
		Test:              "test",
		UnitTest:          "unit-test",
		Bench:             "bench",
		ManifestPath:      "manifest-path",
		Features:          "features",
		NoDefaultFeatures: "no-default-features",
		Release:           "release",
	}

	return f.NewConfig()
}

// RegisterFlags adds build request flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.Dev, c.Flags.Dev, false, "build with the dev profile")
	flags.StringVar(&c.Profile, c.Flags.Profile, "", "build with the given cargo profile")
	flags.StringVarP(&c.Package, c.Flags.Package, "p", "", "package with the target to profile")
	flags.StringVarP(&c.Bin, c.Flags.Bin, "b", "", "binary to profile")
	flags.StringVar(&c.Example, c.Flags.Example, "", "example to profile")
	flags.StringVar(&c.Test, c.Flags.Test, "", "integration test to profile")
	flags.StringVar(&c.UnitTest, c.Flags.UnitTest, "",
		"unit tests to profile, optionally naming the binary or library that holds them")
	flags.Lookup(c.Flags.UnitTest).NoOptDefVal = AutoUnitTest
	flags.StringVar(&c.Bench, c.Flags.Bench, "", "benchmark to profile")
	flags.StringVar(&c.ManifestPath, c.Flags.ManifestPath, "", "path to Cargo.toml")
	flags.StringVarP(&c.Features, c.Flags.Features, "F", "", "space or comma separated list of features to activate")
	flags.BoolVar(&c.NoDefaultFeatures, c.Flags.NoDefaultFeatures, false, "do not activate the default feature")
	flags.BoolVarP(&c.Release, c.Flags.Release, "r", false, "accepted for compatibility with cargo run, has no effect")
}

// RegisterFlagGroups marks the exec-style flags registered on cmd as mutually
// exclusive. Call it after [Config.RegisterFlags].
func (c *Config) RegisterFlagGroups(cmd *cobra.Command) {
	cmd.MarkFlagsMutuallyExclusive(c.Flags.Bin, c.Flags.Example, c.Flags.Test, c.Flags.UnitTest, c.Flags.Bench)
}

// RegisterCompletions registers shell completions for build request flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Profile,
		cobra.FixedCompletions(Profiles, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Profile, err)
	}

	err = cmd.MarkFlagFilename(c.Flags.ManifestPath, "toml")
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.ManifestPath, err)
	}

	return nil
}

// NewRequest creates a [cargo.Request] from the flag values. unitTest reports
// whether --unit-test was given at all. positional are the arguments before
// `--`: a single one names the unit test when --unit-test was given without a
// value, since optional flag values must be attached with `=`. trailing are
// passed to the profiled executable.
func (c *Config) NewRequest(unitTest bool, positional, trailing []string) (cargo.Request, error) {
	unitTestName := c.UnitTest
	if unitTestName == AutoUnitTest {
		unitTestName = ""
	}

	if unitTest && unitTestName == "" && len(positional) == 1 {
		unitTestName = positional[0]
		positional = nil
	}

	if len(positional) > 0 {
		return cargo.Request{}, fmt.Errorf("%w: unexpected arguments %s; pass arguments for the profiled program after `--`",
			cargo.ErrInvalidRequest, strings.Join(positional, " "))
	}

	sel, err := cargo.NewSelection(c.Bin, c.Example, c.Test, c.Bench, unitTest, unitTestName)
	if err != nil {
		return cargo.Request{}, err
	}

	return cargo.Request{
		Selection:         sel,
		Profile:           c.Profile,
		Package:           c.Package,
		ManifestPath:      c.ManifestPath,
		Features:          c.Features,
		Args:              trailing,
		Dev:               c.Dev,
		NoDefaultFeatures: c.NoDefaultFeatures,
		Release:           c.Release,
	}, nil
}
