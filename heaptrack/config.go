package heaptrack

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/cargo-heaptrack/process"
)

// DefaultBinary is the heaptrack executable used when nothing else is
// configured.
const DefaultBinary = "heaptrack"

// Flags holds CLI flag names for heaptrack configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Output string
	Raw    string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:  f,
		Binary: DefaultBinary,
		Raw:    true,
	}
}

// Config holds heaptrack invocation settings.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewLauncher] to create a [Launcher].
type Config struct {
	Flags Flags

	// Output is the heaptrack data file; empty lets heaptrack choose.
	Output string
	// Binary is the heaptrack executable.
	Binary string
	// ExtraArgs are passed to heaptrack before the profiled executable.
	ExtraArgs []string
	// Raw only records data without interpreting it afterwards.
	Raw bool
}

// NewConfig creates a new [Config] with default flag names, raw mode enabled
// and the default heaptrack binary.
func NewConfig() *Config {
	f := Flags{
		Output: "output",
		Raw:    "raw",
	}

	return f.NewConfig()
}

// RegisterFlags adds heaptrack flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "", "heaptrack output file")
	flags.BoolVar(&c.Raw, c.Flags.Raw, true, "only record raw data, do not interpret it")
}

// RegisterCompletions registers shell completions for heaptrack flags on cmd.
// The output flag uses default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Raw,
		cobra.FixedCompletions([]string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Raw, err)
	}

	return nil
}

// NewLauncher creates a new [Launcher] using this [Config].
func (c *Config) NewLauncher(r process.Runner) *Launcher {
	return &Launcher{
		Config: *c,
		runner: r,
	}
}
