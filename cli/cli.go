package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/cargo-heaptrack/cargo"
	"go.jacobcolvin.com/cargo-heaptrack/heaptrack"
	"go.jacobcolvin.com/cargo-heaptrack/log"
	"go.jacobcolvin.com/cargo-heaptrack/process"
	"go.jacobcolvin.com/cargo-heaptrack/resolve"
	"go.jacobcolvin.com/cargo-heaptrack/settings"
	"go.jacobcolvin.com/cargo-heaptrack/version"
	"go.jacobcolvin.com/cargo-heaptrack/workload"
)

// App runs the `cargo heaptrack` pipeline.
//
// Create instances with [NewApp].
type App struct {
	// Runner runs cargo and heaptrack.
	Runner process.Runner
	// Stdout receives --print-config-schema output.
	Stdout io.Writer
	// Stderr receives logs and the debuginfo warning.
	Stderr io.Writer
	// Getenv looks up environment variables.
	Getenv func(string) string
	// Getwd returns the directory crate root discovery starts from.
	Getwd func() (string, error)

	Request   *Config
	Heaptrack *heaptrack.Config
	Log       *log.Config

	// ConfigPath is the settings file; empty uses [settings.DefaultPath].
	ConfigPath        string
	PrintConfigSchema bool
}

// NewApp creates an [App] that runs subprocesses through r and is otherwise
// wired to the current process.
func NewApp(r process.Runner) *App {
	return &App{
		Runner:    r,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Getenv:    os.Getenv,
		Getwd:     os.Getwd,
		Request:   NewConfig(),
		Heaptrack: heaptrack.NewConfig(),
		Log:       log.NewConfig(),
	}
}

// NewCommand returns the `cargo` root command carrying the `heaptrack`
// subcommand, which is how cargo invokes external subcommands.
func (a *App) NewCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cargo",
		Short:         "Cargo subcommand entry point",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd := &cobra.Command{
		Use:   "heaptrack [flags] [UNIT_TEST] [-- ARGS...]",
		Short: "Profile a cargo target with heaptrack",
		Long: `heaptrack builds a target of the current cargo project and runs it under
heaptrack. Without a target selection the project's only binary is used.
Arguments after -- are passed to the profiled program.`,
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, trailing := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, trailing = args[:dash], args[dash:]
			}

			return a.Run(cmd.Context(), cmd.Flags().Changed(a.Request.Flags.UnitTest), positional, trailing)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	a.Request.RegisterFlags(flags)
	a.Request.RegisterFlagGroups(cmd)
	a.Heaptrack.RegisterFlags(flags)
	a.Log.RegisterFlags(flags)
	flags.StringVar(&a.ConfigPath, "config", "", "settings file (default "+settings.DefaultPath()+")")
	flags.BoolVar(&a.PrintConfigSchema, "print-config-schema", false, "print the settings JSON Schema and exit")

	for _, register := range []func(*cobra.Command) error{
		a.Request.RegisterCompletions,
		a.Heaptrack.RegisterCompletions,
		a.Log.RegisterCompletions,
	} {
		err := register(cmd)
		if err != nil {
			fmt.Fprintf(a.Stderr, "register completions: %v\n", err)
		}
	}

	root.AddCommand(cmd)

	return root
}

// Run executes the pipeline for the configured flags. See [Config.NewRequest]
// for unitTest, positional and trailing.
func (a *App) Run(ctx context.Context, unitTest bool, positional, trailing []string) error {
	if a.PrintConfigSchema {
		return a.printSchema()
	}

	s, err := a.loadSettings()
	if err != nil {
		return err
	}

	logger, err := a.Log.NewLogger(a.Stderr)
	if err != nil {
		return err
	}

	req, err := a.Request.NewRequest(unitTest, positional, trailing)
	if err != nil {
		return err
	}

	a.Heaptrack.Binary = s.HeaptrackBinary()

	a.Heaptrack.ExtraArgs, err = s.ExtraHeaptrackArgs()
	if err != nil {
		return err
	}

	client := cargo.NewClient(a.Runner,
		cargo.WithBinary(s.CargoBinary(a.Getenv)),
		cargo.WithLogger(logger),
	)

	req, kinds, err := a.resolve(ctx, logger, client, req)
	if err != nil {
		return err
	}

	artifacts, err := client.Build(ctx, req, kinds)
	if err != nil {
		return err
	}

	w, advice, err := workload.Extract(req, artifacts)
	if err != nil {
		return err
	}

	if advice != nil {
		logger.Warn(strings.TrimSpace(advice.String()), "profile", advice.Profile)
	}

	launcher := a.Heaptrack.NewLauncher(a.Runner)

	logger.Info("profiling", "command", launcher.Command(w.Executable, w.Args).String())

	return launcher.Launch(ctx, w.Executable, w.Args)
}

// resolve fills in the target when req leaves it open and returns the
// resolved target's kinds for the build.
func (a *App) resolve(
	ctx context.Context,
	logger *slog.Logger,
	client *cargo.Client,
	req cargo.Request,
) (cargo.Request, []string, error) {
	kind := req.Selection.Kind

	var kinds []string

	switch kind {
	case cargo.SelectNone:
		kind = cargo.SelectBin
		kinds = []string{cargo.KindBin}
	case cargo.SelectUnitTest:
		kinds = []string{cargo.KindBin, cargo.KindLib}
	case cargo.SelectBin, cargo.SelectExample, cargo.SelectTest, cargo.SelectBench:
		return req, nil, nil
	}

	cwd, err := a.Getwd()
	if err != nil {
		return req, nil, fmt.Errorf("get working directory: %w", err)
	}

	res, err := resolve.NewResolver(client, cwd).Resolve(ctx, resolve.Query{
		Package:      req.Package,
		ManifestPath: req.ManifestPath,
		Name:         req.Selection.Name,
		Kinds:        kinds,
	})
	if err != nil {
		return req, nil, err
	}

	if !res.DefaultRun {
		logger.Info(res.Notice())
	}

	req.Selection = cargo.Selection{Kind: kind, Name: res.Target.Name}
	req.Package = res.Target.Package

	return req, res.Target.Kind, nil
}

func (a *App) loadSettings() (*settings.Settings, error) {
	if a.ConfigPath != "" {
		return settings.Load(a.ConfigPath, false)
	}

	return settings.Load(settings.DefaultPath(), true)
}

func (a *App) printSchema() error {
	schema, err := settings.Schema()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings schema: %w", err)
	}

	out = append(out, '\n')

	_, err = a.Stdout.Write(out)
	if err != nil {
		return fmt.Errorf("write settings schema: %w", err)
	}

	return nil
}
