// Package heaptrack launches an executable under the heaptrack memory
// profiler.
//
// Typical usage creates a [Config], registers its flags on a command, then
// creates a [Launcher] once the workload is known:
//
//	cfg := heaptrack.NewConfig()
//	cfg.RegisterFlags(cmd.Flags())
//	cfg.RegisterCompletions(cmd)
//
//	l := cfg.NewLauncher(process.NewExec())
//	err := l.Launch(ctx, "/path/to/target/release/app", []string{"--input", "data"})
//
// Users can then pass flags like --output=app.heaptrack or --raw=false.
package heaptrack
