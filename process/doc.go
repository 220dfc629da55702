// Package process runs external tools on behalf of cargo-heaptrack.
//
// Every subprocess (cargo metadata, cargo build, heaptrack) goes through the
// narrow [Runner] interface so that target resolution and artifact extraction
// can be exercised against canned responses. [Exec] is the production
// implementation backed by [os/exec]; see package processtest for a fake.
//
// Each [Command] states per stream whether the child inherits the parent's
// stream, has it captured, or has it discarded:
//
//	res, err := process.NewExec().Run(ctx, process.Command{
//	    Name:   "cargo",
//	    Args:   []string{"metadata", "--format-version", "1", "--no-deps"},
//	    Stdout: process.Capture,
//	    Stderr: process.Inherit,
//	})
//
// A non-zero exit status is reported through [Result.ExitCode], not as an
// error. Run only returns an error when the process could not be started.
package process
