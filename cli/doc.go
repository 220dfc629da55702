// Package cli implements the `cargo heaptrack` command.
//
// The command turns its flags into a [cargo.Request], resolves the target when
// the request leaves it open, builds it with cargo and runs the resulting
// executable under heaptrack. Every subprocess goes through the
// [process.Runner] given to [NewApp], so the whole pipeline can run against
// [processtest.Fake].
//
// [cargo.Request]: go.jacobcolvin.com/cargo-heaptrack/cargo.Request
// [process.Runner]: go.jacobcolvin.com/cargo-heaptrack/process.Runner
// [processtest.Fake]: go.jacobcolvin.com/cargo-heaptrack/process/processtest.Fake
package cli
