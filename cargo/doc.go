// Package cargo drives the cargo build tool: it queries the static package
// graph ([Client.Metadata]), locates the crate root ([FindCrateRoot]), builds
// the selected target ([Client.Build]) and decodes the line-delimited JSON
// messages cargo prints while building ([ParseMessages]).
//
// A [Request] captures everything the user asked for: which exec-style target
// to build ([Selection]), the profile, the package and feature flags, and the
// trailing arguments for the profiled program. [BuildArgs] turns a Request
// into a cargo command line without running anything:
//
//	req := cargo.Request{Selection: cargo.Selection{Kind: cargo.SelectBench, Name: "x"}}
//	cargo.BuildArgs(req, nil)
//	// -> bench --no-run --bench x --message-format=json-render-diagnostics
//
// cargo's diagnostics always go to the parent's standard error while it runs;
// only its structured standard output is captured.
package cargo
