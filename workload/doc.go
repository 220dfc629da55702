// Package workload picks the executable to profile out of the artifacts a
// build produced and assembles the command line to run under the profiler.
//
// [Extract] matches the artifact against the request's target selection and
// keeps the request's trailing arguments in order. It also returns an
// [Advice] when the executable lacks debuginfo, which callers only print:
//
//	artifacts, err := client.Build(ctx, req, kinds)
//	if err != nil {
//		return err
//	}
//
//	w, advice, err := workload.Extract(req, artifacts)
//	if err != nil {
//		return err
//	}
//
//	if advice != nil {
//		fmt.Fprint(os.Stderr, advice)
//	}
//
//	err = launcher.Launch(ctx, w.Executable, w.Args)
//
// The advice names the profile to change, e.g. for the release profile:
//
//	[profile.release]
//	debug = true
//
// or the equivalent CARGO_PROFILE_RELEASE_DEBUG=true environment variable.
package workload
