// Package resolve narrows a cargo workspace down to the single build target an
// under-specified request means.
//
// When the user asks to profile "the binary" without naming it, or a unit test
// without naming the crate target, [Resolver.Resolve] scopes the workspace
// packages, keeps the targets of the requested kinds, applies each package's
// default-run marker and the optional name filter, and succeeds only if
// exactly one target survives:
//
//	r := resolve.NewResolver(client, cwd)
//	res, err := r.Resolve(ctx, resolve.Query{Kinds: []string{"bin"}})
//	if err != nil {
//	    return err // ErrNoTarget, ErrAmbiguousTarget, cargo.ErrUnknownPackage, ...
//	}
//	if !res.DefaultRun {
//	    logger.Info(res.Notice())
//	}
//
// [Select] holds the selection policy on its own, independent of how the
// packages were obtained.
package resolve
