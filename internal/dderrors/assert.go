//go:build !ddsampler_debug

package dderrors

// Assert is a no-op unless the package is built with the
// ddsampler_debug tag. Internal invariant violations are undefined
// behavior in production builds (spec.md §7); this lets call sites
// state the invariant once and have it checked only when asked for.
func Assert(cond bool, format string, args ...any) {}
