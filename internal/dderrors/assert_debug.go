//go:build ddsampler_debug

package dderrors

import "fmt"

// Assert panics with a formatted message if cond is false. Only
// compiled in under the ddsampler_debug build tag, for deep
// verification of internal invariants that argument validation alone
// cannot catch.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("ddsampler: invariant violated: "+format, args...))
	}
}
