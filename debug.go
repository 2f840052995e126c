//go:build stash_debug

package stash

import "fmt"

// debugEnabled lets call sites guard the computation of an assertion's
// condition, not just the assertion itself, with a plain `if debugEnabled`:
// the compiler dead-code-eliminates the branch under !stash_debug, where
// debugEnabled is the untyped constant false, so an expensive check (e.g.
// a full bucket scan) is never evaluated outside debug builds.
const debugEnabled = true

// debugAssert panics if cond is false. It exists only in builds tagged
// stash_debug and compiles to nothing otherwise, per spec: "the
// implementation may assert internal invariants... in debug builds."
func debugAssert(cond bool, format string, args ...any) {
	if !cond {
		panic("stash: invariant violated: " + fmt.Sprintf(format, args...))
	}
}
