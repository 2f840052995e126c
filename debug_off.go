//go:build !stash_debug

package stash

// debugEnabled is the untyped constant false outside stash_debug builds.
// Call sites guard the computation of an assertion's condition with
// `if debugEnabled { ... }`, not just the call to debugAssert itself, so
// the compiler dead-code-eliminates the entire branch, including any
// otherwise-unconditionally-evaluated argument expression, and production
// builds pay nothing for the invariant checks scattered through the
// structural-lock-held mutation paths.
const debugEnabled = false

// debugAssert is a no-op outside stash_debug builds.
func debugAssert(cond bool, format string, args ...any) {}
