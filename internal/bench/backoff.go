package bench

import (
	"time"
	_ "unsafe" // for go:linkname
)

// noCopy may be embedded in structs that must not be copied after first
// use. go vet's -copylocks check flags any by-value copy of a struct that
// embeds it; it has no effect at runtime.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// delay backs off a spin loop: a few more rounds of runtime-approved
// spinning, then a short sleep. These primitives exist to drive load
// generators and comparison harnesses, not the Stash core, so a sleep
// fallback is an acceptable cost.
func delay(spins *int) {
	if trySpin(spins) {
		return
	}
	*spins = 0
	time.Sleep(500 * time.Microsecond)
}

func trySpin(spins *int) bool {
	if runtime_canSpin(*spins) {
		*spins++
		runtime_doSpin()
		return true
	}
	return false
}

//go:linkname runtime_canSpin sync.runtime_canSpin
func runtime_canSpin(i int) bool

//go:linkname runtime_doSpin sync.runtime_doSpin
func runtime_doSpin()
