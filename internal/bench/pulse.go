package bench

import (
	"sync/atomic"

	"github.com/go-stash/stash/internal/opt"
)

// Pulse is a reusable synchronization primitive that separates waiters into
// generations.
//
// Behavior:
//   - Wait(): blocks until the next Beat() call.
//   - Beat(): wakes every goroutine currently waiting, and immediately
//     closes the door for new Wait() calls; they join the next generation
//     and wait for the next Beat().
//
// The harness uses this to pace a producer against a consumer round by
// round without tearing down and rebuilding a barrier each round.
type Pulse struct {
	_ noCopy
	// state 64-bit:
	//   High 32: Generation
	//   Low 32: Waiter Count
	state atomic.Uint64

	sema opt.Sema
}

// Beat wakes up all threads currently waiting on the barrier.
// It advances the generation, ensuring that any subsequent calls to Wait()
// will block until the *next* Beat().
func (b *Pulse) Beat() {
	for {
		s := b.state.Load()
		gen := s >> 32
		waiters := uint32(s) // cast drops high bits

		nextState := (gen + 1) << 32
		if b.state.CompareAndSwap(s, nextState) {
			for range waiters {
				b.sema.Release()
			}
			return
		}
	}
}

// Wait blocks until Beat() is called.
func (b *Pulse) Wait() {
	for {
		s := b.state.Load()
		if b.state.CompareAndSwap(s, s+1) {
			b.sema.Acquire()
			return
		}
	}
}
