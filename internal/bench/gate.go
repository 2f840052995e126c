// Package bench provides wait/signal primitives used by the load-generation
// and comparison harness in cmd/stashbench. They are not used by the Stash
// core itself: benchmarks need to coordinate worker startup, throttle
// producers against consumers, and synchronize rounds, and those concerns
// are cleanly separable from the map's own locking.
package bench

import (
	"sync/atomic"

	"github.com/go-stash/stash/internal/opt"
)

// Gate is a synchronization primitive that can be manually opened and closed.
//
// State:
//   - Open: Wait returns immediately.
//   - Close: Wait blocks.
//
// It is zero-value usable (starts Close). Used by the harness to hold a
// worker pool at the starting line until every goroutine has been spawned.
type Gate struct {
	_ noCopy
	// state 64-bit:
	//   Bit 63:    IsOpen (1 = Open, 0 = Close)
	//   Bit 32-62: Generation
	//   Bit 0-31:  Waiter Count
	state atomic.Uint64

	// sema is a double-buffered semaphore to prevent signal stealing
	// during rapid Open/Close cycles.
	sema [2]opt.Sema
}

const (
	gateOpenBit = 1 << 63
	gateCntMsk  = 0xFFFFFFFF
)

// Open signals the gate (sets state to Open).
// All current waiters are woken up.
// Future calls to Wait() return immediately until Close() is called.
func (e *Gate) Open() {
	for {
		s := e.state.Load()
		if s&gateOpenBit != 0 {
			return
		}

		gen := (s >> 32) & 0x7FFFFFFF
		cnt := s & gateCntMsk

		// New state: Open=1, Gen=Same, Count=0. Count is cleared because
		// we are about to wake everyone up.
		next := gateOpenBit | (gen << 32)

		if e.state.CompareAndSwap(s, next) {
			if cnt > 0 {
				sema := &e.sema[gen%2]
				for i := 0; i < int(cnt); i++ {
					sema.Release()
				}
			}
			return
		}
	}
}

// Close signals the gate (sets state to Close).
// Future calls to Wait() will block.
func (e *Gate) Close() {
	for {
		s := e.state.Load()
		if s&gateOpenBit == 0 {
			return
		}

		// Preserve generation but advance it for the new Close phase.
		gen := (s >> 32) & 0x7FFFFFFF
		nextGen := (gen + 1) & 0x7FFFFFFF
		next := nextGen << 32

		if e.state.CompareAndSwap(s, next) {
			return
		}
	}
}

// Wait blocks until the gate is opened (Open).
// If the gate is already opened, it returns immediately.
func (e *Gate) Wait() {
	for {
		s := e.state.Load()
		if s&gateOpenBit != 0 {
			return
		}

		if e.state.CompareAndSwap(s, s+1) {
			gen := (s >> 32) & 0x7FFFFFFF
			e.sema[gen%2].Acquire()
			return
		}
	}
}

// IsOpen returns true if the gate is currently opened.
func (e *Gate) IsOpen() bool {
	return e.state.Load()&gateOpenBit != 0
}
