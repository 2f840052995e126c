package stash

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Stash is a fixed-capacity, shared-memory concurrent associative map. See
// the package doc comment for the concurrency model.
type Stash[K comparable, V any] struct {
	_ noCopy

	capacity int32
	mask     uint64 // len(buckets) - 1; len(buckets) is a power of two

	hash HashFunc[K]

	// lock guards buckets, frontier, and free for their entire critical
	// section. slots are guarded individually by their own mu.
	lock     structLock
	buckets  []bucketEntry
	frontier atomic.Int32 // advanced only under lock; read lock-free by Keys/String
	free     []SlotRef

	slots []slot[K, V]

	metrics *metrics
}

// New constructs a Stash with room for exactly capacity entries. Capacity
// is fixed for the table's lifetime; see AddAll for the recommended way to
// move to a larger table.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *Stash[K, V] {
	if capacity <= 0 {
		panic("stash: capacity must be positive")
	}

	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(cfg)
	}

	b := nextPowerOfTwo(capacity)
	s := &Stash[K, V]{
		capacity: int32(capacity),
		mask:     uint64(b - 1),
		hash:     cfg.hash,
		buckets:  make([]bucketEntry, b),
		slots:    make([]slot[K, V], capacity),
		metrics:  cfg.metrics,
	}
	for i := range s.buckets {
		s.buckets[i].reset()
	}
	return s
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (s *Stash[K, V]) bucketOf(key K) uint32 {
	return uint32(s.hash(key) & s.mask)
}

// Cap returns the table's fixed capacity.
func (s *Stash[K, V]) Cap() int {
	return int(s.capacity)
}

// Len returns the number of occupied slots. It takes the structural lock
// for the duration of the read and is therefore consistent with any
// structural-lock-held mutation that completed before it, but, per the
// core's Non-goals, is not a consistent view with respect to concurrent
// writers once the lock is released.
func (s *Stash[K, V]) Len() int {
	s.lock.Lock()
	n := int(s.frontier.Load()) - len(s.free)
	s.lock.Unlock()
	return n
}

// String renders the table as "{}" when empty or "{k: v, k: v, ...}"
// otherwise, visiting each slot under its own lock while formatting, per
// the core's external-interface contract. Like Keys, it does not take the
// structural lock, so the rendered set of pairs is not a consistent
// snapshot under concurrent writers.
func (s *Stash[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	frontier := s.frontier.Load()
	first := true
	for i := int32(0); i < frontier; i++ {
		sl := &s.slots[i]
		sl.mu.Lock()
		if sl.occupied.Load() {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%v: %v", sl.key, sl.value)
		}
		sl.mu.Unlock()
	}
	b.WriteByte('}')
	return b.String()
}
