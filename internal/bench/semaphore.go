package bench

import (
	"sync/atomic"

	"github.com/go-stash/stash/internal/opt"
)

// Semaphore is a counting semaphore. The harness uses it as the permit pool
// behind its optional rate limiter: each operation takes one permit, permits
// are not given back when the operation ends, and a periodic refill tops the
// pool back up.
//
// It is zero-value usable (starts with 0 permits). Unlike sync.Mutex it has
// no owner.
type Semaphore struct {
	_ noCopy
	// permits is the number of available permits.
	// Positive: available permits.
	// Negative: approximate number of waiters.
	permits atomic.Int64

	sema opt.Sema
}

// NewSemaphore creates a new Semaphore with a given number of initial permits.
func NewSemaphore(permits int64) *Semaphore {
	s := &Semaphore{}
	s.permits.Store(permits)
	return s
}

// Acquire acquires n permits.
// It blocks until n permits are available.
func (s *Semaphore) Acquire(n int64) {
	if n <= 0 {
		return
	}
	if s.permits.Add(-n) < 0 {
		s.sema.Acquire()
	}
}

// TryAcquire attempts to acquire n permits without blocking.
// Returns true on success.
func (s *Semaphore) TryAcquire(n int64) bool {
	for {
		p := s.permits.Load()
		if p < n {
			return false
		}
		if s.permits.CompareAndSwap(p, p-n) {
			return true
		}
	}
}

// Release releases n permits.
func (s *Semaphore) Release(n int64) {
	if n <= 0 {
		return
	}

	v := s.permits.Add(n)

	// Waiters existed iff the value before this add was negative; wake at
	// most n of them, since that's how many permits we just handed out.
	valBefore := v - n
	if valBefore < 0 {
		waiters := -valBefore
		toWake := min(waiters, n)
		for range toWake {
			s.sema.Release()
		}
	}
}
