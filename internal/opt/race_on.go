//go:build race

package opt

import "sync"

// Sema is the race-detector-safe counterpart to the !race build's direct
// runtime.semacquire/semrelease wrapper. A buffered channel gives the race
// detector real memory operations to track instead of the runtime's
// internal (and to the detector, invisible) semaphore table.
type Sema struct {
	once sync.Once
	ch   chan struct{}
}

func (s *Sema) init() {
	s.once.Do(func() { s.ch = make(chan struct{}, 1<<20) })
}

func (s *Sema) Acquire() {
	s.init()
	<-s.ch
}

func (s *Sema) Release() {
	s.init()
	select {
	case s.ch <- struct{}{}:
	default:
	}
}
