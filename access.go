package stash

// WithFound runs body with a pointer to the value at ref if, under the
// slot's own lock, ref still names a slot occupied by key. If ref is
// NotInStash, or re-verification fails (the slot was deleted or reused for
// a different key since ref was obtained), body is skipped entirely.
//
// The pointer handed to body is valid only for the dynamic extent of the
// call: it must not be retained past WithFound's return. body may block
// arbitrarily (including on I/O); the slot is pinned against deletion and
// overwrite for as long as body runs, but the structural lock is not held,
// so unrelated slots remain fully available to other goroutines.
//
// Calling WithFound or WithValue on a second slot from inside body is
// forbidden unless every caller in the program orders its slot
// acquisitions by the same global key order; violating this, or acquiring
// the structural lock from inside body (directly, or via Insert/Upsert/
// Set/Delete/Clear/AddAll), deadlocks.
func (s *Stash[K, V]) WithFound(key K, ref SlotRef, body func(value *V)) {
	if ref == NotInStash {
		s.metrics.miss()
		return
	}
	sl := &s.slots[ref]
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if !sl.occupied.Load() || sl.key != key {
		s.metrics.miss()
		return
	}
	s.metrics.hit()
	body(&sl.value)
}

// WithValue looks up key and, if found, runs thenBody with a pointer to its
// value under the slot's lock (see WithFound for the pinning and
// re-entrancy contract). If key is not found, either because it was never
// present or because the slot FindIndex located was vacated before the
// lock was acquired, elseBody runs instead, if supplied, with the slot
// lock already released.
func (s *Stash[K, V]) WithValue(key K, thenBody func(value *V), elseBody ...func()) {
	ref := s.FindIndex(key)
	if ref == NotInStash {
		s.metrics.miss()
		runElse(elseBody)
		return
	}
	sl := &s.slots[ref]
	sl.mu.Lock()
	if !sl.occupied.Load() || sl.key != key {
		sl.mu.Unlock()
		s.metrics.miss()
		runElse(elseBody)
		return
	}
	defer sl.mu.Unlock()
	s.metrics.hit()
	thenBody(&sl.value)
}

func runElse(elseBody []func()) {
	if len(elseBody) > 0 && elseBody[0] != nil {
		elseBody[0]()
	}
}
