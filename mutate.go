package stash

// reserveSlot picks the slot index for a fresh insertion: the most
// recently freed slot if one exists, otherwise the next never-touched
// slot at the frontier. Must be called with the structural lock held.
func (s *Stash[K, V]) reserveSlot() (SlotRef, bool) {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		return idx, true
	}
	f := s.frontier.Load()
	if f < s.capacity {
		s.frontier.Store(f + 1)
		return SlotRef(f), true
	}
	return NotInStash, false
}

// useSlot records that index now belongs to bucket h, adjusting the
// bucket's first/last span hint. Must be called with the structural lock
// held, after index's slot has already been marked Occupied.
func (s *Stash[K, V]) useSlot(h uint32, index SlotRef) {
	b := &s.buckets[h]
	first, last := b.First(), b.Last()
	switch {
	case first == NotInStash || index < first:
		if last == NotInStash {
			b.last.Store(int32(first))
		}
		b.first.Store(int32(index))
	case last == NotInStash || index > last:
		b.last.Store(int32(index))
	default:
		// strictly between the current endpoints; nothing to adjust.
	}
	b.count.Add(1)
}

// removeFromBucket repairs bucket h's span hint after the slot at index
// was vacated. Must be called with the structural lock held, after the
// slot has already been marked Vacant.
func (s *Stash[K, V]) removeFromBucket(h uint32, index SlotRef) {
	b := &s.buckets[h]
	remaining := b.count.Add(-1)
	if remaining == 0 {
		b.first.Store(int32(NotInStash))
		b.last.Store(int32(NotInStash))
		return
	}

	first, last := b.First(), b.Last()
	switch index {
	case first:
		if remaining == 1 {
			b.first.Store(int32(last))
			b.last.Store(int32(NotInStash))
			return
		}
		for j := first + 1; j <= last-1; j++ {
			sl := &s.slots[j]
			if sl.occupied.Load() && sl.bucketHint.Load() == h {
				b.first.Store(int32(j))
				return
			}
		}
	case last:
		if remaining == 1 {
			b.last.Store(int32(NotInStash))
			return
		}
		for j := last - 1; j >= first+1; j-- {
			sl := &s.slots[j]
			if sl.occupied.Load() && sl.bucketHint.Load() == h {
				b.last.Store(int32(j))
				return
			}
		}
	default:
		// strictly between; no endpoint change needed.
	}
}

// Insert places key/value only if key is not already present. It reports
// the slot that now holds key and whether the insertion actually happened.
// A false inserted flag with a valid SlotRef means key was already present
// and its value was left untouched; NotInStash with false means the table
// is at capacity.
func (s *Stash[K, V]) Insert(key K, value V) (SlotRef, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if i := s.FindIndex(key); i != NotInStash {
		return i, false
	}

	h := s.bucketOf(key)
	idx, ok := s.reserveSlot()
	if !ok {
		s.metrics.exhausted()
		return NotInStash, false
	}

	sl := &s.slots[idx]
	sl.mu.Lock()
	if debugEnabled {
		debugAssert(!sl.occupied.Load(), "reserved slot %v was already occupied", idx)
	}
	sl.key = key
	sl.value = value
	sl.bucketHint.Store(h)
	sl.occupied.Store(true)
	sl.mu.Unlock()

	s.useSlot(h, idx)
	if debugEnabled {
		debugAssert(s.bucketSpanHolds(h), "bucket %d span broken after Insert at %v", h, idx)
	}
	s.metrics.insert()
	return idx, true
}

// Upsert places key/value unconditionally: if key is already present its
// value is overwritten in place; otherwise a fresh slot is reserved exactly
// as Insert would. The returned bool reports whether the slot was newly
// inserted (false means an existing value was overwritten).
func (s *Stash[K, V]) Upsert(key K, value V) (SlotRef, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if i := s.FindIndex(key); i != NotInStash {
		sl := &s.slots[i]
		sl.mu.Lock()
		if sl.occupied.Load() && sl.key == key {
			sl.value = value
			sl.mu.Unlock()
			// Bucket membership is unchanged, since i already lies within
			// the bucket's span hint, so there is nothing to re-touch.
			s.metrics.upsert()
			return i, false
		}
		sl.mu.Unlock()
		// Lost a race with a delete between FindIndex and the lock
		// acquisition; fall through and treat this as a fresh insert.
	}

	h := s.bucketOf(key)
	idx, ok := s.reserveSlot()
	if !ok {
		s.metrics.exhausted()
		return NotInStash, false
	}

	sl := &s.slots[idx]
	sl.mu.Lock()
	if debugEnabled {
		debugAssert(!sl.occupied.Load(), "reserved slot %v was already occupied", idx)
	}
	sl.key = key
	sl.value = value
	sl.bucketHint.Store(h)
	sl.occupied.Store(true)
	sl.mu.Unlock()

	s.useSlot(h, idx)
	if debugEnabled {
		debugAssert(s.bucketSpanHolds(h), "bucket %d span broken after Upsert at %v", h, idx)
	}
	s.metrics.upsert()
	return idx, true
}

// Set is a discard-return Upsert.
func (s *Stash[K, V]) Set(key K, value V) {
	s.Upsert(key, value)
}

// Delete removes key if present. It is a silent no-op if key is absent.
func (s *Stash[K, V]) Delete(key K) {
	s.lock.Lock()
	defer s.lock.Unlock()

	i := s.FindIndex(key)
	if i == NotInStash {
		return
	}

	sl := &s.slots[i]
	sl.mu.Lock()
	if !sl.occupied.Load() || sl.key != key {
		sl.mu.Unlock()
		return
	}
	h := sl.bucketHint.Load()
	sl.occupied.Store(false)
	sl.mu.Unlock()

	frontier := s.frontier.Load()
	if int32(i) == frontier-1 {
		s.frontier.Store(frontier - 1)
	} else {
		s.free = append(s.free, i)
	}
	s.removeFromBucket(h, i)
	if debugEnabled {
		debugAssert(s.bucketSpanHolds(h), "bucket %d span broken after Delete at %v", h, i)
	}
	s.metrics.delete()
}

// bucketSpanHolds checks spec's span invariant for bucket h: every occupied
// slot whose bucketHint is h lies within [first, max(first, last)], and
// first is an occupied member of h (or both first and last are NotInStash
// when empty). A single-element bucket stores the sentinel in last (see
// useSlot), so last == NotInStash is read as last == first, per spec §8
// invariant 1's "first ≤ i ≤ max(first, last)", not as a broken span.
// Only ever called from inside debugAssert, under the structural lock.
func (s *Stash[K, V]) bucketSpanHolds(h uint32) bool {
	b := &s.buckets[h]
	first, last := b.First(), b.Last()
	if b.Count() == 0 {
		return first == NotInStash && last == NotInStash
	}
	if first == NotInStash {
		return false
	}
	if last == NotInStash {
		last = first
	}
	if first > last {
		return false
	}
	if fs := &s.slots[first]; !fs.occupied.Load() || fs.bucketHint.Load() != h {
		return false
	}
	for i := int32(0); i < s.frontier.Load(); i++ {
		sl := &s.slots[i]
		if sl.occupied.Load() && sl.bucketHint.Load() == h {
			if SlotRef(i) < first || SlotRef(i) > last {
				return false
			}
		}
	}
	return true
}
