package stash

// FindIndex looks up key and returns the SlotRef of the slot holding it, or
// NotInStash if no slot currently holds it. It never blocks: it reads
// bucket metadata and slot fields without acquiring any lock, so the result
// is advisory and may already be stale by the time the caller inspects it.
// WithFound and WithValue re-verify under the slot lock before acting.
func (s *Stash[K, V]) FindIndex(key K) SlotRef {
	h := s.bucketOf(key)
	b := &s.buckets[h]

	if b.Count() == 0 {
		return NotInStash
	}

	if first := b.First(); first != NotInStash && s.slotMatches(first, h, key) {
		return first
	}
	if last := b.Last(); last != NotInStash && s.slotMatches(last, h, key) {
		return last
	}

	count := b.Count()
	if count < 3 {
		return NotInStash
	}

	first, last := b.First(), b.Last()
	// Both endpoints were already probed above; they still count toward
	// the bucket's total membership for the early-exit counter below.
	seen := int32(2)
	for i := first + 1; i < last && seen < count; i++ {
		sl := &s.slots[i]
		if !sl.occupied.Load() || sl.bucketHint.Load() != h {
			continue
		}
		seen++
		if sl.key == key {
			return i
		}
	}
	return NotInStash
}

// slotMatches reports whether the slot at i is occupied, belongs to bucket
// h, and holds key. Used only for the two endpoint probes, where the slot
// identity is already known from the bucket's first/last hint.
func (s *Stash[K, V]) slotMatches(i SlotRef, h uint32, key K) bool {
	sl := &s.slots[i]
	if !sl.occupied.Load() {
		return false
	}
	if sl.bucketHint.Load() != h {
		return false
	}
	return sl.key == key
}
