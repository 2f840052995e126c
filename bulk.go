package stash

import "unsafe"

// AddAll copies every occupied key/value pair from src into dst. If
// upsertFlag is false, keys already present in dst are left untouched;
// if true, they are overwritten with src's value. It returns false,
// without rolling back whatever was already copied, the moment dst runs
// out of capacity; it returns true once every key has been copied.
//
// Both tables' structural locks are held for the entire call, acquired in
// a consistent order: by the tables' memory addresses, not by their dst/
// src role, so that two concurrent AddAll calls can never invert the lock
// order against each other even if one passes (a, b) and the other (b, a).
func AddAll[K comparable, V any](dst, src *Stash[K, V], upsertFlag bool) bool {
	if dst == src {
		return true
	}

	first, second := dst, src
	if uintptr(unsafe.Pointer(dst)) > uintptr(unsafe.Pointer(src)) {
		first, second = src, dst
	}
	first.lock.Lock()
	defer first.lock.Unlock()
	second.lock.Lock()
	defer second.lock.Unlock()

	frontier := src.frontier.Load()
	for i := int32(0); i < frontier; i++ {
		sl := &src.slots[i]
		sl.mu.Lock()
		if !sl.occupied.Load() {
			sl.mu.Unlock()
			continue
		}

		h := dst.bucketOf(sl.key)
		if existing := dst.FindIndex(sl.key); existing != NotInStash {
			if !upsertFlag {
				sl.mu.Unlock()
				continue
			}
			dsl := &dst.slots[existing]
			dsl.mu.Lock()
			if dsl.occupied.Load() && dsl.key == sl.key {
				dsl.value = sl.value
				dsl.mu.Unlock()
				sl.mu.Unlock()
				continue
			}
			dsl.mu.Unlock()
			// existing was stale (raced with a delete); fall through and
			// reserve a fresh slot below.
		}

		idx, ok := dst.reserveSlot()
		if !ok {
			sl.mu.Unlock()
			dst.metrics.exhausted()
			return false
		}
		dsl := &dst.slots[idx]
		dsl.mu.Lock()
		dsl.key = sl.key
		dsl.value = sl.value
		dsl.bucketHint.Store(h)
		dsl.occupied.Store(true)
		dsl.mu.Unlock()
		dst.useSlot(h, idx)

		sl.mu.Unlock()
	}
	return true
}

// Clear empties the table. Frontier resets to zero, the deletion stack is
// emptied, and every bucket returns to its (count=0, sentinel, sentinel)
// state. Slot locks are not reinitialized; they remain valid for the
// table's lifetime, and only the occupancy of each slot is cleared.
func (s *Stash[K, V]) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	frontier := s.frontier.Load()
	for i := int32(0); i < frontier; i++ {
		sl := &s.slots[i]
		sl.mu.Lock()
		sl.occupied.Store(false)
		sl.mu.Unlock()
	}

	s.frontier.Store(0)
	s.free = s.free[:0]
	for i := range s.buckets {
		s.buckets[i].count.Store(0)
		s.buckets[i].first.Store(int32(NotInStash))
		s.buckets[i].last.Store(int32(NotInStash))
	}
}
