package stash

// Keys returns a range-over-func iterator walking slot indices from 0 up
// to the current frontier (read once, without synchronization) and
// yielding (key, SlotRef) for every slot observed Occupied along the way.
// It takes no locks and is never blocked by any other operation.
//
// Because frontier and each slot's occupancy are read without the
// structural or slot lock, Keys observes a non-serializable view: under
// concurrent writers, keys that never coexisted may appear together in one
// pass, and a key may be missed or seen twice across separate deletions and
// reinsertions of the same slot. With no concurrent writers, Keys yields
// exactly the live key set, each once. Callers that need a consistent
// whole-table view must take the structural lock themselves around their
// aggregation, or copy out via AddAll first.
func (s *Stash[K, V]) Keys() func(yield func(K, SlotRef) bool) {
	return func(yield func(K, SlotRef) bool) {
		frontier := s.frontier.Load()
		for i := int32(0); i < frontier; i++ {
			sl := &s.slots[i]
			if !sl.occupied.Load() {
				continue
			}
			if !yield(sl.key, SlotRef(i)) {
				return
			}
		}
	}
}
