package stash

import "testing"

func TestScenario1_BasicInsertUpsertFind(t *testing.T) {
	s := New[string, int](4)

	i, ok := s.Insert("a", 1)
	if i != 0 || !ok {
		t.Fatalf("Insert(a,1) = (%v, %v), want (0, true)", i, ok)
	}
	j, ok := s.Insert("b", 2)
	if j != 1 || !ok {
		t.Fatalf("Insert(b,2) = (%v, %v), want (1, true)", j, ok)
	}
	k, ok := s.Insert("a", 99)
	if k != 0 || ok {
		t.Fatalf("Insert(a,99) = (%v, %v), want (0, false)", k, ok)
	}
	l, ok := s.Upsert("a", 99)
	if l != 0 || ok {
		t.Fatalf("Upsert(a,99) = (%v, %v), want (0, false)", l, ok)
	}
	if got := s.FindIndex("a"); got != 0 {
		t.Fatalf("FindIndex(a) = %v, want 0", got)
	}
	read := -1
	s.WithFound("a", 0, func(v *int) { read = *v })
	if read != 99 {
		t.Fatalf("WithFound read %d, want 99", read)
	}
}

// fixedHasher forces every key into the same bucket, so that lookup must
// exercise the between-endpoints linear scan described in spec §4.2.
func fixedHasher[K comparable](h uint64) HashFunc[K] {
	return func(K) uint64 { return h }
}

func TestScenario2_BucketCollisionSpanRepair(t *testing.T) {
	s := New[int, string](8, WithHasher[int, string](fixedHasher[int](0)))

	i0, _ := s.Insert(1, "one")
	i1, _ := s.Insert(2, "two")
	i2, _ := s.Insert(3, "three")
	if i0 != 0 || i1 != 1 || i2 != 2 {
		t.Fatalf("expected slots 0,1,2; got %v,%v,%v", i0, i1, i2)
	}

	b := &s.buckets[0]
	if got := b.Count(); got != 3 {
		t.Fatalf("bucket count = %d, want 3", got)
	}

	s.Delete(2)
	if got := b.Count(); got != 2 {
		t.Fatalf("bucket count after delete = %d, want 2", got)
	}
	if got := b.First(); got != 0 {
		t.Fatalf("bucket first = %v, want 0", got)
	}
	if got := b.Last(); got != 2 {
		t.Fatalf("bucket last = %v, want 2", got)
	}

	i3, ok := s.Insert(4, "four")
	if !ok || i3 != 1 {
		t.Fatalf("Insert(4) = (%v, %v), want (1, true): expected slot reuse via deletion stack", i3, ok)
	}
	if got := b.Count(); got != 3 {
		t.Fatalf("bucket count after reinsert = %d, want 3", got)
	}
	if got := b.First(); got != 0 {
		t.Fatalf("bucket first after reinsert = %v, want 0", got)
	}
	if got := b.Last(); got != 2 {
		t.Fatalf("bucket last after reinsert = %v, want 2", got)
	}

	if got := s.FindIndex(4); got != 1 {
		t.Fatalf("FindIndex(4) = %v, want 1", got)
	}
}

func TestScenario3_CapacityExhaustionAndRecovery(t *testing.T) {
	const cap = 4
	s := New[int, int](cap)

	for i := 0; i < cap; i++ {
		if _, ok := s.Insert(i, i*10); !ok {
			t.Fatalf("Insert(%d) unexpectedly failed", i)
		}
	}

	ref, ok := s.Insert(cap, cap*10)
	if ok || ref != NotInStash {
		t.Fatalf("Insert at capacity = (%v, %v), want (NotInStash, false)", ref, ok)
	}
	if got := s.FindIndex(0); got == NotInStash {
		t.Fatal("existing content disturbed by failed insert")
	}

	s.Delete(2)
	ref, ok = s.Insert(cap, cap*10)
	if !ok || ref == NotInStash {
		t.Fatalf("Insert after freeing a slot = (%v, %v), want (valid, true)", ref, ok)
	}
}

func TestFindIndexMissingKey(t *testing.T) {
	s := New[string, int](4)
	if got := s.FindIndex("missing"); got != NotInStash {
		t.Fatalf("FindIndex(missing) = %v, want NotInStash", got)
	}
}
