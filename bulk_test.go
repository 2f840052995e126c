package stash

import "testing"

func TestAddAllFidelity(t *testing.T) {
	src := New[string, int](8)
	src.Insert("a", 1)
	src.Insert("b", 2)
	src.Insert("c", 3)

	dst := New[string, int](8)
	if ok := AddAll(dst, src, true); !ok {
		t.Fatal("AddAll reported failure on a table with ample capacity")
	}
	if dst.Len() != src.Len() {
		t.Fatalf("dst.Len() = %d, want %d", dst.Len(), src.Len())
	}
	for _, k := range []string{"a", "b", "c"} {
		var got, want int
		src.WithValue(k, func(v *int) { want = *v })
		found := false
		dst.WithValue(k, func(v *int) { found = true; got = *v })
		if !found || got != want {
			t.Fatalf("key %q in dst = %d (found=%v), want %d", k, got, found, want)
		}
	}
}

func TestScenario6_AddAllUpsertFlag(t *testing.T) {
	dst := New[string, int](8)
	dst.Insert("k", 100) // v_d

	src := New[string, int](8)
	src.Insert("k", 200) // v_s

	AddAll(dst, src, false)
	var got int
	dst.WithValue("k", func(v *int) { got = *v })
	if got != 100 {
		t.Fatalf("upsert=false: dst[k] = %d, want 100 (unchanged)", got)
	}

	AddAll(dst, src, true)
	dst.WithValue("k", func(v *int) { got = *v })
	if got != 200 {
		t.Fatalf("upsert=true: dst[k] = %d, want 200", got)
	}
}

func TestAddAllStopsOnCapacityExhaustionWithoutRollback(t *testing.T) {
	src := New[int, int](4)
	for i := 0; i < 4; i++ {
		src.Insert(i, i)
	}

	dst := New[int, int](2)
	dst.Insert(100, 100) // occupies one of dst's two slots already

	ok := AddAll(dst, src, true)
	if ok {
		t.Fatal("AddAll reported success despite dst running out of capacity")
	}
	// Whatever fit before exhaustion must still be there.
	var got int
	found := false
	dst.WithValue(100, func(v *int) { found = true; got = *v })
	if !found || got != 100 {
		t.Fatalf("pre-existing dst content disturbed: found=%v got=%d", found, got)
	}
}

func TestClearEmpties(t *testing.T) {
	s := New[string, int](4)
	s.Insert("a", 1)
	s.Insert("b", 2)
	s.Clear()

	if got := s.Len(); got != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", got)
	}
	n := 0
	for range s.Keys() {
		n++
	}
	if n != 0 {
		t.Fatalf("Keys() after Clear yielded %d entries, want 0", n)
	}
	if got := s.FindIndex("a"); got != NotInStash {
		t.Fatalf("FindIndex(a) after Clear = %v, want NotInStash", got)
	}

	// The table must remain fully usable after Clear.
	ref, ok := s.Insert("c", 3)
	if !ok || ref == NotInStash {
		t.Fatalf("Insert after Clear = (%v, %v), want (valid, true)", ref, ok)
	}
}
