package stash

import "testing"

func TestIterationCompletenessQuiescent(t *testing.T) {
	s := New[string, int](8)
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		s.Insert(k, v)
	}

	seen := map[string]bool{}
	for k, ref := range s.Keys() {
		if seen[k] {
			t.Fatalf("key %q yielded more than once", k)
		}
		seen[k] = true
		if _, ok := want[k]; !ok {
			t.Fatalf("unexpected key %q in iteration", k)
		}
		if ref == NotInStash {
			t.Fatalf("Keys() yielded NotInStash for key %q", k)
		}
	}
	if len(seen) != len(want) {
		t.Fatalf("saw %d keys, want %d", len(seen), len(want))
	}
}

func TestIterationStopsOnFalseYield(t *testing.T) {
	s := New[int, int](8)
	for i := 0; i < 8; i++ {
		s.Insert(i, i)
	}
	count := 0
	for range s.Keys() {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("iteration visited %d entries before break, want 3", count)
	}
}

func TestIterationInsertionOrderWithoutDeletions(t *testing.T) {
	s := New[int, int](8)
	order := []int{5, 3, 9, 1}
	for _, k := range order {
		s.Insert(k, k)
	}
	var got []int
	for k := range s.Keys() {
		got = append(got, k)
	}
	if len(got) != len(order) {
		t.Fatalf("got %v, want %v", got, order)
	}
	for i, k := range order {
		if got[i] != k {
			t.Fatalf("insertion-order iteration = %v, want %v", got, order)
		}
	}
}
