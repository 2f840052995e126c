//go:build stash_debug

package stash

import "testing"

// Regression test for a bucketSpanHolds bug: a freshly-inserted single-
// element bucket stores the NotInStash sentinel in last (see useSlot), and
// the invariant check must read that as last == first rather than
// rejecting it.
func TestBucketSpanHoldsSingleElementBucket(t *testing.T) {
	s := New[string, int](4)
	s.Insert("a", 1) // must not panic under debugAssert
	s.Insert("b", 2)
	s.Delete("a")
	s.Insert("c", 3)
}

func TestBucketSpanHoldsAcrossRepeatedMutation(t *testing.T) {
	s := New[int, int](64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.Insert(i%64, i)
			s.Delete((i + 1) % 64)
		}
	}()
	<-done
}
