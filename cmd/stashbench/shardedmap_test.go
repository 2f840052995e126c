package main

import (
	"sync"
	"testing"
)

func TestShardedMapPutGetDelete(t *testing.T) {
	m := newShardedMap[int, int](4, intHasher)
	m.Put(1, 100)
	m.Put(2, 200)

	if v, ok := m.Get(1); !ok || v != 100 {
		t.Fatalf("Get(1) = (%d, %v), want (100, true)", v, ok)
	}
	if _, ok := m.Get(3); ok {
		t.Fatal("Get(3) reported found for a key never inserted")
	}

	m.Delete(1)
	if _, ok := m.Get(1); ok {
		t.Fatal("key still found after Delete")
	}
	if got := m.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestShardedMapConcurrentDisjointWrites(t *testing.T) {
	const perGoroutine = 2000
	m := newShardedMap[int, int](16, intHasher)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perGoroutine; i++ {
			m.Put(i, i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := perGoroutine; i < 2*perGoroutine; i++ {
			m.Put(i, i*2)
		}
	}()
	wg.Wait()

	if got := m.Len(); got != 2*perGoroutine {
		t.Fatalf("Len() = %d, want %d", got, 2*perGoroutine)
	}
	if v, ok := m.Get(perGoroutine + 5); !ok || v != (perGoroutine+5)*2 {
		t.Fatalf("Get = (%d, %v), want (%d, true)", v, ok, (perGoroutine+5)*2)
	}
}

func TestShardedMapPowerOfTwoShardCount(t *testing.T) {
	m := newShardedMap[int, int](10, intHasher)
	if got := len(m.shards); got != 16 {
		t.Fatalf("shard count = %d, want 16 (rounded up from 10)", got)
	}
}
