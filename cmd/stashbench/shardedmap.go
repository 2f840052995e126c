package main

import (
	"github.com/go-stash/stash/internal/bench"
)

// shardKeyHasher hashes a comparison-baseline key down to a shard index.
// Kept separate from the Stash package's own hashing so the baseline isn't
// accidentally favored or penalized by sharing Stash's hash function.
type shardKeyHasher[K comparable] func(key K) uint64

// shardedMap is a fixed-shard-count comparison baseline: every key lives in
// exactly one of n shards, each independently protected. Grounded on the
// shard-by-hash, one-lock-per-shard map pattern used elsewhere in this
// corpus, generalized to arbitrary comparable keys via a hash function
// and switched from sync.Mutex to bench.TicketLock per shard so the
// baseline's own fairness characteristics can be compared against Stash's.
type shardedMap[K comparable, V any] struct {
	hash   shardKeyHasher[K]
	mask   uint64
	shards []shard[K, V]
}

type shard[K comparable, V any] struct {
	lock bench.TicketLock
	data map[K]V
}

func newShardedMap[K comparable, V any](shardCount int, hash shardKeyHasher[K]) *shardedMap[K, V] {
	n := 1
	for n < shardCount {
		n <<= 1
	}
	m := &shardedMap[K, V]{
		hash:   hash,
		mask:   uint64(n - 1),
		shards: make([]shard[K, V], n),
	}
	for i := range m.shards {
		m.shards[i].data = make(map[K]V)
	}
	return m
}

func (m *shardedMap[K, V]) shardFor(key K) *shard[K, V] {
	return &m.shards[m.hash(key)&m.mask]
}

func (m *shardedMap[K, V]) Get(key K) (V, bool) {
	s := m.shardFor(key)
	s.lock.Lock()
	v, ok := s.data[key]
	s.lock.Unlock()
	return v, ok
}

func (m *shardedMap[K, V]) Put(key K, value V) {
	s := m.shardFor(key)
	s.lock.Lock()
	s.data[key] = value
	s.lock.Unlock()
}

func (m *shardedMap[K, V]) Delete(key K) {
	s := m.shardFor(key)
	s.lock.Lock()
	delete(s.data, key)
	s.lock.Unlock()
}

func (m *shardedMap[K, V]) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.lock.Lock()
		n += len(s.data)
		s.lock.Unlock()
	}
	return n
}
