package stash

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// HashFunc computes a hash of a key. Implementations need not be
// cryptographically strong; they only need to distribute keys evenly across
// buckets.
type HashFunc[K comparable] func(key K) uint64

// defaultHasher builds a murmur3-backed hash function for any comparable
// key type. string keys are hashed directly; every other comparable type
// falls back to hashing its fmt-formatted representation,
// mirroring the default-hasher fallback used by sharded maps elsewhere in
// this ecosystem (github.com/yndnr/tokmesh-go's pkg/cmap, which falls back
// to fmt.Sprintf for non-string keys). Using murmur3 instead of maphash
// keeps the hash stable across runs, which matters for reproducing the
// concrete probe scenarios in the test suite.
func defaultHasher[K comparable]() HashFunc[K] {
	var zero K
	switch any(zero).(type) {
	case string:
		return func(key K) uint64 {
			s := any(key).(string)
			return murmur3.Sum64([]byte(s))
		}
	default:
		return func(key K) uint64 {
			return murmur3.Sum64([]byte(fmt.Sprintf("%v", key)))
		}
	}
}
