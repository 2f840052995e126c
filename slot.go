package stash

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-stash/stash/internal/opt"
)

// SlotRef is an opaque, non-owning, possibly-stale handle to a slot. It is
// advisory: by the time a caller acts on it, the slot it names may have
// been deleted, reused, or reinserted with a different key. Every consumer
// of a SlotRef (WithFound, WithValue) re-verifies occupancy and key under
// the slot's own lock before trusting it.
type SlotRef int32

// NotInStash is the reserved SlotRef value meaning "no such slot". It never
// equals a valid slot index.
const NotInStash SlotRef = -1

func (r SlotRef) String() string {
	if r == NotInStash {
		return "NotInStash"
	}
	return strconv.Itoa(int(r))
}

// slot is one of a Stash's C storage cells. occupied and bucketHint are
// read without the slot lock by the lock-free paths (find_index, keys) and
// are therefore kept atomic so that torn reads are merely stale, never
// memory-unsafe. key and value are read lock-free too in those same paths;
// see the "Lock-free key/value reads" Open Question decision in DESIGN.md
// for the accepted trade-off and the key-type guidance that goes with it.
type slot[K comparable, V any] struct {
	mu sync.Mutex

	occupied   atomic.Bool
	bucketHint atomic.Uint32

	key   K
	value V

	//lint:ignore U1000 a full cache line of trailing padding keeps the
	// leading fields (mu, occupied, bucketHint) of adjacent slots on
	// different cache lines, so two goroutines locking adjacent slots don't
	// contend over the same line. The slot's size is not rounded to a
	// cache-line multiple.
	pad [opt.CacheLineSize_]byte
}

// bucketEntry tracks the occupied slots whose hash maps to this bucket.
// first/last bracket the span that lookup must scan; slots strictly between
// them may belong to other buckets. Mutated only by the owning Stash's
// structural lock holder, but read lock-free by find_index/Keys, so each
// field is atomic to keep those reads memory-safe even though they are not
// linearizable with concurrent writers.
type bucketEntry struct {
	count atomic.Int32
	first atomic.Int32 // SlotRef
	last  atomic.Int32 // SlotRef
}

// reset initializes b in place to the empty state. Must be called on a
// slice element, never on a copy, since bucketEntry's atomic fields make it
// unsafe to assign by value once in use.
func (b *bucketEntry) reset() {
	b.first.Store(int32(NotInStash))
	b.last.Store(int32(NotInStash))
}

func (b *bucketEntry) Count() int32    { return b.count.Load() }
func (b *bucketEntry) First() SlotRef  { return SlotRef(b.first.Load()) }
func (b *bucketEntry) Last() SlotRef   { return SlotRef(b.last.Load()) }
