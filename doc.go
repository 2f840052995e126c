// Package stash implements a fixed-capacity, shared-memory concurrent
// associative map. Many goroutines may look up, insert, update, and delete
// entries in parallel, and may hold a value under lock for arbitrary
// (including blocking) work without starving unrelated keys.
//
// The table is composed of a slot array with one lock per slot, a bucket
// directory that narrows lookups to a short span of slots without
// maintaining a per-bucket linked list, a monotonically advancing
// allocation frontier backed by a deletion stack for slot reuse, and a
// single structural lock guarding the bucket directory and the allocator.
// Lookups and iteration never take a lock; they re-verify what they found
// under the relevant slot lock before acting on it.
//
// Capacity is fixed at construction. There is no growth path: callers that
// need a bigger table build a new one and use AddAll to copy across.
package stash
