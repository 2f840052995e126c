package stash

import "github.com/prometheus/client_golang/prometheus"

// Stats is a point-in-time snapshot of a Stash's operation counters. It is
// not a consistent view of the table's contents; it is approximate and
// monotonic (every counter only ever grows), exactly
// the kind of aggregate the core's Non-goals disclaim strong consistency
// for. It exists purely as an observability aid for callers.
type Stats struct {
	Hits              uint64
	Misses            uint64
	Inserts           uint64
	Upserts           uint64
	Deletes           uint64
	CapacityExhausted uint64
}

// metrics holds the live counters behind a Stats snapshot. The plain
// counters are tracked unconditionally; the prom* fields stay nil, and are
// skipped by the Inc() calls below, until WithMetrics registers them.
type metrics struct {
	mu RWLock

	hits, misses              uint64
	inserts, upserts, deletes uint64
	capacityExhausted         uint64

	promHits              prometheus.Counter
	promMisses            prometheus.Counter
	promInserts           prometheus.Counter
	promUpserts           prometheus.Counter
	promDeletes           prometheus.Counter
	promCapacityExhausted prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{}
}

// registerPrometheus creates m's Prometheus collectors under namePrefix
// and, if reg is non-nil, registers them into it. Called by WithMetrics.
func (m *metrics) registerPrometheus(reg *prometheus.Registry, namePrefix string) {
	m.promHits = prometheus.NewCounter(prometheus.CounterOpts{Name: namePrefix + "_hits_total"})
	m.promMisses = prometheus.NewCounter(prometheus.CounterOpts{Name: namePrefix + "_misses_total"})
	m.promInserts = prometheus.NewCounter(prometheus.CounterOpts{Name: namePrefix + "_inserts_total"})
	m.promUpserts = prometheus.NewCounter(prometheus.CounterOpts{Name: namePrefix + "_upserts_total"})
	m.promDeletes = prometheus.NewCounter(prometheus.CounterOpts{Name: namePrefix + "_deletes_total"})
	m.promCapacityExhausted = prometheus.NewCounter(prometheus.CounterOpts{Name: namePrefix + "_capacity_exhausted_total"})
	if reg != nil {
		reg.MustRegister(m.promHits, m.promMisses, m.promInserts, m.promUpserts, m.promDeletes, m.promCapacityExhausted)
	}
}

func (m *metrics) hit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
	if m.promHits != nil {
		m.promHits.Inc()
	}
}

func (m *metrics) miss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
	if m.promMisses != nil {
		m.promMisses.Inc()
	}
}

func (m *metrics) insert() {
	m.mu.Lock()
	m.inserts++
	m.mu.Unlock()
	if m.promInserts != nil {
		m.promInserts.Inc()
	}
}

func (m *metrics) upsert() {
	m.mu.Lock()
	m.upserts++
	m.mu.Unlock()
	if m.promUpserts != nil {
		m.promUpserts.Inc()
	}
}

func (m *metrics) delete() {
	m.mu.Lock()
	m.deletes++
	m.mu.Unlock()
	if m.promDeletes != nil {
		m.promDeletes.Inc()
	}
}

func (m *metrics) exhausted() {
	m.mu.Lock()
	m.capacityExhausted++
	m.mu.Unlock()
	if m.promCapacityExhausted != nil {
		m.promCapacityExhausted.Inc()
	}
}

func (m *metrics) snapshot() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Hits:              m.hits,
		Misses:            m.misses,
		Inserts:           m.inserts,
		Upserts:           m.upserts,
		Deletes:           m.deletes,
		CapacityExhausted: m.capacityExhausted,
	}
}

// Stats returns a snapshot of s's operation counters.
func (s *Stash[K, V]) Stats() Stats {
	return s.metrics.snapshot()
}
