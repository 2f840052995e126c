package stash

import "github.com/prometheus/client_golang/prometheus"

// config collects the options applied at construction time, following the
// teacher library's MapConfig pattern: a plain struct filled in by a chain
// of functional options, rather than a large constructor parameter list.
type config[K comparable, V any] struct {
	hash    HashFunc[K]
	metrics *metrics
}

// Option configures a Stash at construction time.
type Option[K comparable, V any] func(*config[K, V])

func defaultConfig[K comparable, V any]() *config[K, V] {
	return &config[K, V]{
		hash:    defaultHasher[K](),
		metrics: newMetrics(),
	}
}

// WithHasher overrides the default hash function used for bucket
// addressing. Use this when K's default formatting-based fallback would
// hash poorly (e.g. large structs) or when a specific distribution is
// required.
func WithHasher[K comparable, V any](hash HashFunc[K]) Option[K, V] {
	return func(c *config[K, V]) {
		if hash != nil {
			c.hash = hash
		}
	}
}

// WithMetrics additionally mirrors the Stash's operation counters into reg
// under the given name prefix. Without this option, Stats() still works,
// since the plain counters are always tracked, but no Prometheus
// collectors are created.
func WithMetrics[K comparable, V any](reg *prometheus.Registry, namePrefix string) Option[K, V] {
	return func(c *config[K, V]) {
		c.metrics.registerPrometheus(reg, namePrefix)
	}
}
