// Command stashbench drives concurrent load against either a Stash or a
// sharded-mutex baseline of the same shape, chosen per run with --target,
// and reports the run's throughput.
//
// It exists to let a reader reproduce the kind of load the core package's
// design decisions (per-slot locking, the single structural lock, bucket
// span hints) were made for, and to compare against the more conventional
// alternative of a fixed shard count guarded by ordinary locks.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spaolacci/murmur3"
	"github.com/urfave/cli/v2"

	"github.com/go-stash/stash"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "stashbench: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stashbench",
		Usage: "load generator and fairness/throughput comparison for Stash",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "target",
				Usage: "contender to drive: stash or sharded",
				Value: "stash",
			},
			&cli.IntFlag{
				Name:  "capacity",
				Usage: "fixed capacity of the Stash; also the key-space size for either target",
				Value: 1 << 20,
			},
			&cli.IntFlag{
				Name:  "shards",
				Usage: "shard count for the sharded baseline",
				Value: 16,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "concurrent worker goroutines",
				Value: 8,
			},
			&cli.DurationFlag{
				Name:  "warmup",
				Usage: "unmeasured warm-up period before the timed run",
				Value: 1 * time.Second,
			},
			&cli.DurationFlag{
				Name:  "duration",
				Usage: "how long to drive measured load",
				Value: 5 * time.Second,
			},
			&cli.Float64Flag{
				Name:  "read-ratio",
				Usage: "fraction of operations that are reads",
				Value: 0.9,
			},
			&cli.Int64Flag{
				Name:  "rate-limit",
				Usage: "approximate max operations/sec across all workers (0 = unlimited)",
				Value: 0,
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "address to serve Prometheus /metrics on while running (empty disables)",
				Value: "",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	level := hclog.Info
	if c.Bool("verbose") {
		level = hclog.Debug
	}
	log := hclog.New(&hclog.LoggerOptions{
		Name:  "stashbench",
		Level: level,
	})

	reg := prometheus.NewRegistry()
	if addr := c.String("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			log.Info("serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
	}

	capacity := c.Int("capacity")
	cfg := runConfig{
		workers:   c.Int("workers"),
		warmup:    c.Duration("warmup"),
		duration:  c.Duration("duration"),
		keyspace:  capacity,
		readRatio: c.Float64("read-ratio"),
		rateLimit: c.Int64("rate-limit"),
	}

	var t target
	switch c.String("target") {
	case "stash":
		s := stash.New[int, int](capacity, stash.WithMetrics[int, int](reg, "stashbench"))
		t = stashTarget{s: s}
	case "sharded":
		m := newShardedMap[int, int](c.Int("shards"), intHasher)
		t = shardedTarget{m: m}
	default:
		return fmt.Errorf("unknown target %q (want stash or sharded)", c.String("target"))
	}

	log.Info("starting run",
		"target", c.String("target"),
		"capacity", capacity,
		"workers", cfg.workers,
		"warmup", cfg.warmup,
		"duration", cfg.duration,
		"read_ratio", cfg.readRatio,
	)

	result := runWorkload(context.Background(), log, t, cfg)
	report(log, result, t.Len())
	return nil
}

func report(log hclog.Logger, r runResult, finalLen int) {
	total := r.reads + r.writes + r.deletes
	var opsPerSec float64
	if r.elapsed > 0 {
		opsPerSec = float64(total) / r.elapsed.Seconds()
	}
	log.Info("run complete",
		"elapsed", r.elapsed,
		"reads", r.reads,
		"writes", r.writes,
		"deletes", r.deletes,
		"ops_total", total,
		"ops_per_sec", fmt.Sprintf("%.0f", opsPerSec),
		"final_len", finalLen,
	)
}

func intHasher(key int) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(key >> (8 * i))
	}
	return murmur3.Sum64(buf[:])
}
