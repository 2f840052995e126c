package main

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/go-stash/stash"
	"github.com/go-stash/stash/internal/bench"
)

// target is the common surface both contenders in a run expose. The core
// Stash type and the shardedMap baseline satisfy it via thin adapters below.
type target interface {
	Get(key int) (int, bool)
	Put(key int, value int)
	Delete(key int)
	Len() int
}

type stashTarget struct {
	s *stash.Stash[int, int]
}

func (t stashTarget) Get(key int) (int, bool) {
	var v int
	found := false
	t.s.WithValue(key, func(p *int) { v = *p; found = true })
	return v, found
}

func (t stashTarget) Put(key int, value int) { t.s.Set(key, value) }
func (t stashTarget) Delete(key int)          { t.s.Delete(key) }
func (t stashTarget) Len() int                { return t.s.Len() }

type shardedTarget struct {
	m *shardedMap[int, int]
}

func (t shardedTarget) Get(key int) (int, bool) { return t.m.Get(key) }
func (t shardedTarget) Put(key int, value int)  { t.m.Put(key, value) }
func (t shardedTarget) Delete(key int)          { t.m.Delete(key) }
func (t shardedTarget) Len() int                { return t.m.Len() }

// runConfig holds one benchmark run's parameters, parsed from CLI flags.
type runConfig struct {
	workers   int
	warmup    time.Duration
	duration  time.Duration
	keyspace  int
	readRatio float64
	rateLimit int64 // 0 disables throttling
}

// runResult is the tally produced by a single run's measured phase.
type runResult struct {
	reads, writes, deletes int64
	elapsed                time.Duration
}

// runWorkload lines every worker goroutine up at a bench.Gate, runs an
// unmeasured warm-up, synchronizes the switch to the measured phase through
// a bench.Latch, pauses everyone at the halfway point on a bench.Rally to
// log an interim rate, and finally drives measured load until cfg.duration
// elapses. A bench.Semaphore, paced by a bench.Pulse, optionally throttles
// the aggregate operation rate across all workers.
func runWorkload(ctx context.Context, log hclog.Logger, t target, cfg runConfig) runResult {
	var gate bench.Gate
	var warmupDone bench.Latch
	var checkpoint bench.Rally
	var reads, writes, deletes int64

	var limiter *bench.Semaphore
	var pacer bench.Pulse
	pacerStop := make(chan struct{})
	if cfg.rateLimit > 0 {
		limiter = bench.NewSemaphore(cfg.rateLimit)
		per := cfg.rateLimit / 10
		if per <= 0 {
			per = 1
		}
		go pacerTicker(&pacer, pacerStop)
		go refillOnPulse(&pacer, limiter, per, pacerStop)
		defer func() {
			close(pacerStop)
			pacer.Beat() // unstick refillOnPulse's final Wait
		}()
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.warmup+cfg.duration)
	defer cancel()

	var g errgroup.Group
	for w := 0; w < cfg.workers; w++ {
		seed := uint64(w) + 1
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
			gate.Wait()

			warmupDeadline := time.Now().Add(cfg.warmup)
			for time.Now().Before(warmupDeadline) {
				driveOne(t, rng, cfg, limiter, nil, nil, nil)
			}
			warmupDone.Wait()

			halfway := time.Now().Add(cfg.duration / 2)
			reachedHalfway := false
			for {
				select {
				case <-runCtx.Done():
					return nil
				default:
				}
				if !reachedHalfway && !time.Now().Before(halfway) {
					reachedHalfway = true
					checkpoint.Meet(cfg.workers + 1)
				}
				driveOne(t, rng, cfg, limiter, &reads, &writes, &deletes)
			}
		})
	}

	log.Debug("workers spawned, opening start gate", "count", cfg.workers)
	gate.Open()

	time.Sleep(cfg.warmup)
	log.Debug("warm-up elapsed, releasing measured phase")
	warmupDone.Open()

	start := time.Now()
	go func() {
		time.Sleep(cfg.duration / 2)
		checkpoint.Meet(cfg.workers + 1)
		log.Info("checkpoint", "elapsed", time.Since(start),
			"reads", atomic.LoadInt64(&reads),
			"writes", atomic.LoadInt64(&writes),
			"deletes", atomic.LoadInt64(&deletes))
	}()

	_ = g.Wait()
	elapsed := time.Since(start)

	return runResult{
		reads:   atomic.LoadInt64(&reads),
		writes:  atomic.LoadInt64(&writes),
		deletes: atomic.LoadInt64(&deletes),
		elapsed: elapsed,
	}
}

// driveOne issues a single operation against t. During warm-up the counter
// pointers are nil and the operation goes untallied.
func driveOne(t target, rng *rand.Rand, cfg runConfig, limiter *bench.Semaphore, reads, writes, deletes *int64) {
	if limiter != nil {
		limiter.Acquire(1)
	}
	key := rng.IntN(cfg.keyspace)
	switch roll := rng.Float64(); {
	case roll < cfg.readRatio:
		t.Get(key)
		if reads != nil {
			atomic.AddInt64(reads, 1)
		}
	case roll < cfg.readRatio+(1-cfg.readRatio)/2:
		t.Put(key, key)
		if writes != nil {
			atomic.AddInt64(writes, 1)
		}
	default:
		t.Delete(key)
		if deletes != nil {
			atomic.AddInt64(deletes, 1)
		}
	}
}

// pacerTicker beats pacer on a fixed schedule until stop is closed, turning
// a plain Pulse into a periodic clock the rate limiter rides on.
func pacerTicker(pacer *bench.Pulse, stop <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			pacer.Beat()
		}
	}
}

// refillOnPulse tops limiter back up by per permits every time pacer beats,
// turning a counting semaphore into an (approximate) rate limiter.
func refillOnPulse(pacer *bench.Pulse, limiter *bench.Semaphore, per int64, stop <-chan struct{}) {
	done := make(chan struct{})
	go func() {
		<-stop
		close(done)
	}()
	for {
		pacer.Wait()
		select {
		case <-done:
			return
		default:
		}
		limiter.Release(per)
	}
}
