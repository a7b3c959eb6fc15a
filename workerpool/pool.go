// File: workerpool/pool.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Pool owns a fixed set of worker goroutines draining a shared work
// queue. Grounded in the teacher's concurrency.Executor, simplified to a
// fixed-size pool (spec.md's num_workers is static for the lifetime of a
// server) with an explicit, timeout-bounded Join instead of the
// teacher's dynamic Resize — this module has no equivalent of the
// teacher's runtime rebalancing requirement.

package workerpool

import (
	"runtime"
	"sync"
	"time"

	"github.com/lattice-net/framedrpc/internal/chanqueue"
	"github.com/lattice-net/framedrpc/metrics"
	"github.com/lattice-net/framedrpc/rpcio"
)

// DrainForever tells Join to wait without any bound. Any other value is
// an aggregate budget, measured from the start of Join; a value of zero
// means "do not wait at all, consider any still-running worker
// abandoned" (see SPEC_FULL.md Design Note 2 — a deliberate, spec-flagged
// reinterpretation of the original "timeout<=0 waits forever" rule).
const DrainForever time.Duration = -1

// Pool is a fixed-size set of worker goroutines.
type Pool struct {
	workers []*worker
	queue   *chanqueue.Queue[WorkItem]
	wg      sync.WaitGroup
}

// New spawns numWorkers goroutines, each draining queue and invoking
// processor through the given transport/protocol factories. logger must
// not be nil; use rpcio.NopLogger() if diagnostics are unwanted.
func New(
	numWorkers int,
	queue *chanqueue.Queue[WorkItem],
	processor rpcio.Processor,
	tf rpcio.TransportFactory,
	pf rpcio.ProtocolFactory,
	logger rpcio.Logger,
	stats *metrics.Stats,
) *Pool {
	numCPU := runtime.NumCPU()
	p := &Pool{
		workers: make([]*worker, numWorkers),
		queue:   queue,
	}
	for i := 0; i < numWorkers; i++ {
		w := &worker{
			id:        i,
			queue:     queue,
			processor: processor,
			tf:        tf,
			pf:        pf,
			logger:    logger,
			stats:     stats,
			cpuHint:   i % numCPU,
		}
		p.workers[i] = w
		p.wg.Add(1)
		go w.run(p.wg.Done)
	}
	if stats != nil {
		stats.WorkerPoolSize.Add(int64(numWorkers))
	}
	return p
}

// NumWorkers returns the fixed size of the pool.
func (p *Pool) NumWorkers() int { return len(p.workers) }

// Join waits for every worker to observe a KindShutdown item (or a
// closed queue) and return, up to timeout in aggregate. It reports
// whether all workers had exited before the deadline.
//
// Go has no primitive to forcibly terminate a running goroutine the way
// spec.md's "forcibly terminate any thread still reporting live status"
// describes for a native thread pool; when Join times out, the still-
// running workers are left to finish on their own in the background and
// this is logged by the caller (see the reactor's main loop) rather than
// silently ignored. This is a deliberate, necessary deviation from the
// letter of spec.md's join algorithm, constrained by what the Go runtime
// exposes.
func (p *Pool) Join(timeout time.Duration) (allExited bool) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	if timeout == DrainForever {
		<-done
		return true
	}

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
