// File: workerpool/worker.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// One worker per pool goroutine. Grounded in the teacher's
// internal/concurrency/executor.go worker.run/safeExecute pair: a tight
// dequeue loop guarded by a deferred recover so a single bad task (here,
// a single bad Processor invocation) never takes down the pool.

package workerpool

import (
	"fmt"
	"runtime/debug"

	"github.com/lattice-net/framedrpc/internal/chanqueue"
	"github.com/lattice-net/framedrpc/metrics"
	"github.com/lattice-net/framedrpc/rpcio"
)

type worker struct {
	id        int
	queue     *chanqueue.Queue[WorkItem]
	processor rpcio.Processor
	tf        rpcio.TransportFactory
	pf        rpcio.ProtocolFactory
	logger    rpcio.Logger
	stats     *metrics.Stats

	// cpuHint is a round-robin CPU index assigned at pool construction.
	// Nothing currently pins the goroutine to it; the field exists so a
	// future affinity adapter has the same shape to attach to as the
	// teacher's NUMA-aware worker carries (see DESIGN.md).
	cpuHint int
}

// run dequeues work items until it pops a KindShutdown item, then
// returns. Ordering guarantee offered to the Processor: none between
// frames on the same connection — frames from the same connection may be
// processed by different workers and may complete in any order.
func (w *worker) run(done func()) {
	defer done()
	for {
		item, ok := w.queue.Pop()
		if !ok {
			// Queue was closed with nothing left to drain; treat the
			// same as an explicit shutdown item.
			return
		}
		if item.Kind == KindShutdown {
			return
		}
		w.dispatch(item)
	}
}

// dispatch builds the input/output protocol pair for one frame and
// invokes the processor, catching and logging every error or panic it
// raises so that it never propagates past this worker.
func (w *worker) dispatch(item WorkItem) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("processor panicked",
				"worker", w.id,
				"remote", safeRemoteAddr(item.Conn),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	outTransport, err := w.tf.GetTransport(item.Conn)
	if err != nil {
		w.logger.Error("failed to build output transport", "worker", w.id, "error", err)
		return
	}
	outProtocol, err := w.pf.GetProtocol(outTransport)
	if err != nil {
		w.logger.Error("failed to build output protocol", "worker", w.id, "error", err)
		return
	}

	inTransport, err := w.tf.GetTransport(rpcio.NewMemoryReader(item.Payload))
	if err != nil {
		w.logger.Error("failed to build input transport", "worker", w.id, "error", err)
		return
	}
	inProtocol, err := w.pf.GetProtocol(inTransport)
	if err != nil {
		w.logger.Error("failed to build input protocol", "worker", w.id, "error", err)
		return
	}

	if err := w.processor.Process(inProtocol, outProtocol); err != nil {
		w.logger.Error("processor returned an error",
			"worker", w.id,
			"remote", safeRemoteAddr(item.Conn),
			"error", err,
		)
		return
	}

	if w.stats != nil {
		w.stats.FramesDispatched.Add(1)
	}
}

func safeRemoteAddr(c rpcio.Connection) string {
	if c == nil {
		return "<nil>"
	}
	return c.RemoteAddr()
}
