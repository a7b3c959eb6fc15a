// File: metrics/stats.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Package metrics is a small, statically-typed counter set shared by the
// reactor, worker pool, and acceptor. Grounded in the teacher's
// control.MetricsRegistry (a thread-safe map of named counters, see
// control/metrics.go), generalized here to a fixed struct of atomic
// counters because this module's metric set is closed and known ahead of
// time — a fixed struct gives callers static typing and avoids a map
// lookup and an `any` unboxing on every increment, which matters on the
// hot read/dispatch path this type is used from.
package metrics

import "sync/atomic"

// Stats holds the running counters for one server instance.
type Stats struct {
	ActiveConnections atomic.Int64
	FramesDispatched  atomic.Int64
	FramesDropped     atomic.Int64
	BytesRead         atomic.Int64
	WorkerPoolSize    atomic.Int64
}

// New returns a zeroed Stats.
func New() *Stats { return &Stats{} }

// Snapshot is a point-in-time copy of Stats, safe to retain or print
// without further synchronization.
type Snapshot struct {
	ActiveConnections int64
	FramesDispatched  int64
	FramesDropped     int64
	BytesRead         int64
	WorkerPoolSize    int64
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		ActiveConnections: s.ActiveConnections.Load(),
		FramesDispatched:  s.FramesDispatched.Load(),
		FramesDropped:     s.FramesDropped.Load(),
		BytesRead:         s.BytesRead.Load(),
		WorkerPoolSize:    s.WorkerPoolSize.Load(),
	}
}
