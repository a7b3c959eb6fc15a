// File: workerpool/workitem.go
// Author: lattice-net contributors
// License: Apache-2.0

package workerpool

import "github.com/lattice-net/framedrpc/rpcio"

// Kind tags a WorkItem as either dispatchable work or a termination
// signal for the worker that dequeues it.
type Kind int

const (
	// KindFrame carries a decoded frame payload ready for dispatch.
	KindFrame Kind = iota
	// KindShutdown tells the worker that dequeues it to exit its loop.
	KindShutdown
)

// WorkItem is the unit of work handed from the reactor to a worker
// goroutine. Every KindFrame item references a Connection that was still
// owned by the reactor at the moment of enqueue; a worker must tolerate
// the connection being removed from the reactor's set while the item is
// in flight.
type WorkItem struct {
	Kind    Kind
	Conn    rpcio.Connection
	Payload []byte
}
