// File: reactor/signal.go
// Author: lattice-net contributors
// License: Apache-2.0

package reactor

import (
	"time"

	"github.com/lattice-net/framedrpc/rpcio"
)

type signalKind int

const (
	signalConnection signalKind = iota
	signalShutdown
)

// signalMsg is spec.md §3's "control signal": a tagged record queued
// from any producer to the Reactor. Only the reactor's own loop ever
// reads off the signal queue.
type signalMsg struct {
	kind    signalKind
	conn    rpcio.Connection
	timeout time.Duration
}
