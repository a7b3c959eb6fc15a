// File: reactor/reactor.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Package reactor implements the I/O Manager of spec.md §4.3: it owns
// the set of live connections, multiplexes their readiness, reads
// available bytes, runs them through the Framer, enqueues completed
// frames for the worker pool, and orchestrates the shutdown protocol
// that interlocks the reactor, the pool, and the Acceptor.
//
// Grounded primarily in the teacher's reactor/epoll_reactor.go (FD
// registration, a callback-driven Wait loop, deferred-recover around
// callbacks) generalized from a generic readiness notifier into the
// buffer-owning, frame-dispatching actor spec.md describes, plus the
// teacher's internal/concurrency/executor.go for the worker pool this
// package owns per spec.md's component table.
package reactor

import (
	"time"

	"github.com/lattice-net/framedrpc/metrics"
	"github.com/lattice-net/framedrpc/rpcio"
)

// DefaultNumWorkers matches spec.md §6's documented default.
const DefaultNumWorkers = 20

// DefaultIOBufferSize is the scratch read-buffer size used when
// Config.IOBufferSize is unset.
const DefaultIOBufferSize = 64 * 1024

// DefaultMaxFrameLength is the frame payload length bound applied when
// Config.MaxFrameLength is unset. framing.Extract itself enforces no
// such bound (spec.md §4.1: "any N is accepted; DoS bounds on N are an
// out-of-scope policy"); the Reactor is the wrapping policy layer that
// applies one, the same way rpcio.BinaryProtocol bounds its own
// envelope payload at its layer.
const DefaultMaxFrameLength = 64 << 20 // 64 MiB

// Config configures a Reactor and the worker pool it owns.
type Config struct {
	// NumWorkers sizes the worker pool. Defaults to DefaultNumWorkers.
	NumWorkers int

	// IOBufferSize is the scratch buffer size used for one nonblocking
	// read syscall. Defaults to DefaultIOBufferSize.
	IOBufferSize int

	// MaxFrameLength bounds a single frame's payload length. It is a
	// defense-in-depth policy the Reactor applies to the declared length
	// in the header (framing.PeekLength) before attempting Extract,
	// closing and removing a connection that declares more; Extract
	// itself enforces no bound. Defaults to DefaultMaxFrameLength.
	MaxFrameLength int

	// Processor is the opaque, user-supplied request dispatcher.
	Processor rpcio.Processor

	// TransportFactory and ProtocolFactory wrap frame bytes for the
	// Processor. Both default to the shipped stream/binary
	// implementations in package rpcio.
	TransportFactory rpcio.TransportFactory
	ProtocolFactory  rpcio.ProtocolFactory

	// Logger receives diagnostic output; defaults to a stderr logger
	// filtering below LevelWarn, matching spec.md §6's documented
	// default.
	Logger rpcio.Logger

	// Stats receives counter updates; defaults to a fresh, otherwise
	// unobserved metrics.Stats.
	Stats *metrics.Stats
}

func (c *Config) setDefaults() {
	if c.NumWorkers <= 0 {
		c.NumWorkers = DefaultNumWorkers
	}
	if c.IOBufferSize <= 0 {
		c.IOBufferSize = DefaultIOBufferSize
	}
	if c.MaxFrameLength <= 0 {
		c.MaxFrameLength = DefaultMaxFrameLength
	}
	if c.TransportFactory == nil {
		c.TransportFactory = rpcio.StreamTransportFactory{}
	}
	if c.ProtocolFactory == nil {
		c.ProtocolFactory = rpcio.BinaryProtocolFactory{}
	}
	if c.Logger == nil {
		c.Logger = rpcio.NewStdLogger(nil, rpcio.LevelWarn)
	}
	if c.Stats == nil {
		c.Stats = metrics.New()
	}
}

// Reactor is the public surface of the I/O Manager. AddConnection is
// thread-safe and may be called concurrently with the reactor's own
// loop. Shutdown must be idempotence-guarded by the caller (the
// Acceptor does this); EnsureClosed is a post-serve cleanup hook for
// when Shutdown was never reached.
type Reactor interface {
	// AddConnection registers a new connection with the reactor. It
	// returns rpcio.ErrServerStopped if the reactor has begun shutting
	// down.
	AddConnection(conn rpcio.Connection) error

	// Shutdown begins the drain protocol: the work queue is cleared,
	// one shutdown item per worker is enqueued, and the reactor's main
	// loop is asked to exit. It blocks until the loop has exited and
	// the worker pool has been joined (bounded by timeout; see
	// workerpool.DrainForever) or abandoned, then closes the signal
	// pipe and returns.
	Shutdown(timeout time.Duration) error

	// EnsureClosed tears down the reactor thread and the worker pool
	// without waiting for in-flight work: queued frames are dropped, the
	// work queue is closed so idle workers exit, and a worker still
	// inside the Processor exits once that call returns. It is a no-op
	// if Shutdown already completed; used only when Serve exits without
	// having reached an orderly shutdown.
	EnsureClosed()
}

// New constructs a Reactor and starts its main loop goroutine. On
// platforms without a supported readiness multiplexer, New returns an
// error instead of a Reactor.
func New(cfg Config) (Reactor, error) {
	cfg.setDefaults()
	return newReactor(cfg)
}
