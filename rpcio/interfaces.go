// File: rpcio/interfaces.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Package rpcio defines the collaborator contracts the reactor core invokes
// but never implements itself: the Processor, the Transport/Protocol
// factories, and the ServerTransport. The core is built against these
// interfaces only; concrete wire formats and dispatch logic live outside
// this package or in the reference implementations shipped alongside it.

package rpcio

import "io"

// Connection is the opaque, bidirectional byte channel the reactor
// multiplexes. Read must be nonblocking: it returns 0..n bytes, or
// ErrWouldBlock if nothing is currently available, or io.EOF at end of
// stream. The reactor never closes a Connection on EOF itself; it only
// removes it from its watched set, since a Worker may still be writing a
// response through it.
type Connection interface {
	io.Reader
	io.Writer
	io.Closer

	// Fd returns the underlying OS file descriptor, used to register the
	// connection with the reactor's readiness multiplexer.
	Fd() uintptr

	// RemoteAddr returns a printable address for logging.
	RemoteAddr() string
}

// Transport wraps a Connection's byte stream for the Protocol layer. An
// output Transport writes to a live Connection; an input Transport reads
// from an in-memory frame payload handed to a Worker.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// TransportFactory builds a Transport around a raw byte source or sink.
type TransportFactory interface {
	GetTransport(rw io.ReadWriter) (Transport, error)
}

// Protocol encodes and decodes application-level messages over a
// Transport. The reactor core never looks inside a Protocol; it only
// constructs one per frame and hands it to the Processor.
type Protocol interface {
	Transport() Transport
}

// ProtocolFactory builds a Protocol around a Transport.
type ProtocolFactory interface {
	GetProtocol(t Transport) (Protocol, error)
}

// Processor is the opaque, user-supplied request dispatcher. It must
// tolerate concurrent invocation from multiple Worker goroutines, and any
// error it raises is caught and logged by the Worker that invoked it — it
// must never propagate back into the pool.
type Processor interface {
	Process(in, out Protocol) error
}

// ServerTransport is the listener abstraction the Acceptor drives. Accept
// blocks and returns exactly one Connection per call; Close interrupts a
// concurrently blocked Accept with an error.
type ServerTransport interface {
	Listen() error
	Accept() (Connection, error)
	Close() error
}
