// File: rpcserver/config.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Config and functional Options, grounded in the teacher's
// server.Config / server.ServerOption / DefaultConfig() triple.

package rpcserver

import (
	"time"

	"github.com/lattice-net/framedrpc/metrics"
	"github.com/lattice-net/framedrpc/reactor"
	"github.com/lattice-net/framedrpc/rpcio"
	"github.com/lattice-net/framedrpc/workerpool"
)

// DrainForever re-exports workerpool.DrainForever for callers of
// Server.Shutdown that want the pre-redesign "wait without bound"
// behavior instead of the new timeout-of-0-means-abandon-immediately
// default (see DESIGN.md Design Note 2).
const DrainForever = workerpool.DrainForever

// Config holds all server-side configuration.
type Config struct {
	// Network is "tcp" or "unix".
	Network string
	// ListenAddr is the bind address, e.g. ":9000" or a socket path.
	ListenAddr string

	// NumWorkers sizes the worker pool. Zero selects
	// reactor.DefaultNumWorkers.
	NumWorkers int

	// IOBufferSize is the scratch buffer size used for one nonblocking
	// read syscall.
	IOBufferSize int

	// MaxFrameLength bounds a single frame's declared payload length;
	// connections that declare more are dropped. Zero selects
	// reactor.DefaultMaxFrameLength.
	MaxFrameLength int

	// NUMANode is a preferred NUMA node hint for worker placement; -1
	// means no preference. Not currently wired to real pinning (see
	// DESIGN.md) but threaded through so a future affinity adapter has
	// a config surface to read from.
	NUMANode int

	// ShutdownTimeout is the drain budget ShutdownAsync passes to
	// reactor.Reactor.Shutdown. Shutdown itself takes its own timeout
	// argument and ignores this field; it exists for the no-arg async
	// call site, which has nowhere else to take a timeout from.
	ShutdownTimeout time.Duration

	Processor        rpcio.Processor
	TransportFactory rpcio.TransportFactory
	ProtocolFactory  rpcio.ProtocolFactory
	Logger           rpcio.Logger
	Stats            *metrics.Stats
}

// DefaultConfig returns sensible defaults matching spec.md §6's
// documented defaults (20 workers, shutdown timeout of 0). Per the
// timeout<=0-means-abandon-immediately redesign (DrainForever, not 0,
// is the sentinel for an unbounded wait), ShutdownAsync with this
// default does not wait for in-flight work; pass WithShutdownTimeout a
// positive duration or DrainForever to change that.
func DefaultConfig() *Config {
	return &Config{
		Network:         "tcp",
		ListenAddr:      ":9000",
		NumWorkers:      reactor.DefaultNumWorkers,
		IOBufferSize:    64 * 1024,
		NUMANode:        -1,
		ShutdownTimeout: 0,
	}
}

// Option customizes a Config before it is passed to New.
type Option func(*Config)

// WithListenAddr overrides the bind network and address.
func WithListenAddr(network, addr string) Option {
	return func(c *Config) {
		c.Network = network
		c.ListenAddr = addr
	}
}

// WithNumWorkers overrides the worker pool size.
func WithNumWorkers(n int) Option {
	return func(c *Config) { c.NumWorkers = n }
}

// WithNUMANode sets the worker placement hint.
func WithNUMANode(node int) Option {
	return func(c *Config) { c.NUMANode = node }
}

// WithMaxFrameLength overrides the declared-frame-length bound the
// Reactor enforces once a frame's header has been read, without waiting
// for its payload to arrive.
func WithMaxFrameLength(n int) Option {
	return func(c *Config) { c.MaxFrameLength = n }
}

// WithShutdownTimeout overrides the drain timeout ShutdownAsync uses.
// Server.Shutdown ignores this; pass the timeout to it directly.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) { c.ShutdownTimeout = d }
}

// WithProcessor sets the request dispatcher. Required: New returns an
// error if no processor is configured.
func WithProcessor(p rpcio.Processor) Option {
	return func(c *Config) { c.Processor = p }
}

// WithTransportFactory overrides the default stream transport factory.
func WithTransportFactory(tf rpcio.TransportFactory) Option {
	return func(c *Config) { c.TransportFactory = tf }
}

// WithProtocolFactory overrides the default binary protocol factory.
func WithProtocolFactory(pf rpcio.ProtocolFactory) Option {
	return func(c *Config) { c.ProtocolFactory = pf }
}

// WithLogger overrides the default stderr/warn logger.
func WithLogger(l rpcio.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithStats overrides the default, freshly-allocated metrics.Stats.
func WithStats(s *metrics.Stats) Option {
	return func(c *Config) { c.Stats = s }
}
