// File: rpcserver/server.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Package rpcserver is the Acceptor facade (spec.md §4.4): it wires a
// ServerTransport, a Reactor, and the Reactor's owned worker pool into
// one constructible unit, and guards Shutdown against being invoked
// twice. Grounded in the teacher's server.NewServer(cfg, opts...) plus
// its GetControl()/GetBufferPool() accessor pattern, generalized from a
// WebSocket listener to a plain length-prefixed RPC listener.

package rpcserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/lattice-net/framedrpc/metrics"
	"github.com/lattice-net/framedrpc/reactor"
	"github.com/lattice-net/framedrpc/rpcio"
)

// Server is the high-level facade gluing listener, reactor, worker pool,
// config, and logger together.
type Server struct {
	cfg      *Config
	listener rpcio.ServerTransport
	reactor  reactor.Reactor
	stats    *metrics.Stats
	logger   rpcio.Logger

	shutdownOnce sync.Once
	shutdownErr  error
	acceptDone   chan struct{}
}

// New builds a Server bound to cfg.ListenAddr but does not start
// accepting connections; call Serve for that. cfg.Processor must be
// set. Any zero-valued field in cfg is defaulted the same way
// reactor.Config.setDefaults does.
func New(cfg *Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.Processor == nil {
		return nil, fmt.Errorf("rpcserver: Config.Processor must be set")
	}
	if cfg.Logger == nil {
		cfg.Logger = rpcio.NewStdLogger(nil, rpcio.LevelWarn)
	}
	if cfg.Stats == nil {
		cfg.Stats = metrics.New()
	}

	var listener rpcio.ServerTransport
	switch cfg.Network {
	case "", "tcp":
		listener = rpcio.NewTCPServerTransport(cfg.ListenAddr)
	case "unix":
		listener = rpcio.NewUnixServerTransport(cfg.ListenAddr)
	default:
		return nil, fmt.Errorf("rpcserver: unsupported network %q", cfg.Network)
	}

	if err := listener.Listen(); err != nil {
		return nil, err
	}

	r, err := reactor.New(reactor.Config{
		NumWorkers:       cfg.NumWorkers,
		IOBufferSize:     cfg.IOBufferSize,
		MaxFrameLength:   cfg.MaxFrameLength,
		Processor:        cfg.Processor,
		TransportFactory: cfg.TransportFactory,
		ProtocolFactory:  cfg.ProtocolFactory,
		Logger:           cfg.Logger,
		Stats:            cfg.Stats,
	})
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	return &Server{
		cfg:        cfg,
		listener:   listener,
		reactor:    r,
		stats:      cfg.Stats,
		logger:     cfg.Logger,
		acceptDone: make(chan struct{}),
	}, nil
}

// Serve runs the accept loop until the listener is closed by Shutdown.
// It blocks the calling goroutine; run it in a goroutine to retain
// control of the caller.
func (s *Server) Serve() error {
	defer func() {
		_ = s.listener.Close()
		s.reactor.EnsureClosed()
		close(s.acceptDone)
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return nil
		}
		if err := s.reactor.AddConnection(conn); err != nil {
			s.logger.Debug("rpcserver: rejecting connection, reactor is draining", "remote", conn.RemoteAddr())
			_ = conn.Close()
		}
	}
}

// Shutdown drains the reactor and its worker pool bounded by timeout
// (DrainForever for an unbounded wait, 0 to abandon in-flight work
// immediately), then closes the listener and waits for Serve to return.
// It is idempotent: only the first call does any work; later callers
// observe the same result the first call returned. This is spec.md
// §4.4's shutdown(timeout, block=true) branch.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.shutdownOnce.Do(func() {
		s.doShutdown(timeout)
	})
	return s.shutdownErr
}

// ShutdownAsync begins shutdown on a freshly spawned goroutine and
// returns immediately, without waiting for the drain to finish. This is
// spec.md §4.4's shutdown(block=false) branch; the drain timeout comes
// from cfg.ShutdownTimeout, the no-arg call site's fallback. It shares
// shutdownOnce with Shutdown, so whichever of the two runs first wins:
// a later call to either is a no-op once the first has completed, and
// blocks until it completes if called while it is still in flight
// (sync.Once's own concurrent-call semantics), which is how a caller
// can still observe the eventual error by calling Shutdown afterward.
func (s *Server) ShutdownAsync() {
	go s.shutdownOnce.Do(func() {
		s.doShutdown(s.cfg.ShutdownTimeout)
	})
}

// doShutdown follows spec.md §4.4's prescribed order: the Reactor drains
// first, then the server transport is closed to break the accept loop.
// The accept loop therefore stays live for the whole drain, which is
// exactly the window reactor.reactorImpl's `accepting` flag guards: it
// is flipped false at the start of Reactor.Shutdown, so a connection
// accepted during the drain is rejected with ErrServerStopped instead
// of being handed to a Reactor whose loop has already exited.
func (s *Server) doShutdown(timeout time.Duration) {
	s.shutdownErr = s.reactor.Shutdown(timeout)
	if err := s.listener.Close(); err != nil && s.shutdownErr == nil {
		s.shutdownErr = err
	}
	<-s.acceptDone
}

// Stats returns a point-in-time snapshot of the server's counters.
func (s *Server) Stats() metrics.Snapshot {
	return s.stats.Snapshot()
}
