//go:build linux

// File: reactor/reactor_linux.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// The Reactor's main loop (spec.md §4.3's state machine) and public API.
// One goroutine owns conns/bufs exclusively; every cross-goroutine input
// (new connections, shutdown) arrives through sigQueue and is only ever
// read by that goroutine, matching spec.md §9's "reactor as owned-state
// actor" guidance.

package reactor

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/lattice-net/framedrpc/framing"
	"github.com/lattice-net/framedrpc/internal/chanqueue"
	"github.com/lattice-net/framedrpc/rpcio"
	"github.com/lattice-net/framedrpc/workerpool"
)

type reactorImpl struct {
	cfg Config
	p   poller

	conns map[uintptr]rpcio.Connection
	bufs  map[uintptr]*connBuf

	// scratch is the one nonblocking-read buffer reused across every
	// onReadable call; safe because onReadable only ever runs on the
	// single loop goroutine.
	scratch []byte

	sigQueue  *chanqueue.Queue[signalMsg]
	workQueue *chanqueue.Queue[workerpool.WorkItem]
	pool      *workerpool.Pool

	accepting atomic.Bool
	ack       chan struct{}

	// drainTimeout is written and read only by the loop goroutine.
	drainTimeout time.Duration
}

func newReactor(cfg Config) (Reactor, error) {
	p, err := newPoller()
	if err != nil {
		return nil, err
	}

	workQueue := chanqueue.New[workerpool.WorkItem]()
	pool := workerpool.New(cfg.NumWorkers, workQueue, cfg.Processor, cfg.TransportFactory, cfg.ProtocolFactory, cfg.Logger, cfg.Stats)

	r := &reactorImpl{
		cfg:       cfg,
		p:         p,
		conns:     make(map[uintptr]rpcio.Connection),
		bufs:      make(map[uintptr]*connBuf),
		sigQueue:  chanqueue.New[signalMsg](),
		workQueue: workQueue,
		pool:      pool,
		ack:       make(chan struct{}),
		scratch:   make([]byte, cfg.IOBufferSize),
	}
	r.accepting.Store(true)
	go r.loop()
	return r, nil
}

func (r *reactorImpl) AddConnection(conn rpcio.Connection) error {
	if !r.accepting.Load() {
		return rpcio.ErrServerStopped
	}
	r.sigQueue.Push(signalMsg{kind: signalConnection, conn: conn})
	return r.p.kick()
}

func (r *reactorImpl) Shutdown(timeout time.Duration) error {
	r.accepting.Store(false)

	if dropped := r.workQueue.Clear(); dropped > 0 && r.cfg.Stats != nil {
		r.cfg.Stats.FramesDropped.Add(int64(dropped))
	}
	for i := 0; i < r.pool.NumWorkers(); i++ {
		r.workQueue.Push(workerpool.WorkItem{Kind: workerpool.KindShutdown})
	}

	r.sigQueue.Push(signalMsg{kind: signalShutdown, timeout: timeout})
	if err := r.p.kick(); err != nil {
		return err
	}

	<-r.ack
	return nil
}

func (r *reactorImpl) EnsureClosed() {
	select {
	case <-r.ack:
		return
	default:
	}
	r.accepting.Store(false)
	if dropped := r.workQueue.Clear(); dropped > 0 && r.cfg.Stats != nil {
		r.cfg.Stats.FramesDropped.Add(int64(dropped))
	}
	r.workQueue.Close()
	r.sigQueue.Push(signalMsg{kind: signalShutdown, timeout: 0})
	_ = r.p.kick()
	<-r.ack
}

// loop is the single reactor thread. It runs until a shutdown signal is
// observed, then joins the worker pool (bounded by the drain timeout
// carried on that signal) and posts ack exactly once.
func (r *reactorImpl) loop() {
	exit := false
	for !exit {
		events, err := r.p.wait()
		if err != nil {
			r.cfg.Logger.Error("reactor: poll wait failed", "error", err)
			break
		}
		for _, ev := range events {
			if ev.isWake {
				if r.drainSignals() {
					exit = true
					break
				}
				continue
			}
			r.onReadable(ev.fd)
		}
	}

	allExited := r.pool.Join(r.drainTimeout)
	if !allExited {
		r.cfg.Logger.Warn("reactor: worker pool drain timed out; abandoning still-running workers",
			"timeout", r.drainTimeout)
	}

	_ = r.p.close()
	close(r.ack)
}

// drainSignals pops every currently queued control signal. It returns
// true the moment a shutdown signal is seen, without processing any
// signals queued after it, matching spec.md §4.3's "exit the loop (do
// not process other readables this pass)" rule.
func (r *reactorImpl) drainSignals() bool {
	for {
		sig, ok := r.sigQueue.TryPop()
		if !ok {
			return false
		}
		switch sig.kind {
		case signalConnection:
			r.registerConnection(sig.conn)
		case signalShutdown:
			r.drainTimeout = sig.timeout
			return true
		}
	}
}

func (r *reactorImpl) registerConnection(conn rpcio.Connection) {
	fd := conn.Fd()
	if err := r.p.registerConn(fd); err != nil {
		r.cfg.Logger.Error("reactor: failed to register connection", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	r.conns[fd] = conn
	r.bufs[fd] = newConnBuf()
	if r.cfg.Stats != nil {
		r.cfg.Stats.ActiveConnections.Add(1)
	}
}

// onReadable drains all currently available bytes from fd, feeds them
// through the Framer, and enqueues every complete frame it finds before
// returning — resolving spec.md §9 Open Question 1 in favor of looping
// the Framer to starvation within a single read pass instead of
// extracting only the first frame.
func (r *reactorImpl) onReadable(fd uintptr) {
	conn, ok := r.conns[fd]
	if !ok {
		return // stale event for an already-removed connection
	}

	buf := r.bufs[fd]
	scratch := r.scratch

	for {
		n, err := conn.Read(scratch)
		if n > 0 {
			buf.append(scratch[:n])
			if r.cfg.Stats != nil {
				r.cfg.Stats.BytesRead.Add(int64(n))
			}
		}
		if err != nil {
			if err == rpcio.ErrWouldBlock {
				break
			}
			if err != io.EOF {
				// Socket errors other than EOF are treated as EOF per
				// spec.md §9 Open Question 4; the distinguishing error
				// is still logged so operators can tell the two apart.
				r.cfg.Logger.Debug("reactor: read error, removing connection", "remote", conn.RemoteAddr(), "error", err)
			}
			r.removeConnection(fd)
			return
		}
		if n == 0 {
			break
		}
	}

	for {
		if n, ok := framing.PeekLength(buf.bytes()); ok && n > uint32(r.cfg.MaxFrameLength) {
			r.cfg.Logger.Warn("reactor: declared frame length exceeds MaxFrameLength, dropping connection",
				"remote", conn.RemoteAddr(), "length", n, "max", r.cfg.MaxFrameLength)
			r.removeConnection(fd)
			_ = conn.Close()
			return
		}
		payload, consumed, ok := framing.Extract(buf.bytes())
		if !ok {
			return
		}
		frame := append([]byte(nil), payload...)
		buf.consume(consumed)
		r.workQueue.Push(workerpool.WorkItem{Kind: workerpool.KindFrame, Conn: conn, Payload: frame})
	}
}

func (r *reactorImpl) removeConnection(fd uintptr) {
	_ = r.p.unregisterConn(fd)
	delete(r.conns, fd)
	delete(r.bufs, fd)
	if r.cfg.Stats != nil {
		r.cfg.Stats.ActiveConnections.Add(-1)
	}
}
