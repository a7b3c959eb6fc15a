//go:build linux

// File: rpcio/tcp_connection_linux.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Linux Connection implementation performing truly nonblocking reads via
// a raw syscall on the socket's file descriptor, grounded in the
// teacher's internal/transport/transport_linux.go (unix.Read directly on
// a raw fd, MSG_DONTWAIT/EAGAIN treated as "no data yet"). The fd is
// fetched once via SyscallConn.Control and reused directly; net.Conn
// already puts the fd in nonblocking mode internally, so this requires
// no extra fcntl call.

package rpcio

import (
	"fmt"
	"io"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

type tcpConnection struct {
	conn net.Conn
	fd   uintptr
}

func newConnection(conn net.Conn) (Connection, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, fmt.Errorf("rpcio: connection does not expose a raw file descriptor")
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("rpcio: syscall conn: %w", err)
	}
	var fd uintptr
	if err := raw.Control(func(f uintptr) { fd = f }); err != nil {
		return nil, fmt.Errorf("rpcio: control: %w", err)
	}
	return &tcpConnection{conn: conn, fd: fd}, nil
}

func (c *tcpConnection) Fd() uintptr { return c.fd }

func (c *tcpConnection) RemoteAddr() string { return c.conn.RemoteAddr().String() }

func (c *tcpConnection) Write(p []byte) (int, error) { return c.conn.Write(p) }

func (c *tcpConnection) Close() error { return c.conn.Close() }

// Read performs a single raw, nonblocking read on the connection's file
// descriptor. It must only be called after the reactor's readiness
// multiplexer has reported the fd readable.
func (c *tcpConnection) Read(p []byte) (int, error) {
	n, err := unix.Read(int(c.fd), p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, ErrWouldBlock
		}
		return 0, NewError(ErrCodeIO, "nonblocking read failed").WithCause(err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
