//go:build !linux

// File: rpcio/tcp_connection_stub.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// The reactor's raw nonblocking read path is implemented against Linux's
// epoll and the raw-fd read syscall; on other platforms construction
// fails with a clear error rather than silently falling back to a
// different, unverified readiness model, mirroring the teacher's own
// reactor_stub.go for unsupported platforms.

package rpcio

import (
	"errors"
	"net"
)

func newConnection(net.Conn) (Connection, error) {
	return nil, errors.New("rpcio: nonblocking connection is only implemented on linux")
}
