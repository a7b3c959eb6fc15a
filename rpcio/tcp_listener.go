// File: rpcio/tcp_listener.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Shipped ServerTransport implementation. Grounded in the teacher's
// transport/tcp/listener.go (net.Listen, a defer'd Close, an Accept
// loop) minus the WebSocket handshake, which is orthogonal to this
// module's plain length-prefixed RPC frame. Works for both "tcp" and
// "unix" networks since both use the same net.Listener/net.Conn shape.

package rpcio

import (
	"fmt"
	"net"
)

// NetServerTransport adapts a net.Listener to ServerTransport. It is
// returned (rather than the bare ServerTransport interface) so callers
// that bind an ephemeral port can still recover it via Addr.
type NetServerTransport struct {
	network string
	address string
	ln      net.Listener
}

// NewTCPServerTransport returns a ServerTransport bound to a TCP address
// on Listen, e.g. "localhost:9090" or ":0" for an ephemeral port.
func NewTCPServerTransport(address string) *NetServerTransport {
	return &NetServerTransport{network: "tcp", address: address}
}

// NewUnixServerTransport returns a ServerTransport bound to a Unix
// domain socket path on Listen.
func NewUnixServerTransport(path string) *NetServerTransport {
	return &NetServerTransport{network: "unix", address: path}
}

func (t *NetServerTransport) Listen() error {
	ln, err := net.Listen(t.network, t.address)
	if err != nil {
		return fmt.Errorf("rpcio: listen %s %s: %w", t.network, t.address, err)
	}
	t.ln = ln
	return nil
}

// Addr returns the bound address; useful when Listen was called with an
// ephemeral port (":0").
func (t *NetServerTransport) Addr() net.Addr {
	if t.ln == nil {
		return nil
	}
	return t.ln.Addr()
}

func (t *NetServerTransport) Accept() (Connection, error) {
	conn, err := t.ln.Accept()
	if err != nil {
		return nil, err
	}
	return newConnection(conn)
}

func (t *NetServerTransport) Close() error {
	if t.ln == nil {
		return nil
	}
	return t.ln.Close()
}
