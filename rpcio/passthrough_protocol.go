// File: rpcio/passthrough_protocol.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// PassthroughProtocol hands a Processor the raw frame bytes with no
// further structure, for processors that parse their own application
// format and don't need BinaryProtocol's kind/length envelope.

package rpcio

// PassthroughProtocol exposes a Transport's Read/Write directly.
type PassthroughProtocol struct {
	t Transport
}

func (p *PassthroughProtocol) Transport() Transport { return p.t }

// Read reads raw bytes from the underlying Transport.
func (p *PassthroughProtocol) Read(b []byte) (int, error) { return p.t.Read(b) }

// Write writes raw bytes to the underlying Transport.
func (p *PassthroughProtocol) Write(b []byte) (int, error) { return p.t.Write(b) }

// PassthroughProtocolFactory builds a PassthroughProtocol around a
// Transport.
type PassthroughProtocolFactory struct{}

func (PassthroughProtocolFactory) GetProtocol(t Transport) (Protocol, error) {
	return &PassthroughProtocol{t: t}, nil
}
