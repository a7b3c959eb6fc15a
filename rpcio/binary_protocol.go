// File: rpcio/binary_protocol.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Shipped Protocol/ProtocolFactory implementation. Messages are framed as
// a uint16_be kind, a uint32_be payload length, then the raw payload,
// grounded in the teacher's
// DecodeFrameFromBytes/EncodeFrameToBufferWithMask pair: header first,
// explicit incomplete-vs-error distinction, and an enforced maximum
// payload size — generalized here from WebSocket frame bits to a plain
// RPC message envelope.

package rpcio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxEnvelopePayload bounds a single BinaryProtocol message, protecting
// against unbounded allocation on a malformed or hostile stream.
const MaxEnvelopePayload = 16 << 20 // 16 MiB

// BinaryProtocol reads and writes length-delimited (kind, payload)
// envelopes over a Transport.
type BinaryProtocol struct {
	t Transport
}

func (p *BinaryProtocol) Transport() Transport { return p.t }

// WriteMessage writes one envelope: uint16_be kind, uint32_be length,
// payload.
func (p *BinaryProtocol) WriteMessage(kind uint16, payload []byte) error {
	if len(payload) > MaxEnvelopePayload {
		return ErrFrameTooLarge
	}
	var hdr [6]byte
	binary.BigEndian.PutUint16(hdr[0:2], kind)
	binary.BigEndian.PutUint32(hdr[2:6], uint32(len(payload)))
	if _, err := p.t.Write(hdr[:]); err != nil {
		return fmt.Errorf("binary protocol: write header: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := p.t.Write(payload); err != nil {
		return fmt.Errorf("binary protocol: write payload: %w", err)
	}
	return nil
}

// ReadMessage reads one envelope, blocking until the full header and
// payload are available on the underlying Transport.
func (p *BinaryProtocol) ReadMessage() (kind uint16, payload []byte, err error) {
	var hdr [6]byte
	if _, err = io.ReadFull(p.t, hdr[:]); err != nil {
		return 0, nil, err
	}
	kind = binary.BigEndian.Uint16(hdr[0:2])
	n := binary.BigEndian.Uint32(hdr[2:6])
	if n > MaxEnvelopePayload {
		return 0, nil, ErrFrameTooLarge
	}
	payload = make([]byte, n)
	if n > 0 {
		if _, err = io.ReadFull(p.t, payload); err != nil {
			return 0, nil, err
		}
	}
	return kind, payload, nil
}

// BinaryProtocolFactory builds a BinaryProtocol around a Transport.
type BinaryProtocolFactory struct{}

func (BinaryProtocolFactory) GetProtocol(t Transport) (Protocol, error) {
	return &BinaryProtocol{t: t}, nil
}
