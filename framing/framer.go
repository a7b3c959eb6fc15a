// File: framing/framer.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Package framing implements the length-prefixed frame extraction rule:
// a pure operation over a mutable per-connection byte buffer. No error
// condition exists at this layer — any length prefix is accepted; bounding
// N is a policy decision left to callers, enforced by reactor.Config's
// MaxFrameLength rather than here.
//
// Grounded in the teacher's protocol.DecodeFrameFromBytes (incomplete
// input returns a nil frame and nil error rather than an error value,
// header-length-then-payload shape), generalized from a WebSocket frame
// header to a flat uint32_be length prefix.

package framing

import "encoding/binary"

// HeaderLen is the size in bytes of the length prefix.
const HeaderLen = 4

// Extract attempts to pull exactly one complete frame from the front of
// buf. It returns the frame payload and the number of bytes that must be
// removed from the front of buf (HeaderLen+len(payload)), or ok=false if
// buf does not yet contain a complete frame (starvation — buf is left
// untouched by the caller in that case, matching the spec's idempotence
// requirement). Any declared length is accepted; this layer has no
// notion of "too large."
//
// Extract never mutates buf; callers that want the frame consumed must
// do so themselves by re-slicing, which lets the Reactor loop this call
// until it returns ok=false without copying on every starvation check.
func Extract(buf []byte) (payload []byte, consumed int, ok bool) {
	if len(buf) < HeaderLen {
		return nil, 0, false
	}

	n := binary.BigEndian.Uint32(buf[:HeaderLen])
	total := HeaderLen + int(n)
	if len(buf) < total {
		return nil, 0, false
	}

	return buf[HeaderLen:total], total, true
}

// PeekLength reads the declared payload length out of buf's header
// without consuming anything and without requiring the rest of the
// frame to have arrived yet. ok is false if buf does not yet contain a
// complete header. Callers that want to bound a declared length before
// it has been fully buffered (a policy decision, not this package's)
// use this instead of waiting on Extract.
func PeekLength(buf []byte) (n uint32, ok bool) {
	if len(buf) < HeaderLen {
		return 0, false
	}
	return binary.BigEndian.Uint32(buf[:HeaderLen]), true
}

// Encode prepends a uint32_be length prefix to payload, returning a new
// frame ready to write to the wire.
func Encode(payload []byte) []byte {
	out := make([]byte, HeaderLen+len(payload))
	binary.BigEndian.PutUint32(out[:HeaderLen], uint32(len(payload)))
	copy(out[HeaderLen:], payload)
	return out
}
