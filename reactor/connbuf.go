// File: reactor/connbuf.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// The per-connection framing buffer (spec.md §3): a growable byte
// sequence holding the unframed tail of a connection's byte stream.
// Pre-sized to one MTU per spec.md §9's design note — a ring or rope is
// overkill for a buffer that is trimmed from the front once per extracted
// frame and otherwise only appended to.

package reactor

// mtuSize is the initial capacity given to every connBuf.
const mtuSize = 1500

type connBuf struct {
	data []byte
}

func newConnBuf() *connBuf {
	return &connBuf{data: make([]byte, 0, mtuSize)}
}

// append grows the buffer by p.
func (b *connBuf) append(p []byte) {
	b.data = append(b.data, p...)
}

// bytes returns the buffer's current contents. The returned slice is
// only valid until the next append/consume call.
func (b *connBuf) bytes() []byte {
	return b.data
}

// consume removes the first n bytes, shifting the remainder to the
// front. n must not exceed len(b.data).
func (b *connBuf) consume(n int) {
	remaining := copy(b.data, b.data[n:])
	b.data = b.data[:remaining]
}
