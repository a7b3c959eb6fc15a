// File: rpcio/memory_transport.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Shipped Transport/TransportFactory implementation wrapping an arbitrary
// io.ReadWriter. Used for both the in-memory input side (a frame payload
// handed to a Worker) and the output side (a live Connection), matching
// the spec's requirement that the transport factory is a single opaque
// constructor reused for both directions.

package rpcio

import (
	"bytes"
	"io"
)

// streamTransport adapts an io.ReadWriter to the Transport interface. If
// the underlying value also implements io.Closer, Close is forwarded;
// otherwise Close is a no-op.
type streamTransport struct {
	rw io.ReadWriter
}

func (s *streamTransport) Read(p []byte) (int, error)  { return s.rw.Read(p) }
func (s *streamTransport) Write(p []byte) (int, error) { return s.rw.Write(p) }
func (s *streamTransport) Close() error {
	if c, ok := s.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// StreamTransportFactory is the default TransportFactory: it wraps
// whatever io.ReadWriter it is given, with no additional buffering or
// framing.
type StreamTransportFactory struct{}

func (StreamTransportFactory) GetTransport(rw io.ReadWriter) (Transport, error) {
	return &streamTransport{rw: rw}, nil
}

// NewMemoryReader wraps a frame payload ([]byte) in a read-only
// io.ReadWriter suitable for handing to a TransportFactory as the input
// side of a Worker's processing step. Writes return an error: the input
// side of a frame is never written back to.
func NewMemoryReader(payload []byte) io.ReadWriter {
	return &memoryReadWriter{r: bytes.NewReader(payload)}
}

type memoryReadWriter struct {
	r *bytes.Reader
}

func (m *memoryReadWriter) Read(p []byte) (int, error) { return m.r.Read(p) }
func (m *memoryReadWriter) Write([]byte) (int, error) {
	return 0, NewError(ErrCodeIO, "write to read-only frame payload")
}
