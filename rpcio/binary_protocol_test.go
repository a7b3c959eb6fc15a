// File: rpcio/binary_protocol_test.go
// Author: lattice-net contributors
// License: Apache-2.0

package rpcio

import (
	"bytes"
	"testing"
)

func TestBinaryProtocolRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	transport, err := StreamTransportFactory{}.GetTransport(&buf)
	if err != nil {
		t.Fatalf("GetTransport: %v", err)
	}
	proto, err := BinaryProtocolFactory{}.GetProtocol(transport)
	if err != nil {
		t.Fatalf("GetProtocol: %v", err)
	}
	bp := proto.(*BinaryProtocol)

	if err := bp.WriteMessage(42, []byte("hello")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	kind, payload, err := bp.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != 42 || string(payload) != "hello" {
		t.Fatalf("got kind=%d payload=%q, want kind=42 payload=hello", kind, payload)
	}
}

func TestBinaryProtocolZeroLengthMessage(t *testing.T) {
	var buf bytes.Buffer
	transport, _ := StreamTransportFactory{}.GetTransport(&buf)
	proto, _ := BinaryProtocolFactory{}.GetProtocol(transport)
	bp := proto.(*BinaryProtocol)

	if err := bp.WriteMessage(1, nil); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	kind, payload, err := bp.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != 1 || len(payload) != 0 {
		t.Fatalf("got kind=%d payload=%v, want kind=1 empty payload", kind, payload)
	}
}

func TestBinaryProtocolRejectsOversizedLengthOnRead(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0xFF, 0xFF, 0xFF, 0xFF}) // kind=0, length=huge
	transport, _ := StreamTransportFactory{}.GetTransport(&buf)
	bp, _ := BinaryProtocolFactory{}.GetProtocol(transport)

	if _, _, err := bp.(*BinaryProtocol).ReadMessage(); err != ErrFrameTooLarge {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestMemoryReaderIsReadOnly(t *testing.T) {
	rw := NewMemoryReader([]byte("payload"))
	if _, err := rw.Write([]byte("x")); err == nil {
		t.Fatal("expected an error writing to a memory reader")
	}
	buf := make([]byte, 7)
	n, err := rw.Read(buf)
	if err != nil || n != 7 || string(buf) != "payload" {
		t.Fatalf("unexpected read result: n=%d err=%v buf=%q", n, err, buf)
	}
}

func TestPassthroughProtocolExposesRawBytes(t *testing.T) {
	var buf bytes.Buffer
	transport, _ := StreamTransportFactory{}.GetTransport(&buf)
	proto, err := PassthroughProtocolFactory{}.GetProtocol(transport)
	if err != nil {
		t.Fatalf("GetProtocol: %v", err)
	}
	pp := proto.(*PassthroughProtocol)

	if _, err := pp.Write([]byte("raw bytes")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := make([]byte, len("raw bytes"))
	if _, err := pp.Read(got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "raw bytes" {
		t.Fatalf("got %q, want %q", got, "raw bytes")
	}
}
