//go:build !linux

// File: reactor/reactor_stub.go
// Author: lattice-net contributors
// License: Apache-2.0
//
// Non-Linux platforms have no epoll; rather than fake a slower,
// unverified readiness loop, New reports the gap plainly, mirroring the
// teacher's own reactor_stub.go for kqueue/IOCP platforms.

package reactor

import "fmt"

func newReactor(cfg Config) (Reactor, error) {
	return nil, fmt.Errorf("reactor: no nonblocking poller implementation for this platform")
}
