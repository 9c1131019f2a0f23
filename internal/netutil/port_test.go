package netutil

import (
	"net"
	"testing"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func TestPickBindAddrPreferredFree(t *testing.T) {
	addr := freeAddr(t)
	got, err := PickBindAddr(addr, nil, false)
	if err != nil {
		t.Fatalf("PickBindAddr() error = %v", err)
	}
	if got != addr {
		t.Fatalf("PickBindAddr() = %q; want %q", got, addr)
	}
}

func TestPickBindAddrFallsBack(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen busy: %v", err)
	}
	defer func() { _ = busy.Close() }()

	fallback := freeAddr(t)
	got, err := PickBindAddr(busy.Addr().String(), []string{busy.Addr().String(), fallback}, true)
	if err != nil {
		t.Fatalf("PickBindAddr() error = %v", err)
	}
	if got != fallback {
		t.Fatalf("PickBindAddr() = %q; want %q", got, fallback)
	}
}

func TestPickBindAddrNoFallbackErrors(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen busy: %v", err)
	}
	defer func() { _ = busy.Close() }()

	if _, err := PickBindAddr(busy.Addr().String(), nil, false); err == nil {
		t.Fatalf("PickBindAddr() = nil error; want in-use error")
	}
}
