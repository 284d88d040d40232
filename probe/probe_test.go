package probe

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/jonwraymond/readygate/cluster"
)

// listen starts a TCP listener that accepts and closes connections until the
// test ends. It returns the listener's port.
func listen(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

// closedPort returns a port on which nothing is listening.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

// portOf returns the port of a host:port address.
func portOf(t *testing.T, addr string) int {
	t.Helper()
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("SplitHostPort(%q) error = %v", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		t.Fatalf("Atoi(%q) error = %v", p, err)
	}
	return port
}

// target resolves a loopback service with the given internal to external
// port mapping.
func target(t *testing.T, ports map[int]int) cluster.Target {
	t.Helper()
	provider, err := cluster.NewStatic(cluster.Service{Name: "svc", Host: "127.0.0.1", Ports: ports})
	if err != nil {
		t.Fatalf("NewStatic() error = %v", err)
	}
	tgt, err := provider.Resolve(context.Background(), "svc")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return tgt
}
