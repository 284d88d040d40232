// Package cluster describes the services a readiness gate waits on.
//
// A Provider resolves a service name to a Target, and a Target exposes the
// host/port pairs needed to connect to it. The package never starts or stops
// anything: it only looks services up.
//
// # Providers
//
// Static serves a fixed set of services, typically read from a declaration
// file or assembled in a test:
//
//	provider, err := cluster.NewStatic(
//	    cluster.Service{Name: "db", Host: "localhost", Ports: map[int]int{5432: 55432}},
//	)
//
// Containers resolves services backed by testcontainers-go containers, so the
// host and mapped ports are read from the container runtime:
//
//	provider, err := cluster.NewContainers(
//	    cluster.ContainerService{Name: "db", Container: pg, ExposedPorts: []int{5432}},
//	)
//
// # Ports
//
// Port.InFormat substitutes $HOST, $EXTERNAL_PORT and $INTERNAL_PORT, which is
// the usual way to build a connection string for a probe:
//
//	port, _ := target.Port(ctx, 5432)
//	dsn := port.InFormat("postgres://app:app@$HOST:$EXTERNAL_PORT/app")
package cluster
