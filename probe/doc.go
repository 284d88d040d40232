// Package probe provides ready-made single-service checks.
//
// Every constructor returns a [health.Checker]: a check whose target is a
// [cluster.Target]. Ports are given as the service's internal port; the
// probe asks the target where that port is published on every attempt.
//
// # Probes
//
//   - [TCP]: a TCP connection to one port can be opened.
//   - [AllPortsOpen]: every mapped port of the service accepts connections.
//   - [HTTP]: an HTTP endpoint answers with the expected status.
//   - [Postgres]: a PostgreSQL server accepts a connection and a ping.
//   - [GRPC]: the standard gRPC health service reports SERVING.
//   - [Redis]: a Redis server answers PING.
//
// A target that is reachable but not ready yields a failure outcome. A
// probe that cannot run at all, for example because the port is not mapped
// or a DSN does not parse, yields an error outcome.
//
// # Usage
//
//	w, err := wait.New(wait.Config{
//	    Description: "api is healthy",
//	    Check: health.All(
//	        wait.Service("api", probe.TCP(8080)),
//	        wait.Service("api", probe.HTTP(probe.HTTPConfig{Port: 8080, Path: "/healthz"})),
//	    ),
//	})
//
// [WaitForAllPorts] packages the common "every port open" wait as a gate
// extension.
package probe
