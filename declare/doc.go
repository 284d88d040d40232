// Package declare builds readiness waits from a YAML document.
//
// A document lists the services of a cluster and the waits a gate must pass,
// in order:
//
//	services:
//	  db:    { host: localhost, ports: { 5432: 55432 } }
//	  cache: { host: localhost, ports: { 6379: 56379 } }
//	waits:
//	  - description: postgres accepts queries
//	    service: db
//	    check: { postgres: { port: 5432, dsn: "postgres://app:${DB_PASSWORD}@$HOST:$EXTERNAL_PORT/app" } }
//	    timeout: 30s
//	  - description: any cache node
//	    any:
//	      - { service: cache, check: { redis: { port: 6379 } } }
//	      - { service: db,    check: { tcp: { port: 5432 } } }
//
// A single wait may be given under "wait" instead of "waits".
//
// # Check Kinds
//
//   - tcp: { port }
//   - ports: {} (every mapped port of the service is open)
//   - http: { port, path, scheme, url, method, status, bearer_token, jwt: { secret, issuer, subject, ttl } }
//   - postgres: { port, dsn }
//   - grpc: { port, service }
//   - redis: { port, password, db }
//
// # Environment
//
// ${VAR} references in scalar values are replaced from the environment after
// the YAML is parsed, so a substituted value stays one scalar whatever it
// contains. Comments are not expanded. A missing variable is an error. $$
// produces a literal dollar sign. Bare $HOST, $EXTERNAL_PORT and
// $INTERNAL_PORT are left alone for the probes to fill in.
//
// An unquoted reference is retyped after substitution, so port: ${PORT}
// decodes as an integer; a quoted one stays a string. YAML ends a plain
// scalar at "{" inside a flow collection, so there a reference must be
// quoted.
//
// # Errors
//
// Every problem is reported as a *gate.ConfigError whose Field names the
// offending part of the document, such as "waits[1].check".
package declare
