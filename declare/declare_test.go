package declare

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/gate"
	"github.com/jonwraymond/readygate/wait"
)

const twoWaits = `
services:
  db:    { host: localhost, ports: { 5432: 55432 } }
  cache: { host: localhost, ports: { 6379: 56379 } }
waits:
  - description: postgres accepts queries
    service: db
    check: { postgres: { port: 5432, dsn: "postgres://u:${DB_PASSWORD}@$HOST:$EXTERNAL_PORT/app" } }
    timeout: 30s
    interval: 250ms
  - description: any cache node
    any:
      - { service: cache, check: { redis: { port: 6379 } } }
      - { service: db,    check: { tcp: { port: 5432 } } }
`

func TestParse(t *testing.T) {
	decl, err := Parse([]byte(twoWaits), WithLookupEnv(lookupMap(map[string]string{"DB_PASSWORD": "p"})))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(decl.Waits) != 2 || len(decl.Checks) != 2 {
		t.Fatalf("got %d waits and %d checks, want 2 each", len(decl.Waits), len(decl.Checks))
	}
	if decl.Waits[0].Description() != "postgres accepts queries" {
		t.Errorf("Waits[0] = %q", decl.Waits[0].Description())
	}

	cw, ok := decl.Waits[0].(*wait.ClusterWait)
	if !ok {
		t.Fatalf("Waits[0] is %T, want *wait.ClusterWait", decl.Waits[0])
	}
	if cw.Config().Timeout != 30*time.Second || cw.Config().Interval != 250*time.Millisecond {
		t.Errorf("Config() = %+v", cw.Config())
	}
	if got := decl.Checks[1].Name(); got != "any(cache/redis(6379), db/tcp(5432))" {
		t.Errorf("Checks[1].Name() = %q", got)
	}

	target, err := decl.Provider.Resolve(context.Background(), "cache")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p, _ := target.Port(context.Background(), 6379); p.External != 56379 {
		t.Errorf("cache port = %+v, want external 56379", p)
	}
}

func TestParse_SingleWait(t *testing.T) {
	doc := `
services:
  db: { ports: { 5432: 5432 } }
wait:
  service: db
  check: { ports: {} }
`
	decl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(decl.Waits) != 1 || decl.Waits[0].Description() != "db/ports" {
		t.Errorf("Waits = %v", decl.Waits)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "no waits",
			doc:   "services: {}\n",
			field: "waits",
		},
		{
			name:  "empty document",
			doc:   "",
			field: "waits",
		},
		{
			name: "wait and waits",
			doc: `
services: { db: {} }
wait: { service: db, check: { ports: {} } }
waits: [ { service: db, check: { ports: {} } } ]
`,
			field: "wait",
		},
		{
			name: "service and services",
			doc: `
services: { db: {} }
waits: [ { service: db, services: [db], check: { ports: {} } } ]
`,
			field: "waits[0]",
		},
		{
			name: "check with any",
			doc: `
services: { db: {} }
waits: [ { any: [ { service: db, check: { ports: {} } } ], check: { ports: {} } } ]
`,
			field: "waits[0]",
		},
		{
			name: "nothing to check",
			doc: `
services: { db: {} }
waits: [ { service: db } ]
`,
			field: "waits[0]",
		},
		{
			name: "two kinds",
			doc: `
services: { db: {} }
waits: [ { service: db, check: { tcp: { port: 1 }, ports: {} } } ]
`,
			field: "waits[0].check",
		},
		{
			name: "no kind",
			doc: `
services: { db: {} }
waits: [ { service: db, check: {} } ]
`,
			field: "waits[0].check",
		},
		{
			name: "unknown service",
			doc: `
services: { db: {} }
waits: [ { service: web, check: { ports: {} } } ]
`,
			field: "waits[0].service",
		},
		{
			name: "missing service",
			doc: `
services: { db: {} }
waits: [ { check: { ports: {} } } ]
`,
			field: "waits[0].service",
		},
		{
			name: "nested unknown service",
			doc: `
services: { db: {} }
waits:
  - service: db
    check: { ports: {} }
  - all:
      - { service: db, check: { ports: {} } }
      - { service: web, check: { ports: {} } }
`,
			field: "waits[1].all[1].service",
		},
		{
			name: "tcp without port",
			doc: `
services: { db: {} }
waits: [ { service: db, check: { tcp: {} } } ]
`,
			field: "waits[0].check.tcp.port",
		},
		{
			name: "jwt without secret",
			doc: `
services: { api: {} }
waits: [ { service: api, check: { http: { port: 80, jwt: { issuer: ci } } } } ]
`,
			field: "waits[0].check.http.jwt.secret",
		},
		{
			name: "negative timeout",
			doc: `
services: { db: {} }
waits: [ { service: db, check: { ports: {} }, timeout: -1s } ]
`,
			field: "waits[0]",
		},
		{
			name: "malformed duration",
			doc: `
services: { db: {} }
waits: [ { service: db, check: { ports: {} }, timeout: soon } ]
`,
			field: "document",
		},
		{
			name: "unknown key",
			doc: `
services: { db: {} }
waits: [ { service: db, check: { ports: {} }, retries: 3 } ]
`,
			field: "document",
		},
		{
			name: "bad port mapping",
			doc: `
services: { db: { ports: { 5432: 0 } } }
waits: [ { service: db, check: { ports: {} } } ]
`,
			field: "services",
		},
		{
			name:  "missing variable",
			doc:   "waits: [ { service: \"${NOPE}\", check: { ports: {} } } ]\n",
			field: "environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), WithLookupEnv(lookupMap(nil)))
			if !errors.Is(err, gate.ErrConfiguration) {
				t.Fatalf("Parse() error = %v, want ErrConfiguration", err)
			}
			var ce *gate.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Parse() error = %T, want *gate.ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q (%v)", ce.Field, tt.field, err)
			}
		})
	}
}

func TestParse_ExpandedValuesStayScalars(t *testing.T) {
	var (
		mu   sync.Mutex
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = r.Header.Get("Authorization")
		mu.Unlock()
	}))
	defer srv.Close()
	port := strconv.Itoa(srv.Listener.Addr().(*net.TCPAddr).Port)

	const doc = `
# ${UNSET} is never read from a comment
services:
  api:
    host: 127.0.0.1
    ports:
      80: ${API_PORT}
waits:
  - service: api
    timeout: 5s
    check:
      http:
        port: 80
        bearer_token: ${TOKEN} # trailing ${UNSET} comment
`
	decl, err := Parse([]byte(doc), WithLookupEnv(lookupMap(map[string]string{
		"API_PORT": port,
		"TOKEN":    "s3cr3t #tail",
	})))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := decl.Waits[0].WaitUntilReady(context.Background(), decl.Provider); err != nil {
		t.Fatalf("WaitUntilReady() error = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if auth != "Bearer s3cr3t #tail" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer s3cr3t #tail")
	}
}

func TestParse_FlowValueWithSyntaxCharacters(t *testing.T) {
	doc := `
services: { api: { ports: { 80: 80 } } }
waits: [ { service: api, check: { http: { port: 80, bearer_token: "${TOKEN}" } } } ]
`
	_, err := Parse([]byte(doc), WithLookupEnv(lookupMap(map[string]string{"TOKEN": "abc #def, }"})))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParse_WithProvider(t *testing.T) {
	var asked []string
	provider := cluster.ProviderFunc(func(_ context.Context, name string) (cluster.Target, error) {
		asked = append(asked, name)
		return nil, &cluster.NotFoundError{Name: name}
	})

	decl, err := Parse([]byte("waits: [ { service: anything, check: { ports: {} }, timeout: 1ms } ]\n"),
		WithProvider(provider))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if decl.Provider == nil {
		t.Fatal("Provider is nil")
	}

	err = decl.Waits[0].WaitUntilReady(context.Background(), decl.Provider)
	if !errors.Is(err, cluster.ErrNotFound) {
		t.Errorf("WaitUntilReady() error = %v, want ErrNotFound", err)
	}
	if len(asked) == 0 || asked[0] != "anything" {
		t.Errorf("asked = %v, want [anything ...]", asked)
	}
}

func TestLoad_RunsGate(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	doc := "services:\n  app: { host: 127.0.0.1, ports: { 8080: " + port + " } }\n" +
		"waits:\n  - { description: app listens, service: app, check: { tcp: { port: 8080 } }, timeout: 5s }\n"
	path := filepath.Join(t.TempDir(), "readiness.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	decl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	g, err := decl.Gate(gate.WithName("test"))
	if err != nil {
		t.Fatalf("Gate() error = %v", err)
	}

	ran := false
	if err := g.Run(context.Background(), func(context.Context) error { ran = true; return nil }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !ran {
		t.Error("action did not run")
	}
}

func TestDeclaration_GatesAreIndependent(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	doc := "services:\n  app: { host: 127.0.0.1, ports: { 8080: " + port + " } }\n" +
		"waits:\n  - { service: app, check: { tcp: { port: 8080 } }, timeout: 200ms, interval: 10ms }\n"
	decl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	runTwice := func() [2]error {
		var errs [2]error
		for i := range errs {
			g, err := decl.Gate()
			if err != nil {
				t.Fatalf("Gate() error = %v", err)
			}
			errs[i] = g.Run(context.Background(), func(context.Context) error { return nil })
		}
		return errs
	}

	for i, err := range runTwice() {
		if err != nil {
			t.Errorf("up: gate %d Run() error = %v, want nil", i, err)
		}
	}

	_ = ln.Close()
	for i, err := range runTwice() {
		if errors.Is(err, gate.ErrGateReused) {
			t.Errorf("down: gate %d Run() error = %v, want a fresh gate", i, err)
		}
		if !errors.Is(err, wait.ErrReadinessTimeout) {
			t.Errorf("down: gate %d Run() error = %v, want readiness timeout", i, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}
