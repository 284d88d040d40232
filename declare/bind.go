package declare

import (
	"fmt"
	"slices"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/gate"
	"github.com/jonwraymond/readygate/health"
	"github.com/jonwraymond/readygate/probe"
	"github.com/jonwraymond/readygate/wait"
)

// binder turns document nodes into checks.
type binder struct {
	provider cluster.Provider

	// known lists the declared service names; nil skips the check.
	known []string
}

func (b *binder) node(field string, n nodeSpec) (health.Check[cluster.Provider], error) {
	composite := len(n.Any) > 0 || len(n.All) > 0
	targeted := n.Service != "" || len(n.Services) > 0

	switch {
	case n.Service != "" && len(n.Services) > 0:
		return nil, gate.Invalid(field, "only one of service/services may be set")
	case len(n.Any) > 0 && len(n.All) > 0:
		return nil, gate.Invalid(field, "only one of any/all may be set")
	case composite && (n.Check != nil || targeted):
		return nil, gate.Invalid(field, "any/all cannot be combined with check or service")
	case composite:
		return b.composite(field, n)
	case n.Check == nil:
		return nil, gate.Invalid(field, "one of check, any or all is required")
	case !targeted:
		return nil, gate.Invalid(field+".service", "a service is required")
	}

	names := n.Services
	if n.Service != "" {
		names = []string{n.Service}
	}
	for _, name := range names {
		if b.known != nil && !slices.Contains(b.known, name) {
			return nil, gate.Invalid(field+".service", "unknown service %q", name)
		}
	}

	checker, err := b.check(field+".check", n.Check)
	if err != nil {
		return nil, err
	}
	if len(names) == 1 {
		return wait.Service(names[0], checker), nil
	}
	return wait.Services(names, checker), nil
}

func (b *binder) composite(field string, n nodeSpec) (health.Check[cluster.Provider], error) {
	kind, nodes := "all", n.All
	if len(n.Any) > 0 {
		kind, nodes = "any", n.Any
	}

	checks := make([]health.Check[cluster.Provider], 0, len(nodes))
	for i, child := range nodes {
		check, err := b.node(fmt.Sprintf("%s.%s[%d]", field, kind, i), child)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}

	if kind == "any" {
		return health.Any(checks...), nil
	}
	return health.All(checks...), nil
}

func (b *binder) check(field string, c *checkSpec) (health.Checker, error) {
	kinds := 0
	for _, set := range []bool{c.TCP != nil, c.Ports != nil, c.HTTP != nil, c.Postgres != nil, c.GRPC != nil, c.Redis != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, gate.Invalid(field, "must set exactly one check kind")
	}

	switch {
	case c.TCP != nil:
		if c.TCP.Port <= 0 {
			return nil, gate.Invalid(field+".tcp.port", "port is required")
		}
		return probe.TCP(c.TCP.Port), nil

	case c.Ports != nil:
		return probe.AllPortsOpen(), nil

	case c.HTTP != nil:
		return httpCheck(field+".http", c.HTTP)

	case c.Postgres != nil:
		return probe.Postgres(probe.PostgresConfig{Port: c.Postgres.Port, DSN: c.Postgres.DSN}), nil

	case c.GRPC != nil:
		if c.GRPC.Port <= 0 {
			return nil, gate.Invalid(field+".grpc.port", "port is required")
		}
		return probe.GRPC(probe.GRPCConfig{Port: c.GRPC.Port, Service: c.GRPC.Service}), nil

	default:
		return probe.Redis(probe.RedisConfig{Port: c.Redis.Port, Password: c.Redis.Password, DB: c.Redis.DB}), nil
	}
}

func httpCheck(field string, h *httpSpec) (health.Checker, error) {
	if h.Port <= 0 {
		return nil, gate.Invalid(field+".port", "port is required")
	}
	if h.URL != "" && (h.Path != "" || h.Scheme != "") {
		return nil, gate.Invalid(field+".url", "url cannot be combined with path or scheme")
	}
	if h.BearerToken != "" && h.JWT != nil {
		return nil, gate.Invalid(field+".jwt", "only one of bearer_token/jwt may be set")
	}

	cfg := probe.HTTPConfig{
		Port:           h.Port,
		URLFormat:      h.URL,
		Scheme:         h.Scheme,
		Path:           h.Path,
		Method:         h.Method,
		ExpectedStatus: h.Status,
		BearerToken:    h.BearerToken,
	}
	if h.JWT != nil {
		if h.JWT.Secret == "" {
			return nil, gate.Invalid(field+".jwt.secret", "secret is required")
		}
		cfg.Signer = &probe.TokenSigner{
			Secret:   []byte(h.JWT.Secret),
			Issuer:   h.JWT.Issuer,
			Subject:  h.JWT.Subject,
			Audience: h.JWT.Audience,
			TTL:      h.JWT.TTL,
		}
	}
	return probe.HTTP(cfg), nil
}
