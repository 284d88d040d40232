package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

// HTTPConfig configures an HTTP probe.
type HTTPConfig struct {
	// Port is the service's internal port. Required.
	Port int

	// URLFormat, when set, builds the URL with cluster.Port.InFormat, for
	// example "https://$HOST:$EXTERNAL_PORT/api/ping". Scheme and Path are
	// ignored when it is set.
	URLFormat string

	// Scheme is the URL scheme.
	// Default: "http"
	Scheme string

	// Path is the request path.
	// Default: "/"
	Path string

	// Method is the request method.
	// Default: GET
	Method string

	// ExpectedStatus is the status code that counts as ready. Zero accepts
	// any 2xx status.
	ExpectedStatus int

	// BearerToken is sent in the Authorization header when set.
	BearerToken string

	// Signer mints a fresh bearer token for every request. It takes
	// precedence over BearerToken.
	Signer *TokenSigner

	// Client sends the requests.
	// Default: a client with an OpenTelemetry transport
	Client *http.Client
}

// HTTP returns a check that succeeds when an HTTP request to the target
// answers with the expected status.
func HTTP(cfg HTTPConfig) health.Checker {
	// Apply defaults
	if cfg.Scheme == "" {
		cfg.Scheme = "http"
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		cfg.Path = "/" + cfg.Path
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	name := fmt.Sprintf("http(%d%s)", cfg.Port, cfg.Path)
	return health.NewCheckFunc(name, func(ctx context.Context, target cluster.Target) health.Outcome {
		p, err := target.Port(ctx, cfg.Port)
		if err != nil {
			return health.Error(err)
		}
		return cfg.do(ctx, p)
	})
}

func (cfg HTTPConfig) url(p cluster.Port) string {
	if cfg.URLFormat != "" {
		return p.InFormat(cfg.URLFormat)
	}
	return cfg.Scheme + "://" + p.Addr() + cfg.Path
}

func (cfg HTTPConfig) do(ctx context.Context, p cluster.Port) health.Outcome {
	req, err := http.NewRequestWithContext(ctx, cfg.Method, cfg.url(p), nil)
	if err != nil {
		return health.Error(err)
	}

	token := cfg.BearerToken
	if cfg.Signer != nil {
		if token, err = cfg.Signer.Sign(); err != nil {
			return health.Error(err)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := cfg.Client.Do(req)
	if err != nil {
		return health.Failuref("%s %s: %v", cfg.Method, req.URL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if cfg.ExpectedStatus != 0 {
		return health.FromBool(resp.StatusCode == cfg.ExpectedStatus,
			fmt.Sprintf("%s %s: status %d, want %d", cfg.Method, req.URL, resp.StatusCode, cfg.ExpectedStatus))
	}
	return health.FromBool(resp.StatusCode >= 200 && resp.StatusCode < 300,
		fmt.Sprintf("%s %s: status %d", cfg.Method, req.URL, resp.StatusCode))
}

// TokenSigner mints short-lived HS256 tokens for probes against endpoints
// that require authentication.
type TokenSigner struct {
	// Secret is the HMAC key. Required.
	Secret []byte

	// Issuer is the "iss" claim.
	Issuer string

	// Subject is the "sub" claim.
	// Default: "readygate"
	Subject string

	// Audience is the "aud" claim, if any.
	Audience []string

	// TTL is the token lifetime.
	// Default: 1 minute
	TTL time.Duration

	// now is overridden in tests.
	now func() time.Time
}

// Sign returns a signed token.
func (s *TokenSigner) Sign() (string, error) {
	if len(s.Secret) == 0 {
		return "", fmt.Errorf("%w: token signer has no secret", ErrInvalidConfig)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	subject := s.Subject
	if subject == "" {
		subject = "readygate"
	}

	issued := now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.Issuer,
		Subject:   subject,
		Audience:  s.Audience,
		IssuedAt:  jwt.NewNumericDate(issued),
		NotBefore: jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}
