package declare

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/gate"
	"github.com/jonwraymond/readygate/health"
	"github.com/jonwraymond/readygate/wait"
)

// Declaration is the bound form of a document: an ordered list of waits and
// the provider they run against.
type Declaration struct {
	// Waits are in document order.
	Waits []wait.Waiter

	// Checks holds the check behind each wait, at the same index.
	Checks []health.Check[cluster.Provider]

	// Provider is built from the services section unless one was supplied
	// with WithProvider.
	Provider cluster.Provider
}

// Gate creates a gate over the declaration's provider and waits.
func (d *Declaration) Gate(opts ...gate.Option) (*gate.Gate, error) {
	return gate.New(d.Provider, d.Waits, opts...)
}

// Option configures parsing.
type Option func(*options)

type options struct {
	provider cluster.Provider
	lookup   func(string) (string, bool)
}

// WithProvider resolves services through p instead of the document's
// services section. Service names are then not checked at parse time.
func WithProvider(p cluster.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithLookupEnv replaces os.LookupEnv for ${VAR} expansion.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookup = fn
	}
}

// Load reads and parses the document at path.
func Load(path string, opts ...Option) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("declare: read %s: %w", path, err)
	}
	return Parse(data, opts...)
}

// Parse parses and binds a document.
func Parse(data []byte, opts ...Option) (*Declaration, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Expansion runs on decoded scalars so a value can never change the
	// document's structure.
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, &gate.ConfigError{Field: "document", Err: err}
	}

	var doc document
	if len(root.Content) > 0 {
		if err := expandDocument(&root, o.lookup); err != nil {
			return nil, err
		}
		expanded, err := yaml.Marshal(&root)
		if err != nil {
			return nil, &gate.ConfigError{Field: "document", Err: err}
		}

		dec := yaml.NewDecoder(bytes.NewReader(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, &gate.ConfigError{Field: "document", Err: err}
		}
	}

	return bind(&doc, o)
}

func bind(doc *document, o options) (*Declaration, error) {
	waits := doc.Waits
	switch {
	case doc.Wait != nil && len(doc.Waits) > 0:
		return nil, gate.Invalid("wait", "only one of wait/waits may be set")
	case doc.Wait != nil:
		waits = []waitSpec{*doc.Wait}
	case len(waits) == 0:
		return nil, gate.Invalid("waits", "at least one wait is required")
	}

	b := binder{provider: o.provider}
	if b.provider == nil {
		static, err := staticProvider(doc.Services)
		if err != nil {
			return nil, err
		}
		b.provider = static
		b.known = static.Names()
	}

	decl := &Declaration{Provider: b.provider}
	for i, spec := range waits {
		field := fmt.Sprintf("waits[%d]", i)
		if doc.Wait != nil {
			field = "wait"
		}

		check, err := b.node(field, spec.nodeSpec)
		if err != nil {
			return nil, err
		}
		w, err := wait.New(wait.Config{
			Description:    spec.Description,
			Check:          check,
			Timeout:        spec.Timeout,
			Interval:       spec.Interval,
			AttemptTimeout: spec.AttemptTimeout,
		})
		if err != nil {
			return nil, &gate.ConfigError{Field: field, Err: err}
		}
		decl.Waits = append(decl.Waits, w)
		decl.Checks = append(decl.Checks, check)
	}
	return decl, nil
}

func staticProvider(specs map[string]serviceSpec) (*cluster.Static, error) {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	slices.Sort(names)

	services := make([]cluster.Service, 0, len(names))
	for _, name := range names {
		spec := specs[name]
		services = append(services, cluster.Service{Name: name, Host: spec.Host, Ports: spec.Ports})
	}

	static, err := cluster.NewStatic(services...)
	if err != nil {
		return nil, &gate.ConfigError{Field: "services", Err: err}
	}
	return static, nil
}
