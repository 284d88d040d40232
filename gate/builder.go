package gate

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/wait"
)

// Extension contributes waits or options to a Builder. Packages outside gate
// provide reusable extensions as functions returning an Extension.
type Extension func(*Builder)

// Builder assembles a Gate step by step.
//
// Errors recorded while building, for example from AddWaitConfig, are
// reported by Build.
type Builder struct {
	provider cluster.Provider
	waits    []wait.Waiter
	opts     []Option
	errs     []error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithProvider sets the cluster provider.
func (b *Builder) WithProvider(p cluster.Provider) *Builder {
	b.provider = p
	return b
}

// Provider returns the provider set so far, which may be nil.
func (b *Builder) Provider() cluster.Provider {
	return b.provider
}

// AddWait appends a wait.
func (b *Builder) AddWait(w wait.Waiter) *Builder {
	b.waits = append(b.waits, w)
	return b
}

// AddWaitConfig builds a ClusterWait from cfg and appends it.
func (b *Builder) AddWaitConfig(cfg wait.Config) *Builder {
	w, err := wait.New(cfg)
	if err != nil {
		b.Fail(&ConfigError{Field: fmt.Sprintf("waits[%d]", len(b.waits)), Err: err})
		return b
	}
	return b.AddWait(w)
}

// WithOptions appends gate options applied by Build.
func (b *Builder) WithOptions(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Fail records an error that Build will return. Extensions use it to report
// problems.
func (b *Builder) Fail(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Apply runs each extension against the builder, in order.
func (b *Builder) Apply(exts ...Extension) *Builder {
	for _, ext := range exts {
		if ext != nil {
			ext(b)
		}
	}
	return b
}

// Build creates the gate. Options given here are applied after those
// collected with WithOptions.
func (b *Builder) Build(opts ...Option) (*Gate, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	all := append(append([]Option{}, b.opts...), opts...)
	return New(b.provider, b.waits, all...)
}
