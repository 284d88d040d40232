// Package cli implements the readygate command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/readygate/declare"
	"github.com/jonwraymond/readygate/observe"
)

// Version is set at build time.
var Version = "dev"

const (
	envLogLevel = "READYGATE_LOG_LEVEL"
	envFile     = "READYGATE_FILE"

	defaultFile = "readiness.yaml"
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return 1
}

// Options holds CLI-level configuration.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	opts Options

	file            string
	logLevel        string
	traceExporter   string
	metricsExporter string

	registry *prometheus.Registry
	observer observe.Observer
	mw       *observe.Middleware
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "readygate",
		Short: "Wait for services to become ready, then run a command",
		Long: "readygate polls the readiness checks declared in a YAML file and " +
			"runs the guarded command only once every wait has succeeded.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.file, "file", "f", a.env(envFile, defaultFile), "Readiness declaration file (env "+envFile+")")
	flags.StringVar(&a.logLevel, "log-level", a.env(envLogLevel, "info"), "Log level: debug|info|warn|error (env "+envLogLevel+")")
	flags.StringVar(&a.traceExporter, "trace-exporter", "none", "Trace exporter: otlp|jaeger|stdout|none")
	flags.StringVar(&a.metricsExporter, "metrics-exporter", "none", "Metrics exporter: otlp|prometheus|stdout|none")

	root.AddCommand(newRunCommand(a))
	root.AddCommand(newCheckCommand(a))
	root.AddCommand(newValidateCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

func (a *app) env(key, fallback string) string {
	if v, ok := a.opts.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (a *app) setup(ctx context.Context) error {
	a.registry = prometheus.NewRegistry()
	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "readygate",
		Version:     Version,
		Tracing: observe.TracingConfig{
			Enabled:   a.traceExporter != "none",
			Exporter:  a.traceExporter,
			SamplePct: 1,
		},
		Metrics: observe.MetricsConfig{
			Enabled:    a.metricsExporter != "none",
			Exporter:   a.metricsExporter,
			Registerer: a.registry,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   a.logLevel,
			Writer:  a.opts.Stderr,
		},
	})
	if err != nil {
		return err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return errors.Join(err, obs.Shutdown(ctx))
	}
	a.observer = obs
	a.mw = mw
	return nil
}

// observed runs fn between observer setup and shutdown.
func (a *app) observed(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.setup(cmd.Context()); err != nil {
			return err
		}
		defer func() {
			if serr := a.shutdown(context.WithoutCancel(cmd.Context())); serr != nil {
				err = errors.Join(err, serr)
			}
		}()
		return fn(cmd, args)
	}
}

func (a *app) shutdown(ctx context.Context) error {
	if a.observer == nil {
		return nil
	}
	return a.observer.Shutdown(ctx)
}

func (a *app) load() (*declare.Declaration, error) {
	return declare.Load(a.file, declare.WithLookupEnv(a.opts.LookupEnv))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show readygate version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "readygate %s\n", Version)
			return err
		},
	}
}
