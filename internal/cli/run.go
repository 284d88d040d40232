package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/readygate/gate"
	"github.com/jonwraymond/readygate/observe"
)

const shutdownTimeout = 5 * time.Second

func newRunCommand(a *app) *cobra.Command {
	var (
		timeout    time.Duration
		statusAddr string
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Wait until every declared wait succeeds, then run command",
		Long: "run polls the declared waits in order. Once all of them succeed the " +
			"command is started exactly once and its exit code becomes readygate's.",
		Args: cobra.MinimumNArgs(1),
		RunE: a.observed(func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, timeout, statusAddr)
		}),
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Bound the time spent waiting (0 leaves each wait's own timeout)")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "Serve /healthz, /readyz, /status and /metrics on this address")
	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string, timeout time.Duration, statusAddr string) error {
	ctx := cmd.Context()
	logger := a.mw.Logger()

	decl, err := a.load()
	if err != nil {
		return err
	}

	tracker := gate.NewTracker()
	if statusAddr != "" {
		stop, err := a.serveStatus(ctx, statusAddr, tracker)
		if err != nil {
			return err
		}
		defer stop()
	}

	name := gateName(a.file)
	g, err := gate.New(decl.Provider, a.mw.WrapAll(name, decl.Waits),
		gate.WithName(name),
		gate.WithLifecycle(a.mw.Lifecycle(name)),
		gate.WithTransitions(tracker.Observe),
		gate.WithTransitions(a.mw.Transitions()),
	)
	if err != nil {
		return err
	}

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return g.Run(waitCtx, func(context.Context) error {
		// The command outlives --timeout, so it runs under the invocation's context.
		logger.Info(ctx, "starting command", observe.Field{Key: "command", Value: strings.Join(args, " ")})

		c := exec.CommandContext(ctx, args[0], args[1:]...)
		c.Stdin = os.Stdin
		c.Stdout = cmd.OutOrStdout()
		c.Stderr = cmd.ErrOrStderr()

		err := c.Run()
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return &ExitError{Code: exit.ExitCode()}
		}
		return err
	})
}

func (a *app) serveStatus(ctx context.Context, addr string, tracker *gate.Tracker) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: a.statusHandler(tracker), ReadHeaderTimeout: shutdownTimeout}

	logger := a.mw.Logger()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "status server stopped", observe.Field{Key: "error", Value: err.Error()})
		}
	}()
	logger.Info(ctx, "serving status", observe.Field{Key: "addr", Value: ln.Addr().String()})

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}

// statusHandler serves the gate's probe endpoints next to /metrics.
func (a *app) statusHandler(tracker *gate.Tracker) http.Handler {
	r := chi.NewRouter()
	gate.Routes(r, tracker)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return r
}

// gateName derives a gate name from the declaration file name.
func gateName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
