package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
	"github.com/jonwraymond/readygate/observe"
	"github.com/jonwraymond/readygate/wait"
)

func newCheckCommand(a *app) *cobra.Command {
	var attemptTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every declared check once and print the outcomes",
		Args:  cobra.NoArgs,
		RunE: a.observed(func(cmd *cobra.Command, args []string) error {
			return a.check(cmd, attemptTimeout)
		}),
	}

	cmd.Flags().DurationVar(&attemptTimeout, "attempt-timeout", 5*time.Second, "Bound each check's single attempt")
	return cmd
}

func (a *app) check(cmd *cobra.Command, attemptTimeout time.Duration) error {
	decl, err := a.load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var notReady int
	for i, check := range decl.Checks {
		description := decl.Waits[i].Description()

		last := checkOnce(cmd.Context(), check, decl.Provider, description, attemptTimeout)
		if !last.IsSuccess() {
			notReady++
		}
		a.mw.Logger().Debug(cmd.Context(), "check finished",
			observe.Field{Key: "wait.description", Value: description},
			observe.Field{Key: "outcome", Value: last.String()},
		)
		fmt.Fprintf(out, "[%d] %s: %s (%s)\n", i, description, last, last.Duration.Round(time.Millisecond))
	}

	if notReady > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d checks not ready", notReady, len(decl.Checks))}
	}
	return nil
}

// checkOnce makes a single attempt and reports its outcome. A poll that
// ends in an error other than a timeout is reported as an error outcome,
// never as the zero Outcome.
func checkOnce(ctx context.Context, check health.Check[cluster.Provider], provider cluster.Provider, description string, attemptTimeout time.Duration) health.Outcome {
	var last health.Outcome
	// A zero timeout makes exactly one attempt.
	err := wait.PollUntilReady(ctx, check, provider, wait.PollConfig{
		Description:    description,
		AttemptTimeout: attemptTimeout,
		OnAttempt: func(_ int, o health.Outcome) {
			last = o
		},
	})
	if err == nil {
		return last
	}

	var timeout *wait.TimeoutError
	if errors.As(err, &timeout) && !timeout.Last.IsSuccess() {
		return timeout.Last
	}
	return health.Error(err).WithCheck(description)
}
