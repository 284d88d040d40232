// Package wait repeatedly runs a health check until it succeeds or a deadline
// passes.
//
// Two layers are provided. [PollUntilReady] is the bare polling algorithm over
// any [health.Check]. [ClusterWait] binds a cluster-level check to a timeout and
// an interval, and is the unit a readiness gate consumes.
//
// # Polling
//
// Each attempt runs under its own deadline. A check that never returns is
// abandoned once its deadline passes and the attempt counts as an error; the
// poller never starts a new attempt while an abandoned one is still running.
// A panicking check is recovered and reported as an error outcome carrying a
// [*PanicError].
//
// After every unsuccessful attempt the poller compares the elapsed time with
// the timeout, sleeps for the interval, and compares again. At least one
// attempt is always made, so a zero timeout means "check exactly once".
//
//	err := wait.PollUntilReady(ctx, check, target, wait.PollConfig{
//	    Description: "postgres",
//	    Timeout:     30 * time.Second,
//	    Interval:    250 * time.Millisecond,
//	})
//	var te *wait.TimeoutError
//	if errors.As(err, &te) {
//	    log.Printf("gave up after %d attempts: %s", te.Attempts, te.Last)
//	}
//
// # Cluster Waits
//
// Cluster-level checks take a [cluster.Provider] as their target. [Service]
// resolves a named service on every attempt and runs a single-service checker
// against it; resolution failures are retried like any other error.
//
//	w, err := wait.New(wait.Config{
//	    Description: "database accepts connections",
//	    Check:       wait.Service("db", probe.TCP(5432)),
//	    Timeout:     time.Minute,
//	})
//	if err != nil {
//	    return err
//	}
//	return w.WaitUntilReady(ctx, provider)
//
// # Observing Attempts
//
// The package never logs. Per-attempt results are delivered to
// [PollConfig.OnAttempt] and to every [AttemptObserver] attached to the
// context with [WithAttemptObserver].
package wait
