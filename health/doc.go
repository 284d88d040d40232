// Package health provides the probe primitives a readiness gate polls.
//
// A Check evaluates one target and produces one Outcome. Outcomes are
// three-state: Success, Failure with a reason, or Error with a cause. Checks
// hold no state between calls, so the same Check can be evaluated as often
// as a poller needs.
//
// # Core Concepts
//
// Check is generic over its target. The common case, a check against a
// single service, is Checker (Check[cluster.Target]). Cluster-level checks in
// package wait use Check[cluster.Provider].
//
// # Basic Usage
//
//	ping := health.NewCheckFunc("ping", func(ctx context.Context, t cluster.Target) health.Outcome {
//	    port, err := t.Port(ctx, 8080)
//	    if err != nil {
//	        return health.Error(err)
//	    }
//	    return health.FromError(dial(ctx, port.Addr()))
//	})
//
// # Composite Checks
//
// All and Any combine checks over the same target type:
//
//	// every sub-check must succeed; stops at the first that does not
//	both := health.All[cluster.Target](tcp, httpReady)
//
//	// one success is enough; otherwise the last failure is reported
//	either := health.Any[cluster.Target](primary, replica)
package health
