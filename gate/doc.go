// Package gate holds back an action until a cluster is ready.
//
// A [Gate] owns an ordered list of waits and a cluster provider. [Gate.Run]
// acquires the configured lifecycles, runs every wait in order, and runs the
// action exactly once when all of them succeeded. The first failing wait
// aborts the run; later waits are never attempted. Lifecycles are released
// on every exit path.
//
// # State Machine
//
// A gate moves through the following states, reporting each change to the
// callbacks registered with [WithTransitions]:
//
//	Pending -> Waiting(0) -> ... -> Waiting(n-1) -> Running -> Done
//	                 \                                   \
//	                  +-> Failed                          +-> Failed
//
// A gate guards one invocation of one action. Calling Run a second time
// returns [ErrGateReused].
//
// # Building Gates
//
//	g, err := gate.NewBuilder().
//	    WithProvider(provider).
//	    AddWait(dbWait).
//	    Apply(probe.WaitForAllPorts("cache", time.Minute)).
//	    Build(gate.WithName("migrations"))
//	if err != nil {
//	    return err
//	}
//	return g.Run(ctx, runMigrations)
//
// # Status Endpoints
//
// A [Tracker] records transitions as they happen. [Routes] exposes it over
// HTTP so orchestrators can tell a gate that is still waiting from one whose
// action is running.
package gate
