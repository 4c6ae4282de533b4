// Package hfsm provides an embeddable hierarchical finite-state-machine engine for Go.
//
// Application code declares, per state, which triggers are legal, under what guard
// conditions, to which destination (fixed or computed) and which callbacks fire on entry
// and exit. The engine resolves "fire trigger T with arguments A while in state S" into at
// most one transition and runs exit and entry actions in hierarchical order:
//
//   - Generic types for states and triggers
//   - Guard conditions, all evaluated so that ambiguity is reported rather than hidden
//   - Entry actions (optionally bound to one trigger) and exit actions
//   - Hierarchical states: substates inherit the triggers of their superstates
//   - Dynamic transitions, reentry, ignored triggers and internal transitions
//   - Initial transitions into substates
//   - Declared trigger parameter signatures, validated before any guard runs
//
// # Basic Usage
//
// Create a state machine with initial state:
//
//	sm := hfsm.NewStateMachine[State, Trigger](InitialState)
//
// Configure states with transitions:
//
//	sm.Configure(StateA).
//	    Permit(TriggerX, StateB).
//	    OnEntry(func(ctx context.Context, t hfsm.Transition[State, Trigger]) error {
//	        fmt.Println("Entering StateA")
//	        return nil
//	    })
//
// Fire triggers to cause transitions:
//
//	err := sm.Fire(TriggerX)
//
// # Guards
//
// Add conditions to transitions. Guards receive the trigger arguments:
//
//	sm.Configure(StateA).
//	    PermitIf(TriggerX, StateB, hfsm.Guard1(func(n int) bool { return n > 0 }))
//
// # Hierarchical States
//
// Create state hierarchies:
//
//	sm.Configure(StateB).SubstateOf(StateA)
//
// Leaving a substate for a state outside its superstate runs the substate's exit actions,
// then the superstate's. Entering runs them the other way round.
//
// # Errors
//
// Fire returns errors matching ErrInvalidTrigger, ErrGuardNotSatisfied,
// ErrAmbiguousTransition, ErrParameterConversion or ErrUnknownState, or the error returned
// by an action, unchanged. In every case the current state is left as it was.
package hfsm
