package hfsm

// StateConfiguration provides a fluent interface for configuring state behaviour.
// Configuration mistakes panic with a *ConfigurationError at the offending call.
type StateConfiguration[TState, TTrigger comparable] struct {
	representation *StateRepresentation[TState, TTrigger]
	graph          *stateGraph[TState, TTrigger]
}

func newStateConfiguration[TState, TTrigger comparable](
	representation *StateRepresentation[TState, TTrigger],
	graph *stateGraph[TState, TTrigger],
) *StateConfiguration[TState, TTrigger] {
	return &StateConfiguration[TState, TTrigger]{
		representation: representation,
		graph:          graph,
	}
}

// firstOrEmpty returns the first element of the slice or empty string if empty.
func firstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}

// State returns the state being configured.
func (sc *StateConfiguration[TState, TTrigger]) State() TState {
	return sc.representation.UnderlyingState()
}

// Permit configures the state to transition to the specified destination state
// when the specified trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) Permit(trigger TTrigger, destinationState TState) *StateConfiguration[TState, TTrigger] {
	sc.enforceNotIdentityTransition(destinationState)
	sc.representation.AddTriggerBehaviour(
		NewTransitioningTriggerBehaviour(trigger, destinationState, EmptyTransitionGuard),
	)
	return sc
}

// PermitIf configures the state to transition to the specified destination state
// when the specified trigger is fired, if the guard condition is met.
func (sc *StateConfiguration[TState, TTrigger]) PermitIf(trigger TTrigger, destinationState TState, guard GuardFunc, guardDescription ...string) *StateConfiguration[TState, TTrigger] {
	sc.enforceNotIdentityTransition(destinationState)
	sc.representation.AddTriggerBehaviour(
		NewTransitioningTriggerBehaviour(trigger, destinationState, NewTransitionGuard(guard, firstOrEmpty(guardDescription))),
	)
	return sc
}

// PermitReentry configures the state to re-enter itself when the specified trigger is fired.
// Exit and entry actions of this state run; those of its superstates do not.
func (sc *StateConfiguration[TState, TTrigger]) PermitReentry(trigger TTrigger) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewReentryTriggerBehaviour(trigger, sc.representation.UnderlyingState(), EmptyTransitionGuard),
	)
	return sc
}

// PermitReentryIf configures the state to re-enter itself when the specified trigger is fired,
// if the guard condition is met.
func (sc *StateConfiguration[TState, TTrigger]) PermitReentryIf(trigger TTrigger, guard GuardFunc, guardDescription ...string) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewReentryTriggerBehaviour(
			trigger,
			sc.representation.UnderlyingState(),
			NewTransitionGuard(guard, firstOrEmpty(guardDescription)),
		),
	)
	return sc
}

// Ignore configures the state to ignore the specified trigger.
func (sc *StateConfiguration[TState, TTrigger]) Ignore(trigger TTrigger) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewIgnoredTriggerBehaviour[TState](trigger, EmptyTransitionGuard),
	)
	return sc
}

// IgnoreIf configures the state to ignore the specified trigger if the guard condition is met.
func (sc *StateConfiguration[TState, TTrigger]) IgnoreIf(trigger TTrigger, guard GuardFunc, guardDescription ...string) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewIgnoredTriggerBehaviour[TState](trigger, NewTransitionGuard(guard, firstOrEmpty(guardDescription))),
	)
	return sc
}

// PermitDynamic configures the state to transition to a destination computed from the
// trigger arguments when the specified trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamic(trigger TTrigger, selector StateSelector[TState]) *StateConfiguration[TState, TTrigger] {
	sc.enforceSelector(selector)
	sc.representation.AddTriggerBehaviour(
		NewDynamicTriggerBehaviour(trigger, selector, EmptyTransitionGuard),
	)
	return sc
}

// PermitDynamicIf is PermitDynamic guarded by a condition.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamicIf(
	trigger TTrigger,
	selector StateSelector[TState],
	guard GuardFunc,
	guardDescription ...string,
) *StateConfiguration[TState, TTrigger] {
	sc.enforceSelector(selector)
	sc.representation.AddTriggerBehaviour(
		NewDynamicTriggerBehaviour(trigger, selector, NewTransitionGuard(guard, firstOrEmpty(guardDescription))),
	)
	return sc
}

// InternalTransition configures an internal transition where the state is not exited
// and re-entered, and entry/exit actions are not executed.
func (sc *StateConfiguration[TState, TTrigger]) InternalTransition(
	trigger TTrigger,
	action TransitionAction[TState, TTrigger],
) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewInternalTriggerBehaviour(trigger, EmptyTransitionGuard, action),
	)
	return sc
}

// InternalTransitionIf is InternalTransition guarded by a condition.
func (sc *StateConfiguration[TState, TTrigger]) InternalTransitionIf(
	trigger TTrigger,
	guard GuardFunc,
	action TransitionAction[TState, TTrigger],
	guardDescription ...string,
) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewInternalTriggerBehaviour(trigger, NewTransitionGuard(guard, firstOrEmpty(guardDescription)), action),
	)
	return sc
}

// OnEntry configures an action to be executed when entering this state.
func (sc *StateConfiguration[TState, TTrigger]) OnEntry(action TransitionAction[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddEntryAction(
		NewEntryActionBehaviour(action, CreateInvocationInfo(action, firstOrEmpty(description))),
	)
	return sc
}

// OnEntryFrom configures an action to be executed when entering this state because of trigger.
func (sc *StateConfiguration[TState, TTrigger]) OnEntryFrom(trigger TTrigger, action TransitionAction[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddEntryAction(
		NewEntryActionBehaviourFrom(trigger, action, CreateInvocationInfo(action, firstOrEmpty(description))),
	)
	return sc
}

// OnExit configures an action to be executed when exiting this state.
func (sc *StateConfiguration[TState, TTrigger]) OnExit(action TransitionAction[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddExitAction(
		NewExitActionBehaviour(action, CreateInvocationInfo(action, firstOrEmpty(description))),
	)
	return sc
}

// SubstateOf sets the superstate of this state. A state has at most one superstate;
// naming a different one later panics, as does a cycle.
func (sc *StateConfiguration[TState, TTrigger]) SubstateOf(superstate TState) *StateConfiguration[TState, TTrigger] {
	if err := sc.graph.link(sc.representation.UnderlyingState(), superstate); err != nil {
		panic(err)
	}
	return sc
}

// InitialTransition sets the substate entered automatically whenever this state is entered.
func (sc *StateConfiguration[TState, TTrigger]) InitialTransition(destinationState TState) *StateConfiguration[TState, TTrigger] {
	if err := sc.representation.SetInitialTransition(destinationState); err != nil {
		panic(err)
	}
	return sc
}

// enforceNotIdentityTransition ensures that a transition is not to the same state.
func (sc *StateConfiguration[TState, TTrigger]) enforceNotIdentityTransition(destination TState) {
	if sc.representation.UnderlyingState() == destination {
		panic(&ConfigurationError{
			State: destination,
			Message: "Permit() (and PermitIf()) require that the destination state is not equal to the source state. " +
				"To accept a trigger without changing state, use either Ignore() or PermitReentry()",
		})
	}
}

func (sc *StateConfiguration[TState, TTrigger]) enforceSelector(selector StateSelector[TState]) {
	if selector == nil {
		panic(&ConfigurationError{
			State:   sc.representation.UnderlyingState(),
			Message: "dynamic transition requires a destination selector",
		})
	}
}
