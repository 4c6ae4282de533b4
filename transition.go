package hfsm

// Transition describes a state transition.
type Transition[TState, TTrigger comparable] struct {
	// Source is the state transitioned from.
	Source TState

	// Destination is the state transitioned to.
	Destination TState

	// Trigger is the trigger that caused the transition.
	Trigger TTrigger

	// Parameters are the arguments the trigger was fired with.
	Parameters Args

	// isInitial indicates an initial transition into a substate.
	isInitial bool
}

// NewTransition creates a new transition.
func NewTransition[TState, TTrigger comparable](source, destination TState, trigger TTrigger, parameters Args) Transition[TState, TTrigger] {
	if parameters == nil {
		parameters = Args{}
	}
	return Transition[TState, TTrigger]{
		Source:      source,
		Destination: destination,
		Trigger:     trigger,
		Parameters:  parameters,
	}
}

// newInitialTransition creates the transition handed to entry actions of a state entered
// through an initial transition.
func newInitialTransition[TState, TTrigger comparable](source, destination TState, trigger TTrigger, parameters Args) Transition[TState, TTrigger] {
	t := NewTransition(source, destination, trigger, parameters)
	t.isInitial = true
	return t
}

// IsReentry returns true if the transition is a re-entry, i.e., the identity transition.
func (t Transition[TState, TTrigger]) IsReentry() bool {
	return t.Source == t.Destination
}

// IsInitial returns true if this is an initial transition.
func (t Transition[TState, TTrigger]) IsInitial() bool {
	return t.isInitial
}
