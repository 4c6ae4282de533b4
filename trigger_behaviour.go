package hfsm

import "context"

// StateSelector computes the destination of a dynamic transition from the trigger arguments.
type StateSelector[TState any] func(args Args) (TState, error)

// TriggerBehaviour is the base interface for all trigger behaviours.
type TriggerBehaviour[TState, TTrigger comparable] interface {
	// GetTrigger returns the trigger associated with this behaviour.
	GetTrigger() TTrigger

	// GetGuard returns the transition guard for this trigger.
	GetGuard() TransitionGuard

	// GuardConditionsMet returns true if all guard conditions are met.
	GuardConditionsMet(args Args) bool

	// UnmetGuardConditions returns the descriptions of all unmet guard conditions.
	UnmetGuardConditions(args Args) []string

	// ResultsInTransitionFrom reports whether firing from source leads to a transition and,
	// if so, to which destination.
	ResultsInTransitionFrom(source TState, args Args) (TState, bool, error)
}

// triggerBehaviourBase provides the base implementation for trigger behaviours.
type triggerBehaviourBase[TState, TTrigger comparable] struct {
	trigger TTrigger
	guard   TransitionGuard
}

func (t *triggerBehaviourBase[TState, TTrigger]) GetTrigger() TTrigger {
	return t.trigger
}

func (t *triggerBehaviourBase[TState, TTrigger]) GetGuard() TransitionGuard {
	return t.guard
}

func (t *triggerBehaviourBase[TState, TTrigger]) GuardConditionsMet(args Args) bool {
	return t.guard.GuardConditionsMet(args)
}

func (t *triggerBehaviourBase[TState, TTrigger]) UnmetGuardConditions(args Args) []string {
	return t.guard.UnmetGuardConditions(args)
}

// TransitioningTriggerBehaviour represents a transition to a fixed destination state.
type TransitioningTriggerBehaviour[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TState, TTrigger]

	Destination TState
}

// NewTransitioningTriggerBehaviour creates a new transitioning trigger behaviour.
func NewTransitioningTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	destination TState,
	guard TransitionGuard,
) *TransitioningTriggerBehaviour[TState, TTrigger] {
	return &TransitioningTriggerBehaviour[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TState, TTrigger]{
			trigger: trigger,
			guard:   guard,
		},
		Destination: destination,
	}
}

func (t *TransitioningTriggerBehaviour[TState, TTrigger]) ResultsInTransitionFrom(_ TState, _ Args) (TState, bool, error) {
	return t.Destination, true, nil
}

// ReentryTriggerBehaviour represents a reentry transition: the owning state exits and re-enters itself.
type ReentryTriggerBehaviour[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TState, TTrigger]

	Destination TState
}

// NewReentryTriggerBehaviour creates a new reentry trigger behaviour.
func NewReentryTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	destination TState,
	guard TransitionGuard,
) *ReentryTriggerBehaviour[TState, TTrigger] {
	return &ReentryTriggerBehaviour[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TState, TTrigger]{
			trigger: trigger,
			guard:   guard,
		},
		Destination: destination,
	}
}

func (r *ReentryTriggerBehaviour[TState, TTrigger]) ResultsInTransitionFrom(_ TState, _ Args) (TState, bool, error) {
	return r.Destination, true, nil
}

// IgnoredTriggerBehaviour represents a trigger that is accepted without a transition.
type IgnoredTriggerBehaviour[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TState, TTrigger]
}

// NewIgnoredTriggerBehaviour creates a new ignored trigger behaviour.
func NewIgnoredTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	guard TransitionGuard,
) *IgnoredTriggerBehaviour[TState, TTrigger] {
	return &IgnoredTriggerBehaviour[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TState, TTrigger]{
			trigger: trigger,
			guard:   guard,
		},
	}
}

func (i *IgnoredTriggerBehaviour[TState, TTrigger]) ResultsInTransitionFrom(source TState, _ Args) (TState, bool, error) {
	return source, false, nil
}

// DynamicTriggerBehaviour represents a transition to a state computed at fire time.
type DynamicTriggerBehaviour[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TState, TTrigger]

	destination StateSelector[TState]
	selector    InvocationInfo
}

// NewDynamicTriggerBehaviour creates a new dynamic trigger behaviour.
func NewDynamicTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	destination StateSelector[TState],
	guard TransitionGuard,
) *DynamicTriggerBehaviour[TState, TTrigger] {
	return &DynamicTriggerBehaviour[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TState, TTrigger]{
			trigger: trigger,
			guard:   guard,
		},
		destination: destination,
		selector:    CreateInvocationInfo(destination, ""),
	}
}

// SelectorDescription describes the destination selector.
func (d *DynamicTriggerBehaviour[TState, TTrigger]) SelectorDescription() InvocationInfo {
	return d.selector
}

// ResultsInTransitionFrom calls the selector once. The selected state is not checked here.
func (d *DynamicTriggerBehaviour[TState, TTrigger]) ResultsInTransitionFrom(source TState, args Args) (TState, bool, error) {
	destination, err := d.destination(args)
	if err != nil {
		return source, false, err
	}
	return destination, true, nil
}

// InternalTriggerBehaviour runs an action without leaving the current state;
// no exit or entry actions are executed.
type InternalTriggerBehaviour[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TState, TTrigger]

	internalAction TransitionAction[TState, TTrigger]
}

// NewInternalTriggerBehaviour creates a new internal trigger behaviour.
func NewInternalTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	guard TransitionGuard,
	internalAction TransitionAction[TState, TTrigger],
) *InternalTriggerBehaviour[TState, TTrigger] {
	return &InternalTriggerBehaviour[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TState, TTrigger]{
			trigger: trigger,
			guard:   guard,
		},
		internalAction: internalAction,
	}
}

func (s *InternalTriggerBehaviour[TState, TTrigger]) ResultsInTransitionFrom(source TState, _ Args) (TState, bool, error) {
	return source, false, nil
}

// Execute executes the internal action.
func (s *InternalTriggerBehaviour[TState, TTrigger]) Execute(
	ctx context.Context,
	transition Transition[TState, TTrigger],
) error {
	if s.internalAction != nil {
		return s.internalAction(ctx, transition)
	}
	return nil
}
