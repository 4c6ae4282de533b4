package hfsm

import "context"

// TransitionAction is a callback run on entry, exit or internal transitions.
// Trigger arguments are available as t.Parameters.
type TransitionAction[TState, TTrigger comparable] func(ctx context.Context, t Transition[TState, TTrigger]) error

// EntryActionBehaviour represents an entry action for a state.
type EntryActionBehaviour[TState, TTrigger comparable] struct {
	action      TransitionAction[TState, TTrigger]
	description InvocationInfo
	fromTrigger *TTrigger
}

// NewEntryActionBehaviour creates an entry action that runs on every entry.
func NewEntryActionBehaviour[TState, TTrigger comparable](
	action TransitionAction[TState, TTrigger],
	description InvocationInfo,
) EntryActionBehaviour[TState, TTrigger] {
	return EntryActionBehaviour[TState, TTrigger]{
		action:      action,
		description: description,
	}
}

// NewEntryActionBehaviourFrom creates an entry action that only runs when the state
// is entered because of trigger.
func NewEntryActionBehaviourFrom[TState, TTrigger comparable](
	trigger TTrigger,
	action TransitionAction[TState, TTrigger],
	description InvocationInfo,
) EntryActionBehaviour[TState, TTrigger] {
	return EntryActionBehaviour[TState, TTrigger]{
		action:      action,
		description: description,
		fromTrigger: &trigger,
	}
}

// Execute runs the action unless it is bound to a different trigger.
func (e EntryActionBehaviour[TState, TTrigger]) Execute(ctx context.Context, transition Transition[TState, TTrigger]) error {
	if e.fromTrigger != nil && *e.fromTrigger != transition.Trigger {
		return nil
	}
	if e.action == nil {
		return nil
	}
	return e.action(ctx, transition)
}

// GetDescription returns the description of the action.
func (e EntryActionBehaviour[TState, TTrigger]) GetDescription() InvocationInfo {
	return e.description
}

// GetFromTrigger returns the trigger this action is bound to (nil if not bound).
func (e EntryActionBehaviour[TState, TTrigger]) GetFromTrigger() *TTrigger {
	return e.fromTrigger
}

// ExitActionBehaviour represents an exit action for a state. Exit actions are never trigger-filtered.
type ExitActionBehaviour[TState, TTrigger comparable] struct {
	action      TransitionAction[TState, TTrigger]
	description InvocationInfo
}

// NewExitActionBehaviour creates a new exit action.
func NewExitActionBehaviour[TState, TTrigger comparable](
	action TransitionAction[TState, TTrigger],
	description InvocationInfo,
) ExitActionBehaviour[TState, TTrigger] {
	return ExitActionBehaviour[TState, TTrigger]{
		action:      action,
		description: description,
	}
}

// Execute runs the exit action.
func (e ExitActionBehaviour[TState, TTrigger]) Execute(ctx context.Context, transition Transition[TState, TTrigger]) error {
	if e.action == nil {
		return nil
	}
	return e.action(ctx, transition)
}

// GetDescription returns the description of the action.
func (e ExitActionBehaviour[TState, TTrigger]) GetDescription() InvocationInfo {
	return e.description
}
