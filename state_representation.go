package hfsm

import (
	"context"
	"fmt"
)

// StateRepresentation models the behaviour of a state: its trigger behaviours, entry and exit
// actions, and its place in the hierarchy. Superstate and substates are held as state identities;
// the owning stateGraph resolves them.
type StateRepresentation[TState, TTrigger comparable] struct {
	state TState
	graph *stateGraph[TState, TTrigger]

	// superstate is the parent state, valid when hasSuperstate is set.
	superstate    TState
	hasSuperstate bool

	// substates are the child states of this state, in registration order.
	substates []TState

	// triggerBehaviours maps triggers to their behaviours, in registration order.
	triggerBehaviours map[TTrigger][]TriggerBehaviour[TState, TTrigger]

	// triggers lists the keys of triggerBehaviours in the order they were first configured.
	triggers []TTrigger

	entryActions []EntryActionBehaviour[TState, TTrigger]
	exitActions  []ExitActionBehaviour[TState, TTrigger]

	// hasInitialTransition indicates if this state has an initial transition configured.
	hasInitialTransition bool

	// initialTransitionTarget is the substate entered after this state is entered.
	initialTransitionTarget TState
}

func newStateRepresentation[TState, TTrigger comparable](state TState, graph *stateGraph[TState, TTrigger]) *StateRepresentation[TState, TTrigger] {
	return &StateRepresentation[TState, TTrigger]{
		state:             state,
		graph:             graph,
		triggerBehaviours: make(map[TTrigger][]TriggerBehaviour[TState, TTrigger]),
	}
}

// UnderlyingState returns the state this representation models.
func (sr *StateRepresentation[TState, TTrigger]) UnderlyingState() TState {
	return sr.state
}

// Superstate returns the parent state, if any.
func (sr *StateRepresentation[TState, TTrigger]) Superstate() (TState, bool) {
	return sr.superstate, sr.hasSuperstate
}

// SetSuperstate makes this state a substate of parent and records the child on parent as well.
// Setting the same parent twice is a no-op. Re-parenting to a different state, or a link that
// would make a state its own ancestor, returns a *ConfigurationError.
func (sr *StateRepresentation[TState, TTrigger]) SetSuperstate(parent TState) error {
	return sr.graph.link(sr.state, parent)
}

func (sr *StateRepresentation[TState, TTrigger]) setSuperstate(parent TState) error {
	if sr.hasSuperstate {
		if sr.superstate == parent {
			return nil
		}
		return &ConfigurationError{
			State:   sr.state,
			Message: fmt.Sprintf("superstate is already '%v'; cannot re-parent to '%v'", sr.superstate, parent),
		}
	}
	sr.superstate = parent
	sr.hasSuperstate = true
	return nil
}

// Substates returns the substates of this state.
func (sr *StateRepresentation[TState, TTrigger]) Substates() []TState {
	return sr.substates
}

// AddSubstate makes substate a child of this state. It is SetSuperstate seen from the parent.
func (sr *StateRepresentation[TState, TTrigger]) AddSubstate(substate TState) error {
	return sr.graph.link(substate, sr.state)
}

func (sr *StateRepresentation[TState, TTrigger]) addSubstate(substate TState) {
	for _, s := range sr.substates {
		if s == substate {
			return
		}
	}
	sr.substates = append(sr.substates, substate)
}

// TriggerBehaviours returns the trigger behaviours map.
func (sr *StateRepresentation[TState, TTrigger]) TriggerBehaviours() map[TTrigger][]TriggerBehaviour[TState, TTrigger] {
	return sr.triggerBehaviours
}

// FindBehaviours returns this state's own behaviours for trigger. Superstates are not searched.
func (sr *StateRepresentation[TState, TTrigger]) FindBehaviours(trigger TTrigger) []TriggerBehaviour[TState, TTrigger] {
	return sr.triggerBehaviours[trigger]
}

// AddTriggerBehaviour adds a trigger behaviour to this state.
func (sr *StateRepresentation[TState, TTrigger]) AddTriggerBehaviour(behaviour TriggerBehaviour[TState, TTrigger]) {
	trigger := behaviour.GetTrigger()
	if _, seen := sr.triggerBehaviours[trigger]; !seen {
		sr.triggers = append(sr.triggers, trigger)
	}
	sr.triggerBehaviours[trigger] = append(sr.triggerBehaviours[trigger], behaviour)
}

// EntryActions returns the entry actions.
func (sr *StateRepresentation[TState, TTrigger]) EntryActions() []EntryActionBehaviour[TState, TTrigger] {
	return sr.entryActions
}

// ExitActions returns the exit actions.
func (sr *StateRepresentation[TState, TTrigger]) ExitActions() []ExitActionBehaviour[TState, TTrigger] {
	return sr.exitActions
}

// AddEntryAction adds an entry action to this state.
func (sr *StateRepresentation[TState, TTrigger]) AddEntryAction(action EntryActionBehaviour[TState, TTrigger]) {
	sr.entryActions = append(sr.entryActions, action)
}

// AddExitAction adds an exit action to this state.
func (sr *StateRepresentation[TState, TTrigger]) AddExitAction(action ExitActionBehaviour[TState, TTrigger]) {
	sr.exitActions = append(sr.exitActions, action)
}

// HasInitialTransition returns true if this state has an initial transition configured.
func (sr *StateRepresentation[TState, TTrigger]) HasInitialTransition() bool {
	return sr.hasInitialTransition
}

// InitialTransitionTarget returns the target state for the initial transition.
func (sr *StateRepresentation[TState, TTrigger]) InitialTransitionTarget() TState {
	return sr.initialTransitionTarget
}

// SetInitialTransition sets the initial transition for this state.
func (sr *StateRepresentation[TState, TTrigger]) SetInitialTransition(target TState) error {
	if target == sr.state {
		return &ConfigurationError{State: sr.state, Message: "initial transition to self is not allowed"}
	}
	if sr.hasInitialTransition {
		return &ConfigurationError{State: sr.state, Message: "initial transition is already defined"}
	}
	sr.hasInitialTransition = true
	sr.initialTransitionTarget = target
	return nil
}

// IsAncestorOf returns true if this state is a strict ancestor of other.
func (sr *StateRepresentation[TState, TTrigger]) IsAncestorOf(other TState) bool {
	return sr.graph.isAncestorOf(sr.state, other)
}

// CommonAncestorWith returns the lowest state that is this state or one of its ancestors and
// also other or one of its ancestors. ok is false when the two live in disjoint trees.
func (sr *StateRepresentation[TState, TTrigger]) CommonAncestorWith(other TState) (TState, bool) {
	return sr.graph.commonAncestor(sr.state, other)
}

// IsIncludedIn returns true if this state is the specified state or a substate of it.
func (sr *StateRepresentation[TState, TTrigger]) IsIncludedIn(state TState) bool {
	return sr.state == state || sr.graph.isAncestorOf(state, sr.state)
}

// executeEntryActions executes this state's entry actions in registration order.
func (sr *StateRepresentation[TState, TTrigger]) executeEntryActions(ctx context.Context, transition Transition[TState, TTrigger]) error {
	for _, action := range sr.entryActions {
		if err := action.Execute(ctx, transition); err != nil {
			return err
		}
	}
	return nil
}

// executeExitActions executes this state's exit actions in registration order.
func (sr *StateRepresentation[TState, TTrigger]) executeExitActions(ctx context.Context, transition Transition[TState, TTrigger]) error {
	for _, action := range sr.exitActions {
		if err := action.Execute(ctx, transition); err != nil {
			return err
		}
	}
	return nil
}

// localPermittedTriggers returns the triggers with at least one met guard on this state alone,
// in the order they were configured.
func (sr *StateRepresentation[TState, TTrigger]) localPermittedTriggers(args Args) []TTrigger {
	var result []TTrigger
	for _, trigger := range sr.triggers {
		for _, behaviour := range sr.triggerBehaviours[trigger] {
			if behaviour.GuardConditionsMet(args) {
				result = append(result, trigger)
				break
			}
		}
	}
	return result
}

// String returns a string representation of this state.
func (sr *StateRepresentation[TState, TTrigger]) String() string {
	return fmt.Sprintf("%v", sr.state)
}
