package hfsm

import (
	"context"
	"fmt"
)

// transitionPlan is the ordered set of states to exit and enter for one fire.
type transitionPlan[TState, TTrigger comparable] struct {
	transition Transition[TState, TTrigger]

	// exit is innermost first.
	exit []TState

	// entry is outermost first.
	entry []TState

	// initial lists states entered by following initial transitions after entry.
	initial []initialEntry[TState, TTrigger]

	// descend is false for a non-reentrant self-loop, which runs no actions at all.
	descend bool

	final TState
}

type initialEntry[TState, TTrigger comparable] struct {
	state      TState
	transition Transition[TState, TTrigger]
}

// planReentry exits from source up to and including owner, then re-enters owner only.
// When source is owner this runs only the state's own exit and entry actions.
func (sm *StateMachine[TState, TTrigger]) planReentry(source, owner TState, trigger TTrigger, args Args) *transitionPlan[TState, TTrigger] {
	var exit []TState
	for _, s := range sm.graph.ancestry(source) {
		exit = append(exit, s)
		if s == owner {
			break
		}
	}
	return &transitionPlan[TState, TTrigger]{
		transition: NewTransition(source, owner, trigger, args),
		exit:       exit,
		entry:      []TState{owner},
		descend:    true,
		final:      owner,
	}
}

// planTransition exits from source up to the lowest common ancestor and enters from just below
// it down to destination. Both chains exclude the ancestor itself.
func (sm *StateMachine[TState, TTrigger]) planTransition(source, destination TState, trigger TTrigger, args Args) *transitionPlan[TState, TTrigger] {
	plan := &transitionPlan[TState, TTrigger]{
		transition: NewTransition(source, destination, trigger, args),
		final:      destination,
	}
	if source == destination {
		return plan
	}

	lca, hasLCA := sm.graph.commonAncestor(source, destination)
	plan.exit = sm.graph.chainBelow(source, lca, hasLCA)
	plan.entry = reversed(sm.graph.chainBelow(destination, lca, hasLCA))
	plan.descend = true
	return plan
}

// planInitialTransitions follows initial transitions from the planned destination down to a
// state without one.
func (sm *StateMachine[TState, TTrigger]) planInitialTransitions(plan *transitionPlan[TState, TTrigger]) error {
	if !plan.descend {
		return nil
	}
	current := plan.final
	for {
		representation, ok := sm.graph.lookup(current)
		if !ok || !representation.HasInitialTransition() {
			break
		}
		target := representation.InitialTransitionTarget()
		if !sm.graph.isAncestorOf(current, target) {
			return &ConfigurationError{
				State:   current,
				Message: fmt.Sprintf("initial transition target '%v' is not a substate", target),
			}
		}
		transition := newInitialTransition(current, target, plan.transition.Trigger, plan.transition.Parameters)
		for _, s := range reversed(sm.graph.chainBelow(target, current, true)) {
			plan.initial = append(plan.initial, initialEntry[TState, TTrigger]{state: s, transition: transition})
		}
		current = target
	}
	plan.final = current
	return nil
}

// execute runs exit actions then entry actions. It stops at the first error; actions already run
// are not undone.
func (sm *StateMachine[TState, TTrigger]) execute(ctx context.Context, plan *transitionPlan[TState, TTrigger]) error {
	for _, s := range plan.exit {
		if representation, ok := sm.graph.lookup(s); ok {
			if err := representation.executeExitActions(ctx, plan.transition); err != nil {
				return err
			}
		}
	}
	for _, s := range plan.entry {
		if representation, ok := sm.graph.lookup(s); ok {
			if err := representation.executeEntryActions(ctx, plan.transition); err != nil {
				return err
			}
		}
	}
	for _, step := range plan.initial {
		if representation, ok := sm.graph.lookup(step.state); ok {
			if err := representation.executeEntryActions(ctx, step.transition); err != nil {
				return err
			}
		}
	}
	return nil
}

func reversed[E any](s []E) []E {
	out := make([]E, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
