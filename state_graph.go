package hfsm

import "fmt"

// stateGraph is the arena owning every StateRepresentation of a machine, keyed by state identity.
// The superstate relation it stores is a forest.
type stateGraph[TState, TTrigger comparable] struct {
	representations map[TState]*StateRepresentation[TState, TTrigger]
}

func newStateGraph[TState, TTrigger comparable]() *stateGraph[TState, TTrigger] {
	return &stateGraph[TState, TTrigger]{
		representations: make(map[TState]*StateRepresentation[TState, TTrigger]),
	}
}

// lookup returns the representation for state without creating one.
func (g *stateGraph[TState, TTrigger]) lookup(state TState) (*StateRepresentation[TState, TTrigger], bool) {
	rep, ok := g.representations[state]
	return rep, ok
}

// getOrCreate returns the representation for state, creating it on first reference.
func (g *stateGraph[TState, TTrigger]) getOrCreate(state TState) *StateRepresentation[TState, TTrigger] {
	rep, ok := g.representations[state]
	if !ok {
		rep = newStateRepresentation(state, g)
		g.representations[state] = rep
	}
	return rep
}

// link makes child a substate of parent, keeping both directions consistent.
func (g *stateGraph[TState, TTrigger]) link(child, parent TState) error {
	if child == parent || g.isAncestorOf(child, parent) {
		return &ConfigurationError{
			State:   child,
			Message: fmt.Sprintf("circular superstate relationship detected: %v -> %v", child, parent),
		}
	}
	if err := g.getOrCreate(child).setSuperstate(parent); err != nil {
		return err
	}
	g.getOrCreate(parent).addSubstate(child)
	return nil
}

// parent returns the superstate of state, if both are known.
func (g *stateGraph[TState, TTrigger]) parent(state TState) (TState, bool) {
	rep, ok := g.representations[state]
	if !ok {
		var zero TState
		return zero, false
	}
	return rep.Superstate()
}

// ancestry returns state followed by each of its superstates up to the root.
func (g *stateGraph[TState, TTrigger]) ancestry(state TState) []TState {
	chain := []TState{state}
	for s, ok := g.parent(state); ok; s, ok = g.parent(s) {
		chain = append(chain, s)
	}
	return chain
}

// isAncestorOf returns true if ancestor is a strict ancestor of state.
func (g *stateGraph[TState, TTrigger]) isAncestorOf(ancestor, state TState) bool {
	for s, ok := g.parent(state); ok; s, ok = g.parent(s) {
		if s == ancestor {
			return true
		}
	}
	return false
}

// commonAncestor returns the lowest state that is a or an ancestor of a, and also b or an
// ancestor of b.
func (g *stateGraph[TState, TTrigger]) commonAncestor(a, b TState) (TState, bool) {
	seen := make(map[TState]struct{})
	for _, s := range g.ancestry(a) {
		seen[s] = struct{}{}
	}
	for _, s := range g.ancestry(b) {
		if _, ok := seen[s]; ok {
			return s, true
		}
	}
	var zero TState
	return zero, false
}

// chainBelow returns state and its superstates, innermost first, stopping before stop.
// With hasStop false the whole chain up to the root is returned.
func (g *stateGraph[TState, TTrigger]) chainBelow(state, stop TState, hasStop bool) []TState {
	var chain []TState
	for _, s := range g.ancestry(state) {
		if hasStop && s == stop {
			break
		}
		chain = append(chain, s)
	}
	return chain
}
