package definition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atlekbai/hfsm"
)

// ErrUnknownReference is matched when a definition names a guard, selector or action
// the registry does not hold.
var ErrUnknownReference = errors.New("unknown reference")

// Action is a transition action over string states and triggers.
type Action = hfsm.TransitionAction[string, string]

// Selector is a destination selector returning a state name.
type Selector = hfsm.StateSelector[string]

// Registry holds the named guards, selectors and actions a definition refers to.
type Registry struct {
	guards    map[string]hfsm.GuardFunc
	selectors map[string]Selector
	actions   map[string]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards:    make(map[string]hfsm.GuardFunc),
		selectors: make(map[string]Selector),
		actions:   make(map[string]Action),
	}
}

// Guard registers a guard. Names may not start with "!", which marks inversion.
func (r *Registry) Guard(name string, guard hfsm.GuardFunc) *Registry {
	r.guards[strings.TrimPrefix(name, "!")] = guard
	return r
}

// Selector registers a destination selector for dynamic transitions.
func (r *Registry) Selector(name string, selector Selector) *Registry {
	r.selectors[name] = selector
	return r
}

// Action registers an action usable as an entry, exit or internal transition action.
func (r *Registry) Action(name string, action Action) *Registry {
	r.actions[name] = action
	return r
}

// guard resolves a guard reference. An empty reference means no guard.
func (r *Registry) guard(ref string) (hfsm.GuardFunc, error) {
	if ref == "" {
		return nil, nil
	}
	name, inverted := strings.CutPrefix(ref, "!")
	g, ok := r.guards[name]
	if !ok {
		return nil, fmt.Errorf("%w: guard %q", ErrUnknownReference, name)
	}
	if inverted {
		return hfsm.InvertGuard(g), nil
	}
	return g, nil
}

func (r *Registry) selector(name string) (Selector, error) {
	s, ok := r.selectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: selector %q", ErrUnknownReference, name)
	}
	return s, nil
}

// action resolves an action reference. An empty reference means no action.
func (r *Registry) action(name string) (Action, error) {
	if name == "" {
		return nil, nil
	}
	a, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: action %q", ErrUnknownReference, name)
	}
	return a, nil
}
