package hfsm_test

import (
	"context"
	"fmt"

	"github.com/atlekbai/hfsm"
)

// Test state and trigger types
type State int
type Trigger int

const (
	StateA State = iota
	StateB
	StateC
	StateD
	StateE
)

const (
	TriggerX Trigger = iota
	TriggerY
	TriggerZ
)

func (s State) String() string {
	switch s {
	case StateA:
		return "StateA"
	case StateB:
		return "StateB"
	case StateC:
		return "StateC"
	case StateD:
		return "StateD"
	case StateE:
		return "StateE"
	default:
		return "Unknown"
	}
}

func (t Trigger) String() string {
	switch t {
	case TriggerX:
		return "TriggerX"
	case TriggerY:
		return "TriggerY"
	case TriggerZ:
		return "TriggerZ"
	default:
		return "Unknown"
	}
}

// recorder collects the names of actions in the order they ran.
type recorder struct {
	calls []string
}

func (r *recorder) action(name string) hfsm.TransitionAction[State, Trigger] {
	return func(_ context.Context, _ hfsm.Transition[State, Trigger]) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

func (r *recorder) entry(s State) hfsm.TransitionAction[State, Trigger] {
	return r.action(fmt.Sprintf("enter %v", s))
}

func (r *recorder) exit(s State) hfsm.TransitionAction[State, Trigger] {
	return r.action(fmt.Sprintf("exit %v", s))
}

// track registers entry and exit recorders on every listed state.
func (r *recorder) track(sm *hfsm.StateMachine[State, Trigger], states ...State) {
	for _, s := range states {
		sm.Configure(s).OnEntry(r.entry(s)).OnExit(r.exit(s))
	}
}

func failing(err error) hfsm.TransitionAction[State, Trigger] {
	return func(context.Context, hfsm.Transition[State, Trigger]) error {
		return err
	}
}

func always(v bool) hfsm.GuardFunc {
	return func(hfsm.Args) bool { return v }
}
