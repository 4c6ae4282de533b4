package hfsm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/atlekbai/hfsm"
)

func TestSubstateOfLinksBothDirections(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateB).SubstateOf(StateA)

	parent, ok := sm.Representation(StateB).Superstate()
	if !ok || parent != StateA {
		t.Errorf("expected StateB's superstate to be StateA, got %v (%v)", parent, ok)
	}
	if diff := cmp.Diff([]State{StateB}, sm.Representation(StateA).Substates()); diff != "" {
		t.Errorf("substates mismatch (-want +got):\n%s", diff)
	}
	if !sm.Representation(StateA).IsAncestorOf(StateB) {
		t.Error("expected StateA to be an ancestor of StateB")
	}
	if !sm.Representation(StateB).IsIncludedIn(StateA) {
		t.Error("expected StateB to be included in StateA")
	}
}

func TestSubstateOfSameParentTwiceIsNoOp(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateB).SubstateOf(StateA)
	sm.Configure(StateB).SubstateOf(StateA)

	if got := sm.Representation(StateA).Substates(); len(got) != 1 {
		t.Errorf("expected one substate, got %v", got)
	}
}

func TestSubstateInheritsSuperstateTrigger(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateB)
	sm.Configure(StateA).Permit(TriggerX, StateC)
	sm.Configure(StateB).SubstateOf(StateA)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.State() != StateC {
		t.Errorf("expected StateC, got %v", sm.State())
	}
}

func TestSubstateOverridesSuperstateTrigger(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateB)
	sm.Configure(StateA).Permit(TriggerX, StateC)
	sm.Configure(StateB).SubstateOf(StateA).Permit(TriggerX, StateD)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.State() != StateD {
		t.Errorf("expected StateD, got %v", sm.State())
	}
}

func TestEnterSubstateFromDisjointStateRunsOutermostFirst(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateC)
	sm.Configure(StateC).SubstateOf(StateB)
	sm.Configure(StateB).OnEntry(rec.action("e_B"))
	sm.Configure(StateC).OnEntry(rec.action("e_C"))

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"e_B", "e_C"}, rec.calls); diff != "" {
		t.Errorf("entry order mismatch (-want +got):\n%s", diff)
	}
}

func TestLeaveNestedStateRunsInnermostFirst(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateC)
	sm.Configure(StateC).SubstateOf(StateB).Permit(TriggerX, StateD)
	sm.Configure(StateB).SubstateOf(StateA)
	rec.track(sm, StateA, StateB, StateC, StateD)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"exit StateC", "exit StateB", "exit StateA", "enter StateD"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}
}

func TestTransitionBetweenSiblingsStopsAtCommonAncestor(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateB)
	sm.Configure(StateB).SubstateOf(StateA).Permit(TriggerX, StateC)
	sm.Configure(StateC).SubstateOf(StateA)
	rec.track(sm, StateA, StateB, StateC)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"exit StateB", "enter StateC"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}
}

func TestTransitionFromSuperstateIntoItsSubstate(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateC)
	sm.Configure(StateB).SubstateOf(StateA)
	sm.Configure(StateC).SubstateOf(StateB)
	rec.track(sm, StateA, StateB, StateC)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"enter StateB", "enter StateC"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}
}

func TestTransitionFromSubstateToItsSuperstate(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateC)
	sm.Configure(StateB).SubstateOf(StateA)
	sm.Configure(StateC).SubstateOf(StateB).Permit(TriggerX, StateA)
	rec.track(sm, StateA, StateB, StateC)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"exit StateC", "exit StateB"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}
	if sm.State() != StateA {
		t.Errorf("expected StateA, got %v", sm.State())
	}
}

func TestReentryRunsOnlyOwnActions(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateB)
	sm.Configure(StateB).
		SubstateOf(StateA).
		PermitReentry(TriggerX).
		OnExit(rec.action("exit B 1")).
		OnExit(rec.action("exit B 2")).
		OnEntry(rec.action("enter B 1")).
		OnEntry(rec.action("enter B 2"))
	sm.Configure(StateA).
		OnEntry(rec.entry(StateA)).
		OnExit(rec.exit(StateA))

	var got hfsm.Transition[State, Trigger]
	sm.OnTransitioned(func(tr hfsm.Transition[State, Trigger]) { got = tr })

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.State() != StateB {
		t.Errorf("expected StateB, got %v", sm.State())
	}
	want := []string{"exit B 1", "exit B 2", "enter B 1", "enter B 2"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}
	if !got.IsReentry() {
		t.Errorf("expected a reentry transition, got %+v", got)
	}
}

func TestInheritedReentryReentersOwner(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateB)
	sm.Configure(StateA).PermitReentry(TriggerX)
	sm.Configure(StateB).SubstateOf(StateA)
	rec.track(sm, StateA, StateB)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.State() != StateA {
		t.Errorf("expected StateA, got %v", sm.State())
	}
	want := []string{"exit StateB", "exit StateA", "enter StateA"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialTransitionEntersSubstate(t *testing.T) {
	var rec recorder
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).InitialTransition(StateC)
	sm.Configure(StateC).SubstateOf(StateB)
	rec.track(sm, StateB, StateC)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.State() != StateC {
		t.Errorf("expected StateC, got %v", sm.State())
	}
	if diff := cmp.Diff([]string{"enter StateB", "enter StateC"}, rec.calls); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialTransitionEntersSubstateOfSubstate(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).InitialTransition(StateC)
	sm.Configure(StateC).InitialTransition(StateD).SubstateOf(StateB)
	sm.Configure(StateD).SubstateOf(StateC)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.State() != StateD {
		t.Errorf("expected StateD, got %v", sm.State())
	}
}

func TestInitialTransitionMarksTransitionInitial(t *testing.T) {
	var initial []bool
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).InitialTransition(StateC).OnEntry(func(_ context.Context, tr hfsm.Transition[State, Trigger]) error {
		initial = append(initial, tr.IsInitial())
		return nil
	})
	sm.Configure(StateC).SubstateOf(StateB).OnEntry(func(_ context.Context, tr hfsm.Transition[State, Trigger]) error {
		initial = append(initial, tr.IsInitial())
		return nil
	})

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]bool{false, true}, initial); diff != "" {
		t.Errorf("IsInitial mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialTransitionToNonSubstateFails(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).InitialTransition(StateC)
	sm.Configure(StateC)

	err := sm.Fire(TriggerX)
	if !errors.Is(err, hfsm.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if sm.State() != StateA {
		t.Errorf("expected StateA, got %v", sm.State())
	}
}

func TestInitialTransitionNotFollowedForSubstateDestination(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateD)
	sm.Configure(StateB).InitialTransition(StateC)
	sm.Configure(StateC).SubstateOf(StateB)
	sm.Configure(StateD).SubstateOf(StateB)

	if err := sm.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.State() != StateD {
		t.Errorf("expected StateD, got %v", sm.State())
	}
}
