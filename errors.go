package hfsm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTrigger is matched by errors for triggers no state in the current chain handles.
	ErrInvalidTrigger = errors.New("invalid trigger")

	// ErrGuardNotSatisfied is matched when a trigger is handled but every guard is false.
	ErrGuardNotSatisfied = errors.New("guard not satisfied")

	// ErrAmbiguousTransition is matched when more than one guard holds for the same trigger.
	ErrAmbiguousTransition = errors.New("ambiguous transition")

	// ErrConfiguration is matched by every configuration error.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrParameterConversion is matched when trigger arguments do not fit the declared signature.
	ErrParameterConversion = errors.New("parameter conversion failed")

	// ErrUnknownState is matched when a dynamic destination is not a configured state
	// and destination validation is enabled.
	ErrUnknownState = errors.New("unknown state")
)

// InvalidTransitionError is returned when a trigger is fired from a state where neither
// the state nor any of its superstates has a behaviour for it.
type InvalidTransitionError struct {
	Trigger           any
	State             any
	PermittedTriggers []any
}

func (e *InvalidTransitionError) Error() string {
	var permitted string
	if len(e.PermittedTriggers) > 0 {
		triggers := make([]string, len(e.PermittedTriggers))
		for i, t := range e.PermittedTriggers {
			triggers[i] = fmt.Sprintf("%v", t)
		}
		permitted = fmt.Sprintf(" Permitted triggers: %s.", strings.Join(triggers, ", "))
	} else {
		permitted = " No valid leaving transitions are permitted from state."
	}

	return fmt.Sprintf(
		"no valid leaving transitions are permitted from state '%v' for trigger '%v'.%s",
		e.State, e.Trigger, permitted)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTrigger }

// GuardNotSatisfiedError is returned when the state owning the trigger has behaviours for it
// but none of their guards hold.
type GuardNotSatisfiedError struct {
	Trigger any
	State   any
	// HandlerState is the state (State itself or a superstate) owning the behaviours.
	HandlerState any
	UnmetGuards  []string
}

func (e *GuardNotSatisfiedError) Error() string {
	return fmt.Sprintf(
		"trigger '%v' is valid for transition from state '%v' (handled by '%v') "+
			"but guard conditions are not met. Guard conditions: %s",
		e.Trigger, e.State, e.HandlerState, strings.Join(e.UnmetGuards, ", "))
}

func (e *GuardNotSatisfiedError) Unwrap() error { return ErrGuardNotSatisfied }

// AmbiguousTransitionError is returned when more than one guard holds at the state owning the trigger.
type AmbiguousTransitionError struct {
	Trigger      any
	State        any
	HandlerState any
	// Matches is the number of behaviours whose guards held.
	Matches int
}

func (e *AmbiguousTransitionError) Error() string {
	return fmt.Sprintf(
		"multiple permitted transitions (%d) are configured from state '%v' for trigger '%v' "+
			"while in state '%v'; guards should be mutually exclusive",
		e.Matches, e.HandlerState, e.Trigger, e.State)
}

func (e *AmbiguousTransitionError) Unwrap() error { return ErrAmbiguousTransition }

// ConfigurationError indicates a machine configuration that cannot be honoured.
type ConfigurationError struct {
	State   any
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("state '%v': %s", e.State, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// ParameterConversionError indicates trigger arguments that do not fit the declared signature.
type ParameterConversionError struct {
	Trigger any
	// Index is the offending argument position, or -1 for an arity mismatch.
	Index   int
	Message string
}

func (e *ParameterConversionError) Error() string {
	if e.Trigger != nil {
		return fmt.Sprintf("trigger '%v': %s", e.Trigger, e.Message)
	}
	return e.Message
}

func (e *ParameterConversionError) Unwrap() error { return ErrParameterConversion }

// UnknownStateError is returned when a dynamic transition selects a state that was never configured.
type UnknownStateError struct {
	Trigger     any
	Source      any
	Destination any
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("trigger '%v' from state '%v' selected unconfigured destination '%v'",
		e.Trigger, e.Source, e.Destination)
}

func (e *UnknownStateError) Unwrap() error { return ErrUnknownState }
