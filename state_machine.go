package hfsm

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// StateMachine resolves fired triggers against configured states and runs the resulting
// exit and entry actions. It is not safe for concurrent use; callers that fire from
// several goroutines must serialize access themselves.
type StateMachine[TState, TTrigger comparable] struct {
	// stateAccessor is used to retrieve the current state.
	stateAccessor func() TState

	// stateMutator is used to set the current state, once per successful transition.
	stateMutator func(TState)

	graph *stateGraph[TState, TTrigger]

	// triggerConfiguration holds declared argument signatures.
	triggerConfiguration map[TTrigger]*TriggerWithParameters[TTrigger]

	onTransitioned *event[Transition[TState, TTrigger]]
	onFired        *event[FireResult[TState, TTrigger]]

	opts machineOptions
}

// Outcome classifies how a fire ended.
type Outcome int

const (
	// OutcomeFailed means the fire returned an error and the state did not change.
	OutcomeFailed Outcome = iota
	// OutcomeTransitioned means exit and entry actions ran and the state was committed.
	OutcomeTransitioned
	// OutcomeIgnored means an ignore behaviour matched.
	OutcomeIgnored
	// OutcomeInternal means an internal transition ran without exit or entry.
	OutcomeInternal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeTransitioned:
		return "transitioned"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// FireResult reports one completed fire to OnFired observers.
type FireResult[TState, TTrigger comparable] struct {
	Source      TState
	Destination TState
	Trigger     TTrigger
	Outcome     Outcome
	Err         error
}

// event is an ordered list of observers.
type event[A any] struct {
	handlers []func(A)
}

func (e *event[A]) register(handler func(A)) {
	e.handlers = append(e.handlers, handler)
}

func (e *event[A]) invoke(arg A) {
	for _, handler := range e.handlers {
		handler(arg)
	}
}

// NewStateMachine creates a new state machine with the specified initial state.
func NewStateMachine[TState, TTrigger comparable](initialState TState, opts ...Option) *StateMachine[TState, TTrigger] {
	state := initialState
	return NewStateMachineWithExternalStorage[TState, TTrigger](
		func() TState { return state },
		func(s TState) { state = s },
		opts...,
	)
}

// NewStateMachineWithExternalStorage creates a new state machine whose current state lives
// outside the machine. The mutator is called only after a transition's actions all succeed.
func NewStateMachineWithExternalStorage[TState, TTrigger comparable](
	stateAccessor func() TState,
	stateMutator func(TState),
	opts ...Option,
) *StateMachine[TState, TTrigger] {
	o := defaultMachineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &StateMachine[TState, TTrigger]{
		stateAccessor:        stateAccessor,
		stateMutator:         stateMutator,
		graph:                newStateGraph[TState, TTrigger](),
		triggerConfiguration: make(map[TTrigger]*TriggerWithParameters[TTrigger]),
		onTransitioned:       &event[Transition[TState, TTrigger]]{},
		onFired:              &event[FireResult[TState, TTrigger]]{},
		opts:                 o,
	}
}

// State returns the current state.
func (sm *StateMachine[TState, TTrigger]) State() TState {
	return sm.stateAccessor()
}

// Name returns the name given with WithName.
func (sm *StateMachine[TState, TTrigger]) Name() string {
	return sm.opts.name
}

// Configure begins configuration of a state.
func (sm *StateMachine[TState, TTrigger]) Configure(state TState) *StateConfiguration[TState, TTrigger] {
	return newStateConfiguration(sm.graph.getOrCreate(state), sm.graph)
}

// Representation returns the representation of state, creating it on first reference.
func (sm *StateMachine[TState, TTrigger]) Representation(state TState) *StateRepresentation[TState, TTrigger] {
	return sm.graph.getOrCreate(state)
}

// IsConfigured returns true if state has a representation.
func (sm *StateMachine[TState, TTrigger]) IsConfigured(state TState) bool {
	_, ok := sm.graph.lookup(state)
	return ok
}

// SetTriggerParameters declares the argument types trigger must be fired with.
// Declaring a trigger twice panics with a *ConfigurationError.
func (sm *StateMachine[TState, TTrigger]) SetTriggerParameters(trigger TTrigger, argumentTypes ...reflect.Type) *TriggerWithParameters[TTrigger] {
	config := NewTriggerWithParameters(trigger, argumentTypes...)
	sm.ConfigureTriggerParameters(config)
	return config
}

// ConfigureTriggerParameters registers a declared trigger signature.
func (sm *StateMachine[TState, TTrigger]) ConfigureTriggerParameters(config *TriggerWithParameters[TTrigger]) {
	if _, exists := sm.triggerConfiguration[config.Trigger()]; exists {
		panic(&ConfigurationError{
			State:   NullString,
			Message: fmt.Sprintf("parameters for trigger '%v' have already been configured", config.Trigger()),
		})
	}
	sm.triggerConfiguration[config.Trigger()] = config
}

// Fire fires a trigger with optional arguments.
func (sm *StateMachine[TState, TTrigger]) Fire(trigger TTrigger, args ...any) error {
	return sm.FireCtx(context.Background(), trigger, args...)
}

// FireCtx fires a trigger, passing ctx through to every action that runs.
// On error the current state is left unchanged.
func (sm *StateMachine[TState, TTrigger]) FireCtx(ctx context.Context, trigger TTrigger, args ...any) error {
	source := sm.State()
	destination, outcome, err := sm.fire(ctx, source, trigger, Args(args))

	result := FireResult[TState, TTrigger]{
		Source:      source,
		Destination: destination,
		Trigger:     trigger,
		Outcome:     outcome,
		Err:         err,
	}
	if err != nil {
		sm.onFired.invoke(result)
		return err
	}

	switch outcome {
	case OutcomeTransitioned:
		sm.stateMutator(destination)
		sm.opts.logger.Debug("transitioned",
			zap.String("machine", sm.opts.name),
			zap.Any("state", source),
			zap.Any("trigger", trigger),
			zap.Any("destination", destination))
		sm.onTransitioned.invoke(NewTransition(source, destination, trigger, Args(args)))
	case OutcomeIgnored:
		sm.opts.logger.Debug("trigger ignored",
			zap.String("machine", sm.opts.name),
			zap.Any("state", source),
			zap.Any("trigger", trigger))
	case OutcomeInternal:
		sm.opts.logger.Debug("internal transition",
			zap.String("machine", sm.opts.name),
			zap.Any("state", source),
			zap.Any("trigger", trigger))
	}
	sm.onFired.invoke(result)
	return nil
}

// FireFrom resolves trigger as if the machine were in current, runs the resulting actions and
// returns the state the machine would be in afterwards. The machine's own state and observers
// are not touched.
func (sm *StateMachine[TState, TTrigger]) FireFrom(ctx context.Context, current TState, trigger TTrigger, args ...any) (TState, error) {
	destination, _, err := sm.fire(ctx, current, trigger, Args(args))
	return destination, err
}

// fire is the transition algorithm. It returns source on every error.
func (sm *StateMachine[TState, TTrigger]) fire(
	ctx context.Context,
	source TState,
	trigger TTrigger,
	args Args,
) (TState, Outcome, error) {
	owner, handler, err := sm.findHandler(source, trigger, args)
	if err != nil {
		return source, OutcomeFailed, err
	}

	var plan *transitionPlan[TState, TTrigger]

	switch behaviour := handler.(type) {
	case *IgnoredTriggerBehaviour[TState, TTrigger]:
		return source, OutcomeIgnored, nil

	case *InternalTriggerBehaviour[TState, TTrigger]:
		if err := behaviour.Execute(ctx, NewTransition(source, source, trigger, args)); err != nil {
			return source, OutcomeFailed, err
		}
		return source, OutcomeInternal, nil

	case *ReentryTriggerBehaviour[TState, TTrigger]:
		plan = sm.planReentry(source, owner.UnderlyingState(), trigger, args)

	default:
		destination, ok, err := handler.ResultsInTransitionFrom(source, args)
		if err != nil {
			return source, OutcomeFailed, err
		}
		if !ok {
			return source, OutcomeIgnored, nil
		}
		if _, dynamic := handler.(*DynamicTriggerBehaviour[TState, TTrigger]); dynamic && sm.opts.validateDestinations {
			if _, known := sm.graph.lookup(destination); !known {
				return source, OutcomeFailed, &UnknownStateError{Trigger: trigger, Source: source, Destination: destination}
			}
		}
		plan = sm.planTransition(source, destination, trigger, args)
	}

	if err := sm.planInitialTransitions(plan); err != nil {
		return source, OutcomeFailed, err
	}
	if err := sm.execute(ctx, plan); err != nil {
		return source, OutcomeFailed, err
	}
	return plan.final, OutcomeTransitioned, nil
}

// findHandler walks from source up through its superstates to the first state with behaviours
// for trigger, validates args against the trigger's declared parameters, then selects exactly
// one behaviour there by its guards. A trigger no state in the chain handles is invalid
// whatever its arguments.
func (sm *StateMachine[TState, TTrigger]) findHandler(
	source TState,
	trigger TTrigger,
	args Args,
) (*StateRepresentation[TState, TTrigger], TriggerBehaviour[TState, TTrigger], error) {
	for _, state := range sm.graph.ancestry(source) {
		representation, ok := sm.graph.lookup(state)
		if !ok {
			continue
		}
		behaviours := representation.FindBehaviours(trigger)
		if len(behaviours) == 0 {
			continue
		}
		if config, ok := sm.triggerConfiguration[trigger]; ok {
			if err := config.ValidateParameters(args); err != nil {
				return nil, nil, err
			}
		}

		// Every guard is evaluated so the error can name all of the unmet ones.
		var matched []TriggerBehaviour[TState, TTrigger]
		var unmet []string
		for _, behaviour := range behaviours {
			failed := behaviour.UnmetGuardConditions(args)
			if len(failed) == 0 {
				matched = append(matched, behaviour)
				continue
			}
			unmet = append(unmet, failed...)
		}

		switch len(matched) {
		case 0:
			return nil, nil, &GuardNotSatisfiedError{
				Trigger:      trigger,
				State:        source,
				HandlerState: state,
				UnmetGuards:  unmet,
			}
		case 1:
			return representation, matched[0], nil
		default:
			return nil, nil, &AmbiguousTransitionError{
				Trigger:      trigger,
				State:        source,
				HandlerState: state,
				Matches:      len(matched),
			}
		}
	}

	permitted := sm.permittedTriggers(source, args)
	triggers := make([]any, len(permitted))
	for i, t := range permitted {
		triggers[i] = t
	}
	return nil, nil, &InvalidTransitionError{
		Trigger:           trigger,
		State:             source,
		PermittedTriggers: triggers,
	}
}

// CanFire returns true if firing trigger from the current state would resolve to exactly one behaviour.
func (sm *StateMachine[TState, TTrigger]) CanFire(trigger TTrigger, args ...any) bool {
	_, _, err := sm.findHandler(sm.State(), trigger, Args(args))
	return err == nil
}

// PermittedTriggers returns the triggers with at least one met guard on the current state or
// any of its superstates.
func (sm *StateMachine[TState, TTrigger]) PermittedTriggers(args ...any) []TTrigger {
	return sm.permittedTriggers(sm.State(), Args(args))
}

func (sm *StateMachine[TState, TTrigger]) permittedTriggers(state TState, args Args) []TTrigger {
	var result []TTrigger
	seen := make(map[TTrigger]struct{})
	for _, s := range sm.graph.ancestry(state) {
		representation, ok := sm.graph.lookup(s)
		if !ok {
			continue
		}
		for _, trigger := range representation.localPermittedTriggers(args) {
			if _, dup := seen[trigger]; dup {
				continue
			}
			seen[trigger] = struct{}{}
			result = append(result, trigger)
		}
	}
	return result
}

// IsInState returns true if the current state is the specified state or a substate of it.
func (sm *StateMachine[TState, TTrigger]) IsInState(state TState) bool {
	current := sm.State()
	return current == state || sm.graph.isAncestorOf(state, current)
}

// OnTransitioned registers a callback invoked after each committed transition.
func (sm *StateMachine[TState, TTrigger]) OnTransitioned(action func(Transition[TState, TTrigger])) {
	sm.onTransitioned.register(action)
}

// OnFired registers a callback invoked after every Fire, successful or not.
// The error is still returned to the caller of Fire.
func (sm *StateMachine[TState, TTrigger]) OnFired(action func(FireResult[TState, TTrigger])) {
	sm.onFired.register(action)
}

// String returns a string representation of the current state.
func (sm *StateMachine[TState, TTrigger]) String() string {
	return fmt.Sprintf("StateMachine { State = %v }", sm.State())
}
