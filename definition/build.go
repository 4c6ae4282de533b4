package definition

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/atlekbai/hfsm"
)

// parameterTypes are the argument types a trigger signature may name.
var parameterTypes = map[string]reflect.Type{
	"string":  hfsm.TypeOf[string](),
	"int":     hfsm.TypeOf[int](),
	"float64": hfsm.TypeOf[float64](),
	"bool":    hfsm.TypeOf[bool](),
	"any":     hfsm.TypeOf[any](),
}

// Build validates def and configures a new machine from it, resolving every guard, selector and
// action through reg. The machine is named after the definition unless opts override it.
func Build(def *Definition, reg *Registry, opts ...hfsm.Option) (*hfsm.StateMachine[string, string], error) {
	sm := hfsm.NewStateMachine[string, string](def.Initial, append([]hfsm.Option{hfsm.WithName(def.Name)}, opts...)...)
	if err := Apply(def, reg, sm); err != nil {
		return nil, err
	}
	return sm, nil
}

// Apply configures an existing machine from def. It is useful with
// hfsm.NewStateMachineWithExternalStorage, where the initial state lives elsewhere.
func Apply(def *Definition, reg *Registry, sm *hfsm.StateMachine[string, string]) (err error) {
	if err := def.Validate(); err != nil {
		return err
	}
	if reg == nil {
		reg = NewRegistry()
	}

	// Configuration mistakes the validator cannot see surface as panics from the fluent API.
	defer func() {
		if r := recover(); r != nil {
			var cfgErr *hfsm.ConfigurationError
			if e, ok := r.(error); ok && errors.As(e, &cfgErr) {
				err = fmt.Errorf("build %q: %w", def.Name, e)
				return
			}
			panic(r)
		}
	}()

	for trigger, typeNames := range def.Triggers {
		types := make([]reflect.Type, len(typeNames))
		for i, name := range typeNames {
			types[i] = parameterTypes[name]
		}
		sm.SetTriggerParameters(trigger, types...)
	}

	var errs []error
	for _, name := range def.StateNames() {
		if err := configureState(sm.Configure(name), def.States[name], reg); err != nil {
			errs = append(errs, fmt.Errorf("state %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func configureState(sc *hfsm.StateConfiguration[string, string], state StateDef, reg *Registry) error {
	var errs []error
	collect := func(err error) bool {
		if err != nil {
			errs = append(errs, err)
			return false
		}
		return true
	}

	if state.SubstateOf != "" {
		sc.SubstateOf(state.SubstateOf)
	}
	if state.Initial != "" {
		sc.InitialTransition(state.Initial)
	}

	for _, t := range state.Permit {
		if guard, err := reg.guard(t.Guard); collect(err) {
			sc.PermitIf(t.Trigger, t.To, guard, t.Guard)
		}
	}
	for _, t := range state.Reentry {
		if guard, err := reg.guard(t.Guard); collect(err) {
			sc.PermitReentryIf(t.Trigger, guard, t.Guard)
		}
	}
	for _, t := range state.Ignore {
		if guard, err := reg.guard(t.Guard); collect(err) {
			sc.IgnoreIf(t.Trigger, guard, t.Guard)
		}
	}
	for _, t := range state.Dynamic {
		guard, gErr := reg.guard(t.Guard)
		selector, sErr := reg.selector(t.Selector)
		if collect(errors.Join(gErr, sErr)) {
			sc.PermitDynamicIf(t.Trigger, selector, guard, t.Guard)
		}
	}
	for _, t := range state.Internal {
		guard, gErr := reg.guard(t.Guard)
		action, aErr := reg.action(t.Action)
		if collect(errors.Join(gErr, aErr)) {
			sc.InternalTransitionIf(t.Trigger, guard, action, t.Guard)
		}
	}

	for _, name := range state.OnEntry {
		if action, err := reg.requiredAction(name); collect(err) {
			sc.OnEntry(action, name)
		}
	}
	for _, e := range state.OnEntryFrom {
		if action, err := reg.requiredAction(e.Action); collect(err) {
			sc.OnEntryFrom(e.Trigger, action, e.Action)
		}
	}
	for _, name := range state.OnExit {
		if action, err := reg.requiredAction(name); collect(err) {
			sc.OnExit(action, name)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) requiredAction(name string) (Action, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty action name", ErrUnknownReference)
	}
	return r.action(name)
}
