package hfsm

import (
	"fmt"
	"reflect"
)

// TriggerWithParameters associates a declared argument signature with an underlying trigger value.
// Once registered on a machine, every Fire of the trigger is checked against it before any guard runs.
type TriggerWithParameters[TTrigger comparable] struct {
	underlyingTrigger TTrigger
	argumentTypes     []reflect.Type
}

// NewTriggerWithParameters creates a new configured trigger.
func NewTriggerWithParameters[TTrigger comparable](underlyingTrigger TTrigger, argumentTypes ...reflect.Type) *TriggerWithParameters[TTrigger] {
	return &TriggerWithParameters[TTrigger]{
		underlyingTrigger: underlyingTrigger,
		argumentTypes:     argumentTypes,
	}
}

// ArgumentTypes returns the argument types expected by this trigger.
func (t *TriggerWithParameters[TTrigger]) ArgumentTypes() []reflect.Type {
	return t.argumentTypes
}

// Trigger returns the underlying trigger value.
func (t *TriggerWithParameters[TTrigger]) Trigger() TTrigger {
	return t.underlyingTrigger
}

// ValidateParameters ensures that the supplied arguments match the declared signature:
// same arity, and every non-nil argument assignable to its declared type.
func (t *TriggerWithParameters[TTrigger]) ValidateParameters(args Args) error {
	if len(args) != len(t.argumentTypes) {
		return &ParameterConversionError{
			Trigger: t.underlyingTrigger,
			Index:   -1,
			Message: fmt.Sprintf("expected %d parameters but got %d", len(t.argumentTypes), len(args)),
		}
	}

	for i, expectedType := range t.argumentTypes {
		arg := args[i]
		if arg == nil {
			if !nillable(expectedType) {
				return &ParameterConversionError{
					Trigger: t.underlyingTrigger,
					Index:   i,
					Message: fmt.Sprintf("argument at position %d is nil but expected type %v", i, expectedType),
				}
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if !argType.AssignableTo(expectedType) {
			return &ParameterConversionError{
				Trigger: t.underlyingTrigger,
				Index:   i,
				Message: fmt.Sprintf("argument at position %d is of type %v but expected type %v", i, argType, expectedType),
			}
		}
	}

	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// TypeOf returns the reflect.Type of A, including interface types.
func TypeOf[A any]() reflect.Type {
	return reflect.TypeOf((*A)(nil)).Elem()
}

// NewTriggerWithParameters1 creates a configured trigger with one argument.
func NewTriggerWithParameters1[TTrigger comparable, TArg0 any](underlyingTrigger TTrigger) *TriggerWithParameters[TTrigger] {
	return NewTriggerWithParameters(underlyingTrigger, TypeOf[TArg0]())
}

// NewTriggerWithParameters2 creates a configured trigger with two arguments.
func NewTriggerWithParameters2[TTrigger comparable, TArg0, TArg1 any](underlyingTrigger TTrigger) *TriggerWithParameters[TTrigger] {
	return NewTriggerWithParameters(underlyingTrigger, TypeOf[TArg0](), TypeOf[TArg1]())
}

// NewTriggerWithParameters3 creates a configured trigger with three arguments.
func NewTriggerWithParameters3[TTrigger comparable, TArg0, TArg1, TArg2 any](underlyingTrigger TTrigger) *TriggerWithParameters[TTrigger] {
	return NewTriggerWithParameters(underlyingTrigger, TypeOf[TArg0](), TypeOf[TArg1](), TypeOf[TArg2]())
}

// ArgAt returns args[i] converted to A.
func ArgAt[A any](args Args, i int) (A, error) {
	var zero A
	if i < 0 || i >= len(args) {
		return zero, &ParameterConversionError{
			Index:   i,
			Message: fmt.Sprintf("argument at position %d is missing (got %d arguments)", i, len(args)),
		}
	}
	if args[i] == nil {
		if nillable(TypeOf[A]()) {
			return zero, nil
		}
		return zero, &ParameterConversionError{
			Index:   i,
			Message: fmt.Sprintf("argument at position %d is nil but expected type %v", i, TypeOf[A]()),
		}
	}
	v, ok := args[i].(A)
	if !ok {
		return zero, &ParameterConversionError{
			Index:   i,
			Message: fmt.Sprintf("argument at position %d is of type %T but expected type %v", i, args[i], TypeOf[A]()),
		}
	}
	return v, nil
}

// Selector1 adapts a typed single-argument destination selector.
func Selector1[TState any, A any](selector func(A) TState) StateSelector[TState] {
	return func(args Args) (TState, error) {
		a, err := ArgAt[A](args, 0)
		if err != nil {
			var zero TState
			return zero, err
		}
		return selector(a), nil
	}
}

// Selector2 adapts a typed two-argument destination selector.
func Selector2[TState any, A, B any](selector func(A, B) TState) StateSelector[TState] {
	return func(args Args) (TState, error) {
		var zero TState
		a, err := ArgAt[A](args, 0)
		if err != nil {
			return zero, err
		}
		b, err := ArgAt[B](args, 1)
		if err != nil {
			return zero, err
		}
		return selector(a, b), nil
	}
}
