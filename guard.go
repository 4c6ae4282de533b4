package hfsm

// Args is the argument vector a trigger is fired with. The engine never inspects it;
// guards, selectors and actions read it by position.
type Args []any

// GuardFunc is a side-effect-free predicate over the trigger arguments.
type GuardFunc func(args Args) bool

// GuardCondition represents a single guard condition with its method description.
type GuardCondition struct {
	// Guard is the predicate; a nil Guard is always met.
	Guard GuardFunc

	// methodDescription contains information about the guard method.
	methodDescription InvocationInfo
}

// NewGuardCondition creates a new guard condition.
func NewGuardCondition(guard GuardFunc, description InvocationInfo) GuardCondition {
	return GuardCondition{
		Guard:             guard,
		methodDescription: description,
	}
}

// Description returns the description of the guard method.
func (g GuardCondition) Description() string {
	return g.methodDescription.Description()
}

// MethodDescription returns the full method description.
func (g GuardCondition) MethodDescription() InvocationInfo {
	return g.methodDescription
}

// IsMet returns true if the guard condition holds for args.
func (g GuardCondition) IsMet(args Args) bool {
	if g.Guard == nil {
		return true
	}
	return g.Guard(args)
}

// TransitionGuard contains a list of guard conditions that must all be met for a transition.
type TransitionGuard struct {
	Conditions []GuardCondition
}

// EmptyTransitionGuard is a transition guard with no conditions (always passes).
var EmptyTransitionGuard = TransitionGuard{Conditions: []GuardCondition{}}

// NewTransitionGuard creates a new transition guard from a guard function.
// An optional description replaces the function name in error messages.
func NewTransitionGuard(guard GuardFunc, description string) TransitionGuard {
	if guard == nil {
		return EmptyTransitionGuard
	}
	return TransitionGuard{
		Conditions: []GuardCondition{
			NewGuardCondition(guard, CreateInvocationInfo(guard, description)),
		},
	}
}

// NewTransitionGuardAll creates a transition guard requiring every guard to hold.
func NewTransitionGuardAll(guards ...GuardFunc) TransitionGuard {
	conditions := make([]GuardCondition, 0, len(guards))
	for _, g := range guards {
		if g == nil {
			continue
		}
		conditions = append(conditions, NewGuardCondition(g, CreateInvocationInfo(g, "")))
	}
	return TransitionGuard{Conditions: conditions}
}

// GuardConditionsMet returns true if all guard conditions are met.
// Every condition is evaluated, even after one fails.
func (tg TransitionGuard) GuardConditionsMet(args Args) bool {
	met := true
	for _, c := range tg.Conditions {
		if !c.IsMet(args) {
			met = false
		}
	}
	return met
}

// UnmetGuardConditions returns the descriptions of all guard conditions that are not met.
func (tg TransitionGuard) UnmetGuardConditions(args Args) []string {
	var unmet []string
	for _, c := range tg.Conditions {
		if !c.IsMet(args) {
			unmet = append(unmet, c.Description())
		}
	}
	return unmet
}

// IsEmpty returns true if the transition guard has no conditions.
func (tg TransitionGuard) IsEmpty() bool {
	return len(tg.Conditions) == 0
}

// InvertGuard returns a guard that holds exactly when guard does not.
// A nil guard is treated as always true, so its inverse is always false.
func InvertGuard(guard GuardFunc) GuardFunc {
	return func(args Args) bool {
		if guard == nil {
			return false
		}
		return !guard(args)
	}
}

// NoArgs adapts a parameterless condition to a GuardFunc.
func NoArgs(cond func() bool) GuardFunc {
	if cond == nil {
		return nil
	}
	return func(Args) bool { return cond() }
}

// Guard1 adapts a typed single-argument guard. The guard is reported unmet when
// the first argument is missing or of the wrong type.
func Guard1[A any](guard func(A) bool) GuardFunc {
	return func(args Args) bool {
		a, err := ArgAt[A](args, 0)
		if err != nil {
			return false
		}
		return guard(a)
	}
}

// Guard2 adapts a typed two-argument guard.
func Guard2[A, B any](guard func(A, B) bool) GuardFunc {
	return func(args Args) bool {
		a, err := ArgAt[A](args, 0)
		if err != nil {
			return false
		}
		b, err := ArgAt[B](args, 1)
		if err != nil {
			return false
		}
		return guard(a, b)
	}
}

// Guard3 adapts a typed three-argument guard.
func Guard3[A, B, C any](guard func(A, B, C) bool) GuardFunc {
	return func(args Args) bool {
		a, err := ArgAt[A](args, 0)
		if err != nil {
			return false
		}
		b, err := ArgAt[B](args, 1)
		if err != nil {
			return false
		}
		c, err := ArgAt[C](args, 2)
		if err != nil {
			return false
		}
		return guard(a, b, c)
	}
}
