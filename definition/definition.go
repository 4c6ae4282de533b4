// Package definition loads state machine configurations from YAML and builds them into
// hfsm.StateMachine values with string states and triggers.
//
// Guards, selectors and actions are code, so a definition refers to them by name and a
// Registry supplies the implementations. A guard name prefixed with "!" is inverted.
package definition

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition is matched by every error Validate returns.
var ErrInvalidDefinition = errors.New("invalid definition")

// Definition is the YAML document describing one machine.
type Definition struct {
	Name    string `yaml:"name"`
	Initial string `yaml:"initial"`

	// Triggers declares argument signatures, e.g. {"setVolume": ["int"]}.
	Triggers map[string][]string `yaml:"triggers,omitempty"`

	States map[string]StateDef `yaml:"states"`
}

// StateDef configures one state.
type StateDef struct {
	SubstateOf string `yaml:"substateOf,omitempty"`
	Initial    string `yaml:"initial,omitempty"`

	Permit   []TransitionDef `yaml:"permit,omitempty"`
	Reentry  []TransitionDef `yaml:"reentry,omitempty"`
	Ignore   []TransitionDef `yaml:"ignore,omitempty"`
	Dynamic  []TransitionDef `yaml:"dynamic,omitempty"`
	Internal []TransitionDef `yaml:"internal,omitempty"`

	OnEntry     []string       `yaml:"onEntry,omitempty"`
	OnEntryFrom []EntryFromDef `yaml:"onEntryFrom,omitempty"`
	OnExit      []string       `yaml:"onExit,omitempty"`
}

// TransitionDef is one trigger behaviour. Which fields apply depends on the list it is in:
// To for permit, Selector for dynamic, Action for internal.
type TransitionDef struct {
	Trigger  string `yaml:"trigger"`
	To       string `yaml:"to,omitempty"`
	Guard    string `yaml:"guard,omitempty"`
	Selector string `yaml:"selector,omitempty"`
	Action   string `yaml:"action,omitempty"`
}

// EntryFromDef is an entry action bound to one trigger.
type EntryFromDef struct {
	Trigger string `yaml:"trigger"`
	Action  string `yaml:"action"`
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load definition %s: %w", path, err)
	}
	return def, nil
}

// Marshal encodes the definition back to YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// StateNames returns the defined states in sorted order.
func (d *Definition) StateNames() []string {
	names := make([]string, 0, len(d.States))
	for name := range d.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports every structural problem in the definition: undefined states, identity
// permits, superstate cycles, initial transitions outside the state and unknown parameter types.
// References to guards, selectors and actions are checked by Build.
func (d *Definition) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidDefinition}, args...)...))
	}

	if len(d.States) == 0 {
		invalid("no states defined")
	}
	if d.Initial == "" {
		invalid("initial state not set")
	} else if _, ok := d.States[d.Initial]; !ok {
		invalid("initial state %q not defined", d.Initial)
	}

	triggers := make([]string, 0, len(d.Triggers))
	for trigger := range d.Triggers {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)
	for _, trigger := range triggers {
		for i, typeName := range d.Triggers[trigger] {
			if _, ok := parameterTypes[typeName]; !ok {
				invalid("trigger %q parameter %d: unknown type %q", trigger, i, typeName)
			}
		}
	}

	defined := func(name string) bool {
		_, ok := d.States[name]
		return ok
	}

	for _, name := range d.StateNames() {
		state := d.States[name]

		if state.SubstateOf != "" && !defined(state.SubstateOf) {
			invalid("state %q: superstate %q not defined", name, state.SubstateOf)
		}
		for _, t := range state.Permit {
			switch {
			case t.Trigger == "":
				invalid("state %q: permit without trigger", name)
			case t.To == "":
				invalid("state %q: permit %q has no destination", name, t.Trigger)
			case t.To == name:
				invalid("state %q: permit %q targets its own state; use reentry or ignore", name, t.Trigger)
			case !defined(t.To):
				invalid("state %q: permit %q targets undefined state %q", name, t.Trigger, t.To)
			}
		}
		for _, t := range state.Dynamic {
			if t.Trigger == "" {
				invalid("state %q: dynamic transition without trigger", name)
			}
			if t.Selector == "" {
				invalid("state %q: dynamic %q has no selector", name, t.Trigger)
			}
		}
		for _, list := range [][]TransitionDef{state.Reentry, state.Ignore, state.Internal} {
			for _, t := range list {
				if t.Trigger == "" {
					invalid("state %q: behaviour without trigger", name)
				}
			}
		}
		for _, e := range state.OnEntryFrom {
			if e.Trigger == "" || e.Action == "" {
				invalid("state %q: onEntryFrom needs both trigger and action", name)
			}
		}
	}

	errs = append(errs, d.validateHierarchy()...)
	return errors.Join(errs...)
}

// validateHierarchy checks for superstate cycles and initial targets outside their state.
func (d *Definition) validateHierarchy() []error {
	var errs []error
	cyclic := make(map[string]bool)

	for _, name := range d.StateNames() {
		seen := map[string]bool{name: true}
		for s := d.States[name].SubstateOf; s != ""; s = d.States[s].SubstateOf {
			if seen[s] {
				cyclic[name] = true
				errs = append(errs, fmt.Errorf("%w: state %q: superstate cycle through %q", ErrInvalidDefinition, name, s))
				break
			}
			seen[s] = true
		}
	}

	for _, name := range d.StateNames() {
		target := d.States[name].Initial
		if target == "" {
			continue
		}
		if cyclic[target] || !d.isDescendant(target, name) {
			errs = append(errs, fmt.Errorf("%w: state %q: initial %q is not a substate", ErrInvalidDefinition, name, target))
		}
	}
	return errs
}

func (d *Definition) isDescendant(state, ancestor string) bool {
	seen := make(map[string]bool)
	for s := d.States[state].SubstateOf; s != "" && !seen[s]; s = d.States[s].SubstateOf {
		if s == ancestor {
			return true
		}
		seen[s] = true
	}
	return false
}
