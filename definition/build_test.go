package definition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/hfsm"
)

type phoneRig struct {
	lineFree bool
	volume   int
	calls    []string
}

func (p *phoneRig) registry() *Registry {
	record := func(name string) Action {
		return func(context.Context, hfsm.Transition[string, string]) error {
			p.calls = append(p.calls, name)
			return nil
		}
	}
	return NewRegistry().
		Guard("lineFree", hfsm.NoArgs(func() bool { return p.lineFree })).
		Action("startTimer", record("startTimer")).
		Action("stopTimer", record("stopTimer")).
		Action("setVolume", func(_ context.Context, tr hfsm.Transition[string, string]) error {
			v, err := hfsm.ArgAt[int](tr.Parameters, 0)
			if err != nil {
				return err
			}
			p.volume = v
			return nil
		})
}

func buildPhone(t *testing.T, rig *phoneRig) *hfsm.StateMachine[string, string] {
	t.Helper()
	def, err := Parse([]byte(phoneYAML))
	require.NoError(t, err)
	sm, err := Build(def, rig.registry())
	require.NoError(t, err)
	return sm
}

func TestBuildPhone(t *testing.T) {
	rig := &phoneRig{lineFree: true}
	sm := buildPhone(t, rig)

	assert.Equal(t, "phone", sm.Name())
	assert.Equal(t, "OffHook", sm.State())

	require.NoError(t, sm.Fire("CallDialed"))
	require.NoError(t, sm.Fire("CallConnected"))
	assert.Equal(t, "Talking", sm.State(), "initial transition should descend into Talking")
	assert.True(t, sm.IsInState("Connected"))
	assert.Equal(t, []string{"startTimer"}, rig.calls)

	require.NoError(t, sm.Fire("SetVolume", 7))
	assert.Equal(t, 7, rig.volume)
	assert.ErrorIs(t, sm.Fire("SetVolume", "loud"), hfsm.ErrParameterConversion)

	require.NoError(t, sm.Fire("Hold"))
	assert.Equal(t, "OnHold", sm.State())
	assert.Equal(t, []string{"startTimer"}, rig.calls, "moving between substates keeps Connected entered")

	require.NoError(t, sm.Fire("HungUp"))
	assert.Equal(t, "OffHook", sm.State())
	assert.Equal(t, []string{"startTimer", "stopTimer"}, rig.calls)
}

func TestBuildInvertedGuard(t *testing.T) {
	rig := &phoneRig{lineFree: false}
	sm := buildPhone(t, rig)

	require.NoError(t, sm.Fire("CallDialed"))
	require.NoError(t, sm.Fire("CallConnected"))
	assert.Equal(t, "OffHook", sm.State())
}

func TestBuildGuardNamesAppearInErrors(t *testing.T) {
	def, err := Parse([]byte(`
initial: A
states:
  A:
    permit:
      - trigger: go
        to: B
        guard: ready
  B: {}
`))
	require.NoError(t, err)

	sm, err := Build(def, NewRegistry().Guard("ready", func(hfsm.Args) bool { return false }))
	require.NoError(t, err)

	err = sm.Fire("go")
	var guardErr *hfsm.GuardNotSatisfiedError
	require.ErrorAs(t, err, &guardErr)
	assert.Equal(t, []string{"ready"}, guardErr.UnmetGuards)
}

func TestBuildDynamic(t *testing.T) {
	def, err := Parse([]byte(`
initial: Router
states:
  Router:
    dynamic:
      - trigger: route
        selector: byName
  Left: {}
  Right: {}
`))
	require.NoError(t, err)

	reg := NewRegistry().Selector("byName", hfsm.Selector1(func(s string) string { return s }))
	sm, err := Build(def, reg, hfsm.WithDestinationValidation(true))
	require.NoError(t, err)

	require.ErrorIs(t, sm.Fire("route", "Up"), hfsm.ErrUnknownState)
	require.NoError(t, sm.Fire("route", "Left"))
	assert.Equal(t, "Left", sm.State())
}

func TestBuildUnknownReferences(t *testing.T) {
	def, err := Parse([]byte(phoneYAML))
	require.NoError(t, err)

	_, err = Build(def, NewRegistry())
	require.ErrorIs(t, err, ErrUnknownReference)
	for _, name := range []string{`guard "lineFree"`, `action "startTimer"`, `action "setVolume"`} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestBuildRejectsInvalidDefinition(t *testing.T) {
	_, err := Build(&Definition{Initial: "A"}, NewRegistry())
	require.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestApplyToExternalStorage(t *testing.T) {
	def, err := Parse([]byte(`
initial: Open
states:
  Open:
    permit:
      - trigger: close
        to: Closed
  Closed:
    ignore:
      - trigger: close
`))
	require.NoError(t, err)

	stored := "Open"
	sm := hfsm.NewStateMachineWithExternalStorage[string, string](
		func() string { return stored },
		func(s string) { stored = s },
	)
	require.NoError(t, Apply(def, nil, sm))
	require.NoError(t, sm.Fire("close"))
	assert.Equal(t, "Closed", stored)
	require.NoError(t, sm.Fire("close"))
	assert.Equal(t, "Closed", stored)
}

func TestApplyReportsConfigurationPanics(t *testing.T) {
	def, err := Parse([]byte(`
initial: A
states:
  A: {}
  B:
    substateOf: A
  C: {}
`))
	require.NoError(t, err)

	sm := hfsm.NewStateMachine[string, string]("A")
	sm.Configure("B").SubstateOf("C")

	err = Apply(def, nil, sm)
	require.ErrorIs(t, err, hfsm.ErrConfiguration)
}
