package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/hfsm"
)

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counterVec.WithLabelValues(labels...).Write(metric))
	return metric.GetCounter().GetValue()
}

func newDoor(t *testing.T, c *Collector) *hfsm.StateMachine[string, string] {
	t.Helper()
	sm := hfsm.NewStateMachine[string, string]("open", hfsm.WithName("door"))
	sm.Configure("open").
		Permit("close", "closed").
		Ignore("open")
	sm.Configure("closed").
		Permit("open", "open").
		OnExit(func(_ context.Context, tr hfsm.Transition[string, string]) error {
			if len(tr.Parameters) > 0 && tr.Parameters[0] == "jammed" {
				return errors.New("door is jammed")
			}
			return nil
		})
	Attach(c, sm)
	return sm
}

func TestAttachCountsOutcomes(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	sm := newDoor(t, c)

	require.NoError(t, sm.Fire("open"))
	require.NoError(t, sm.Fire("close"))
	require.Error(t, sm.Fire("open", "jammed"))
	require.Error(t, sm.Fire("close"))
	require.NoError(t, sm.Fire("open"))

	assert.Equal(t, 1.0, getCounterVecValue(t, c.transitionsTotal, "door", "open", "closed", "close"))
	assert.Equal(t, 1.0, getCounterVecValue(t, c.transitionsTotal, "door", "closed", "open", "open"))
	assert.Equal(t, 1.0, getCounterVecValue(t, c.ignoredTotal, "door", "open", "open"))
	assert.Equal(t, 1.0, getCounterVecValue(t, c.fireErrorsTotal, "door", KindAction))
	assert.Equal(t, 1.0, getCounterVecValue(t, c.fireErrorsTotal, "door", KindInvalidTrigger))
}

func TestNewCollectorRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	sm := newDoor(t, c)
	require.NoError(t, sm.Fire("close"))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["hfsm_transitions_total"])
	assert.Panics(t, func() { NewCollector(reg) }, "registering twice on one registry should panic")
}

type phase int

func (p phase) String() string { return fmt.Sprintf("phase-%d", int(p)) }

func TestLabelsUseStringer(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	sm := hfsm.NewStateMachine[phase, int](phase(1), hfsm.WithName("phases"))
	sm.Configure(phase(1)).Permit(7, phase(2))
	Attach(c, sm)

	require.NoError(t, sm.Fire(7))
	assert.Equal(t, 1.0, getCounterVecValue(t, c.transitionsTotal, "phases", "phase-1", "phase-2", "7"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&hfsm.InvalidTransitionError{}, KindInvalidTrigger},
		{&hfsm.GuardNotSatisfiedError{}, KindGuardNotSatisfied},
		{&hfsm.AmbiguousTransitionError{}, KindAmbiguous},
		{&hfsm.ParameterConversionError{}, KindParameterConversion},
		{&hfsm.UnknownStateError{}, KindUnknownState},
		{fmt.Errorf("build: %w", &hfsm.ConfigurationError{}), KindConfiguration},
		{errors.New("boom"), KindAction},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%T", tt.err)
	}
}
