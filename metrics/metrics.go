// Package metrics exports Prometheus counters for hfsm state machines.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/atlekbai/hfsm"
)

// Error kinds used for the kind label of hfsm_fire_errors_total.
const (
	KindInvalidTrigger      = "invalid_trigger"
	KindGuardNotSatisfied   = "guard_not_satisfied"
	KindAmbiguous           = "ambiguous"
	KindParameterConversion = "parameter_conversion"
	KindUnknownState        = "unknown_state"
	KindConfiguration       = "configuration"
	KindAction              = "action"
)

// Collector holds the counters shared by every machine attached to it.
type Collector struct {
	transitionsTotal *prometheus.CounterVec
	fireErrorsTotal  *prometheus.CounterVec
	ignoredTotal     *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hfsm_transitions_total",
			Help: "Total number of committed state transitions by machine, source, destination and trigger",
		}, []string{"machine", "source", "destination", "trigger"}),
		fireErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hfsm_fire_errors_total",
			Help: "Total number of failed fires by machine and error kind",
		}, []string{"machine", "kind"}),
		ignoredTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hfsm_ignored_triggers_total",
			Help: "Total number of ignored triggers by machine, state and trigger",
		}, []string{"machine", "state", "trigger"}),
	}
}

// Attach records every fire of sm. The machine label is sm.Name().
// Internal transitions are counted as neither transitions nor ignores.
func Attach[TState, TTrigger comparable](c *Collector, sm *hfsm.StateMachine[TState, TTrigger]) {
	machine := sm.Name()
	sm.OnFired(func(r hfsm.FireResult[TState, TTrigger]) {
		switch r.Outcome {
		case hfsm.OutcomeTransitioned:
			c.transitionsTotal.WithLabelValues(machine, label(r.Source), label(r.Destination), label(r.Trigger)).Inc()
		case hfsm.OutcomeIgnored:
			c.ignoredTotal.WithLabelValues(machine, label(r.Source), label(r.Trigger)).Inc()
		case hfsm.OutcomeFailed:
			c.fireErrorsTotal.WithLabelValues(machine, Classify(r.Err)).Inc()
		}
	})
}

// Classify maps a Fire error to its kind label. Errors the engine did not produce came from
// an action, guard or selector and are reported as KindAction.
func Classify(err error) string {
	switch {
	case errors.Is(err, hfsm.ErrInvalidTrigger):
		return KindInvalidTrigger
	case errors.Is(err, hfsm.ErrGuardNotSatisfied):
		return KindGuardNotSatisfied
	case errors.Is(err, hfsm.ErrAmbiguousTransition):
		return KindAmbiguous
	case errors.Is(err, hfsm.ErrParameterConversion):
		return KindParameterConversion
	case errors.Is(err, hfsm.ErrUnknownState):
		return KindUnknownState
	case errors.Is(err, hfsm.ErrConfiguration):
		return KindConfiguration
	default:
		return KindAction
	}
}

func label(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
