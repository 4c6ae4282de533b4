package hfsm

import "go.uber.org/zap"

type machineOptions struct {
	logger               *zap.Logger
	name                 string
	validateDestinations bool
}

func defaultMachineOptions() machineOptions {
	return machineOptions{
		logger: zap.NewNop(),
	}
}

// Option configures a StateMachine.
type Option func(*machineOptions)

// WithLogger sets the logger used for debug traces of successful and ignored fires.
// Fire errors are returned to the caller, never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(o *machineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName names the machine in log fields and metrics labels.
func WithName(name string) Option {
	return func(o *machineOptions) {
		o.name = name
	}
}

// WithDestinationValidation makes dynamic transitions fail with ErrUnknownState when the
// selected destination was never configured. Disabled by default.
func WithDestinationValidation(enabled bool) Option {
	return func(o *machineOptions) {
		o.validateDestinations = enabled
	}
}
