package goseq

import "fmt"

// ConfigError reports a composition that was assembled incorrectly: flags
// supplied to a flags-free program, flags missing from a program that
// requires them, or a bootstrap form that does not match the program's init
// variant. These are programmer errors, detected at wiring time before any
// effect is produced, and are raised as panics.
type ConfigError struct {
	// Op is the operation that detected the mismatch, e.g. "Init.Resolve"
	// or "ToProgramWithFlags".
	Op string
	// Reason describes the mismatch.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("goseq: invalid configuration in %s: %s", e.Op, e.Reason)
}

// InternalError reports a broken invariant in the composition machinery
// itself: a message arriving in a state that cannot legitimately produce it.
// These mean a state machine's transition table was violated and are raised
// as panics, never swallowed.
type InternalError struct {
	// State names the state the machine was in when the impossible message
	// arrived, e.g. "Writing".
	State string
	// Message describes the violation.
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("goseq: internal consistency violation in state %s: %s", e.State, e.Message)
}

// invalidConfig panics with a ConfigError.
func invalidConfig(op, format string, args ...interface{}) {
	panic(&ConfigError{Op: op, Reason: fmt.Sprintf(format, args...)})
}

// brokenInvariant panics with an InternalError.
func brokenInvariant(state, format string, args ...interface{}) {
	panic(&InternalError{State: state, Message: fmt.Sprintf(format, args...)})
}
