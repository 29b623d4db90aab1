package core

import "errors"

// Exported variables.
var (
	// ErrInvalidArgument is returned for malformed method names, notations or overrides.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidClass is returned when a host or dependency type name does not resolve.
	ErrInvalidClass = errors.New("invalid class")
	// ErrSynthesis is returned when a dependency type cannot be turned into a mock.
	ErrSynthesis = errors.New("cannot synthesize mock")
	// ErrUnexpectedCall is reported when a mock receives a call no expectation accepts.
	ErrUnexpectedCall = errors.New("unexpected call")
	// ErrUnknownMethod is returned when a named method is absent from the host type.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrUnknownOperation is reported when a mock is asked for an operation it does not answer to.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrUnknownType is returned by the introspector when a type name cannot be resolved.
	ErrUnknownType = errors.New("unknown type")
	// ErrUnmetExpectation is returned by Verify when a count expectation was not satisfied.
	ErrUnmetExpectation = errors.New("unmet expectation")
)
