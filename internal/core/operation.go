package core

import (
	"fmt"
	"slices"
)

// Expectation is one configured behavior of an operation: which arguments it accepts,
// how many calls it requires and what it answers with.
type Expectation struct {
	op        *Operation
	validator func([]any) error // nil accepts any arguments
	min, max  int               // max < 0 means unbounded
	response  GenericResponse
	hits      int
}

// AtLeast requires n or more matching calls.
func (e *Expectation) AtLeast(n int) *Expectation {
	return e.setCount(n, -1)
}

// CallCount returns how many calls this expectation has answered.
func (e *Expectation) CallCount() int {
	e.op.mock.mu.Lock()
	defer e.op.mock.mu.Unlock()

	return e.hits
}

// InjectPanicValue makes matching calls panic with value.
func (e *Expectation) InjectPanicValue(value any) *Expectation {
	e.op.mock.mu.Lock()
	defer e.op.mock.mu.Unlock()

	e.response = GenericResponse{Type: responsePanic, PanicValue: value}

	return e
}

// InjectReturnValues makes matching calls return values, in result order.
func (e *Expectation) InjectReturnValues(values ...any) *Expectation {
	e.op.mock.mu.Lock()
	defer e.op.mock.mu.Unlock()

	e.response = GenericResponse{Type: responseReturn, ReturnValues: values}

	return e
}

// Never requires that no call matches.
func (e *Expectation) Never() *Expectation {
	return e.setCount(0, 0)
}

// Once requires exactly one matching call.
func (e *Expectation) Once() *Expectation {
	return e.setCount(1, 1)
}

// Times requires exactly n matching calls.
func (e *Expectation) Times(n int) *Expectation {
	return e.setCount(n, n)
}

func (e *Expectation) check() error {
	if e.hits >= e.min && (e.max < 0 || e.hits <= e.max) {
		return nil
	}

	switch {
	case e.max < 0:
		return fmt.Errorf("%w: expected at least %d calls, got %d", ErrUnmetExpectation, e.min, e.hits)
	case e.min == e.max:
		return fmt.Errorf("%w: expected exactly %d calls, got %d", ErrUnmetExpectation, e.min, e.hits)
	default:
		return fmt.Errorf("%w: expected %d to %d calls, got %d", ErrUnmetExpectation, e.min, e.max, e.hits)
	}
}

func (e *Expectation) setCount(minCalls, maxCalls int) *Expectation {
	if minCalls < 0 {
		e.op.mock.fail(fmt.Errorf("%w: negative call count %d for %s.%s",
			ErrInvalidArgument, minCalls, e.op.mock.typeName, e.op.name))

		return e
	}

	e.op.mock.mu.Lock()
	defer e.op.mock.mu.Unlock()

	e.min, e.max = minCalls, maxCalls

	return e
}

// Operation is one named operation of a mock. Expectations registered on it are
// consulted in registration order.
type Operation struct {
	mock         *Mock
	name         string
	expectations []*Expectation
	calls        []*GenericCall
}

// CallCount returns how many times the operation was invoked.
func (o *Operation) CallCount() int {
	o.mock.mu.Lock()
	defer o.mock.mu.Unlock()

	return len(o.calls)
}

// Calls returns the recorded invocations in arrival order.
func (o *Operation) Calls() []*GenericCall {
	o.mock.mu.Lock()
	defer o.mock.mu.Unlock()

	return slices.Clone(o.calls)
}

// ExpectCalled requires at least one call with any arguments.
func (o *Operation) ExpectCalled() *Expectation {
	return o.addExpectation(nil, 1)
}

// ExpectCalledWithExactly requires at least one call whose arguments are deeply equal to args.
func (o *Operation) ExpectCalledWithExactly(args ...any) *Expectation {
	return o.addExpectation(exactArgs(args), 1)
}

// ExpectCalledWithMatches requires at least one call whose arguments satisfy matchers,
// one per argument. Non-matcher values are compared with reflect.DeepEqual.
func (o *Operation) ExpectCalledWithMatches(matchers ...any) *Expectation {
	return o.addExpectation(matchingArgs(matchers), 1)
}

// InjectPanicValue stubs every call to panic with value, without requiring any call.
func (o *Operation) InjectPanicValue(value any) *Expectation {
	return o.addExpectation(nil, 0).InjectPanicValue(value)
}

// InjectReturnValues stubs every call to return values, without requiring any call.
func (o *Operation) InjectReturnValues(values ...any) *Expectation {
	return o.addExpectation(nil, 0).InjectReturnValues(values...)
}

// Name returns the operation name.
func (o *Operation) Name() string {
	return o.name
}

func (o *Operation) addExpectation(validator func([]any) error, minCalls int) *Expectation {
	expectation := &Expectation{
		op:        o,
		validator: validator,
		min:       minCalls,
		max:       -1,
		response:  GenericResponse{Type: responseReturn},
	}

	o.mock.mu.Lock()
	o.expectations = append(o.expectations, expectation)
	o.mock.mu.Unlock()

	return expectation
}

// respond records a call and picks the response. The first accepting expectation with
// call budget left wins; once every accepting expectation is spent, the last one keeps
// answering and its count check fails at verification. Must be called with mock.mu held.
func (o *Operation) respond(args []any) (GenericResponse, error) {
	call := &GenericCall{MethodName: o.name, Args: args}
	o.calls = append(o.calls, call)

	if len(o.expectations) == 0 {
		return GenericResponse{Type: responseReturn}, nil
	}

	var (
		spent   *Expectation
		lastErr error
	)

	for _, expectation := range o.expectations {
		if expectation.validator != nil {
			err := expectation.validator(args)
			if err != nil {
				lastErr = err

				continue
			}
		}

		if expectation.max < 0 || expectation.hits < expectation.max {
			expectation.hits++

			return expectation.response, nil
		}

		spent = expectation
	}

	if spent != nil {
		spent.hits++

		return spent.response, nil
	}

	return GenericResponse{}, fmt.Errorf("%w: %s: %w", ErrUnexpectedCall, call, lastErr)
}
