// Package match holds the argument matchers depmock ships for ExpectCalledWithMatches.
//
// Any gomega matcher is accepted there as well. The ones here fill gaps or read better
// next to gomega's dot import, so import this package by name:
//
//	import "github.com/toejough/depmock/match"
//
//	mocks.Mock("Ledger").Method("Reserve").ExpectCalledWithMatches(match.BeAny, BeNumerically(">", 0))
package match

import (
	"errors"
	"fmt"
	"reflect"
)

// Matcher is the method set ExpectCalledWithMatches looks for. gomega.GomegaMatcher
// satisfies it.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny accepts every argument, nil included.
//
//nolint:gochecknoglobals // stateless, shared by every expectation
var BeAny Matcher = wildcard{}

// Equal returns a matcher for values deeply equal to expected. It is what a literal
// argument to ExpectCalledWithMatches means; use it where a Matcher is required.
func Equal(expected any) Matcher {
	return deepEqual{expected: expected}
}

// Satisfy wraps a predicate as a matcher. A nil error from predicate accepts the
// argument; anything else rejects it and becomes part of the failure message. Arguments
// that are not a T are reported as an error rather than a mismatch.
//
//	op.ExpectCalledWithMatches(match.Satisfy(func(amount int) error {
//		if amount <= 0 {
//			return fmt.Errorf("bid must be positive, got %d", amount)
//		}
//		return nil
//	}))
//
// The matcher keeps no state between calls, so one value may be shared across mocks
// and goroutines as long as predicate itself is safe to call concurrently.
func Satisfy[T any](predicate func(T) error) Matcher {
	return predicateMatcher[T]{predicate: predicate}
}

// unexported variables.
var (
	errWrongType = errors.New("argument has the wrong type")
)

type deepEqual struct {
	expected any
}

func (m deepEqual) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v, got %#v", m.expected, actual)
}

func (m deepEqual) Match(actual any) (bool, error) {
	return reflect.DeepEqual(actual, m.expected), nil
}

type predicateMatcher[T any] struct {
	predicate func(T) error
}

// FailureMessage runs the predicate again so the reason belongs to actual and not to
// whichever call happened to match last.
func (m predicateMatcher[T]) FailureMessage(actual any) string {
	value, err := m.convert(actual)
	if err == nil {
		err = m.predicate(value)
	}

	if err == nil {
		return fmt.Sprintf("%v satisfies the predicate", actual)
	}

	return fmt.Sprintf("%v does not satisfy the predicate: %v", actual, err)
}

func (m predicateMatcher[T]) Match(actual any) (bool, error) {
	value, err := m.convert(actual)
	if err != nil {
		return false, err
	}

	return m.predicate(value) == nil, nil
}

func (predicateMatcher[T]) convert(actual any) (T, error) {
	value, ok := actual.(T)
	if !ok {
		return value, fmt.Errorf("%w: want %s, got %T", errWrongType, reflect.TypeFor[T](), actual)
	}

	return value, nil
}

type wildcard struct{}

func (wildcard) FailureMessage(any) string { return "" }

func (wildcard) Match(any) (bool, error) { return true, nil }
