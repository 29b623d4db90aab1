package core

import (
	"fmt"
	"reflect"
)

// Matcher is satisfied by gomega matchers and by the matchers in package match.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	matcher, ok := expected.(Matcher)
	if !ok {
		if reflect.DeepEqual(actual, expected) {
			return true, ""
		}

		return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
	}

	success, err := matcher.Match(actual)
	if err != nil {
		return false, err.Error()
	}

	if !success {
		return false, matcher.FailureMessage(actual)
	}

	return true, ""
}

// exactArgs builds a validator accepting exactly the given argument values.
func exactArgs(expected []any) func([]any) error {
	return func(actual []any) error {
		if len(actual) != len(expected) {
			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
		}

		for i, want := range expected {
			if !reflect.DeepEqual(actual[i], want) {
				//nolint:err113 // validation error with dynamic context
				return fmt.Errorf("arg %d: expected %#v, got %#v", i, want, actual[i])
			}
		}

		return nil
	}
}

// matchingArgs builds a validator applying one matcher (or literal value) per argument.
func matchingArgs(matchers []any) func([]any) error {
	return func(actual []any) error {
		if len(actual) != len(matchers) {
			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("expected %d args, got %d", len(matchers), len(actual))
		}

		for i, m := range matchers {
			ok, failureMsg := MatchValue(actual[i], m)
			if ok {
				continue
			}

			if failureMsg == "" {
				failureMsg = fmt.Sprintf("matcher failed for value %#v", actual[i])
			}

			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("arg %d: %s", i, failureMsg)
		}

		return nil
	}
}
