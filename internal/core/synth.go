package core

import (
	"fmt"
	"reflect"
)

// Result returns values[index] as T, or the zero T when the value is missing or of
// another type. Typed doubles use it to convert injected return values.
func Result[T any](values []any, index int) T {
	var zero T

	if index < 0 || index >= len(values) {
		return zero
	}

	value, ok := values[index].(T)
	if !ok {
		return zero
	}

	return value
}

// Synthesize builds a mock of the named dependency type answering to exactly the given
// operations, and attaches the typed double from the type's factory. Nothing of the
// real type is constructed.
func (tt *TypeTable) Synthesize(t TestReporter, typeName string, operations []string) (*Mock, error) {
	entry, err := tt.LookupType(typeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	err = checkMockable(entry)
	if err != nil {
		return nil, err
	}

	mock := NewMock(t, typeName, operations)
	if entry.Factory == nil {
		return mock, nil
	}

	instance := entry.Factory(mock)
	if instance == nil {
		return nil, fmt.Errorf("%w: %s: factory returned nil", ErrSynthesis, entry.Name)
	}

	if entry.Type.Kind() == reflect.Interface && !reflect.TypeOf(instance).Implements(entry.Type) {
		return nil, fmt.Errorf("%w: %s: factory double %T does not implement it", ErrSynthesis, entry.Name, instance)
	}

	mock.instance = instance

	return mock, nil
}

// unexported variables.
var (
	//nolint:gochecknoglobals // reflect type constant
	mockType = reflect.TypeFor[*Mock]()
)

func checkMockable(entry *TypeEntry) error {
	//nolint:exhaustive // every other kind is rejected by default
	switch entry.Type.Kind() {
	case reflect.Interface:
		if entry.Factory == nil && !mockType.Implements(entry.Type) {
			return fmt.Errorf("%w: %s: no double registered and *Mock does not satisfy it", ErrSynthesis, entry.Name)
		}
	case reflect.Struct:
		if entry.Factory == nil {
			return fmt.Errorf("%w: %s: struct types need a registered contract double", ErrSynthesis, entry.Name)
		}
	default:
		return fmt.Errorf("%w: %s: %s types have no extension points", ErrSynthesis, entry.Name, entry.Type.Kind())
	}

	return nil
}
