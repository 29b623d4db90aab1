package core

import (
	"fmt"
	"reflect"
	"slices"
)

// DispatchOperation is the operation name of the Dispatcher capability.
const DispatchOperation = "Call"

// Dispatcher is the explicit form of a catch-all operation: types whose behavior is
// looked up by name at call time declare it instead of listing their operations.
type Dispatcher interface {
	Call(name string, args ...any) []any
}

// PublicOperationNames returns the sorted names of the exported operations of the named
// dependency type, including promoted and embedded ones.
func (tt *TypeTable) PublicOperationNames(typeName string) ([]string, error) {
	entry, err := tt.LookupType(typeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownType, err)
	}

	return tt.operationNames(entry.Type), nil
}

func (tt *TypeTable) operationNames(typ reflect.Type) []string {
	if names, ok := tt.operations.Get(typ); ok {
		return slices.Clone(names)
	}

	names := exportedMethodNames(typ)
	tt.operations.Add(typ, names)

	return slices.Clone(names)
}

func exportedMethodNames(typ reflect.Type) []string {
	set := methodSetOf(typ)
	names := make([]string, 0, set.NumMethod())

	for i := range set.NumMethod() {
		method := set.Method(i)
		if method.IsExported() {
			names = append(names, method.Name)
		}
	}

	slices.Sort(names)

	return names
}
