package core

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Mocks is the record of mocks produced by one resolution, keyed by the dependency type
// names exactly as declared, in first-declared order.
type Mocks struct {
	names  []string
	byName map[string]*Mock
}

// Get returns the mock for name.
func (ms *Mocks) Get(name string) (*Mock, bool) {
	mock, ok := ms.byName[name]

	return mock, ok
}

// Instance returns the typed double for name, or nil.
func (ms *Mocks) Instance(name string) any {
	mock, ok := ms.byName[name]
	if !ok {
		return nil
	}

	return mock.Instance()
}

// Into destructures the record into the exported fields of the struct target points to.
// A field binds to the mock named by its `depmock:"Name"` tag, or else by its field name
// (matching either the whole declared name or its last dotted segment). Fields of type
// *Mock receive the mock, other fields the typed double. Untagged fields without a mock
// are left alone, tagged ones are an error, and `depmock:"-"` fields are skipped.
func (ms *Mocks) Into(target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: Into needs a non-nil pointer to a struct, got %T", ErrInvalidArgument, target)
	}

	record := ptr.Elem()
	recordType := record.Type()

	for i := range recordType.NumField() {
		field := recordType.Field(i)
		if !field.IsExported() {
			continue
		}

		name, tagged := fieldKey(field)
		if name == "-" {
			continue
		}

		mock, ok := ms.lookupField(name)
		if !ok {
			if tagged {
				return fmt.Errorf("%w: no mock for %q (field %s)", ErrInvalidArgument, name, field.Name)
			}

			continue
		}

		err := assignMock(record.Field(i), mock)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}

	return nil
}

// Len returns the number of mocks.
func (ms *Mocks) Len() int {
	return len(ms.names)
}

// Map returns the mapping view of the record. The map is a copy; the mocks are shared.
func (ms *Mocks) Map() map[string]*Mock {
	return maps.Clone(ms.byName)
}

// Mock returns the mock for name, or nil.
func (ms *Mocks) Mock(name string) *Mock {
	return ms.byName[name]
}

// Names returns the dependency type names in first-declared order.
func (ms *Mocks) Names() []string {
	return slices.Clone(ms.names)
}

// Verify checks the expectations of every mock in the record.
func (ms *Mocks) Verify() error {
	errs := make([]error, 0, len(ms.names))

	for _, name := range ms.names {
		errs = append(errs, ms.byName[name].Verify())
	}

	return errors.Join(errs...)
}

func (ms *Mocks) add(name string, mock *Mock) {
	ms.names = append(ms.names, name)
	ms.byName[name] = mock
}

func (ms *Mocks) all() []*Mock {
	mocks := make([]*Mock, 0, len(ms.names))
	for _, name := range ms.names {
		mocks = append(mocks, ms.byName[name])
	}

	return mocks
}

func (ms *Mocks) lookupField(name string) (*Mock, bool) {
	if mock, ok := ms.byName[name]; ok {
		return mock, true
	}

	var found *Mock

	for _, declared := range ms.names {
		if declared[strings.LastIndex(declared, ".")+1:] != name {
			continue
		}

		if found != nil {
			return nil, false
		}

		found = ms.byName[declared]
	}

	return found, found != nil
}

func assignMock(dst reflect.Value, mock *Mock) error {
	if dst.Type() == mockType {
		dst.Set(reflect.ValueOf(mock))

		return nil
	}

	instance := reflect.ValueOf(mock.Instance())
	if !instance.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("%w: double %s is not assignable to %s", ErrInvalidArgument, instance.Type(), dst.Type())
	}

	dst.Set(instance)

	return nil
}

func fieldKey(field reflect.StructField) (string, bool) {
	if tag, ok := field.Tag.Lookup("depmock"); ok && tag != "" {
		return tag, true
	}

	return field.Name, false
}

func newMocks() *Mocks {
	return &Mocks{byName: make(map[string]*Mock)}
}
