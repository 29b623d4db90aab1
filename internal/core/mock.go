package core

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Mock is the record-and-stub engine behind every synthesized double. It answers to a
// fixed set of operation names; typed doubles forward their methods to Invoke.
type Mock struct {
	t        TestReporter
	typeName string
	instance any

	mu    sync.Mutex
	names []string
	ops   map[string]*Operation
}

// NewMock creates a mock of typeName answering to operations. Repeated names are
// registered once. A nil reporter makes failures panic.
func NewMock(t TestReporter, typeName string, operations []string) *Mock {
	mock := &Mock{
		t:        t,
		typeName: typeName,
		ops:      make(map[string]*Operation, len(operations)),
	}

	for _, name := range operations {
		if _, seen := mock.ops[name]; seen {
			continue
		}

		mock.names = append(mock.names, name)
		mock.ops[name] = &Operation{mock: mock, name: name}
	}

	mock.instance = mock

	return mock
}

// Answers reports whether the mock has an operation called name.
func (m *Mock) Answers(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.ops[name]

	return ok
}

// Call implements Dispatcher. Names the mock answers to are invoked directly; anything
// else goes to the Call operation with the name as first argument.
func (m *Mock) Call(name string, args ...any) []any {
	if m.Answers(name) {
		return m.Invoke(name, args...)
	}

	if m.Answers(DispatchOperation) {
		return m.Invoke(DispatchOperation, append([]any{name}, args...)...)
	}

	m.fail(fmt.Errorf("%w: %s has no operation %q and no %s fallback",
		ErrUnknownOperation, m.typeName, name, DispatchOperation))

	return nil
}

// Instance returns the typed double for the mocked type; without a registered factory
// it is the mock itself.
func (m *Mock) Instance() any {
	return m.instance
}

// Invoke records a call to the named operation and returns the injected values, or
// panics with the injected panic value.
func (m *Mock) Invoke(name string, args ...any) []any {
	m.mu.Lock()

	op, ok := m.ops[name]
	if !ok {
		m.mu.Unlock()
		m.fail(fmt.Errorf("%w: %s has no operation %q", ErrUnknownOperation, m.typeName, name))

		return nil
	}

	response, err := op.respond(args)
	m.mu.Unlock()

	if err != nil {
		m.fail(fmt.Errorf("%s: %w", m.typeName, err))

		return nil
	}

	if response.Type == responsePanic {
		panic(response.PanicValue)
	}

	return slices.Clone(response.ReturnValues)
}

// Method returns the operation called name, for configuring expectations.
func (m *Mock) Method(name string) *Operation {
	m.mu.Lock()
	op, ok := m.ops[name]
	m.mu.Unlock()

	if !ok {
		m.fail(fmt.Errorf("%w: %s has no operation %q", ErrUnknownOperation, m.typeName, name))

		return &Operation{mock: m, name: name}
	}

	return op
}

// Operations returns the operation names in registration order.
func (m *Mock) Operations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.names)
}

// TypeName returns the dependency type name the mock was synthesized for.
func (m *Mock) TypeName() string {
	return m.typeName
}

// Verify checks the call counts of every expectation.
func (m *Mock) Verify() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error

	for _, name := range m.names {
		for i, expectation := range m.ops[name].expectations {
			err := expectation.check()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s expectation %d: %w", m.typeName, name, i+1, err))
			}
		}
	}

	return errors.Join(errs...)
}

func (m *Mock) fail(err error) {
	if m.t == nil {
		panic(err)
	}

	m.t.Helper()
	m.t.Fatalf("%v", err)
}
