package core

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Resolver discovers the dependencies declared on methods of a host type and builds one
// mock per distinct dependency. Configuration errors are sticky: the first one is kept
// and returned by Err and by every terminal call.
type Resolver struct {
	table    *TypeTable
	t        TestReporter
	host     *HostEntry
	methods  []string
	notation string
	extra    map[string][]string
	err      error
}

// Resolve starts a resolution for the host registered under hostName. Mocks report
// failures to t, which may be nil.
func (tt *TypeTable) Resolve(t TestReporter, hostName string) *Resolver {
	resolver := &Resolver{table: tt, t: t}

	host, err := tt.LookupHost(hostName)
	if err != nil {
		resolver.err = fmt.Errorf("%w: host: %w", ErrInvalidArgument, err)

		return resolver
	}

	resolver.host = host

	return resolver
}

// ResolveType starts a resolution for the host type typ. Types never registered as
// hosts resolve too; their methods simply declare nothing.
func (tt *TypeTable) ResolveType(t TestReporter, typ reflect.Type) *Resolver {
	resolver := &Resolver{table: tt, t: t}

	host, err := tt.hostFor(typ)
	if err != nil {
		resolver.err = fmt.Errorf("host: %w", err)

		return resolver
	}

	resolver.host = host

	return resolver
}

// DependencyNames returns the distinct dependency type names declared on the methods in
// scope, in first-declared order. Without ForMethods, the Constructor is scanned.
func (r *Resolver) DependencyNames() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}

	methods := r.methods
	if len(methods) == 0 {
		methods = []string{Constructor}
	}

	seen := make(map[string]struct{})

	var names []string

	for _, method := range methods {
		declared, err := ExtractDependencyNames(r.host, method, r.notation)
		if err != nil {
			return nil, err
		}

		for _, name := range declared {
			if _, dup := seen[name]; dup {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names, nil
}

// Err returns the first configuration error, if any.
func (r *Resolver) Err() error {
	return r.err
}

// ForMethods sets the methods whose declarations are scanned.
func (r *Resolver) ForMethods(names ...string) *Resolver {
	if r.err != nil {
		return r
	}

	if len(names) == 0 {
		r.err = fmt.Errorf("%w: at least one method name is required", ErrInvalidArgument)

		return r
	}

	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			r.err = fmt.Errorf("%w: method name %d is empty", ErrInvalidArgument, i)

			return r
		}
	}

	r.methods = slices.Clone(names)

	return r
}

// GetMocks resolves the dependencies and synthesizes a fresh mock for each of them.
// Any failure aborts the whole resolution; no partial record is returned.
func (r *Resolver) GetMocks() (*Mocks, error) {
	names, err := r.DependencyNames()
	if err != nil {
		return nil, err
	}

	mocks := newMocks()

	for _, name := range names {
		operations, err := r.table.PublicOperationNames(name)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}

		operations = append(operations, r.extra[name]...)

		mock, err := r.table.Synthesize(r.t, name, operations)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}

		mocks.add(name, mock)
	}

	Track(r.t, mocks.all()...)

	return mocks, nil
}

// GetMocksAsMapping is GetMocks returning the plain mapping view.
func (r *Resolver) GetMocksAsMapping() (map[string]*Mock, error) {
	mocks, err := r.GetMocks()
	if err != nil {
		return nil, err
	}

	return mocks.Map(), nil
}

// SetExtraOperations registers operations to add to the mocks of specific types, on top
// of what introspection finds.
func (r *Resolver) SetExtraOperations(extra map[string][]string) *Resolver {
	if r.err != nil {
		return r
	}

	for typeName, operations := range extra {
		if strings.TrimSpace(typeName) == "" {
			r.err = fmt.Errorf("%w: extra operations for an empty type name", ErrInvalidArgument)

			return r
		}

		if slices.Contains(operations, "") {
			r.err = fmt.Errorf("%w: empty extra operation name for %q", ErrInvalidArgument, typeName)

			return r
		}
	}

	r.extra = maps.Clone(extra)

	return r
}

// SetNotation sets the tag marking dependency declarations. An empty tag restores
// DefaultNotation.
func (r *Resolver) SetNotation(tag string) *Resolver {
	r.notation = strings.TrimSpace(tag)

	return r
}
