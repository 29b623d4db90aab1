// Package depmock resolves the collaborators a method declares in its documentation and
// synthesizes one configurable test double per collaborator.
//
// Declarations live in doc comments:
//
//	// PlaceBid records a bid on a lot.
//	//
//	// @depends Ledger, Notifier
//	func (a *Auctioneer) PlaceBid(...) error
//
// Go keeps no doc comments at run time, so depmockgen copies them, together with a typed
// double per collaborator, into a generated file that registers everything with
// DefaultTable. Tests then ask for the doubles by host and method:
//
//	mocks, err := depmock.For[Auctioneer](t).ForMethods("PlaceBid").GetMocks()
//
// This is the public API entry point. Implementation lives in internal/core.
package depmock

import (
	"fmt"
	"reflect"

	"github.com/toejough/depmock/internal/core"
)

// Constructor names a host's constructor (its New<Host> function) in ForMethods and Docs.
const Constructor = core.Constructor

// DefaultNotation is the declaration tag used when none is set.
const DefaultNotation = core.DefaultNotation

// DispatchOperation is the name of the Dispatcher operation.
const DispatchOperation = core.DispatchOperation

// Exported variables.
var (
	ErrInvalidArgument  = core.ErrInvalidArgument
	ErrInvalidClass     = core.ErrInvalidClass
	ErrSynthesis        = core.ErrSynthesis
	ErrUnexpectedCall   = core.ErrUnexpectedCall
	ErrUnknownMethod    = core.ErrUnknownMethod
	ErrUnknownOperation = core.ErrUnknownOperation
	ErrUnknownType      = core.ErrUnknownType
	ErrUnmetExpectation = core.ErrUnmetExpectation
)

// Docs maps method names (or Constructor) to their documentation text.
type Docs map[string]string

// Types re-exported from internal/core.

// Dispatcher is implemented by types that look operations up by name at call time.
type Dispatcher = core.Dispatcher

// Expectation is one configured behavior of a mocked operation.
type Expectation = core.Expectation

// GenericCall records one invocation of a mocked operation.
type GenericCall = core.GenericCall

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// Mock is the record-and-stub engine behind every double.
type Mock = core.Mock

// Mocks is the record returned by a resolution.
type Mocks = core.Mocks

// Operation is one named operation of a mock.
type Operation = core.Operation

// Resolver configures and runs one resolution.
type Resolver = core.Resolver

// TestReporter is the minimal interface depmock needs from test frameworks.
type TestReporter = core.TestReporter

// TypeTable holds registered hosts and dependency types.
type TypeTable = core.TypeTable

// Functions re-exported from internal/core.

// For starts a resolution for host type T in DefaultTable.
func For[T any](t TestReporter) *Resolver {
	return DefaultTable.ResolveType(t, reflect.TypeFor[T]())
}

// Instance returns the double registered under name in mocks as an I, or the zero I.
func Instance[I any](mocks *Mocks, name string) I {
	instance, _ := mocks.Instance(name).(I)

	return instance
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// NewMock creates a standalone mock of typeName answering to operations.
func NewMock(t TestReporter, typeName string, operations ...string) *Mock {
	return core.NewMock(t, typeName, operations)
}

// NewTypeTable creates an empty type table, for tests that must not touch DefaultTable.
func NewTypeTable() *TypeTable {
	return core.NewTypeTable()
}

// On is Resolve under the name of the static constructor it mirrors.
func On(t TestReporter, hostName string) *Resolver {
	return Resolve(t, hostName)
}

// RegisterContract registers struct type T as a dependency whose doubles implement
// contract C, an interface *T satisfies. It panics on misuse.
func RegisterContract[T, C any](factory func(*Mock) C, aliases ...string) {
	typ := reflect.TypeFor[T]()
	contract := reflect.TypeFor[C]()

	switch {
	case typ.Kind() != reflect.Struct:
		panic(fmt.Sprintf("depmock: RegisterContract: %v is not a struct", typ))
	case contract.Kind() != reflect.Interface:
		panic(fmt.Sprintf("depmock: RegisterContract: contract %v is not an interface", contract))
	case !reflect.PointerTo(typ).Implements(contract):
		panic(fmt.Sprintf("depmock: RegisterContract: *%v does not implement %v", typ, contract))
	case factory == nil:
		panic(fmt.Sprintf("depmock: RegisterContract: %v needs a double factory", typ))
	}

	registerType(typ, erase(factory), aliases)
}

// RegisterHost records the documentation of T's methods in DefaultTable. It panics when
// a key names no method of T.
func RegisterHost[T any](docs Docs) {
	err := DefaultTable.RegisterHost(reflect.TypeFor[T](), docs)
	if err != nil {
		panic(fmt.Sprintf("depmock: RegisterHost: %v", err))
	}
}

// RegisterInterface registers interface I as a dependency type. A nil factory makes the
// *Mock itself the double, which suits empty and Dispatcher interfaces. It panics on
// misuse.
func RegisterInterface[I any](factory func(*Mock) I, aliases ...string) {
	typ := reflect.TypeFor[I]()
	if typ.Kind() != reflect.Interface {
		panic(fmt.Sprintf("depmock: RegisterInterface: %v is not an interface", typ))
	}

	registerType(typ, erase(factory), aliases)
}

// Resolve starts a resolution for the host registered in DefaultTable under hostName.
func Resolve(t TestReporter, hostName string) *Resolver {
	return DefaultTable.Resolve(t, hostName)
}

// Result returns values[index] as T, or the zero T.
func Result[T any](values []any, index int) T {
	return core.Result[T](values, index)
}

func erase[I any](factory func(*Mock) I) func(*Mock) any {
	if factory == nil {
		return nil
	}

	return func(m *Mock) any {
		return factory(m)
	}
}

func registerType(typ reflect.Type, factory func(*Mock) any, aliases []string) {
	if len(aliases) == 0 {
		aliases = []string{""}
	}

	for _, alias := range aliases {
		err := DefaultTable.RegisterType(alias, typ, factory)
		if err != nil {
			panic(fmt.Sprintf("depmock: registering %v: %v", typ, err))
		}
	}
}
