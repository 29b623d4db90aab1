package core

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Constructor is the method name under which a host's constructor (its New<Host>
// function) is declared. It cannot collide with a Go method name.
const Constructor = "<new>"

// HostEntry is a host type together with the documentation registered for its methods.
// Entries are immutable: registering more docs replaces the entry in the table.
type HostEntry struct {
	Name string
	Type reflect.Type

	docs map[string][]string
}

// DocLines returns the registered documentation lines of method, if any.
func (h *HostEntry) DocLines(method string) []string {
	return h.docs[method]
}

// HasMethod reports whether method exists on the host, counting promoted methods and
// pointer receivers. The Constructor always exists, even for a host with no New<Host>
// function; resolving it then finds no docs and yields no dependencies.
func (h *HostEntry) HasMethod(method string) bool {
	if method == Constructor {
		return true
	}

	_, ok := methodSetOf(h.Type).MethodByName(method)

	return ok
}

func (h *HostEntry) canonical() string {
	return h.Name
}

// TypeEntry is a registered dependency type and the factory building its typed double.
// A nil Factory means the *Mock itself is the double.
type TypeEntry struct {
	Name    string
	Type    reflect.Type
	Factory func(*Mock) any
}

func (e *TypeEntry) canonical() string {
	return e.Name
}

// TypeTable is the registry of host and dependency types the resolver reflects on.
// It plays the part of a runtime's class table: filled at init time, read by tests.
type TypeTable struct {
	mu    sync.RWMutex
	types nameIndex[*TypeEntry]
	hosts nameIndex[*HostEntry]

	byHostType map[reflect.Type]*HostEntry
	operations *lru.Cache[reflect.Type, []string]
}

// NewTypeTable creates an empty type table.
func NewTypeTable() *TypeTable {
	cache, err := lru.New[reflect.Type, []string](operationCacheSize)
	if err != nil {
		panic(fmt.Sprintf("creating operation cache: %v", err))
	}

	return &TypeTable{
		types:      newNameIndex[*TypeEntry](),
		hosts:      newNameIndex[*HostEntry](),
		byHostType: make(map[reflect.Type]*HostEntry),
		operations: cache,
	}
}

// LookupHost finds a registered host by canonical name or alias.
func (tt *TypeTable) LookupHost(name string) (*HostEntry, error) {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	return tt.hosts.get(name)
}

// LookupType finds a registered dependency type by canonical name or alias.
func (tt *TypeTable) LookupType(name string) (*TypeEntry, error) {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	return tt.types.get(name)
}

// RegisterHost records documentation for methods of typ. Each key of docs must name an
// existing method of typ, or be Constructor. Docs for methods registered earlier are kept
// unless overwritten.
func (tt *TypeTable) RegisterHost(typ reflect.Type, docs map[string]string) error {
	typ, err := namedType(typ)
	if err != nil {
		return err
	}

	tt.mu.Lock()
	defer tt.mu.Unlock()

	previous, ok := tt.byHostType[typ]
	if !ok {
		previous = newHostEntry(typ)
	}

	for method := range docs {
		if !previous.HasMethod(method) {
			return fmt.Errorf("%w: %s has no method %q", ErrUnknownMethod, previous.Name, method)
		}
	}

	entry := newHostEntry(typ)
	for method, lines := range previous.docs {
		entry.docs[method] = lines
	}

	for method, doc := range docs {
		entry.docs[method] = strings.Split(doc, "\n")
	}

	tt.byHostType[typ] = entry
	tt.hosts.put(entry, typeAliases(typ)...)

	return nil
}

// RegisterType records a dependency type. The canonical name is derived from typ;
// alias, when not empty, is accepted as an extra lookup name.
func (tt *TypeTable) RegisterType(alias string, typ reflect.Type, factory func(*Mock) any) error {
	typ, err := namedType(typ)
	if err != nil {
		return err
	}

	entry := &TypeEntry{
		Name:    canonicalName(typ),
		Type:    typ,
		Factory: factory,
	}

	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.types.put(entry, append(typeAliases(typ), strings.TrimSpace(alias))...)

	return nil
}

// hostFor returns the registered entry for typ, or a documentation-less entry when typ
// was never registered as a host.
func (tt *TypeTable) hostFor(typ reflect.Type) (*HostEntry, error) {
	typ, err := namedType(typ)
	if err != nil {
		return nil, err
	}

	tt.mu.RLock()
	defer tt.mu.RUnlock()

	if entry, ok := tt.byHostType[typ]; ok {
		return entry, nil
	}

	return newHostEntry(typ), nil
}

// unexported constants.
const (
	operationCacheSize = 256
)

type named interface {
	canonical() string
}

// nameIndex maps canonical names and aliases to entries. An alias claimed by two
// different entries becomes ambiguous and no longer resolves.
type nameIndex[E named] struct {
	entries   map[string]E
	ambiguous map[string]struct{}
}

func (idx nameIndex[E]) get(name string) (E, error) {
	var zero E

	name = normalizeTypeName(name)
	if name == "" {
		return zero, fmt.Errorf("%w: empty type name", ErrInvalidClass)
	}

	if entry, ok := idx.entries[name]; ok {
		return entry, nil
	}

	if _, ok := idx.ambiguous[name]; ok {
		return zero, fmt.Errorf("%w: %q is ambiguous, use the qualified name", ErrInvalidClass, name)
	}

	return zero, fmt.Errorf("%w: %q", ErrInvalidClass, name)
}

func (idx nameIndex[E]) put(entry E, aliases ...string) {
	canonical := entry.canonical()
	idx.entries[canonical] = entry
	delete(idx.ambiguous, canonical)

	for _, alias := range aliases {
		if alias == "" || alias == canonical {
			continue
		}

		if _, bad := idx.ambiguous[alias]; bad {
			continue
		}

		existing, ok := idx.entries[alias]
		if ok && existing.canonical() == alias {
			continue
		}

		if ok && existing.canonical() != canonical {
			delete(idx.entries, alias)
			idx.ambiguous[alias] = struct{}{}

			continue
		}

		idx.entries[alias] = entry
	}
}

func canonicalName(typ reflect.Type) string {
	if typ.PkgPath() == "" {
		return typ.Name()
	}

	return typ.PkgPath() + "." + typ.Name()
}

// methodSetOf returns the type whose method set callers see: the interface itself, or
// the pointer type so that pointer receivers are included.
func methodSetOf(typ reflect.Type) reflect.Type {
	if typ.Kind() == reflect.Interface || typ.Kind() == reflect.Pointer {
		return typ
	}

	return reflect.PointerTo(typ)
}

func namedType(typ reflect.Type) (reflect.Type, error) {
	if typ == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidArgument)
	}

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Name() == "" {
		return nil, fmt.Errorf("%w: %s is not a named type", ErrInvalidArgument, typ)
	}

	return typ, nil
}

func newHostEntry(typ reflect.Type) *HostEntry {
	return &HostEntry{
		Name: canonicalName(typ),
		Type: typ,
		docs: make(map[string][]string),
	}
}

func newNameIndex[E named]() nameIndex[E] {
	return nameIndex[E]{
		entries:   make(map[string]E),
		ambiguous: make(map[string]struct{}),
	}
}

// normalizeTypeName trims whitespace and a leading pointer star from a declared name.
func normalizeTypeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "*")
}

func typeAliases(typ reflect.Type) []string {
	return []string{typ.String(), typ.Name()}
}
