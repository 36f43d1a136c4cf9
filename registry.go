package mpschema

import (
	"reflect"

	"github.com/mpschema/mpschema/encoding/msgpack"
)

// TypeRegistry creates an instance of a registered type from its shape ID,
// the untyped counterpart to SubTypes used where no single TBase interface
// unifies the registered types (e.g. top-level Unmarshal into a shape ID
// read off the wire by a caller that otherwise has no static type to hang
// a union base on).
type TypeRegistry struct {
	Entries map[string]*TypeRegistryEntry
}

// RegistryEntry creates a type registry entry for T.
func RegistryEntry[T any](schema *Schema) *TypeRegistryEntry {
	return &TypeRegistryEntry{
		Schema: schema,
		New: func() any {
			return new(T)
		},
	}
}

// TypeRegistryEntry pairs a Schema with a constructor for its Go type.
type TypeRegistryEntry struct {
	Schema *Schema
	New    func() any
}

// Lookup returns a fresh instance of the type registered under id.
func (t *TypeRegistry) Lookup(id string) (any, bool) {
	entry, ok := t.Entries[id]
	if !ok {
		return nil, false
	}
	return entry.New(), true
}

// subTypeEntry is one row of a SubTypes dispatch table: an alias, the
// subtype's shape, and its type-erased converter.
type subTypeEntry struct {
	alias       Alias
	aliasBytes  []byte
	shape       *Schema
	converter   untyped
	runtimeType reflect.Type
}

// SubTypes is the polymorphic dispatch table backing a union converter: it
// indexes registered subtypes of TBase by integer alias, by string alias
// (both consulted during deserialization), and by runtime type (consulted
// during serialization). Built once at registration time and shared by
// reference from every union converter over TBase.
type SubTypes[TBase any] struct {
	byInt    map[int64]*subTypeEntry
	byString map[string]*subTypeEntry
	byType   map[reflect.Type]*subTypeEntry
}

// NewSubTypes returns an empty dispatch table for TBase.
func NewSubTypes[TBase any]() *SubTypes[TBase] {
	return &SubTypes[TBase]{
		byInt:    map[int64]*subTypeEntry{},
		byString: map[string]*subTypeEntry{},
		byType:   map[reflect.Type]*subTypeEntry{},
	}
}

// Register adds a subtype entry. sample is a zero-value (or representative)
// instance of the subtype, used only to capture its reflect.Type for the
// serialization-side index; conv must be the type-erased converter
// produced by the converter cache for the subtype's own shape.
func (s *SubTypes[TBase]) Register(alias Alias, shape *Schema, conv untyped, sample any) {
	var f msgpack.Formatter
	var aliasBytes []byte
	switch alias.Kind {
	case AliasInt:
		aliasBytes = f.WriteInt(nil, alias.Int)
	case AliasString:
		aliasBytes = f.WriteString(nil, alias.Str)
	}

	e := &subTypeEntry{alias: alias, aliasBytes: aliasBytes, shape: shape, converter: conv, runtimeType: reflect.TypeOf(sample)}
	switch alias.Kind {
	case AliasInt:
		s.byInt[alias.Int] = e
	case AliasString:
		s.byString[alias.Str] = e
	}
	s.byType[e.runtimeType] = e
}

func (s *SubTypes[TBase]) byIntAlias(v int64) (*subTypeEntry, bool) {
	e, ok := s.byInt[v]
	return e, ok
}

func (s *SubTypes[TBase]) byStringAlias(v string) (*subTypeEntry, bool) {
	e, ok := s.byString[v]
	return e, ok
}

func (s *SubTypes[TBase]) byRuntimeType(v any) (*subTypeEntry, bool) {
	e, ok := s.byType[reflect.TypeOf(v)]
	return e, ok
}
