package mpschema

import (
	"fmt"
	"maps"
	"strings"
)

// ShapeKind classifies what layout a Schema describes.
type ShapeKind int

// Enumerates ShapeKind.
const (
	KindPrimitive ShapeKind = iota
	KindNullable
	KindArray
	KindMultiDimArray
	KindDictionary
	KindEnumerable
	KindObjectMap
	KindObjectArray
	KindEnum
	KindUnion
)

// ShapeID identifies a Schema, mirroring a fully-qualified name plus an
// optional member (property) name.
type ShapeID struct {
	Namespace, Name, Member string
}

// String renders the shape ID in "namespace#Name$member" microformat, used
// to qualify collision/required-property errors.
func (s ShapeID) String() string {
	if s.Member == "" {
		return fmt.Sprintf("%s#%s", s.Namespace, s.Name)
	}
	return fmt.Sprintf("%s#%s$%s", s.Namespace, s.Name, s.Member)
}

// AliasKind distinguishes the two union-alias wire representations.
type AliasKind int

// Enumerates AliasKind.
const (
	AliasInt AliasKind = iota
	AliasString
)

// Alias is a union member's wire discriminator: either a signed integer or
// a UTF-8 string, never both.
type Alias struct {
	Kind AliasKind
	Int  int64
	Str  string
}

// IntAlias builds an integer-keyed Alias.
func IntAlias(v int64) Alias { return Alias{Kind: AliasInt, Int: v} }

// StringAlias builds a string-keyed Alias.
func StringAlias(v string) Alias { return Alias{Kind: AliasString, Str: v} }

// Property describes one field of an object shape as reported by a
// ShapeProvider: a name, an opaque getter/setter pair operating on the
// owning Go value, and metadata driving the object converters.
type Property struct {
	Name string

	// Get extracts the property's value from obj. ok is false when the
	// getter itself is nullable and had nothing to return.
	Get func(obj any) (value any, ok bool)

	// Set assigns value onto obj (or, for constructor-driven types, onto an
	// opaque argument-state aggregate passed as obj).
	Set func(obj any, value any) error

	// Target is the property's own shape, used to resolve its converter.
	Target *Schema

	// Conv is the property's type-erased converter, resolved once (via the
	// converter cache) when the owning Schema is built.
	Conv untyped

	Required         bool
	Default          any
	NullableGetter    bool
	NullableSetter    bool
	ConstructorParam string // non-empty when this property feeds a constructor arg
}

// UnionMember pairs a declared alias with the shape of the concrete
// subtype it identifies.
type UnionMember struct {
	Alias Alias
	Shape *Schema
}

// ArgumentState is the opaque aggregate a non-default-constructor object
// converter accumulates property values into before invoking Construct.
type ArgumentState = map[string]any

// Schema encodes external structural information about a Go type, supplied
// by a ShapeProvider. It is the spec's "TypeShape": immutable once built,
// shared for the lifetime of the owning serializer.
type Schema struct {
	ID   ShapeID
	Kind ShapeKind

	// Element is the item shape for Nullable/Array/MultiDimArray/
	// Dictionary(value)/Enumerable.
	Element *Schema
	// Key is the key shape for Dictionary.
	Key *Schema
	// Rank is the dimension count for MultiDimArray (>= 2).
	Rank int

	Properties []Property

	// Construct builds a T from accumulated property values, for
	// non-default-constructor object shapes. Nil for default-constructed
	// shapes, which instead use New.
	Construct func(args ArgumentState) (any, error)
	// New returns a zero-value instance ready for property setters.
	New func() any

	// Members lists union subtypes in registration order.
	Members []UnionMember
	// BaseNew builds an instance of the union's own base type, used when
	// the wire alias is nil.
	BaseNew func() any

	// UnderlyingInt is the Kind == KindEnum integer converter target.
	UnderlyingInt *Schema

	Traits map[string]Trait
}

// NewMember creates a member schema from a target schema, overriding
// traits. Traits provided for the member override any same-ID trait on the
// target.
func NewMember(name string, target *Schema, traits ...Trait) *Schema {
	m := &Schema{
		ID:                ShapeID{Member: name},
		Kind:              target.Kind,
		Element:           target.Element,
		Key:               target.Key,
		Rank:              target.Rank,
		Properties:        target.Properties,
		Construct:         target.Construct,
		New:               target.New,
		Members:           target.Members,
		BaseNew:           target.BaseNew,
		UnderlyingInt:     target.UnderlyingInt,
		Traits:            maps.Clone(target.Traits),
	}

	if len(m.Traits) == 0 && len(traits) != 0 {
		m.Traits = map[string]Trait{}
	}
	for _, t := range traits {
		m.Traits[t.TraitID()] = t
	}

	return m
}

// SchemaTrait returns the target trait on the schema if present.
func SchemaTrait[T Trait](s *Schema) (T, bool) {
	var trait T

	opaque, ok := s.Traits[trait.TraitID()]
	if !ok {
		return trait, false
	}

	tt, ok := opaque.(T)
	return tt, ok
}

func stoid(s string) ShapeID {
	ns, n, _ := strings.Cut(s, "#")
	n, m, _ := strings.Cut(n, "$")
	return ShapeID{ns, n, m}
}
