package mpschema

import (
	"reflect"

	"github.com/mpschema/mpschema/encoding/msgpack"
	"github.com/mpschema/mpschema/msgio"
)

// UnionConverter is the polymorphic-dispatch layer: a MessagePack array of
// length 2, `[alias, payload]`, where alias is nil (the base type itself),
// a signed integer, or a UTF-8 string, and payload is whatever the
// resolved subtype converter produces.
type UnionConverter[TBase any] struct {
	Shape    *Schema
	Subtypes *SubTypes[TBase]

	// Base converts TBase's own fields, dispatched to when the alias is
	// nil (either because the wire value truly is the base type, or
	// because the value being written is a base-type instance rather
	// than one of the declared subtypes).
	Base Converter[TBase]
}

// Union builds a UnionConverter over the given dispatch table and base
// converter.
func Union[TBase any](shape *Schema, subtypes *SubTypes[TBase], base Converter[TBase]) *UnionConverter[TBase] {
	return &UnionConverter[TBase]{Shape: shape, Subtypes: subtypes, Base: base}
}

func isNilUnionValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func (c *UnionConverter[TBase]) Write(w *msgio.Writer, v TBase, ctx Context) error {
	if isNilUnionValue(v) {
		w.WriteNil()
		return nil
	}

	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}

	w.WriteArrayHeader(2)

	if entry, ok := c.Subtypes.byRuntimeType(v); ok {
		w.WriteRaw(entry.aliasBytes)
		return entry.converter.writeAny(w, v, ctx)
	}

	if c.Shape.BaseNew != nil {
		if sample := c.Shape.BaseNew(); reflect.TypeOf(v) == reflect.TypeOf(sample) {
			w.WriteNil()
			return c.Base.Write(w, v, ctx)
		}
	}

	return NewUnknownSubtypeError(c.Shape.ID, reflect.TypeOf(v).String())
}

func (c *UnionConverter[TBase]) Read(r *msgio.Reader, ctx Context) (TBase, error) {
	var zero TBase

	isNull, err := r.TryReadNull()
	if err != nil {
		return zero, err
	}
	if isNull {
		return zero, nil
	}

	ctx, err = ctx.DepthStep()
	if err != nil {
		return zero, err
	}

	length, err := r.ReadArrayHeader()
	if err != nil {
		return zero, err
	}
	if length != 2 {
		return zero, NewUnexpectedLengthError("union payload must be an array of length 2")
	}

	aliasIsNull, err := r.TryReadNull()
	if err != nil {
		return zero, err
	}
	if aliasIsNull {
		return c.Base.Read(r, ctx)
	}

	tc, err := r.PeekNextType()
	if err != nil {
		return zero, err
	}

	var entry *subTypeEntry
	var found bool
	switch tc {
	case msgpack.TypeInteger:
		n, err := r.ReadInt64()
		if err != nil {
			return zero, err
		}
		entry, found = c.Subtypes.byIntAlias(n)
		if !found {
			return zero, NewUnknownAliasError(c.Shape.ID, IntAlias(n))
		}
	case msgpack.TypeString:
		s, err := r.ReadString()
		if err != nil {
			return zero, err
		}
		entry, found = c.Subtypes.byStringAlias(s)
		if !found {
			return zero, NewUnknownAliasError(c.Shape.ID, StringAlias(s))
		}
	default:
		return zero, NewInvalidCodeError("union alias", nil)
	}

	value, err := entry.converter.readAny(r, ctx)
	if err != nil {
		return zero, err
	}
	tv, ok := value.(TBase)
	if !ok {
		return zero, NewNotSupportedError("subtype value does not satisfy the union's base type")
	}
	return tv, nil
}

func (c *UnionConverter[TBase]) PreferAsync() bool {
	return c.Base.PreferAsync()
}
