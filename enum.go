package mpschema

import (
	"github.com/mpschema/mpschema/msgio"
)

// signedEnum is the constraint satisfied by a Go enum type whose
// underlying representation is a signed integer.
type signedEnum interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// unsignedEnum is the constraint satisfied by a Go enum type whose
// underlying representation is an unsigned integer.
type unsignedEnum interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// EnumConverter is a thin wrapper forwarding straight to the signed
// integer converter: MessagePack carries no native enum token, so an enum
// serializes as its ordinal value.
type EnumConverter[T signedEnum] struct{}

// Enum builds an EnumConverter for a signed-underlying enum type.
func Enum[T signedEnum]() *EnumConverter[T] { return &EnumConverter[T]{} }

func (EnumConverter[T]) Read(r *msgio.Reader, _ Context) (T, error) {
	v, err := r.ReadInt64()
	return T(v), err
}

func (EnumConverter[T]) Write(w *msgio.Writer, v T, _ Context) error {
	w.WriteInt(int64(v))
	return nil
}

func (EnumConverter[T]) PreferAsync() bool { return false }

// UnsignedEnumConverter is the EnumConverter analogue for enum types with
// an unsigned underlying representation.
type UnsignedEnumConverter[T unsignedEnum] struct{}

// UnsignedEnum builds an UnsignedEnumConverter for an unsigned-underlying
// enum type.
func UnsignedEnum[T unsignedEnum]() *UnsignedEnumConverter[T] { return &UnsignedEnumConverter[T]{} }

func (UnsignedEnumConverter[T]) Read(r *msgio.Reader, _ Context) (T, error) {
	v, err := r.ReadUint64()
	return T(v), err
}

func (UnsignedEnumConverter[T]) Write(w *msgio.Writer, v T, _ Context) error {
	w.WriteUint(uint64(v))
	return nil
}

func (UnsignedEnumConverter[T]) PreferAsync() bool { return false }
