package mpschema

import (
	"github.com/mpschema/mpschema/msgio"
)

// NullableConverter wraps a Converter[T] for *T: reads nil-or-delegate,
// writes nil-or-delegate. A nil *T writes as the single nil byte; a
// non-nil *T dereferences and delegates.
type NullableConverter[T any] struct {
	Elem Converter[T]
}

// Nullable builds a NullableConverter over elem.
func Nullable[T any](elem Converter[T]) *NullableConverter[T] {
	return &NullableConverter[T]{Elem: elem}
}

func (n *NullableConverter[T]) Read(r *msgio.Reader, ctx Context) (*T, error) {
	isNull, err := r.TryReadNull()
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	v, err := n.Elem.Read(r, ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (n *NullableConverter[T]) Write(w *msgio.Writer, v *T, ctx Context) error {
	if v == nil {
		w.WriteNil()
		return nil
	}
	return n.Elem.Write(w, *v, ctx)
}

func (n *NullableConverter[T]) PreferAsync() bool { return n.Elem.PreferAsync() }
