package mpschema

import (
	"encoding/binary"

	"github.com/mpschema/mpschema/encoding/msgpack"
	"github.com/mpschema/mpschema/msgio"
)

// referenceTrackedConverter is the orthogonal reference-preservation
// wrapper described in §4.6: when the call's Context carries a reference
// tracker, a repeated occurrence of the same identity is replaced with a
// backref index instead of the full payload. Values with no stable
// pointer identity (structs by value, scalars) always write their
// payload; the wrapped inner converter is otherwise untouched.
//
// Backref wire form: extension type msgpack.ExtensionBackref, an 8-byte
// big-endian index.
//
// Shared references within one object graph are fully supported; a
// self-referential cycle discovered partway through decoding an object's
// own fields is not, since this converter only registers a value with the
// tracker once inner.Read has returned a complete T.
type referenceTrackedConverter[T any] struct {
	inner Converter[T]
}

// WithReferenceTracking wraps inner so that, on calls where reference
// preservation is enabled, repeated object identities are deduplicated
// against backref indexes.
func WithReferenceTracking[T any](inner Converter[T]) Converter[T] {
	return referenceTrackedConverter[T]{inner: inner}
}

func writeBackref(w *msgio.Writer, idx int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(idx))
	w.WriteExtensionHeader(msgpack.ExtensionBackref, len(buf))
	w.WriteRaw(buf[:])
}

func (c referenceTrackedConverter[T]) Write(w *msgio.Writer, v T, ctx Context) error {
	refs := ctx.References()
	if refs == nil {
		return c.inner.Write(w, v, ctx)
	}

	idx, seen, ok := refs.CheckWrite(v)
	if !ok {
		return c.inner.Write(w, v, ctx)
	}
	if seen {
		writeBackref(w, idx)
		return nil
	}
	return c.inner.Write(w, v, ctx)
}

func (c referenceTrackedConverter[T]) Read(r *msgio.Reader, ctx Context) (T, error) {
	var zero T

	refs := ctx.References()
	if refs == nil {
		return c.inner.Read(r, ctx)
	}

	tc, err := r.PeekNextType()
	if err != nil {
		return zero, err
	}
	if tc == msgpack.TypeExtension {
		typ, length, err := r.ReadExtensionHeader()
		if err != nil {
			return zero, err
		}
		if typ != msgpack.ExtensionBackref {
			return zero, NewInvalidCodeError("reference backref", nil)
		}
		raw, err := r.ReadRaw(length)
		if err != nil {
			return zero, err
		}
		idx := int(binary.BigEndian.Uint64(raw))
		obj, ok := refs.Resolve(idx)
		if !ok {
			return zero, NewInvalidCodeError("reference backref", nil)
		}
		tv, ok := obj.(T)
		if !ok {
			return zero, NewNotSupportedError("backref target does not match converter's declared type")
		}
		return tv, nil
	}

	v, err := c.inner.Read(r, ctx)
	if err != nil {
		return zero, err
	}
	refs.RegisterRead(v)
	return v, nil
}

func (c referenceTrackedConverter[T]) PreferAsync() bool { return c.inner.PreferAsync() }
