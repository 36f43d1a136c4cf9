package mpschema

import (
	"math"

	"github.com/mpschema/mpschema/encoding/msgpack"
	"github.com/mpschema/mpschema/msgio"
)

// dynamicConverter decodes an arbitrary, unshaped MessagePack value into
// Go's `any`: nil, bool, int64 (uint64 for values above math.MaxInt64),
// float64, string, []byte, []any, or
// *UntypedMap for a map. Used where no registered shape applies, e.g. an
// object's declared unused-data capture or a caller reading a value whose
// type is only known at the wire level.
type dynamicConverter struct{}

// Any returns the converter for unshaped MessagePack values.
func Any() Converter[any] {
	return dynamicConverter{}
}

func (dynamicConverter) Read(r *msgio.Reader, ctx Context) (any, error) {
	ctx, err := ctx.DepthStep()
	if err != nil {
		return nil, err
	}

	tc, err := r.PeekNextType()
	if err != nil {
		return nil, err
	}

	switch tc {
	case msgpack.TypeNil:
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return nil, nil
	case msgpack.TypeBoolean:
		return r.ReadBool()
	case msgpack.TypeInteger:
		c, err := r.PeekNextCode()
		if err != nil {
			return nil, err
		}
		if c == 0xcf {
			u, err := r.ReadUint64()
			if err != nil {
				return nil, err
			}
			if u > math.MaxInt64 {
				return u, nil
			}
			return int64(u), nil
		}
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return v, nil
	case msgpack.TypeFloat:
		return r.ReadFloat64()
	case msgpack.TypeString:
		return r.ReadString()
	case msgpack.TypeBinary:
		v, err := r.ReadBinary()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), v...), nil
	case msgpack.TypeArray:
		n, err := r.ReadArrayHeader()
		if err != nil {
			return nil, err
		}
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i], err = dynamicConverter{}.Read(r, ctx)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case msgpack.TypeMap:
		n, err := r.ReadMapHeader()
		if err != nil {
			return nil, err
		}
		raw := make(map[any]any, n)
		for i := 0; i < n; i++ {
			k, err := dynamicConverter{}.Read(r, ctx)
			if err != nil {
				return nil, err
			}
			v, err := dynamicConverter{}.Read(r, ctx)
			if err != nil {
				return nil, err
			}
			raw[k] = v
		}
		return NewUntypedMap(raw), nil
	default:
		return nil, NewInvalidCodeError("Any", nil)
	}
}

func (dynamicConverter) Write(w *msgio.Writer, v any, ctx Context) error {
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}

	switch tv := v.(type) {
	case nil:
		w.WriteNil()
	case bool:
		w.WriteBool(tv)
	case int64:
		w.WriteInt(tv)
	case uint64:
		w.WriteUint(tv)
	case int:
		w.WriteInt(int64(tv))
	case float64:
		w.WriteFloat64(tv)
	case float32:
		w.WriteFloat32(tv)
	case string:
		w.WriteString(tv)
	case []byte:
		w.WriteBinary(tv)
	case []any:
		w.WriteArrayHeader(len(tv))
		for _, e := range tv {
			if err := (dynamicConverter{}).Write(w, e, ctx); err != nil {
				return err
			}
		}
	case *UntypedMap:
		raw := tv.Raw()
		w.WriteMapHeader(len(raw))
		for k, val := range raw {
			if err := (dynamicConverter{}).Write(w, k, ctx); err != nil {
				return err
			}
			if err := (dynamicConverter{}).Write(w, val, ctx); err != nil {
				return err
			}
		}
	case map[any]any:
		w.WriteMapHeader(len(tv))
		for k, val := range tv {
			if err := (dynamicConverter{}).Write(w, k, ctx); err != nil {
				return err
			}
			if err := (dynamicConverter{}).Write(w, val, ctx); err != nil {
				return err
			}
		}
	default:
		return NewNotSupportedError("value has no dynamic MessagePack representation")
	}
	return nil
}

func (dynamicConverter) PreferAsync() bool { return false }
