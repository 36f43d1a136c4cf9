package msgpack

import (
	"encoding/binary"
	"math"
)

// Formatter appends MessagePack tokens to a growable byte buffer. Unlike
// Deformatter, Formatter is infallible at the API level: every write
// succeeds and never needs more data to proceed. Lengths passed to the
// header writers are not validated.
//
// Formatter is immutable / value-like, matching the teacher's convention
// that the format layer itself carries no mutable state; all state lives in
// the buffer the caller supplies.
type Formatter struct{}

// NewFormatter returns a Formatter. It exists for symmetry with
// NewDeformatter and because a zero Formatter{} is easy to construct
// directly too.
func NewFormatter() Formatter { return Formatter{} }

// ArrayLengthRequiredInHeader reports whether the format requires the
// element count up front when opening an array. MessagePack always does;
// formats without definite-length framing (e.g. a hypothetical JSON
// formatter) would answer false and rely on WriteArrayElementSeparator /
// WriteArrayEnd instead.
func (Formatter) ArrayLengthRequiredInHeader() bool { return true }

// WriteArrayElementSeparator is a no-op for MessagePack, whose array framing
// is a length prefix, not textual delimiters.
func (Formatter) WriteArrayElementSeparator(p []byte) []byte { return p }

// WriteArrayEnd is a no-op for MessagePack.
func (Formatter) WriteArrayEnd(p []byte) []byte { return p }

// WriteNil appends the nil sentinel.
func (Formatter) WriteNil(p []byte) []byte {
	return append(p, codeNil)
}

// WriteBool appends a boolean scalar.
func (Formatter) WriteBool(p []byte, v bool) []byte {
	if v {
		return append(p, codeTrue)
	}
	return append(p, codeFalse)
}

// WriteInt appends the smallest MessagePack integer encoding that can
// represent v.
func (Formatter) WriteInt(p []byte, v int64) []byte {
	switch {
	case v >= 0:
		return Formatter{}.WriteUint(p, uint64(v))
	case v >= -32:
		return append(p, byte(v))
	case v >= math.MinInt8:
		return append(p, codeInt8, byte(int8(v)))
	case v >= math.MinInt16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(int16(v)))
		return append(append(p, codeInt16), b...)
	case v >= math.MinInt32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(int32(v)))
		return append(append(p, codeInt32), b...)
	default:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v))
		return append(append(p, codeInt64), b...)
	}
}

// WriteUint appends the smallest MessagePack unsigned integer encoding that
// can represent v.
func (Formatter) WriteUint(p []byte, v uint64) []byte {
	switch {
	case v <= posFixintMax:
		return append(p, byte(v))
	case v <= math.MaxUint8:
		return append(p, codeUint8, byte(v))
	case v <= math.MaxUint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(v))
		return append(append(p, codeUint16), b...)
	case v <= math.MaxUint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v))
		return append(append(p, codeUint32), b...)
	default:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, v)
		return append(append(p, codeUint64), b...)
	}
}

// WriteFloat32 appends a float32 scalar.
func (Formatter) WriteFloat32(p []byte, v float32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
	return append(append(p, codeFloat32), b...)
}

// WriteFloat64 appends a float64 scalar.
func (Formatter) WriteFloat64(p []byte, v float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return append(append(p, codeFloat64), b...)
}

// WriteString appends a UTF-8 text string.
func (Formatter) WriteString(p []byte, v string) []byte {
	p = writeStrHeader(p, len(v))
	return append(p, v...)
}

func writeStrHeader(p []byte, l int) []byte {
	switch {
	case l <= 31:
		return append(p, fixstrMin|byte(l))
	case l <= math.MaxUint8:
		return append(p, codeStr8, byte(l))
	case l <= math.MaxUint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(l))
		return append(append(p, codeStr16), b...)
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(l))
		return append(append(p, codeStr32), b...)
	}
}

// WriteBinary appends a binary blob.
func (Formatter) WriteBinary(p []byte, v []byte) []byte {
	l := len(v)
	switch {
	case l <= math.MaxUint8:
		p = append(p, codeBin8, byte(l))
	case l <= math.MaxUint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(l))
		p = append(append(p, codeBin16), b...)
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(l))
		p = append(append(p, codeBin32), b...)
	}
	return append(p, v...)
}

// WriteArrayHeader opens an array with a definite element count.
func (Formatter) WriteArrayHeader(p []byte, length int) []byte {
	switch {
	case length <= 15:
		return append(p, fixarrayMin|byte(length))
	case length <= math.MaxUint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(length))
		return append(append(p, codeArray16), b...)
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(length))
		return append(append(p, codeArray32), b...)
	}
}

// WriteMapHeader opens a map with a definite pair count.
func (Formatter) WriteMapHeader(p []byte, count int) []byte {
	switch {
	case count <= 15:
		return append(p, fixmapMin|byte(count))
	case count <= math.MaxUint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(count))
		return append(append(p, codeMap16), b...)
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(count))
		return append(append(p, codeMap32), b...)
	}
}

// WriteExtensionHeader opens an extension value of the given application
// type code and payload length. The caller appends the payload itself.
func (Formatter) WriteExtensionHeader(p []byte, typ int8, length int) []byte {
	switch length {
	case 1:
		return append(p, codeFixext1, byte(typ))
	case 2:
		return append(p, codeFixext2, byte(typ))
	case 4:
		return append(p, codeFixext4, byte(typ))
	case 8:
		return append(p, codeFixext8, byte(typ))
	case 16:
		return append(p, codeFixext16, byte(typ))
	}
	switch {
	case length <= math.MaxUint8:
		return append(p, codeExt8, byte(length), byte(typ))
	case length <= math.MaxUint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(length))
		return append(append(append(p, codeExt16), b...), byte(typ))
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(length))
		return append(append(append(p, codeExt32), b...), byte(typ))
	}
}
