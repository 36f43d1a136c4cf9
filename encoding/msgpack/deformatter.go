package msgpack

import (
	"encoding/binary"
	"math"
)

// Deformatter decodes MessagePack tokens out of a byte slice using the
// needs-more-bytes return protocol described by DecodeResult.
//
// A Deformatter is stateless across calls except for the eof flag: once the
// byte source has signalled completion, a subsequent underflow is reported
// as EmptyBuffer rather than InsufficientBuffer, so callers stop retrying a
// source that will never produce more bytes.
type Deformatter struct {
	eof bool
}

// NewDeformatter returns a Deformatter with eof unset.
func NewDeformatter() *Deformatter {
	return &Deformatter{}
}

// SetEOF marks the byte source as exhausted. Subsequent underflows resolve
// to EmptyBuffer instead of InsufficientBuffer.
func (d *Deformatter) SetEOF(eof bool) {
	d.eof = eof
}

func (d *Deformatter) underflow() DecodeResult {
	if d.eof {
		return EmptyBuffer
	}
	return InsufficientBuffer
}

// TryPeekNextCode reports the raw leading byte of the next token without
// consuming it.
func (d *Deformatter) TryPeekNextCode(p []byte) (DecodeResult, byte) {
	if len(p) == 0 {
		return d.underflow(), 0
	}
	return Success, p[0]
}

// TryPeekNextType classifies the next token without consuming it.
func (d *Deformatter) TryPeekNextType(p []byte) (DecodeResult, TypeCode) {
	res, c := d.TryPeekNextCode(p)
	if res != Success {
		return res, TypeUnknown
	}
	return Success, peekType(c)
}

// TryReadNull reports whether the next token is the nil sentinel, consuming
// it if so.
func (d *Deformatter) TryReadNull(p []byte) (result DecodeResult, isNull bool, n int) {
	res, c := d.TryPeekNextCode(p)
	if res != Success {
		return res, false, 0
	}
	if c != codeNil {
		return TokenMismatch, false, 0
	}
	return Success, true, 1
}

// TryReadArrayHeader reads an array framing header, returning the element
// count.
func (d *Deformatter) TryReadArrayHeader(p []byte) (result DecodeResult, length int, n int) {
	if len(p) == 0 {
		return d.underflow(), 0, 0
	}
	c := p[0]
	switch {
	case c >= fixarrayMin && c <= fixarrayMax:
		return Success, int(c & 0x0f), 1
	case c == codeArray16:
		return d.readUintArg(p, 1, 2)
	case c == codeArray32:
		return d.readUintArg(p, 1, 4)
	default:
		return TokenMismatch, 0, 0
	}
}

// TryReadMapHeader reads a map framing header, returning the pair count.
func (d *Deformatter) TryReadMapHeader(p []byte) (result DecodeResult, count int, n int) {
	if len(p) == 0 {
		return d.underflow(), 0, 0
	}
	c := p[0]
	switch {
	case c >= fixmapMin && c <= fixmapMax:
		return Success, int(c & 0x0f), 1
	case c == codeMap16:
		return d.readUintArg(p, 1, 2)
	case c == codeMap32:
		return d.readUintArg(p, 1, 4)
	default:
		return TokenMismatch, 0, 0
	}
}

// readUintArg reads a big-endian unsigned integer argument of width bytes
// immediately following the 1-byte leading code at p[0], returning it as an
// int together with the total bytes consumed (header + argument).
func (d *Deformatter) readUintArg(p []byte, headerLen, width int) (DecodeResult, int, int) {
	if len(p) < headerLen+width {
		return d.underflow(), 0, 0
	}
	arg := p[headerLen : headerLen+width]
	var v uint64
	switch width {
	case 1:
		v = uint64(arg[0])
	case 2:
		v = uint64(binary.BigEndian.Uint16(arg))
	case 4:
		v = uint64(binary.BigEndian.Uint32(arg))
	case 8:
		v = binary.BigEndian.Uint64(arg)
	}
	return Success, int(v), headerLen + width
}

// TryReadBool reads a boolean scalar.
func (d *Deformatter) TryReadBool(p []byte) (result DecodeResult, v bool, n int) {
	res, c := d.TryPeekNextCode(p)
	if res != Success {
		return res, false, 0
	}
	switch c {
	case codeTrue:
		return Success, true, 1
	case codeFalse:
		return Success, false, 1
	default:
		return TokenMismatch, false, 0
	}
}

// TryReadInt64 reads any of the MessagePack integer encodings (positive or
// negative fixint, uintN, or intN) as a signed 64-bit value.
func (d *Deformatter) TryReadInt64(p []byte) (result DecodeResult, v int64, n int) {
	if len(p) == 0 {
		return d.underflow(), 0, 0
	}
	c := p[0]
	switch {
	case c <= posFixintMax:
		return Success, int64(c), 1
	case c >= negFixintMin:
		return Success, int64(int8(c)), 1
	case c == codeUint8:
		if len(p) < 2 {
			return d.underflow(), 0, 0
		}
		return Success, int64(p[1]), 2
	case c == codeUint16:
		res, v, n := d.readUintArg(p, 1, 2)
		return res, int64(v), n
	case c == codeUint32:
		res, v, n := d.readUintArg(p, 1, 4)
		return res, int64(v), n
	case c == codeUint64:
		if len(p) < 9 {
			return d.underflow(), 0, 0
		}
		return Success, int64(binary.BigEndian.Uint64(p[1:9])), 9
	case c == codeInt8:
		if len(p) < 2 {
			return d.underflow(), 0, 0
		}
		return Success, int64(int8(p[1])), 2
	case c == codeInt16:
		if len(p) < 3 {
			return d.underflow(), 0, 0
		}
		return Success, int64(int16(binary.BigEndian.Uint16(p[1:3]))), 3
	case c == codeInt32:
		if len(p) < 5 {
			return d.underflow(), 0, 0
		}
		return Success, int64(int32(binary.BigEndian.Uint32(p[1:5]))), 5
	case c == codeInt64:
		if len(p) < 9 {
			return d.underflow(), 0, 0
		}
		return Success, int64(binary.BigEndian.Uint64(p[1:9])), 9
	default:
		return TokenMismatch, 0, 0
	}
}

// TryReadUint64 reads an unsigned 64-bit integer. Negative encodings are a
// TokenMismatch: callers that want implicit widening of a negative value
// should use TryReadInt64 instead.
func (d *Deformatter) TryReadUint64(p []byte) (result DecodeResult, v uint64, n int) {
	if len(p) > 0 && p[0] == codeUint64 {
		if len(p) < 9 {
			return d.underflow(), 0, 0
		}
		return Success, binary.BigEndian.Uint64(p[1:9]), 9
	}
	res, s, n2 := d.TryReadInt64(p)
	if res != Success {
		return res, 0, 0
	}
	if s < 0 {
		return TokenMismatch, 0, 0
	}
	return Success, uint64(s), n2
}

// TryReadFloat32 reads a float32 token. Per the spec, float16 is not part of
// MessagePack; only float32/float64 codes exist.
func (d *Deformatter) TryReadFloat32(p []byte) (result DecodeResult, v float32, n int) {
	res, c := d.TryPeekNextCode(p)
	if res != Success {
		return res, 0, 0
	}
	if c != codeFloat32 {
		return TokenMismatch, 0, 0
	}
	if len(p) < 5 {
		return d.underflow(), 0, 0
	}
	return Success, math.Float32frombits(binary.BigEndian.Uint32(p[1:5])), 5
}

// TryReadFloat64 reads a float64 token, widening a float32 token if that is
// what is present (msgpack encoders are free to use the narrower encoding).
func (d *Deformatter) TryReadFloat64(p []byte) (result DecodeResult, v float64, n int) {
	res, c := d.TryPeekNextCode(p)
	if res != Success {
		return res, 0, 0
	}
	switch c {
	case codeFloat64:
		if len(p) < 9 {
			return d.underflow(), 0, 0
		}
		return Success, math.Float64frombits(binary.BigEndian.Uint64(p[1:9])), 9
	case codeFloat32:
		res, f, n := d.TryReadFloat32(p)
		return res, float64(f), n
	default:
		return TokenMismatch, 0, 0
	}
}

// TryReadStringSpan succeeds with contiguous=true iff the full string
// payload lies within p; the caller falls back to a sequence-aware read
// when contiguous is false (span is nil in that case; this Deformatter
// always operates on a single slice so non-contiguity only happens on
// underflow, surfaced instead as InsufficientBuffer).
func (d *Deformatter) TryReadStringSpan(p []byte) (result DecodeResult, contiguous bool, span []byte, n int) {
	if len(p) == 0 {
		return d.underflow(), false, nil, 0
	}
	c := p[0]
	var headerLen, width int
	var slen int
	switch {
	case c >= fixstrMin && c <= fixstrMax:
		slen = int(c & 0x1f)
		headerLen = 1
	case c == codeStr8:
		headerLen, width = 1, 1
	case c == codeStr16:
		headerLen, width = 1, 2
	case c == codeStr32:
		headerLen, width = 1, 4
	default:
		return TokenMismatch, false, nil, 0
	}
	if width > 0 {
		res, l, hn := d.readUintArg(p, headerLen, width)
		if res != Success {
			return res, false, nil, 0
		}
		slen = l
		headerLen = hn
	}
	if len(p) < headerLen+slen {
		return d.underflow(), false, nil, 0
	}
	return Success, true, p[headerLen : headerLen+slen], headerLen + slen
}

// TryReadString reads a string token into an owned Go string.
func (d *Deformatter) TryReadString(p []byte) (result DecodeResult, v string, n int) {
	res, _, span, n := d.TryReadStringSpan(p)
	if res != Success {
		return res, "", 0
	}
	return Success, string(span), n
}

// TryReadBinary reads a binary token, returning a subsequence view into p.
// Callers that need to retain the value past the lifetime of p must copy it
// (see RawMessagePack's copy-on-read requirement in the parent package).
func (d *Deformatter) TryReadBinary(p []byte) (result DecodeResult, v []byte, n int) {
	if len(p) == 0 {
		return d.underflow(), nil, 0
	}
	c := p[0]
	var headerLen, width int
	switch c {
	case codeBin8:
		headerLen, width = 1, 1
	case codeBin16:
		headerLen, width = 1, 2
	case codeBin32:
		headerLen, width = 1, 4
	default:
		return TokenMismatch, nil, 0
	}
	res, blen, hn := d.readUintArg(p, headerLen, width)
	if res != Success {
		return res, nil, 0
	}
	if len(p) < hn+blen {
		return d.underflow(), nil, 0
	}
	return Success, p[hn : hn+blen], hn + blen
}

// TryReadExtensionHeader reads an extension framing header, returning the
// application type code and payload length; the payload itself follows
// immediately and is not consumed by this call.
func (d *Deformatter) TryReadExtensionHeader(p []byte) (result DecodeResult, typ int8, length int, n int) {
	if len(p) == 0 {
		return d.underflow(), 0, 0, 0
	}
	c := p[0]
	switch c {
	case codeFixext1, codeFixext2, codeFixext4, codeFixext8, codeFixext16:
		fixLen := map[byte]int{codeFixext1: 1, codeFixext2: 2, codeFixext4: 4, codeFixext8: 8, codeFixext16: 16}[c]
		if len(p) < 2 {
			return d.underflow(), 0, 0, 0
		}
		return Success, int8(p[1]), fixLen, 2
	case codeExt8, codeExt16, codeExt32:
		width := map[byte]int{codeExt8: 1, codeExt16: 2, codeExt32: 4}[c]
		res, l, hn := d.readUintArg(p, 1, width)
		if res != Success {
			return res, 0, 0, 0
		}
		if len(p) < hn+1 {
			return d.underflow(), 0, 0, 0
		}
		return Success, int8(p[hn]), l, hn + 1
	default:
		return TokenMismatch, 0, 0, 0
	}
}

// TrySkip advances past one complete structure, descending into containers
// and invoking depthStep before recursing so the depth guard applies
// uniformly to skipped and decoded structures alike. depthStep may be nil,
// in which case no depth accounting is performed.
func (d *Deformatter) TrySkip(p []byte, depthStep func() error) (result DecodeResult, n int) {
	res, c := d.TryPeekNextCode(p)
	if res != Success {
		return res, 0
	}

	tc := peekType(c)
	switch tc {
	case TypeNil, TypeBoolean:
		return Success, 1
	case TypeInteger:
		return d.skipVia(p, func(pp []byte) (DecodeResult, int) {
			res, _, n := d.TryReadInt64(pp)
			return res, n
		})
	case TypeFloat:
		return d.skipVia(p, func(pp []byte) (DecodeResult, int) {
			res, _, n := d.TryReadFloat64(pp)
			return res, n
		})
	case TypeString:
		return d.skipVia(p, func(pp []byte) (DecodeResult, int) {
			res, _, _, n := d.TryReadStringSpan(pp)
			return res, n
		})
	case TypeBinary:
		return d.skipVia(p, func(pp []byte) (DecodeResult, int) {
			res, _, n := d.TryReadBinary(pp)
			return res, n
		})
	case TypeExtension:
		res, _, length, hn := d.TryReadExtensionHeader(p)
		if res != Success {
			return res, 0
		}
		if len(p) < hn+length {
			return d.underflow(), 0
		}
		return Success, hn + length
	case TypeArray:
		return d.skipContainer(p, depthStep, true)
	case TypeMap:
		return d.skipContainer(p, depthStep, false)
	default:
		return TokenMismatch, 0
	}
}

func (d *Deformatter) skipVia(p []byte, f func([]byte) (DecodeResult, int)) (DecodeResult, int) {
	res, n := f(p)
	return res, n
}

func (d *Deformatter) skipContainer(p []byte, depthStep func() error, isArray bool) (DecodeResult, int) {
	if depthStep != nil {
		if err := depthStep(); err != nil {
			return TokenMismatch, 0
		}
	}

	var count, off int
	var res DecodeResult
	if isArray {
		res, count, off = d.TryReadArrayHeader(p)
	} else {
		res, count, off = d.TryReadMapHeader(p)
		count *= 2
	}
	if res != Success {
		return res, 0
	}

	rest := p[off:]
	for i := 0; i < count; i++ {
		r, n := d.TrySkip(rest, depthStep)
		if r != Success {
			return r, 0
		}
		rest = rest[n:]
		off += n
	}
	return Success, off
}
