package msgio

import (
	"github.com/mpschema/mpschema/encoding/msgpack"
)

// Reader is a borrowed, failing-fast cursor over a buffer known to hold a
// complete MessagePack structure. It must not outlive the buffer it
// references, is not thread-safe, and must not be shared across concurrency
// boundaries — matching the ephemeral-cursor contract the converter
// pipeline depends on.
type Reader struct {
	buf []byte
	pos int
	df  *msgpack.Deformatter
}

// NewReader wraps buf for synchronous reading. eof indicates whether buf is
// known to be the entire remaining byte source (no further bytes will ever
// arrive), which makes underflows decode as EmptyBuffer rather than
// InsufficientBuffer; the Reader reports both as ErrNotEnoughBytes.
func NewReader(buf []byte, eof bool) *Reader {
	df := msgpack.NewDeformatter()
	df.SetEOF(eof)
	return &Reader{buf: buf, df: df}
}

// Pos returns the current cursor offset into the underlying buffer.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the unconsumed tail of the buffer.
func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

func (r *Reader) advance(n int) { r.pos += n }

func wrap(op string, res msgpack.DecodeResult) error {
	switch res {
	case msgpack.Success:
		return nil
	case msgpack.TokenMismatch:
		return &ErrInvalidCode{Op: op}
	default:
		return &ErrNotEnoughBytes{Op: op}
	}
}

// ReadNull consumes the nil sentinel, raising ErrInvalidCode if the next
// token is not nil.
func (r *Reader) ReadNull() error {
	res, _, n := r.df.TryReadNull(r.Remaining())
	if err := wrap("ReadNull", res); err != nil {
		return err
	}
	r.advance(n)
	return nil
}

// TryReadNull reports whether the next token is nil, without raising if it
// is not (leaving the cursor untouched in that case). Used by nullable
// converters that must peek ahead of a non-nil delegate read.
func (r *Reader) TryReadNull() (isNull bool, err error) {
	res, c := r.df.TryPeekNextCode(r.Remaining())
	if err := wrap("PeekNextCode", res); err != nil {
		return false, err
	}
	if c != 0xc0 {
		return false, nil
	}
	return true, r.ReadNull()
}

// ReadArrayHeader consumes an array framing header and returns its element
// count.
func (r *Reader) ReadArrayHeader() (int, error) {
	res, length, n := r.df.TryReadArrayHeader(r.Remaining())
	if err := wrap("ReadArrayHeader", res); err != nil {
		return 0, err
	}
	r.advance(n)
	return length, nil
}

// ReadMapHeader consumes a map framing header and returns its pair count.
func (r *Reader) ReadMapHeader() (int, error) {
	res, count, n := r.df.TryReadMapHeader(r.Remaining())
	if err := wrap("ReadMapHeader", res); err != nil {
		return 0, err
	}
	r.advance(n)
	return count, nil
}

// ReadBool consumes a boolean scalar.
func (r *Reader) ReadBool() (bool, error) {
	res, v, n := r.df.TryReadBool(r.Remaining())
	if err := wrap("ReadBool", res); err != nil {
		return false, err
	}
	r.advance(n)
	return v, nil
}

// ReadInt64 consumes any MessagePack integer encoding as a signed 64-bit
// value.
func (r *Reader) ReadInt64() (int64, error) {
	res, v, n := r.df.TryReadInt64(r.Remaining())
	if err := wrap("ReadInt64", res); err != nil {
		return 0, err
	}
	r.advance(n)
	return v, nil
}

// ReadUint64 consumes a non-negative MessagePack integer encoding.
func (r *Reader) ReadUint64() (uint64, error) {
	res, v, n := r.df.TryReadUint64(r.Remaining())
	if err := wrap("ReadUint64", res); err != nil {
		return 0, err
	}
	r.advance(n)
	return v, nil
}

// ReadFloat32 consumes a float32 scalar.
func (r *Reader) ReadFloat32() (float32, error) {
	res, v, n := r.df.TryReadFloat32(r.Remaining())
	if err := wrap("ReadFloat32", res); err != nil {
		return 0, err
	}
	r.advance(n)
	return v, nil
}

// ReadFloat64 consumes a float64 scalar (widening a float32 encoding if
// that is what is present).
func (r *Reader) ReadFloat64() (float64, error) {
	res, v, n := r.df.TryReadFloat64(r.Remaining())
	if err := wrap("ReadFloat64", res); err != nil {
		return 0, err
	}
	r.advance(n)
	return v, nil
}

// ReadString consumes a string token into an owned Go string.
func (r *Reader) ReadString() (string, error) {
	res, v, n := r.df.TryReadString(r.Remaining())
	if err := wrap("ReadString", res); err != nil {
		return "", err
	}
	r.advance(n)
	return v, nil
}

// ReadStringSpan consumes a string token, returning a view into the
// underlying buffer when contiguous is true (always true for this Reader,
// which only ever operates on one contiguous buffer; StreamingReader is
// where non-contiguity can occur).
func (r *Reader) ReadStringSpan() (span []byte, err error) {
	res, _, s, n := r.df.TryReadStringSpan(r.Remaining())
	if err := wrap("ReadStringSpan", res); err != nil {
		return nil, err
	}
	r.advance(n)
	return s, nil
}

// ReadBinary consumes a binary token, returning a subsequence view into the
// underlying buffer. The view is invalidated once the buffer is reused;
// callers that must retain it copy it themselves.
func (r *Reader) ReadBinary() ([]byte, error) {
	res, v, n := r.df.TryReadBinary(r.Remaining())
	if err := wrap("ReadBinary", res); err != nil {
		return nil, err
	}
	r.advance(n)
	return v, nil
}

// ReadExtensionHeader consumes an extension framing header, returning the
// application type code and payload length. The payload itself is the next
// `length` bytes and is not consumed by this call.
func (r *Reader) ReadExtensionHeader() (typ int8, length int, err error) {
	res, t, l, n := r.df.TryReadExtensionHeader(r.Remaining())
	if err := wrap("ReadExtensionHeader", res); err != nil {
		return 0, 0, err
	}
	r.advance(n)
	return t, l, nil
}

// ReadRaw consumes exactly n raw bytes without interpreting them, used after
// ReadExtensionHeader to pull the payload.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if len(r.Remaining()) < n {
		return nil, &ErrNotEnoughBytes{Op: "ReadRaw"}
	}
	v := r.Remaining()[:n]
	r.advance(n)
	return v, nil
}

// PeekNextCode reports the raw leading byte of the next token.
func (r *Reader) PeekNextCode() (byte, error) {
	res, c := r.df.TryPeekNextCode(r.Remaining())
	if err := wrap("PeekNextCode", res); err != nil {
		return 0, err
	}
	return c, nil
}

// PeekNextType classifies the next token without consuming it.
func (r *Reader) PeekNextType() (msgpack.TypeCode, error) {
	res, tc := r.df.TryPeekNextType(r.Remaining())
	if err := wrap("PeekNextType", res); err != nil {
		return msgpack.TypeUnknown, err
	}
	return tc, nil
}

// Skip advances past one complete structure. depthStep is invoked once per
// container nesting level descended into; pass nil to skip without depth
// accounting.
func (r *Reader) Skip(depthStep func() error) error {
	res, n := r.df.TrySkip(r.Remaining(), depthStep)
	if err := wrap("Skip", res); err != nil {
		return err
	}
	r.advance(n)
	return nil
}

// SkipRaw behaves like Skip but also returns a view of the bytes
// consumed, for callers (e.g. UnusedDataPacket capture, RawMessagePack)
// that need the still-encoded form of a value they are not decoding. The
// returned slice aliases the Reader's buffer and must be copied before it
// outlives this call.
func (r *Reader) SkipRaw(depthStep func() error) ([]byte, error) {
	start := r.pos
	if err := r.Skip(depthStep); err != nil {
		return nil, err
	}
	return r.buf[start:r.pos], nil
}
