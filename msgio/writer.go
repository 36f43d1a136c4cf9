package msgio

import (
	"github.com/mpschema/mpschema/encoding/msgpack"
)

// Writer is a borrowed cursor over a growable byte buffer. Writes are
// infallible at the API level; errors in converter-level writes come from
// the converters themselves (e.g. RawMessagePack on an empty value), not
// from the Writer.
type Writer struct {
	buf []byte
	fmt msgpack.Formatter
}

// NewWriter returns a Writer appending to buf (nil is fine and the common
// case for a fresh write).
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the buffer written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written so far, used by AsyncWriter's
// flush-threshold accounting.
func (w *Writer) Len() int { return len(w.buf) }

// WriteNil appends the nil sentinel.
func (w *Writer) WriteNil() { w.buf = w.fmt.WriteNil(w.buf) }

// WriteBool appends a boolean scalar.
func (w *Writer) WriteBool(v bool) { w.buf = w.fmt.WriteBool(w.buf, v) }

// WriteInt appends the smallest encoding that represents v.
func (w *Writer) WriteInt(v int64) { w.buf = w.fmt.WriteInt(w.buf, v) }

// WriteUint appends the smallest encoding that represents v.
func (w *Writer) WriteUint(v uint64) { w.buf = w.fmt.WriteUint(w.buf, v) }

// WriteFloat32 appends a float32 scalar.
func (w *Writer) WriteFloat32(v float32) { w.buf = w.fmt.WriteFloat32(w.buf, v) }

// WriteFloat64 appends a float64 scalar.
func (w *Writer) WriteFloat64(v float64) { w.buf = w.fmt.WriteFloat64(w.buf, v) }

// WriteString appends a UTF-8 text string.
func (w *Writer) WriteString(v string) { w.buf = w.fmt.WriteString(w.buf, v) }

// WriteBinary appends a binary blob.
func (w *Writer) WriteBinary(v []byte) { w.buf = w.fmt.WriteBinary(w.buf, v) }

// WriteArrayHeader opens an array of the given element count.
func (w *Writer) WriteArrayHeader(length int) { w.buf = w.fmt.WriteArrayHeader(w.buf, length) }

// WriteMapHeader opens a map of the given pair count.
func (w *Writer) WriteMapHeader(count int) { w.buf = w.fmt.WriteMapHeader(w.buf, count) }

// WriteExtensionHeader opens an extension value; the caller appends the
// payload with WriteRaw.
func (w *Writer) WriteExtensionHeader(typ int8, length int) {
	w.buf = w.fmt.WriteExtensionHeader(w.buf, typ, length)
}

// WriteRaw appends b verbatim, used for pre-encoded property-name bytes and
// RawMessagePack passthrough.
func (w *Writer) WriteRaw(b []byte) { w.buf = append(w.buf, b...) }
