package msgio

import (
	"github.com/mpschema/mpschema/encoding/msgpack"
)

// StreamingReader is the refillable form of Reader: every read returns a
// msgpack.DecodeResult instead of an error, and on InsufficientBuffer the
// cursor position is left unchanged so the caller can extend the
// underlying buffer (via AsyncReader.FetchMoreBytes) and retry the same
// call.
//
// Unlike Reader, StreamingReader is safe to keep across a refill: its
// buffer is a pointer to a slice that AsyncReader grows in place, so the
// position it tracks stays valid after a refill appends more bytes.
type StreamingReader struct {
	buf *[]byte
	pos int
	df  *msgpack.Deformatter
}

// NewStreamingReader wraps buf (taken by reference so AsyncReader can grow
// it between calls) for streaming reads.
func NewStreamingReader(buf *[]byte) *StreamingReader {
	return &StreamingReader{buf: buf, df: msgpack.NewDeformatter()}
}

// SetEOF marks the byte source as exhausted; see msgpack.Deformatter.SetEOF.
func (s *StreamingReader) SetEOF(eof bool) { s.df.SetEOF(eof) }

// Pos returns the current cursor offset.
func (s *StreamingReader) Pos() int { return s.pos }

func (s *StreamingReader) remaining() []byte { return (*s.buf)[s.pos:] }

// TryReadNull mirrors Reader.ReadNull but under the streaming protocol.
func (s *StreamingReader) TryReadNull() (msgpack.DecodeResult, bool) {
	res, isNull, n := s.df.TryReadNull(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, isNull
}

// TryPeekNextType classifies the next token without consuming it.
func (s *StreamingReader) TryPeekNextType() (msgpack.DecodeResult, msgpack.TypeCode) {
	return s.df.TryPeekNextType(s.remaining())
}

// TryReadArrayHeader mirrors Reader.ReadArrayHeader.
func (s *StreamingReader) TryReadArrayHeader() (msgpack.DecodeResult, int) {
	res, length, n := s.df.TryReadArrayHeader(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, length
}

// TryReadMapHeader mirrors Reader.ReadMapHeader.
func (s *StreamingReader) TryReadMapHeader() (msgpack.DecodeResult, int) {
	res, count, n := s.df.TryReadMapHeader(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, count
}

// TryReadBool mirrors Reader.ReadBool.
func (s *StreamingReader) TryReadBool() (msgpack.DecodeResult, bool) {
	res, v, n := s.df.TryReadBool(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, v
}

// TryReadInt64 mirrors Reader.ReadInt64.
func (s *StreamingReader) TryReadInt64() (msgpack.DecodeResult, int64) {
	res, v, n := s.df.TryReadInt64(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, v
}

// TryReadFloat64 mirrors Reader.ReadFloat64.
func (s *StreamingReader) TryReadFloat64() (msgpack.DecodeResult, float64) {
	res, v, n := s.df.TryReadFloat64(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, v
}

// TryReadStringSpan mirrors Reader.ReadStringSpan, reporting contiguity so
// the caller can fall back when the payload straddles a refill boundary
// (never true here since buf is grown in place, but kept for protocol
// fidelity with spec.md's try_read_string_sequence fallback path).
func (s *StreamingReader) TryReadStringSpan() (msgpack.DecodeResult, bool, []byte) {
	res, contiguous, span, n := s.df.TryReadStringSpan(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, contiguous, span
}

// TryReadBinary mirrors Reader.ReadBinary.
func (s *StreamingReader) TryReadBinary() (msgpack.DecodeResult, []byte) {
	res, v, n := s.df.TryReadBinary(s.remaining())
	if res == msgpack.Success {
		s.pos += n
	}
	return res, v
}

// TrySkip mirrors Reader.Skip.
func (s *StreamingReader) TrySkip(depthStep func() error) msgpack.DecodeResult {
	res, n := s.df.TrySkip(s.remaining(), depthStep)
	if res == msgpack.Success {
		s.pos += n
	}
	return res
}

// HasCompleteStructure reports whether a full top-level structure lies in
// the buffer from the current position, without consuming it. Used by
// AsyncReader.BufferNextStructureAsync.
func (s *StreamingReader) HasCompleteStructure(depthStep func() error) bool {
	save := s.pos
	res := s.TrySkip(depthStep)
	s.pos = save
	return res == msgpack.Success
}

// AsReader hands back a non-streaming Reader over the same bytes, starting
// at the current position, for callers that have confirmed (e.g. via
// HasCompleteStructure) that no further refills are needed for the next
// operation.
func (s *StreamingReader) AsReader() *Reader {
	r := NewReader((*s.buf)[s.pos:], false)
	return r
}

// Advance moves the cursor forward by n bytes, used after delegating to a
// sync Reader obtained via AsReader.
func (s *StreamingReader) Advance(n int) { s.pos += n }
