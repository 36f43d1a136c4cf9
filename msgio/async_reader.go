package msgio

import (
	"context"
	"errors"
	"io"
)

// ErrReaderCheckedOut is returned by CreateStreamingReader when a
// previously issued streaming reader has not yet been returned. The
// single-writer-cursor protocol this enforces exists so that a sync cursor
// is never left dangling across an await boundary — see spec.md §5.
var ErrReaderCheckedOut = errors.New("msgio: streaming reader already checked out")

// ErrReaderNotCheckedOut is returned by ReturnReader when nothing was
// checked out, almost always a caller bug.
var ErrReaderNotCheckedOut = errors.New("msgio: no streaming reader is checked out")

const defaultFetchSize = 4096

// AsyncReader is a long-lived handle wrapping a pipe (any io.Reader). It
// owns a growable internal buffer and hands out a single StreamingReader
// cursor at a time, enforcing the "checked out until returned" protocol
// spec.md's concurrency model requires: a caller must ReturnReader before
// suspending (awaiting) anywhere else, since Go's lack of a linear type
// system means this can only be enforced at runtime.
type AsyncReader struct {
	src        io.Reader
	buf        []byte
	sr         *StreamingReader
	checkedOut bool
	eof        bool
}

// NewAsyncReader wraps src.
func NewAsyncReader(src io.Reader) *AsyncReader {
	a := &AsyncReader{src: src}
	a.sr = NewStreamingReader(&a.buf)
	return a
}

// CreateStreamingReader checks out the streaming cursor. The caller must
// ReturnReader before calling this again or before performing any other
// suspending operation on this AsyncReader.
func (a *AsyncReader) CreateStreamingReader() (*StreamingReader, error) {
	if a.checkedOut {
		return nil, ErrReaderCheckedOut
	}
	a.checkedOut = true
	return a.sr, nil
}

// CreateSyncReader hands out a one-shot Reader over whatever is currently
// buffered, for callers that have already confirmed (e.g. via
// BufferNextStructureAsync) that the buffer holds a complete structure.
// Like the streaming cursor, it must be returned (ReturnSyncReader) before
// any further suspension.
func (a *AsyncReader) CreateSyncReader() (*Reader, error) {
	if a.checkedOut {
		return nil, ErrReaderCheckedOut
	}
	a.checkedOut = true
	return NewReader(a.buf, a.eof), nil
}

// ReturnSyncReader commits the position a plain Reader reached and releases
// the checkout.
func (a *AsyncReader) ReturnSyncReader(r *Reader) {
	a.compact(r.Pos())
	a.checkedOut = false
}

// ReturnReader releases the checkout on the streaming cursor, compacting
// consumed bytes out of the internal buffer.
func (a *AsyncReader) ReturnReader(sr *StreamingReader) error {
	if !a.checkedOut {
		return ErrReaderNotCheckedOut
	}
	a.compact(sr.Pos())
	a.checkedOut = false
	return nil
}

func (a *AsyncReader) compact(consumed int) {
	if consumed <= 0 {
		return
	}
	a.buf = append(a.buf[:0], a.buf[consumed:]...)
	a.sr.pos = 0
}

// FetchMoreBytes performs one blocking read from the underlying source,
// appending whatever arrives to the internal buffer. It is the single
// suspension point of the async read path; ctx cancellation is honored
// between fetches, not mid-syscall (Go's io.Reader has no native
// cancellation hook).
func (a *AsyncReader) FetchMoreBytes(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.eof {
		return io.EOF
	}

	tmp := make([]byte, defaultFetchSize)
	n, err := a.src.Read(tmp)
	if n > 0 {
		a.buf = append(a.buf, tmp[:n]...)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			a.eof = true
			a.sr.SetEOF(true)
			return nil
		}
		return err
	}
	return nil
}

// BufferNextStructureAsync reads ahead until at least one full top-level
// structure lies in contiguous buffer memory, so the caller can cheaply
// obtain a sync Reader for that region via CreateSyncReader.
func (a *AsyncReader) BufferNextStructureAsync(ctx context.Context, depthStep func() error) error {
	for {
		if a.sr.HasCompleteStructure(depthStep) {
			return nil
		}
		if a.eof {
			return io.ErrUnexpectedEOF
		}
		if err := a.FetchMoreBytes(ctx); err != nil {
			return err
		}
	}
}

// BufferNextStructuresAsync greedily buffers at least min structures worth
// of bytes (blocking until available), and at most max structures worth
// (to bound memory/latency), returning the number of complete structures
// actually buffered.
func (a *AsyncReader) BufferNextStructuresAsync(ctx context.Context, min, max int, depthStep func() error) (int, error) {
	if min < 1 {
		min = 1
	}
	// The cursor steps past each structure as it is counted, so the next
	// check looks at the following one; it is restored before returning.
	save := a.sr.pos
	defer func() { a.sr.pos = save }()
	count := 0
	for count < min {
		if err := a.BufferNextStructureAsync(ctx, depthStep); err != nil {
			return count, err
		}
		a.sr.TrySkip(depthStep)
		count++
		if count >= max {
			return count, nil
		}
	}
	for count < max && a.peekHasAnother(depthStep) {
		if err := a.BufferNextStructureAsync(ctx, depthStep); err != nil {
			return count, err
		}
		a.sr.TrySkip(depthStep)
		count++
	}
	return count, nil
}

// peekHasAnother counts one more structure's worth without consuming
// anything, used to decide whether greedy batch-buffering should keep
// going without blocking on a fetch that might never resolve for a
// currently-satisfied max.
func (a *AsyncReader) peekHasAnother(depthStep func() error) bool {
	save := a.sr.pos
	// the caller has already moved the cursor past the structures counted
	// so far; check for one more starting there.
	a.sr.pos = save
	ok := a.sr.HasCompleteStructure(depthStep)
	a.sr.pos = save
	return ok
}

// SkipAsync drains one structure from the source without materializing it.
func (a *AsyncReader) SkipAsync(ctx context.Context, depthStep func() error) error {
	if err := a.BufferNextStructureAsync(ctx, depthStep); err != nil {
		return err
	}
	sr, err := a.CreateStreamingReader()
	if err != nil {
		return err
	}
	defer a.ReturnReader(sr)

	res := sr.TrySkip(depthStep)
	return wrap("SkipAsync", res)
}
