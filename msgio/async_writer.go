package msgio

import (
	"context"
	"errors"
	"io"
)

// ErrWriterCheckedOut mirrors ErrReaderCheckedOut for the write side.
var ErrWriterCheckedOut = errors.New("msgio: sync writer already checked out")

// ErrWriterNotCheckedOut mirrors ErrReaderNotCheckedOut for the write side.
var ErrWriterNotCheckedOut = errors.New("msgio: no sync writer is checked out")

// ErrReceiverClosed is returned when the underlying sink has stopped
// accepting writes (e.g. the other end of a pipe closed). It wraps the
// underlying error for inspection via errors.Unwrap.
type ErrReceiverClosed struct {
	Err error
}

func (e *ErrReceiverClosed) Error() string { return "msgio: receiver closed: " + e.Err.Error() }
func (e *ErrReceiverClosed) Unwrap() error { return e.Err }

// AsyncWriter is a long-lived handle wrapping a pipe (any io.Writer). It
// hands out a single Writer cursor at a time and tracks how many bytes
// have accumulated since the last flush, so callers can bound memory with
// IsTimeToFlush/FlushIfAppropriate instead of flushing after every value.
type AsyncWriter struct {
	dst        io.Writer
	w          *Writer
	checkedOut bool
	closed     error
}

// NewAsyncWriter wraps dst.
func NewAsyncWriter(dst io.Writer) *AsyncWriter {
	return &AsyncWriter{dst: dst, w: NewWriter(nil)}
}

// CreateSyncWriter checks out the writer cursor. The caller must
// ReturnWriter before calling this again or before performing any other
// suspending operation on this AsyncWriter.
func (a *AsyncWriter) CreateSyncWriter() (*Writer, error) {
	if a.checkedOut {
		return nil, ErrWriterCheckedOut
	}
	a.checkedOut = true
	return a.w, nil
}

// ReturnWriter releases the checkout.
func (a *AsyncWriter) ReturnWriter(w *Writer) error {
	if !a.checkedOut {
		return ErrWriterNotCheckedOut
	}
	a.checkedOut = false
	return nil
}

// Unflushed reports how many bytes are buffered but not yet written to the
// underlying sink.
func (a *AsyncWriter) Unflushed() int { return a.w.Len() }

// IsTimeToFlush reports whether the unflushed byte count, plus extra bytes
// about to be written, would meet or exceed threshold. extra lets a caller
// check before appending a large value that is about to push it over.
func (a *AsyncWriter) IsTimeToFlush(threshold, extra int) bool {
	return a.Unflushed()+extra >= threshold
}

// FlushIfAppropriate flushes to the underlying sink only if IsTimeToFlush
// holds for the current buffer, returning false (and doing nothing) if not.
func (a *AsyncWriter) FlushIfAppropriate(ctx context.Context, threshold int) (bool, error) {
	if !a.IsTimeToFlush(threshold, 0) {
		return false, nil
	}
	return true, a.Flush(ctx)
}

// Flush performs one blocking write of everything buffered so far to the
// underlying sink, then resets the buffer. A write error that looks like a
// closed pipe is surfaced as ErrReceiverClosed so callers can distinguish
// "the reader went away" from a transient I/O failure.
func (a *AsyncWriter) Flush(ctx context.Context) error {
	if a.closed != nil {
		return &ErrReceiverClosed{Err: a.closed}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.w.Len() == 0 {
		return nil
	}
	_, err := a.dst.Write(a.w.Bytes())
	if err != nil {
		if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.EOF) {
			a.closed = err
			return &ErrReceiverClosed{Err: err}
		}
		return err
	}
	a.w = NewWriter(nil)
	return nil
}
