package mpschema

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/mpschema/mpschema/logging"
	"github.com/mpschema/mpschema/refid"
)

// ShapeProvider resolves the Schema for a runtime value. It is the sole
// collaborator the converter pipeline treats as external: shape discovery
// (field enumeration, constructor metadata) is entirely its concern.
type ShapeProvider interface {
	ShapeOf(v any) (*Schema, error)
}

// Context is the per-call record threaded through every converter
// invocation. It is deliberately passed by value: DepthStep returns a new
// Context with the depth counter decremented, so the "depth is restored on
// stack unwind" invariant falls out of ordinary Go call-by-value semantics
// rather than needing an explicit restore.
type Context struct {
	ctx context.Context

	maxDepth          int
	depthRemaining    int
	unflushedBytesThreshold int

	shapes ShapeProvider
	cache  *ConverterCache
	refs   *refid.Tracker

	logger logging.Logger
	tracer trace.Tracer

	extensions map[any]any
}

// NewContext builds a root Context (depthRemaining == maxDepth) for one
// serialization/deserialization call.
func NewContext(ctx context.Context, opts Options) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	c := Context{
		ctx:                     ctx,
		maxDepth:                opts.MaxDepth,
		depthRemaining:          opts.MaxDepth,
		unflushedBytesThreshold: opts.UnflushedBytesThreshold,
		shapes:                  opts.Shapes,
		cache:                   opts.cache,
		logger:                  opts.Logger,
		tracer:                  opts.Tracer,
		extensions:              map[any]any{},
	}
	if opts.PreserveReferences {
		c.refs = refid.Acquire()
	}
	return c
}

// End returns any reference tracker back to its pool. Callers invoke this
// once per top-level serialize/deserialize call, mirroring the spec's
// context-recycling lifecycle.
func (c *Context) End() {
	if c.refs != nil {
		refid.Release(c.refs)
		c.refs = nil
	}
}

// DepthStep decrements the remaining depth budget, raising DepthExceeded on
// breach, and observes cancellation. The returned Context is what the
// caller must thread into the next level of recursion; the receiver is
// left untouched, so returning from the current call automatically
// "restores" depth for the caller's siblings.
func (c Context) DepthStep() (Context, error) {
	if err := c.ctx.Err(); err != nil {
		return c, NewCancelledError(err)
	}
	if c.depthRemaining <= 0 {
		return c, NewDepthExceededError(c.maxDepth)
	}
	c.depthRemaining--
	return c, nil
}

// Cancelled reports whether the cancellation signal has fired.
func (c Context) Cancelled() error {
	return c.ctx.Err()
}

// Context returns the underlying stdlib context, for passing to blocking
// I/O calls (msgio.AsyncReader.FetchMoreBytes and friends).
func (c Context) Context() context.Context { return c.ctx }

// Shapes returns the shape provider for this call.
func (c Context) Shapes() ShapeProvider { return c.shapes }

// Cache returns the converter cache shared across calls on this serializer.
func (c Context) Cache() *ConverterCache { return c.cache }

// References returns the reference-identity tracker for this call, or nil
// if reference preservation is disabled.
func (c Context) References() *refid.Tracker { return c.refs }

// Logger returns the diagnostic logger for this call.
func (c Context) Logger() logging.Logger { return c.logger }

// Tracer returns the otel tracer for this call.
func (c Context) Tracer() trace.Tracer { return c.tracer }

// UnflushedBytesThreshold returns the configured flush threshold.
func (c Context) UnflushedBytesThreshold() int { return c.unflushedBytesThreshold }

// Extension looks up an opaque user extension value by key.
func (c Context) Extension(key any) (any, bool) {
	v, ok := c.extensions[key]
	return v, ok
}

// WithExtension returns a Context carrying an additional extension entry.
// Like DepthStep, this never mutates the receiver's map in place; a fresh
// map is allocated so sibling branches of the call tree never observe each
// other's extensions.
func (c Context) WithExtension(key, value any) Context {
	next := make(map[any]any, len(c.extensions)+1)
	for k, v := range c.extensions {
		next[k] = v
	}
	next[key] = value
	c.extensions = next
	return c
}
