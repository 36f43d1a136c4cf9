package mpschema

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mpschema/mpschema/msgio"
)

// Serializer is the constructed, ready-to-use facade over one Options
// configuration: the converter cache, shape provider, and reference-
// tracker pooling it wires together are shared across every Marshal and
// Unmarshal call made through it.
type Serializer struct {
	opts Options
}

// NewSerializer builds a Serializer from the given options, applied over
// DefaultOptions.
func NewSerializer(opts ...Option) *Serializer {
	return &Serializer{opts: NewOptions(opts...)}
}

func (s *Serializer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.opts.Tracer.Start(ctx, "mpschema."+name)
}

// Marshal encodes v with conv, returning the complete MessagePack byte
// sequence.
func Marshal[T any](ctx context.Context, s *Serializer, conv Converter[T], v T) ([]byte, error) {
	ctx, span := s.startSpan(ctx, "Marshal")
	defer span.End()

	rc := NewContext(ctx, s.opts)
	rc = rc.WithExtension(serializeDefaultsPolicyKey{}, s.opts.SerializeDefaultValuesPolicy)
	defer rc.End()

	w := msgio.NewWriter(nil)
	if err := conv.Write(w, v, rc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("mpschema.bytes_written", w.Len()))
	return w.Bytes(), nil
}

// Unmarshal decodes one complete MessagePack structure from data with
// conv. data must hold the entire structure; there is no further input to
// await, matching msgio.Reader's failing-fast contract.
func Unmarshal[T any](ctx context.Context, s *Serializer, conv Converter[T], data []byte) (T, error) {
	ctx, span := s.startSpan(ctx, "Unmarshal")
	defer span.End()

	rc := NewContext(ctx, s.opts)
	rc = rc.WithExtension(deserializeDefaultsPolicyKey{}, s.opts.DeserializeDefaultValuesPolicy)
	defer rc.End()

	r := msgio.NewReader(data, true)
	v, err := conv.Read(r, rc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

// deserializeDefaultsPolicyKey is the Context extension key the
// deserialize-side default-values policy is threaded under, the read-side
// counterpart of serializeDefaultsPolicyKey.
type deserializeDefaultsPolicyKey struct{}

// PrewarmConverters runs each builder concurrently, bounded by
// maxConcurrent in flight at once, so that resolving a large registry of
// interdependent shapes up front (rather than lazily on first use) does
// not let an unbounded fan-out of recursive GetConverter calls pile up.
// Each builder is expected to call GetConverter for one root shape; the
// converter cache's own locking makes the concurrent calls safe. The
// first builder error cancels the remaining ones via the shared group
// context.
func PrewarmConverters(ctx context.Context, maxConcurrent int64, builders ...func() error) error {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	sem := semaphore.NewWeighted(maxConcurrent)
	g, gctx := errgroup.WithContext(ctx)
	for _, build := range builders {
		build := build
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return build()
		})
	}
	return g.Wait()
}
