package mpschema

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpschema/mpschema/logging"
)

// DefaultValuesPolicy is a bit flag controlling how properties at their
// zero/default value are treated.
type DefaultValuesPolicy int

// Serialize-side bits.
const (
	// SkipIfDefault omits a property from the wire when it equals its
	// declared default, mirroring the teacher's JSON omitempty posture.
	SkipIfDefault DefaultValuesPolicy = 1 << iota
	// Always emits every property regardless of value.
	Always
)

// Deserialize-side bits. Numbered starting above the serialize-side bits
// so a caller who accidentally ORs a value from the wrong side together
// with its counterpart does not silently collide with it.
const (
	// AllowMissing tolerates a payload that omits non-required properties.
	AllowMissing DefaultValuesPolicy = 1 << (iota + 2)
	// RequireAllProperties raises MissingRequiredProperty for every
	// declared property the payload leaves unassigned, independent of the
	// required trait.
	RequireAllProperties
)

const (
	defaultMaxDepth                = 64
	defaultUnflushedBytesThreshold = 65536
)

// Options is the configuration surface applied at serializer construction.
type Options struct {
	MaxDepth                int
	UnflushedBytesThreshold int
	PreserveReferences      bool

	SerializeDefaultValuesPolicy   DefaultValuesPolicy
	DeserializeDefaultValuesPolicy DefaultValuesPolicy

	Shapes ShapeProvider
	Logger logging.Logger

	// Tracer emits spans around top-level Marshal/Unmarshal calls.
	// Defaults to the global otel
	// tracer, a no-op unless the host process configures an SDK —
	// mirroring the teacher's own tracing.NopTracer default posture.
	Tracer trace.Tracer

	cache *ConverterCache
}

// Option mutates an Options record; used with NewSerializer.
type Option func(*Options)

// DefaultOptions returns the spec-mandated defaults: max_depth 64,
// unflushed_bytes_threshold 65536, reference preservation off.
func DefaultOptions() Options {
	return Options{
		MaxDepth:                       defaultMaxDepth,
		UnflushedBytesThreshold:        defaultUnflushedBytesThreshold,
		SerializeDefaultValuesPolicy:   SkipIfDefault,
		DeserializeDefaultValuesPolicy: AllowMissing,
		Logger:                         logging.Noop{},
		Tracer:                         otel.Tracer("github.com/mpschema/mpschema"),
		cache:                          NewConverterCache(),
	}
}

// WithTracer overrides the otel tracer used for Marshal/Unmarshal spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) { o.Tracer = t }
}

// WithMaxDepth overrides the recursion depth guard.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithUnflushedBytesThreshold overrides the async-writer flush threshold.
func WithUnflushedBytesThreshold(n int) Option {
	return func(o *Options) { o.UnflushedBytesThreshold = n }
}

// WithPreserveReferences turns on reference-identity tracking.
func WithPreserveReferences(v bool) Option {
	return func(o *Options) { o.PreserveReferences = v }
}

// WithSerializeDefaultValuesPolicy overrides the serialize-side default
// values policy.
func WithSerializeDefaultValuesPolicy(p DefaultValuesPolicy) Option {
	return func(o *Options) { o.SerializeDefaultValuesPolicy = p }
}

// WithDeserializeDefaultValuesPolicy overrides the deserialize-side
// default values policy.
func WithDeserializeDefaultValuesPolicy(p DefaultValuesPolicy) Option {
	return func(o *Options) { o.DeserializeDefaultValuesPolicy = p }
}

// WithShapeProvider sets the shape provider used to resolve Schemas for
// runtime values.
func WithShapeProvider(s ShapeProvider) Option {
	return func(o *Options) { o.Shapes = s }
}

// WithLogger overrides the diagnostic logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
