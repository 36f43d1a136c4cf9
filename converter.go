package mpschema

import (
	"sync"

	"github.com/mpschema/mpschema/msgio"
)

// Converter is a codec for Go type T: Read consumes exactly one top-level
// MessagePack structure and produces a T; Write emits exactly one. A
// Converter must be safe for concurrent use by independent calls (it holds
// no per-call state of its own — that all lives in Context).
type Converter[T any] interface {
	Read(r *msgio.Reader, ctx Context) (T, error)
	Write(w *msgio.Writer, v T, ctx Context) error

	// PreferAsync is true iff this converter, or any converter it is
	// composed of, performs best driven through the async/streaming path
	// (e.g. because the shape is large or itself async-preferring).
	PreferAsync() bool
}

// AsyncConverter is the optional async extension of Converter. A
// converter need not implement it; callers fall back to buffering a full
// structure via AsyncReader.BufferNextStructureAsync and calling Read.
type AsyncConverter[T any] interface {
	Converter[T]
	ReadAsync(ar *msgio.AsyncReader, ctx Context) (T, error)
	WriteAsync(aw *msgio.AsyncWriter, v T, ctx Context) error
}

// PropertySkipper is an optional extension an ObjectMapConverter-like
// converter implements to skip directly to a named property without
// materializing the ones before it.
type PropertySkipper interface {
	SkipToProperty(name string) error
}

// IndexSkipper is the ObjectArrayConverter analogue of PropertySkipper.
type IndexSkipper interface {
	SkipToIndex(idx int) error
}

// untyped is the type-erased form of Converter[T], used for heterogeneous
// storage in the converter cache and for dynamic per-field dispatch inside
// object/map/array converters, which only learn a field's concrete type
// through the external ShapeProvider at run time.
type untyped interface {
	readAny(r *msgio.Reader, ctx Context) (any, error)
	writeAny(w *msgio.Writer, v any, ctx Context) error
	preferAsync() bool
}

// typedAdapter erases a Converter[T] into untyped.
type typedAdapter[T any] struct {
	inner Converter[T]
}

func (t typedAdapter[T]) readAny(r *msgio.Reader, ctx Context) (any, error) {
	return t.inner.Read(r, ctx)
}

func (t typedAdapter[T]) writeAny(w *msgio.Writer, v any, ctx Context) error {
	tv, ok := v.(T)
	if !ok {
		return NewNotSupportedError("value does not match converter's declared type")
	}
	return t.inner.Write(w, tv, ctx)
}

func (t typedAdapter[T]) preferAsync() bool { return t.inner.PreferAsync() }

// Erase wraps a typed Converter for storage alongside converters of other
// types, e.g. in a Schema's Properties or a SubTypes dispatch table.
func Erase[T any](c Converter[T]) untyped { return typedAdapter[T]{inner: c} }

// delayedConverter is the recursion-safe placeholder described in §4.6: it
// is installed into the cache before the real converter for a type is
// built, so a cyclic type graph's recursive construction can obtain it and
// complete; once the real converter is ready, fill makes every holder of
// this placeholder transparently forward to it.
type delayedConverter[T any] struct {
	mu   sync.RWMutex
	real Converter[T]
}

func (d *delayedConverter[T]) fill(real Converter[T]) {
	d.mu.Lock()
	d.real = real
	d.mu.Unlock()
}

func (d *delayedConverter[T]) get() Converter[T] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.real
}

func (d *delayedConverter[T]) Read(r *msgio.Reader, ctx Context) (T, error) {
	return d.get().Read(r, ctx)
}

func (d *delayedConverter[T]) Write(w *msgio.Writer, v T, ctx Context) error {
	return d.get().Write(w, v, ctx)
}

func (d *delayedConverter[T]) PreferAsync() bool { return d.get().PreferAsync() }

// cacheEntry is one converter cache slot: a fillable placeholder installed
// immediately, and the finished converter once construction completes.
type cacheEntry struct {
	mu      sync.RWMutex
	built   any // Converter[T], set exactly once
	delayed any // *delayedConverter[T]
}

// ConverterCache interns converters by shape identity, so each distinct
// type has exactly one Converter for the serializer's lifetime. Every
// lookup briefly takes the cache mutex and then the entry's read lock; new
// entries are installed under the cache mutex, and cycle-safe construction
// is handled via delayedConverter.
type ConverterCache struct {
	mu      sync.Mutex
	entries map[ShapeID]*cacheEntry
}

// NewConverterCache returns an empty cache.
func NewConverterCache() *ConverterCache {
	return &ConverterCache{entries: map[ShapeID]*cacheEntry{}}
}

// GetConverter returns the interned Converter[T] for shape, building it
// with build if this is the first request. Recursive calls to
// GetConverter for the same shape.ID made from within build (directly or
// transitively, e.g. resolving a self-referential field) receive the
// delayed placeholder rather than recursing into build again.
func GetConverter[T any](cache *ConverterCache, shape *Schema, build func() Converter[T]) Converter[T] {
	cache.mu.Lock()
	entry, ok := cache.entries[shape.ID]
	if ok {
		cache.mu.Unlock()
		entry.mu.RLock()
		built := entry.built
		entry.mu.RUnlock()
		if built != nil {
			return built.(Converter[T])
		}
		return entry.delayed.(*delayedConverter[T])
	}

	entry = &cacheEntry{}
	placeholder := &delayedConverter[T]{}
	entry.delayed = placeholder
	cache.entries[shape.ID] = entry
	cache.mu.Unlock()

	real := build()
	placeholder.fill(real)

	entry.mu.Lock()
	entry.built = real
	entry.mu.Unlock()

	return real
}
