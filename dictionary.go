package mpschema

import (
	"github.com/mpschema/mpschema/msgio"
)

// KV is one key/value pair read off the wire before being handed to a
// target-specific dictionary constructor.
type KV[K any, V any] struct {
	Key   K
	Value V
}

// MapConverter is the "Mutable" dictionary variant: it always writes as a
// map header followed by count key/value pairs, and reads by
// default-constructing a Go map and inserting each pair — which is exactly
// what a Go native map's own mutation semantics already give us.
type MapConverter[K comparable, V any] struct {
	Key   Converter[K]
	Value Converter[V]
}

// Map builds a MapConverter over key/value.
func Map[K comparable, V any](key Converter[K], value Converter[V]) *MapConverter[K, V] {
	return &MapConverter[K, V]{Key: key, Value: value}
}

func (d *MapConverter[K, V]) Read(r *msgio.Reader, ctx Context) (map[K]V, error) {
	count, err := r.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	ctx, err = ctx.DepthStep()
	if err != nil {
		return nil, err
	}

	m := make(map[K]V, count)
	for i := 0; i < count; i++ {
		k, err := d.Key.Read(r, ctx)
		if err != nil {
			return nil, err
		}
		v, err := d.Value.Read(r, ctx)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

func (d *MapConverter[K, V]) Write(w *msgio.Writer, v map[K]V, ctx Context) error {
	w.WriteMapHeader(len(v))
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}
	for k, val := range v {
		if err := d.Key.Write(w, k, ctx); err != nil {
			return err
		}
		if err := d.Value.Write(w, val, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *MapConverter[K, V]) PreferAsync() bool { return d.Key.PreferAsync() || d.Value.PreferAsync() }

func readPairs[K any, V any](r *msgio.Reader, ctx Context, key Converter[K], value Converter[V]) ([]KV[K, V], Context, error) {
	count, err := r.ReadMapHeader()
	if err != nil {
		return nil, ctx, err
	}
	ctx, err = ctx.DepthStep()
	if err != nil {
		return nil, ctx, err
	}

	pairs := make([]KV[K, V], count)
	for i := 0; i < count; i++ {
		k, err := key.Read(r, ctx)
		if err != nil {
			return nil, ctx, err
		}
		v, err := value.Read(r, ctx)
		if err != nil {
			return nil, ctx, err
		}
		pairs[i] = KV[K, V]{Key: k, Value: v}
	}
	return pairs, ctx, nil
}

func writePairs[K any, V any](w *msgio.Writer, ctx Context, key Converter[K], value Converter[V], pairs []KV[K, V]) error {
	w.WriteMapHeader(len(pairs))
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if err := key.Write(w, p.Key, ctx); err != nil {
			return err
		}
		if err := value.Write(w, p.Value, ctx); err != nil {
			return err
		}
	}
	return nil
}

// ImmutableDictionaryConverter is the "Immutable" variant: pairs are
// accumulated into a temporary slice, then handed as a span to a
// constructor the target type exposes (e.g. a package-level
// NewFromEntries-style function).
type ImmutableDictionaryConverter[M any, K any, V any] struct {
	Key       Converter[K]
	Value     Converter[V]
	FromPairs func(pairs []KV[K, V]) (M, error)
	ToPairs   func(m M) []KV[K, V]
}

// ImmutableDictionary builds an ImmutableDictionaryConverter.
func ImmutableDictionary[M any, K any, V any](key Converter[K], value Converter[V], fromPairs func([]KV[K, V]) (M, error), toPairs func(M) []KV[K, V]) *ImmutableDictionaryConverter[M, K, V] {
	return &ImmutableDictionaryConverter[M, K, V]{Key: key, Value: value, FromPairs: fromPairs, ToPairs: toPairs}
}

func (d *ImmutableDictionaryConverter[M, K, V]) Read(r *msgio.Reader, ctx Context) (M, error) {
	var zero M
	pairs, _, err := readPairs(r, ctx, d.Key, d.Value)
	if err != nil {
		return zero, err
	}
	return d.FromPairs(pairs)
}

func (d *ImmutableDictionaryConverter[M, K, V]) Write(w *msgio.Writer, v M, ctx Context) error {
	return writePairs(w, ctx, d.Key, d.Value, d.ToPairs(v))
}

func (d *ImmutableDictionaryConverter[M, K, V]) PreferAsync() bool {
	return d.Key.PreferAsync() || d.Value.PreferAsync()
}

// EnumerableDictionaryConverter is the "Enumerable" variant: pairs are
// accumulated into a temporary slice, then passed through a pull-style
// iterator to the target's own factory, rather than as a bare span.
type EnumerableDictionaryConverter[M any, K any, V any] struct {
	Key       Converter[K]
	Value     Converter[V]
	FromSeq   func(next func() (KV[K, V], bool)) (M, error)
	Enumerate func(m M, yield func(KV[K, V]) bool)
}

// EnumerableDictionary builds an EnumerableDictionaryConverter.
func EnumerableDictionary[M any, K any, V any](key Converter[K], value Converter[V], fromSeq func(func() (KV[K, V], bool)) (M, error), enumerate func(M, func(KV[K, V]) bool)) *EnumerableDictionaryConverter[M, K, V] {
	return &EnumerableDictionaryConverter[M, K, V]{Key: key, Value: value, FromSeq: fromSeq, Enumerate: enumerate}
}

func (d *EnumerableDictionaryConverter[M, K, V]) Read(r *msgio.Reader, ctx Context) (M, error) {
	var zero M
	pairs, _, err := readPairs(r, ctx, d.Key, d.Value)
	if err != nil {
		return zero, err
	}
	i := 0
	next := func() (KV[K, V], bool) {
		if i >= len(pairs) {
			return KV[K, V]{}, false
		}
		p := pairs[i]
		i++
		return p, true
	}
	return d.FromSeq(next)
}

func (d *EnumerableDictionaryConverter[M, K, V]) Write(w *msgio.Writer, v M, ctx Context) error {
	var pairs []KV[K, V]
	d.Enumerate(v, func(p KV[K, V]) bool {
		pairs = append(pairs, p)
		return true
	})
	return writePairs(w, ctx, d.Key, d.Value, pairs)
}

func (d *EnumerableDictionaryConverter[M, K, V]) PreferAsync() bool {
	return d.Key.PreferAsync() || d.Value.PreferAsync()
}
