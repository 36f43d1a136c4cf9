package mpschema_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
)

func TestMapConverter_RoundTrip(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.Map[string, int32](mpschema.String(), mpschema.Int32())

	want := map[string]int32{"a": 1, "b": 2, "c": 3}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// sortedPairs is a minimal immutable association-list type standing in for
// a target language's frozen/sorted dictionary.
type sortedPairs struct {
	keys   []string
	values []int32
}

func fromPairsSorted(pairs []mpschema.KV[string, int32]) (sortedPairs, error) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	sp := sortedPairs{}
	for _, p := range pairs {
		sp.keys = append(sp.keys, p.Key)
		sp.values = append(sp.values, p.Value)
	}
	return sp, nil
}

func toPairsSorted(sp sortedPairs) []mpschema.KV[string, int32] {
	pairs := make([]mpschema.KV[string, int32], len(sp.keys))
	for i, k := range sp.keys {
		pairs[i] = mpschema.KV[string, int32]{Key: k, Value: sp.values[i]}
	}
	return pairs
}

func TestImmutableDictionary_RoundTrip(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.ImmutableDictionary[sortedPairs, string, int32](
		mpschema.String(), mpschema.Int32(), fromPairsSorted, toPairsSorted)

	want := sortedPairs{keys: []string{"x", "y"}, values: []int32{10, 20}}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEnumerableDictionary_RoundTrip(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.EnumerableDictionary[sortedPairs, string, int32](
		mpschema.String(), mpschema.Int32(),
		func(next func() (mpschema.KV[string, int32], bool)) (sortedPairs, error) {
			sp := sortedPairs{}
			for {
				p, ok := next()
				if !ok {
					break
				}
				sp.keys = append(sp.keys, p.Key)
				sp.values = append(sp.values, p.Value)
			}
			return sp, nil
		},
		func(sp sortedPairs, yield func(mpschema.KV[string, int32]) bool) {
			for i, k := range sp.keys {
				if !yield(mpschema.KV[string, int32]{Key: k, Value: sp.values[i]}) {
					return
				}
			}
		},
	)

	want := sortedPairs{keys: []string{"p", "q"}, values: []int32{100, 200}}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
