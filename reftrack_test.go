package mpschema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
)

func TestReferenceTracking_SharedPointerDeduplicates(t *testing.T) {
	elem := mpschema.WithReferenceTracking[*int32](mpschema.Nullable[int32](mpschema.Int32()))
	arr := mpschema.Array[*int32](elem)

	s := mpschema.NewSerializer(mpschema.WithPreserveReferences(true))

	shared := int32(42)
	want := []*int32{&shared, &shared}

	data, err := mpschema.Marshal(context.Background(), s, arr, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, arr, data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int32(42), *got[0])
	require.Same(t, got[0], got[1])
}

func TestReferenceTracking_DisabledWritesEveryOccurrence(t *testing.T) {
	elem := mpschema.WithReferenceTracking[*int32](mpschema.Nullable[int32](mpschema.Int32()))
	arr := mpschema.Array[*int32](elem)

	s := mpschema.NewSerializer()

	shared := int32(7)
	want := []*int32{&shared, &shared}

	data, err := mpschema.Marshal(context.Background(), s, arr, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, arr, data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int32(7), *got[0])
	require.Equal(t, int32(7), *got[1])
	require.NotSame(t, got[0], got[1])
}
