package mpschema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
)

func TestAny_RoundTripScalars(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.Any()

	for _, want := range []any{nil, true, int64(42), "hello", 3.5, []byte{1, 2}} {
		data, err := mpschema.Marshal(context.Background(), s, conv, want)
		require.NoError(t, err)
		got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestAny_RoundTripArray(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.Any()

	want := []any{int64(1), "two", []any{int64(3)}}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestAny_RoundTripMapWidensIntegerKeys(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.Any()

	want := map[any]any{int64(1): "one", "two": int64(2)}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)

	um, ok := got.(*mpschema.UntypedMap)
	require.True(t, ok)
	require.Equal(t, 2, um.Len())

	// written as int64(1), but MessagePack picks the smallest encoding on
	// the wire; a lookup at any integer width must still find it.
	v, ok := um.Get(int8(1))
	require.True(t, ok)
	require.Equal(t, "one", v)

	v, ok = um.Get("two")
	require.True(t, ok)
	require.Equal(t, int64(2), v)
}

func TestAny_UnsupportedWriteType(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.Any()

	_, err := mpschema.Marshal(context.Background(), s, conv, any(make(chan int)))
	require.Error(t, err)
}
