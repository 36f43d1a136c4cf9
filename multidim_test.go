package mpschema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
	"github.com/mpschema/mpschema/msgio"
)

func TestMultiDimArray_RankTwoWireBytes(t *testing.T) {
	// spec.md §8(d): int[2,3] of [[1,2,3],[4,5,6]] ->
	// 92 92 02 03 96 01 02 03 04 05 06.
	s := mpschema.NewSerializer()
	conv := mpschema.MultiDimArray[int32](mpschema.Int32())

	want := mpschema.MultiArray[int32]{
		Dims: []int{2, 3},
		Data: []int32{1, 2, 3, 4, 5, 6},
	}

	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x92,
		0x92, 0x02, 0x03,
		0x96, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
	}, data)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMultiDimArray_DimensionMismatchOnWrite(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.MultiDimArray[int32](mpschema.Int32())

	bad := mpschema.MultiArray[int32]{Dims: []int{2, 3}, Data: []int32{1, 2, 3}}
	_, err := mpschema.Marshal(context.Background(), s, conv, bad)
	require.Error(t, err)
}

func TestMultiDimArray_FlatCountMismatchOnRead(t *testing.T) {
	conv := mpschema.MultiDimArray[int32](mpschema.Int32())

	opts := mpschema.NewOptions()
	ctx := mpschema.NewContext(context.Background(), opts)
	defer ctx.End()

	data := []byte{
		0x92,
		0x92, 0x02, 0x03,
		0x95, 0x01, 0x02, 0x03, 0x04, 0x05,
	}
	_, err := conv.Read(msgio.NewReader(data, true), ctx)
	require.Error(t, err)
}

func TestNestedMultiArray_RoundTrip(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.NestedMultiArray[int32](mpschema.Int32())

	want := mpschema.MultiArray[int32]{
		Dims: []int{2, 3},
		Data: []int32{1, 2, 3, 4, 5, 6},
	}

	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want.Data, got.Data)
}
