package mpschema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
)

type suit int32

const (
	suitClubs suit = iota
	suitDiamonds
	suitHearts
	suitSpades
)

type permission uint8

const (
	permissionRead permission = 1 << iota
	permissionWrite
)

func TestEnum_RoundTripSigned(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.Enum[suit]()

	data, err := mpschema.Marshal(context.Background(), s, conv, suitHearts)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02}, data)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, suitHearts, got)
}

func TestUnsignedEnum_RoundTrip(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.UnsignedEnum[permission]()

	want := permissionRead | permissionWrite
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
