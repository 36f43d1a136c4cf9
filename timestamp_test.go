package mpschema_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
)

func TestDateTimeFormatted_DateTime(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.DateTimeFormatted("date-time")

	want := time.Date(2018, 1, 9, 20, 51, 21, 0, time.UTC)
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestDateTimeFormatted_EpochSeconds(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := mpschema.DateTimeFormatted("epoch-seconds")

	want := time.Date(2018, 1, 9, 20, 51, 21, 1e8, time.UTC)
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestDateTimeFormatted_UnknownFormatRejected(t *testing.T) {
	conv := mpschema.DateTimeFormatted("rfc2822")
	s := mpschema.NewSerializer()
	_, err := mpschema.Marshal(context.Background(), s, conv, time.Now())
	require.Error(t, err)
}
