package mpschema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
)

func TestUntypedMap_WidensMixedIntegerWidths(t *testing.T) {
	raw := map[any]any{
		int8(1):   "a",
		int64(-5): "b",
		"c":       int64(3),
	}
	um := mpschema.NewUntypedMap(raw)

	require.Equal(t, 3, um.Len())

	v, ok := um.Get(int64(1))
	require.True(t, ok)
	require.Equal(t, "a", v)

	v, ok = um.Get(uint64(1))
	require.True(t, ok)
	require.Equal(t, "a", v)

	v, ok = um.Get(int32(-5))
	require.True(t, ok)
	require.Equal(t, "b", v)

	_, ok = um.Get(int64(99))
	require.False(t, ok)

	require.Equal(t, raw, um.Raw())
}
