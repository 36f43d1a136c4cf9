package mpschema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
	"github.com/mpschema/mpschema/msgio"
)

type dogBox struct{ Bark string }
type catBox struct{ Meow string }

// noBaseConverter stands in for UnionConverter's Base field in tests that
// never dispatch to the base type itself (every write here resolves to a
// declared subtype).
type noBaseConverter struct{}

func (noBaseConverter) Read(r *msgio.Reader, ctx mpschema.Context) (any, error) {
	return nil, mpschema.NewNotSupportedError("base type not used in this test")
}
func (noBaseConverter) Write(w *msgio.Writer, v any, ctx mpschema.Context) error {
	return mpschema.NewNotSupportedError("base type not used in this test")
}
func (noBaseConverter) PreferAsync() bool { return false }

func buildUnionFixture() (*mpschema.UnionConverter[any], *mpschema.SubTypes[any]) {
	dogSchema := &mpschema.Schema{ID: mpschema.ShapeID{Namespace: "test", Name: "dog"}}
	dogSchema.Properties = []mpschema.Property{{
		Name: "Bark",
		Get:  func(obj any) (any, bool) { return obj.(*dogBox).Bark, true },
		Set: func(obj any, v any) error {
			obj.(*dogBox).Bark = v.(string)
			return nil
		},
		Conv: mpschema.Erase[string](mpschema.String()),
	}}
	dogConv := mpschema.ObjectMap[*dogBox](dogSchema, func() *dogBox { return &dogBox{} })

	catSchema := &mpschema.Schema{ID: mpschema.ShapeID{Namespace: "test", Name: "cat"}}
	catSchema.Properties = []mpschema.Property{{
		Name: "Meow",
		Get:  func(obj any) (any, bool) { return obj.(*catBox).Meow, true },
		Set: func(obj any, v any) error {
			obj.(*catBox).Meow = v.(string)
			return nil
		},
		Conv: mpschema.Erase[string](mpschema.String()),
	}}
	catConv := mpschema.ObjectMap[*catBox](catSchema, func() *catBox { return &catBox{} })

	subtypes := mpschema.NewSubTypes[any]()
	subtypes.Register(mpschema.IntAlias(5), dogSchema, mpschema.Erase[*dogBox](dogConv), &dogBox{})
	subtypes.Register(mpschema.StringAlias("cat"), catSchema, mpschema.Erase[*catBox](catConv), &catBox{})

	unionShape := &mpschema.Schema{ID: mpschema.ShapeID{Namespace: "test", Name: "pet"}, Kind: mpschema.KindUnion}
	return mpschema.Union[any](unionShape, subtypes, noBaseConverter{}), subtypes
}

func TestUnionDispatch_IntAlias(t *testing.T) {
	// spec.md §8(b): union with integer alias dispatches to the
	// registered subtype and the alias round-trips unchanged.
	unionConv, _ := buildUnionFixture()
	s := mpschema.NewSerializer()

	data, err := mpschema.Marshal(context.Background(), s, unionConv, any(&dogBox{Bark: "woof"}))
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, unionConv, data)
	require.NoError(t, err)
	require.Equal(t, &dogBox{Bark: "woof"}, got)
}

func TestUnionDispatch_StringAlias(t *testing.T) {
	unionConv, _ := buildUnionFixture()
	s := mpschema.NewSerializer()

	data, err := mpschema.Marshal(context.Background(), s, unionConv, any(&catBox{Meow: "mrow"}))
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, unionConv, data)
	require.NoError(t, err)
	require.Equal(t, &catBox{Meow: "mrow"}, got)
}

func TestUnionDispatch_UnregisteredSubtypeErrors(t *testing.T) {
	unionConv, _ := buildUnionFixture()
	s := mpschema.NewSerializer()

	type unregistered struct{}
	_, err := mpschema.Marshal(context.Background(), s, unionConv, any(&unregistered{}))
	require.Error(t, err)
	var unknown *mpschema.UnknownSubtypeError
	require.ErrorAs(t, err, &unknown)
}

func TestUnionDispatch_UnknownAliasOnRead(t *testing.T) {
	unionShape := &mpschema.Schema{ID: mpschema.ShapeID{Namespace: "test", Name: "pet"}, Kind: mpschema.KindUnion}
	empty := mpschema.NewSubTypes[any]()
	unionConv := mpschema.Union[any](unionShape, empty, noBaseConverter{})

	w := msgio.NewWriter(nil)
	w.WriteArrayHeader(2)
	w.WriteInt(99)
	w.WriteString("payload")

	opts := mpschema.NewOptions()
	ctx := mpschema.NewContext(context.Background(), opts)
	defer ctx.End()

	_, err := unionConv.Read(msgio.NewReader(w.Bytes(), true), ctx)
	require.Error(t, err)
	var unknownAlias *mpschema.UnknownAliasError
	require.ErrorAs(t, err, &unknownAlias)
}

func TestUnionDispatch_NilIsSingleByte(t *testing.T) {
	unionConv, _ := buildUnionFixture()
	s := mpschema.NewSerializer()

	data, err := mpschema.Marshal(context.Background(), s, unionConv, any(nil))
	require.NoError(t, err)
	require.Equal(t, []byte{0xc0}, data)

	got, err := mpschema.Unmarshal(context.Background(), s, unionConv, data)
	require.NoError(t, err)
	require.Nil(t, got)
}
