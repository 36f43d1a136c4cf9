package mpschema_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mpschema/mpschema"
	"github.com/mpschema/mpschema/msgio"
	"github.com/mpschema/mpschema/shapeutil"
)

type widget struct {
	Name  string
	Count int32
	Tags  []byte
}

func widgetConverter(t *testing.T) *mpschema.ObjectMapConverter[*widget] {
	t.Helper()
	schema, err := shapeutil.ReflectObjectSchema(&widget{})
	require.NoError(t, err)
	return mpschema.ObjectMap[*widget](schema, func() *widget { return &widget{} })
}

func TestObjectMapRoundTrip(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := widgetConverter(t)

	want := &widget{Name: "gear", Count: 7, Tags: []byte{1, 2, 3}}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestObjectMap_SkipsDefaultByPolicy(t *testing.T) {
	s := mpschema.NewSerializer()
	schema, err := shapeutil.ReflectObjectSchema(&widget{})
	require.NoError(t, err)
	schema.Properties[1].Default = int32(0)
	conv := mpschema.ObjectMap[*widget](schema, func() *widget { return &widget{} })

	data, err := mpschema.Marshal(context.Background(), s, conv, &widget{Name: "x"})
	require.NoError(t, err)
	// Name and Tags are written; Count equals its default and is omitted.
	require.Equal(t, byte(0x82), data[0])

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, int32(0), got.Count)
}

func TestObjectMap_DoublePropertyAssignment(t *testing.T) {
	conv := widgetConverter(t)

	w := msgio.NewWriter(nil)
	w.WriteMapHeader(2)
	w.WriteString("Name")
	w.WriteString("first")
	w.WriteString("Name")
	w.WriteString("second")

	r := msgio.NewReader(w.Bytes(), true)
	opts := mpschema.NewOptions()
	ctx := mpschema.NewContext(context.Background(), opts)
	defer ctx.End()

	_, err := conv.Read(r, ctx)
	require.Error(t, err)
	var dup *mpschema.DoublePropertyAssignmentError
	require.ErrorAs(t, err, &dup)
}

func TestObjectMap_MissingRequiredProperty(t *testing.T) {
	schema, err := shapeutil.ReflectObjectSchema(&widget{})
	require.NoError(t, err)
	schema.Properties[0].Required = true
	conv := mpschema.ObjectMap[*widget](schema, func() *widget { return &widget{} })

	w := msgio.NewWriter(nil)
	w.WriteMapHeader(1)
	w.WriteString("Count")
	w.WriteInt(5)

	r := msgio.NewReader(w.Bytes(), true)
	opts := mpschema.NewOptions()
	ctx := mpschema.NewContext(context.Background(), opts)
	defer ctx.End()

	_, err = conv.Read(r, ctx)
	require.Error(t, err)
	var missing *mpschema.MissingRequiredPropertyError
	require.ErrorAs(t, err, &missing)
}

func TestObjectMap_UnusedDataPreserved(t *testing.T) {
	conv := widgetConverter(t)

	var captured *mpschema.UnusedDataPacket
	conv.UnusedDataGet = func(w *widget) (*mpschema.UnusedDataPacket, bool) {
		if captured == nil {
			return nil, false
		}
		return captured, true
	}
	conv.UnusedDataSet = func(w *widget, p *mpschema.UnusedDataPacket) {
		captured = p
	}

	w := msgio.NewWriter(nil)
	w.WriteMapHeader(2)
	w.WriteString("Name")
	w.WriteString("gear")
	w.WriteString("Weight")
	w.WriteFloat64(12.5)

	r := msgio.NewReader(w.Bytes(), true)
	opts := mpschema.NewOptions()
	ctx := mpschema.NewContext(context.Background(), opts)
	defer ctx.End()

	got, err := conv.Read(r, ctx)
	require.NoError(t, err)
	require.Equal(t, "gear", got.Name)
	require.NotNil(t, captured)
	require.Equal(t, 1, captured.Len())
	name, _ := captured.At(0)
	require.Equal(t, "Weight", name)

	out := msgio.NewWriter(nil)
	ctx2 := mpschema.NewContext(context.Background(), opts)
	defer ctx2.End()
	require.NoError(t, conv.Write(out, got, ctx2))

	back := msgio.NewReader(out.Bytes(), true)
	ctx3 := mpschema.NewContext(context.Background(), opts)
	defer ctx3.End()
	roundTripped, err := conv.Read(back, ctx3)
	require.NoError(t, err)
	require.Equal(t, "gear", roundTripped.Name)
}

func TestObjectMapRoundTrip_StructuralDiff(t *testing.T) {
	s := mpschema.NewSerializer()
	conv := widgetConverter(t)

	want := &widget{Name: "gear", Count: 7, Tags: []byte{1, 2, 3}}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectArrayRoundTrip(t *testing.T) {
	schema, err := shapeutil.ReflectObjectSchema(&widget{})
	require.NoError(t, err)
	conv := mpschema.ObjectArray[*widget](schema, func() *widget { return &widget{} })

	s := mpschema.NewSerializer()
	want := &widget{Name: "gear", Count: 7, Tags: []byte{1, 2, 3}}
	data, err := mpschema.Marshal(context.Background(), s, conv, want)
	require.NoError(t, err)

	got, err := mpschema.Unmarshal(context.Background(), s, conv, data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
