package mpschema

import (
	"reflect"

	"github.com/mpschema/mpschema/encoding/msgpack"
	"github.com/mpschema/mpschema/msgio"
)

// objectMapProperty is a resolved, ready-to-dispatch form of
// Property: its converter has already been looked up, and its
// wire name has already been encoded once at construction time instead of
// on every write.
type objectMapProperty struct {
	name      string
	nameBytes []byte
	prop      Property
}

// ObjectMapConverter is the object-as-map layout: a MessagePack map whose
// keys are the (optionally renamed) declared property names and whose
// values are produced by each property's own converter.
type ObjectMapConverter[T any] struct {
	Shape *Schema
	New   func() T

	props      []objectMapProperty
	nameToProp map[string]int

	// UnusedDataGet/UnusedDataSet are non-nil only when Shape opted into
	// unused-data capture (traits.UnusedData); unrecognized keys are
	// skipped silently otherwise.
	UnusedDataGet func(obj T) (*UnusedDataPacket, bool)
	UnusedDataSet func(obj T, packet *UnusedDataPacket)
}

// ObjectMap builds an ObjectMapConverter for shape, whose Properties must
// already carry a resolved Conv (see Property.Conv).
func ObjectMap[T any](shape *Schema, newFunc func() T) *ObjectMapConverter[T] {
	c := &ObjectMapConverter[T]{Shape: shape, New: newFunc, nameToProp: map[string]int{}}
	var f msgpack.Formatter
	for i, p := range shape.Properties {
		nameBytes := f.WriteString(nil, p.Name)
		c.props = append(c.props, objectMapProperty{name: p.Name, nameBytes: nameBytes, prop: p})
		c.nameToProp[p.Name] = i
	}
	return c
}

func (c *ObjectMapConverter[T]) Read(r *msgio.Reader, ctx Context) (T, error) {
	var zero T
	obj := c.New()

	count, err := r.ReadMapHeader()
	if err != nil {
		return zero, err
	}
	ctx, err = ctx.DepthStep()
	if err != nil {
		return zero, err
	}

	var detector *CollisionDetector
	if len(c.props) > 1 {
		detector = NewCollisionDetector(len(c.props))
	}

	var unused *UnusedDataPacket
	depthStep := func() error {
		var err error
		ctx, err = ctx.DepthStep()
		return err
	}

	for i := 0; i < count; i++ {
		key, err := r.ReadString()
		if err != nil {
			return zero, err
		}

		idx, known := c.nameToProp[key]
		if !known {
			if c.UnusedDataSet != nil {
				raw, err := r.SkipRaw(depthStep)
				if err != nil {
					return zero, err
				}
				if unused == nil {
					unused = NewUnusedDataPacket()
				}
				unused.Put(key, append([]byte(nil), raw...))
				continue
			}
			if err := r.Skip(depthStep); err != nil {
				return zero, err
			}
			continue
		}

		if detector != nil && detector.MarkAndCheck(idx) {
			return zero, NewDoublePropertyAssignmentError(c.Shape.ID, key)
		}
		if detector == nil {
			detector = NewCollisionDetector(len(c.props))
			detector.MarkAndCheck(idx)
		}

		value, err := c.props[idx].prop.Conv.readAny(r, ctx)
		if err != nil {
			return zero, err
		}
		if err := c.props[idx].prop.Set(any(obj), value); err != nil {
			return zero, err
		}
	}

	if missing := c.missingRequired(ctx, detector); len(missing) > 0 {
		return zero, NewMissingRequiredPropertyError(c.Shape.ID, missing)
	}

	if unused != nil && c.UnusedDataSet != nil {
		c.UnusedDataSet(obj, unused)
	}

	return obj, nil
}

func (c *ObjectMapConverter[T]) missingRequired(ctx Context, detector *CollisionDetector) []string {
	requireAll := requireAllProperties(ctx)
	var missing []string
	for i, p := range c.props {
		if !p.prop.Required && !requireAll {
			continue
		}
		if detector == nil || !detector.Marked(i) {
			missing = append(missing, p.name)
		}
	}
	return missing
}

// requireAllProperties reports whether the deserialize-side policy
// threaded through ctx demands every declared property be present,
// independent of each property's own required trait.
func requireAllProperties(ctx Context) bool {
	policy, ok := ctx.Extension(deserializeDefaultsPolicyKey{})
	if !ok {
		return false
	}
	return policy.(DefaultValuesPolicy)&RequireAllProperties != 0
}

func (c *ObjectMapConverter[T]) Write(w *msgio.Writer, v T, ctx Context) error {
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}

	type emission struct {
		idx   int
		value any
	}
	var emissions []emission
	for i, p := range c.props {
		value, ok := p.prop.Get(any(v))
		if !ok {
			continue
		}
		if shouldSkipDefault(ctx, p.prop, value) {
			continue
		}
		emissions = append(emissions, emission{idx: i, value: value})
	}

	var unused *UnusedDataPacket
	if c.UnusedDataGet != nil {
		unused, _ = c.UnusedDataGet(v)
	}

	w.WriteMapHeader(len(emissions) + unusedLen(unused))
	for _, e := range emissions {
		w.WriteRaw(c.props[e.idx].nameBytes)
		if err := c.props[e.idx].prop.Conv.writeAny(w, e.value, ctx); err != nil {
			return err
		}
	}
	if unused != nil {
		for i := 0; i < unused.Len(); i++ {
			name, raw := unused.At(i)
			w.WriteString(name)
			w.WriteRaw(raw)
		}
	}
	return nil
}

func unusedLen(u *UnusedDataPacket) int {
	if u == nil {
		return 0
	}
	return u.Len()
}

// shouldSkipDefault applies the serialize-side default-values policy: a
// property equal to its declared default is omitted when SkipIfDefault is
// in effect, unless the serializer was configured for Always.
func shouldSkipDefault(ctx Context, p Property, value any) bool {
	if p.Default == nil {
		return false
	}
	policy, ok := ctx.Extension(serializeDefaultsPolicyKey{})
	if !ok {
		return false
	}
	pol := policy.(DefaultValuesPolicy)
	if pol&Always != 0 || pol&SkipIfDefault == 0 {
		return false
	}
	return reflect.DeepEqual(value, p.Default)
}

// serializeDefaultsPolicyKey is the Context extension key a serializer
// facade stores its resolved Options.SerializeDefaultValuesPolicy under.
type serializeDefaultsPolicyKey struct{}

func (c *ObjectMapConverter[T]) PreferAsync() bool {
	for _, p := range c.props {
		if p.prop.Conv.preferAsync() {
			return true
		}
	}
	return false
}
