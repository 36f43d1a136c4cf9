package mpschema

import (
	"github.com/mpschema/mpschema/encoding/msgpack"
	"github.com/mpschema/mpschema/msgio"
)

// ObjectMapWithCtorConverter is the object-as-map layout for types whose
// properties feed a non-default constructor instead of individual
// setters: property values accumulate into an opaque ArgumentState
// aggregate, and Shape.Construct is invoked once deserialization
// completes. Required-property verification happens before construction,
// exactly as for the default-constructor form.
type ObjectMapWithCtorConverter[T any] struct {
	Shape *Schema

	props      []objectMapProperty
	nameToProp map[string]int
}

// ObjectMapWithCtor builds the converter for shape, whose Properties must
// already carry a resolved Conv and whose Construct must be set.
func ObjectMapWithCtor[T any](shape *Schema) *ObjectMapWithCtorConverter[T] {
	c := &ObjectMapWithCtorConverter[T]{Shape: shape, nameToProp: map[string]int{}}
	var f msgpack.Formatter
	for i, p := range shape.Properties {
		nameBytes := f.WriteString(nil, p.Name)
		c.props = append(c.props, objectMapProperty{name: p.Name, nameBytes: nameBytes, prop: p})
		c.nameToProp[p.Name] = i
	}
	return c
}

func (c *ObjectMapWithCtorConverter[T]) Read(r *msgio.Reader, ctx Context) (T, error) {
	var zero T
	args := ArgumentState{}

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
		if err := c.props[idx].prop.Set(args, value); err != nil {
			return zero, err
		}
	}

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
	if len(missing) > 0 {
		return zero, NewMissingRequiredPropertyError(c.Shape.ID, missing)
	}

	built, err := c.Shape.Construct(args)
	if err != nil {
		return zero, err
	}
	v, ok := built.(T)
	if !ok {
		return zero, NewNotSupportedError("constructor returned a value of the wrong type")
	}
	return v, nil
}

func (c *ObjectMapWithCtorConverter[T]) Write(w *msgio.Writer, v T, ctx Context) error {
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

	w.WriteMapHeader(len(emissions))
	for _, e := range emissions {
		w.WriteRaw(c.props[e.idx].nameBytes)
		if err := c.props[e.idx].prop.Conv.writeAny(w, e.value, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *ObjectMapWithCtorConverter[T]) PreferAsync() bool {
	for _, p := range c.props {
		if p.prop.Conv.preferAsync() {
			return true
		}
	}
	return false
}

// ObjectArrayWithCtorConverter is the object-as-array analogue of
// ObjectMapWithCtorConverter.
type ObjectArrayWithCtorConverter[T any] struct {
	Shape *Schema
}

// ObjectArrayWithCtor builds the converter for shape.
func ObjectArrayWithCtor[T any](shape *Schema) *ObjectArrayWithCtorConverter[T] {
	return &ObjectArrayWithCtorConverter[T]{Shape: shape}
}

func (c *ObjectArrayWithCtorConverter[T]) Read(r *msgio.Reader, ctx Context) (T, error) {
	var zero T
	args := ArgumentState{}

	count, err := r.ReadArrayHeader()
	if err != nil {
		return zero, err
	}
	ctx, err = ctx.DepthStep()
	if err != nil {
		return zero, err
	}

	props := c.Shape.Properties
	n := count
	if n > len(props) {
		n = len(props)
	}

	depthStep := func() error {
		var err error
		ctx, err = ctx.DepthStep()
		return err
	}

	for i := 0; i < n; i++ {
		value, err := props[i].Conv.readAny(r, ctx)
		if err != nil {
			return zero, err
		}
		if err := props[i].Set(args, value); err != nil {
			return zero, err
		}
	}
	for i := n; i < count; i++ {
		if err := r.Skip(depthStep); err != nil {
			return zero, err
		}
	}

	requireAll := requireAllProperties(ctx)
	var missing []string
	for i := count; i < len(props); i++ {
		if props[i].Default != nil {
			if err := props[i].Set(args, props[i].Default); err != nil {
				return zero, err
			}
			continue
		}
		if props[i].Required || requireAll {
			missing = append(missing, props[i].Name)
		}
	}
	if len(missing) > 0 {
		return zero, NewMissingRequiredPropertyError(c.Shape.ID, missing)
	}

	built, err := c.Shape.Construct(args)
	if err != nil {
		return zero, err
	}
	v, ok := built.(T)
	if !ok {
		return zero, NewNotSupportedError("constructor returned a value of the wrong type")
	}
	return v, nil
}

func (c *ObjectArrayWithCtorConverter[T]) Write(w *msgio.Writer, v T, ctx Context) error {
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}
	props := c.Shape.Properties
	w.WriteArrayHeader(len(props))
	for _, p := range props {
		value, ok := p.Get(any(v))
		if !ok {
			value = p.Default
		}
		if err := p.Conv.writeAny(w, value, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *ObjectArrayWithCtorConverter[T]) PreferAsync() bool {
	for _, p := range c.Shape.Properties {
		if p.Conv.preferAsync() {
			return true
		}
	}
	return false
}
