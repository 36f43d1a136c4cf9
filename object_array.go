package mpschema

import (
	"github.com/mpschema/mpschema/msgio"
)

// ObjectArrayConverter is the object-as-array layout: every declared
// property occupies a fixed index, written in registration order. Unlike
// the map layout, position carries the property's identity, so every
// declared property is always emitted — the serialize-side
// default-values policy does not apply here.
type ObjectArrayConverter[T any] struct {
	Shape *Schema
	New   func() T
}

// ObjectArray builds an ObjectArrayConverter for shape, whose Properties
// must already carry a resolved Conv and appear in wire order.
func ObjectArray[T any](shape *Schema, newFunc func() T) *ObjectArrayConverter[T] {
	return &ObjectArrayConverter[T]{Shape: shape, New: newFunc}
}

func (c *ObjectArrayConverter[T]) Read(r *msgio.Reader, ctx Context) (T, error) {
	var zero T
	obj := c.New()

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
		if err := props[i].Set(any(obj), value); err != nil {
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
			if err := props[i].Set(any(obj), props[i].Default); err != nil {
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

	return obj, nil
}

func (c *ObjectArrayConverter[T]) Write(w *msgio.Writer, v T, ctx Context) error {
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

func (c *ObjectArrayConverter[T]) PreferAsync() bool {
	for _, p := range c.Shape.Properties {
		if p.Conv.preferAsync() {
			return true
		}
	}
	return false
}
