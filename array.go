package mpschema

import (
	"github.com/mpschema/mpschema/msgio"
)

// ArrayConverter handles rank-1 Go slices: writes an array header followed
// by each element; reads the header then each element into a freshly
// allocated slice.
type ArrayConverter[T any] struct {
	Elem Converter[T]
}

// Array builds an ArrayConverter over elem.
func Array[T any](elem Converter[T]) *ArrayConverter[T] {
	return &ArrayConverter[T]{Elem: elem}
}

func (a *ArrayConverter[T]) Read(r *msgio.Reader, ctx Context) ([]T, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	ctx, err = ctx.DepthStep()
	if err != nil {
		return nil, err
	}

	out := make([]T, n)
	for i := 0; i < n; i++ {
		v, err := a.Elem.Read(r, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (a *ArrayConverter[T]) Write(w *msgio.Writer, v []T, ctx Context) error {
	w.WriteArrayHeader(len(v))
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}
	for _, e := range v {
		if err := a.Elem.Write(w, e, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArrayConverter[T]) PreferAsync() bool { return a.Elem.PreferAsync() }
