package mpschema

import (
	"sync"

	"github.com/mpschema/mpschema/encoding/msgpack"
	"github.com/mpschema/mpschema/msgio"
)

// MultiArray is the Go stand-in for a language's native rank-N array:
// Dims gives the extent of each dimension and Data holds every element in
// row-major (C) order, len(Data) == product(Dims).
type MultiArray[T any] struct {
	Dims []int
	Data []T
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}

// dimsScratchPool holds reusable []int buffers for reading a dimension
// vector, avoiding an allocation per read on the hot path; cleared to
// length 0 before reuse so no capacity-driven information leaks between
// calls.
var dimsScratchPool = sync.Pool{New: func() any { return new([]int) }}

// MultiDimArrayConverter handles rank>1 arrays using the flattened wire
// layout `[[d0,d1,...],[e0,e1,...]]`.
type MultiDimArrayConverter[T any] struct {
	Elem Converter[T]
}

// MultiDimArray builds a MultiDimArrayConverter over elem.
func MultiDimArray[T any](elem Converter[T]) *MultiDimArrayConverter[T] {
	return &MultiDimArrayConverter[T]{Elem: elem}
}

func (m *MultiDimArrayConverter[T]) Read(r *msgio.Reader, ctx Context) (MultiArray[T], error) {
	outer, err := r.ReadArrayHeader()
	if err != nil {
		return MultiArray[T]{}, err
	}
	if outer != 2 {
		return MultiArray[T]{}, NewUnexpectedLengthError("multidim array must have outer length 2")
	}

	dimsPtr := dimsScratchPool.Get().(*[]int)
	dims := (*dimsPtr)[:0]
	defer func() {
		*dimsPtr = dims
		dimsScratchPool.Put(dimsPtr)
	}()

	dimCount, err := r.ReadArrayHeader()
	if err != nil {
		return MultiArray[T]{}, err
	}
	for i := 0; i < dimCount; i++ {
		d, err := r.ReadInt64()
		if err != nil {
			return MultiArray[T]{}, err
		}
		dims = append(dims, int(d))
	}

	flatCount, err := r.ReadArrayHeader()
	if err != nil {
		return MultiArray[T]{}, err
	}
	if flatCount != product(dims) {
		return MultiArray[T]{}, NewUnexpectedLengthError("multidim array flat element count does not match dimension product")
	}

	ctx, err = ctx.DepthStep()
	if err != nil {
		return MultiArray[T]{}, err
	}

	data := make([]T, flatCount)
	for i := 0; i < flatCount; i++ {
		v, err := m.Elem.Read(r, ctx)
		if err != nil {
			return MultiArray[T]{}, err
		}
		data[i] = v
	}

	return MultiArray[T]{Dims: append([]int(nil), dims...), Data: data}, nil
}

func (m *MultiDimArrayConverter[T]) Write(w *msgio.Writer, v MultiArray[T], ctx Context) error {
	if len(v.Data) != product(v.Dims) {
		return NewUnexpectedLengthError("multidim array data does not match its declared dimensions")
	}

	w.WriteArrayHeader(2)

	w.WriteArrayHeader(len(v.Dims))
	for _, d := range v.Dims {
		w.WriteInt(int64(d))
	}

	w.WriteArrayHeader(len(v.Data))
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}
	for _, e := range v.Data {
		if err := m.Elem.Write(w, e, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiDimArrayConverter[T]) PreferAsync() bool { return m.Elem.PreferAsync() }

// NestedMultiArrayConverter is the fallback layout for environments
// without a flat-array representation: each dimension is emitted as its
// own nested MessagePack array, rank levels deep.
type NestedMultiArrayConverter[T any] struct {
	Elem Converter[T]
}

// NestedMultiArray builds a NestedMultiArrayConverter over elem.
func NestedMultiArray[T any](elem Converter[T]) *NestedMultiArrayConverter[T] {
	return &NestedMultiArrayConverter[T]{Elem: elem}
}

func (n *NestedMultiArrayConverter[T]) Read(r *msgio.Reader, ctx Context) (MultiArray[T], error) {
	ctx, err := ctx.DepthStep()
	if err != nil {
		return MultiArray[T]{}, err
	}

	dims, data, err := n.readLevel(r, ctx)
	if err != nil {
		return MultiArray[T]{}, err
	}
	return MultiArray[T]{Dims: dims, Data: data}, nil
}

func (n *NestedMultiArrayConverter[T]) readLevel(r *msgio.Reader, ctx Context) ([]int, []T, error) {
	tc, err := r.PeekNextType()
	if err != nil {
		return nil, nil, err
	}
	if tc != msgpack.TypeArray {
		v, err := n.Elem.Read(r, ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, []T{v}, nil
	}

	count, err := r.ReadArrayHeader()
	if err != nil {
		return nil, nil, err
	}

	var data []T
	var childDims []int
	for i := 0; i < count; i++ {
		d, elems, err := n.readLevel(r, ctx)
		if err != nil {
			return nil, nil, err
		}
		if i == 0 {
			childDims = d
		}
		data = append(data, elems...)
	}

	return append([]int{count}, childDims...), data, nil
}

func (n *NestedMultiArrayConverter[T]) Write(w *msgio.Writer, v MultiArray[T], ctx Context) error {
	ctx, err := ctx.DepthStep()
	if err != nil {
		return err
	}
	_, err = n.writeLevel(w, v.Dims, v.Data, ctx)
	return err
}

func (n *NestedMultiArrayConverter[T]) writeLevel(w *msgio.Writer, dims []int, data []T, ctx Context) ([]T, error) {
	if len(dims) == 0 {
		if len(data) == 0 {
			return data, nil
		}
		if err := n.Elem.Write(w, data[0], ctx); err != nil {
			return nil, err
		}
		return data[1:], nil
	}

	w.WriteArrayHeader(dims[0])
	rest := data
	for i := 0; i < dims[0]; i++ {
		var err error
		rest, err = n.writeLevel(w, dims[1:], rest, ctx)
		if err != nil {
			return nil, err
		}
	}
	return rest, nil
}

func (n *NestedMultiArrayConverter[T]) PreferAsync() bool { return n.Elem.PreferAsync() }
