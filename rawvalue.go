package mpschema

import (
	"github.com/mpschema/mpschema/msgio"
)

// RawValue holds one still-encoded MessagePack structure: a property or
// union payload the schema declares as opaque, captured verbatim rather
// than decoded. Reading always produces an owned copy, since the source
// buffer a RawValue was read from may be reused or recycled (e.g. a
// streaming reader's compacted buffer) before the caller is done with it.
type RawValue []byte

// rawValueConverter is the RawMessagePack pass-through of §4.4: on read it
// copies the raw bytes for one complete structure; on write it emits them
// verbatim, refusing an empty (uninitialized) value.
type rawValueConverter struct{}

// RawMessagePack returns the pass-through converter for RawValue.
func RawMessagePack() Converter[RawValue] {
	return rawValueConverter{}
}

func (rawValueConverter) Read(r *msgio.Reader, ctx Context) (RawValue, error) {
	depthStep := func() error {
		var err error
		ctx, err = ctx.DepthStep()
		return err
	}
	raw, err := r.SkipRaw(depthStep)
	if err != nil {
		return nil, err
	}
	return append(RawValue(nil), raw...), nil
}

func (rawValueConverter) Write(w *msgio.Writer, v RawValue, ctx Context) error {
	if len(v) == 0 {
		return NewNotSupportedError("RawValue is empty; did you forget to populate it before serializing?")
	}
	w.WriteRaw(v)
	return nil
}

func (rawValueConverter) PreferAsync() bool { return false }
