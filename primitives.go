package mpschema

import (
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpschema/mpschema/msgio"
	"github.com/mpschema/mpschema/timeutil"
)

// funcConverter adapts a pair of read/write closures into a
// Converter[T], the shape every primitive converter below takes. Each
// constructor (Bool, String, Int32, ...) returns a fresh value on every
// call; nothing caches them.
type funcConverter[T any] struct {
	read        func(r *msgio.Reader) (T, error)
	write       func(w *msgio.Writer, v T) error
	preferAsync bool
}

func (f funcConverter[T]) Read(r *msgio.Reader, _ Context) (T, error) {
	return f.read(r)
}

func (f funcConverter[T]) Write(w *msgio.Writer, v T, _ Context) error {
	return f.write(w, v)
}

func (f funcConverter[T]) PreferAsync() bool { return f.preferAsync }

// Bool converts bool.
func Bool() Converter[bool] {
	return funcConverter[bool]{
		read:  func(r *msgio.Reader) (bool, error) { return r.ReadBool() },
		write: func(w *msgio.Writer, v bool) error { w.WriteBool(v); return nil },
	}
}

// String converts string.
func String() Converter[string] {
	return funcConverter[string]{
		read:  func(r *msgio.Reader) (string, error) { return r.ReadString() },
		write: func(w *msgio.Writer, v string) error { w.WriteString(v); return nil },
	}
}

// Bytes converts []byte as a MessagePack binary value.
func Bytes() Converter[[]byte] {
	return funcConverter[[]byte]{
		read: func(r *msgio.Reader) ([]byte, error) {
			v, err := r.ReadBinary()
			if err != nil {
				return nil, err
			}
			return append([]byte(nil), v...), nil
		},
		write: func(w *msgio.Writer, v []byte) error { w.WriteBinary(v); return nil },
	}
}

// Float32 converts float32.
func Float32() Converter[float32] {
	return funcConverter[float32]{
		read:  func(r *msgio.Reader) (float32, error) { return r.ReadFloat32() },
		write: func(w *msgio.Writer, v float32) error { w.WriteFloat32(v); return nil },
	}
}

// Float64 converts float64.
func Float64() Converter[float64] {
	return funcConverter[float64]{
		read:  func(r *msgio.Reader) (float64, error) { return r.ReadFloat64() },
		write: func(w *msgio.Writer, v float64) error { w.WriteFloat64(v); return nil },
	}
}

func boundedInt64[T ~int | ~int8 | ~int16 | ~int32 | ~int64](min, max int64) func(r *msgio.Reader) (T, error) {
	return func(r *msgio.Reader) (T, error) {
		v, err := r.ReadInt64()
		if err != nil {
			return 0, err
		}
		if v < min || v > max {
			return 0, fmt.Errorf("mpschema/convert: integer %d out of range", v)
		}
		return T(v), nil
	}
}

func boundedUint64[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](max uint64) func(r *msgio.Reader) (T, error) {
	return func(r *msgio.Reader) (T, error) {
		v, err := r.ReadUint64()
		if err != nil {
			return 0, err
		}
		if v > max {
			return 0, fmt.Errorf("mpschema/convert: integer %d out of range", v)
		}
		return T(v), nil
	}
}

// Int8 converts int8.
func Int8() Converter[int8] {
	return funcConverter[int8]{
		read:  boundedInt64[int8](-128, 127),
		write: func(w *msgio.Writer, v int8) error { w.WriteInt(int64(v)); return nil },
	}
}

// Int16 converts int16.
func Int16() Converter[int16] {
	return funcConverter[int16]{
		read:  boundedInt64[int16](-32768, 32767),
		write: func(w *msgio.Writer, v int16) error { w.WriteInt(int64(v)); return nil },
	}
}

// Int32 converts int32.
func Int32() Converter[int32] {
	return funcConverter[int32]{
		read:  boundedInt64[int32](-2147483648, 2147483647),
		write: func(w *msgio.Writer, v int32) error { w.WriteInt(int64(v)); return nil },
	}
}

// Int64 converts int64.
func Int64() Converter[int64] {
	return funcConverter[int64]{
		read:  func(r *msgio.Reader) (int64, error) { return r.ReadInt64() },
		write: func(w *msgio.Writer, v int64) error { w.WriteInt(v); return nil },
	}
}

// Int converts int, following the platform's int width.
func Int() Converter[int] {
	return funcConverter[int]{
		read:  func(r *msgio.Reader) (int, error) { v, err := r.ReadInt64(); return int(v), err },
		write: func(w *msgio.Writer, v int) error { w.WriteInt(int64(v)); return nil },
	}
}

// Uint8 converts uint8.
func Uint8() Converter[uint8] {
	return funcConverter[uint8]{
		read:  boundedUint64[uint8](255),
		write: func(w *msgio.Writer, v uint8) error { w.WriteUint(uint64(v)); return nil },
	}
}

// Uint16 converts uint16.
func Uint16() Converter[uint16] {
	return funcConverter[uint16]{
		read:  boundedUint64[uint16](65535),
		write: func(w *msgio.Writer, v uint16) error { w.WriteUint(uint64(v)); return nil },
	}
}

// Uint32 converts uint32.
func Uint32() Converter[uint32] {
	return funcConverter[uint32]{
		read:  boundedUint64[uint32](4294967295),
		write: func(w *msgio.Writer, v uint32) error { w.WriteUint(uint64(v)); return nil },
	}
}

// Uint64 converts uint64.
func Uint64() Converter[uint64] {
	return funcConverter[uint64]{
		read:  func(r *msgio.Reader) (uint64, error) { return r.ReadUint64() },
		write: func(w *msgio.Writer, v uint64) error { w.WriteUint(v); return nil },
	}
}

// Guid converts uuid.UUID, written as 16-byte binary.
func Guid() Converter[uuid.UUID] {
	return funcConverter[uuid.UUID]{
		read: func(r *msgio.Reader) (uuid.UUID, error) {
			b, err := r.ReadBinary()
			if err != nil {
				return uuid.UUID{}, err
			}
			return uuid.FromBytes(b)
		},
		write: func(w *msgio.Writer, v uuid.UUID) error {
			b := v[:]
			w.WriteBinary(b)
			return nil
		},
	}
}

// DateTime converts time.Time, written as Unix nanoseconds. MessagePack
// defines a standard timestamp extension type; this library deliberately
// does not implement it (out of scope per the formatter/deformatter being
// the sole place wire-level type knowledge lives) and instead treats
// DateTime as an ordinary integer-valued primitive.
func DateTime() Converter[time.Time] {
	return funcConverter[time.Time]{
		read: func(r *msgio.Reader) (time.Time, error) {
			v, err := r.ReadInt64()
			if err != nil {
				return time.Time{}, err
			}
			return time.Unix(0, v).UTC(), nil
		},
		write: func(w *msgio.Writer, v time.Time) error {
			w.WriteInt(v.UnixNano())
			return nil
		},
	}
}

// TimeSpan converts time.Duration, written as int64 nanoseconds.
func TimeSpan() Converter[time.Duration] {
	return funcConverter[time.Duration]{
		read: func(r *msgio.Reader) (time.Duration, error) {
			v, err := r.ReadInt64()
			return time.Duration(v), err
		},
		write: func(w *msgio.Writer, v time.Duration) error { w.WriteInt(int64(v)); return nil },
	}
}

// DateTimeFormatted builds the time.Time converter a traits.TimestampFormat
// override selects, for the property that wants a textual wire form
// instead of DateTime's default Unix-nanoseconds integer. format must be
// one of "date-time", "http-date", or "epoch-seconds"; any other value
// produces a converter whose Read/Write always fail, so a bad trait value
// surfaces as an error on first use rather than silently falling back to
// the default representation.
func DateTimeFormatted(format string) Converter[time.Time] {
	switch format {
	case "date-time":
		return funcConverter[time.Time]{
			read: func(r *msgio.Reader) (time.Time, error) {
				s, err := r.ReadString()
				if err != nil {
					return time.Time{}, err
				}
				return timeutil.ParseDateTime(s)
			},
			write: func(w *msgio.Writer, v time.Time) error {
				w.WriteString(timeutil.FormatDateTime(v))
				return nil
			},
		}
	case "http-date":
		return funcConverter[time.Time]{
			read: func(r *msgio.Reader) (time.Time, error) {
				s, err := r.ReadString()
				if err != nil {
					return time.Time{}, err
				}
				return timeutil.ParseHTTPDate(s)
			},
			write: func(w *msgio.Writer, v time.Time) error {
				w.WriteString(timeutil.FormatHTTPDate(v))
				return nil
			},
		}
	case "epoch-seconds":
		return funcConverter[time.Time]{
			read: func(r *msgio.Reader) (time.Time, error) {
				v, err := r.ReadFloat64()
				if err != nil {
					return time.Time{}, err
				}
				return timeutil.ParseEpochSeconds(v), nil
			},
			write: func(w *msgio.Writer, v time.Time) error {
				w.WriteFloat64(timeutil.FormatEpochSeconds(v))
				return nil
			},
		}
	default:
		err := NewNotSupportedError(fmt.Sprintf("unknown timestampFormat %q", format))
		return funcConverter[time.Time]{
			read:  func(r *msgio.Reader) (time.Time, error) { return time.Time{}, err },
			write: func(w *msgio.Writer, v time.Time) error { return err },
		}
	}
}

// Decimal converts decimal.Decimal, written as its canonical string form.
func Decimal() Converter[decimal.Decimal] {
	return funcConverter[decimal.Decimal]{
		read: func(r *msgio.Reader) (decimal.Decimal, error) {
			s, err := r.ReadString()
			if err != nil {
				return decimal.Decimal{}, err
			}
			return decimal.NewFromString(s)
		},
		write: func(w *msgio.Writer, v decimal.Decimal) error {
			w.WriteString(v.String())
			return nil
		},
	}
}

// BigInt converts *big.Int, written as its base-10 string form.
func BigInt() Converter[*big.Int] {
	return funcConverter[*big.Int]{
		read: func(r *msgio.Reader) (*big.Int, error) {
			s, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			n, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, fmt.Errorf("mpschema/convert: invalid big integer %q", s)
			}
			return n, nil
		},
		write: func(w *msgio.Writer, v *big.Int) error {
			w.WriteString(v.Text(10))
			return nil
		},
	}
}

// Uri converts *url.URL, written as its string form.
func Uri() Converter[*url.URL] {
	return funcConverter[*url.URL]{
		read: func(r *msgio.Reader) (*url.URL, error) {
			s, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			return url.Parse(s)
		},
		write: func(w *msgio.Writer, v *url.URL) error {
			w.WriteString(v.String())
			return nil
		},
	}
}
