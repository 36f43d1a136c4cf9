package msgpack

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mkex(s string) []byte {
	p, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return p
}

func TestFormatter_WriteInt_scenario(t *testing.T) {
	// spec.md §8(a): write(127:i32) -> bytes `7f`
	f := Formatter{}
	got := f.WriteInt(nil, 127)
	if !bytes.Equal(got, mkex("7f")) {
		t.Fatalf("got %x", got)
	}
}

func TestDeformatter_ReadInt_scenario(t *testing.T) {
	d := NewDeformatter()
	res, v, n := d.TryReadInt64(mkex("7f"))
	if res != Success || v != 127 || n != 1 {
		t.Fatalf("res=%v v=%d n=%d", res, v, n)
	}
}

func TestRoundTrip_Int(t *testing.T) {
	f := Formatter{}
	d := NewDeformatter()

	for _, v := range []int64{0, 1, -1, 127, 128, -32, -33, -128, 255, 256, 65535, 65536, 1<<31 - 1, -1 << 31, 1<<32 - 1, 1 << 40, -(1 << 40)} {
		p := f.WriteInt(nil, v)
		res, got, n := d.TryReadInt64(p)
		if res != Success {
			t.Fatalf("v=%d result=%v", v, res)
		}
		if got != v {
			t.Fatalf("v=%d got=%d", v, got)
		}
		if n != len(p) {
			t.Fatalf("v=%d consumed %d want %d", v, n, len(p))
		}
	}
}

func TestRoundTrip_String(t *testing.T) {
	f := Formatter{}
	d := NewDeformatter()

	for _, s := range []string{"", "a", "hello world", string(make([]byte, 40)), string(make([]byte, 1<<16+1))} {
		p := f.WriteString(nil, s)
		res, got, n := d.TryReadString(p)
		if res != Success || got != s || n != len(p) {
			t.Fatalf("len=%d result=%v n=%d want %d", len(s), res, n, len(p))
		}
	}
}

func TestRoundTrip_Float(t *testing.T) {
	f := Formatter{}
	d := NewDeformatter()

	p := f.WriteFloat64(nil, 3.25)
	res, v, n := d.TryReadFloat64(p)
	if res != Success || v != 3.25 || n != len(p) {
		t.Fatalf("result=%v v=%f", res, v)
	}
}

func TestNilIdempotence(t *testing.T) {
	// spec.md §8 property 2: write(null) produces exactly one byte 0xc0.
	f := Formatter{}
	p := f.WriteNil(nil)
	if !bytes.Equal(p, []byte{codeNil}) {
		t.Fatalf("got %x", p)
	}

	d := NewDeformatter()
	res, isNull, n := d.TryReadNull(p)
	if res != Success || !isNull || n != 1 {
		t.Fatalf("res=%v isNull=%v n=%d", res, isNull, n)
	}
}

func TestInsufficientBuffer(t *testing.T) {
	f := Formatter{}
	d := NewDeformatter()

	p := f.WriteString(nil, "hello")
	for i := 0; i < len(p); i++ {
		res, _, _ := d.TryReadString(p[:i])
		if res != InsufficientBuffer {
			t.Fatalf("prefix len %d: want InsufficientBuffer got %v", i, res)
		}
	}
}

func TestEmptyBufferAfterEOF(t *testing.T) {
	d := NewDeformatter()
	d.SetEOF(true)

	res, _, _ := d.TryReadString(mkex("a5"))
	if res != EmptyBuffer {
		t.Fatalf("want EmptyBuffer got %v", res)
	}
}

func TestTokenMismatch(t *testing.T) {
	d := NewDeformatter()
	res, _, _ := d.TryReadBool(mkex("00"))
	if res != TokenMismatch {
		t.Fatalf("want TokenMismatch got %v", res)
	}
}

func TestArrayMapHeaders(t *testing.T) {
	f := Formatter{}
	d := NewDeformatter()

	p := f.WriteArrayHeader(nil, 3)
	res, n, off := d.TryReadArrayHeader(p)
	if res != Success || n != 3 || off != len(p) {
		t.Fatalf("array header: res=%v n=%d off=%d", res, n, off)
	}

	p = f.WriteMapHeader(nil, 17)
	res, n, off = d.TryReadMapHeader(p)
	if res != Success || n != 17 || off != len(p) {
		t.Fatalf("map header: res=%v n=%d off=%d", res, n, off)
	}
}

func TestTrySkip(t *testing.T) {
	f := Formatter{}
	var p []byte
	p = f.WriteArrayHeader(p, 2)
	p = f.WriteInt(p, 42)
	p = f.WriteString(p, "hi")

	// trailing byte after the structure to prove skip consumes exactly one.
	p = append(p, 0xAB)

	d := NewDeformatter()
	res, n := d.TrySkip(p, nil)
	if res != Success || n != len(p)-1 {
		t.Fatalf("res=%v n=%d want %d", res, n, len(p)-1)
	}
}

func TestMultidimScenario(t *testing.T) {
	// spec.md §8(d): int[2,3] of [[1,2,3],[4,5,6]] -> `92 92 02 03 96 01 02 03 04 05 06`
	f := Formatter{}
	var p []byte
	p = f.WriteArrayHeader(p, 2)
	p = f.WriteArrayHeader(p, 2)
	p = f.WriteInt(p, 2)
	p = f.WriteInt(p, 3)
	p = f.WriteArrayHeader(p, 6)
	for _, v := range []int64{1, 2, 3, 4, 5, 6} {
		p = f.WriteInt(p, v)
	}
	if !bytes.Equal(p, mkex("9292020396010203040506")) {
		t.Fatalf("got %x", p)
	}
}

func TestExtensionHeaderRoundTrip(t *testing.T) {
	f := Formatter{}
	d := NewDeformatter()

	p := f.WriteExtensionHeader(nil, ExtensionBackref, 1)
	p = append(p, 0x2a)

	res, typ, length, n := d.TryReadExtensionHeader(p)
	if res != Success || typ != ExtensionBackref || length != 1 || n != len(p)-1 {
		t.Fatalf("res=%v typ=%d length=%d n=%d", res, typ, length, n)
	}
}
