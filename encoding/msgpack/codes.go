package msgpack

// Leading-byte constants for the MessagePack wire format. Ranges follow the
// public spec exactly; see https://github.com/msgpack/msgpack/blob/master/spec.md#formats.
const (
	posFixintMin = 0x00
	posFixintMax = 0x7f

	fixmapMin = 0x80
	fixmapMax = 0x8f

	fixarrayMin = 0x90
	fixarrayMax = 0x9f

	fixstrMin = 0xa0
	fixstrMax = 0xbf

	codeNil     = 0xc0
	codeUnused  = 0xc1
	codeFalse   = 0xc2
	codeTrue    = 0xc3
	codeBin8    = 0xc4
	codeBin16   = 0xc5
	codeBin32   = 0xc6
	codeExt8    = 0xc7
	codeExt16   = 0xc8
	codeExt32   = 0xc9
	codeFloat32 = 0xca
	codeFloat64 = 0xcb
	codeUint8   = 0xcc
	codeUint16  = 0xcd
	codeUint32  = 0xce
	codeUint64  = 0xcf
	codeInt8    = 0xd0
	codeInt16   = 0xd1
	codeInt32   = 0xd2
	codeInt64   = 0xd3
	codeFixext1 = 0xd4
	codeFixext2 = 0xd5
	codeFixext4 = 0xd6
	codeFixext8 = 0xd7
	codeFixext16 = 0xd8
	codeStr8    = 0xd9
	codeStr16   = 0xda
	codeStr32   = 0xdb
	codeArray16 = 0xdc
	codeArray32 = 0xdd
	codeMap16   = 0xde
	codeMap32   = 0xdf

	negFixintMin = 0xe0
	negFixintMax = 0xff
)

// peekType classifies the leading byte c without consuming anything.
func peekType(c byte) TypeCode {
	switch {
	case c <= posFixintMax:
		return TypeInteger
	case c >= fixmapMin && c <= fixmapMax:
		return TypeMap
	case c >= fixarrayMin && c <= fixarrayMax:
		return TypeArray
	case c >= fixstrMin && c <= fixstrMax:
		return TypeString
	case c == codeNil:
		return TypeNil
	case c == codeFalse || c == codeTrue:
		return TypeBoolean
	case c == codeBin8 || c == codeBin16 || c == codeBin32:
		return TypeBinary
	case c == codeExt8 || c == codeExt16 || c == codeExt32:
		return TypeExtension
	case c == codeFloat32 || c == codeFloat64:
		return TypeFloat
	case c >= codeUint8 && c <= codeInt64:
		return TypeInteger
	case c >= codeFixext1 && c <= codeFixext16:
		return TypeExtension
	case c >= codeStr8 && c <= codeStr32:
		return TypeString
	case c == codeArray16 || c == codeArray32:
		return TypeArray
	case c == codeMap16 || c == codeMap32:
		return TypeMap
	case c >= negFixintMin:
		return TypeInteger
	default:
		return TypeUnknown
	}
}
