// Package msgpack implements the token-level encoding and decoding of the
// MessagePack wire format described at https://github.com/msgpack/msgpack/blob/master/spec.md.
//
// This package is intentionally low-level: it knows how to read and write
// one primitive or one framing marker at a time and nothing about the
// higher-level converter pipeline built on top of it in the parent package.
// Readers should treat it the way the smithy-go encoding/cbor package treats
// CBOR: a formatter/deformatter pair, and the sole place the exact byte
// layout of the wire format is allowed to leak.
package msgpack

// TypeCode classifies the next token in a MessagePack stream without fully
// decoding it.
type TypeCode int

// Enumerates TypeCode.
const (
	TypeUnknown TypeCode = iota
	TypeInteger
	TypeNil
	TypeBoolean
	TypeFloat
	TypeString
	TypeBinary
	TypeArray
	TypeMap
	TypeExtension
)

func (t TypeCode) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeNil:
		return "Nil"
	case TypeBoolean:
		return "Boolean"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	case TypeBinary:
		return "Binary"
	case TypeArray:
		return "Array"
	case TypeMap:
		return "Map"
	case TypeExtension:
		return "Extension"
	default:
		return "Unknown"
	}
}

// DecodeResult is the four-value outcome of a streaming decode step.
type DecodeResult int

// Enumerates DecodeResult.
const (
	// Success indicates the requested value was fully decoded.
	Success DecodeResult = iota
	// InsufficientBuffer indicates more bytes are needed and may arrive;
	// the caller should fetch more and retry from the same offset.
	InsufficientBuffer
	// EmptyBuffer indicates the source signalled completion (EOF) while a
	// token was only partially available; no more bytes will ever arrive.
	EmptyBuffer
	// TokenMismatch indicates the next byte in the buffer is not a type
	// discriminator the requested operation can consume.
	TokenMismatch
)

func (r DecodeResult) String() string {
	switch r {
	case Success:
		return "Success"
	case InsufficientBuffer:
		return "InsufficientBuffer"
	case EmptyBuffer:
		return "EmptyBuffer"
	case TokenMismatch:
		return "TokenMismatch"
	default:
		return "Unknown"
	}
}

// ExtensionBackref is the reserved MessagePack extension type code used to
// carry a reference-preservation backref index (see refid.Tracker). The
// payload is the index of the first occurrence of the referenced object,
// as a fixed 8-byte big-endian unsigned integer.
//
// spec.md leaves the exact wire envelope for this as an open question; this
// is where the implementation fixes it.
const ExtensionBackref int8 = 0x64
