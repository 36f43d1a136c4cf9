package mpschema

// CollisionDetector is a per-deserialization bitset indexed by a
// property's declared position. It guards the invariant that no property
// may be assigned twice in a single object-as-map or object-as-array
// payload: accepting the first occurrence and silently overwriting on the
// second is the exact gap a well-known deserializer confusion attack
// exploits, so a duplicate is treated as a hard error instead.
//
// The first 64 positions are tracked inline in a single word; objects
// with more properties fall back to a byte slice, allocated by
// NewCollisionDetector and grown on demand by MarkAndCheck.
type CollisionDetector struct {
	inline   uint64
	overflow []byte
}

// NewCollisionDetector returns a detector sized for an object with
// propertyCount properties.
func NewCollisionDetector(propertyCount int) *CollisionDetector {
	d := &CollisionDetector{}
	if propertyCount > 64 {
		d.overflow = make([]byte, (propertyCount-64+7)/8)
	}
	return d
}

// MarkAndCheck marks position idx as assigned, returning true if it was
// already marked (a duplicate assignment).
func (d *CollisionDetector) MarkAndCheck(idx int) bool {
	if idx < 64 {
		bit := uint64(1) << uint(idx)
		dup := d.inline&bit != 0
		d.inline |= bit
		return dup
	}

	i := idx - 64
	byteIdx, bitIdx := i/8, uint(i%8)
	if byteIdx >= len(d.overflow) {
		grown := make([]byte, byteIdx+1)
		copy(grown, d.overflow)
		d.overflow = grown
	}
	mask := byte(1) << bitIdx
	dup := d.overflow[byteIdx]&mask != 0
	d.overflow[byteIdx] |= mask
	return dup
}

// Marked reports whether position idx has been marked, without marking
// it — used for the post-pass comparison against a required-properties
// bitmask.
func (d *CollisionDetector) Marked(idx int) bool {
	if idx < 64 {
		return d.inline&(uint64(1)<<uint(idx)) != 0
	}
	i := idx - 64
	byteIdx, bitIdx := i/8, uint(i%8)
	if byteIdx >= len(d.overflow) {
		return false
	}
	return d.overflow[byteIdx]&(byte(1)<<bitIdx) != 0
}

// UnusedDataPacket is an opaque, order-preserving capture of unrecognized
// property names (and their raw, still-encoded value bytes) seen during
// deserialization of an object that opted in via the traits.UnusedData
// trait. A read-then-write round trip re-emits these verbatim, in the
// same relative order they were first seen, after the known properties.
type UnusedDataPacket struct {
	names  []string
	values [][]byte
}

// NewUnusedDataPacket returns an empty packet.
func NewUnusedDataPacket() *UnusedDataPacket {
	return &UnusedDataPacket{}
}

// Put appends an unrecognized name/raw-value pair.
func (u *UnusedDataPacket) Put(name string, raw []byte) {
	u.names = append(u.names, name)
	u.values = append(u.values, raw)
}

// Len reports how many unrecognized entries are captured.
func (u *UnusedDataPacket) Len() int { return len(u.names) }

// At returns the name/raw-value pair at position i, in insertion order.
func (u *UnusedDataPacket) At(i int) (name string, raw []byte) {
	return u.names[i], u.values[i]
}
