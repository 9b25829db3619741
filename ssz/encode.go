package ssz

import "encoding/binary"

// OffsetSize is the width of an SSZ variable-field offset.
const OffsetSize = 4

// Encoder accumulates a container's SSZ encoding: fixed-size fields and
// offset placeholders are appended in field order, then each variable
// field's bytes are appended after all fixed fields, per the SSZ
// container encoding rule (fixed part inline, variable part by offset).
type Encoder struct {
	fixed     []byte
	offsetAt  []int
	variable  [][]byte
}

// PutUint64 appends a little-endian uint64 fixed field.
func (e *Encoder) PutUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.fixed = append(e.fixed, b[:]...)
}

// PutUint32 appends a little-endian uint32 fixed field.
func (e *Encoder) PutUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.fixed = append(e.fixed, b[:]...)
}

// PutBool appends a one-byte bool fixed field.
func (e *Encoder) PutBool(v bool) {
	if v {
		e.fixed = append(e.fixed, 1)
	} else {
		e.fixed = append(e.fixed, 0)
	}
}

// PutBytes appends a fixed-size byte vector inline.
func (e *Encoder) PutBytes(b []byte) {
	e.fixed = append(e.fixed, b...)
}

// PutOffset reserves a 4-byte offset placeholder for a variable-size
// field and records its encoded bytes to be appended after all fixed
// fields have been written.
func (e *Encoder) PutOffset(data []byte) {
	e.offsetAt = append(e.offsetAt, len(e.fixed))
	e.fixed = append(e.fixed, make([]byte, OffsetSize)...)
	e.variable = append(e.variable, data)
}

// Bytes finalizes the encoding: fixed part with resolved offsets,
// followed by each variable part in field order.
func (e *Encoder) Bytes() []byte {
	fixedLen := len(e.fixed)
	total := fixedLen
	for _, v := range e.variable {
		total += len(v)
	}
	out := make([]byte, total)
	copy(out, e.fixed)

	cursor := uint32(fixedLen)
	for i, pos := range e.offsetAt {
		binary.LittleEndian.PutUint32(out[pos:pos+OffsetSize], cursor)
		cursor += uint32(len(e.variable[i]))
	}

	offset := fixedLen
	for _, v := range e.variable {
		copy(out[offset:], v)
		offset += len(v)
	}
	return out
}

// EncodeList encodes a homogeneous list of variable-size elements,
// each already SSZ-encoded, as a concatenation with no length prefix —
// the element count is implicit in the container's own offset bounds.
func EncodeList(elems [][]byte) []byte {
	total := 0
	for _, e := range elems {
		total += len(e)
	}
	out := make([]byte, 0, total)
	for _, e := range elems {
		out = append(out, e...)
	}
	return out
}

// EncodeFixedList encodes a homogeneous list of fixed-size elements by
// concatenation.
func EncodeFixedList(elems [][]byte) []byte {
	return EncodeList(elems)
}

// PutOffsetAt writes a 4-byte offset at a fixed position within an
// already-allocated buffer, for building an element-offset table ahead
// of appending each element's bytes.
func PutOffsetAt(buf []byte, pos int, v uint32) {
	binary.LittleEndian.PutUint32(buf[pos:pos+OffsetSize], v)
}
