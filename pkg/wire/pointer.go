// Package wire holds the bit-exact layout of pointer words and the element
// size rules shared by builders and readers.
//
// A pointer is one little-endian 64-bit word. The low two bits select the
// kind:
//
//	struct  [offset:30 signed][kind=0:2]  [data words:16][pointer count:16]
//	list    [offset:30 signed][kind=1:2]  [element size:3][element count:29]
//	far     [pad offset:29][double:1][kind=2:2]  [segment id:32]
//
// Offsets of struct and list pointers are in words, relative to the word
// that follows the pointer. The all-zero word is the null pointer.
package wire

import (
	"errors"
	"fmt"
)

// Kind is the pointer tag stored in the low two bits.
type Kind uint8

const (
	StructKind Kind = 0
	ListKind   Kind = 1
	FarKind    Kind = 2
	OtherKind  Kind = 3
)

func (k Kind) String() string {
	switch k {
	case StructKind:
		return "struct"
	case ListKind:
		return "list"
	case FarKind:
		return "far"
	default:
		return "other"
	}
}

const (
	MaxOffset       = 1<<29 - 1
	MinOffset       = -(1 << 29)
	MaxElementCount = 1<<29 - 1
	MaxSegmentWords = 1 << 29
	MaxFarPadOffset = 1<<29 - 1
)

var (
	ErrOffsetRange = errors.New("wire: pointer offset out of range")
	ErrCountRange  = errors.New("wire: list element count out of range")
)

// Pointer is a raw pointer word.
type Pointer uint64

// Null is the all-zero pointer.
const Null Pointer = 0

// NewStructPointer encodes a struct pointer. off is the signed word offset
// from the end of the pointer to the start of the struct.
func NewStructPointer(off int32, sz StructSize) (Pointer, error) {
	if off < MinOffset || off > MaxOffset {
		return 0, fmt.Errorf("%w: %d", ErrOffsetRange, off)
	}
	return Pointer(uint64(uint32(off)<<2)|uint64(sz.DataWords)<<32|uint64(sz.PointerCount)<<48) | Pointer(StructKind), nil
}

// NewListPointer encodes a list pointer. For InlineComposite lists n is the
// number of words of element content, not counting the tag word.
func NewListPointer(off int32, es ElementSize, n uint32) (Pointer, error) {
	if off < MinOffset || off > MaxOffset {
		return 0, fmt.Errorf("%w: %d", ErrOffsetRange, off)
	}
	if n > MaxElementCount {
		return 0, fmt.Errorf("%w: %d", ErrCountRange, n)
	}
	return Pointer(uint64(uint32(off)<<2)|uint64(es&7)<<32|uint64(n)<<35) | Pointer(ListKind), nil
}

// NewFarPointer encodes a far pointer to the landing pad at word padOff of
// segment seg.
func NewFarPointer(double bool, seg uint32, padOff uint32) (Pointer, error) {
	if padOff > MaxFarPadOffset {
		return 0, fmt.Errorf("%w: pad %d", ErrOffsetRange, padOff)
	}
	p := Pointer(uint64(padOff)<<3 | uint64(seg)<<32 | uint64(FarKind))
	if double {
		p |= 1 << 2
	}
	return p, nil
}

// NewCompositeTag encodes the tag word that precedes the elements of an
// InlineComposite list. It is formatted as a struct pointer whose offset
// field holds the element count.
func NewCompositeTag(n uint32, sz StructSize) Pointer {
	return Pointer(uint64(n&MaxElementCount)<<2|uint64(sz.DataWords)<<32|uint64(sz.PointerCount)<<48) | Pointer(StructKind)
}

// Kind returns the pointer tag.
func (p Pointer) Kind() Kind {
	return Kind(p & 3)
}

// IsNull reports whether p is the all-zero word.
func (p Pointer) IsNull() bool {
	return p == 0
}

// Offset returns the signed word offset of a struct or list pointer.
func (p Pointer) Offset() int32 {
	return int32(uint32(p)) >> 2
}

// WithOffset returns p with its struct/list offset replaced. The shape bits
// are kept.
func (p Pointer) WithOffset(off int32) (Pointer, error) {
	if off < MinOffset || off > MaxOffset {
		return 0, fmt.Errorf("%w: %d", ErrOffsetRange, off)
	}
	return p&^0xFFFFFFFC | Pointer(uint32(off)<<2), nil
}

// StructSize returns the shape of a struct pointer or composite tag.
func (p Pointer) StructSize() StructSize {
	return StructSize{
		DataWords:    uint16(p >> 32),
		PointerCount: uint16(p >> 48),
	}
}

// ElementSize returns the element size tag of a list pointer.
func (p Pointer) ElementSize() ElementSize {
	return ElementSize(p>>32) & 7
}

// ElementCount returns the element count of a list pointer (word count for
// InlineComposite lists).
func (p Pointer) ElementCount() uint32 {
	return uint32(p >> 35)
}

// TagCount returns the element count stored in a composite tag word.
func (p Pointer) TagCount() uint32 {
	return uint32(p) >> 2
}

// IsDoubleFar reports whether a far pointer's landing pad is two words.
func (p Pointer) IsDoubleFar() bool {
	return p&4 != 0
}

// FarSegment returns the segment id of a far pointer's landing pad.
func (p Pointer) FarSegment() uint32 {
	return uint32(p >> 32)
}

// FarOffset returns the word offset of a far pointer's landing pad.
func (p Pointer) FarOffset() uint32 {
	return uint32(p) >> 3
}

func (p Pointer) String() string {
	if p == 0 {
		return "null"
	}
	switch p.Kind() {
	case StructKind:
		sz := p.StructSize()
		return fmt.Sprintf("struct(off=%d, data=%d, ptrs=%d)", p.Offset(), sz.DataWords, sz.PointerCount)
	case ListKind:
		return fmt.Sprintf("list(off=%d, size=%v, n=%d)", p.Offset(), p.ElementSize(), p.ElementCount())
	case FarKind:
		return fmt.Sprintf("far(double=%t, seg=%d, pad=%d)", p.IsDoubleFar(), p.FarSegment(), p.FarOffset())
	default:
		return fmt.Sprintf("other(%#016x)", uint64(p))
	}
}
