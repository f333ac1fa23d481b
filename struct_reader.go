package segwire

import (
	"math"

	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// StructReader is a read-only view of a struct. Offsets are counted in units
// of the field's own width, and every getter XORs the stored bits with the
// field's default mask. Fields beyond the stored data section read as the
// mask, so older messages yield defaults for newer fields.
//
// The zero StructReader is an empty struct.
type StructReader struct {
	ctx      *readCtx
	data     dataSection
	ptrs     uint32
	ptrCount uint16
	nesting  int
}

func (s StructReader) IsValid() bool {
	return s.ctx != nil
}

// Size returns the stored shape. The data section of a struct viewed from a
// narrow list element rounds up to one word.
func (s StructReader) Size() wire.StructSize {
	return wire.StructSize{
		DataWords:    uint16(common.WordsForBits(uint64(s.data.bits))),
		PointerCount: s.ptrCount,
	}
}

func (s StructReader) Bool(off uint32, def bool) bool {
	return s.data.bit(off) != def
}

func (s StructReader) Uint8(off uint32, mask uint8) uint8    { return s.data.u8(off) ^ mask }
func (s StructReader) Uint16(off uint32, mask uint16) uint16 { return s.data.u16(off) ^ mask }
func (s StructReader) Uint32(off uint32, mask uint32) uint32 { return s.data.u32(off) ^ mask }
func (s StructReader) Uint64(off uint32, mask uint64) uint64 { return s.data.u64(off) ^ mask }

func (s StructReader) Int8(off uint32, mask int8) int8 {
	return int8(s.data.u8(off)) ^ mask
}

func (s StructReader) Int16(off uint32, mask int16) int16 {
	return int16(s.data.u16(off)) ^ mask
}

func (s StructReader) Int32(off uint32, mask int32) int32 {
	return int32(s.data.u32(off)) ^ mask
}

func (s StructReader) Int64(off uint32, mask int64) int64 {
	return int64(s.data.u64(off)) ^ mask
}

// Float32 takes the default as the bit pattern of the float.
func (s StructReader) Float32(off uint32, mask uint32) float32 {
	return math.Float32frombits(s.data.u32(off) ^ mask)
}

func (s StructReader) Float64(off uint32, mask uint64) float64 {
	return math.Float64frombits(s.data.u64(off) ^ mask)
}

// Ptr returns pointer slot i. Slots beyond the stored pointer section are
// null.
func (s StructReader) Ptr(i uint16) PointerReader {
	if i >= s.ptrCount {
		return PointerReader{}
	}
	return PointerReader{
		ctx:     s.ctx,
		seg:     s.data.seg,
		addr:    s.ptrs + uint32(i)*common.WordSize,
		nesting: s.nesting,
	}
}

// Which returns the union discriminant stored at 16-bit offset off.
func (s StructReader) Which(off uint32) uint16 {
	return s.data.u16(off)
}

// CheckUnion panics with an *Error of kind KindUnionMismatch when union
// checking is enabled and the discriminant at off is not want.
func (s StructReader) CheckUnion(off uint32, want uint16) {
	if s.ctx == nil || !s.ctx.checkUnions {
		return
	}
	if got := s.Which(off); got != want {
		panic(errorf(KindUnionMismatch, "union member %d read while %d is set", want, got))
	}
}
