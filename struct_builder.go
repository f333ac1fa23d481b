package segwire

import (
	"fmt"
	"math"

	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// StructBuilder is a mutable view of a struct. Setters store v XOR mask,
// so a field holding its default value is stored as zero bits.
type StructBuilder struct {
	msg      *Message
	data     dataSection
	ptrs     uint32
	ptrCount uint16
}

func (s StructBuilder) IsValid() bool {
	return s.msg != nil
}

func (s StructBuilder) Size() wire.StructSize {
	return wire.StructSize{
		DataWords:    uint16(s.data.bits / common.BitsPerWord),
		PointerCount: s.ptrCount,
	}
}

func (s StructBuilder) AsReader() StructReader {
	if s.msg == nil {
		return StructReader{}
	}
	return StructReader{
		ctx:      s.msg.rctx,
		data:     s.data,
		ptrs:     s.ptrs,
		ptrCount: s.ptrCount,
		nesting:  math.MaxInt32,
	}
}

func (s StructBuilder) Bool(off uint32, def bool) bool        { return s.data.bit(off) != def }
func (s StructBuilder) Uint8(off uint32, mask uint8) uint8    { return s.data.u8(off) ^ mask }
func (s StructBuilder) Uint16(off uint32, mask uint16) uint16 { return s.data.u16(off) ^ mask }
func (s StructBuilder) Uint32(off uint32, mask uint32) uint32 { return s.data.u32(off) ^ mask }
func (s StructBuilder) Uint64(off uint32, mask uint64) uint64 { return s.data.u64(off) ^ mask }
func (s StructBuilder) Int8(off uint32, mask int8) int8       { return int8(s.data.u8(off)) ^ mask }
func (s StructBuilder) Int16(off uint32, mask int16) int16    { return int16(s.data.u16(off)) ^ mask }
func (s StructBuilder) Int32(off uint32, mask int32) int32    { return int32(s.data.u32(off)) ^ mask }
func (s StructBuilder) Int64(off uint32, mask int64) int64    { return int64(s.data.u64(off)) ^ mask }

func (s StructBuilder) Float32(off uint32, mask uint32) float32 {
	return math.Float32frombits(s.data.u32(off) ^ mask)
}

func (s StructBuilder) Float64(off uint32, mask uint64) float64 {
	return math.Float64frombits(s.data.u64(off) ^ mask)
}

func (s StructBuilder) SetBool(off uint32, v, def bool) { s.data.setBit(off, v != def) }

func (s StructBuilder) SetUint8(off uint32, v, mask uint8)    { s.data.setU8(off, v^mask) }
func (s StructBuilder) SetUint16(off uint32, v, mask uint16)  { s.data.setU16(off, v^mask) }
func (s StructBuilder) SetUint32(off uint32, v, mask uint32)  { s.data.setU32(off, v^mask) }
func (s StructBuilder) SetUint64(off uint32, v, mask uint64)  { s.data.setU64(off, v^mask) }
func (s StructBuilder) SetInt8(off uint32, v, mask int8)      { s.data.setU8(off, uint8(v^mask)) }
func (s StructBuilder) SetInt16(off uint32, v, mask int16)    { s.data.setU16(off, uint16(v^mask)) }
func (s StructBuilder) SetInt32(off uint32, v, mask int32)    { s.data.setU32(off, uint32(v^mask)) }
func (s StructBuilder) SetInt64(off uint32, v, mask int64)    { s.data.setU64(off, uint64(v^mask)) }

func (s StructBuilder) SetFloat32(off uint32, v float32, mask uint32) {
	s.data.setU32(off, math.Float32bits(v)^mask)
}

func (s StructBuilder) SetFloat64(off uint32, v float64, mask uint64) {
	s.data.setU64(off, math.Float64bits(v)^mask)
}

// Ptr returns pointer slot i. It panics if the struct has no slot i.
func (s StructBuilder) Ptr(i uint16) PointerBuilder {
	if i >= s.ptrCount {
		panic(fmt.Sprintf("segwire: pointer %d outside %d-pointer section", i, s.ptrCount))
	}
	return PointerBuilder{
		msg:  s.msg,
		seg:  s.data.seg,
		addr: s.ptrs + uint32(i)*common.WordSize,
	}
}

func (s StructBuilder) Which(off uint32) uint16 {
	return s.data.u16(off)
}

// SetWhich stores the union discriminant. The previously active member is
// not cleared.
func (s StructBuilder) SetWhich(off uint32, v uint16) {
	s.data.setU16(off, v)
}

func (s StructBuilder) CheckUnion(off uint32, want uint16) {
	if s.msg == nil || !s.msg.opts.CheckUnions {
		return
	}
	if got := s.Which(off); got != want {
		panic(errorf(KindUnionMismatch, "union member %d read while %d is set", want, got))
	}
}
