package segwire

import (
	"fmt"
	"math"

	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// ListBuilder is a mutable view of a list. Indexing past Len panics.
type ListBuilder struct {
	msg      *Message
	seg      *arena.Segment
	addr     uint32
	n        uint32
	step     uint32
	dataBits uint32
	ptrCount uint16
	size     wire.ElementSize
}

func builderOf(m *Message, l ListReader) ListBuilder {
	return ListBuilder{
		msg:      m,
		seg:      l.seg,
		addr:     l.addr,
		n:        l.n,
		step:     l.step,
		dataBits: l.dataBits,
		ptrCount: l.ptrCount,
		size:     l.size,
	}
}

func (l ListBuilder) AsReader() ListReader {
	if l.msg == nil {
		return ListReader{size: l.size}
	}
	return ListReader{
		ctx:      l.msg.rctx,
		seg:      l.seg,
		addr:     l.addr,
		n:        l.n,
		step:     l.step,
		dataBits: l.dataBits,
		ptrCount: l.ptrCount,
		size:     l.size,
		nesting:  math.MaxInt32,
	}
}

func (l ListBuilder) Len() int                      { return int(l.n) }
func (l ListBuilder) ElementSize() wire.ElementSize { return l.size }

func (l ListBuilder) elem(i int) dataSection {
	if i < 0 || i >= int(l.n) {
		panic(fmt.Sprintf("segwire: list index %d out of range [0, %d)", i, l.n))
	}
	b := uint64(l.addr)*common.BitsPerByte + uint64(i)*uint64(l.step)
	return dataSection{
		seg:   l.seg,
		addr:  uint32(b / common.BitsPerByte),
		bits:  l.dataBits,
		shift: uint8(b % common.BitsPerByte),
	}
}

func (l ListBuilder) Bool(i int) bool       { return l.elem(i).bit(0) }
func (l ListBuilder) Uint8(i int) uint8     { return l.elem(i).u8(0) }
func (l ListBuilder) Uint16(i int) uint16   { return l.elem(i).u16(0) }
func (l ListBuilder) Uint32(i int) uint32   { return l.elem(i).u32(0) }
func (l ListBuilder) Uint64(i int) uint64   { return l.elem(i).u64(0) }
func (l ListBuilder) Int8(i int) int8       { return int8(l.elem(i).u8(0)) }
func (l ListBuilder) Int16(i int) int16     { return int16(l.elem(i).u16(0)) }
func (l ListBuilder) Int32(i int) int32     { return int32(l.elem(i).u32(0)) }
func (l ListBuilder) Int64(i int) int64     { return int64(l.elem(i).u64(0)) }
func (l ListBuilder) Float32(i int) float32 { return math.Float32frombits(l.elem(i).u32(0)) }
func (l ListBuilder) Float64(i int) float64 { return math.Float64frombits(l.elem(i).u64(0)) }

func (l ListBuilder) SetBool(i int, v bool)     { l.elem(i).setBit(0, v) }
func (l ListBuilder) SetUint8(i int, v uint8)   { l.elem(i).setU8(0, v) }
func (l ListBuilder) SetUint16(i int, v uint16) { l.elem(i).setU16(0, v) }
func (l ListBuilder) SetUint32(i int, v uint32) { l.elem(i).setU32(0, v) }
func (l ListBuilder) SetUint64(i int, v uint64) { l.elem(i).setU64(0, v) }
func (l ListBuilder) SetInt8(i int, v int8)     { l.elem(i).setU8(0, uint8(v)) }
func (l ListBuilder) SetInt16(i int, v int16)   { l.elem(i).setU16(0, uint16(v)) }
func (l ListBuilder) SetInt32(i int, v int32)   { l.elem(i).setU32(0, uint32(v)) }
func (l ListBuilder) SetInt64(i int, v int64)   { l.elem(i).setU64(0, uint64(v)) }

func (l ListBuilder) SetFloat32(i int, v float32) { l.elem(i).setU32(0, math.Float32bits(v)) }
func (l ListBuilder) SetFloat64(i int, v float64) { l.elem(i).setU64(0, math.Float64bits(v)) }

// Struct returns element i of a struct list.
func (l ListBuilder) Struct(i int) StructBuilder {
	d := l.elem(i)
	return StructBuilder{
		msg:      l.msg,
		data:     d,
		ptrs:     d.addr + l.dataBits/common.BitsPerByte,
		ptrCount: l.ptrCount,
	}
}

// Ptr returns the first pointer of element i. It panics if elements have no
// pointers.
func (l ListBuilder) Ptr(i int) PointerBuilder {
	d := l.elem(i)
	if l.ptrCount == 0 {
		panic(fmt.Sprintf("segwire: %v list has no pointers", l.size))
	}
	return PointerBuilder{msg: l.msg, seg: l.seg, addr: d.addr + l.dataBits/common.BitsPerByte}
}

func (l ListBuilder) SetText(i int, s string) error {
	return l.Ptr(i).SetText(s)
}
