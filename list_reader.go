package segwire

import (
	"fmt"
	"math"

	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// ListReader is a read-only view of a list. The element getters read the
// leading bits of each stored element, which is how a list written with
// wide elements is read as a narrower one. The zero ListReader is empty.
//
// Indexing past Len panics.
type ListReader struct {
	ctx      *readCtx
	seg      *arena.Segment
	addr     uint32
	n        uint32
	step     uint32 // bits between elements
	dataBits uint32
	ptrCount uint16
	size     wire.ElementSize
	nesting  int
}

func (l ListReader) Len() int {
	return int(l.n)
}

// ElementSize returns the size the list was stored with.
func (l ListReader) ElementSize() wire.ElementSize {
	return l.size
}

// ElementStructSize returns the per-element shape: the tag shape of a
// struct list, or the sections a primitive element provides.
func (l ListReader) ElementStructSize() wire.StructSize {
	return wire.StructSize{
		DataWords:    uint16(common.WordsForBits(uint64(l.dataBits))),
		PointerCount: l.ptrCount,
	}
}

func (l ListReader) index(i int) {
	if i < 0 || i >= int(l.n) {
		panic(fmt.Sprintf("segwire: list index %d out of range [0, %d)", i, l.n))
	}
}

func (l ListReader) bitAt(i int) uint64 {
	return uint64(l.addr)*common.BitsPerByte + uint64(i)*uint64(l.step)
}

func (l ListReader) elemAddr(i int) uint32 {
	return uint32(l.bitAt(i) / common.BitsPerByte)
}

func (l ListReader) elem(i int) dataSection {
	l.index(i)
	b := l.bitAt(i)
	return dataSection{
		seg:   l.seg,
		addr:  uint32(b / common.BitsPerByte),
		bits:  l.dataBits,
		shift: uint8(b % common.BitsPerByte),
	}
}

func (l ListReader) Bool(i int) bool     { return l.elem(i).bit(0) }
func (l ListReader) Uint8(i int) uint8   { return l.elem(i).u8(0) }
func (l ListReader) Uint16(i int) uint16 { return l.elem(i).u16(0) }
func (l ListReader) Uint32(i int) uint32 { return l.elem(i).u32(0) }
func (l ListReader) Uint64(i int) uint64 { return l.elem(i).u64(0) }
func (l ListReader) Int8(i int) int8     { return int8(l.elem(i).u8(0)) }
func (l ListReader) Int16(i int) int16   { return int16(l.elem(i).u16(0)) }
func (l ListReader) Int32(i int) int32   { return int32(l.elem(i).u32(0)) }
func (l ListReader) Int64(i int) int64   { return int64(l.elem(i).u64(0)) }

func (l ListReader) Float32(i int) float32 {
	return math.Float32frombits(l.elem(i).u32(0))
}

func (l ListReader) Float64(i int) float64 {
	return math.Float64frombits(l.elem(i).u64(0))
}

// Struct views element i as a struct with whatever sections the stored
// element has.
func (l ListReader) Struct(i int) StructReader {
	d := l.elem(i)
	return StructReader{
		ctx:      l.ctx,
		data:     d,
		ptrs:     d.addr + l.dataBits/common.BitsPerByte,
		ptrCount: l.ptrCount,
		nesting:  l.nesting,
	}
}

// Ptr returns the first pointer of element i, null if the element has none.
func (l ListReader) Ptr(i int) PointerReader {
	l.index(i)
	if l.ptrCount == 0 {
		return PointerReader{}
	}
	return PointerReader{
		ctx:     l.ctx,
		seg:     l.seg,
		addr:    l.elemAddr(i) + l.dataBits/common.BitsPerByte,
		nesting: l.nesting,
	}
}

// Text reads element i of a list of text.
func (l ListReader) Text(i int) (string, error) {
	return l.Ptr(i).Text("")
}
