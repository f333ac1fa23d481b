package segwire

import (
	"fmt"

	"github.com/rawbytedev/segwire/pkg/arena"
)

// dataSection is the data half of a struct. shift is non-zero only for the
// one-bit sections of bit list elements viewed as structs.
type dataSection struct {
	seg   *arena.Segment
	addr  uint32
	bits  uint32
	shift uint8
}

func (d dataSection) has(off, width uint32) bool {
	return (uint64(off)+1)*uint64(width) <= uint64(d.bits)
}

func (d dataSection) bitAddr(off uint32) uint64 {
	return uint64(d.addr)*8 + uint64(d.shift) + uint64(off)
}

func (d dataSection) bit(off uint32) bool {
	if !d.has(off, 1) {
		return false
	}
	return d.seg.Bit(d.bitAddr(off))
}

func (d dataSection) u8(off uint32) uint8 {
	if !d.has(off, 8) {
		return 0
	}
	return d.seg.Uint8(d.addr + off)
}

func (d dataSection) u16(off uint32) uint16 {
	if !d.has(off, 16) {
		return 0
	}
	return d.seg.Uint16(d.addr + off*2)
}

func (d dataSection) u32(off uint32) uint32 {
	if !d.has(off, 32) {
		return 0
	}
	return d.seg.Uint32(d.addr + off*4)
}

func (d dataSection) u64(off uint32) uint64 {
	if !d.has(off, 64) {
		return 0
	}
	return d.seg.Uint64(d.addr + off*8)
}

func (d dataSection) mustHave(off, width uint32) {
	if !d.has(off, width) {
		panic(fmt.Sprintf("segwire: %d-bit field %d outside %d-bit data section", width, off, d.bits))
	}
}

func (d dataSection) setBit(off uint32, v bool) {
	d.mustHave(off, 1)
	d.seg.SetBit(d.bitAddr(off), v)
}

func (d dataSection) setU8(off uint32, v uint8) {
	d.mustHave(off, 8)
	d.seg.SetUint8(d.addr+off, v)
}

func (d dataSection) setU16(off uint32, v uint16) {
	d.mustHave(off, 16)
	d.seg.SetUint16(d.addr+off*2, v)
}

func (d dataSection) setU32(off uint32, v uint32) {
	d.mustHave(off, 32)
	d.seg.SetUint32(d.addr+off*4, v)
}

func (d dataSection) setU64(off uint32, v uint64) {
	d.mustHave(off, 64)
	d.seg.SetUint64(d.addr+off*8, v)
}
