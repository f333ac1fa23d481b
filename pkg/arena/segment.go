// Package arena owns the word segments a message lives in: a growable
// builder arena and a read-only table over externally supplied bytes.
package arena

import (
	"encoding/binary"

	"github.com/rawbytedev/segwire/pkg/wire"
)

// Segment is a contiguous run of little-endian words. Addresses are byte
// offsets from the start of the segment.
type Segment struct {
	ID   uint32
	Data []byte
}

// Source resolves segment ids to segments.
type Source interface {
	Segment(id uint32) (*Segment, bool)
}

// Len returns the number of used bytes.
func (s *Segment) Len() uint32 {
	return uint32(len(s.Data))
}

// Words returns the number of used words.
func (s *Segment) Words() uint32 {
	return uint32(len(s.Data) / 8)
}

// InBounds reports whether [addr, addr+size) lies inside the segment.
func (s *Segment) InBounds(addr, size uint64) bool {
	n := uint64(len(s.Data))
	return addr <= n && size <= n-addr
}

// Slice returns n bytes at addr. It aliases the segment.
func (s *Segment) Slice(addr, n uint32) []byte {
	return s.Data[addr : addr+n : addr+n]
}

func (s *Segment) Pointer(addr uint32) wire.Pointer {
	return wire.Pointer(binary.LittleEndian.Uint64(s.Data[addr:]))
}

func (s *Segment) SetPointer(addr uint32, p wire.Pointer) {
	binary.LittleEndian.PutUint64(s.Data[addr:], uint64(p))
}

func (s *Segment) Uint8(addr uint32) uint8 {
	return s.Data[addr]
}

func (s *Segment) Uint16(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(s.Data[addr:])
}

func (s *Segment) Uint32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(s.Data[addr:])
}

func (s *Segment) Uint64(addr uint32) uint64 {
	return binary.LittleEndian.Uint64(s.Data[addr:])
}

func (s *Segment) SetUint8(addr uint32, v uint8) {
	s.Data[addr] = v
}

func (s *Segment) SetUint16(addr uint32, v uint16) {
	binary.LittleEndian.PutUint16(s.Data[addr:], v)
}

func (s *Segment) SetUint32(addr uint32, v uint32) {
	binary.LittleEndian.PutUint32(s.Data[addr:], v)
}

func (s *Segment) SetUint64(addr uint32, v uint64) {
	binary.LittleEndian.PutUint64(s.Data[addr:], v)
}

// Bit returns bit number off counted from the start of the segment.
func (s *Segment) Bit(off uint64) bool {
	return s.Data[off/8]>>(off%8)&1 != 0
}

// SetBit sets bit number off counted from the start of the segment.
func (s *Segment) SetBit(off uint64, v bool) {
	if v {
		s.Data[off/8] |= 1 << (off % 8)
	} else {
		s.Data[off/8] &^= 1 << (off % 8)
	}
}

// Zero clears n bytes at addr.
func (s *Segment) Zero(addr, n uint32) {
	clear(s.Data[addr : addr+n])
}
