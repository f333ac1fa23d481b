package segwire

import (
	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/wire"
	"go.uber.org/zap"
)

// PointerBuilder is a mutable pointer slot.
type PointerBuilder struct {
	msg  *Message
	seg  *arena.Segment
	addr uint32
}

func (p PointerBuilder) IsNull() bool {
	return p.seg.Pointer(p.addr).IsNull()
}

func (p PointerBuilder) AsReader() PointerReader {
	return p.msg.reader(p.seg, p.addr)
}

// Clear zeroes the slot's object and nulls the slot.
func (p PointerBuilder) Clear() {
	p.msg.zeroObject(p.seg, p.addr)
}

// materialize copies def into a null slot. It reports whether it wrote
// anything.
func (p PointerBuilder) materialize(def *Default) (bool, error) {
	if def == nil || def.root.IsNull() {
		return false, nil
	}
	if err := copyPointer(p, def.root); err != nil {
		return false, err
	}
	p.msg.log.Debug("materialized default", zap.Uint32("segment", p.seg.ID))
	return true, nil
}

func (p PointerBuilder) target() target {
	t, err := p.msg.rctx.follow(p.seg, p.addr)
	if err != nil {
		// the builder only ever writes well-formed pointers
		panic(err)
	}
	return t
}

// Struct returns the slot's struct with at least size sections. A null slot
// gets a copy of def, or a zeroed struct. A smaller stored struct is copied
// into new storage of the combined shape.
func (p PointerBuilder) Struct(size wire.StructSize, def *Default) (StructBuilder, error) {
	if p.IsNull() {
		ok, err := p.materialize(def)
		if err != nil {
			return StructBuilder{}, err
		}
		if !ok {
			return p.InitStruct(size)
		}
	}
	t := p.target()
	if t.p.Kind() != wire.StructKind {
		return StructBuilder{}, errorf(KindIncompatibleShape, "expected struct, found %v", t.p.Kind())
	}
	old := t.p.StructSize()
	if old.Covers(size) {
		return p.structAt(t.seg, t.addr, old), nil
	}
	return p.upgradeStruct(t, old.Max(size))
}

func (p PointerBuilder) structAt(seg *arena.Segment, addr uint32, sz wire.StructSize) StructBuilder {
	return StructBuilder{
		msg:      p.msg,
		data:     dataSection{seg: seg, addr: addr, bits: sz.DataBits()},
		ptrs:     addr + uint32(sz.DataWords)*common.WordSize,
		ptrCount: sz.PointerCount,
	}
}

func (p PointerBuilder) upgradeStruct(t target, sz wire.StructSize) (StructBuilder, error) {
	old := t.p.StructSize()
	seg, addr, err := p.msg.alloc(t.seg, sz.TotalWords())
	if err != nil {
		return StructBuilder{}, err
	}
	copy(seg.Slice(addr, uint32(old.DataWords)*common.WordSize), t.seg.Slice(t.addr, uint32(old.DataWords)*common.WordSize))
	oldPtrs := t.addr + uint32(old.DataWords)*common.WordSize
	newPtrs := addr + uint32(sz.DataWords)*common.WordSize
	for i := uint32(0); i < uint32(old.PointerCount); i++ {
		if err := p.msg.transferPointer(t.seg, oldPtrs+i*common.WordSize, seg, newPtrs+i*common.WordSize); err != nil {
			return StructBuilder{}, err
		}
	}
	t.seg.Zero(t.addr, old.TotalWords()*common.WordSize)
	p.msg.dropPad(p.seg, p.addr)
	sp, _ := wire.NewStructPointer(0, sz)
	if err := p.msg.writePointer(p.seg, p.addr, seg, addr, sp); err != nil {
		return StructBuilder{}, err
	}
	p.msg.log.Debug("upgraded struct",
		zap.Uint16("old_data", old.DataWords), zap.Uint16("old_ptrs", old.PointerCount),
		zap.Uint16("new_data", sz.DataWords), zap.Uint16("new_ptrs", sz.PointerCount))
	return p.structAt(seg, addr, sz), nil
}

// InitStruct replaces the slot's object with a zeroed struct.
func (p PointerBuilder) InitStruct(size wire.StructSize) (StructBuilder, error) {
	p.Clear()
	if size.IsZero() {
		p.seg.SetPointer(p.addr, zeroSizedStruct)
		return p.structAt(p.seg, p.addr, size), nil
	}
	seg, addr, err := p.msg.alloc(p.seg, size.TotalWords())
	if err != nil {
		return StructBuilder{}, err
	}
	sp, _ := wire.NewStructPointer(0, size)
	if err := p.msg.writePointer(p.seg, p.addr, seg, addr, sp); err != nil {
		return StructBuilder{}, err
	}
	return p.structAt(seg, addr, size), nil
}

// SetStruct replaces the slot's object with a deep copy of src.
func (p PointerBuilder) SetStruct(src StructReader) error {
	dst, err := p.InitStruct(src.Size())
	if err != nil {
		return err
	}
	return copyStruct(dst, src)
}

// List returns the slot's list viewed as size elements. Primitive lists are
// never copied: a compatible stored list is viewed in place and anything
// else fails with ErrIncompatibleShape. A null slot with no default yields
// an empty list without allocating.
func (p PointerBuilder) List(size wire.ElementSize, def *Default) (ListBuilder, error) {
	if size == wire.InlineComposite {
		return p.StructList(wire.StructSize{}.Layout(0), def)
	}
	if p.IsNull() {
		ok, err := p.materialize(def)
		if err != nil {
			return ListBuilder{}, err
		}
		if !ok {
			return ListBuilder{msg: p.msg, seg: p.seg, size: size}, nil
		}
	}
	l, err := p.msg.rctx.readList(p.target(), size, 0)
	if err != nil {
		return ListBuilder{}, err
	}
	return builderOf(p.msg, l), nil
}

// StructList returns the slot's list as a list of elem structs. A stored
// list that already holds every field is viewed in place, as is any bit
// list, whose elements then expose field zero only. Anything smaller is
// upgraded by copy into a struct list.
func (p PointerBuilder) StructList(elem wire.ElementLayout, def *Default) (ListBuilder, error) {
	if p.IsNull() {
		ok, err := p.materialize(def)
		if err != nil {
			return ListBuilder{}, err
		}
		if !ok {
			return ListBuilder{
				msg:      p.msg,
				seg:      p.seg,
				dataBits: elem.Size.DataBits(),
				ptrCount: elem.Size.PointerCount,
				size:     wire.InlineComposite,
			}, nil
		}
	}
	t := p.target()
	l, err := p.msg.rctx.readList(t, wire.InlineComposite, 0)
	if err != nil {
		return ListBuilder{}, err
	}
	stored := l.ElementStructSize()
	switch {
	case l.size == wire.InlineComposite && stored.Covers(elem.Size):
		return builderOf(p.msg, l), nil
	case l.size == wire.Bit || elem.HeldBy(l.size):
		return builderOf(p.msg, l), nil
	}
	return p.upgradeList(t, l, stored.Max(elem.Size))
}

func (p PointerBuilder) upgradeList(t target, old ListReader, elem wire.StructSize) (ListBuilder, error) {
	per := elem.TotalWords()
	words := uint64(old.n) * uint64(per)
	if words > wire.MaxElementCount {
		return ListBuilder{}, errorf(KindAllocation, "struct list of %d words", words)
	}
	seg, addr, err := p.msg.alloc(t.seg, uint32(words)+1)
	if err != nil {
		return ListBuilder{}, err
	}
	seg.SetPointer(addr, wire.NewCompositeTag(old.n, elem))
	first := addr + common.WordSize
	for i := 0; i < old.Len(); i++ {
		dst := first + uint32(i)*per*common.WordSize
		common.CopyBits(seg.Data, uint64(dst)*common.BitsPerByte, old.seg.Data, old.bitAt(i), uint64(old.dataBits))
		srcPtrs := old.elemAddr(i) + old.dataBits/common.BitsPerByte
		dstPtrs := dst + uint32(elem.DataWords)*common.WordSize
		for j := uint32(0); j < uint32(old.ptrCount); j++ {
			if err := p.msg.transferPointer(old.seg, srcPtrs+j*common.WordSize, seg, dstPtrs+j*common.WordSize); err != nil {
				return ListBuilder{}, err
			}
		}
	}

	oldWords := common.WordsForBits(uint64(old.n) * uint64(old.step))
	if old.size == wire.InlineComposite {
		oldWords++
	}
	t.seg.Zero(t.addr, uint32(oldWords)*common.WordSize)
	p.msg.dropPad(p.seg, p.addr)
	lp, err := wire.NewListPointer(0, wire.InlineComposite, uint32(words))
	if err != nil {
		return ListBuilder{}, allocFailed(err)
	}
	if err := p.msg.writePointer(p.seg, p.addr, seg, addr, lp); err != nil {
		return ListBuilder{}, err
	}
	p.msg.log.Debug("upgraded list",
		zap.Stringer("old_size", old.size), zap.Int("elements", old.Len()),
		zap.Uint16("data", elem.DataWords), zap.Uint16("ptrs", elem.PointerCount))
	return ListBuilder{
		msg:      p.msg,
		seg:      seg,
		addr:     first,
		n:        old.n,
		step:     per * common.BitsPerWord,
		dataBits: elem.DataBits(),
		ptrCount: elem.PointerCount,
		size:     wire.InlineComposite,
	}, nil
}

// InitList replaces the slot's object with n zeroed elements of a
// primitive or pointer size.
func (p PointerBuilder) InitList(size wire.ElementSize, n uint32) (ListBuilder, error) {
	if size == wire.InlineComposite {
		return p.InitStructList(wire.StructSize{}, n)
	}
	if n > wire.MaxElementCount {
		return ListBuilder{}, errorf(KindAllocation, "list of %d elements", n)
	}
	p.Clear()
	step := size.StepBits()
	words := common.WordsForBits(uint64(n) * uint64(step))
	seg, addr, err := p.msg.alloc(p.seg, uint32(words))
	if err != nil {
		return ListBuilder{}, err
	}
	lp, err := wire.NewListPointer(0, size, n)
	if err != nil {
		return ListBuilder{}, allocFailed(err)
	}
	if err := p.msg.writePointer(p.seg, p.addr, seg, addr, lp); err != nil {
		return ListBuilder{}, err
	}
	return ListBuilder{
		msg:      p.msg,
		seg:      seg,
		addr:     addr,
		n:        n,
		step:     step,
		dataBits: size.DataBits(),
		ptrCount: size.PointerCount(),
		size:     size,
	}, nil
}

// InitStructList replaces the slot's object with n zeroed structs.
func (p PointerBuilder) InitStructList(size wire.StructSize, n uint32) (ListBuilder, error) {
	per := size.TotalWords()
	words := uint64(n) * uint64(per)
	if n > wire.MaxElementCount || words > wire.MaxElementCount {
		return ListBuilder{}, errorf(KindAllocation, "struct list of %d elements", n)
	}
	p.Clear()
	seg, addr, err := p.msg.alloc(p.seg, uint32(words)+1)
	if err != nil {
		return ListBuilder{}, err
	}
	seg.SetPointer(addr, wire.NewCompositeTag(n, size))
	lp, err := wire.NewListPointer(0, wire.InlineComposite, uint32(words))
	if err != nil {
		return ListBuilder{}, allocFailed(err)
	}
	if err := p.msg.writePointer(p.seg, p.addr, seg, addr, lp); err != nil {
		return ListBuilder{}, err
	}
	return ListBuilder{
		msg:      p.msg,
		seg:      seg,
		addr:     addr + common.WordSize,
		n:        n,
		step:     per * common.BitsPerWord,
		dataBits: size.DataBits(),
		ptrCount: size.PointerCount,
		size:     wire.InlineComposite,
	}, nil
}

// SetList replaces the slot's object with a deep copy of src.
func (p PointerBuilder) SetList(src ListReader) error {
	return copyList(p, src)
}

// Text returns the slot's text, or def when the slot is null.
func (p PointerBuilder) Text(def string) (string, error) {
	return p.AsReader().Text(def)
}

// InitText allocates text of n bytes plus its terminator and returns the
// n writable bytes.
func (p PointerBuilder) InitText(n uint32) ([]byte, error) {
	if n >= wire.MaxElementCount {
		return nil, errorf(KindAllocation, "text of %d bytes", n)
	}
	l, err := p.InitList(wire.Byte, n+1)
	if err != nil {
		return nil, err
	}
	return l.seg.Slice(l.addr, n), nil
}

func (p PointerBuilder) SetText(s string) error {
	b, err := p.InitText(uint32(len(s)))
	if err != nil {
		return err
	}
	copy(b, s)
	return nil
}

// Data returns the slot's bytes for in-place modification. A null slot gets
// a copy of def.
func (p PointerBuilder) Data(def []byte) ([]byte, error) {
	if p.IsNull() {
		if def == nil {
			return nil, nil
		}
		if err := p.SetData(def); err != nil {
			return nil, err
		}
	}
	return p.AsReader().Data(nil)
}

func (p PointerBuilder) InitData(n uint32) ([]byte, error) {
	l, err := p.InitList(wire.Byte, n)
	if err != nil {
		return nil, err
	}
	return l.seg.Slice(l.addr, n), nil
}

func (p PointerBuilder) SetData(b []byte) error {
	dst, err := p.InitData(uint32(len(b)))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}
