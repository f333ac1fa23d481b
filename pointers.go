package segwire

import (
	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/wire"
	"go.uber.org/zap"
)

// target is the object a pointer slot leads to once far pointers are
// resolved. p carries the shape; its offset is meaningless.
type target struct {
	p    wire.Pointer
	seg  *arena.Segment
	addr uint32 // byte address of the struct, or of the first list word
}

type readCtx struct {
	src           arena.Source
	limit         *ReadLimiter // nil for trusted readers
	checkUnions   bool
	unsafeStrings bool
}

func (c *readCtx) trusted() bool {
	return c.limit == nil
}

func (c *readCtx) enter(nesting int) error {
	if !c.trusted() && nesting <= 0 {
		return exhausted("nesting limit reached")
	}
	return nil
}

func (c *readCtx) charge(words uint64) error {
	if c.trusted() {
		return nil
	}
	return c.limit.Charge(words)
}

// follow resolves the non-null pointer stored at addr in seg.
func (c *readCtx) follow(seg *arena.Segment, addr uint32) (target, error) {
	p := seg.Pointer(addr)
	if p.Kind() != wire.FarKind {
		return c.relative(seg, addr, p)
	}
	padSeg, ok := c.src.Segment(p.FarSegment())
	if !ok {
		return target{}, malformed("far pointer into missing segment %d", p.FarSegment())
	}
	padAddr := uint64(p.FarOffset()) * common.WordSize
	if !p.IsDoubleFar() {
		if !c.trusted() && !padSeg.InBounds(padAddr, common.WordSize) {
			return target{}, malformed("far pointer landing pad out of bounds")
		}
		pad := padSeg.Pointer(uint32(padAddr))
		if pad.Kind() == wire.FarKind {
			return target{}, malformed("landing pad is another far pointer")
		}
		return c.relative(padSeg, uint32(padAddr), pad)
	}

	if !c.trusted() && !padSeg.InBounds(padAddr, 2*common.WordSize) {
		return target{}, malformed("double-far landing pad out of bounds")
	}
	far := padSeg.Pointer(uint32(padAddr))
	tag := padSeg.Pointer(uint32(padAddr) + common.WordSize)
	if far.Kind() != wire.FarKind || far.IsDoubleFar() {
		return target{}, malformed("double-far landing pad does not start with a single far pointer")
	}
	if k := tag.Kind(); k != wire.StructKind && k != wire.ListKind {
		return target{}, malformed("double-far tag is a %v pointer", k)
	}
	if tag.Offset() != 0 {
		return target{}, malformed("double-far tag has non-zero offset")
	}
	contentSeg, ok := c.src.Segment(far.FarSegment())
	if !ok {
		return target{}, malformed("double-far pointer into missing segment %d", far.FarSegment())
	}
	return target{p: tag, seg: contentSeg, addr: far.FarOffset() * common.WordSize}, nil
}

func (c *readCtx) relative(seg *arena.Segment, addr uint32, p wire.Pointer) (target, error) {
	if p.Kind() == wire.OtherKind {
		return target{}, malformed("unsupported pointer kind")
	}
	at := int64(addr) + common.WordSize + int64(p.Offset())*common.WordSize
	if !c.trusted() && (at < 0 || at > int64(seg.Len())) {
		return target{}, malformed("pointer offset %d leaves segment %d", p.Offset(), seg.ID)
	}
	return target{p: p, seg: seg, addr: uint32(at)}, nil
}

func (c *readCtx) readStruct(t target, nesting int) (StructReader, error) {
	if t.p.Kind() != wire.StructKind {
		return StructReader{}, errorf(KindIncompatibleShape, "expected struct, found %v", t.p.Kind())
	}
	sz := t.p.StructSize()
	words := uint64(sz.TotalWords())
	if !c.trusted() && !t.seg.InBounds(uint64(t.addr), words*common.WordSize) {
		return StructReader{}, malformed("struct of %d words out of bounds", words)
	}
	if err := c.charge(words); err != nil {
		return StructReader{}, err
	}
	return StructReader{
		ctx:      c,
		data:     dataSection{seg: t.seg, addr: t.addr, bits: sz.DataBits()},
		ptrs:     t.addr + uint32(sz.DataWords)*common.WordSize,
		ptrCount: sz.PointerCount,
		nesting:  nesting,
	}, nil
}

func (c *readCtx) readList(t target, want wire.ElementSize, nesting int) (ListReader, error) {
	if t.p.Kind() != wire.ListKind {
		return ListReader{}, errorf(KindIncompatibleShape, "expected list, found %v", t.p.Kind())
	}
	es := t.p.ElementSize()
	l := ListReader{ctx: c, seg: t.seg, size: es, nesting: nesting}
	var elem wire.StructSize
	if es == wire.InlineComposite {
		words := uint64(t.p.ElementCount())
		if !c.trusted() && !t.seg.InBounds(uint64(t.addr), (words+1)*common.WordSize) {
			return ListReader{}, malformed("struct list of %d words out of bounds", words)
		}
		tag := t.seg.Pointer(t.addr)
		if tag.Kind() != wire.StructKind {
			return ListReader{}, malformed("struct list tag is a %v pointer", tag.Kind())
		}
		n := tag.TagCount()
		elem = tag.StructSize()
		per := uint64(elem.TotalWords())
		if uint64(n)*per > words {
			return ListReader{}, malformed("struct list of %d elements overruns %d words", n, words)
		}
		cost := uint64(n) * per
		if per == 0 {
			cost = uint64(n)
		}
		if err := c.charge(cost); err != nil {
			return ListReader{}, err
		}
		l.addr = t.addr + common.WordSize
		l.n = n
		l.step = uint32(per * common.BitsPerWord)
		l.dataBits = elem.DataBits()
		l.ptrCount = elem.PointerCount
	} else {
		n := t.p.ElementCount()
		step := es.StepBits()
		words := common.WordsForBits(uint64(n) * uint64(step))
		if !c.trusted() && !t.seg.InBounds(uint64(t.addr), words*common.WordSize) {
			return ListReader{}, malformed("%v list of %d elements out of bounds", es, n)
		}
		cost := words
		if step == 0 {
			cost = uint64(n)
		}
		if err := c.charge(cost); err != nil {
			return ListReader{}, err
		}
		l.addr = t.addr
		l.n = n
		l.step = step
		l.dataBits = es.DataBits()
		l.ptrCount = es.PointerCount()
	}
	if wire.Check(es, elem, want) == wire.Incompatible {
		return ListReader{}, errorf(KindIncompatibleShape, "%v list read as %v list", es, want)
	}
	return l, nil
}

// alloc reserves words in near when it has room, else anywhere.
func (m *Message) alloc(near *arena.Segment, words uint32) (*arena.Segment, uint32, error) {
	if near != nil {
		if addr, ok := m.arena.AllocateIn(near, words); ok {
			return near, addr, nil
		}
	}
	seg, addr, err := m.arena.Allocate(words)
	if err != nil {
		return nil, 0, allocFailed(err)
	}
	return seg, addr, nil
}

// writePointer stores at (seg, addr) a pointer shaped like tmpl leading to
// the object at (tseg, taddr). Objects in other segments are reached
// through a landing pad in the object's segment, or a double-far pad when
// that segment is full.
func (m *Message) writePointer(seg *arena.Segment, addr uint32, tseg *arena.Segment, taddr uint32, tmpl wire.Pointer) error {
	if seg == tseg {
		p, err := tmpl.WithOffset(wordOffset(addr, taddr))
		if err != nil {
			return allocFailed(err)
		}
		seg.SetPointer(addr, p)
		return nil
	}
	if pad, ok := m.arena.AllocateIn(tseg, 1); ok {
		p, err := tmpl.WithOffset(wordOffset(pad, taddr))
		if err != nil {
			return allocFailed(err)
		}
		tseg.SetPointer(pad, p)
		far, err := wire.NewFarPointer(false, tseg.ID, pad/common.WordSize)
		if err != nil {
			return allocFailed(err)
		}
		seg.SetPointer(addr, far)
		m.log.Debug("wrote far pointer",
			zap.Uint32("from", seg.ID), zap.Uint32("to", tseg.ID))
		return nil
	}

	padSeg, pad, err := m.alloc(nil, 2)
	if err != nil {
		return err
	}
	content, err := wire.NewFarPointer(false, tseg.ID, taddr/common.WordSize)
	if err != nil {
		return allocFailed(err)
	}
	tag, _ := tmpl.WithOffset(0)
	padSeg.SetPointer(pad, content)
	padSeg.SetPointer(pad+common.WordSize, tag)
	far, err := wire.NewFarPointer(true, padSeg.ID, pad/common.WordSize)
	if err != nil {
		return allocFailed(err)
	}
	seg.SetPointer(addr, far)
	m.log.Debug("wrote double-far pointer",
		zap.Uint32("from", seg.ID), zap.Uint32("pad", padSeg.ID), zap.Uint32("to", tseg.ID))
	return nil
}

func wordOffset(from, to uint32) int32 {
	return int32((int64(to) - int64(from) - common.WordSize) / common.WordSize)
}

var zeroSizedStruct, _ = wire.NewStructPointer(-1, wire.StructSize{})

// transferPointer moves the pointer at (src, saddr) to (dst, daddr) without
// copying the object. The source slot is left untouched.
func (m *Message) transferPointer(src *arena.Segment, saddr uint32, dst *arena.Segment, daddr uint32) error {
	p := src.Pointer(saddr)
	switch {
	case p.IsNull():
		dst.SetPointer(daddr, wire.Null)
		return nil
	case p.Kind() == wire.FarKind:
		dst.SetPointer(daddr, p)
		return nil
	case p.Kind() == wire.StructKind && p.StructSize().IsZero():
		dst.SetPointer(daddr, zeroSizedStruct)
		return nil
	}
	t, err := m.rctx.relative(src, saddr, p)
	if err != nil {
		return err
	}
	return m.writePointer(dst, daddr, t.seg, t.addr, p)
}

// dropPad clears the landing pad of a far pointer at (seg, addr).
func (m *Message) dropPad(seg *arena.Segment, addr uint32) {
	p := seg.Pointer(addr)
	if p.Kind() != wire.FarKind {
		return
	}
	padSeg, ok := m.arena.Segment(p.FarSegment())
	if !ok {
		return
	}
	n := uint32(common.WordSize)
	if p.IsDoubleFar() {
		n *= 2
	}
	padSeg.Zero(p.FarOffset()*common.WordSize, n)
}

// zeroObject clears the object at (seg, addr) and everything it reaches,
// then nulls the slot.
func (m *Message) zeroObject(seg *arena.Segment, addr uint32) {
	if seg.Pointer(addr).IsNull() {
		return
	}
	t, err := m.rctx.follow(seg, addr)
	if err == nil {
		m.zeroTarget(t)
	}
	m.dropPad(seg, addr)
	seg.SetPointer(addr, wire.Null)
}

func (m *Message) zeroTarget(t target) {
	switch t.p.Kind() {
	case wire.StructKind:
		sz := t.p.StructSize()
		ptrs := t.addr + uint32(sz.DataWords)*common.WordSize
		for i := uint32(0); i < uint32(sz.PointerCount); i++ {
			m.zeroObject(t.seg, ptrs+i*common.WordSize)
		}
		t.seg.Zero(t.addr, sz.TotalWords()*common.WordSize)
	case wire.ListKind:
		l, err := m.rctx.readList(t, wire.Void, 0)
		if err != nil {
			return
		}
		if l.ptrCount > 0 {
			for i := 0; i < l.Len(); i++ {
				base := l.elemAddr(i) + l.dataBits/common.BitsPerByte
				for j := uint32(0); j < uint32(l.ptrCount); j++ {
					m.zeroObject(t.seg, base+j*common.WordSize)
				}
			}
		}
		words := common.WordsForBits(uint64(l.n) * uint64(l.step))
		if l.size == wire.InlineComposite {
			words++
		}
		t.seg.Zero(t.addr, uint32(words)*common.WordSize)
	}
}
