package segwire

import (
	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// copyPointer replaces dst's object with a deep copy of src's. Reading src
// is subject to src's limits.
func copyPointer(dst PointerBuilder, src PointerReader) error {
	if src.IsNull() {
		dst.Clear()
		return nil
	}
	k, err := src.Kind()
	if err != nil {
		return err
	}
	switch k {
	case wire.StructKind:
		s, err := src.Struct(nil)
		if err != nil {
			return err
		}
		return dst.SetStruct(s)
	case wire.ListKind:
		l, err := src.List(wire.Void, nil)
		if err != nil {
			return err
		}
		return copyList(dst, l)
	}
	return malformed("cannot copy %v pointer", k)
}

func copyStruct(dst StructBuilder, src StructReader) error {
	n := min(src.data.bits, dst.data.bits)
	common.CopyBits(dst.data.seg.Data, dst.data.bitAddr(0), src.data.seg.Data, src.data.bitAddr(0), uint64(n))
	for i := uint16(0); i < min(src.ptrCount, dst.ptrCount); i++ {
		if err := copyPointer(dst.Ptr(i), src.Ptr(i)); err != nil {
			return err
		}
	}
	return nil
}

// copyList copies src with the element size it was stored with.
func copyList(dst PointerBuilder, src ListReader) error {
	if src.size == wire.InlineComposite {
		out, err := dst.InitStructList(src.ElementStructSize(), src.n)
		if err != nil {
			return err
		}
		for i := 0; i < src.Len(); i++ {
			if err := copyStruct(out.Struct(i), src.Struct(i)); err != nil {
				return err
			}
		}
		return nil
	}
	out, err := dst.InitList(src.size, src.n)
	if err != nil {
		return err
	}
	if src.size == wire.PointerSize {
		for i := 0; i < src.Len(); i++ {
			if err := copyPointer(out.Ptr(i), src.Ptr(i)); err != nil {
				return err
			}
		}
		return nil
	}
	bits := uint64(src.n) * uint64(src.step)
	if bits > 0 {
		common.CopyBits(out.seg.Data, uint64(out.addr)*common.BitsPerByte, src.seg.Data, uint64(src.addr)*common.BitsPerByte, bits)
	}
	return nil
}
