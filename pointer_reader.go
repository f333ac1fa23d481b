package segwire

import (
	"unsafe"

	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// PointerReader is a read-only pointer slot. The accessor used decides how
// the target is interpreted; a null slot yields the supplied default.
type PointerReader struct {
	ctx     *readCtx
	seg     *arena.Segment
	addr    uint32
	nesting int
}

func (p PointerReader) IsNull() bool {
	return p.ctx == nil || p.seg.Pointer(p.addr).IsNull()
}

func (p PointerReader) deref() (target, error) {
	if err := p.ctx.enter(p.nesting); err != nil {
		return target{}, err
	}
	return p.ctx.follow(p.seg, p.addr)
}

// Kind reports whether the slot, after far pointers, holds a struct or a
// list. A null slot reports StructKind; test IsNull first.
func (p PointerReader) Kind() (wire.Kind, error) {
	if p.IsNull() {
		return wire.StructKind, nil
	}
	t, err := p.deref()
	if err != nil {
		return 0, err
	}
	return t.p.Kind(), nil
}

func (p PointerReader) Struct(def *Default) (StructReader, error) {
	if p.IsNull() {
		if def == nil {
			return StructReader{}, nil
		}
		return def.root.Struct(nil)
	}
	t, err := p.deref()
	if err != nil {
		return StructReader{}, err
	}
	return p.ctx.readStruct(t, p.nesting-1)
}

// List reads the slot as a list of size elements. Lists stored with a
// compatible size are viewed in place; others fail with
// ErrIncompatibleShape.
func (p PointerReader) List(size wire.ElementSize, def *Default) (ListReader, error) {
	if p.IsNull() {
		if def == nil {
			return ListReader{}, nil
		}
		return def.root.List(size, nil)
	}
	t, err := p.deref()
	if err != nil {
		return ListReader{}, err
	}
	return p.ctx.readList(t, size, p.nesting-1)
}

func (p PointerReader) StructList(def *Default) (ListReader, error) {
	return p.List(wire.InlineComposite, def)
}

// bytes reads a non-null slot as a byte list.
func (p PointerReader) bytes() ([]byte, error) {
	l, err := p.List(wire.Byte, nil)
	if err != nil {
		return nil, err
	}
	if l.size != wire.Byte {
		return nil, errorf(KindIncompatibleShape, "%v list read as bytes", l.size)
	}
	return l.seg.Slice(l.addr, l.n), nil
}

// TextBytes returns the text without its NUL terminator. The slice aliases
// the message.
func (p PointerReader) TextBytes() ([]byte, error) {
	if p.IsNull() {
		return nil, nil
	}
	b, err := p.bytes()
	if err != nil {
		return nil, err
	}
	if len(b) == 0 || b[len(b)-1] != 0 {
		if !p.ctx.trusted() {
			return nil, malformed("text is not NUL terminated")
		}
		return b, nil
	}
	return b[:len(b)-1], nil
}

func (p PointerReader) Text(def string) (string, error) {
	if p.IsNull() {
		return def, nil
	}
	b, err := p.TextBytes()
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	if p.ctx.unsafeStrings {
		return unsafe.String(&b[0], len(b)), nil
	}
	return string(b), nil
}

// Data returns the bytes of a data field. The slice aliases the message.
func (p PointerReader) Data(def []byte) ([]byte, error) {
	if p.IsNull() {
		return def, nil
	}
	return p.bytes()
}

// Raw returns the slot's pointer word as stored, before far pointers are
// followed.
func (p PointerReader) Raw() wire.Pointer {
	if p.ctx == nil {
		return wire.Null
	}
	return p.seg.Pointer(p.addr)
}
