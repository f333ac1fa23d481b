package segwire

import "github.com/rawbytedev/segwire/pkg/wire"

// Walk calls visit for p and then, depth first, for every non-null pointer
// reachable from it. On a validated reader the walk is bounded by the
// reader's limits. Walk stops at the first error.
func Walk(p PointerReader, visit func(PointerReader) error) error {
	if p.IsNull() {
		return nil
	}
	if err := visit(p); err != nil {
		return err
	}
	k, err := p.Kind()
	if err != nil {
		return err
	}
	switch k {
	case wire.StructKind:
		s, err := p.Struct(nil)
		if err != nil {
			return err
		}
		for i := uint16(0); i < s.ptrCount; i++ {
			if err := Walk(s.Ptr(i), visit); err != nil {
				return err
			}
		}
	case wire.ListKind:
		l, err := p.List(wire.Void, nil)
		if err != nil {
			return err
		}
		if l.ptrCount == 0 {
			return nil
		}
		for i := 0; i < l.Len(); i++ {
			e := l.Struct(i)
			for j := uint16(0); j < e.ptrCount; j++ {
				if err := Walk(e.Ptr(j), visit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
