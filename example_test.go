package segwire_test

import (
	"fmt"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// A point with x and y in the first data word and a label pointer.
var pointSize = wire.StructSize{DataWords: 1, PointerCount: 1}

func Example() {
	m := segwire.NewMessage(segwire.Options{})
	p, err := m.InitRoot(pointSize)
	if err != nil {
		panic(err)
	}
	p.SetInt32(0, -3, 0)
	p.SetInt32(1, 4, 0)
	if err := p.Ptr(0).SetText("origin-ish"); err != nil {
		panic(err)
	}
	data, err := m.Marshal()
	if err != nil {
		panic(err)
	}

	r, err := segwire.Unmarshal(data, segwire.Options{})
	if err != nil {
		panic(err)
	}
	s, err := r.Root(nil)
	if err != nil {
		panic(err)
	}
	label, err := s.Ptr(0).Text("")
	if err != nil {
		panic(err)
	}
	fmt.Println(s.Int32(0, 0), s.Int32(1, 0), label)
	// Output: -3 4 origin-ish
}

// Readers compiled against a newer shape see defaults for fields an older
// writer did not have.
func Example_evolution() {
	m := segwire.NewMessage(segwire.Options{})
	old, _ := m.InitRoot(wire.StructSize{DataWords: 1})
	old.SetUint32(0, 7, 0)

	r, _ := m.Reader()
	s, _ := r.Root(nil)
	// a field at u32 offset 2 with default 99 lives past the old data section
	fmt.Println(s.Uint32(0, 0), s.Uint32(2, 99))
	// Output: 7 99
}
