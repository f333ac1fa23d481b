package testschema

import (
	"sync"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// TestUnionSize: the four discriminants share data word 0, members overlap
// in words 1 to 7, and pointer 0 and 1 hold the text members of union0 and
// union1.
var TestUnionSize = wire.StructSize{DataWords: 8, PointerCount: 2}

// Width of a union member in bits. Text members use WidthText.
const (
	WidthVoid = 0
	WidthText = 255
)

// Member locates one union member. Union is the 16-bit offset of the
// discriminant, Which the value selecting this member, and Off the offset
// of the value in units of Width.
type Member struct {
	Union uint32
	Which uint16
	Width uint8
	Off   uint32
}

var (
	U0f0s0  = Member{0, 0, WidthVoid, 0}
	U0f0s1  = Member{0, 1, 1, 64}
	U0f0s8  = Member{0, 2, 8, 8}
	U0f0s16 = Member{0, 3, 16, 4}
	U0f0s32 = Member{0, 4, 32, 2}
	U0f0s64 = Member{0, 5, 64, 1}
	U0f0sp  = Member{0, 6, WidthText, 0}
	U0f1s0  = Member{0, 7, WidthVoid, 0}
	U0f1s1  = Member{0, 8, 1, 64}
	U0f1s8  = Member{0, 9, 8, 8}
	U0f1s16 = Member{0, 10, 16, 4}
	U0f1s32 = Member{0, 11, 32, 2}
	U0f1s64 = Member{0, 12, 64, 1}
	U0f1sp  = Member{0, 13, WidthText, 0}

	U1f0s0  = Member{1, 0, WidthVoid, 0}
	U1f0s1  = Member{1, 1, 1, 129}
	U1f1s1  = Member{1, 2, 1, 129}
	U1f0s8  = Member{1, 3, 8, 17}
	U1f1s8  = Member{1, 4, 8, 17}
	U1f0s16 = Member{1, 5, 16, 9}
	U1f1s16 = Member{1, 6, 16, 9}
	U1f0s32 = Member{1, 7, 32, 5}
	U1f1s32 = Member{1, 8, 32, 5}
	U1f0s64 = Member{1, 9, 64, 3}
	U1f1s64 = Member{1, 10, 64, 3}
	U1f0sp  = Member{1, 11, WidthText, 1}
	U1f1sp  = Member{1, 12, WidthText, 1}
	U1f2s0  = Member{1, 13, WidthVoid, 0}
	U1f2s1  = Member{1, 14, 1, 192}
	U1f2s8  = Member{1, 15, 8, 24}
	U1f2s16 = Member{1, 16, 16, 12}
	U1f2s32 = Member{1, 17, 32, 6}
	U1f2s64 = Member{1, 18, 64, 3}
	U1f2sp  = Member{1, 19, WidthText, 1}

	U2f0s1  = Member{2, 0, 1, 256}
	U2f0s8  = Member{2, 1, 8, 33}
	U2f0s16 = Member{2, 2, 16, 18}
	U2f0s32 = Member{2, 3, 32, 10}
	U2f0s64 = Member{2, 4, 64, 6}

	U3f0s1  = Member{3, 0, 1, 257}
	U3f0s8  = Member{3, 1, 8, 34}
	U3f0s16 = Member{3, 2, 16, 19}
	U3f0s32 = Member{3, 3, 32, 11}
	U3f0s64 = Member{3, 4, 64, 7}
)

type TestUnion struct{ segwire.StructReader }

// Get reads a numeric member, panicking on an inactive member when union
// checks are enabled.
func (u TestUnion) Get(m Member) uint64 {
	u.CheckUnion(m.Union, m.Which)
	switch m.Width {
	case 1:
		if u.Bool(m.Off, false) {
			return 1
		}
		return 0
	case 8:
		return uint64(u.Uint8(m.Off, 0))
	case 16:
		return uint64(u.Uint16(m.Off, 0))
	case 32:
		return uint64(u.Uint32(m.Off, 0))
	case 64:
		return u.Uint64(m.Off, 0)
	}
	return 0
}

func (u TestUnion) Text(m Member) (string, error) {
	u.CheckUnion(m.Union, m.Which)
	return u.Ptr(uint16(m.Off)).Text("")
}

type TestUnionBuilder struct{ segwire.StructBuilder }

func (u TestUnionBuilder) AsReader() TestUnion {
	return TestUnion{u.StructBuilder.AsReader()}
}

// Set activates m and stores v. Void members only set the discriminant.
func (u TestUnionBuilder) Set(m Member, v uint64) {
	u.SetWhich(m.Union, m.Which)
	switch m.Width {
	case 1:
		u.SetBool(m.Off, v != 0, false)
	case 8:
		u.SetUint8(m.Off, uint8(v), 0)
	case 16:
		u.SetUint16(m.Off, uint16(v), 0)
	case 32:
		u.SetUint32(m.Off, uint32(v), 0)
	case 64:
		u.SetUint64(m.Off, v, 0)
	}
}

func (u TestUnionBuilder) SetText(m Member, v string) error {
	u.SetWhich(m.Union, m.Which)
	return u.Ptr(uint16(m.Off)).SetText(v)
}

func (u TestUnionBuilder) Get(m Member) uint64 {
	return u.AsReader().Get(m)
}

// TestUnionDefaults has two TestUnion fields with non-trivial defaults.
var TestUnionDefaultsSize = wire.StructSize{PointerCount: 2}

var unionDefaults = sync.OnceValue(func() [2]*segwire.Default {
	s16s8s64s8 := encodeDefault(func(m *segwire.Message) error {
		root, err := m.InitRoot(TestUnionSize)
		if err != nil {
			return err
		}
		u := TestUnionBuilder{root}
		u.Set(U0f0s16, 321)
		u.Set(U1f0s8, 123)
		u.Set(U2f0s64, 12345678901234567)
		u.Set(U3f0s8, 55)
		return nil
	})
	s0sps1s32 := encodeDefault(func(m *segwire.Message) error {
		root, err := m.InitRoot(TestUnionSize)
		if err != nil {
			return err
		}
		u := TestUnionBuilder{root}
		u.Set(U0f1s0, 0)
		if err := u.SetText(U1f0sp, "foo"); err != nil {
			return err
		}
		u.Set(U2f0s1, 1)
		u.Set(U3f0s32, 12345678)
		return nil
	})
	return [2]*segwire.Default{s16s8s64s8, s0sps1s32}
})

type TestUnionDefaults struct{ segwire.StructReader }

func (s TestUnionDefaults) S16s8s64s8Set() (TestUnion, error) {
	r, err := s.Ptr(0).Struct(unionDefaults()[0])
	return TestUnion{r}, err
}

func (s TestUnionDefaults) S0sps1s32Set() (TestUnion, error) {
	r, err := s.Ptr(1).Struct(unionDefaults()[1])
	return TestUnion{r}, err
}
