package testschema

import (
	"sync"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// Single-field element structs. StructN holds one N-bit field f at offset
// 0; Struct0's field is void and StructP's is text.
var (
	Struct0Size  = wire.StructSize{}
	Struct1Size  = wire.StructSize{DataWords: 1}
	Struct8Size  = wire.StructSize{DataWords: 1}
	Struct16Size = wire.StructSize{DataWords: 1}
	Struct32Size = wire.StructSize{DataWords: 1}
	Struct64Size = wire.StructSize{DataWords: 1}
	StructPSize  = wire.StructSize{PointerCount: 1}
)

// List element layouts of the single-field structs.
var (
	Struct0Layout  = Struct0Size.Layout(0)
	Struct1Layout  = Struct1Size.Layout(1)
	Struct8Layout  = Struct8Size.Layout(8)
	Struct16Layout = Struct16Size.Layout(16)
	Struct32Layout = Struct32Size.Layout(32)
	Struct64Layout = Struct64Size.Layout(64)
	StructPLayout  = StructPSize.Layout(0)
)

// TestFieldZeroIsBit: bit @0, secondBit @1 (default true), thirdField u8 at
// byte 1 (default 123).
var (
	TestFieldZeroIsBitSize   = wire.StructSize{DataWords: 1}
	TestFieldZeroIsBitLayout = TestFieldZeroIsBitSize.Layout(16)
)

type TestFieldZeroIsBit struct{ segwire.StructReader }

func (s TestFieldZeroIsBit) Bit() bool         { return s.Bool(0, false) }
func (s TestFieldZeroIsBit) SecondBit() bool   { return s.Bool(1, true) }
func (s TestFieldZeroIsBit) ThirdField() uint8 { return s.Uint8(1, 123) }

type TestFieldZeroIsBitBuilder struct{ segwire.StructBuilder }

func (s TestFieldZeroIsBitBuilder) Bit() bool         { return s.Bool(0, false) }
func (s TestFieldZeroIsBitBuilder) SecondBit() bool   { return s.Bool(1, true) }
func (s TestFieldZeroIsBitBuilder) ThirdField() uint8 { return s.Uint8(1, 123) }

// TestLists pointers, in order: list0, list1, list8, list16, list32,
// list64, listP, int32ListList, textListList, structListList.
var TestListsSize = wire.StructSize{PointerCount: 10}

const (
	ListList0 = iota
	ListList1
	ListList8
	ListList16
	ListList32
	ListList64
	ListListP
	ListInt32ListList
	ListTextListList
	ListStructListList
)

// ListsValue is a TestLists decoded into Go values.
type ListsValue struct {
	List0          int
	List1          []bool
	List8          []uint8
	List16         []uint16
	List32         []uint32
	List64         []uint64
	ListP          []string
	Int32ListList  [][]int32
	TextListList   [][]string
	StructListList [][]int32 // int32Field of each TestAllTypes
}

// ListsDefaultValue is the default of TestListDefaults.lists.
func ListsDefaultValue() *ListsValue {
	return &ListsValue{
		List0:          2,
		List1:          []bool{true, false, true, true},
		List8:          []uint8{123, 45},
		List16:         []uint16{12345, 6789},
		List32:         []uint32{123456789, 234567890},
		List64:         []uint64{1234567890123456, 2345678901234567},
		ListP:          []string{"foo", "bar"},
		Int32ListList:  [][]int32{{1, 2, 3}, {4, 5}, {12341234}},
		TextListList:   [][]string{{"foo", "bar"}, {"baz"}, {"qux", "corge"}},
		StructListList: [][]int32{{123, 456}, {789}},
	}
}

type TestLists struct{ segwire.StructReader }

func (s TestLists) List(i uint16) (segwire.ListReader, error) {
	if i >= ListInt32ListList {
		return s.Ptr(i).List(wire.PointerSize, nil)
	}
	return s.Ptr(i).StructList(nil)
}

// Value decodes every list.
func (s TestLists) Value() (*ListsValue, error) {
	var l [10]segwire.ListReader
	for i := range l {
		var err error
		if l[i], err = s.List(uint16(i)); err != nil {
			return nil, err
		}
	}
	v := &ListsValue{List0: l[ListList0].Len()}
	v.List1 = decodeList(l[ListList1], func(i int) bool { return l[ListList1].Struct(i).Bool(0, false) })
	v.List8 = decodeList(l[ListList8], func(i int) uint8 { return l[ListList8].Struct(i).Uint8(0, 0) })
	v.List16 = decodeList(l[ListList16], func(i int) uint16 { return l[ListList16].Struct(i).Uint16(0, 0) })
	v.List32 = decodeList(l[ListList32], func(i int) uint32 { return l[ListList32].Struct(i).Uint32(0, 0) })
	v.List64 = decodeList(l[ListList64], func(i int) uint64 { return l[ListList64].Struct(i).Uint64(0, 0) })
	for i := 0; i < l[ListListP].Len(); i++ {
		t, err := l[ListListP].Struct(i).Ptr(0).Text("")
		if err != nil {
			return nil, err
		}
		v.ListP = append(v.ListP, t)
	}
	for i := 0; i < l[ListInt32ListList].Len(); i++ {
		inner, err := l[ListInt32ListList].Ptr(i).List(wire.FourBytes, nil)
		if err != nil {
			return nil, err
		}
		v.Int32ListList = append(v.Int32ListList, decodeList(inner, inner.Int32))
	}
	for i := 0; i < l[ListTextListList].Len(); i++ {
		inner, err := l[ListTextListList].Ptr(i).List(wire.PointerSize, nil)
		if err != nil {
			return nil, err
		}
		var texts []string
		for j := 0; j < inner.Len(); j++ {
			t, err := inner.Text(j)
			if err != nil {
				return nil, err
			}
			texts = append(texts, t)
		}
		v.TextListList = append(v.TextListList, texts)
	}
	for i := 0; i < l[ListStructListList].Len(); i++ {
		inner, err := l[ListStructListList].Ptr(i).StructList(nil)
		if err != nil {
			return nil, err
		}
		v.StructListList = append(v.StructListList, decodeList(inner, func(j int) int32 {
			return NewTestAllTypes(inner.Struct(j)).Int32Field()
		}))
	}
	return v, nil
}

type TestListsBuilder struct{ segwire.StructBuilder }

func (b TestListsBuilder) AsReader() TestLists {
	return TestLists{b.StructBuilder.AsReader()}
}

var elementLayouts = [...]wire.ElementLayout{
	ListList0:  Struct0Layout,
	ListList1:  Struct1Layout,
	ListList8:  Struct8Layout,
	ListList16: Struct16Layout,
	ListList32: Struct32Layout,
	ListList64: Struct64Layout,
	ListListP:  StructPLayout,
}

// List returns list i as stored, without copying.
func (b TestListsBuilder) List(i uint16) (segwire.ListBuilder, error) {
	if i >= ListInt32ListList {
		return b.Ptr(i).List(wire.PointerSize, nil)
	}
	return b.Ptr(i).StructList(elementLayouts[i], nil)
}

// Init allocates list i with n elements.
func (b TestListsBuilder) Init(i uint16, n uint32) (segwire.ListBuilder, error) {
	if i >= ListInt32ListList {
		return b.Ptr(i).InitList(wire.PointerSize, n)
	}
	return b.Ptr(i).InitStructList(elementLayouts[i].Size, n)
}

// Fill writes v list by list, each inner list right after its parent.
func (b TestListsBuilder) Fill(v *ListsValue) error {
	if v.List0 > 0 {
		if _, err := b.Init(ListList0, uint32(v.List0)); err != nil {
			return err
		}
	}
	if err := fillStructs(b, ListList1, v.List1, func(s segwire.StructBuilder, x bool) error { s.SetBool(0, x, false); return nil }); err != nil {
		return err
	}
	if err := fillStructs(b, ListList8, v.List8, func(s segwire.StructBuilder, x uint8) error { s.SetUint8(0, x, 0); return nil }); err != nil {
		return err
	}
	if err := fillStructs(b, ListList16, v.List16, func(s segwire.StructBuilder, x uint16) error { s.SetUint16(0, x, 0); return nil }); err != nil {
		return err
	}
	if err := fillStructs(b, ListList32, v.List32, func(s segwire.StructBuilder, x uint32) error { s.SetUint32(0, x, 0); return nil }); err != nil {
		return err
	}
	if err := fillStructs(b, ListList64, v.List64, func(s segwire.StructBuilder, x uint64) error { s.SetUint64(0, x, 0); return nil }); err != nil {
		return err
	}
	if err := fillStructs(b, ListListP, v.ListP, func(s segwire.StructBuilder, x string) error { return s.Ptr(0).SetText(x) }); err != nil {
		return err
	}

	if len(v.Int32ListList) > 0 {
		outer, err := b.Init(ListInt32ListList, uint32(len(v.Int32ListList)))
		if err != nil {
			return err
		}
		for i, xs := range v.Int32ListList {
			if err := fillList(outer.Ptr(i), wire.FourBytes, xs, segwire.ListBuilder.SetInt32); err != nil {
				return err
			}
		}
	}
	if len(v.TextListList) > 0 {
		outer, err := b.Init(ListTextListList, uint32(len(v.TextListList)))
		if err != nil {
			return err
		}
		for i, ts := range v.TextListList {
			inner, err := outer.Ptr(i).InitList(wire.PointerSize, uint32(len(ts)))
			if err != nil {
				return err
			}
			for j, t := range ts {
				if err := inner.SetText(j, t); err != nil {
					return err
				}
			}
		}
	}
	if len(v.StructListList) > 0 {
		outer, err := b.Init(ListStructListList, uint32(len(v.StructListList)))
		if err != nil {
			return err
		}
		for i, xs := range v.StructListList {
			inner, err := outer.Ptr(i).InitStructList(TestAllTypesSize, uint32(len(xs)))
			if err != nil {
				return err
			}
			for j, x := range xs {
				NewTestAllTypesBuilder(inner.Struct(j)).SetInt32Field(x)
			}
		}
	}
	return nil
}

func fillStructs[T any](b TestListsBuilder, i uint16, vals []T, set func(segwire.StructBuilder, T) error) error {
	if len(vals) == 0 {
		return nil
	}
	l, err := b.Init(i, uint32(len(vals)))
	if err != nil {
		return err
	}
	for j, x := range vals {
		if err := set(l.Struct(j), x); err != nil {
			return err
		}
	}
	return nil
}

// TestListDefaults has one pointer, lists, defaulting to ListsDefaultValue.
var TestListDefaultsSize = wire.StructSize{PointerCount: 1}

var listsDefault = sync.OnceValue(func() *segwire.Default {
	return encodeDefault(func(m *segwire.Message) error {
		root, err := m.InitRoot(TestListsSize)
		if err != nil {
			return err
		}
		return TestListsBuilder{root}.Fill(ListsDefaultValue())
	})
})

type TestListDefaults struct{ segwire.StructReader }

func (s TestListDefaults) Lists() (TestLists, error) {
	r, err := s.Ptr(0).Struct(listsDefault())
	return TestLists{r}, err
}

type TestListDefaultsBuilder struct{ segwire.StructBuilder }

// Lists returns the lists struct, copying in the default first if unset.
func (b TestListDefaultsBuilder) Lists() (TestListsBuilder, error) {
	s, err := b.Ptr(0).Struct(TestListsSize, listsDefault())
	return TestListsBuilder{s}, err
}

func (b TestListDefaultsBuilder) InitLists() (TestListsBuilder, error) {
	s, err := b.Ptr(0).InitStruct(TestListsSize)
	return TestListsBuilder{s}, err
}

// TestObject has one untyped pointer field, objectField.
var TestObjectSize = wire.StructSize{PointerCount: 1}

type TestObject struct{ segwire.StructReader }

func (s TestObject) ObjectField() segwire.PointerReader { return s.Ptr(0) }

type TestObjectBuilder struct{ segwire.StructBuilder }

func (b TestObjectBuilder) ObjectField() segwire.PointerBuilder { return b.Ptr(0) }

func (b TestObjectBuilder) AsReader() TestObject {
	return TestObject{b.StructBuilder.AsReader()}
}
