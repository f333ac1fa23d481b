package testschema

import (
	"math"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// AllTypesValue is a TestAllTypes decoded into Go values. Empty lists and
// empty data decode as nil.
type AllTypesValue struct {
	Bool    bool
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Float32 float32
	Float64 float64
	Enum    TestEnum

	Text   string
	Data   []byte
	Struct *AllTypesValue

	VoidList    int
	BoolList    []bool
	Int8List    []int8
	Int16List   []int16
	Int32List   []int32
	Int64List   []int64
	Uint8List   []uint8
	Uint16List  []uint16
	Uint32List  []uint32
	Uint64List  []uint64
	Float32List []float32
	Float64List []float64
	TextList    []string
	DataList    [][]byte
	StructList  []AllTypesValue
	EnumList    []TestEnum
}

// SampleValue is the message every encoding test writes and expects back.
// It is also the default of every TestDefaults field.
func SampleValue() *AllTypesValue {
	return &AllTypesValue{
		Bool:    true,
		Int8:    -123,
		Int16:   -12345,
		Int32:   -12345678,
		Int64:   -123456789012345,
		Uint8:   234,
		Uint16:  45678,
		Uint32:  3456789012,
		Uint64:  12345678901234567890,
		Float32: 1234.5,
		Float64: -123e45,
		Enum:    Corge,
		Text:    "foo",
		Data:    []byte("bar"),
		Struct: &AllTypesValue{
			Bool:    true,
			Int8:    -12,
			Int16:   3456,
			Int32:   -78901234,
			Int64:   56789012345678,
			Uint8:   90,
			Uint16:  1234,
			Uint32:  56789012,
			Uint64:  345678901234567890,
			Float32: -1.25e-10,
			Float64: 345,
			Enum:    Baz,
			Text:    "baz",
			Data:    []byte("qux"),
			Struct: &AllTypesValue{
				Text:   "nested",
				Struct: &AllTypesValue{Text: "really nested"},
			},
			VoidList:   3,
			BoolList:   []bool{false, true, false, true, true},
			Int8List:   []int8{12, -34, -0x80, 0x7f},
			Int16List:  []int16{1234, -5678, -0x8000, 0x7fff},
			Int32List:  []int32{12345678, -90123456, -0x80000000, 0x7fffffff},
			Int64List:  []int64{123456789012345, -678901234567890, -0x8000000000000000, 0x7fffffffffffffff},
			Uint8List:  []uint8{12, 34, 0, 0xff},
			Uint16List: []uint16{1234, 5678, 0, 0xffff},
			Uint32List: []uint32{12345678, 90123456, 0, 0xffffffff},
			Uint64List: []uint64{123456789012345, 678901234567890, 0, 0xffffffffffffffff},
			TextList:   []string{"quux", "corge", "grault"},
			DataList:   [][]byte{[]byte("garply"), []byte("waldo"), []byte("fred")},
			StructList: []AllTypesValue{
				{Text: "x structlist 1"},
				{Text: "x structlist 2"},
				{Text: "x structlist 3"},
			},
			EnumList: []TestEnum{Qux, Bar, Grault},
		},
		VoidList:    6,
		BoolList:    []bool{true, false, false, true},
		Int8List:    []int8{111, -111},
		Int16List:   []int16{11111, -11111},
		Int32List:   []int32{111111111, -111111111},
		Int64List:   []int64{1111111111111111111, -1111111111111111111},
		Uint8List:   []uint8{111, 222},
		Uint16List:  []uint16{33333, 44444},
		Uint32List:  []uint32{3333333333},
		Uint64List:  []uint64{11111111111111111111},
		Float32List: []float32{5555.5, float32(math.Inf(1)), float32(math.Inf(-1))},
		Float64List: []float64{7777.75, math.Inf(1), math.Inf(-1)},
		TextList:    []string{"plugh", "xyzzy", "thud"},
		DataList:    [][]byte{[]byte("oops"), []byte("exhausted"), []byte("rfc3092")},
		StructList: []AllTypesValue{
			{Text: "structlist 1"},
			{Text: "structlist 2"},
			{Text: "structlist 3"},
		},
		EnumList: []TestEnum{Foo, Garply},
	}
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}

func decodeList[T any](l segwire.ListReader, get func(int) T) []T {
	if l.Len() == 0 {
		return nil
	}
	out := make([]T, l.Len())
	for i := range out {
		out[i] = get(i)
	}
	return out
}

// Value decodes every field.
func (s TestAllTypes) Value() (*AllTypesValue, error) {
	v := &AllTypesValue{
		Bool:    s.BoolField(),
		Int8:    s.Int8Field(),
		Int16:   s.Int16Field(),
		Int32:   s.Int32Field(),
		Int64:   s.Int64Field(),
		Uint8:   s.Uint8Field(),
		Uint16:  s.Uint16Field(),
		Uint32:  s.Uint32Field(),
		Uint64:  s.Uint64Field(),
		Float32: s.Float32Field(),
		Float64: s.Float64Field(),
		Enum:    s.EnumField(),
	}
	var err error
	if v.Text, err = s.TextField(); err != nil {
		return nil, err
	}
	data, err := s.DataField()
	if err != nil {
		return nil, err
	}
	v.Data = clone(data)
	if s.HasStructField() || s.d.Struct != nil {
		st, err := s.StructField()
		if err != nil {
			return nil, err
		}
		if v.Struct, err = st.Value(); err != nil {
			return nil, err
		}
	}

	var lists [NumPointers]segwire.ListReader
	for i := PtrVoidList; i < NumPointers; i++ {
		if lists[i], err = s.list(i); err != nil {
			return nil, err
		}
	}
	v.VoidList = lists[PtrVoidList].Len()
	v.BoolList = decodeList(lists[PtrBoolList], lists[PtrBoolList].Bool)
	v.Int8List = decodeList(lists[PtrInt8List], lists[PtrInt8List].Int8)
	v.Int16List = decodeList(lists[PtrInt16List], lists[PtrInt16List].Int16)
	v.Int32List = decodeList(lists[PtrInt32List], lists[PtrInt32List].Int32)
	v.Int64List = decodeList(lists[PtrInt64List], lists[PtrInt64List].Int64)
	v.Uint8List = decodeList(lists[PtrUint8List], lists[PtrUint8List].Uint8)
	v.Uint16List = decodeList(lists[PtrUint16List], lists[PtrUint16List].Uint16)
	v.Uint32List = decodeList(lists[PtrUint32List], lists[PtrUint32List].Uint32)
	v.Uint64List = decodeList(lists[PtrUint64List], lists[PtrUint64List].Uint64)
	v.Float32List = decodeList(lists[PtrFloat32List], lists[PtrFloat32List].Float32)
	v.Float64List = decodeList(lists[PtrFloat64List], lists[PtrFloat64List].Float64)
	v.EnumList = decodeList(lists[PtrEnumList], func(i int) TestEnum {
		return TestEnum(lists[PtrEnumList].Uint16(i))
	})

	tl := lists[PtrTextList]
	for i := 0; i < tl.Len(); i++ {
		t, err := tl.Text(i)
		if err != nil {
			return nil, err
		}
		v.TextList = append(v.TextList, t)
	}
	dl := lists[PtrDataList]
	for i := 0; i < dl.Len(); i++ {
		d, err := dl.Ptr(i).Data(nil)
		if err != nil {
			return nil, err
		}
		v.DataList = append(v.DataList, clone(d))
	}
	sl := lists[PtrStructList]
	for i := 0; i < sl.Len(); i++ {
		e, err := NewTestAllTypes(sl.Struct(i)).Value()
		if err != nil {
			return nil, err
		}
		v.StructList = append(v.StructList, *e)
	}
	return v, nil
}

// Fill writes v. Empty pointer fields are left untouched.
func (b TestAllTypesBuilder) Fill(v *AllTypesValue) error {
	b.SetBoolField(v.Bool)
	b.SetInt8Field(v.Int8)
	b.SetInt16Field(v.Int16)
	b.SetInt32Field(v.Int32)
	b.SetInt64Field(v.Int64)
	b.SetUint8Field(v.Uint8)
	b.SetUint16Field(v.Uint16)
	b.SetUint32Field(v.Uint32)
	b.SetUint64Field(v.Uint64)
	b.SetFloat32Field(v.Float32)
	b.SetFloat64Field(v.Float64)
	b.SetEnumField(v.Enum)
	if v.Text != "" {
		if err := b.SetTextField(v.Text); err != nil {
			return err
		}
	}
	if v.Data != nil {
		if err := b.SetDataField(v.Data); err != nil {
			return err
		}
	}
	if v.Struct != nil {
		st, err := b.InitStructField()
		if err != nil {
			return err
		}
		if err := st.Fill(v.Struct); err != nil {
			return err
		}
	}
	for i := PtrVoidList; i < NumPointers; i++ {
		if err := fillListField(b.Ptr(uint16(i)), i, v); err != nil {
			return err
		}
	}
	return nil
}

func fillList[T any](p segwire.PointerBuilder, size wire.ElementSize, vals []T, set func(segwire.ListBuilder, int, T)) error {
	if len(vals) == 0 {
		return nil
	}
	l, err := p.InitList(size, uint32(len(vals)))
	if err != nil {
		return err
	}
	for i, x := range vals {
		set(l, i, x)
	}
	return nil
}

// fillListField writes list field i of v into p.
func fillListField(p segwire.PointerBuilder, i int, v *AllTypesValue) error {
	size := listSizes[i]
	switch i {
	case PtrVoidList:
		if v.VoidList == 0 {
			return nil
		}
		_, err := p.InitList(wire.Void, uint32(v.VoidList))
		return err
	case PtrBoolList:
		return fillList(p, size, v.BoolList, segwire.ListBuilder.SetBool)
	case PtrInt8List:
		return fillList(p, size, v.Int8List, segwire.ListBuilder.SetInt8)
	case PtrInt16List:
		return fillList(p, size, v.Int16List, segwire.ListBuilder.SetInt16)
	case PtrInt32List:
		return fillList(p, size, v.Int32List, segwire.ListBuilder.SetInt32)
	case PtrInt64List:
		return fillList(p, size, v.Int64List, segwire.ListBuilder.SetInt64)
	case PtrUint8List:
		return fillList(p, size, v.Uint8List, segwire.ListBuilder.SetUint8)
	case PtrUint16List:
		return fillList(p, size, v.Uint16List, segwire.ListBuilder.SetUint16)
	case PtrUint32List:
		return fillList(p, size, v.Uint32List, segwire.ListBuilder.SetUint32)
	case PtrUint64List:
		return fillList(p, size, v.Uint64List, segwire.ListBuilder.SetUint64)
	case PtrFloat32List:
		return fillList(p, size, v.Float32List, segwire.ListBuilder.SetFloat32)
	case PtrFloat64List:
		return fillList(p, size, v.Float64List, segwire.ListBuilder.SetFloat64)
	case PtrEnumList:
		return fillList(p, size, v.EnumList, func(l segwire.ListBuilder, i int, e TestEnum) {
			l.SetUint16(i, uint16(e))
		})
	case PtrTextList:
		if len(v.TextList) == 0 {
			return nil
		}
		l, err := p.InitList(wire.PointerSize, uint32(len(v.TextList)))
		if err != nil {
			return err
		}
		for j, t := range v.TextList {
			if err := l.SetText(j, t); err != nil {
				return err
			}
		}
	case PtrDataList:
		if len(v.DataList) == 0 {
			return nil
		}
		l, err := p.InitList(wire.PointerSize, uint32(len(v.DataList)))
		if err != nil {
			return err
		}
		for j, d := range v.DataList {
			if err := l.Ptr(j).SetData(d); err != nil {
				return err
			}
		}
	case PtrStructList:
		if len(v.StructList) == 0 {
			return nil
		}
		l, err := p.InitStructList(TestAllTypesSize, uint32(len(v.StructList)))
		if err != nil {
			return err
		}
		for j := range v.StructList {
			if err := NewTestAllTypesBuilder(l.Struct(j)).Fill(&v.StructList[j]); err != nil {
				return err
			}
		}
	}
	return nil
}
