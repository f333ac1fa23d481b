// Package testschema holds accessors for the test schemas, written the way
// a code generator would emit them, plus value types for comparing whole
// messages in tests.
package testschema

import (
	"math"
	"sync"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/pkg/wire"
)

type TestEnum uint16

const (
	Foo TestEnum = iota
	Bar
	Baz
	Qux
	Quux
	Corge
	Grault
	Garply
)

// TestAllTypesSize: six data words, nineteen pointers.
//
//	bit 0       boolField       byte 1     int8Field
//	u16 1       int16Field      u32 1      int32Field
//	u64 1       int64Field      byte 16    uInt8Field
//	u16 9       uInt16Field     u32 5      uInt32Field
//	u64 3       uInt64Field     u32 8      float32Field
//	u16 18      enumField       u64 5      float64Field
var (
	TestAllTypesSize   = wire.StructSize{DataWords: 6, PointerCount: 19}
	TestAllTypesLayout = TestAllTypesSize.Layout(TestAllTypesSize.DataBits())
)

// Pointer indexes of TestAllTypes.
const (
	PtrText = iota
	PtrData
	PtrStruct
	PtrVoidList
	PtrBoolList
	PtrInt8List
	PtrInt16List
	PtrInt32List
	PtrInt64List
	PtrUint8List
	PtrUint16List
	PtrUint32List
	PtrUint64List
	PtrFloat32List
	PtrFloat64List
	PtrTextList
	PtrDataList
	PtrStructList
	PtrEnumList
	NumPointers
)

var listSizes = [NumPointers]wire.ElementSize{
	PtrVoidList:    wire.Void,
	PtrBoolList:    wire.Bit,
	PtrInt8List:    wire.Byte,
	PtrInt16List:   wire.TwoBytes,
	PtrInt32List:   wire.FourBytes,
	PtrInt64List:   wire.EightBytes,
	PtrUint8List:   wire.Byte,
	PtrUint16List:  wire.TwoBytes,
	PtrUint32List:  wire.FourBytes,
	PtrUint64List:  wire.EightBytes,
	PtrFloat32List: wire.FourBytes,
	PtrFloat64List: wire.EightBytes,
	PtrTextList:    wire.PointerSize,
	PtrDataList:    wire.PointerSize,
	PtrStructList:  wire.InlineComposite,
	PtrEnumList:    wire.TwoBytes,
}

// allTypesDefaults are the XOR masks and pointer defaults of one of the two
// structs sharing the TestAllTypes layout.
type allTypesDefaults struct {
	Bool    bool
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Float32 uint32
	Float64 uint64
	Enum    uint16

	Text   string
	Data   []byte
	Struct *segwire.Default
	Lists  [NumPointers]*segwire.Default
}

var plainDefaults = &allTypesDefaults{}

var testDefaults = sync.OnceValue(func() *allTypesDefaults {
	v := SampleValue()
	d := &allTypesDefaults{
		Bool:    v.Bool,
		Int8:    v.Int8,
		Int16:   v.Int16,
		Int32:   v.Int32,
		Int64:   v.Int64,
		Uint8:   v.Uint8,
		Uint16:  v.Uint16,
		Uint32:  v.Uint32,
		Uint64:  v.Uint64,
		Float32: math.Float32bits(v.Float32),
		Float64: math.Float64bits(v.Float64),
		Enum:    uint16(v.Enum),
		Text:    v.Text,
		Data:    v.Data,
	}
	d.Struct = encodeDefault(func(m *segwire.Message) error {
		root, err := m.InitRoot(TestAllTypesSize)
		if err != nil {
			return err
		}
		return NewTestAllTypesBuilder(root).Fill(v.Struct)
	})
	for i := PtrVoidList; i < NumPointers; i++ {
		d.Lists[i] = encodeDefault(func(m *segwire.Message) error {
			return fillListField(m.RootPointer(), i, v)
		})
	}
	return d
})

// encodeDefault builds a single-segment message and wraps its words the way
// generated code embeds constant values.
func encodeDefault(build func(*segwire.Message) error) *segwire.Default {
	m := segwire.NewMessage(segwire.Options{FirstSegmentWords: 4096})
	if err := build(m); err != nil {
		panic(err)
	}
	segs := m.Segments()
	if len(segs) != 1 {
		panic("testschema: default value spans segments")
	}
	return segwire.NewDefault(segs[0])
}

// TestAllTypes reads either TestAllTypes or TestDefaults.
type TestAllTypes struct {
	segwire.StructReader
	d *allTypesDefaults
}

func NewTestAllTypes(s segwire.StructReader) TestAllTypes {
	return TestAllTypes{StructReader: s, d: plainDefaults}
}

// NewTestDefaults views s as TestDefaults: TestAllTypes with every field
// defaulted to SampleValue.
func NewTestDefaults(s segwire.StructReader) TestAllTypes {
	return TestAllTypes{StructReader: s, d: testDefaults()}
}

func ReadTestAllTypes(p segwire.PointerReader) (TestAllTypes, error) {
	s, err := p.Struct(nil)
	return NewTestAllTypes(s), err
}

func ReadTestDefaults(p segwire.PointerReader) (TestAllTypes, error) {
	s, err := p.Struct(nil)
	return NewTestDefaults(s), err
}

func (s TestAllTypes) BoolField() bool       { return s.Bool(0, s.d.Bool) }
func (s TestAllTypes) Int8Field() int8       { return s.Int8(1, s.d.Int8) }
func (s TestAllTypes) Int16Field() int16     { return s.Int16(1, s.d.Int16) }
func (s TestAllTypes) Int32Field() int32     { return s.Int32(1, s.d.Int32) }
func (s TestAllTypes) Int64Field() int64     { return s.Int64(1, s.d.Int64) }
func (s TestAllTypes) Uint8Field() uint8     { return s.Uint8(16, s.d.Uint8) }
func (s TestAllTypes) Uint16Field() uint16   { return s.Uint16(9, s.d.Uint16) }
func (s TestAllTypes) Uint32Field() uint32   { return s.Uint32(5, s.d.Uint32) }
func (s TestAllTypes) Uint64Field() uint64   { return s.Uint64(3, s.d.Uint64) }
func (s TestAllTypes) Float32Field() float32 { return s.Float32(8, s.d.Float32) }
func (s TestAllTypes) Float64Field() float64 { return s.Float64(5, s.d.Float64) }
func (s TestAllTypes) EnumField() TestEnum   { return TestEnum(s.Uint16(18, s.d.Enum)) }

func (s TestAllTypes) TextField() (string, error) {
	return s.Ptr(PtrText).Text(s.d.Text)
}

func (s TestAllTypes) DataField() ([]byte, error) {
	return s.Ptr(PtrData).Data(s.d.Data)
}

func (s TestAllTypes) HasStructField() bool {
	return !s.Ptr(PtrStruct).IsNull()
}

func (s TestAllTypes) StructField() (TestAllTypes, error) {
	r, err := s.Ptr(PtrStruct).Struct(s.d.Struct)
	return NewTestAllTypes(r), err
}

// list reads list field i (one of the ptr*List indexes).
func (s TestAllTypes) list(i int) (segwire.ListReader, error) {
	return s.Ptr(uint16(i)).List(listSizes[i], s.d.Lists[i])
}

func (s TestAllTypes) VoidList() (segwire.ListReader, error)    { return s.list(PtrVoidList) }
func (s TestAllTypes) BoolList() (segwire.ListReader, error)    { return s.list(PtrBoolList) }
func (s TestAllTypes) Int8List() (segwire.ListReader, error)    { return s.list(PtrInt8List) }
func (s TestAllTypes) Int16List() (segwire.ListReader, error)   { return s.list(PtrInt16List) }
func (s TestAllTypes) Int32List() (segwire.ListReader, error)   { return s.list(PtrInt32List) }
func (s TestAllTypes) Int64List() (segwire.ListReader, error)   { return s.list(PtrInt64List) }
func (s TestAllTypes) Uint8List() (segwire.ListReader, error)   { return s.list(PtrUint8List) }
func (s TestAllTypes) Uint16List() (segwire.ListReader, error)  { return s.list(PtrUint16List) }
func (s TestAllTypes) Uint32List() (segwire.ListReader, error)  { return s.list(PtrUint32List) }
func (s TestAllTypes) Uint64List() (segwire.ListReader, error)  { return s.list(PtrUint64List) }
func (s TestAllTypes) Float32List() (segwire.ListReader, error) { return s.list(PtrFloat32List) }
func (s TestAllTypes) Float64List() (segwire.ListReader, error) { return s.list(PtrFloat64List) }
func (s TestAllTypes) TextList() (segwire.ListReader, error)    { return s.list(PtrTextList) }
func (s TestAllTypes) DataList() (segwire.ListReader, error)    { return s.list(PtrDataList) }
func (s TestAllTypes) StructList() (segwire.ListReader, error)  { return s.list(PtrStructList) }
func (s TestAllTypes) EnumList() (segwire.ListReader, error)    { return s.list(PtrEnumList) }

// TestAllTypesBuilder builds either TestAllTypes or TestDefaults.
type TestAllTypesBuilder struct {
	segwire.StructBuilder
	d *allTypesDefaults
}

func NewTestAllTypesBuilder(s segwire.StructBuilder) TestAllTypesBuilder {
	return TestAllTypesBuilder{StructBuilder: s, d: plainDefaults}
}

func NewTestDefaultsBuilder(s segwire.StructBuilder) TestAllTypesBuilder {
	return TestAllTypesBuilder{StructBuilder: s, d: testDefaults()}
}

func (b TestAllTypesBuilder) AsReader() TestAllTypes {
	return TestAllTypes{StructReader: b.StructBuilder.AsReader(), d: b.d}
}

func (b TestAllTypesBuilder) SetBoolField(v bool)       { b.SetBool(0, v, b.d.Bool) }
func (b TestAllTypesBuilder) SetInt8Field(v int8)       { b.SetInt8(1, v, b.d.Int8) }
func (b TestAllTypesBuilder) SetInt16Field(v int16)     { b.SetInt16(1, v, b.d.Int16) }
func (b TestAllTypesBuilder) SetInt32Field(v int32)     { b.SetInt32(1, v, b.d.Int32) }
func (b TestAllTypesBuilder) SetInt64Field(v int64)     { b.SetInt64(1, v, b.d.Int64) }
func (b TestAllTypesBuilder) SetUint8Field(v uint8)     { b.SetUint8(16, v, b.d.Uint8) }
func (b TestAllTypesBuilder) SetUint16Field(v uint16)   { b.SetUint16(9, v, b.d.Uint16) }
func (b TestAllTypesBuilder) SetUint32Field(v uint32)   { b.SetUint32(5, v, b.d.Uint32) }
func (b TestAllTypesBuilder) SetUint64Field(v uint64)   { b.SetUint64(3, v, b.d.Uint64) }
func (b TestAllTypesBuilder) SetFloat32Field(v float32) { b.SetFloat32(8, v, b.d.Float32) }
func (b TestAllTypesBuilder) SetFloat64Field(v float64) { b.SetFloat64(5, v, b.d.Float64) }
func (b TestAllTypesBuilder) SetEnumField(v TestEnum)   { b.SetUint16(18, uint16(v), b.d.Enum) }

func (b TestAllTypesBuilder) Int32Field() int32 { return b.Int32(1, b.d.Int32) }

func (b TestAllTypesBuilder) TextField() (string, error) {
	return b.Ptr(PtrText).Text(b.d.Text)
}

func (b TestAllTypesBuilder) SetTextField(v string) error {
	return b.Ptr(PtrText).SetText(v)
}

func (b TestAllTypesBuilder) SetDataField(v []byte) error {
	return b.Ptr(PtrData).SetData(v)
}

// StructField returns the struct field, copying in the default first if it
// is unset.
func (b TestAllTypesBuilder) StructField() (TestAllTypesBuilder, error) {
	s, err := b.Ptr(PtrStruct).Struct(TestAllTypesSize, b.d.Struct)
	return NewTestAllTypesBuilder(s), err
}

func (b TestAllTypesBuilder) InitStructField() (TestAllTypesBuilder, error) {
	s, err := b.Ptr(PtrStruct).InitStruct(TestAllTypesSize)
	return NewTestAllTypesBuilder(s), err
}

// ListField returns list field i, copying in the default first if it is
// unset.
func (b TestAllTypesBuilder) ListField(i int) (segwire.ListBuilder, error) {
	p := b.Ptr(uint16(i))
	if listSizes[i] == wire.InlineComposite {
		return p.StructList(TestAllTypesLayout, b.d.Lists[i])
	}
	return p.List(listSizes[i], b.d.Lists[i])
}

func (b TestAllTypesBuilder) InitInt32List(n uint32) (segwire.ListBuilder, error) {
	return b.Ptr(PtrInt32List).InitList(wire.FourBytes, n)
}

func (b TestAllTypesBuilder) InitStructList(n uint32) (segwire.ListBuilder, error) {
	return b.Ptr(PtrStructList).InitStructList(TestAllTypesSize, n)
}
