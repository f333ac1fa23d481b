package segwire_test

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/internal/testschema"
	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestListRoundTrip(t *testing.T) {
	condition := func(vals []uint64) bool {
		m := segwire.NewMessage(segwire.Options{})
		root, err := m.InitRoot(testschema.TestObjectSize)
		require.NoError(t, err)
		l, err := root.Ptr(0).InitList(wire.EightBytes, uint32(len(vals)))
		require.NoError(t, err)
		for i, v := range vals {
			l.SetUint64(i, v)
		}
		data, err := m.Marshal()
		require.NoError(t, err)

		r, err := segwire.Unmarshal(data, segwire.Options{})
		require.NoError(t, err)
		s, err := r.Root(nil)
		require.NoError(t, err)
		rl, err := s.Ptr(0).List(wire.EightBytes, nil)
		require.NoError(t, err)
		got := make([]uint64, rl.Len())
		for i := range got {
			got[i] = rl.Uint64(i)
		}
		return assert.ObjectsAreEqual(append([]uint64{}, vals...), got)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestScalarRoundTrip(t *testing.T) {
	size := wire.StructSize{DataWords: 3}
	condition := func(u uint64, umask uint64, i int32, imask int32, b, bdef bool, f float64, fmask uint64) bool {
		m := segwire.NewMessage(segwire.Options{})
		s, err := m.InitRoot(size)
		require.NoError(t, err)
		s.SetUint64(0, u, umask)
		s.SetInt32(2, i, imask)
		s.SetBool(127, b, bdef)
		s.SetFloat64(2, f, fmask)

		r, err := m.Reader()
		require.NoError(t, err)
		rs, err := r.Root(nil)
		require.NoError(t, err)
		return rs.Uint64(0, umask) == u &&
			rs.Int32(2, imask) == i &&
			rs.Bool(127, bdef) == b &&
			math.Float64bits(rs.Float64(2, fmask)) == math.Float64bits(f)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestDefaultValuesAreZeroOnTheWire(t *testing.T) {
	m := segwire.NewMessage(segwire.Options{})
	root, err := m.InitRoot(testschema.TestAllTypesSize)
	require.NoError(t, err)
	b := testschema.NewTestDefaultsBuilder(root)
	v := testschema.SampleValue()
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

	data := m.Segments()[0][8 : 8+6*8]
	assert.Equal(t, make([]byte, 6*8), data)
	assert.Equal(t, v.Int64, b.AsReader().Int64Field())
	assert.Equal(t, v.Float32, b.AsReader().Float32Field())

	b.SetInt8Field(0)
	assert.NotEqual(t, make([]byte, 6*8), m.Segments()[0][8:8+6*8])
}

func TestStructUpgradeKeepsFields(t *testing.T) {
	m := segwire.NewMessage(segwire.Options{})
	old := wire.StructSize{DataWords: 1, PointerCount: 1}
	s, err := m.InitRoot(old)
	require.NoError(t, err)
	s.SetUint64(0, 7, 0)
	require.NoError(t, s.Ptr(0).SetText("hi"))

	grown, err := m.Root(wire.StructSize{DataWords: 2, PointerCount: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, wire.StructSize{DataWords: 2, PointerCount: 2}, grown.Size())
	assert.Equal(t, uint64(7), grown.Uint64(0, 0))
	text, err := grown.Ptr(0).Text("")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
	assert.True(t, grown.Ptr(1).IsNull())

	// the old struct words are cleared
	assert.Equal(t, make([]byte, 16), m.Segments()[0][8:24])

	// asking for the old shape again sees the grown struct
	again, err := m.Root(old, nil)
	require.NoError(t, err)
	assert.Equal(t, grown.Size(), again.Size())

	r, err := m.Reader()
	require.NoError(t, err)
	rs, err := r.Root(nil)
	require.NoError(t, err)
	text, err = rs.Ptr(0).Text("")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

// readEverything touches every field reachable from r with every accessor.
func readEverything(r *segwire.MessageReader) {
	_ = segwire.Walk(r.RootPointer(), func(p segwire.PointerReader) error {
		_, _ = p.Text("")
		_, _ = p.Data(nil)
		if s, err := p.Struct(nil); err == nil {
			for off := uint32(0); off < 130; off++ {
				s.Bool(off, false)
				s.Uint64(off, 0)
			}
		}
		for es := wire.Void; es <= wire.InlineComposite; es++ {
			l, err := p.List(es, nil)
			if err != nil {
				continue
			}
			for i := 0; i < l.Len() && i < 64; i++ {
				l.Uint64(i)
				l.Bool(i)
				l.Struct(i).Uint32(1, 0)
				_, _ = l.Text(i)
			}
		}
		return nil
	})
}

func TestRandomInputNeverPanics(t *testing.T) {
	condition := func(ws []uint64, split uint8) bool {
		if len(ws) == 0 {
			ws = []uint64{0}
		}
		n := int(split)%len(ws) + 1
		segs := [][]byte{words(ws[:n]...)}
		if n < len(ws) {
			segs = append(segs, words(ws[n:]...))
		}
		r, err := segwire.NewReader(segs, segwire.Options{TraversalLimitWords: 1 << 16})
		require.NoError(t, err)
		assert.NotPanics(t, func() { readEverything(r) })
		return true
	}
	cfg := &quick.Config{
		MaxCount: 2000,
		Values: func(args []reflect.Value, rnd *rand.Rand) {
			ws := make([]uint64, rnd.Intn(32)+1)
			for i := range ws {
				// bias towards small offsets and valid kinds
				switch rnd.Intn(3) {
				case 0:
					ws[i] = rnd.Uint64()
				case 1:
					ws[i] = rnd.Uint64()&^0xFFFFFFF8 | uint64(rnd.Intn(8))<<3
				default:
					ws[i] = uint64(rnd.Intn(256))
				}
			}
			args[0] = reflect.ValueOf(ws)
			args[1] = reflect.ValueOf(uint8(rnd.Intn(256)))
		},
	}
	require.NoError(t, quick.Check(condition, cfg))
}

func TestTraversalLimit(t *testing.T) {
	m := segwire.NewMessage(segwire.Options{})
	root, err := m.InitRoot(testschema.TestObjectSize)
	require.NoError(t, err)
	_, err = root.Ptr(0).InitList(wire.EightBytes, 100)
	require.NoError(t, err)

	r, err := segwire.NewReader(m.Segments(), segwire.Options{TraversalLimitWords: 150})
	require.NoError(t, err)
	read := func() error {
		s, err := r.Root(nil)
		if err != nil {
			return err
		}
		_, err = s.Ptr(0).List(wire.EightBytes, nil)
		return err
	}
	require.NoError(t, read())
	assert.Equal(t, uint64(49), r.Remaining())
	require.ErrorIs(t, read(), segwire.ErrResourceExhausted)

	r.ResetLimit()
	require.NoError(t, read())

	tr, err := segwire.NewTrustedReader(m.Segments(), segwire.Options{TraversalLimitWords: 1})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		s, err := tr.Root(nil)
		require.NoError(t, err)
		_, err = s.Ptr(0).List(wire.EightBytes, nil)
		require.NoError(t, err)
	}
	assert.Zero(t, tr.Remaining())
}

func buildChain(t *testing.T, depth int) [][]byte {
	t.Helper()
	m := segwire.NewMessage(segwire.Options{})
	p := m.RootPointer()
	for i := 0; i < depth; i++ {
		s, err := p.InitStruct(wire.StructSize{DataWords: 1, PointerCount: 1})
		require.NoError(t, err)
		s.SetUint32(0, uint32(i), 0)
		p = s.Ptr(0)
	}
	return m.Segments()
}

func readChain(r *segwire.MessageReader) (int, error) {
	depth := 0
	p := r.RootPointer()
	for !p.IsNull() {
		s, err := p.Struct(nil)
		if err != nil {
			return depth, err
		}
		depth++
		p = s.Ptr(0)
	}
	return depth, nil
}

func TestNestingLimit(t *testing.T) {
	r, err := segwire.NewReader(buildChain(t, 64), segwire.Options{NestingLimit: 64})
	require.NoError(t, err)
	depth, err := readChain(r)
	require.NoError(t, err)
	assert.Equal(t, 64, depth)

	r, err = segwire.NewReader(buildChain(t, 65), segwire.Options{NestingLimit: 64})
	require.NoError(t, err)
	depth, err = readChain(r)
	require.ErrorIs(t, err, segwire.ErrResourceExhausted)
	assert.Equal(t, 64, depth)

	// trusted readers do not count depth
	tr, err := segwire.NewTrustedReader(buildChain(t, 100), segwire.Options{NestingLimit: 64})
	require.NoError(t, err)
	depth, err = readChain(tr)
	require.NoError(t, err)
	assert.Equal(t, 100, depth)
}

func TestAmplificationIsCharged(t *testing.T) {
	r, err := segwire.NewReader([][]byte{words(listPtr(t, 0, wire.Void, wire.MaxElementCount))}, segwire.Options{})
	require.NoError(t, err)
	_, err = r.RootPointer().List(wire.Void, nil)
	require.ErrorIs(t, err, segwire.ErrResourceExhausted)

	r, err = segwire.NewReader([][]byte{words(
		listPtr(t, 0, wire.InlineComposite, 0),
		uint64(wire.NewCompositeTag(wire.MaxElementCount, wire.StructSize{})),
	)}, segwire.Options{})
	require.NoError(t, err)
	_, err = r.RootPointer().StructList(nil)
	require.ErrorIs(t, err, segwire.ErrResourceExhausted)

	// small void lists are fine
	r, err = segwire.NewReader([][]byte{words(listPtr(t, 0, wire.Void, 1000))}, segwire.Options{})
	require.NoError(t, err)
	l, err := r.RootPointer().List(wire.Void, nil)
	require.NoError(t, err)
	assert.Equal(t, 1000, l.Len())
}

func TestFarPointerKinds(t *testing.T) {
	m := buildSample(t, segwire.Options{FirstSegmentWords: 8, Allocation: arena.Fixed})
	r, err := segwire.NewReader(m.Segments(), segwire.Options{})
	require.NoError(t, err)

	var near, single, double int
	err = segwire.Walk(r.RootPointer(), func(p segwire.PointerReader) error {
		raw := p.Raw()
		switch {
		case raw.Kind() != wire.FarKind:
			near++
		case raw.IsDoubleFar():
			double++
		default:
			single++
		}
		return nil
	})
	require.NoError(t, err)
	assert.Positive(t, near)
	assert.Positive(t, single)
	assert.Positive(t, double)

	s, err := testschema.ReadTestAllTypes(r.RootPointer())
	require.NoError(t, err)
	checkSample(t, s)
}

func TestReaderDiagnostics(t *testing.T) {
	m := buildSample(t, tinySegments)
	r, err := segwire.NewReader(m.Segments(), segwire.Options{})
	require.NoError(t, err)
	assert.Equal(t, m.NumSegments(), r.NumSegments())

	seg, ok := r.Segment(0)
	require.True(t, ok)
	assert.Equal(t, m.Segments()[0], seg)
	_, ok = r.Segment(uint32(r.NumSegments()))
	assert.False(t, ok)

	p, ok := r.Pointer(0, 0)
	require.True(t, ok)
	assert.Equal(t, r.RootPointer().Raw(), p)
	_, ok = r.Pointer(0, 1<<20)
	assert.False(t, ok)
}

func TestUnsafeStrings(t *testing.T) {
	m := buildSample(t, segwire.Options{})
	r, err := segwire.NewReader(m.Segments(), segwire.Options{UnsafeStrings: true})
	require.NoError(t, err)
	s, err := testschema.ReadTestAllTypes(r.RootPointer())
	require.NoError(t, err)
	checkSample(t, s)
}

func TestBuilderLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := tinySegments
	opts.Logger = zap.New(core)

	m := segwire.NewMessage(opts)
	root, err := m.Root(testschema.TestAllTypesSize, nil)
	require.NoError(t, err)
	b := testschema.NewTestDefaultsBuilder(root)
	_, err = b.StructField()
	require.NoError(t, err)
	_, err = m.Root(wire.StructSize{DataWords: 7, PointerCount: 19}, nil)
	require.NoError(t, err)

	assert.Positive(t, logs.FilterMessage("allocated segment").Len())
	assert.Positive(t, logs.FilterMessage("wrote double-far pointer").Len())
	assert.Equal(t, 1, logs.FilterMessage("materialized default").Len())
	assert.Equal(t, 1, logs.FilterMessage("upgraded struct").Len())

	entry := logs.FilterMessage("upgraded struct").All()[0]
	assert.EqualValues(t, uint16(7), entry.ContextMap()["new_data"])
}
