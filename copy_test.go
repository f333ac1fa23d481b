package segwire_test

import (
	"testing"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/internal/testschema"
	"github.com/rawbytedev/segwire/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStructDeepCopies(t *testing.T) {
	src := buildSample(t, tinySegments)
	r, err := segwire.Unmarshal(mustMarshal(t, src), segwire.Options{})
	require.NoError(t, err)
	rs, err := r.Root(nil)
	require.NoError(t, err)

	dst := segwire.NewMessage(segwire.Options{})
	require.NoError(t, dst.RootPointer().SetStruct(rs))
	assert.Equal(t, 1, dst.NumSegments())

	s, err := testschema.ReadTestAllTypes(readBack(t, dst).RootPointer())
	require.NoError(t, err)
	checkSample(t, s)
}

func TestSetListDeepCopies(t *testing.T) {
	src := segwire.NewMessage(segwire.Options{})
	root, err := src.InitRoot(testschema.TestObjectSize)
	require.NoError(t, err)
	l, err := root.Ptr(0).InitList(wire.PointerSize, 2)
	require.NoError(t, err)
	require.NoError(t, l.SetText(0, "foo"))
	require.NoError(t, l.Ptr(1).SetData([]byte{1, 2}))

	dst := segwire.NewMessage(segwire.Options{})
	droot, err := dst.InitRoot(testschema.TestObjectSize)
	require.NoError(t, err)
	rl, err := root.AsReader().Ptr(0).List(wire.PointerSize, nil)
	require.NoError(t, err)
	require.NoError(t, droot.Ptr(0).SetList(rl))

	// changing the source leaves the copy alone
	require.NoError(t, l.SetText(0, "bar"))

	got, err := droot.Ptr(0).List(wire.PointerSize, nil)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	text, err := got.Ptr(0).Text("")
	require.NoError(t, err)
	assert.Equal(t, "foo", text)
	data, err := got.Ptr(1).Data(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data)
}

func TestClearZeroesObject(t *testing.T) {
	m := buildSample(t, segwire.Options{})
	m.RootPointer().Clear()
	assert.True(t, m.RootPointer().IsNull())
	for _, seg := range m.Segments() {
		assert.Equal(t, make([]byte, len(seg)), seg)
	}
}

func mustMarshal(t *testing.T, m *segwire.Message) []byte {
	t.Helper()
	data, err := m.Marshal()
	require.NoError(t, err)
	return data
}
