package wire

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructPointerRoundTrip(t *testing.T) {
	condition := func(off int32, dw, pc uint16) bool {
		off = off % (MaxOffset + 1)
		p, err := NewStructPointer(off, StructSize{DataWords: dw, PointerCount: pc})
		require.NoError(t, err)
		return p.Kind() == StructKind &&
			p.Offset() == off &&
			p.StructSize() == StructSize{DataWords: dw, PointerCount: pc}
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestListPointerRoundTrip(t *testing.T) {
	condition := func(off int32, es uint8, n uint32) bool {
		off = off % (MaxOffset + 1)
		n = n % (MaxElementCount + 1)
		size := ElementSize(es % 8)
		p, err := NewListPointer(off, size, n)
		require.NoError(t, err)
		return p.Kind() == ListKind &&
			p.Offset() == off &&
			p.ElementSize() == size &&
			p.ElementCount() == n
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestFarPointerRoundTrip(t *testing.T) {
	condition := func(double bool, seg uint32, pad uint32) bool {
		pad = pad % (MaxFarPadOffset + 1)
		p, err := NewFarPointer(double, seg, pad)
		require.NoError(t, err)
		return p.Kind() == FarKind &&
			p.IsDoubleFar() == double &&
			p.FarSegment() == seg &&
			p.FarOffset() == pad
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestPointerBitLayout(t *testing.T) {
	p, err := NewStructPointer(-1, StructSize{DataWords: 2, PointerCount: 3})
	require.NoError(t, err)
	// offset -1 occupies bits 2..31 as all ones
	assert.Equal(t, uint64(0x0003_0002_FFFF_FFFC), uint64(p))

	p, err = NewListPointer(1, TwoBytes, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3)<<35|uint64(TwoBytes)<<32|1<<2|1, uint64(p))

	p, err = NewFarPointer(true, 7, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(7)<<32|5<<3|1<<2|2, uint64(p))
}

func TestPointerRangeErrors(t *testing.T) {
	_, err := NewStructPointer(MaxOffset+1, StructSize{})
	require.ErrorIs(t, err, ErrOffsetRange)
	_, err = NewListPointer(MinOffset-1, Byte, 1)
	require.ErrorIs(t, err, ErrOffsetRange)
	_, err = NewListPointer(0, Byte, MaxElementCount+1)
	require.ErrorIs(t, err, ErrCountRange)
	_, err = NewFarPointer(false, 0, MaxFarPadOffset+1)
	require.ErrorIs(t, err, ErrOffsetRange)
}

func TestCompositeTag(t *testing.T) {
	tag := NewCompositeTag(12, StructSize{DataWords: 1, PointerCount: 2})
	assert.Equal(t, StructKind, tag.Kind())
	assert.Equal(t, uint32(12), tag.TagCount())
	assert.Equal(t, StructSize{DataWords: 1, PointerCount: 2}, tag.StructSize())
}

func TestWithOffsetKeepsShape(t *testing.T) {
	p, err := NewListPointer(4, EightBytes, 9)
	require.NoError(t, err)
	q, err := p.WithOffset(-20)
	require.NoError(t, err)
	assert.Equal(t, int32(-20), q.Offset())
	assert.Equal(t, EightBytes, q.ElementSize())
	assert.Equal(t, uint32(9), q.ElementCount())
}

func TestZeroSizedStructIsNotNull(t *testing.T) {
	p, err := NewStructPointer(-1, StructSize{})
	require.NoError(t, err)
	assert.False(t, p.IsNull())
	assert.True(t, Null.IsNull())
	assert.Equal(t, "null", Null.String())
}
