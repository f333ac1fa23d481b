package framing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int, fill byte) []byte {
	b := make([]byte, n*8)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestMarshalLayout(t *testing.T) {
	out, err := Marshal([][]byte{words(1, 0xAA)})
	require.NoError(t, err)
	// one segment: count-1 = 0, size = 1, no padding
	require.Len(t, out, 16)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0}, out[:8])
	assert.Equal(t, words(1, 0xAA), out[8:])

	out, err = Marshal([][]byte{words(1, 1), words(2, 2)})
	require.NoError(t, err)
	// two segments: 12 byte table padded to 16
	require.Len(t, out, 16+24)
	assert.Equal(t, []byte{1, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}, out[:16])
}

func TestRoundTrip(t *testing.T) {
	segs := [][]byte{words(2, 1), words(0, 0), words(3, 3)}
	out, err := Marshal(segs)
	require.NoError(t, err)
	got, err := Unmarshal(out)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range segs {
		assert.Equal(t, len(segs[i]), len(got[i]))
		assert.True(t, bytes.Equal(segs[i], got[i]))
	}
}

func TestUnmarshalIsZeroCopy(t *testing.T) {
	out, err := Marshal([][]byte{words(1, 7)})
	require.NoError(t, err)
	got, err := Unmarshal(out)
	require.NoError(t, err)
	out[8] = 9
	assert.Equal(t, byte(9), got[0][0])
}

func TestUnmarshalTruncated(t *testing.T) {
	out, err := Marshal([][]byte{words(4, 1)})
	require.NoError(t, err)
	_, err = Unmarshal(out[:len(out)-1])
	require.ErrorIs(t, err, ErrFrameTruncated)
	_, err = Unmarshal(out[:2])
	require.ErrorIs(t, err, ErrFrameTruncated)
}

func TestUnmarshalLimits(t *testing.T) {
	out, err := Marshal([][]byte{words(4, 1), words(4, 1)})
	require.NoError(t, err)
	_, err = UnmarshalLimits(out, Limits{MaxSegments: 1, MaxWords: 100})
	require.ErrorIs(t, err, ErrFrameTooLarge)
	_, err = UnmarshalLimits(out, Limits{MaxSegments: 4, MaxWords: 7})
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestMarshalRejects(t *testing.T) {
	_, err := Marshal(nil)
	require.ErrorIs(t, err, ErrNoSegments)
	_, err = Marshal([][]byte{make([]byte, 5)})
	require.ErrorIs(t, err, ErrUnaligned)
}

func TestStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode([][]byte{words(1, 1)}))
	require.NoError(t, enc.Encode([][]byte{words(2, 2), words(1, 3)}))

	want, err := Marshal([][]byte{words(1, 1)})
	require.NoError(t, err)
	assert.Equal(t, want, buf.Bytes()[:len(want)])

	dec := NewDecoder(&buf)
	first, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, words(1, 1), first[0])

	second, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, words(2, 2), second[0])
	assert.Equal(t, words(1, 3), second[1])
}

func TestDecoderTruncatedStream(t *testing.T) {
	out, err := Marshal([][]byte{words(2, 1)})
	require.NoError(t, err)
	dec := NewDecoder(bytes.NewReader(out[:len(out)-3]))
	_, err = dec.Decode()
	require.ErrorIs(t, err, ErrFrameTruncated)
}
