package segwire

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/framing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions([]byte(`
traversal_limit_words: 4096
nesting_limit: 8
allocation: fixed
check_unions: true
`))
	require.NoError(t, err)
	assert.Equal(t, uint64(4096), opts.TraversalLimitWords)
	assert.Equal(t, 8, opts.NestingLimit)
	assert.Equal(t, arena.Fixed, opts.Allocation)
	assert.True(t, opts.CheckUnions)
	assert.False(t, opts.UnsafeStrings)
	// unset fields keep their defaults
	assert.Equal(t, uint32(arena.DefaultFirstSegmentWords), opts.FirstSegmentWords)
	assert.NotNil(t, opts.Logger)
}

func TestLoadOptionsErrors(t *testing.T) {
	_, err := LoadOptions([]byte("allocation: sideways\n"))
	require.ErrorIs(t, err, arena.ErrBadStrategy)

	_, err = LoadOptions([]byte("nesting_limit: [1, 2]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segwire: options")
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("first_segment_words: 16\n"), 0o600))
	opts, err := LoadOptionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), opts.FirstSegmentWords)
	assert.Equal(t, uint64(DefaultTraversalLimitWords), opts.TraversalLimitWords)

	_, err = LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalizeFillsZeroFields(t *testing.T) {
	opts := Options{NestingLimit: -3, CheckUnions: true}.normalize()
	d := DefaultOptions()
	assert.Equal(t, d.TraversalLimitWords, opts.TraversalLimitWords)
	assert.Equal(t, d.NestingLimit, opts.NestingLimit)
	assert.Equal(t, d.FirstSegmentWords, opts.FirstSegmentWords)
	assert.NotNil(t, opts.Logger)
	assert.True(t, opts.CheckUnions)
}

func TestFrameLimits(t *testing.T) {
	assert.Equal(t, framing.DefaultLimits, Options{}.FrameLimits())
	assert.Equal(t, framing.DefaultLimits, Options{TraversalLimitWords: 10}.FrameLimits())
	lim := Options{TraversalLimitWords: 16 << 20}.FrameLimits()
	assert.Equal(t, uint64(16<<20), lim.MaxWords)
	assert.Equal(t, framing.DefaultLimits.MaxSegments, lim.MaxSegments)
}

func TestUnmarshalHonoursTraversalLimit(t *testing.T) {
	// one segment declared at 9M words, body missing
	frame := make([]byte, 8)
	binary.LittleEndian.PutUint32(frame[4:], 9<<20)

	_, err := Unmarshal(frame, Options{})
	require.ErrorIs(t, err, ErrMalformed)
	require.ErrorIs(t, err, framing.ErrFrameTooLarge)

	_, err = Unmarshal(frame, Options{TraversalLimitWords: 16 << 20})
	require.ErrorIs(t, err, framing.ErrFrameTruncated)
}
