package arena

import (
	"errors"
	"fmt"
	"math"

	"github.com/rawbytedev/segwire/internal/common"
)

var ErrUnaligned = errors.New("arena: segment length is not a whole number of words")

// Table is a read-only view over segments supplied by the caller. It never
// copies: every Segment aliases the caller's bytes.
type Table struct {
	segs []Segment
}

// NewTable wraps segs. Each slice must be a whole number of words.
func NewTable(segs [][]byte) (*Table, error) {
	if uint64(len(segs)) > math.MaxUint32 {
		return nil, fmt.Errorf("arena: %d segments", len(segs))
	}
	t := &Table{segs: make([]Segment, len(segs))}
	for i, b := range segs {
		if len(b)%common.WordSize != 0 {
			return nil, fmt.Errorf("%w: segment %d has %d bytes", ErrUnaligned, i, len(b))
		}
		t.segs[i] = Segment{ID: uint32(i), Data: b}
	}
	return t, nil
}

func (t *Table) Segment(id uint32) (*Segment, bool) {
	if uint64(id) >= uint64(len(t.segs)) {
		return nil, false
	}
	return &t.segs[id], true
}

func (t *Table) NumSegments() int {
	return len(t.segs)
}
