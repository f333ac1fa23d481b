package segwire

import (
	"fmt"
	"math"

	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/arena"
)

// Default is the default value of a pointer field: a single segment whose
// first word points at the value. It is read without validation, so words
// must come from trusted generated code.
type Default struct {
	root PointerReader
}

// NewDefault wraps words. It panics if words is not a whole number of
// words.
func NewDefault(words []byte) *Default {
	if len(words) == 0 || len(words)%common.WordSize != 0 {
		panic(fmt.Sprintf("segwire: default value of %d bytes", len(words)))
	}
	t, err := arena.NewTable([][]byte{words})
	if err != nil {
		panic(err)
	}
	seg, _ := t.Segment(0)
	return &Default{root: PointerReader{
		ctx:     &readCtx{src: t},
		seg:     seg,
		nesting: math.MaxInt32,
	}}
}

func (d *Default) pointer() PointerReader {
	if d == nil {
		return PointerReader{}
	}
	return d.root
}
