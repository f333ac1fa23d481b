package segwire

import (
	"math"

	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/framing"
	"github.com/rawbytedev/segwire/pkg/wire"
	"go.uber.org/zap"
)

// Message builds a message in an arena. The root pointer is word 0 of
// segment 0. A Message is not safe for concurrent use.
type Message struct {
	opts  Options
	arena *arena.Arena
	seg0  *arena.Segment
	rctx  *readCtx
	log   *zap.Logger
}

func NewMessage(opts Options) *Message {
	opts = opts.normalize()
	a := arena.New(arena.Config{
		FirstSegmentWords: opts.FirstSegmentWords,
		Strategy:          opts.Allocation,
	}, opts.Logger)
	seg0, _, err := a.Allocate(1)
	if err != nil {
		panic(err)
	}
	return &Message{
		opts:  opts,
		arena: a,
		seg0:  seg0,
		rctx: &readCtx{
			src:           a,
			checkUnions:   opts.CheckUnions,
			unsafeStrings: opts.UnsafeStrings,
		},
		log: opts.Logger,
	}
}

func (m *Message) RootPointer() PointerBuilder {
	return PointerBuilder{msg: m, seg: m.seg0}
}

// InitRoot allocates a new zeroed root struct, discarding any previous root.
func (m *Message) InitRoot(size wire.StructSize) (StructBuilder, error) {
	return m.RootPointer().InitStruct(size)
}

// Root returns the root struct, materializing def or a zeroed struct when
// the root is null.
func (m *Message) Root(size wire.StructSize, def *Default) (StructBuilder, error) {
	return m.RootPointer().Struct(size, def)
}

// Segments returns the used words of every segment. The slices alias the
// message.
func (m *Message) Segments() [][]byte {
	return m.arena.Segments()
}

func (m *Message) NumSegments() int {
	return m.arena.NumSegments()
}

// Marshal frames the message for transport.
func (m *Message) Marshal() ([]byte, error) {
	return framing.Marshal(m.Segments())
}

// Reader returns a validated reader over the message's current bytes.
func (m *Message) Reader() (*MessageReader, error) {
	return NewReader(m.Segments(), m.opts)
}

func (m *Message) reader(seg *arena.Segment, addr uint32) PointerReader {
	return PointerReader{ctx: m.rctx, seg: seg, addr: addr, nesting: math.MaxInt32}
}
