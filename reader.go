package segwire

import (
	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/framing"
	"github.com/rawbytedev/segwire/pkg/wire"
)

// MessageReader reads a message held in caller-owned segments. Nothing is
// copied; views alias the segments, which must stay unchanged while the
// reader is in use.
//
// A validated reader bounds-checks every pointer and enforces the
// traversal and nesting limits. A trusted reader does neither and may
// panic on malformed input.
type MessageReader struct {
	ctx     *readCtx
	seg0    *arena.Segment
	nesting int
}

// NewReader returns a validated reader over segs.
func NewReader(segs [][]byte, opts Options) (*MessageReader, error) {
	return newReader(segs, opts, false)
}

// NewTrustedReader returns a reader over segs that skips validation.
func NewTrustedReader(segs [][]byte, opts Options) (*MessageReader, error) {
	return newReader(segs, opts, true)
}

// ReadTrusted reads a single-segment message whose root pointer is word 0,
// the layout of constants embedded in generated code.
func ReadTrusted(words []byte) (*MessageReader, error) {
	return newReader([][]byte{words}, DefaultOptions(), true)
}

// Unmarshal reads a framed message within opts.FrameLimits(). The reader
// aliases data.
func Unmarshal(data []byte, opts Options) (*MessageReader, error) {
	segs, err := framing.UnmarshalLimits(data, opts.FrameLimits())
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Msg: "framing", Err: err}
	}
	return NewReader(segs, opts)
}

func newReader(segs [][]byte, opts Options, trusted bool) (*MessageReader, error) {
	opts = opts.normalize()
	if len(segs) == 0 {
		return nil, malformed("message has no segments")
	}
	t, err := arena.NewTable(segs)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Msg: "segment table", Err: err}
	}
	seg0, _ := t.Segment(0)
	if seg0.Words() == 0 {
		return nil, malformed("first segment is empty")
	}
	ctx := &readCtx{
		src:           t,
		checkUnions:   opts.CheckUnions,
		unsafeStrings: opts.UnsafeStrings,
	}
	if !trusted {
		ctx.limit = NewReadLimiter(opts.TraversalLimitWords)
	}
	return &MessageReader{ctx: ctx, seg0: seg0, nesting: opts.NestingLimit}, nil
}

// RootPointer returns the root slot, word 0 of segment 0.
func (r *MessageReader) RootPointer() PointerReader {
	return PointerReader{ctx: r.ctx, seg: r.seg0, nesting: r.nesting}
}

// Root reads the root struct. A null root yields def, or an empty struct.
func (r *MessageReader) Root(def *Default) (StructReader, error) {
	return r.RootPointer().Struct(def)
}

// ResetLimit restores the traversal budget.
func (r *MessageReader) ResetLimit() {
	if r.ctx.limit != nil {
		r.ctx.limit.Reset()
	}
}

// Remaining returns the words left in the traversal budget. Trusted readers
// report zero.
func (r *MessageReader) Remaining() uint64 {
	if r.ctx.limit == nil {
		return 0
	}
	return r.ctx.limit.Remaining()
}

// NumSegments returns the number of segments in the message.
func (r *MessageReader) NumSegments() int {
	return r.ctx.src.(*arena.Table).NumSegments()
}

// Segment returns the raw words of segment id.
func (r *MessageReader) Segment(id uint32) ([]byte, bool) {
	s, ok := r.ctx.src.Segment(id)
	if !ok {
		return nil, false
	}
	return s.Data, true
}

// Pointer decodes the raw word at word index word of segment id, for
// diagnostics.
func (r *MessageReader) Pointer(id uint32, word uint32) (wire.Pointer, bool) {
	s, ok := r.ctx.src.Segment(id)
	if !ok || !s.InBounds(uint64(word)*8, 8) {
		return 0, false
	}
	return s.Pointer(word * 8), true
}
