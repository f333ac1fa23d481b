package arena

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/segwire/internal/common"
	"github.com/rawbytedev/segwire/pkg/wire"
	"go.uber.org/zap"
)

var (
	ErrTooLarge    = errors.New("arena: allocation exceeds maximum segment size")
	ErrBadStrategy = errors.New("arena: unknown allocation strategy")
)

// DefaultFirstSegmentWords is the size of the first segment when the
// configuration leaves it unset.
const DefaultFirstSegmentWords = 1024

// Strategy picks the size of each new segment.
type Strategy uint8

const (
	// Grow sizes each new segment at least as large as everything
	// allocated so far, so the segment count stays logarithmic.
	Grow Strategy = iota
	// Fixed sizes every segment at FirstSegmentWords (or the request, if
	// bigger).
	Fixed
)

func (s Strategy) String() string {
	switch s {
	case Grow:
		return "grow"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

func (s Strategy) MarshalText() ([]byte, error) {
	switch s {
	case Grow, Fixed:
		return []byte(s.String()), nil
	}
	return nil, ErrBadStrategy
}

func (s *Strategy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "grow", "":
		*s = Grow
	case "fixed":
		*s = Fixed
	default:
		return fmt.Errorf("%w: %q", ErrBadStrategy, b)
	}
	return nil
}

type Config struct {
	FirstSegmentWords uint32
	Strategy          Strategy
}

// Arena is the builder-side segment allocator. Segment buffers are sized
// once and never reallocated, so a segment pointer plus a byte address
// stays valid for the arena's lifetime.
type Arena struct {
	cfg   Config
	segs  []*Segment
	total uint64 // words handed out
	log   *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Arena {
	if cfg.FirstSegmentWords == 0 {
		cfg.FirstSegmentWords = DefaultFirstSegmentWords
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Arena{cfg: cfg, log: log}
}

// Segment returns the segment with the given id.
func (a *Arena) Segment(id uint32) (*Segment, bool) {
	if uint64(id) >= uint64(len(a.segs)) {
		return nil, false
	}
	return a.segs[id], true
}

// NumSegments returns the number of segments allocated so far.
func (a *Arena) NumSegments() int {
	return len(a.segs)
}

// AllocateIn reserves words inside s. ok is false when s lacks room.
func (a *Arena) AllocateIn(s *Segment, words uint32) (addr uint32, ok bool) {
	n := uint64(words) * common.WordSize
	if uint64(cap(s.Data)-len(s.Data)) < n {
		return 0, false
	}
	addr = uint32(len(s.Data))
	s.Data = s.Data[:uint64(addr)+n]
	a.total += uint64(words)
	return addr, true
}

// Allocate reserves zeroed words in the most recent segment, or in a new
// segment when it is full.
func (a *Arena) Allocate(words uint32) (*Segment, uint32, error) {
	if uint64(words) > wire.MaxSegmentWords {
		return nil, 0, fmt.Errorf("%w: %d words", ErrTooLarge, words)
	}
	if len(a.segs) > 0 {
		last := a.segs[len(a.segs)-1]
		if addr, ok := a.AllocateIn(last, words); ok {
			return last, addr, nil
		}
	}
	s := a.newSegment(words)
	addr, _ := a.AllocateIn(s, words)
	return s, addr, nil
}

func (a *Arena) newSegment(minWords uint32) *Segment {
	size := uint64(max(a.cfg.FirstSegmentWords, minWords))
	if a.cfg.Strategy == Grow && len(a.segs) > 0 {
		size = max(size, a.total)
	}
	size = min(size, wire.MaxSegmentWords)
	s := &Segment{
		ID:   uint32(len(a.segs)),
		Data: make([]byte, 0, size*common.WordSize),
	}
	a.segs = append(a.segs, s)
	a.log.Debug("allocated segment",
		zap.Uint32("segment", s.ID),
		zap.Uint64("words", size),
		zap.Stringer("strategy", a.cfg.Strategy))
	return s
}

// Segments returns the used words of every segment. The slices alias the
// arena and must not be modified while the arena is still being built.
func (a *Arena) Segments() [][]byte {
	out := make([][]byte, len(a.segs))
	for i, s := range a.segs {
		out[i] = s.Data
	}
	return out
}

// Words returns the total number of words allocated.
func (a *Arena) Words() uint64 {
	return a.total
}
