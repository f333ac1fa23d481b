// Package framing writes and reads the standalone message format: a
// segment table followed by every segment's words.
//
//	uint32  segment count - 1
//	uint32  word count of segment 0 .. n-1
//	[pad]   4 zero bytes when the table is not word aligned
//	words   segment 0, segment 1, ...
//
// All integers are little-endian.
package framing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrFrameTruncated = errors.New("framing: message truncated")
	ErrFrameTooLarge  = errors.New("framing: message exceeds limits")
	ErrNoSegments     = errors.New("framing: message has no segments")
	ErrUnaligned      = errors.New("framing: segment is not a whole number of words")
)

// Limits bound what a decoder accepts before allocating.
type Limits struct {
	MaxSegments uint32
	MaxWords    uint64
}

// DefaultLimits allows 512 segments and 64 MiB of words.
var DefaultLimits = Limits{MaxSegments: 512, MaxWords: 8 << 20}

func headerSize(n int) int {
	h := 4 * (n + 1)
	if h%8 != 0 {
		h += 4
	}
	return h
}

// Marshal frames segs into one contiguous buffer.
func Marshal(segs [][]byte) ([]byte, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	total := headerSize(len(segs))
	for i, s := range segs {
		if len(s)%8 != 0 {
			return nil, fmt.Errorf("%w: segment %d", ErrUnaligned, i)
		}
		total += len(s)
	}
	out := make([]byte, headerSize(len(segs)), total)
	binary.LittleEndian.PutUint32(out, uint32(len(segs)-1))
	for i, s := range segs {
		binary.LittleEndian.PutUint32(out[4*(i+1):], uint32(len(s)/8))
	}
	for _, s := range segs {
		out = append(out, s...)
	}
	return out, nil
}

// Unmarshal splits a framed message into segments using DefaultLimits.
// The returned slices alias data.
func Unmarshal(data []byte) ([][]byte, error) {
	return UnmarshalLimits(data, DefaultLimits)
}

// UnmarshalLimits is Unmarshal with explicit limits.
func UnmarshalLimits(data []byte, lim Limits) ([][]byte, error) {
	sizes, hdr, err := parseTable(data, lim)
	if err != nil {
		return nil, err
	}
	segs := make([][]byte, len(sizes))
	off := uint64(hdr)
	for i, words := range sizes {
		end := off + words*8
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: segment %d", ErrFrameTruncated, i)
		}
		segs[i] = data[off:end:end]
		off = end
	}
	return segs, nil
}

func parseTable(data []byte, lim Limits) ([]uint64, int, error) {
	if len(data) < 4 {
		return nil, 0, ErrFrameTruncated
	}
	count := uint64(binary.LittleEndian.Uint32(data)) + 1
	if count > uint64(lim.MaxSegments) {
		return nil, 0, fmt.Errorf("%w: %d segments", ErrFrameTooLarge, count)
	}
	hdr := headerSize(int(count))
	if len(data) < hdr {
		return nil, 0, ErrFrameTruncated
	}
	sizes := make([]uint64, count)
	var total uint64
	for i := range sizes {
		sizes[i] = uint64(binary.LittleEndian.Uint32(data[4*(i+1):]))
		total += sizes[i]
	}
	if total > lim.MaxWords {
		return nil, 0, fmt.Errorf("%w: %d words", ErrFrameTooLarge, total)
	}
	return sizes, hdr, nil
}

// Encoder writes framed messages to a stream.
type Encoder struct {
	w   io.Writer
	buf bytes.Buffer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one framed message.
func (e *Encoder) Encode(segs [][]byte) error {
	if len(segs) == 0 {
		return ErrNoSegments
	}
	e.buf.Reset()
	binary.Write(&e.buf, binary.LittleEndian, uint32(len(segs)-1))
	for i, s := range segs {
		if len(s)%8 != 0 {
			return fmt.Errorf("%w: segment %d", ErrUnaligned, i)
		}
		binary.Write(&e.buf, binary.LittleEndian, uint32(len(s)/8))
	}
	if len(segs)%2 == 0 {
		e.buf.Write([]byte{0, 0, 0, 0})
	}
	if _, err := e.w.Write(e.buf.Bytes()); err != nil {
		return err
	}
	for _, s := range segs {
		if _, err := e.w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// Decoder reads framed messages from a stream.
type Decoder struct {
	r      io.Reader
	Limits Limits
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, Limits: DefaultLimits}
}

// Decode reads one framed message. Segments share a single buffer owned by
// the caller afterwards.
func (d *Decoder) Decode() ([][]byte, error) {
	var first [4]byte
	if _, err := io.ReadFull(d.r, first[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, err
	}
	count := uint64(binary.LittleEndian.Uint32(first[:])) + 1
	if count > uint64(d.Limits.MaxSegments) {
		return nil, fmt.Errorf("%w: %d segments", ErrFrameTooLarge, count)
	}
	hdr := make([]byte, headerSize(int(count)))
	copy(hdr, first[:])
	if _, err := io.ReadFull(d.r, hdr[4:]); err != nil {
		return nil, ErrFrameTruncated
	}
	sizes, _, err := parseTable(hdr, d.Limits)
	if err != nil {
		return nil, err
	}
	var total uint64
	for _, s := range sizes {
		total += s
	}
	body := make([]byte, total*8)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, ErrFrameTruncated
	}
	segs := make([][]byte, len(sizes))
	var off uint64
	for i, words := range sizes {
		end := off + words*8
		segs[i] = body[off:end:end]
		off = end
	}
	return segs, nil
}
