package wire

import "github.com/rawbytedev/segwire/internal/common"

// ElementSize is the 3-bit element size tag of a list pointer.
type ElementSize uint8

const (
	Void ElementSize = iota
	Bit
	Byte
	TwoBytes
	FourBytes
	EightBytes
	PointerSize
	InlineComposite
)

var elementSizeNames = [...]string{
	Void:            "void",
	Bit:             "bit",
	Byte:            "byte",
	TwoBytes:        "two bytes",
	FourBytes:       "four bytes",
	EightBytes:      "eight bytes",
	PointerSize:     "pointer",
	InlineComposite: "inline composite",
}

func (es ElementSize) String() string {
	if int(es) < len(elementSizeNames) {
		return elementSizeNames[es]
	}
	return "invalid"
}

var dataBits = [...]uint32{
	Void:            0,
	Bit:             1,
	Byte:            8,
	TwoBytes:        16,
	FourBytes:       32,
	EightBytes:      64,
	PointerSize:     0,
	InlineComposite: 0,
}

// DataBits returns the data stride of a non-composite element size.
func (es ElementSize) DataBits() uint32 {
	return dataBits[es&7]
}

// PointerCount returns the number of pointers per element of a
// non-composite element size.
func (es ElementSize) PointerCount() uint16 {
	if es == PointerSize {
		return 1
	}
	return 0
}

// StepBits returns the distance in bits between consecutive elements of a
// non-composite element size.
func (es ElementSize) StepBits() uint32 {
	if es == PointerSize {
		return common.BitsPerWord
	}
	return es.DataBits()
}

// StructSize is the shape of a struct: data section words followed by
// pointer section words.
type StructSize struct {
	DataWords    uint16
	PointerCount uint16
}

// TotalWords returns the number of words the struct occupies.
func (sz StructSize) TotalWords() uint32 {
	return uint32(sz.DataWords) + uint32(sz.PointerCount)
}

// DataBits returns the size of the data section in bits.
func (sz StructSize) DataBits() uint32 {
	return uint32(sz.DataWords) * common.BitsPerWord
}

// IsZero reports whether the struct has no data and no pointers.
func (sz StructSize) IsZero() bool {
	return sz.DataWords == 0 && sz.PointerCount == 0
}

// Max returns the per-section maximum of two shapes.
func (sz StructSize) Max(o StructSize) StructSize {
	return StructSize{
		DataWords:    max(sz.DataWords, o.DataWords),
		PointerCount: max(sz.PointerCount, o.PointerCount),
	}
}

// Covers reports whether sz is at least as large as o in both sections.
func (sz StructSize) Covers(o StructSize) bool {
	return sz.DataWords >= o.DataWords && sz.PointerCount >= o.PointerCount
}

// ElementLayout is a struct type's shape as a list element. Preferred is
// the narrowest non-composite element size that holds every field, or
// InlineComposite when none does.
type ElementLayout struct {
	Size      StructSize
	Preferred ElementSize
}

// Layout returns the element layout of a struct of shape sz whose data
// fields occupy the leading bits bits of its data section.
func (sz StructSize) Layout(bits uint32) ElementLayout {
	l := ElementLayout{Size: sz, Preferred: InlineComposite}
	switch {
	case sz.PointerCount == 0 && bits <= sz.DataBits():
		for es := Void; es <= EightBytes; es++ {
			if es.DataBits() >= bits {
				l.Preferred = es
				break
			}
		}
	case sz.PointerCount == 1 && bits == 0:
		l.Preferred = PointerSize
	}
	return l
}

// HeldBy reports whether elements stored with the non-composite size es
// already hold every field of the layout.
func (l ElementLayout) HeldBy(es ElementSize) bool {
	if l.Preferred == InlineComposite || es == InlineComposite {
		return false
	}
	return es.DataBits() >= l.Preferred.DataBits() &&
		es.PointerCount() >= l.Preferred.PointerCount()
}
