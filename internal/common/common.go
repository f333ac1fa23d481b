package common

const (
	WordSize    = 8
	BitsPerByte = 8
	BitsPerWord = WordSize * BitsPerByte
)

// WordsForBits returns the number of whole words needed to hold n bits.
func WordsForBits(n uint64) uint64 {
	return (n + BitsPerWord - 1) / BitsPerWord
}

// CopyBits copies n bits from src starting at bit srcOff into dst starting
// at bit dstOff. Bits are numbered least significant first within each byte.
func CopyBits(dst []byte, dstOff uint64, src []byte, srcOff uint64, n uint64) {
	// whole bytes when both sides are byte aligned
	if dstOff%8 == 0 && srcOff%8 == 0 {
		whole := n / 8
		copy(dst[dstOff/8:dstOff/8+whole], src[srcOff/8:srcOff/8+whole])
		dstOff += whole * 8
		srcOff += whole * 8
		n -= whole * 8
	}
	for i := uint64(0); i < n; i++ {
		s := srcOff + i
		d := dstOff + i
		bit := src[s/8] >> (s % 8) & 1
		if bit != 0 {
			dst[d/8] |= 1 << (d % 8)
		} else {
			dst[d/8] &^= 1 << (d % 8)
		}
	}
}
