package wire

// Compat is the outcome of reading a list stored with one element size as
// a list of another element size.
type Compat uint8

const (
	// Incompatible means the stored elements cannot be reinterpreted.
	Incompatible Compat = iota
	// Exact means stored and requested sizes match.
	Exact
	// Prefix means each element is read from the leading bits of a wider
	// stored element.
	Prefix
	// StructView means the elements are read as structs whose sections
	// are whatever the stored element provides; missing fields default.
	StructView

	// conditional rules for stored composite lists, resolved by Check
	needsData
	needsPointers
)

func (c Compat) String() string {
	switch c {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case StructView:
		return "struct view"
	default:
		return "incompatible"
	}
}

const (
	x  = Incompatible
	eq = Exact
	pf = Prefix
	sv = StructView
	nd = needsData
	np = needsPointers
)

// compatTable is indexed by [stored][requested].
//
// A bit list can be read as a struct list (field zero is the bit) but never
// as a list of bytes, and a struct list can never be read as a bit list.
var compatTable = [8][8]Compat{
	//           void bit byte two four eight ptr  composite
	Void:            {eq, x, x, x, x, x, x, sv},
	Bit:             {pf, eq, x, x, x, x, x, sv},
	Byte:            {pf, pf, eq, x, x, x, x, sv},
	TwoBytes:        {pf, pf, pf, eq, x, x, x, sv},
	FourBytes:       {pf, pf, pf, pf, eq, x, x, sv},
	EightBytes:      {pf, pf, pf, pf, pf, eq, x, sv},
	PointerSize:     {pf, x, x, x, x, x, eq, sv},
	InlineComposite: {pf, x, nd, nd, nd, nd, np, eq},
}

// Check reports how a list stored with element size stored (and struct
// shape elem, for InlineComposite lists) can be read as requested.
func Check(stored ElementSize, elem StructSize, requested ElementSize) Compat {
	c := compatTable[stored&7][requested&7]
	switch c {
	case needsData:
		if elem.DataWords == 0 {
			return Incompatible
		}
		return Prefix
	case needsPointers:
		if elem.PointerCount == 0 {
			return Incompatible
		}
		return Prefix
	}
	return c
}
