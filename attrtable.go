package termboard

// Attribute handles are 32-bit. The MSB marks an "extended" handle: a
// reference-counted index into the owning board's AttributeTable. All
// other handles are "scalar": the full Attribute is recoverable from the
// bits of the handle itself, with no table lookup and no refcounting.
// Scalar form covers a default/indexed-colour attribute using only the
// flag bits enumerated in scalarAFlagsMask; anything richer (direct
// colour, xflags, frame/circle/overline) must be interned.
//
// This is the arena-plus-index replacement spec.md §9 calls for in place
// of the legacy cyclic board<->line<->attribute references.
const extendedHandleBit uint32 = 1 << 31

const (
	scalarAFlagsMask  = AttrWeightMask | AttrShapeMask | AttrUnderlineMask | AttrBlinkMask | AttrInverse | AttrInvisible | AttrStrike
	scalarAFlagsBits  = 12
	scalarColorBits   = 9 // 1 present bit + 8 index bits
	scalarFgShift     = scalarAFlagsBits
	scalarBgShift     = scalarAFlagsBits + scalarColorBits
	scalarColorIdxMask = 0xFF
	scalarColorPresent = 1 << 8
)

// EncodeScalar attempts to pack attr into a non-extended handle. ok is
// false when attr needs interning (xflags set, direct/CMY/CMYK colour, dc
// colour set, or any flag outside scalarAFlagsMask).
func EncodeScalar(attr Attribute) (handle uint32, ok bool) {
	if attr.XFlags != 0 || attr.Dc != 0 {
		return 0, false
	}
	if attr.AFlags&^scalarAFlagsMask != 0 {
		return 0, false
	}
	if attr.AFlags.FgSpace() != ColorSpaceDefault && attr.AFlags.FgSpace() != ColorSpaceIndexed {
		return 0, false
	}
	if attr.AFlags.BgSpace() != ColorSpaceDefault && attr.AFlags.BgSpace() != ColorSpaceIndexed {
		return 0, false
	}

	h := uint32(attr.AFlags & scalarAFlagsMask)
	if attr.AFlags.FgSpace() == ColorSpaceIndexed {
		if attr.Fg > 0xFF {
			return 0, false
		}
		h |= (scalarColorPresent | attr.Fg&scalarColorIdxMask) << scalarFgShift
	}
	if attr.AFlags.BgSpace() == ColorSpaceIndexed {
		if attr.Bg > 0xFF {
			return 0, false
		}
		h |= (scalarColorPresent | attr.Bg&scalarColorIdxMask) << scalarBgShift
	}
	return h, true
}

// DecodeScalar is the inverse of EncodeScalar.
func DecodeScalar(handle uint32) Attribute {
	var a Attribute
	a.AFlags = AFlags(handle) & scalarAFlagsMask
	if fg := (handle >> scalarFgShift); fg&scalarColorPresent != 0 {
		a.AFlags = a.AFlags.WithFgSpace(ColorSpaceIndexed)
		a.Fg = fg & scalarColorIdxMask
	}
	if bg := (handle >> scalarBgShift); bg&scalarColorPresent != 0 {
		a.AFlags = a.AFlags.WithBgSpace(ColorSpaceIndexed)
		a.Bg = bg & scalarColorIdxMask
	}
	return a
}

func isExtendedHandle(h uint32) bool { return h&extendedHandleBit != 0 }

// AttributeTable interns Attribute values that don't fit the scalar
// handle encoding, returning a stable 32-bit handle with its MSB set.
// Entries are reference-counted; an entry is only reused for an identical
// Attribute value while at least one cell (or the cursor's pending
// template, see Cursor) still refers to it.
type AttributeTable struct {
	entries []attrTableEntry
	index   map[Attribute]uint32 // Attribute -> slot+1 (0 = absent)
	free    []uint32
}

type attrTableEntry struct {
	attr    Attribute
	refs    int
	live    bool
}

// NewAttributeTable returns an empty table.
func NewAttributeTable() *AttributeTable {
	return &AttributeTable{index: make(map[Attribute]uint32)}
}

// maxEntries is the hard cap from spec.md §7 ("attribute-table
// exhaustion... practically unreachable"). Kept far below 2^31 so the
// abort path can be reached in a test without allocating billions of
// entries.
const maxEntries = 1 << 24

// Intern returns a handle for attr, creating or reusing a table entry as
// needed. Scalar-eligible attributes never touch the table.
func (t *AttributeTable) Intern(attr Attribute) uint32 {
	if h, ok := EncodeScalar(attr); ok {
		return h
	}
	if slot, found := t.index[attr]; found {
		idx := slot - 1
		t.entries[idx].refs++
		return extendedHandleBit | idx
	}

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
		t.entries[idx] = attrTableEntry{attr: attr, refs: 1, live: true}
	} else {
		if len(t.entries) >= maxEntries {
			panic("termboard: attribute table exhausted")
		}
		idx = uint32(len(t.entries))
		t.entries = append(t.entries, attrTableEntry{attr: attr, refs: 1, live: true})
	}
	t.index[attr] = idx + 1
	return extendedHandleBit | idx
}

// Retain increments the refcount of an extended handle. A no-op for
// scalar handles.
func (t *AttributeTable) Retain(handle uint32) {
	if !isExtendedHandle(handle) {
		return
	}
	idx := handle &^ extendedHandleBit
	if int(idx) < len(t.entries) && t.entries[idx].live {
		t.entries[idx].refs++
	}
}

// Release decrements the refcount of an extended handle, freeing the
// slot once it reaches zero. A no-op for scalar handles.
func (t *AttributeTable) Release(handle uint32) {
	if !isExtendedHandle(handle) {
		return
	}
	idx := handle &^ extendedHandleBit
	if int(idx) >= len(t.entries) || !t.entries[idx].live {
		return
	}
	t.entries[idx].refs--
	if t.entries[idx].refs <= 0 {
		delete(t.index, t.entries[idx].attr)
		t.entries[idx] = attrTableEntry{}
		t.free = append(t.free, idx)
	}
}

// Resolve returns the Attribute a handle denotes.
func (t *AttributeTable) Resolve(handle uint32) Attribute {
	if !isExtendedHandle(handle) {
		return DecodeScalar(handle)
	}
	idx := handle &^ extendedHandleBit
	if int(idx) >= len(t.entries) || !t.entries[idx].live {
		return Attribute{}
	}
	return t.entries[idx].attr
}

// RefCount reports the live reference count of an extended handle (0 for
// scalar handles or a freed entry). Used by tests to check the invariant
// in spec.md §8.
func (t *AttributeTable) RefCount(handle uint32) int {
	if !isExtendedHandle(handle) {
		return 0
	}
	idx := handle &^ extendedHandleBit
	if int(idx) >= len(t.entries) || !t.entries[idx].live {
		return 0
	}
	return t.entries[idx].refs
}
