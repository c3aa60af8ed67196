package termboard

// LineMode discriminates the two cell-storage representations of
// spec.md §4.2. Promotion from mono to proportional is one-way.
type LineMode uint8

const (
	LineModeMono LineMode = iota
	LineModeProportional
)

// Direction is a nested string's (or a line's) reading direction.
type Direction uint8

const (
	DirL2R Direction = iota
	DirR2L
)

// LineFlags carries the line-level attribute word: DECDHL/DECDWL,
// character-path override, and the "used" bit (spec.md §3).
type LineFlags uint16

const (
	LineFlagUsed LineFlags = 1 << iota
	LineFlagDoubleWidth
	LineFlagDoubleHeightTop
	LineFlagDoubleHeightBottom
	LineFlagPathOverrideR2L
)

// NestedString is a directionality scope opened by SDS/SRS (spec.md §3).
// Strings never cross; Parent forms a forest with the outermost
// pseudo-string (index 0, spanning the whole line) as every root.
type NestedString struct {
	Begin, End int
	Dir        Direction
	Parent     int
}

var nextLineID uint64 = 1

// Line is a terminal row: either a fixed monospaced array of cells (one
// per display column) or a proportional sequence of cells whose widths
// sum to at most the line's width, carrying a cached bidi decomposition.
type Line struct {
	id      uint64
	version uint64

	mode  LineMode
	width int
	cells []Cell

	flags   LineFlags
	dirR2L  bool // line-level direction
	homeCol int  // SLH, -1 = default (0)
	limitCol int // SLL, -1 = default (width)

	// Proportional-only acceleration: last (index, display-x) written,
	// so sequential appends don't rescan from the start.
	hintIndex int
	hintX     int

	stringsDirty    bool
	stringsCache    []NestedString
	orderDirty      bool
	orderCache      []int // presentation position -> data index
	posForDataCache []int // data index -> presentation position
}

// NewMonoLine returns an empty monospaced line of the given width, every
// cell defaulted to fillAttr.
func NewMonoLine(width int, fillAttr uint32) *Line {
	l := &Line{id: nextLineID, mode: LineModeMono, width: width, homeCol: -1, limitCol: -1,
		stringsDirty: true, orderDirty: true}
	nextLineID++
	l.cells = make([]Cell, width)
	for i := range l.cells {
		l.cells[i] = BlankCell(fillAttr)
	}
	return l
}

func (l *Line) ID() uint64      { return l.id }
func (l *Line) Version() uint64 { return l.version }
func (l *Line) touch()          { l.version++; l.invalidateCache() }
func (l *Line) invalidateCache() {
	l.stringsDirty = true
	l.orderDirty = true
}

func (l *Line) Mode() LineMode { return l.mode }
func (l *Line) Width() int     { return l.width }

// Home and Limit are the effective SLH/SLL bounds (spec.md §4.3), -1
// meaning "use the line's natural edge".
func (l *Line) Home() int {
	if l.homeCol < 0 {
		return 0
	}
	return l.homeCol
}
func (l *Line) Limit() int {
	if l.limitCol < 0 {
		return l.width
	}
	return l.limitCol
}
func (l *Line) SetHomeLimit(home, limit int) { l.homeCol = home; l.limitCol = limit }

func (l *Line) R2L() bool        { return l.dirR2L }
func (l *Line) SetR2L(v bool)    { l.dirR2L = v; l.touch() }
func (l *Line) Flags() LineFlags { return l.flags }
func (l *Line) SetFlags(f LineFlags) { l.flags = f }

// Promote converts a monospaced line to proportional storage in place.
// One-way: a version bump is always observed even if already
// proportional wasn't the case (spec.md §9).
func (l *Line) Promote() {
	if l.mode == LineModeProportional {
		return
	}
	l.mode = LineModeProportional
	l.touch()
}

// Cells returns the line's backing cell slice. Callers must not retain it
// across a mutating call.
func (l *Line) Cells() []Cell { return l.cells }

// DisplayWidth returns the sum of cell widths (the occupied display
// columns), which for a mono line is <= l.width.
func (l *Line) DisplayWidth() int {
	w := 0
	for _, c := range l.cells {
		w += int(c.Width)
	}
	return w
}

// --- Mono edit primitives ---

// needsPromotion reports whether writing cs at a mono line would violate
// the "one cell per column" invariant (a zero-width cell): spec.md §4.2,
// "When a monospaced line is asked to place a zero-width character, it
// auto-promotes to proportional and the operation is retried."
func needsPromotion(cs []Cell) bool {
	for _, c := range cs {
		if c.Width == 0 {
			return true
		}
	}
	return false
}

// WriteCells overwrites cells starting at data position pos (mono: column
// index) with cs, truncating at the line width. Wide-boundary cleanup
// (spec.md §4.2) blanks any half-overwritten wide glyph.
func (l *Line) WriteCells(pos int, cs []Cell, attr *AttributeTable, fillAttr uint32) {
	if l.mode == LineModeMono && needsPromotion(cs) {
		l.Promote()
	}
	if l.mode == LineModeMono {
		l.writeMono(pos, cs, attr, fillAttr)
		return
	}
	l.writeProp(pos, cs, attr, fillAttr)
}

func (l *Line) writeMono(pos int, cs []Cell, attr *AttributeTable, fillAttr uint32) {
	l.cleanupWideBoundary(pos, attr, fillAttr)
	end := pos + len(cs)
	if end > l.width {
		cs = cs[:l.width-pos]
		end = l.width
	}
	l.cleanupWideBoundary(end, attr, fillAttr)
	for i, c := range cs {
		idx := pos + i
		if idx < 0 || idx >= len(l.cells) {
			continue
		}
		if attr != nil {
			attr.Release(l.cells[idx].AttrHandle)
		}
		l.cells[idx] = c
	}
	l.touch()
}

// cleanupWideBoundary turns a wide glyph that straddles idx into spaces,
// keeping the original attribute (spec.md §4.2 "wide-boundary cleanup").
func (l *Line) cleanupWideBoundary(idx int, attr *AttributeTable, fillAttr uint32) {
	if idx <= 0 || idx >= len(l.cells) {
		return
	}
	if l.cells[idx].Char.IsWideExtension() {
		// Walk back to the main cell and blank the whole glyph.
		j := idx
		for j > 0 && l.cells[j].Char.IsWideExtension() {
			j--
		}
		for k := j; k < len(l.cells) && (k == j || l.cells[k].Char.IsWideExtension()); k++ {
			h := l.cells[k].AttrHandle
			l.cells[k] = BlankCell(h)
		}
	}
}

// InsertBlanks shifts cells at/after pos right by n, discarding overflow
// at the line end (ICH). attr may be nil (tests/paths with no refcounted
// attributes in play); when non-nil, every cell that leaves the array is
// released and every cell a handle newly occupies is retained, keeping
// the attribute table's ref count equal to the number of cells using
// each handle (spec.md §8's attribute ref-count invariant).
func (l *Line) InsertBlanks(pos, n int, attr *AttributeTable, fillAttr uint32) {
	if l.mode != LineModeMono {
		l.insertPropBlanks(pos, n, attr, fillAttr)
		return
	}
	if pos < 0 || pos >= l.width || n <= 0 {
		return
	}
	l.cleanupWideBoundary(pos, nil, fillAttr)
	for c := l.width - 1; c >= pos+n; c-- {
		if attr != nil {
			attr.Retain(l.cells[c-n].AttrHandle)
			attr.Release(l.cells[c].AttrHandle)
		}
		l.cells[c] = l.cells[c-n]
	}
	first := true
	for c := pos; c < pos+n && c < l.width; c++ {
		if attr != nil {
			attr.Release(l.cells[c].AttrHandle)
			if !first {
				attr.Retain(fillAttr)
			}
			first = false
		}
		l.cells[c] = BlankCell(fillAttr)
	}
	l.touch()
}

// DeleteCells removes n cells at pos, shifting the remainder left and
// filling the vacated right edge (DCH). See InsertBlanks for the
// ref-counting contract of attr.
func (l *Line) DeleteCells(pos, n int, attr *AttributeTable, fillAttr uint32) {
	if l.mode != LineModeMono {
		l.deletePropCells(pos, n, attr, fillAttr)
		return
	}
	if pos < 0 || pos >= l.width || n <= 0 {
		return
	}
	l.cleanupWideBoundary(pos, nil, fillAttr)
	for c := pos; c < l.width-n; c++ {
		if attr != nil {
			attr.Retain(l.cells[c+n].AttrHandle)
			attr.Release(l.cells[c].AttrHandle)
		}
		l.cells[c] = l.cells[c+n]
	}
	first := true
	for c := l.width - n; c < l.width; c++ {
		if c < 0 {
			continue
		}
		if attr != nil {
			attr.Release(l.cells[c].AttrHandle)
			if !first {
				attr.Retain(fillAttr)
			}
			first = false
		}
		l.cells[c] = BlankCell(fillAttr)
	}
	l.touch()
}

// Erase fills [from,to) with NUL cells carrying fillAttr (ECH/EL-style).
// When protect is true, cells with AttrProtected set (resolved through
// attr) are left untouched (ERM).
func (l *Line) Erase(from, to int, fillAttr uint32, attr *AttributeTable, protect bool) {
	if l.mode != LineModeMono {
		l.erasePropRange(from, to, fillAttr, attr, protect)
		return
	}
	if from < 0 {
		from = 0
	}
	if to > l.width {
		to = l.width
	}
	l.cleanupWideBoundary(from, attr, fillAttr)
	l.cleanupWideBoundary(to, attr, fillAttr)
	first := true
	for c := from; c < to; c++ {
		if protect && attr != nil && attr.Resolve(l.cells[c].AttrHandle).XFlags&AttrProtected != 0 {
			continue
		}
		if attr != nil {
			attr.Release(l.cells[c].AttrHandle)
			if !first {
				attr.Retain(fillAttr)
			}
			first = false
		}
		l.cells[c] = NULCell(fillAttr)
	}
	l.touch()
}

// Resize changes a mono line's column count, truncating or padding with
// default cells. Proportional lines are only ever reflowed by the
// executor (a proportional line's cell count is already <= any new
// width), so Resize shrinks by clipping to the displayed length.
func (l *Line) Resize(width int, fillAttr uint32) {
	if width == l.width {
		return
	}
	if l.mode == LineModeMono {
		nc := make([]Cell, width)
		copy(nc, l.cells)
		for i := l.width; i < width; i++ {
			nc[i] = BlankCell(fillAttr)
		}
		l.cells = nc
	} else if width < l.width {
		// Drop trailing cells once their cumulative width exceeds the
		// new budget.
		w := 0
		cut := len(l.cells)
		for i, c := range l.cells {
			if w+int(c.Width) > width {
				cut = i
				break
			}
			w += int(c.Width)
		}
		l.cells = l.cells[:cut]
	}
	l.width = width
	l.touch()
}
