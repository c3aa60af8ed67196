package termboard

// Cursor is the board's active write position plus the deferred-wrap
// ("xenl") flag spec.md §5 requires: a write that lands exactly on the
// right margin sets XEnL instead of wrapping immediately, and the next
// graphic character wraps before it is placed.
type Cursor struct {
	X, Y    int
	XEnL    bool
	Attr    uint32 // scalar or extended handle, retained while pending
	Visible bool
}

// SavedCursor is the DECSC/DECRC snapshot: position, pending attribute,
// the active GL/GR designations, and origin mode, captured per screen
// buffer (spec.md §5).
type SavedCursor struct {
	valid      bool
	X, Y       int
	Attr       uint32
	GL, GR     int
	Slots      [4]*charsetDef
	OriginMode bool
}

// Board is the fixed-height grid of lines plus the executor-visible
// state that doesn't belong to any single line: cursor, scroll margins,
// tab stops, the two independent cursor-save slots, and (primary screen
// only) a bounded scrollback ring. Grounded on the teacher's Buffer type
// (buffer.go) and Terminal's alt/primary pairing (terminal.go), extended
// to the nested-string line model and attribute table required here.
type Board struct {
	width, height int

	lines    []*Line
	altLines []*Line
	usingAlt bool

	cursor     Cursor
	savedPrime SavedCursor
	savedAlt   SavedCursor

	top, bottom       int // scroll margins, 0-based, bottom inclusive
	left, right       int // DECSLRM margins, 0-based, right inclusive
	marginsIndependent bool // DECSLRM has ever been set (spec.md §5)

	originMode bool
	dirR2L     bool // presentation (line) direction, SIMD/DCSM

	attrs   *AttributeTable
	palette *Palette

	scrollback    []*Line
	scrollbackMax int

	tabStops []bool

	autoWrap bool
}

// NewBoard returns a board of the given size with a fresh AttributeTable,
// default (no) margins, 8-column tab stops, and autowrap enabled.
func NewBoard(width, height, scrollbackMax int) *Board {
	b := &Board{
		width: width, height: height,
		attrs:         NewAttributeTable(),
		scrollbackMax: scrollbackMax,
		autoWrap:      true,
	}
	b.bottom = height - 1
	b.right = width - 1
	b.lines = make([]*Line, height)
	b.altLines = make([]*Line, height)
	for y := range b.lines {
		b.lines[y] = NewMonoLine(width, 0)
		b.altLines[y] = NewMonoLine(width, 0)
	}
	b.resetTabStops()
	b.cursor.Visible = true
	return b
}

func (b *Board) resetTabStops() {
	b.tabStops = make([]bool, b.width)
	for x := 0; x < b.width; x += 8 {
		b.tabStops[x] = true
	}
}

// Attrs returns the shared attribute table (exposed so the executor can
// intern SGR-built attributes before writing cells).
func (b *Board) Attrs() *AttributeTable { return b.attrs }

// active returns the currently displayed screen's line array (primary or
// alternate).
func (b *Board) active() []*Line {
	if b.usingAlt {
		return b.altLines
	}
	return b.lines
}

// Line returns the y'th row of the active screen.
func (b *Board) Line(y int) *Line {
	if y < 0 || y >= len(b.active()) {
		return nil
	}
	return b.active()[y]
}

// LineText returns the plain text of row y of the active screen, in
// presentation order, for quick inspection (tests, logging).
func (b *Board) LineText(y int) string {
	l := b.Line(y)
	if l == nil {
		return ""
	}
	return l.ExtractSelection(0, len(l.Cells()))
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }
func (b *Board) Cursor() Cursor       { return b.cursor }
func (b *Board) SetCursor(c Cursor)   { b.cursor = c }
func (b *Board) UsingAltScreen() bool { return b.usingAlt }

// Margins returns the current scroll region, inclusive on both ends.
func (b *Board) Margins() (top, bottom, left, right int) {
	return b.top, b.bottom, b.left, b.right
}

// SetMargins installs DECSTBM's top/bottom scroll region. Invalid ranges
// (top >= bottom) reset to the full screen, per common DEC behavior.
func (b *Board) SetMargins(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= b.height {
		bottom = b.height - 1
	}
	if top >= bottom {
		top, bottom = 0, b.height-1
	}
	b.top, b.bottom = top, bottom
}

// SetLRMargins installs DECSLRM's left/right scroll region (only
// effective once DECLRMM has been enabled by the caller; that mode bit
// lives in the executor, not here).
func (b *Board) SetLRMargins(left, right int) {
	if left < 0 {
		left = 0
	}
	if right >= b.width || right < left+1 {
		right = b.width - 1
	}
	b.left, b.right = left, right
	b.marginsIndependent = true
}

func (b *Board) OriginMode() bool     { return b.originMode }
func (b *Board) SetOriginMode(v bool) { b.originMode = v }
func (b *Board) AutoWrap() bool       { return b.autoWrap }
func (b *Board) SetAutoWrap(v bool)   { b.autoWrap = v }
func (b *Board) R2L() bool            { return b.dirR2L }
func (b *Board) SetR2L(v bool)        { b.dirR2L = v }

// --- Alt-screen swap (spec.md §9 supplement) ---

// EnterAltScreen switches to the alternate screen buffer, optionally
// clearing it first (DECSET 1049-style "save cursor, clear, switch").
// The scrollback is untouched: spec.md §5 requires nothing written under
// the alt screen ever reaches it.
func (b *Board) EnterAltScreen(clear bool) {
	if b.usingAlt {
		return
	}
	b.usingAlt = true
	if clear {
		for y := range b.altLines {
			b.altLines[y] = NewMonoLine(b.width, 0)
		}
	}
}

// ExitAltScreen restores the primary screen.
func (b *Board) ExitAltScreen() {
	b.usingAlt = false
}

// --- Cursor save/restore ---

func (b *Board) savedSlot() *SavedCursor {
	if b.usingAlt {
		return &b.savedAlt
	}
	return &b.savedPrime
}

// SaveCursor snapshots the cursor, its pending attribute, and the GL/GR
// designation state into the slot for the active screen (DECSC).
func (b *Board) SaveCursor(gl, gr int, slots [4]*charsetDef) {
	*b.savedSlot() = SavedCursor{
		valid: true, X: b.cursor.X, Y: b.cursor.Y, Attr: b.cursor.Attr,
		GL: gl, GR: gr, Slots: slots, OriginMode: b.originMode,
	}
}

// RestoreCursor applies the active screen's saved slot, if any (DECRC).
// ok is false when nothing was ever saved, in which case the cursor
// homes to (0,0) per common terminal behavior.
func (b *Board) RestoreCursor() (s SavedCursor, ok bool) {
	slot := b.savedSlot()
	if !slot.valid {
		b.cursor.X, b.cursor.Y, b.cursor.XEnL = 0, 0, false
		return SavedCursor{}, false
	}
	b.cursor.X, b.cursor.Y, b.cursor.XEnL = slot.X, slot.Y, false
	b.cursor.Attr = slot.Attr
	b.originMode = slot.OriginMode
	return *slot, true
}

// --- Scrolling ---

// ScrollUp moves the scroll region's content up by n lines, filling the
// vacated bottom with fresh blank lines carrying fillAttr. On the primary
// screen with full-width margins, evicted top lines are pushed to
// scrollback (spec.md §5, §9); a narrowed left/right region (DECSLRM)
// never feeds scrollback, matching xterm.
func (b *Board) ScrollUp(n int, fillAttr uint32) {
	if n <= 0 {
		return
	}
	active := b.active()
	fullWidth := b.left == 0 && b.right == b.width-1
	for i := 0; i < n; i++ {
		if fullWidth && !b.usingAlt {
			b.pushScrollback(active[b.top])
		}
		b.shiftRegionUp(active, fillAttr)
	}
}

func (b *Board) shiftRegionUp(active []*Line, fillAttr uint32) {
	if b.left == 0 && b.right == b.width-1 {
		copy(active[b.top:b.bottom], active[b.top+1:b.bottom+1])
		active[b.bottom] = NewMonoLine(b.width, fillAttr)
		return
	}
	// DECSLRM-aware: only the [left,right] column segment of each row in
	// [top,bottom] moves; columns outside the region are untouched.
	for y := b.top; y < b.bottom; y++ {
		segment := active[y+1].Cells()[b.left : b.right+1]
		dst := make([]Cell, len(segment))
		copy(dst, segment)
		active[y].WriteCells(b.left, dst, b.attrs, fillAttr)
	}
	blanks := make([]Cell, b.right-b.left+1)
	for i := range blanks {
		blanks[i] = BlankCell(fillAttr)
	}
	active[b.bottom].WriteCells(b.left, blanks, b.attrs, fillAttr)
}

// ScrollDown moves the scroll region's content down by n lines (reverse
// scroll / DECRQM-independent RI-family sequences).
func (b *Board) ScrollDown(n int, fillAttr uint32) {
	if n <= 0 {
		return
	}
	active := b.active()
	for i := 0; i < n; i++ {
		if b.left == 0 && b.right == b.width-1 {
			copy(active[b.top+1:b.bottom+1], active[b.top:b.bottom])
			active[b.top] = NewMonoLine(b.width, fillAttr)
			continue
		}
		for y := b.bottom; y > b.top; y-- {
			segment := active[y-1].Cells()[b.left : b.right+1]
			dst := make([]Cell, len(segment))
			copy(dst, segment)
			active[y].WriteCells(b.left, dst, b.attrs, fillAttr)
		}
		blanks := make([]Cell, b.right-b.left+1)
		for i := range blanks {
			blanks[i] = BlankCell(fillAttr)
		}
		active[b.top].WriteCells(b.left, blanks, b.attrs, fillAttr)
	}
}

// pushScrollback retains a snapshot of line into the bounded scrollback
// ring (spec.md §9 supplement, ported from the teacher's buffer.go
// ScrollUp). The line itself keeps its attribute handles; retaining them
// here and releasing on eviction keeps the attribute table's refcounts
// correct across lines that outlive the visible screen.
func (b *Board) pushScrollback(line *Line) {
	if b.scrollbackMax <= 0 {
		return
	}
	snap := &Line{
		id: line.id, mode: line.mode, width: line.width,
		cells: append([]Cell(nil), line.Cells()...),
		flags: line.flags, dirR2L: line.dirR2L,
		homeCol: line.homeCol, limitCol: line.limitCol,
		stringsDirty: true, orderDirty: true,
	}
	for _, c := range snap.cells {
		b.attrs.Retain(c.AttrHandle)
	}
	b.scrollback = append(b.scrollback, snap)
	if len(b.scrollback) > b.scrollbackMax {
		evicted := b.scrollback[0]
		for _, c := range evicted.Cells() {
			b.attrs.Release(c.AttrHandle)
		}
		b.scrollback = b.scrollback[1:]
	}
}

// Scrollback returns the retained off-screen lines, oldest first.
func (b *Board) Scrollback() []*Line { return b.scrollback }

// InsertLines shifts lines [y,bottom] down by n within the scroll
// region, discarding overflow past bottom (IL). Only valid columns
// within the DECSLRM region are affected when left/right margins are
// set and y is inside [top,bottom].
func (b *Board) InsertLines(y, n int, fillAttr uint32) {
	if y < b.top || y > b.bottom {
		return
	}
	active := b.active()
	for i := 0; i < n && y <= b.bottom; i++ {
		for row := b.bottom; row > y; row-- {
			b.copyRowSegment(active[row], active[row-1])
		}
		b.blankRowSegment(active[y], fillAttr)
	}
}

// DeleteLines shifts lines [y,bottom] up by n within the scroll region
// (DL).
func (b *Board) DeleteLines(y, n int, fillAttr uint32) {
	if y < b.top || y > b.bottom {
		return
	}
	active := b.active()
	for i := 0; i < n && y <= b.bottom; i++ {
		for row := y; row < b.bottom; row++ {
			b.copyRowSegment(active[row], active[row+1])
		}
		b.blankRowSegment(active[b.bottom], fillAttr)
	}
}

func (b *Board) copyRowSegment(dst, src *Line) {
	cells := append([]Cell(nil), src.Cells()[b.left:b.right+1]...)
	dst.WriteCells(b.left, cells, b.attrs, 0)
}

func (b *Board) blankRowSegment(l *Line, fillAttr uint32) {
	blanks := make([]Cell, b.right-b.left+1)
	for i := range blanks {
		blanks[i] = BlankCell(fillAttr)
	}
	l.WriteCells(b.left, blanks, b.attrs, fillAttr)
}

// --- Tab stops ---

func (b *Board) SetTabStop(x int) {
	if x >= 0 && x < len(b.tabStops) {
		b.tabStops[x] = true
	}
}
func (b *Board) ClearTabStop(x int) {
	if x >= 0 && x < len(b.tabStops) {
		b.tabStops[x] = false
	}
}
func (b *Board) ClearAllTabStops() {
	for i := range b.tabStops {
		b.tabStops[i] = false
	}
}

// NextTabStop returns the first set stop strictly after x, or the right
// edge if none remain.
func (b *Board) NextTabStop(x int) int {
	for i := x + 1; i < len(b.tabStops); i++ {
		if b.tabStops[i] {
			return i
		}
	}
	return b.width - 1
}

// PrevTabStop returns the last set stop strictly before x, or 0.
func (b *Board) PrevTabStop(x int) int {
	for i := x - 1; i >= 0; i-- {
		if b.tabStops[i] {
			return i
		}
	}
	return 0
}

// Resize changes the board dimensions, growing/shrinking each line and
// the row count, clipping the cursor and margins back into range
// (spec.md §9 supplement; grounded on the teacher's Buffer.Resize /
// GrowRows / GrowCols).
func (b *Board) Resize(width, height int) {
	for _, set := range [][]*Line{b.lines, b.altLines} {
		for _, l := range set {
			l.Resize(width, 0)
		}
	}
	resizeRows := func(rows []*Line) []*Line {
		if height == len(rows) {
			return rows
		}
		if height < len(rows) {
			return rows[:height]
		}
		for len(rows) < height {
			rows = append(rows, NewMonoLine(width, 0))
		}
		return rows
	}
	b.lines = resizeRows(b.lines)
	b.altLines = resizeRows(b.altLines)

	b.width, b.height = width, height
	if b.bottom >= height {
		b.bottom = height - 1
	}
	if b.right >= width {
		b.right = width - 1
	}
	if b.cursor.X >= width {
		b.cursor.X = width - 1
	}
	if b.cursor.Y >= height {
		b.cursor.Y = height - 1
	}
	b.resetTabStops()
}
