package termboard

// RenderTrace exposes just enough of a Board for a renderer to do
// incremental redraw: per-row stable id/version pairs (so unchanged rows
// can be skipped), the board's current geometry, and a resolved view of
// a single cell's character/attribute for drawing (spec.md §9's C8).
// Grounded on the teacher's snapshot.go, which exists for the same
// purpose (a serialisable view distinct from the live mutable buffer)
// though over JSON rather than a polling API.
type RenderTrace struct {
	board *Board
}

func newRenderTrace(b *Board) *RenderTrace {
	return &RenderTrace{board: b}
}

// RowStamp is the (id, version) pair a renderer diffs against its own
// cache to decide whether a row needs repainting.
type RowStamp struct {
	ID      uint64
	Version uint64
}

func (rt *RenderTrace) Size() (cols, rows int) {
	return rt.board.Width(), rt.board.Height()
}

func (rt *RenderTrace) CursorPosition() (x, y int, visible bool) {
	c := rt.board.Cursor()
	return c.X, c.Y, c.Visible
}

// RowStamp returns the stamp for row y of the active screen.
func (rt *RenderTrace) RowStamp(y int) RowStamp {
	l := rt.board.Line(y)
	if l == nil {
		return RowStamp{}
	}
	return RowStamp{ID: l.ID(), Version: l.Version()}
}

// CellView is a fully resolved cell, ready to draw: character plus
// concrete foreground/background RGB (colour-space and inverse video
// already applied).
type CellView struct {
	Char  rune
	Width int
	Fg    uint32
	Bg    uint32
	Flags AFlags
	XFlags XFlags
}

// Cell resolves the cell at presentation column x of row y into a
// drawable view, applying bidi reordering, the cell's own inverse-video
// attribute, and palette lookups. The screen-wide reverse-video mode
// (DECSCNM) is not applied.
func (rt *RenderTrace) Cell(x, y int, defaultFg, defaultBg uint32) CellView {
	l := rt.board.Line(y)
	if l == nil {
		return CellView{}
	}
	dataIdx := x
	if l.Mode() == LineModeProportional {
		dataIdx = l.ToDataPosition(x)
	}
	cells := l.Cells()
	if dataIdx < 0 || dataIdx >= len(cells) {
		return CellView{Char: ' ', Width: 1, Fg: defaultFg, Bg: defaultBg}
	}
	cell := cells[dataIdx]
	attr := rt.board.Attrs().Resolve(cell.AttrHandle)

	pal := rt.board.palette
	fg := resolveColorSpace(pal, attr.AFlags.FgSpace(), attr.Fg, defaultFg)
	bg := resolveColorSpace(pal, attr.AFlags.BgSpace(), attr.Bg, defaultBg)
	if attr.AFlags&AttrInverse != 0 {
		fg, bg = bg, fg
	}
	return CellView{
		Char: cell.Char.Rune(), Width: int(cell.Width),
		Fg: fg, Bg: bg, Flags: attr.AFlags, XFlags: attr.XFlags,
	}
}

func resolveColorSpace(pal *Palette, space ColorSpace, v, def uint32) uint32 {
	if pal == nil {
		return def
	}
	return pal.Resolve(space, v, def)
}
