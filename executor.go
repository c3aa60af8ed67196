package termboard

import "sync"

// Terminal is the executor of spec.md §5: it holds a Decoder (C4) feeding
// it Events, a Board (C6) it mutates in response, and the mode/attribute
// state that sits between the two. Grounded on the teacher's Terminal
// type (terminal.go): the functional-options constructor, the provider
// fields, and the mutex-guarded single entry point are all kept; the
// cell/attribute/scrollback machinery underneath is rebuilt for the
// richer line model.
type Terminal struct {
	mu sync.Mutex

	board   *Board
	decoder *Decoder
	palette *Palette
	modes   modeState

	pendingAttr Attribute // not yet interned; becomes cursor.Attr on next write

	lastMouseX, lastMouseY int
	haveLastMouse          bool

	response    ResponseProvider
	bell        BellProvider
	title       TitleProvider
	clipboard   ClipboardProvider
	diagnostics DiagnosticsSink
	scrollHook  ScrollProvider

	trace *RenderTrace
}

// Option configures a Terminal at construction time, matching the
// teacher's functional-options pattern.
type Option func(*Terminal)

func WithSize(cols, rows int) Option {
	return func(t *Terminal) { t.board = NewBoard(cols, rows, t.board.scrollbackMax) }
}
func WithScrollback(n int) Option {
	return func(t *Terminal) { t.board.scrollbackMax = n }
}
func WithResponse(p ResponseProvider) Option    { return func(t *Terminal) { t.response = p } }
func WithBell(p BellProvider) Option            { return func(t *Terminal) { t.bell = p } }
func WithTitle(p TitleProvider) Option          { return func(t *Terminal) { t.title = p } }
func WithClipboard(p ClipboardProvider) Option  { return func(t *Terminal) { t.clipboard = p } }
func WithDiagnostics(p DiagnosticsSink) Option  { return func(t *Terminal) { t.diagnostics = p } }
func WithScrollHook(p ScrollProvider) Option    { return func(t *Terminal) { t.scrollHook = p } }
func WithDecoderConfig(cfg Config) Option {
	return func(t *Terminal) { t.decoder.cfg = cfg }
}

// New returns a ready Terminal, defaulting to an 80x24 screen with a
// 1000-line scrollback and Noop providers.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		board:       NewBoard(80, 24, 1000),
		palette:     NewPalette(),
		modes:       defaultModeState(),
		response:    NoopResponseProvider{},
		bell:        NoopBellProvider{},
		title:       NoopTitleProvider{},
		clipboard:   NoopClipboardProvider{},
		diagnostics: NoopDiagnosticsSink{},
		scrollHook:  NoopScrollProvider{},
	}
	t.decoder = NewDecoder(t, nil, DefaultConfig())
	for _, o := range opts {
		o(t)
	}
	t.board.palette = t.palette
	t.trace = newRenderTrace(t.board)
	return t
}

func (t *Terminal) Board() *Board { return t.board }
func (t *Terminal) Trace() *RenderTrace { return t.trace }

// Write feeds raw PTY output bytes through the decoder, which calls back
// into HandleEvent synchronously.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.decoder.Write(p)
	t.decoder.flushRun()
	return n, err
}

func (t *Terminal) WriteString(s string) (int, error) { return t.Write([]byte(s)) }

// Resize changes the screen size.
func (t *Terminal) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.board.Resize(cols, rows)
}

// HandleEvent implements Handler, dispatching a decoded Event to the
// board.
func (t *Terminal) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventPlainChar:
		t.writeChar(ev.Char)
	case EventRun:
		for _, r := range ev.Run {
			t.writeChar(r)
		}
	case EventC0:
		t.handleC0(ev.Char)
	case EventEscSeq:
		t.handleEscSeq(ev)
	case EventCsiSeq:
		t.handleCSI(ev)
	case EventCmdString:
		t.handleCmdString(ev)
	case EventCharString:
		// SOS strings have no defined terminal behavior; surfaced only
		// for diagnostics (spec.md Non-goals).
		t.diagnostics.UnsupportedSequence("charstring", nil, ev.StrType, nil)
	case EventInvalid:
		t.diagnostics.InvalidSequence(ev.Partial)
	}
}

func (t *Terminal) fillAttr() uint32 {
	return t.board.Attrs().Intern(t.pendingAttr)
}

// writeChar places one decoded character at the cursor, handling
// autowrap/xenl, wide glyphs (a trailing wide-extension cell), and
// insert mode (spec.md §5's character-insertion algorithm).
func (t *Terminal) writeChar(r rune) {
	b := t.board
	w := runeWidth(r)
	if w == 0 {
		// Zero-width: merge as a cluster extension onto the previous
		// cell rather than consuming a column (spec.md §4.2 promotion
		// trigger).
		t.writeClusterExtension(r)
		return
	}

	c := b.Cursor()
	if c.XEnL && t.modes.autoWrap {
		t.lineFeed(true)
		c = b.Cursor()
		c.X = b.left
		c.XEnL = false
	}

	attr := t.fillAttr()
	cell := Cell{Char: CodePoint(r) & codePointMask, AttrHandle: attr, Width: Width(w)}
	cells := []Cell{cell}
	if w == 2 {
		cells = append(cells, Cell{Char: CodePoint(r).WithWideExtension(), AttrHandle: attr, Width: 0})
	}

	line := b.Line(c.Y)
	if line == nil {
		return
	}
	if t.modes.insertMode {
		line.InsertBlanks(c.X, w, b.Attrs(), attr)
	}
	line.WriteCells(c.X, cells, b.Attrs(), attr)

	c.X += w
	if c.X > b.right {
		c.X = b.right
		c.XEnL = true
	}
	c.Attr = attr
	b.SetCursor(c)
}

func (t *Terminal) writeClusterExtension(r rune) {
	b := t.board
	c := b.Cursor()
	// The previous character ends at the cursor column, or one column
	// further while a deferred wrap is pending.
	x := c.X
	if c.XEnL {
		x++
	}
	line := b.Line(c.Y)
	if line == nil {
		return
	}
	line.Promote()
	attr := t.fillAttr()
	ext := Cell{Char: CodePoint(r) | flagClusterExtension, AttrHandle: attr, Width: 0}
	line.WriteCells(x, []Cell{ext}, b.Attrs(), attr)
}

// handleC0 dispatches the bare C0 control set (spec.md §5).
func (t *Terminal) handleC0(r rune) {
	b := t.board
	c := b.Cursor()
	switch r {
	case 0x07: // BEL
		t.bell.Bell()
	case 0x08: // BS
		if c.X > b.left {
			c.X--
			c.XEnL = false
			b.SetCursor(c)
		}
	case 0x09: // HT
		c.X = b.NextTabStop(c.X)
		c.XEnL = false
		b.SetCursor(c)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		t.lineFeed(t.modes.newlineMode)
	case 0x0D: // CR
		c.X = b.left
		c.XEnL = false
		b.SetCursor(c)
	}
}

// lineFeed advances the cursor one row, scrolling the region if needed,
// and returns to the left margin when withCR is true (LNM / NEL).
func (t *Terminal) lineFeed(withCR bool) {
	b := t.board
	c := b.Cursor()
	if c.Y == b.bottom {
		b.ScrollUp(1, t.fillAttr())
		t.scrollHook.Scrolled(1)
	} else if c.Y < b.height-1 {
		c.Y++
	}
	c.XEnL = false
	if withCR {
		c.X = b.left
	}
	b.SetCursor(c)
}

func (t *Terminal) reverseLineFeed() {
	b := t.board
	c := b.Cursor()
	if c.Y == b.top {
		b.ScrollDown(1, t.fillAttr())
	} else if c.Y > 0 {
		c.Y--
	}
	c.XEnL = false
	b.SetCursor(c)
}

func (t *Terminal) moveCursorTo(x, y int) {
	b := t.board
	c := b.Cursor()
	top, bottom := b.top, b.bottom
	if t.modes.originMode {
		y += top
		if y > bottom {
			y = bottom
		}
	} else if y >= b.height {
		y = b.height - 1
	}
	if x > b.width-1 {
		x = b.width - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	c.X, c.Y, c.XEnL = x, y, false
	b.SetCursor(c)
}

func (t *Terminal) saveCursor() {
	gl, gr, slots := t.decoder.iso2022.snapshot()
	t.board.SaveCursor(gl, gr, slots)
}

func (t *Terminal) restoreCursor() {
	s, ok := t.board.RestoreCursor()
	if !ok {
		return
	}
	t.decoder.iso2022.restore(s.GL, s.GR, s.Slots)
	t.pendingAttr = t.board.Attrs().Resolve(s.Attr)
}

// eraseAll clears the whole active screen (used by DECCOLM per legacy
// behavior and by ED 2/3).
func (t *Terminal) eraseAll() {
	b := t.board
	fill := t.fillAttr()
	for y := 0; y < b.height; y++ {
		b.Line(y).Erase(0, b.width, fill, b.Attrs(), false)
	}
}
