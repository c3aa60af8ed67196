package termboard

import (
	"fmt"
	"strconv"
	"strings"
)

func p1(params []int64, idx int, def int64) int {
	if idx >= len(params) || params[idx] < 0 {
		return int(def)
	}
	return int(params[idx])
}

// handleCSI dispatches one decoded CSI event by (intermediates, final),
// the executor's primary command surface (spec.md §5).
func (t *Terminal) handleCSI(ev Event) {
	b := t.board
	c := b.Cursor()
	n := p1(ev.Params, 0, 1)
	if n == 0 {
		n = 1
	}

	if ev.IsPrivate {
		t.handlePrivateCSI(ev)
		return
	}

	switch string(ev.Intermediates) + string(ev.Final) {
	case "A": // CUU
		c.Y -= n
		if c.Y < b.top {
			c.Y = b.top
		}
		c.XEnL = false
		b.SetCursor(c)
	case "B", "e": // CUD, VPR
		c.Y += n
		if c.Y > b.bottom {
			c.Y = b.bottom
		}
		c.XEnL = false
		b.SetCursor(c)
	case "C", "a": // CUF, HPR
		c.X += n
		if c.X > b.right {
			c.X = b.right
		}
		c.XEnL = false
		b.SetCursor(c)
	case "D": // CUB
		c.X -= n
		if c.X < b.left {
			c.X = b.left
		}
		c.XEnL = false
		b.SetCursor(c)
	case "E": // CNL
		c.Y += n
		c.X = b.left
		b.SetCursor(c)
	case "F": // CPL
		c.Y -= n
		c.X = b.left
		b.SetCursor(c)
	case "G", "`": // CHA, HPA
		t.moveCursorTo(p1(ev.Params, 0, 1)-1, c.Y)
	case "H", "f": // CUP, HVP
		row := p1(ev.Params, 0, 1) - 1
		col := p1(ev.Params, 1, 1) - 1
		t.moveCursorTo(col, row)
	case "I": // CHT
		x := c.X
		for i := 0; i < n; i++ {
			x = b.NextTabStop(x)
		}
		c.X = x
		b.SetCursor(c)
	case "J": // ED
		t.eraseInDisplay(p1(ev.Params, 0, 0))
	case "K": // EL
		t.eraseInLine(p1(ev.Params, 0, 0))
	case "L": // IL
		b.InsertLines(c.Y, n, t.fillAttr())
	case "M": // DL
		b.DeleteLines(c.Y, n, t.fillAttr())
	case "P": // DCH
		b.Line(c.Y).DeleteCells(c.X, n, b.Attrs(), t.fillAttr())
	case "S": // SU
		b.ScrollUp(n, t.fillAttr())
	case "T": // SD
		b.ScrollDown(n, t.fillAttr())
	case "X": // ECH
		b.Line(c.Y).Erase(c.X, c.X+n, t.fillAttr(), b.Attrs(), false)
	case "Z": // CBT
		x := c.X
		for i := 0; i < n; i++ {
			x = b.PrevTabStop(x)
		}
		c.X = x
		b.SetCursor(c)
	case "d": // VPA
		t.moveCursorTo(c.X, p1(ev.Params, 0, 1)-1)
	case "g": // TBC
		switch p1(ev.Params, 0, 0) {
		case 0:
			b.ClearTabStop(c.X)
		case 3:
			b.ClearAllTabStops()
		}
	case "@": // ICH
		b.Line(c.Y).InsertBlanks(c.X, n, b.Attrs(), t.fillAttr())
	case "m": // SGR
		t.pendingAttr = applySGR(t.pendingAttr, ev.Params)
	case "n": // DSR
		t.deviceStatusReport(p1(ev.Params, 0, 0))
	case "r": // DECSTBM
		top := p1(ev.Params, 0, 1) - 1
		bottom := p1(ev.Params, 1, b.height) - 1
		b.SetMargins(top, bottom)
		t.moveCursorTo(0, 0)
	case "s": // DECSLRM when DECLRMM is on; otherwise legacy save-cursor
		if t.modes.lrMarginMode {
			left := p1(ev.Params, 0, 1) - 1
			right := p1(ev.Params, 1, b.width) - 1
			b.SetLRMargins(left, right)
		} else {
			t.saveCursor()
		}
	case "u": // legacy restore-cursor
		t.restoreCursor()
	case "c": // DA
		t.response.Respond([]byte("\x1b[?62;1;6c"))
	case " q": // DECSCUSR, cursor style -- not modeled beyond acceptance
	case "$p": // DECRQM reply handled via its own intermediates below
	}

	switch {
	case len(ev.Intermediates) == 1 && ev.Intermediates[0] == '$' && ev.Final == 'p':
		t.decrqm(ev)
	case len(ev.Intermediates) == 1 && ev.Intermediates[0] == '$' && ev.Final == 'r':
		t.decrqss(ev)
	}
}

func (t *Terminal) handlePrivateCSI(ev Event) {
	b := t.board
	switch ev.Final {
	case 'h', 'l':
		enable := ev.Final == 'h'
		for _, p := range ev.Params {
			if p < 0 {
				continue
			}
			t.setMode(true, int(p), enable)
		}
	case 'p':
		if len(ev.Intermediates) == 1 && ev.Intermediates[0] == '$' {
			t.decrqm(ev)
		}
	case 'J': // DECSED
		t.eraseInDisplay(p1(ev.Params, 0, 0))
	case 'K': // DECSEL
		t.eraseInLine(p1(ev.Params, 0, 0))
	case 'c': // secondary/tertiary DA
		t.response.Respond([]byte("\x1b[>0;10;0c"))
	case 'n':
		if p1(ev.Params, 0, 0) == 6 {
			c := b.Cursor()
			t.response.Respond([]byte(fmt.Sprintf("\x1b[?%d;%dR", c.Y+1, c.X+1)))
		}
	}
}

func (t *Terminal) eraseInDisplay(mode int) {
	b := t.board
	c := b.Cursor()
	fill := t.fillAttr()
	switch mode {
	case 0:
		b.Line(c.Y).Erase(c.X, b.width, fill, b.Attrs(), false)
		for y := c.Y + 1; y < b.height; y++ {
			b.Line(y).Erase(0, b.width, fill, b.Attrs(), false)
		}
	case 1:
		for y := 0; y < c.Y; y++ {
			b.Line(y).Erase(0, b.width, fill, b.Attrs(), false)
		}
		b.Line(c.Y).Erase(0, c.X+1, fill, b.Attrs(), false)
	case 2, 3:
		t.eraseAll()
	}
}

func (t *Terminal) eraseInLine(mode int) {
	b := t.board
	c := b.Cursor()
	line := b.Line(c.Y)
	fill := t.fillAttr()
	switch mode {
	case 0:
		line.Erase(c.X, b.width, fill, b.Attrs(), false)
	case 1:
		line.Erase(0, c.X+1, fill, b.Attrs(), false)
	case 2:
		line.Erase(0, b.width, fill, b.Attrs(), false)
	}
}

func (t *Terminal) deviceStatusReport(n int) {
	switch n {
	case 5:
		t.response.Respond([]byte("\x1b[0n"))
	case 6:
		c := t.board.Cursor()
		t.response.Respond([]byte(fmt.Sprintf("\x1b[%d;%dR", c.Y+1, c.X+1)))
	}
}

// decrqm answers "CSI ? Ps $ p" / "CSI Ps $ p" (DECRQM), reporting the
// mode's state in the SAME table (ANSI vs DEC) the query used, per
// spec.md §9's open question.
func (t *Terminal) decrqm(ev Event) {
	n := p1(ev.Params, 0, 0)
	state := t.queryMode(ev.IsPrivate, n)
	prefix := ""
	if ev.IsPrivate {
		prefix = "?"
	}
	t.response.Respond([]byte(fmt.Sprintf("\x1b[%s%d;%d$y", prefix, n, state)))
}

// decrqss answers the rare CSI-shaped DECRQSS form some emulators accept,
// always with the "invalid request" reply. "DCS $ q <name> ST" requests
// arriving as a CmdString are answered by handleDCS.
func (t *Terminal) decrqss(ev Event) {
	t.response.Respond([]byte("\x1bP0$r\x1b\\"))
}

func (t *Terminal) handleEscSeq(ev Event) {
	b := t.board
	switch ev.Final {
	case 'D': // IND
		t.lineFeed(false)
	case 'E': // NEL
		t.lineFeed(true)
	case 'H': // HTS
		c := b.Cursor()
		b.SetTabStop(c.X)
	case 'M': // RI
		t.reverseLineFeed()
	case '7': // DECSC
		t.saveCursor()
	case '8': // DECRC
		t.restoreCursor()
	case 'c': // RIS
		t.reset()
	case '=': // DECKPAM, no distinct keypad state modeled beyond input.go
	case '>': // DECKPNM
	}
}

// reset restores power-on defaults (RIS).
func (t *Terminal) reset() {
	w, h := t.board.width, t.board.height
	t.board = NewBoard(w, h, t.board.scrollbackMax)
	t.modes = defaultModeState()
	t.pendingAttr = Attribute{}
	t.decoder.iso2022 = newISO2022State(t.decoder.charsets)
}

// handleCmdString dispatches DCS/OSC/PM/APC strings. OSC carries title,
// clipboard, and palette requests; DCS carries DECRQSS.
func (t *Terminal) handleCmdString(ev Event) {
	switch ev.StrType {
	case StrOSC:
		t.handleOSC(string(ev.Payload))
	case StrDCS:
		t.handleDCS(ev.Payload)
	default:
		t.diagnostics.UnsupportedSequence("cmdstring", nil, ev.StrType, nil)
	}
}

func (t *Terminal) handleOSC(payload string) {
	parts := strings.SplitN(payload, ";", 2)
	code, err := strconv.Atoi(parts[0])
	if err != nil || len(parts) < 2 {
		return
	}
	arg := parts[1]
	switch code {
	case 0:
		t.title.SetTitle(arg)
		t.title.SetIconName(arg)
	case 1:
		t.title.SetIconName(arg)
	case 2:
		t.title.SetTitle(arg)
	case 4:
		t.handleOSC4Palette(arg)
	case 52:
		t.handleOSC52(arg)
	}
}

func (t *Terminal) handleOSC4Palette(arg string) {
	fields := strings.Split(arg, ";")
	for i := 0; i+1 < len(fields); i += 2 {
		idx, err := strconv.Atoi(fields[i])
		if err != nil || idx < 0 || idx > 255 {
			continue
		}
		if rgb, ok := parseXParseColor(fields[i+1]); ok {
			t.palette.Set(uint32(idx), rgb)
		}
	}
}

// parseXParseColor understands the "rgb:RR/GG/BB" form OSC 4/10/11 use.
func parseXParseColor(s string) (uint32, bool) {
	s = strings.TrimPrefix(s, "rgb:")
	comps := strings.Split(s, "/")
	if len(comps) != 3 {
		return 0, false
	}
	var vals [3]uint8
	for i, c := range comps {
		if len(c) > 2 {
			c = c[:2]
		}
		n, err := strconv.ParseUint(c, 16, 8)
		if err != nil {
			return 0, false
		}
		vals[i] = uint8(n)
	}
	return RGB(vals[0], vals[1], vals[2]), true
}

func (t *Terminal) handleOSC52(arg string) {
	parts := strings.SplitN(arg, ";", 2)
	if len(parts) != 2 || len(parts[0]) == 0 {
		return
	}
	selection := parts[0][0]
	if parts[1] == "?" {
		if data, ok := t.clipboard.ReadClipboard(selection); ok {
			t.response.Respond([]byte(fmt.Sprintf("\x1b]52;%c;%s\x07", selection, data)))
		}
		return
	}
	t.clipboard.WriteClipboard(selection, parts[1])
}

// handleDCS answers DECRQSS ("$q") requests; anything else is reported
// as unsupported (DECRQSS covers SGR/DECSTBM/margins only here).
func (t *Terminal) handleDCS(payload []byte) {
	s := string(payload)
	if !strings.HasPrefix(s, "$q") {
		t.diagnostics.UnsupportedSequence("dcs", nil, StrDCS, nil)
		return
	}
	switch strings.TrimPrefix(s, "$q") {
	case "m":
		t.response.Respond([]byte("\x1bP1$r0m\x1b\\"))
	case "r":
		b := t.board
		t.response.Respond([]byte(fmt.Sprintf("\x1bP1$r%d;%dr\x1b\\", b.top+1, b.bottom+1)))
	default:
		t.response.Respond([]byte("\x1bP0$r\x1b\\"))
	}
}
