package termboard

import "testing"

func TestTerminalWritesPlainText(t *testing.T) {
	term := New(WithSize(10, 3))
	term.WriteString("hi")
	if got := term.Board().LineText(0); got[:2] != "hi" {
		t.Errorf("expected line 0 to start with \"hi\", got %q", got)
	}
	c := term.Board().Cursor()
	if c.X != 2 || c.Y != 0 {
		t.Errorf("expected cursor at (2,0), got (%d,%d)", c.X, c.Y)
	}
}

func TestTerminalCRLF(t *testing.T) {
	term := New(WithSize(10, 3))
	term.WriteString("ab\r\ncd")
	if got := term.Board().LineText(1)[:2]; got != "cd" {
		t.Errorf("expected second line to start with \"cd\", got %q", got)
	}
}

func TestTerminalCursorMovementCSI(t *testing.T) {
	term := New(WithSize(10, 3))
	term.WriteString("\x1b[2;3H") // CUP row 2 col 3 (1-based)
	c := term.Board().Cursor()
	if c.X != 2 || c.Y != 1 {
		t.Fatalf("expected cursor at (2,1), got (%d,%d)", c.X, c.Y)
	}
}

func TestTerminalSGRColor(t *testing.T) {
	term := New(WithSize(10, 3))
	term.WriteString("\x1b[31mX")
	line := term.Board().Line(0)
	attr := term.Board().Attrs().Resolve(line.Cells()[0].AttrHandle)
	if attr.AFlags.FgSpace() != ColorSpaceIndexed || attr.Fg != 1 {
		t.Errorf("expected indexed red (1), got space=%v fg=%d", attr.AFlags.FgSpace(), attr.Fg)
	}
}

func TestTerminalEraseInLine(t *testing.T) {
	term := New(WithSize(5, 1))
	term.WriteString("abcde")
	term.WriteString("\x1b[2G\x1b[K") // move to col 2, erase to end of line
	got := term.Board().LineText(0)
	if got[:1] != "a" {
		t.Errorf("expected column 0 untouched, got %q", got)
	}
}

func TestTerminalAutowrap(t *testing.T) {
	term := New(WithSize(3, 2))
	term.WriteString("abcd")
	if got := term.Board().LineText(0); got != "abc" {
		t.Errorf("expected first row \"abc\", got %q", got)
	}
	if got := term.Board().LineText(1)[:1]; got != "d" {
		t.Errorf("expected wrapped 'd' on row 1, got %q", got)
	}
}

func TestTerminalScrollsAtBottomMargin(t *testing.T) {
	term := New(WithSize(5, 2))
	term.WriteString("line1\r\nline2\r\nline3")
	if got := term.Board().LineText(1)[:5]; got != "line3" {
		t.Errorf("expected the screen to have scrolled so row 1 shows \"line3\", got %q", got)
	}
	if len(term.Board().Scrollback()) != 1 {
		t.Errorf("expected one scrollback line, got %d", len(term.Board().Scrollback()))
	}
}

func TestTerminalDECRQM(t *testing.T) {
	var got []byte
	term := New(WithSize(5, 2), WithResponse(respFunc(func(p []byte) { got = p })))
	term.WriteString("\x1b[?25$p")
	if string(got) != "\x1b[?25;1$y" {
		t.Errorf("expected DECTCEM to report set, got %q", got)
	}
}

type respFunc func([]byte)

func (f respFunc) Respond(p []byte) { f(p) }
