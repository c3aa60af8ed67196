package termboard

import "testing"

func TestNewBoardDimensions(t *testing.T) {
	b := NewBoard(80, 24, 100)
	if b.Width() != 80 || b.Height() != 24 {
		t.Fatalf("expected 80x24, got %dx%d", b.Width(), b.Height())
	}
	top, bottom, left, right := b.Margins()
	if top != 0 || bottom != 23 || left != 0 || right != 79 {
		t.Errorf("expected full-screen default margins, got %d,%d,%d,%d", top, bottom, left, right)
	}
}

func TestScrollUpPushesScrollback(t *testing.T) {
	b := NewBoard(10, 3, 5)
	b.Line(0).WriteCells(0, cellsOf("row0------")[:10], nil, 0)
	b.ScrollUp(1, 0)
	if len(b.Scrollback()) != 1 {
		t.Fatalf("expected one scrollback line, got %d", len(b.Scrollback()))
	}
	if got := b.Scrollback()[0].ExtractSelection(0, 4); got != "row0" {
		t.Errorf("expected scrolled line to read \"row0\", got %q", got)
	}
}

func TestScrollbackBounded(t *testing.T) {
	b := NewBoard(5, 2, 3)
	for i := 0; i < 10; i++ {
		b.ScrollUp(1, 0)
	}
	if len(b.Scrollback()) != 3 {
		t.Errorf("expected scrollback capped at 3, got %d", len(b.Scrollback()))
	}
}

func TestAltScreenDoesNotTouchScrollback(t *testing.T) {
	b := NewBoard(5, 2, 3)
	b.EnterAltScreen(true)
	b.ScrollUp(1, 0)
	if len(b.Scrollback()) != 0 {
		t.Errorf("expected no scrollback entries while in the alt screen, got %d", len(b.Scrollback()))
	}
	b.ExitAltScreen()
}

func TestSaveRestoreCursorPerScreen(t *testing.T) {
	b := NewBoard(10, 10, 0)
	b.SetCursor(Cursor{X: 3, Y: 4})
	b.SaveCursor(0, 1, [4]*charsetDef{})
	b.SetCursor(Cursor{X: 0, Y: 0})
	s, ok := b.RestoreCursor()
	if !ok || s.X != 3 || s.Y != 4 {
		t.Fatalf("expected restored cursor at (3,4), got %+v ok=%v", s, ok)
	}
}

func TestInsertDeleteLines(t *testing.T) {
	b := NewBoard(5, 4, 0)
	for y := 0; y < 4; y++ {
		b.Line(y).WriteCells(0, []Cell{{Char: CodePoint('0' + rune(y)), Width: 1}}, nil, 0)
	}
	b.InsertLines(1, 1, 0)
	if r := b.Line(2).ExtractSelection(0, 1); r != "1" {
		t.Errorf("expected row 1's content shifted to row 2, got %q", r)
	}

	b2 := NewBoard(5, 4, 0)
	for y := 0; y < 4; y++ {
		b2.Line(y).WriteCells(0, []Cell{{Char: CodePoint('0' + rune(y)), Width: 1}}, nil, 0)
	}
	b2.DeleteLines(1, 1, 0)
	if r := b2.Line(1).ExtractSelection(0, 1); r != "2" {
		t.Errorf("expected row 2's content shifted up to row 1, got %q", r)
	}
}

func TestTabStops(t *testing.T) {
	b := NewBoard(40, 5, 0)
	if got := b.NextTabStop(0); got != 8 {
		t.Errorf("expected default tab stop at column 8, got %d", got)
	}
	b.ClearTabStop(8)
	if got := b.NextTabStop(0); got != 16 {
		t.Errorf("expected next tab stop at 16 after clearing 8, got %d", got)
	}
}
