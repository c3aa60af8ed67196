package termboard

import "testing"

// TestMouseDuplicateMoveSuppressed reproduces the worked scenario: with
// xtMouseAll (any-motion) and SGR reporting on, a move event landing on
// the same cell as the previous one is dropped, and the next move to a
// genuinely different cell is reported normally.
func TestMouseDuplicateMoveSuppressed(t *testing.T) {
	term := New(WithSize(20, 10))
	term.WriteString("\x1b[?1003h\x1b[?1006h") // DECSET any-motion mouse + SGR encoding

	first := MouseEvent{Kind: MouseMove, Button: MouseButtonNone, X: 5, Y: 3}
	if out, ok := term.EncodeMouse(first); !ok || len(out) == 0 {
		t.Fatalf("expected the first move to be reported, got %q ok=%v", out, ok)
	}

	dup := MouseEvent{Kind: MouseMove, Button: MouseButtonNone, X: 5, Y: 3}
	if out, ok := term.EncodeMouse(dup); ok {
		t.Errorf("expected a duplicate move to the same cell to be suppressed, got %q", out)
	}

	moved := MouseEvent{Kind: MouseMove, Button: MouseButtonLeft, X: 6, Y: 3}
	out, ok := term.EncodeMouse(moved)
	if !ok {
		t.Fatal("expected a move to a new cell to be reported")
	}
	if want := "\x1b[<32;7;4M"; string(out) != want {
		t.Errorf("expected %q, got %q", want, string(out))
	}
}
