package termboard

import "fmt"

// NamedKey enumerates the non-printable keys EncodeKey understands:
// cursor keys, editing keys, and function keys, each encoded differently
// depending on DECCKM/keypad mode (spec.md §9 supplement, "input
// encoder").
type NamedKey int

const (
	KeyUp NamedKey = iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
)

// KeyEvent is a host-reported keypress to encode for the PTY.
type KeyEvent struct {
	Named       NamedKey
	IsNamed     bool
	Rune        rune // valid when !IsNamed
	Shift, Alt, Ctrl bool
}

var cursorKeyFinal = map[NamedKey]byte{
	KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D',
	KeyHome: 'H', KeyEnd: 'F',
}

var tildeKeyCode = map[NamedKey]int{
	KeyInsert: 2, KeyDelete: 3, KeyPageUp: 5, KeyPageDown: 6,
	KeyF5: 15, KeyF6: 17, KeyF7: 18, KeyF8: 19, KeyF9: 20, KeyF10: 21,
	KeyF11: 23, KeyF12: 24,
}

// ssKeyFinal are the SS3-encoded function keys F1-F4 in VT220
// "application" forms, final byte per xterm's table (cursor keys are in
// cursorKeyFinal).
var ssKeyFinal = map[NamedKey]byte{
	KeyF1: 'P', KeyF2: 'Q', KeyF3: 'R', KeyF4: 'S',
}

// modifierParam encodes Shift/Alt/Ctrl as the xterm CSI modifier
// parameter (1 = none, then +1 Shift, +2 Alt, +4 Ctrl).
func modifierParam(ev KeyEvent) int {
	m := 1
	if ev.Shift {
		m += 1
	}
	if ev.Alt {
		m += 2
	}
	if ev.Ctrl {
		m += 4
	}
	return m
}

// EncodeKey returns the byte sequence to send for ev, honouring DECCKM
// (application cursor keys) for the arrow/Home/End cluster.
func (t *Terminal) EncodeKey(ev KeyEvent) []byte {
	mod := modifierParam(ev)

	if !ev.IsNamed {
		return encodePrintable(ev)
	}

	if final, ok := cursorKeyFinal[ev.Named]; ok {
		if mod != 1 {
			return []byte(fmt.Sprintf("\x1b[1;%d%c", mod, final))
		}
		if t.modes.appCursorKeys {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}

	if final, ok := ssKeyFinal[ev.Named]; ok {
		if mod != 1 {
			return []byte(fmt.Sprintf("\x1b[1;%d%c", mod, final))
		}
		return []byte{0x1b, 'O', final}
	}

	if code, ok := tildeKeyCode[ev.Named]; ok {
		if mod != 1 {
			return []byte(fmt.Sprintf("\x1b[%d;%d~", code, mod))
		}
		return []byte(fmt.Sprintf("\x1b[%d~", code))
	}

	switch ev.Named {
	case KeyBackspace:
		if ev.Ctrl {
			return []byte{0x08}
		}
		return []byte{0x7F}
	case KeyTab:
		if ev.Shift {
			return []byte("\x1b[Z")
		}
		return []byte{0x09}
	case KeyEnter:
		return []byte{0x0D}
	case KeyEscape:
		return []byte{0x1B}
	}
	return nil
}

// encodePrintable applies Ctrl (mask to the C0 range for letters/common
// punctuation) and Alt (ESC-prefix, "meta sends escape") to a plain
// rune, the generic fallback for anything not a named key.
func encodePrintable(ev KeyEvent) []byte {
	r := ev.Rune
	var out []byte
	if ev.Ctrl {
		switch {
		case r >= 'a' && r <= 'z':
			out = []byte{byte(r - 'a' + 1)}
		case r >= 'A' && r <= 'Z':
			out = []byte{byte(r - 'A' + 1)}
		case r == '@' || (r >= '[' && r <= '_'):
			out = []byte{byte(r & 0x1F)}
		default:
			out = []byte(string(r))
		}
	} else {
		out = []byte(string(r))
	}
	if ev.Alt {
		out = append([]byte{0x1B}, out...)
	}
	return out
}

// EncodeBracketedPaste wraps text in the bracketed-paste markers if that
// mode is enabled, otherwise returns the text unchanged.
func (t *Terminal) EncodeBracketedPaste(text string) []byte {
	if !t.modes.bracketedPaste {
		return []byte(text)
	}
	out := append([]byte("\x1b[200~"), []byte(text)...)
	return append(out, []byte("\x1b[201~")...)
}
