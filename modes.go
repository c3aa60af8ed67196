package termboard

// ModeID names one settable mode, tagged with which table (ANSI SM/RM or
// DEC private ?SM/?RM) it belongs to, since the two share numbering
// (spec.md §9 open question: DECRQM must answer according to the table
// the query named, never conflate the two).
type ModeID struct {
	Private bool
	Number  int
}

const (
	modeIRM  = 4  // ANSI: insert/replace
	modeSRM  = 12 // ANSI: send/receive (local echo)
	modeLNM  = 20 // ANSI: linefeed/newline

	modeDECCKM   = 1
	modeDECCOLM  = 3
	modeDECSCNM  = 5
	modeDECOM    = 6
	modeDECAWM   = 7
	modeDECARM   = 8
	modeDECTCEM  = 25
	modeDECLRMM  = 69
	modeMouseX10 = 9
	modeMouseVT200 = 1000
	modeMouseBtn   = 1002
	modeMouseAny   = 1003
	modeMouseUTF8  = 1005
	modeMouseSGR   = 1006
	modeMouseURXVT = 1015
	modeAltScreen1047 = 1047
	modeSaveCursor1048 = 1048
	modeAltScreen1049 = 1049
	modeBracketedPaste = 2004
)

// modeState holds every mode bit the executor cares about. Modes not
// listed here are ignored by setMode and answered 0 ("not recognised")
// by DECRQM (spec.md Non-goals).
type modeState struct {
	insertMode    bool // IRM
	localEcho     bool // SRM
	newlineMode   bool // LNM

	appCursorKeys bool // DECCKM
	col132        bool // DECCOLM
	reverseVideo  bool // DECSCNM
	originMode    bool // DECOM
	autoWrap      bool // DECAWM
	autoRepeat    bool // DECARM
	cursorVisible bool // DECTCEM
	lrMarginMode  bool // DECLRMM

	mouseX10    bool
	mouseVT200  bool
	mouseBtn    bool
	mouseAny    bool
	mouseUTF8   bool
	mouseSGR    bool
	mouseURXVT  bool

	altScreen       bool
	bracketedPaste  bool
}

func defaultModeState() modeState {
	return modeState{autoWrap: true, cursorVisible: true}
}

// setMode applies SM/RM (private=false) or DECSET/DECRST (private=true)
// for one mode number, returning false if the number is unrecognised
// (still a legal no-op per ECMA-48).
func (t *Terminal) setMode(private bool, n int, enable bool) bool {
	m := &t.modes
	if !private {
		switch n {
		case modeIRM:
			m.insertMode = enable
		case modeSRM:
			m.localEcho = enable
		case modeLNM:
			m.newlineMode = enable
		default:
			return false
		}
		return true
	}

	switch n {
	case modeDECCKM:
		m.appCursorKeys = enable
	case modeDECCOLM:
		m.col132 = enable
		width := 80
		if enable {
			width = 132
		}
		t.board.Resize(width, t.board.Height())
		t.eraseAll()
	case modeDECSCNM:
		m.reverseVideo = enable
	case modeDECOM:
		m.originMode = enable
		t.board.SetOriginMode(enable)
		t.moveCursorTo(0, 0)
	case modeDECAWM:
		m.autoWrap = enable
		t.board.SetAutoWrap(enable)
	case modeDECARM:
		m.autoRepeat = enable
	case modeDECTCEM:
		m.cursorVisible = enable
		c := t.board.Cursor()
		c.Visible = enable
		t.board.SetCursor(c)
	case modeDECLRMM:
		m.lrMarginMode = enable
		if !enable {
			t.board.SetLRMargins(0, t.board.Width()-1)
		}
	case modeMouseX10:
		m.mouseX10 = enable
	case modeMouseVT200:
		m.mouseVT200 = enable
	case modeMouseBtn:
		m.mouseBtn = enable
	case modeMouseAny:
		m.mouseAny = enable
	case modeMouseUTF8:
		m.mouseUTF8 = enable
	case modeMouseSGR:
		m.mouseSGR = enable
	case modeMouseURXVT:
		m.mouseURXVT = enable
	case modeAltScreen1047:
		t.setAltScreen(enable, false)
	case modeSaveCursor1048:
		if enable {
			t.saveCursor()
		} else {
			t.restoreCursor()
		}
	case modeAltScreen1049:
		if enable {
			t.saveCursor()
		}
		t.setAltScreen(enable, enable)
		if !enable {
			t.restoreCursor()
		}
	case modeBracketedPaste:
		m.bracketedPaste = enable
	default:
		return false
	}
	return true
}

func (t *Terminal) setAltScreen(enable, clear bool) {
	if enable {
		t.board.EnterAltScreen(clear)
	} else {
		t.board.ExitAltScreen()
	}
	t.modes.altScreen = enable
}

// queryMode reports a DECRQM-style tri-state: 0 = not recognised, 1 =
// set, 2 = reset.
func (t *Terminal) queryMode(private bool, n int) int {
	m := t.modes
	val := func(b bool) int {
		if b {
			return 1
		}
		return 2
	}
	if !private {
		switch n {
		case modeIRM:
			return val(m.insertMode)
		case modeSRM:
			return val(m.localEcho)
		case modeLNM:
			return val(m.newlineMode)
		}
		return 0
	}
	switch n {
	case modeDECCKM:
		return val(m.appCursorKeys)
	case modeDECCOLM:
		return val(m.col132)
	case modeDECSCNM:
		return val(m.reverseVideo)
	case modeDECOM:
		return val(m.originMode)
	case modeDECAWM:
		return val(m.autoWrap)
	case modeDECARM:
		return val(m.autoRepeat)
	case modeDECTCEM:
		return val(m.cursorVisible)
	case modeDECLRMM:
		return val(m.lrMarginMode)
	case modeMouseX10:
		return val(m.mouseX10)
	case modeMouseVT200:
		return val(m.mouseVT200)
	case modeMouseBtn:
		return val(m.mouseBtn)
	case modeMouseAny:
		return val(m.mouseAny)
	case modeMouseUTF8:
		return val(m.mouseUTF8)
	case modeMouseSGR:
		return val(m.mouseSGR)
	case modeMouseURXVT:
		return val(m.mouseURXVT)
	case modeAltScreen1047, modeAltScreen1049:
		return val(m.altScreen)
	case modeBracketedPaste:
		return val(m.bracketedPaste)
	}
	return 0
}
