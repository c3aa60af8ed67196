package termboard

// The provider interfaces below are the host application's hooks into
// the executor: sending data back down the PTY, ringing the bell,
// updating the window title, clipboard access, and a diagnostics sink
// for malformed input. Every provider has a Noop default so callers only
// implement what they care about (spec.md §9 "ambient stack", grounded
// on the teacher's providers.go/NoopXxx pattern).

// ResponseProvider receives bytes the executor wants written back to the
// PTY: DA/DSR/DECRQSS/DECRQM replies, and similar query answers.
type ResponseProvider interface {
	Respond(p []byte)
}

type NoopResponseProvider struct{}

func (NoopResponseProvider) Respond(p []byte) {}

// BellProvider is notified on BEL (spec.md glossary, "bell").
type BellProvider interface {
	Bell()
}

type NoopBellProvider struct{}

func (NoopBellProvider) Bell() {}

// TitleProvider receives OSC 0/1/2 window/icon title updates.
type TitleProvider interface {
	SetTitle(title string)
	SetIconName(name string)
}

type NoopTitleProvider struct{}

func (NoopTitleProvider) SetTitle(string)    {}
func (NoopTitleProvider) SetIconName(string) {}

// ClipboardProvider backs OSC 52 clipboard read/write requests.
type ClipboardProvider interface {
	ReadClipboard(selection byte) (data string, ok bool)
	WriteClipboard(selection byte, data string)
}

type NoopClipboardProvider struct{}

func (NoopClipboardProvider) ReadClipboard(byte) (string, bool) { return "", false }
func (NoopClipboardProvider) WriteClipboard(byte, string)       {}

// DiagnosticsSink is told about malformed input and unrecognised
// sequences instead of the executor silently dropping them (spec.md §7).
// There is no logging library in the teacher's dependency set, so this
// mirrors its provider pattern rather than reaching for a logging
// package the corpus never imports; see DESIGN.md.
type DiagnosticsSink interface {
	InvalidSequence(partial []byte)
	UnsupportedSequence(kind string, intermediates []byte, final byte, params []int64)
}

type NoopDiagnosticsSink struct{}

func (NoopDiagnosticsSink) InvalidSequence(partial []byte) {}
func (NoopDiagnosticsSink) UnsupportedSequence(kind string, intermediates []byte, final byte, params []int64) {
}

// ScrollProvider is told, with lines = 1, each time a line feed at the
// bottom margin scrolls the active screen up, so a host UI can adjust a
// follow-tail scrollbar (spec.md §9 supplement). Scrolls made by SU, SD
// or reverse index are not reported.
type ScrollProvider interface {
	Scrolled(lines int)
}

type NoopScrollProvider struct{}

func (NoopScrollProvider) Scrolled(int) {}
