package termboard

import "testing"

type recordingHandler struct {
	events []Event
}

func (h *recordingHandler) HandleEvent(ev Event) { h.events = append(h.events, ev) }

func TestDecoderBatchesPlainRun(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("hello"))
	d.Flush()

	if len(h.events) != 1 || h.events[0].Kind != EventRun {
		t.Fatalf("expected a single batched run event, got %+v", h.events)
	}
	if string(h.events[0].Run) != "hello" {
		t.Errorf("got run %q", string(h.events[0].Run))
	}
}

func TestDecoderSingleCharIsPlainChar(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("x"))
	d.Flush()
	if len(h.events) != 1 || h.events[0].Kind != EventPlainChar || h.events[0].Char != 'x' {
		t.Fatalf("expected a single PlainChar event, got %+v", h.events)
	}
}

func TestDecoderSplitUTF8AcrossWrites(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	// U+00E9 (é) encoded as 0xC3 0xA9, split across two Write calls.
	d.Write([]byte{0xC3})
	d.Write([]byte{0xA9})
	d.Flush()
	if len(h.events) != 1 || h.events[0].Kind != EventPlainChar || h.events[0].Char != 'é' {
		t.Fatalf("expected é to survive a split write, got %+v", h.events)
	}
}

func TestDecoderCSIParams(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("\x1b[1;31m"))
	if len(h.events) != 1 {
		t.Fatalf("expected one CSI event, got %d", len(h.events))
	}
	ev := h.events[0]
	if ev.Kind != EventCsiSeq || ev.Final != 'm' {
		t.Fatalf("expected SGR CSI event, got %+v", ev)
	}
	if len(ev.Params) != 2 || ev.Params[0] != 1 || ev.Params[1] != 31 {
		t.Errorf("expected params [1 31], got %v", ev.Params)
	}
}

func TestDecoderCSIDefaultParam(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("\x1b[m"))
	ev := h.events[0]
	if len(ev.Params) != 1 || ev.Params[0] != -1 {
		t.Errorf("expected a single default (-1) param, got %v", ev.Params)
	}
}

func TestDecoderPrivateCSIMarker(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("\x1b[?25h"))
	ev := h.events[0]
	if !ev.IsPrivate || ev.PrivateMarker != '?' {
		t.Fatalf("expected private CSI with '?' marker, got %+v", ev)
	}
	if ev.Final != 'h' || len(ev.Params) != 1 || ev.Params[0] != 25 {
		t.Errorf("unexpected decoded params: %+v", ev)
	}
}

func TestDecoderOSCTerminatedByST(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("\x1b]0;title\x1b\\"))
	if len(h.events) != 1 || h.events[0].Kind != EventCmdString {
		t.Fatalf("expected one CmdString event, got %+v", h.events)
	}
	if string(h.events[0].Payload) != "0;title" {
		t.Errorf("got payload %q", h.events[0].Payload)
	}
}

func TestDecoderOSCTerminatedByBEL(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("\x1b]0;title\x07"))
	if len(h.events) != 1 || h.events[0].Kind != EventCmdString {
		t.Fatalf("expected BEL-terminated OSC to finish the string, got %+v", h.events)
	}
}

func TestDecoderInvalidEscapeReported(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("\x1b\x01"))
	if len(h.events) == 0 || h.events[0].Kind != EventInvalid {
		t.Fatalf("expected an Invalid event for a stray control inside ESC, got %+v", h.events)
	}
}

func TestDecoderISO2022DesignationAndShift(t *testing.T) {
	h := &recordingHandler{}
	d := NewDecoder(h, nil, DefaultConfig())
	d.Write([]byte("\x1b(0")) // designate DEC Special Graphics into G0
	d.Write([]byte("q"))      // 'q' in DEC Special Graphics is '─'
	d.Flush()
	if len(h.events) != 1 || h.events[0].Kind != EventPlainChar || h.events[0].Char != '─' {
		t.Fatalf("expected '─' via DEC Special Graphics, got %+v", h.events)
	}
}
