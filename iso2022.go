package termboard

// iso2022State is the GL/GR designation sub-machine of spec.md §4.1: four
// designator slots G0-G3, a GL/GR shift state, a pending single shift,
// and the accumulator for a multi-byte (94^n/96^n) character in
// progress.
type iso2022State struct {
	registry *CharsetRegistry
	slots    [4]*charsetDef
	gl       int // index into slots currently active for GL (0x20-0x7F)
	gr       int // index into slots currently active for GR (0xA0-0xFF)
	single   int // 0 = none pending, else 2 or 3 (next char only)
	mbAcc    []uint32
	mbDef    *charsetDef
}

func newISO2022State(registry *CharsetRegistry) iso2022State {
	s := iso2022State{registry: registry, gl: 0, gr: 1}
	ascii, _ := registry.Resolve(nil, 'B')
	s.slots[0] = ascii
	lat1, _ := registry.Resolve(nil, 'A')
	s.slots[1] = lat1
	return s
}

// trivial reports whether the fast path applies: GL is plain ASCII, GR is
// Latin-1 (i.e. pass-through for any Unicode scalar), and no single shift
// is pending. When true, Decoder.stepGround can batch plain characters
// without consulting ISO-2022 state at all.
func (s *iso2022State) trivial() bool {
	if s.single != 0 {
		return false
	}
	if s.slots[s.gl] == nil || s.slots[s.gl].id != CharsetASCII {
		return false
	}
	if s.slots[s.gr] == nil || s.slots[s.gr].id != CharsetLatin1Right {
		return false
	}
	return true
}

func (s *iso2022State) shiftOut() { s.gl = 1 }
func (s *iso2022State) shiftIn()  { s.gl = 0 }
func (s *iso2022State) singleShift(n int) {
	s.single = n
}

// slotIndexFor maps a designator's slot-selector intermediate byte to a
// G0-G3 index, per ECMA-35: ( ) * + select 94-sets into G0-G3; - . /
// select 96-sets into G1-G3 (there is no 96-set G0).
func slotIndexFor(selector byte) (idx int, ok bool) {
	switch selector {
	case '(':
		return 0, true
	case ')', '-':
		return 1, true
	case '*', '.':
		return 2, true
	case '+', '/':
		return 3, true
	}
	return 0, false
}

// designate resolves and installs a charset designated by an ESC
// sequence's intermediates and final byte.
func (s *iso2022State) designate(intermediates []byte, final byte) {
	var selector byte
	var rest []byte
	for _, b := range intermediates {
		if _, ok := slotIndexFor(b); ok && selector == 0 {
			selector = b
			continue
		}
		rest = append(rest, b)
	}
	if selector == 0 {
		return
	}
	idx, ok := slotIndexFor(selector)
	if !ok {
		return
	}
	def, found := s.registry.Resolve(rest, final)
	if !found {
		return // unrecognised designator: slot left unchanged, nothing reported
	}
	s.slots[idx] = def
}

// currentSlot returns the charsetDef that should interpret r, honouring a
// pending single shift and the GL/GR window r falls into. A nil return
// (or an ASCII/Latin-1-right def) means "pass r through as Unicode".
func (s *iso2022State) currentSlot(r rune) *charsetDef {
	if s.single != 0 {
		def := s.slots[s.single]
		return def
	}
	switch {
	case r >= 0x20 && r <= 0x7F:
		return s.slots[s.gl]
	case r >= 0xA0 && r <= 0xFF:
		return s.slots[s.gr]
	}
	return nil
}

func (s *iso2022State) consumeSingleShift() {
	s.single = 0
}

// snapshot and restore support DECSC/DECRC (spec.md §5): only the
// designations and shift state travel with the saved cursor, never the
// registry itself.
func (s *iso2022State) snapshot() (gl, gr int, slots [4]*charsetDef) {
	return s.gl, s.gr, s.slots
}

func (s *iso2022State) restore(gl, gr int, slots [4]*charsetDef) {
	s.gl, s.gr, s.slots = gl, gr, slots
}

// processISO2022Graphic handles one graphic code point through the
// ISO-2022 layer: single-byte lookup, multi-byte accumulation, or
// straight Unicode pass-through. See spec.md §4.1.
func (d *Decoder) processISO2022Graphic(r rune) {
	def := d.iso2022.currentSlot(r)
	if def == nil || def.id == CharsetASCII || def.id == CharsetLatin1Right {
		d.iso2022.consumeSingleShift()
		d.emitPlainChar(r)
		return
	}

	index := uint32(r) & 0x7F

	if !def.set96 {
		if r == 0x7F { // DEL ignored mid-set, no flush
			return
		}
		if r == 0x20 && (len(d.iso2022.mbAcc) > 0 || def.bytes > 1) {
			d.iso2022.mbAcc = nil
			d.iso2022.mbDef = nil
			d.iso2022.consumeSingleShift()
			d.emitPlainChar(0xFFFD)
			return
		}
	}

	if def.bytes <= 1 {
		d.iso2022.consumeSingleShift()
		if cp, ok := def.lookup(index); ok {
			d.emitPlainChar(cp)
		} else {
			d.emitPlainChar(0xFFFD)
		}
		return
	}

	if d.iso2022.mbDef != def {
		d.iso2022.mbAcc = nil
		d.iso2022.mbDef = def
	}
	d.iso2022.mbAcc = append(d.iso2022.mbAcc, index)
	if len(d.iso2022.mbAcc) < def.bytes {
		return
	}

	var composite uint32
	for _, b := range d.iso2022.mbAcc {
		composite = composite*96 + b
	}
	d.iso2022.mbAcc = nil
	d.iso2022.mbDef = nil
	d.iso2022.consumeSingleShift()
	if cp, ok := def.lookup(composite); ok {
		d.emitPlainChar(cp)
	} else {
		d.emitPlainChar(0xFFFD)
	}
}

func (d *Decoder) emitPlainChar(r rune) {
	d.runBuf = append(d.runBuf, r)
	d.flushRun()
}
