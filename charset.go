package termboard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CharsetID identifies a registered ISO-2022 charset (spec.md §3 "ISO-2022
// non-Unicode" code points carry one of these).
type CharsetID uint16

// Well-known charsets always present in a fresh registry.
const (
	CharsetASCII CharsetID = iota + 1
	CharsetDECSpecialGraphics
	CharsetLatin1Right // ISO 8859-1 right half (96-set), designated into GR
)

// charsetDef is one registered 94/96-set or multi-byte charset.
type charsetDef struct {
	id       CharsetID
	name     string
	set96    bool
	bytes    int // 1 for SBCS, N for MBCS
	mapping  map[uint32]rune
	fallback func(index uint32) (rune, bool)
}

func (d *charsetDef) lookup(index uint32) (rune, bool) {
	if r, ok := d.mapping[index]; ok {
		if r == undefSentinel {
			return 0, false
		}
		return r, true
	}
	if d.fallback != nil {
		return d.fallback(index)
	}
	return 0, false
}

func (d *charsetDef) isUndef(index uint32) bool {
	r, ok := d.mapping[index]
	return ok && r == undefSentinel
}

const undefSentinel = rune(-1)

// CharsetRegistry resolves ISO-2022 designator sequences (final bytes,
// possibly multi-byte-prefixed) to a charsetDef, and decodes a
// base-94/96^n index within that charset to a Unicode scalar. It is
// effectively immutable after configuration load (spec.md §5): all
// mutation happens through ParseDefinitions before the registry is handed
// to a Decoder.
type CharsetRegistry struct {
	byFinal map[string]*charsetDef // designator key -> def, see designatorKey
	byID    map[CharsetID]*charsetDef
	nextID  CharsetID
}

// designatorKey builds the lookup key for a 94-set ("(", ")", "*", "+") or
// 96-set ("-", ".", "/") designation, with its optional multi-byte
// intermediates and final byte, per spec.md §4.1.
func designatorKey(intermediates []byte, final byte) string {
	return string(intermediates) + string(final)
}

// NewCharsetRegistry returns a registry preloaded with ASCII, DEC Special
// Graphics (line drawing) and Latin-1 right, the three charsets every VT
// terminal needs before any designation has been seen.
func NewCharsetRegistry() *CharsetRegistry {
	r := &CharsetRegistry{
		byFinal: make(map[string]*charsetDef),
		byID:    make(map[CharsetID]*charsetDef),
		nextID:  CharsetLatin1Right + 1,
	}

	ascii := &charsetDef{id: CharsetASCII, name: "ASCII", bytes: 1,
		fallback: func(i uint32) (rune, bool) {
			if i < 0x80 {
				return rune(i), true
			}
			return 0, false
		}}
	r.register("B", ascii)
	r.register("", ascii) // GL default before any designation

	dec := &charsetDef{id: CharsetDECSpecialGraphics, name: "DECSpecialGraphics", bytes: 1,
		mapping: decSpecialGraphicsTable()}
	r.register("0", dec)

	lat1 := &charsetDef{id: CharsetLatin1Right, name: "Latin1Right", bytes: 1, set96: true,
		fallback: func(i uint32) (rune, bool) {
			if i >= 0x20 && i < 0x80 {
				return rune(0x80 + i), true
			}
			return 0, false
		}}
	r.register("A", lat1)

	return r
}

func (r *CharsetRegistry) register(key string, d *charsetDef) {
	r.byFinal[key] = d
	r.byID[d.id] = d
}

// Resolve looks up the charset designated by the given intermediates and
// final byte. ok is false for an unrecognised designator, in which case
// the ISO-2022 state leaves the slot unchanged and nothing is reported.
func (r *CharsetRegistry) Resolve(intermediates []byte, final byte) (*charsetDef, bool) {
	d, ok := r.byFinal[designatorKey(intermediates, final)]
	return d, ok
}

// Decode maps an index within charset id to a Unicode scalar. ok is false
// when the index has no mapping (spec.md §4.1: "an invalid byte... flushes
// the partial character as U+FFFD").
func (r *CharsetRegistry) Decode(id CharsetID, index uint32) (rune, bool) {
	d, ok := r.byID[id]
	if !ok {
		return 0, false
	}
	return d.lookup(index)
}

func decSpecialGraphicsTable() map[uint32]rune {
	m := make(map[uint32]rune, 32)
	for i := uint32(0x20); i < 0x7F; i++ {
		m[i] = rune(i)
	}
	// The well-known line-drawing remapping, 0x5F-0x7E.
	remap := map[uint32]rune{
		0x5F: ' ', 0x60: '♦', 0x61: '▒', 0x62: '␉', 0x63: '␌',
		0x64: '␍', 0x65: '␊', 0x66: '°', 0x67: '±', 0x68: '␤',
		0x69: '␋', 0x6a: '┘', 0x6b: '┐', 0x6c: '┌', 0x6d: '└',
		0x6e: '┼', 0x6f: '⎺', 0x70: '⎻', 0x71: '─', 0x72: '⎼',
		0x73: '⎽', 0x74: '├', 0x75: '┤', 0x76: '┴', 0x77: '┬',
		0x78: '│', 0x79: '≤', 0x7a: '≥', 0x7b: 'π', 0x7c: '≠',
		0x7d: '£', 0x7e: '·',
	}
	for k, v := range remap {
		m[k] = v
	}
	return m
}

// --- Definition file format (spec.md §6) ---
//
// ParseDefinitions reads a line-oriented charset definition file and
// registers/augments charsets in r. Directives:
//
//	SB94(F) id name       register a 94-set single-byte charset
//	SB96(F) id name       register a 96-set single-byte charset
//	MB94(N,I...F) id name register an N-byte 94-set charset
//	MB96(N,I...F) id name register an N-byte 96-set charset
//	map <ku> <ten> <U+XXXX|<undef>>   set one code position (most
//	                                   recently declared charset)
//	map_range <ku1> <ten1> <ku2> <ten2> <U+XXXX>   fill a rectangular
//	                                   range starting at U+XXXX, advancing
//	                                   one code point per position
//	undef <ku> <ten>       mark a position as explicitly unmapped
//	define <ku> <ten> <U+XXXX>...   alias of map for one or more values
//	include <path>         parsed via the includeFn callback
//
// load/autoload/savebin/loadbin name on-disk binary tables; resolving
// them is the external collaborator's job (spec.md §6), so they are
// recognised and skipped; no callback is invoked for them.
type DefinitionError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

// ParseDefinitions parses a charset definition file's contents. includeFn
// resolves an `include <path>` directive to its contents, or returns
// (nil, false) if unsupported; it may be nil. `load`/`autoload`/
// `savebin`/`loadbin` are skipped. Parse errors are
// collected and returned together (spec.md §7: "log the offending
// file/line/column, continue to next line").
func (r *CharsetRegistry) ParseDefinitions(filename string, data io.Reader, includeFn func(path string) (io.Reader, bool)) []*DefinitionError {
	var errs []*DefinitionError
	var current *charsetDef

	sc := bufio.NewScanner(data)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		directive := fields[0]
		switch {
		case strings.HasPrefix(directive, "SB94(") || strings.HasPrefix(directive, "SB96("):
			d, err := r.parseSBDirective(directive, fields, lineNo, filename)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			current = d

		case strings.HasPrefix(directive, "MB94(") || strings.HasPrefix(directive, "MB96("):
			d, err := r.parseMBDirective(directive, fields, lineNo, filename)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			current = d

		case directive == "map":
			if err := applyMap(current, fields, lineNo, filename); err != nil {
				errs = append(errs, err)
			}

		case directive == "define":
			if err := applyDefine(current, fields, lineNo, filename); err != nil {
				errs = append(errs, err)
			}

		case directive == "map_range":
			if err := applyMapRange(current, fields, lineNo, filename); err != nil {
				errs = append(errs, err)
			}

		case directive == "undef":
			if err := applyUndef(current, fields, lineNo, filename); err != nil {
				errs = append(errs, err)
			}

		case directive == "include":
			if len(fields) < 2 || includeFn == nil {
				errs = append(errs, &DefinitionError{filename, lineNo, 1, "include: unsupported or missing path"})
				continue
			}
			sub, ok := includeFn(fields[1])
			if !ok {
				errs = append(errs, &DefinitionError{filename, lineNo, 1, "include: path not found"})
				continue
			}
			errs = append(errs, r.ParseDefinitions(fields[1], sub, includeFn)...)

		case directive == "load" || directive == "autoload" || directive == "savebin" || directive == "loadbin":
			// Binary table / on-disk charset resolution is an external
			// collaborator concern (spec.md §6); recognised, not resolved here.

		default:
			errs = append(errs, &DefinitionError{filename, lineNo, 1, "unknown directive: " + directive})
		}
	}
	return errs
}

func (r *CharsetRegistry) parseSBDirective(directive string, fields []string, lineNo int, filename string) (*charsetDef, *DefinitionError) {
	if len(fields) < 3 {
		return nil, &DefinitionError{filename, lineNo, 1, "SB94/SB96: expected id and name"}
	}
	final := extractParenArg(directive)
	if final == "" {
		return nil, &DefinitionError{filename, lineNo, 1, "SB94/SB96: missing (F)"}
	}
	id, err := strconv.ParseUint(fields[1], 0, 16)
	if err != nil {
		return nil, &DefinitionError{filename, lineNo, 1, "bad id: " + fields[1]}
	}
	d := &charsetDef{id: CharsetID(id), name: fields[2], bytes: 1, set96: strings.HasPrefix(directive, "SB96"), mapping: make(map[uint32]rune)}
	r.register(final, d)
	return d, nil
}

func (r *CharsetRegistry) parseMBDirective(directive string, fields []string, lineNo int, filename string) (*charsetDef, *DefinitionError) {
	if len(fields) < 3 {
		return nil, &DefinitionError{filename, lineNo, 1, "MB94/MB96: expected id and name"}
	}
	arg := extractParenArg(directive)
	parts := strings.Split(arg, ",")
	if len(parts) < 2 {
		return nil, &DefinitionError{filename, lineNo, 1, "MB94/MB96: expected N,I...F"}
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 1 {
		return nil, &DefinitionError{filename, lineNo, 1, "MB94/MB96: bad byte count"}
	}
	key := strings.Join(parts[1:], ",")
	id, err := strconv.ParseUint(fields[1], 0, 16)
	if err != nil {
		return nil, &DefinitionError{filename, lineNo, 1, "bad id: " + fields[1]}
	}
	d := &charsetDef{id: CharsetID(id), name: fields[2], bytes: n, set96: strings.HasPrefix(directive, "MB96"), mapping: make(map[uint32]rune)}
	r.register(key, d)
	return d, nil
}

func extractParenArg(directive string) string {
	open := strings.IndexByte(directive, '(')
	closeB := strings.IndexByte(directive, ')')
	if open < 0 || closeB < 0 || closeB < open {
		return ""
	}
	return directive[open+1 : closeB]
}

func parseCodePosition(ku, ten string) (uint32, error) {
	kuN, err := strconv.Atoi(ku)
	if err != nil {
		return 0, err
	}
	tenN, err := strconv.Atoi(ten)
	if err != nil {
		return 0, err
	}
	return uint32(kuN)*256 + uint32(tenN), nil
}

func parseUPlus(s string) (rune, bool, error) {
	if s == "<undef>" {
		return 0, true, nil
	}
	if !strings.HasPrefix(s, "U+") {
		return 0, false, fmt.Errorf("bad codepoint literal: %s", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return 0, false, err
	}
	return rune(v), false, nil
}

func applyMap(cur *charsetDef, fields []string, lineNo int, filename string) *DefinitionError {
	if cur == nil || len(fields) < 4 {
		return &DefinitionError{filename, lineNo, 1, "map: no active charset or bad arity"}
	}
	pos, err := parseCodePosition(fields[1], fields[2])
	if err != nil {
		return &DefinitionError{filename, lineNo, 1, err.Error()}
	}
	r, undef, err := parseUPlus(fields[3])
	if err != nil {
		return &DefinitionError{filename, lineNo, 1, err.Error()}
	}
	if undef {
		cur.mapping[pos] = undefSentinel
	} else {
		cur.mapping[pos] = r
	}
	return nil
}

func applyDefine(cur *charsetDef, fields []string, lineNo int, filename string) *DefinitionError {
	if cur == nil || len(fields) < 4 {
		return &DefinitionError{filename, lineNo, 1, "define: no active charset or bad arity"}
	}
	pos, err := parseCodePosition(fields[1], fields[2])
	if err != nil {
		return &DefinitionError{filename, lineNo, 1, err.Error()}
	}
	for i, tok := range fields[3:] {
		r, undef, err := parseUPlus(tok)
		if err != nil {
			return &DefinitionError{filename, lineNo, 1, err.Error()}
		}
		if undef {
			cur.mapping[pos+uint32(i)] = undefSentinel
		} else {
			cur.mapping[pos+uint32(i)] = r
		}
	}
	return nil
}

func applyMapRange(cur *charsetDef, fields []string, lineNo int, filename string) *DefinitionError {
	if cur == nil || len(fields) < 6 {
		return &DefinitionError{filename, lineNo, 1, "map_range: no active charset or bad arity"}
	}
	start, err := parseCodePosition(fields[1], fields[2])
	if err != nil {
		return &DefinitionError{filename, lineNo, 1, err.Error()}
	}
	end, err := parseCodePosition(fields[3], fields[4])
	if err != nil {
		return &DefinitionError{filename, lineNo, 1, err.Error()}
	}
	r, undef, err := parseUPlus(fields[5])
	if err != nil {
		return &DefinitionError{filename, lineNo, 1, err.Error()}
	}
	if undef {
		for p := start; p <= end; p++ {
			cur.mapping[p] = undefSentinel
		}
		return nil
	}
	for p := start; p <= end; p++ {
		cur.mapping[p] = r + rune(p-start)
	}
	return nil
}

func applyUndef(cur *charsetDef, fields []string, lineNo int, filename string) *DefinitionError {
	if cur == nil || len(fields) < 3 {
		return &DefinitionError{filename, lineNo, 1, "undef: no active charset or bad arity"}
	}
	pos, err := parseCodePosition(fields[1], fields[2])
	if err != nil {
		return &DefinitionError{filename, lineNo, 1, err.Error()}
	}
	cur.mapping[pos] = undefSentinel
	return nil
}
