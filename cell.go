package termboard

// Code point flag bits, carried in the high bits of a 32-bit character
// value above the 21-bit Unicode scalar range. Mirrors the character_flags
// enum in original_source/src/board.h: unicode_mask, is_wide_extension,
// is_unicode_cluster, plus a marker bit this module adds for SDS/SRS
// boundary cells (the original represents those as a distinct character
// class rather than a flag; a flag is simpler to test and is not otherwise
// observable).
const (
	codePointMask        = 0x001FFFFF
	flagWideExtension    = 0x02000000
	flagClusterExtension = 0x04000000
	flagMarker           = 0x08000000
	flagISO2022Raw       = 0x10000000
)

// CodePoint is a cell's character value: either a Unicode scalar, or one
// of the reserved flag combinations described in spec.md §3.
type CodePoint uint32

// Marker sub-codes, stored in the low bits of a marker CodePoint.
const (
	MarkerSDSL2R CodePoint = iota
	MarkerSDSR2L
	MarkerSRSBegin
	MarkerSDSEnd
	MarkerSRSEnd
)

// NewMarker builds a zero-width boundary cell for the given nested-string
// marker kind (see Line.nestedStrings).
func NewMarker(kind CodePoint) CodePoint {
	return flagMarker | (kind & 0xFF)
}

// NewISO2022Raw builds a code point carrying a charset/index pair that has
// no Unicode mapping (spec.md §3, "ISO-2022 non-Unicode").
func NewISO2022Raw(charset CharsetID, index uint32) CodePoint {
	return flagISO2022Raw | CodePoint(uint32(charset)&0xFF)<<16 | CodePoint(index&0xFFFF)
}

func (c CodePoint) Rune() rune         { return rune(c & codePointMask) }
func (c CodePoint) IsWideExtension() bool { return c&flagWideExtension != 0 }
func (c CodePoint) IsClusterExtension() bool {
	return c&flagClusterExtension != 0
}
func (c CodePoint) IsMarker() bool { return c&flagMarker != 0 }
func (c CodePoint) MarkerKind() CodePoint {
	return c & 0xFF
}
func (c CodePoint) IsISO2022Raw() bool { return c&flagISO2022Raw != 0 }
func (c CodePoint) IsExtension() bool {
	return c.IsWideExtension() || c.IsClusterExtension()
}

// WithWideExtension returns c tagged as the trailing cell of a wide glyph.
func (c CodePoint) WithWideExtension() CodePoint { return c | flagWideExtension }

// ColorSpace tags which interpretation fg/bg/dc colour words carry.
type ColorSpace uint8

const (
	ColorSpaceDefault ColorSpace = iota
	ColorSpaceTransparent
	ColorSpaceIndexed
	ColorSpaceRGB
	ColorSpaceCMY
	ColorSpaceCMYK
)

// AFlags is the primary attribute flag word: weight, shape, underline,
// blink, and the handful of boolean decorations that render independent
// of colour.
type AFlags uint32

const (
	AttrWeightMask AFlags = 0x3
	WeightNormal   AFlags = 0
	WeightBold     AFlags = 1
	WeightFaint    AFlags = 2
	WeightHeavy    AFlags = 3

	AttrShapeMask AFlags = 0x3 << 2
	ShapeNormal   AFlags = 0 << 2
	ShapeItalic   AFlags = 1 << 2
	ShapeFraktur  AFlags = 2 << 2

	AttrUnderlineMask AFlags = 0x7 << 4
	UnderlineNone     AFlags = 0 << 4
	UnderlineSingle   AFlags = 1 << 4
	UnderlineDouble   AFlags = 2 << 4
	UnderlineCurly    AFlags = 3 << 4
	UnderlineDotted   AFlags = 4 << 4
	UnderlineDashed   AFlags = 5 << 4

	AttrBlinkMask AFlags = 0x3 << 7
	BlinkNone     AFlags = 0 << 7
	BlinkSlow     AFlags = 1 << 7
	BlinkRapid    AFlags = 2 << 7

	AttrInverse   AFlags = 1 << 9
	AttrInvisible AFlags = 1 << 10
	AttrStrike    AFlags = 1 << 11
	AttrFrame     AFlags = 1 << 12
	AttrCircle    AFlags = 1 << 13
	AttrOverline  AFlags = 1 << 14

	// Colour-space tags for fg/bg/dc, three bits each.
	fgSpaceShift = 15
	bgSpaceShift = 18
	dcSpaceShift = 21
	spaceMask    = 0x7
)

func (a AFlags) FgSpace() ColorSpace { return ColorSpace((a >> fgSpaceShift) & spaceMask) }
func (a AFlags) BgSpace() ColorSpace { return ColorSpace((a >> bgSpaceShift) & spaceMask) }
func (a AFlags) DcSpace() ColorSpace { return ColorSpace((a >> dcSpaceShift) & spaceMask) }

func (a AFlags) WithFgSpace(s ColorSpace) AFlags {
	return a&^(spaceMask<<fgSpaceShift) | AFlags(s&spaceMask)<<fgSpaceShift
}
func (a AFlags) WithBgSpace(s ColorSpace) AFlags {
	return a&^(spaceMask<<bgSpaceShift) | AFlags(s&spaceMask)<<bgSpaceShift
}
func (a AFlags) WithDcSpace(s ColorSpace) AFlags {
	return a&^(spaceMask<<dcSpaceShift) | AFlags(s&spaceMask)<<dcSpaceShift
}

// XFlags is the secondary ("extended") attribute flag word: proportional
// rendering, super/subscript, line-doubling, SCO rotation, protection,
// selection, ideogram decorations, and RLogin extensions (spec.md §3, §9
// open question on SGR 60-69 vs RLogin 8460-8465).
type XFlags uint32

const (
	XFlagProportional XFlags = 1 << 0

	XAttrSuperSubMask XFlags = 0x3 << 1
	SuperSubNone      XFlags = 0 << 1
	AttrSuperscript   XFlags = 1 << 1
	AttrSubscript     XFlags = 2 << 1

	// DECDHL/DECDWL line-doubling quadrant: which quadrant of a
	// double-width/double-height line this cell belongs to.
	XAttrDoubleMask  XFlags = 0x3 << 3
	DoubleNone       XFlags = 0 << 3
	DoubleWidth      XFlags = 1 << 3
	DoubleHeightTop  XFlags = 2 << 3
	DoubleHeightBot  XFlags = 3 << 3

	// SCO character rotation, 0-7 in units of 45 degrees.
	XAttrRotateMask XFlags = 0x7 << 5
	xAttrRotateShift        = 5

	// DECSCA / SPA-EPA / DAQ protection.
	AttrProtected XFlags = 1 << 8

	// Set by Line.SetSelection (SSA/ESA-style selection bit).
	AttrSelected XFlags = 1 << 9

	// Ideogram decorations (ECMA-48 SGR 60-65).
	XAttrIdeogramMask   XFlags = 0x7 << 10
	IdeogramNone        XFlags = 0 << 10
	IdeogramUnderline   XFlags = 1 << 10
	IdeogramDouble      XFlags = 2 << 10
	IdeogramOverline    XFlags = 3 << 10
	IdeogramDoubleOver  XFlags = 4 << 10
	IdeogramStressMark  XFlags = 5 << 10

	// RLogin's overloaded SGR 60-65 (8460-8465), kept in a disjoint
	// bit range per spec.md §9's open question: standard and RLogin
	// numbers are both honoured, never merged.
	XAttrRLoginIdeogramMask XFlags = 0x7 << 13
	xAttrRLoginIdeogramShift       = 13
)

func (x XFlags) Rotation() int { return int((x & XAttrRotateMask) >> xAttrRotateShift) }
func (x XFlags) WithRotation(r int) XFlags {
	return x&^XAttrRotateMask | XFlags(r&0x7)<<xAttrRotateShift
}

// Attribute is the immutable (aflags, xflags, fg, bg, dc) triple from
// spec.md §3. The zero value is the default attribute.
type Attribute struct {
	AFlags AFlags
	XFlags XFlags
	Fg     uint32
	Bg     uint32
	Dc     uint32 // decoration (underline) colour
}

// IsDefault reports whether a is the all-zero default attribute.
func (a Attribute) IsDefault() bool {
	return a == Attribute{}
}

// Width is the number of display columns a cell occupies: 0 for
// cluster/marker cells, 1 for normal glyphs, 2 for the main cell of a wide
// glyph (followed by width-1 wide-extension cells in data order).
type Width uint8

// Cell is the storage unit of a Line: {character, attribute handle, width}
// (spec.md §3). AttrHandle is either a compact scalar form (see
// AttributeTable) or, when its MSB is set, a handle into the owning
// board's AttributeTable.
type Cell struct {
	Char       CodePoint
	AttrHandle uint32
	Width      Width
}

// BlankCell returns a space cell with the given attribute handle and
// width 1, the fill value used by insert/delete shifts and new blank
// lines. Erase operations fill with NULCell instead.
func BlankCell(attr uint32) Cell {
	return Cell{Char: CodePoint(' '), AttrHandle: attr, Width: 1}
}

// NULCell is the zero-value cell used to pad proportional lines and mark
// an "absent" position in a monospaced line (spec.md §3 invariant on
// right-fill).
func NULCell(attr uint32) Cell {
	return Cell{Char: 0, AttrHandle: attr, Width: 1}
}
