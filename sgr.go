package termboard

// splitSubParams regroups a CSI event's flat Params slice back into
// ECMA-48 parameter groups, each possibly carrying colon-separated
// sub-parameters (ISO 8613-6 SGR extended colours). The decoder encodes
// a colon with the subParamSeparator sentinel immediately after the
// value it followed; see decoder.go's stepCSI.
func splitSubParams(params []int64) [][]int64 {
	var groups [][]int64
	cur := []int64{}
	i := 0
	for i < len(params) {
		v := params[i]
		if v == subParamSeparator {
			// A bare leading separator (malformed); treat as default.
			cur = append(cur, -1)
			i++
			continue
		}
		cur = append(cur, v)
		i++
		for i+1 < len(params) && params[i] == subParamSeparator {
			i++ // skip the sentinel
			cur = append(cur, params[i])
			i++
		}
		groups = append(groups, cur)
		cur = []int64{}
	}
	return groups
}

func sgrParam(p int64, def int64) int64 {
	if p < 0 {
		return def
	}
	return p
}

// applySGR folds one CSI "m" event's parameters into attr, returning the
// updated attribute. Grounded on the ECMA-48 §8.3.117 table plus xterm's
// 256-colour and direct-colour extensions and the RLogin ideogram
// overload noted in spec.md §9.
func applySGR(attr Attribute, params []int64) Attribute {
	groups := splitSubParams(params)
	if len(groups) == 0 {
		return Attribute{}
	}
	for i := 0; i < len(groups); i++ {
		g := groups[i]
		code := sgrParam(g[0], 0)
		switch {
		case code == 0:
			attr = Attribute{}
		case code == 1:
			attr.AFlags = attr.AFlags&^AttrWeightMask | WeightBold
		case code == 2:
			attr.AFlags = attr.AFlags&^AttrWeightMask | WeightFaint
		case code == 3:
			attr.AFlags = attr.AFlags&^AttrShapeMask | ShapeItalic
		case code == 4:
			u := UnderlineSingle
			if len(g) > 1 {
				switch g[1] {
				case 0:
					u = UnderlineNone
				case 2:
					u = UnderlineDouble
				case 3:
					u = UnderlineCurly
				case 4:
					u = UnderlineDotted
				case 5:
					u = UnderlineDashed
				}
			}
			attr.AFlags = attr.AFlags&^AttrUnderlineMask | u
		case code == 5:
			attr.AFlags = attr.AFlags&^AttrBlinkMask | BlinkSlow
		case code == 6:
			attr.AFlags = attr.AFlags&^AttrBlinkMask | BlinkRapid
		case code == 7:
			attr.AFlags |= AttrInverse
		case code == 8:
			attr.AFlags |= AttrInvisible
		case code == 9:
			attr.AFlags |= AttrStrike
		case code == 20:
			attr.AFlags = attr.AFlags&^AttrShapeMask | ShapeFraktur
		case code == 21:
			attr.AFlags = attr.AFlags&^AttrUnderlineMask | UnderlineDouble
		case code == 22:
			attr.AFlags = attr.AFlags &^ AttrWeightMask
		case code == 23:
			attr.AFlags = attr.AFlags &^ AttrShapeMask
		case code == 24:
			attr.AFlags = attr.AFlags &^ AttrUnderlineMask
		case code == 25:
			attr.AFlags = attr.AFlags &^ AttrBlinkMask
		case code == 27:
			attr.AFlags &^= AttrInverse
		case code == 28:
			attr.AFlags &^= AttrInvisible
		case code == 29:
			attr.AFlags &^= AttrStrike
		case code == 51:
			attr.AFlags |= AttrFrame
		case code == 52:
			attr.AFlags |= AttrCircle
		case code == 53:
			attr.AFlags |= AttrOverline
		case code == 54:
			attr.AFlags &^= AttrFrame | AttrCircle
		case code == 55:
			attr.AFlags &^= AttrOverline
		case code >= 60 && code <= 65:
			attr.XFlags = attr.XFlags&^XAttrIdeogramMask | XFlags((code-60+1)<<10)
		case code >= 30 && code <= 37:
			attr.AFlags = attr.AFlags.WithFgSpace(ColorSpaceIndexed)
			attr.Fg = uint32(code - 30)
		case code == 38:
			n, adv := parseExtendedColor(groups, i)
			attr.AFlags = attr.AFlags.WithFgSpace(n.space)
			attr.Fg = n.value
			i += adv
		case code == 39:
			attr.AFlags = attr.AFlags.WithFgSpace(ColorSpaceDefault)
		case code >= 40 && code <= 47:
			attr.AFlags = attr.AFlags.WithBgSpace(ColorSpaceIndexed)
			attr.Bg = uint32(code - 40)
		case code == 48:
			n, adv := parseExtendedColor(groups, i)
			attr.AFlags = attr.AFlags.WithBgSpace(n.space)
			attr.Bg = n.value
			i += adv
		case code == 49:
			attr.AFlags = attr.AFlags.WithBgSpace(ColorSpaceDefault)
		case code == 58:
			n, adv := parseExtendedColor(groups, i)
			attr.AFlags = attr.AFlags.WithDcSpace(n.space)
			attr.Dc = n.value
			i += adv
		case code == 59:
			attr.AFlags = attr.AFlags.WithDcSpace(ColorSpaceDefault)
		case code >= 90 && code <= 97:
			attr.AFlags = attr.AFlags.WithFgSpace(ColorSpaceIndexed)
			attr.Fg = uint32(code-90) + 8
		case code >= 100 && code <= 107:
			attr.AFlags = attr.AFlags.WithBgSpace(ColorSpaceIndexed)
			attr.Bg = uint32(code-100) + 8
		// RLogin's overload of 60-65 for ideograms collides with the
		// standard ECMA-48 meaning above; RLogin instead uses 8460-8465,
		// kept in a disjoint XFlags range (spec.md §9).
		case code >= 8460 && code <= 8465:
			attr.XFlags = attr.XFlags&^XAttrRLoginIdeogramMask | XFlags((code-8460+1)<<13)
		}
	}
	return attr
}

type extColor struct {
	space ColorSpace
	value uint32
}

// lastFields returns the last n sub-parameters of g as bytes, used to pull
// the colour components off the tail of a colon-form group regardless of
// whether a leading colour-space-id field (ISO 8613-6's Cs) is present:
// 38:2:R:G:B (5 fields) and 38:2:Cs:R:G:B (6 fields) both end in R,G,B.
func lastFields(g []int64, n int) []uint8 {
	out := make([]uint8, n)
	start := len(g) - n
	for i := 0; i < n; i++ {
		out[i] = uint8(sgrParam(g[start+i], 0))
	}
	return out
}

// parseExtendedColor handles both the colon form (38:2:r:g:b / 38:2:Cs:r:g:b
// / 38:5:n, one group) and the legacy semicolon form (38;2;r;g;b / 38;5;n
// spread across following groups), returning how many extra top-level
// groups the semicolon form consumed. Colour spaces: 2 RGB, 3 CMY, 4 CMYK,
// 5 indexed (ITU T.416 / spec.md §5).
func parseExtendedColor(groups [][]int64, i int) (extColor, int) {
	g := groups[i]
	if len(g) >= 2 {
		switch g[1] {
		case 5:
			if len(g) >= 3 {
				return extColor{ColorSpaceIndexed, uint32(g[2])}, 0
			}
		case 2:
			// 38:2:R:G:B (konsole style, 5 fields) or 38:2:Cs:R:G:B
			// (standard, 6 fields) both end in R,G,B.
			if len(g) == 5 || len(g) == 6 {
				v := lastFields(g, 3)
				return extColor{ColorSpaceRGB, RGB(v[0], v[1], v[2])}, 0
			}
		case 3:
			if len(g) == 5 || len(g) == 6 {
				v := lastFields(g, 3)
				return extColor{ColorSpaceCMY, CMY(v[0], v[1], v[2])}, 0
			}
		case 4:
			if len(g) == 6 || len(g) == 7 {
				v := lastFields(g, 4)
				return extColor{ColorSpaceCMYK, PackCMYK(v[0], v[1], v[2], v[3])}, 0
			}
		}
	}
	// Legacy semicolon-separated form: 38;5;n, 38;2;r;g;b, 38;3;c;m;y or
	// 38;4;c;m;y;k as distinct top-level groups.
	if i+1 < len(groups) {
		mode := sgrParam(groups[i+1][0], -1)
		switch mode {
		case 5:
			if i+2 < len(groups) {
				return extColor{ColorSpaceIndexed, uint32(sgrParam(groups[i+2][0], 0))}, 2
			}
		case 2:
			if i+4 < len(groups) {
				r := uint8(sgrParam(groups[i+2][0], 0))
				gr := uint8(sgrParam(groups[i+3][0], 0))
				b := uint8(sgrParam(groups[i+4][0], 0))
				return extColor{ColorSpaceRGB, RGB(r, gr, b)}, 4
			}
		case 3:
			if i+4 < len(groups) {
				c := uint8(sgrParam(groups[i+2][0], 0))
				m := uint8(sgrParam(groups[i+3][0], 0))
				y := uint8(sgrParam(groups[i+4][0], 0))
				return extColor{ColorSpaceCMY, CMY(c, m, y)}, 4
			}
		case 4:
			if i+5 < len(groups) {
				c := uint8(sgrParam(groups[i+2][0], 0))
				m := uint8(sgrParam(groups[i+3][0], 0))
				y := uint8(sgrParam(groups[i+4][0], 0))
				k := uint8(sgrParam(groups[i+5][0], 0))
				return extColor{ColorSpaceCMYK, PackCMYK(c, m, y, k)}, 5
			}
		}
	}
	return extColor{ColorSpaceDefault, 0}, 0
}
