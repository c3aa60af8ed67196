package termboard

import "testing"

func TestParseExtendedColorRGBColonForms(t *testing.T) {
	// 38:2:R:G:B (konsole style, no colour-space-id field).
	konsole := [][]int64{{38, 2, 10, 20, 30}}
	c, adv := parseExtendedColor(konsole, 0)
	if adv != 0 || c.space != ColorSpaceRGB || c.value != RGB(10, 20, 30) {
		t.Fatalf("konsole-style 38:2:R:G:B: got %+v adv=%d", c, adv)
	}

	// 38:2:Cs:R:G:B (ISO 8613-6 standard form, empty Cs decoded as -1).
	standard := [][]int64{{38, 2, -1, 10, 20, 30}}
	c, adv = parseExtendedColor(standard, 0)
	if adv != 0 || c.space != ColorSpaceRGB || c.value != RGB(10, 20, 30) {
		t.Fatalf("standard 38:2:Cs:R:G:B: got %+v adv=%d", c, adv)
	}
}

func TestParseExtendedColorCMYAndCMYK(t *testing.T) {
	cmy := [][]int64{{38, 3, 1, 2, 3}}
	c, adv := parseExtendedColor(cmy, 0)
	if adv != 0 || c.space != ColorSpaceCMY || c.value != CMY(1, 2, 3) {
		t.Fatalf("38:3:C:M:Y: got %+v adv=%d", c, adv)
	}

	cmyWithCs := [][]int64{{38, 3, -1, 1, 2, 3}}
	c, adv = parseExtendedColor(cmyWithCs, 0)
	if adv != 0 || c.space != ColorSpaceCMY || c.value != CMY(1, 2, 3) {
		t.Fatalf("38:3:Cs:C:M:Y: got %+v adv=%d", c, adv)
	}

	cmyk := [][]int64{{38, 4, 1, 2, 3, 4}}
	c, adv = parseExtendedColor(cmyk, 0)
	if adv != 0 || c.space != ColorSpaceCMYK || c.value != PackCMYK(1, 2, 3, 4) {
		t.Fatalf("38:4:C:M:Y:K: got %+v adv=%d", c, adv)
	}

	cmykWithCs := [][]int64{{38, 4, -1, 1, 2, 3, 4}}
	c, adv = parseExtendedColor(cmykWithCs, 0)
	if adv != 0 || c.space != ColorSpaceCMYK || c.value != PackCMYK(1, 2, 3, 4) {
		t.Fatalf("38:4:Cs:C:M:Y:K: got %+v adv=%d", c, adv)
	}

	// Legacy semicolon-separated forms spread across top-level groups.
	legacyCMY := [][]int64{{38}, {3}, {5}, {6}, {7}}
	c, adv = parseExtendedColor(legacyCMY, 0)
	if adv != 4 || c.space != ColorSpaceCMY || c.value != CMY(5, 6, 7) {
		t.Fatalf("38;3;c;m;y: got %+v adv=%d", c, adv)
	}

	legacyCMYK := [][]int64{{38}, {4}, {5}, {6}, {7}, {8}}
	c, adv = parseExtendedColor(legacyCMYK, 0)
	if adv != 5 || c.space != ColorSpaceCMYK || c.value != PackCMYK(5, 6, 7, 8) {
		t.Fatalf("38;4;c;m;y;k: got %+v adv=%d", c, adv)
	}
}

func TestPaletteResolveCMYAndCMYK(t *testing.T) {
	p := NewPalette()

	// Pure cyan (C=255,M=0,Y=0) resolves to RGB(0,255,255).
	if got := p.Resolve(ColorSpaceCMY, CMY(255, 0, 0), 0); got != RGB(0, 255, 255) {
		r, g, b := SplitRGB(got)
		t.Errorf("CMY pure cyan: got rgb(%d,%d,%d)", r, g, b)
	}

	// Full black via K alone (C=M=Y=0, K=255) resolves to RGB(0,0,0).
	if got := p.Resolve(ColorSpaceCMYK, PackCMYK(0, 0, 0, 255), 0); got != RGB(0, 0, 0) {
		r, g, b := SplitRGB(got)
		t.Errorf("CMYK full black: got rgb(%d,%d,%d)", r, g, b)
	}

	// No ink at all (C=M=Y=K=0) resolves to white.
	if got := p.Resolve(ColorSpaceCMYK, PackCMYK(0, 0, 0, 0), 0); got != RGB(255, 255, 255) {
		r, g, b := SplitRGB(got)
		t.Errorf("CMYK no ink: got rgb(%d,%d,%d)", r, g, b)
	}
}

func TestApplySGRWiresExtendedColorSpaces(t *testing.T) {
	const sep = subParamSeparator

	// 38:2::1:2:3 -- standard ISO 8613-6 form with an empty Cs field.
	attr := applySGR(Attribute{}, []int64{38, sep, 2, sep, -1, sep, 1, sep, 2, sep, 3})
	if attr.AFlags.FgSpace() != ColorSpaceRGB || attr.Fg != RGB(1, 2, 3) {
		t.Errorf("SGR 38:2:Cs:R:G:B did not set an RGB fg: %+v", attr)
	}

	// 48:4:10:20:30:40 -- direct CMYK background, no Cs field.
	attr = applySGR(Attribute{}, []int64{48, sep, 4, sep, 10, sep, 20, sep, 30, sep, 40})
	if attr.AFlags.BgSpace() != ColorSpaceCMYK || attr.Bg != PackCMYK(10, 20, 30, 40) {
		t.Errorf("SGR 48:4:C:M:Y:K did not set a CMYK bg: %+v", attr)
	}
}
