package termboard

import "testing"

func TestEncodeScalarDefault(t *testing.T) {
	h, ok := EncodeScalar(Attribute{})
	if !ok {
		t.Fatal("default attribute should be scalar-eligible")
	}
	if isExtendedHandle(h) {
		t.Error("default attribute handle should not have the extended bit set")
	}
	if got := DecodeScalar(h); got != (Attribute{}) {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
}

func TestEncodeScalarRejectsRichAttributes(t *testing.T) {
	rgb := Attribute{AFlags: AFlags(0).WithFgSpace(ColorSpaceRGB), Fg: RGB(1, 2, 3)}
	if _, ok := EncodeScalar(rgb); ok {
		t.Error("RGB foreground should require interning")
	}
	xf := Attribute{XFlags: AttrProtected}
	if _, ok := EncodeScalar(xf); ok {
		t.Error("any xflags bit should require interning")
	}
}

func TestAttributeTableInternReusesHandle(t *testing.T) {
	tbl := NewAttributeTable()
	a := Attribute{XFlags: AttrProtected}
	h1 := tbl.Intern(a)
	h2 := tbl.Intern(a)
	if h1 != h2 {
		t.Fatalf("expected the same handle for identical attributes, got %d and %d", h1, h2)
	}
	if tbl.RefCount(h1) != 2 {
		t.Errorf("expected refcount 2 after two interns, got %d", tbl.RefCount(h1))
	}
}

func TestAttributeTableReleaseFreesSlot(t *testing.T) {
	tbl := NewAttributeTable()
	a := Attribute{XFlags: AttrProtected}
	h := tbl.Intern(a)
	tbl.Release(h)
	if tbl.RefCount(h) != 0 {
		t.Errorf("expected refcount 0 after release, got %d", tbl.RefCount(h))
	}
	if got := tbl.Resolve(h); got != (Attribute{}) {
		t.Errorf("resolving a freed handle should return the default attribute, got %+v", got)
	}

	// The freed slot should be reused rather than growing the table.
	b := Attribute{XFlags: AttrSelected}
	h2 := tbl.Intern(b)
	if isExtendedHandle(h2) && h2&^extendedHandleBit != h&^extendedHandleBit {
		t.Errorf("expected freed slot %d to be reused, got %d", h&^extendedHandleBit, h2&^extendedHandleBit)
	}
}

func TestAttributeTableScalarHandlesAreNotTracked(t *testing.T) {
	tbl := NewAttributeTable()
	h := tbl.Intern(Attribute{})
	if tbl.RefCount(h) != 0 {
		t.Error("scalar handles should report a zero refcount (not table-tracked)")
	}
	tbl.Retain(h)
	tbl.Release(h)
	if tbl.Resolve(h) != (Attribute{}) {
		t.Error("scalar handle resolution should be unaffected by Retain/Release")
	}
}
