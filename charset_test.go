package termboard

import (
	"strings"
	"testing"
)

func TestRegistryResolvesBuiltins(t *testing.T) {
	r := NewCharsetRegistry()
	if _, ok := r.Resolve(nil, 'B'); !ok {
		t.Error("expected ASCII ('B') to resolve")
	}
	if _, ok := r.Resolve(nil, '0'); !ok {
		t.Error("expected DEC Special Graphics ('0') to resolve")
	}
	if _, ok := r.Resolve(nil, 'Z'); ok {
		t.Error("expected an unregistered final byte to fail to resolve")
	}
}

func TestDECSpecialGraphicsLineDrawing(t *testing.T) {
	r := NewCharsetRegistry()
	def, ok := r.Resolve(nil, '0')
	if !ok {
		t.Fatal("DEC Special Graphics not registered")
	}
	got, ok := def.lookup(0x71) // 'q' -> horizontal line
	if !ok || got != '─' {
		t.Errorf("expected '─' for 0x71, got %q (ok=%v)", got, ok)
	}
}

func TestParseDefinitionsSB94Map(t *testing.T) {
	r := NewCharsetRegistry()
	src := strings.Join([]string{
		"SB94(F) 0x80 test-charset",
		"map 2 1 U+00E9",
		"undef 2 2",
	}, "\n")
	errs := r.ParseDefinitions("test.def", strings.NewReader(src), nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	def, ok := r.Resolve(nil, 'F')
	if !ok {
		t.Fatal("expected SB94(F) to register under final byte 'F'")
	}
	if got, ok := def.lookup(2*256 + 1); !ok || got != 0x00E9 {
		t.Errorf("expected U+00E9 at ku=2,ten=1, got %q (ok=%v)", got, ok)
	}
	if _, ok := def.lookup(2*256 + 2); ok {
		t.Error("expected ku=2,ten=2 to be explicitly undefined")
	}
}

func TestParseDefinitionsMapRange(t *testing.T) {
	r := NewCharsetRegistry()
	src := "SB96(G) 0x81 test-range\nmap_range 1 1 1 3 U+2500\n"
	errs := r.ParseDefinitions("test.def", strings.NewReader(src), nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	def, _ := r.Resolve(nil, 'G')
	for i, want := range []rune{0x2500, 0x2501, 0x2502} {
		if got, ok := def.lookup(uint32(1*256 + 1 + i)); !ok || got != want {
			t.Errorf("position %d: got %q, want %q", i, got, want)
		}
	}
}

func TestParseDefinitionsUnknownDirective(t *testing.T) {
	r := NewCharsetRegistry()
	errs := r.ParseDefinitions("test.def", strings.NewReader("bogus 1 2 3\n"), nil)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
}
