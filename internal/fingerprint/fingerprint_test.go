package fingerprint

import "testing"

func TestTextDeterministic(t *testing.T) {
	a := Text("Paper A")
	b := Text("Paper A")
	if a != b {
		t.Errorf("Text() not deterministic: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Text() digest length = %d, want 64 hex chars", len(a))
	}
}

func TestTextNormalizesBoundaryWhitespace(t *testing.T) {
	if Text("Paper A") != Text("  Paper A\n\n") {
		t.Error("Text() should ignore leading/trailing whitespace")
	}
	// Interior whitespace is content, not an artifact
	if Text("Paper A") == Text("Paper  A") {
		t.Error("Text() should distinguish interior whitespace")
	}
}

func TestTextDistinguishesContent(t *testing.T) {
	if Text("Paper A") == Text("Paper B") {
		t.Error("Text() returned same digest for different content")
	}
}
