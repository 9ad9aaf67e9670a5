package domain

import (
	"testing"
)

func TestPSLRoot(t *testing.T) {
	psl := NewPSL()

	tests := []struct {
		domain string
		want   string
	}{
		{"ads.tracker.example.com", "example.com"},
		{"example.com", "example.com"},
		{"a.b.example.co.uk", "example.co.uk"},
		// No registrable root to extract: the domain is its own root.
		{"localhost", "localhost"},
	}

	for _, tt := range tests {
		if got := psl.Root(tt.domain); got != tt.want {
			t.Errorf("Root(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestPSLRoot_Deterministic(t *testing.T) {
	psl := NewPSL()
	first := psl.Root("ads.tracker.example.co.uk")
	for i := 0; i < 3; i++ {
		if got := psl.Root("ads.tracker.example.co.uk"); got != first {
			t.Fatalf("Root() not deterministic: %q vs %q", got, first)
		}
	}
	// Idempotent: the root of a root is itself.
	if got := psl.Root(first); got != first {
		t.Errorf("Root(%q) = %q, want fixed point", first, got)
	}
}

func TestRootFunc(t *testing.T) {
	f := RootFunc(func(string) string { return "fixed.example" })
	if got := f.Root("anything.at.all"); got != "fixed.example" {
		t.Errorf("RootFunc.Root = %q", got)
	}
}
