package domain

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "already canonical",
			raw:  "ads.example.com",
			want: "ads.example.com",
		},
		{
			name: "uppercase folds",
			raw:  "Ads.Example.COM",
			want: "ads.example.com",
		},
		{
			name: "surrounding whitespace",
			raw:  "  example.com\t",
			want: "example.com",
		},
		{
			name: "leading and trailing dots",
			raw:  ".example.com.",
			want: "example.com",
		},
		{
			name: "doubled dots collapse",
			raw:  "ads..example.com",
			want: "ads.example.com",
		},
		{
			name: "single label",
			raw:  "localhost",
			want: "localhost",
		},
		{
			name: "internationalized name",
			raw:  "пример.рф",
			want: "xn--e1afmkfd.xn--p1ai",
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "only dots",
			raw:     "...",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeSet_DropsInvalid(t *testing.T) {
	raw := NewSet("Example.COM", "", "...", "tracker.other.net")
	got := NormalizeSet(raw)

	if got.Len() != 2 {
		t.Fatalf("NormalizeSet() kept %d domains, want 2", got.Len())
	}
	for _, d := range []string{"example.com", "tracker.other.net"} {
		if !got.Has(d) {
			t.Errorf("NormalizeSet() is missing %q", d)
		}
	}
}

func TestSetOperations(t *testing.T) {
	s := NewSet("a.com", "b.com")
	s.Union(NewSet("b.com", "c.com"))
	if s.Len() != 3 {
		t.Errorf("Union: Len = %d, want 3", s.Len())
	}

	s.Subtract(NewSet("a.com", "missing.org"))
	if s.Has("a.com") || s.Len() != 2 {
		t.Errorf("Subtract left %v", s)
	}

	clone := s.Clone()
	clone.Remove("b.com")
	if !s.Has("b.com") {
		t.Errorf("Clone is not independent of the original")
	}
}
