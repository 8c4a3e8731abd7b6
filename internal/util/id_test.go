package util

import (
	"errors"
	"testing"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		n    int
		want string
	}{
		{"default length truncates", "3f2b9c1e-5d4a-4c8e-9b1a-2f6d7e8c9a0b", 0, "3f2b9c1e"},
		{"negative uses default", "3f2b9c1e-5d4a", -1, "3f2b9c1e"},
		{"explicit length", "3f2b9c1e-5d4a", 4, "3f2b"},
		{"length longer than ID", "abc", 20, "abc"},
		{"empty ID", "", 8, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortID(tt.id, tt.n); got != tt.want {
				t.Errorf("ShortID(%q, %d) = %q, want %q", tt.id, tt.n, got, tt.want)
			}
		})
	}
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "abc", "zzz999"}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"exact match beats prefix", "abc", "abc", nil},
		{"unique prefix", "zz", "zzz999", nil},
		{"full id", "abd456", "abd456", nil},
		{"ambiguous", "ab", "", ErrAmbiguousID},
		{"no match", "qqq", "", ErrNotFound},
		{"blank", "  ", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveID(tt.input, ids, "entry")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveID(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
