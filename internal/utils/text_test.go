package utils

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"tabs and newlines only", "\t\n  \r\n", ""},
		{
			"first sentence",
			"Scientists discover revolutionary new energy source that could power cities for centuries.",
			"Scientists discover revolutionary new energy source that could power cities for centuries",
		},
		{"stops at first terminator", "Breaking news! More details to follow. Stay tuned", "Breaking news"},
		{"question", "Is the moon made of cheese? Experts weigh in.", "Is the moon made of cheese"},
		{"repeated terminators", "SHOCKING revelation!!! You won't believe it", "SHOCKING revelation"},
		{"collapses whitespace", "  Hello \n\n  world\t again.  ", "Hello world again"},
		{"short no terminator", "Markets rally on jobs report", "Markets rally on jobs report"},
		{
			"long no terminator",
			"one two three four five six seven eight nine ten eleven twelve thirteen fourteen",
			"one two three four five six seven eight nine ten eleven twelve",
		},
		{"only terminators", "...", "..."},
		{"leading terminator", ". Hello there. Bye.", "Hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.input); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveTitle_WordLimit(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 40),
		"a b c d e f g h i j k l m n o p",
		"single",
	}
	for _, in := range inputs {
		got := DeriveTitle(in)
		if n := len(strings.Fields(got)); n > TitleWordLimit {
			t.Errorf("DeriveTitle(%q) returned %d words, want at most %d", in, n, TitleWordLimit)
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	if got := NormalizeWhitespace("  a \t b\n\nc  "); got != "a b c" {
		t.Errorf("NormalizeWhitespace = %q, want %q", got, "a b c")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"empty", "", 10, ""},
		{"short string", "hello", 10, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"very short max", "hello", 2, "he"},
		{"unicode", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}
