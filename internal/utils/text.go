// Package utils provides small text helpers shared by the client and views.
package utils

import (
	"regexp"
	"strings"
)

// TitleWordLimit caps the fallback title when the text has no sentence terminator.
const TitleWordLimit = 12

var (
	// firstSentence matches the first run of non-terminators closed by a terminator.
	firstSentence = regexp.MustCompile(`[^.!?]+[.!?]`)
	// trailingTerminators strips the closing punctuation from a sentence.
	trailingTerminators = regexp.MustCompile(`[.!?]+$`)
)

// NormalizeWhitespace trims s and collapses every whitespace run to one space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DeriveTitle builds a short display title from free text.
//
// The first sentence (terminated by '.', '!' or '?') wins, with its closing
// punctuation removed. Text without any terminator falls back to the first
// TitleWordLimit words. Blank input yields "".
func DeriveTitle(text string) string {
	normalized := NormalizeWhitespace(text)
	if normalized == "" {
		return ""
	}

	if sentence := firstSentence.FindString(normalized); sentence != "" {
		return trailingTerminators.ReplaceAllString(strings.TrimSpace(sentence), "")
	}

	words := strings.Split(normalized, " ")
	if len(words) > TitleWordLimit {
		words = words[:TitleWordLimit]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// Truncate returns a truncated string with "..." if it exceeds maxLen.
// This function is Unicode-safe, counting runes instead of bytes.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
