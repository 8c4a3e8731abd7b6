package models

import "strings"

// Tone is the display classification of a verdict label.
type Tone int

const (
	// ToneUncertain covers labels that are neither clearly fake nor clearly real.
	ToneUncertain Tone = iota
	// ToneNegative marks fake/false verdicts.
	ToneNegative
	// TonePositive marks real/true/verified verdicts.
	TonePositive
)

func (t Tone) String() string {
	switch t {
	case ToneNegative:
		return "negative"
	case TonePositive:
		return "positive"
	default:
		return "uncertain"
	}
}

// ToneForLabel maps a free-form classifier label onto a Tone by substring.
// Negative markers win over positive ones ("not verified, likely false").
func ToneForLabel(label string) Tone {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "fake"), strings.Contains(l, "false"):
		return ToneNegative
	case strings.Contains(l, "real"), strings.Contains(l, "true"), strings.Contains(l, "verified"):
		return TonePositive
	default:
		return ToneUncertain
	}
}
