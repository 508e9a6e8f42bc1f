package sanitizer

import (
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func lower(s string) string {
	return strings.ToLower(s)
}

func SanitizeEmail(input string) string {
	return Pipeline{trim, lower}.Apply(input)
}

func SanitizeName(input string) string {
	return Pipeline{TrimAndNormalize}.Apply(input)
}

// SanitizeSlotLabel trims a time label and keeps its inner text untouched.
func SanitizeSlotLabel(input string) string {
	return Pipeline{trim}.Apply(input)
}

// SanitizeReason returns the collapsed reason, or fallback when nothing is left.
func SanitizeReason(reason, fallback string) string {
	if s := TrimAndNormalize(reason); s != "" {
		return s
	}
	return fallback
}
