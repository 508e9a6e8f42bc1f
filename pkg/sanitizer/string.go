package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return SanitizeName(name)
}

func NormalizeEmail(email string) string {
	return SanitizeEmail(email)
}

func NormalizeSlotLabel(label string) string {
	return SanitizeSlotLabel(label)
}

// LabelsMatch compares a requested time with a stored label, exactly or after trimming both.
func LabelsMatch(stored, requested string) bool {
	if stored == requested {
		return true
	}
	return SanitizeSlotLabel(stored) == SanitizeSlotLabel(requested)
}
