package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Dr. Test  ",
			want:  "Dr. Test",
		},
		{
			name:  "multiple spaces between words",
			input: "Ada    Lovelace",
			want:  "Ada Lovelace",
		},
		{
			name:  "tabs and newlines",
			input: "Ada\t\nLovelace",
			want:  "Ada Lovelace",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve accents",
			input: " Zoë Müller ",
			want:  "Zoë Müller",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeName(NormalizeName(tt.input)); again != tt.want {
				t.Errorf("NormalizeName is not idempotent: %q", again)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" Prof@Campus.EDU ", "prof@campus.edu"},
		{"student@campus.edu", "student@campus.edu"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeEmail(tt.input); got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabelsMatch(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		requested string
		want      bool
	}{
		{"exact", "10:00-11:00", "10:00-11:00", true},
		{"requested has padding", "10:00-11:00", " 10:00-11:00 ", true},
		{"stored has padding", " 10:00-11:00", "10:00-11:00", true},
		{"inner spacing differs", "10:00 - 11:00", "10:00-11:00", false},
		{"different slot", "10:00-11:00", "11:00-12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelsMatch(tt.stored, tt.requested); got != tt.want {
				t.Errorf("LabelsMatch(%q, %q) = %v, want %v", tt.stored, tt.requested, got, tt.want)
			}
		})
	}
}

func TestSanitizeReason(t *testing.T) {
	if got := SanitizeReason("  Unavailable   today ", "Cancelled by professor"); got != "Unavailable today" {
		t.Errorf("unexpected reason %q", got)
	}
	if got := SanitizeReason("   ", "Cancelled by professor"); got != "Cancelled by professor" {
		t.Errorf("expected fallback, got %q", got)
	}
}
