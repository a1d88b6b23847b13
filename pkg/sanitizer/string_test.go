package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  Person 1  ", "Person 1"},
		{"internal runs collapse", "Deluxe   Hair    Spa", "Deluxe Hair Spa"},
		{"tabs and newlines", "Bridal\tMakeup\nPackage", "Bridal Makeup Package"},
		{"already clean", "Beard Trim", "Beard Trim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeComment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"keeps newlines", "Great cut.\nWill return!", "Great cut.\nWill return!"},
		{"drops control chars", "Nice\x00 staff\x08", "Nice staff"},
		{"trims edges", "  loved it  ", "loved it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeComment(tt.input); got != tt.expected {
				t.Errorf("NormalizeComment(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("  Hair  Care "); got != "hair care" {
		t.Errorf("NormalizeCategory = %q, want %q", got, "hair care")
	}
}
