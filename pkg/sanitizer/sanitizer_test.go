package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing", "  hello  ", "hello"},
		{"internal runs collapse", "hello   big\t\tworld", "hello big world"},
		{"already clean", "hello world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase with space", "ab 123-cd", "AB-123-CD"},
		{"already canonical", "FL-1001", "FL-1001"},
		{"stray punctuation", "fl.10!01", "FL1001"},
		{"dash runs collapse", "FL--10--01", "FL-10-01"},
		{"surrounding dashes stripped", "-FL-1001-", "FL-1001"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePlate(tt.input); got != tt.expected {
				t.Errorf("NormalizePlate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeDepartment(t *testing.T) {
	if got := NormalizeDepartment(" R&D  team "); got != "RD team" {
		t.Errorf("NormalizeDepartment = %q", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Dana.Peretz@Example.COM "); got != "dana.peretz@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"us national", "(415) 555-0101", "+14155550101"},
		{"already e164", "+14155550101", "+14155550101"},
		{"empty", "", ""},
		{"garbage", "not-a-number", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
