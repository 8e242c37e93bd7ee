package utils

import "testing"

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Member Report", "Member_Report"},
		{"../../etc/passwd", "etc_passwd"},
		{"q1/finances: 2024", "q1_finances_2024"},
		{"___", "report"},
		{"", "report"},
		{"annual-2024.final", "annual-2024.final"},
	}

	for _, tt := range tests {
		if got := SafeFilename(tt.in); got != tt.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coding Club", "coding-club"},
		{"  Robotics & AI  ", "robotics-ai"},
		{"UPPER", "upper"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
