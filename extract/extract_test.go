package extract

import (
	"testing"
)

func TestCompany(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		subject  string
		expected string
	}{
		{
			name:     "corporate domain wins",
			sender:   "careers@acme.com",
			subject:  "Thank you for applying to Acme Corp",
			expected: "acme",
		},
		{
			name:     "display name with corporate domain",
			sender:   "Acme Recruiting <noreply@acme.com>",
			subject:  "",
			expected: "acme",
		},
		{
			name:     "webmail domain falls back to display name",
			sender:   "Jane Recruiter <jane.hiring@gmail.com>",
			subject:  "",
			expected: "Jane Recruiter",
		},
		{
			name:     "noise tokens stripped from display name",
			sender:   "noreply <updates@gmail.com>",
			subject:  "",
			expected: UnknownCompany,
		},
		{
			name:     "trailing corporate suffix stripped",
			sender:   "Initech Careers <jobs@outlook.com>",
			subject:  "",
			expected: "Initech",
		},
		{
			name:     "empty sender",
			sender:   "",
			subject:  "",
			expected: UnknownCompany,
		},
	}

	for _, tt := range tests {
		if got := Company(tt.sender, tt.subject); got != tt.expected {
			t.Errorf("%s: Company(%q) = %q; want %q", tt.name, tt.sender, got, tt.expected)
		}
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		body     string
		expected string
	}{
		{
			name:     "labeled position",
			subject:  "Application received",
			body:     "Position: Backend Engineer, Platform team.",
			expected: "Backend Engineer",
		},
		{
			name:     "labeled role",
			subject:  "Application received",
			body:     "Role: Data Scientist. We will be in touch.",
			expected: "Data Scientist",
		},
		{
			name:     "for-the pattern",
			subject:  "Interview invitation",
			body:     "We would like to interview you for the Staff Engineer position next week.",
			expected: "Staff Engineer",
		},
		{
			name:     "bare noun before role keyword",
			subject:  "Software Engineer position update",
			body:     "",
			expected: "Software Engineer",
		},
		{
			name:     "common title fallback",
			subject:  "Quick question",
			body:     "Our developer team enjoyed your profile.",
			expected: "developer",
		},
		{
			name:     "no match yields placeholder",
			subject:  "Hello",
			body:     "Nothing relevant here.",
			expected: UnknownPosition,
		},
		{
			name:     "empty input",
			subject:  "",
			body:     "",
			expected: UnknownPosition,
		},
	}

	for _, tt := range tests {
		if got := Position(tt.subject, tt.body); got != tt.expected {
			t.Errorf("%s: Position(%q, %q) = %q; want %q", tt.name, tt.subject, tt.body, got, tt.expected)
		}
	}
}
