package mailsource

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/api/gmail/v1"
)

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input:    "Hello,\r\n\r\nThank you for applying.\nWe will be in touch.\r\n",
			expected: "Hello, Thank you for applying. We will be in touch.",
		},
		{
			input:    "  already   normalized ",
			expected: "already normalized",
		},
		{
			input:    "",
			expected: "",
		},
		{
			input:    "\r\n\r\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		if got := NormalizeBody(tt.input); got != tt.expected {
			t.Errorf("NormalizeBody(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGmailQuery(t *testing.T) {
	since := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	q := buildGmailQuery(since)

	if !strings.HasSuffix(q, "after:2025/08/25") {
		t.Errorf("query missing date bound: %q", q)
	}
	if !strings.Contains(q, `"thank you for applying"`) {
		t.Errorf("query missing quoted keyword: %q", q)
	}
	if !strings.Contains(q, " OR ") {
		t.Errorf("keywords must be OR-joined: %q", q)
	}
}

func TestPlainTextBody(t *testing.T) {
	// base64url of "plain text body"
	const encoded = "cGxhaW4gdGV4dCBib2R5"

	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/html",
				Body:     &gmail.MessagePartBody{Data: "PGI-aHRtbDwvYj4"},
			},
			{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encoded},
			},
		},
	}

	if got := plainTextBody(payload); got != "plain text body" {
		t.Errorf("plainTextBody = %q; want %q", got, "plain text body")
	}

	if got := plainTextBody(&gmail.MessagePart{MimeType: "text/html"}); got != "" {
		t.Errorf("plainTextBody on html-only payload = %q; want empty", got)
	}
}
