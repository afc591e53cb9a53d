package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/masa23/jobmaild/config"
	"github.com/masa23/jobmaild/model"
)

func TestParseStatusResponse(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		reject      bool
		category    model.Category
		description string
		aiGenerated bool
	}{
		{
			name:        "both lines present",
			response:    "Status: Interview Scheduled\nDescription: Phone screen booked for next week.",
			category:    model.CategoryInterviewScheduled,
			description: "Phone screen booked for next week.",
			aiGenerated: true,
		},
		{
			name:        "status with brackets",
			response:    "Status: [Offer Received]\nDescription: Offer letter attached.",
			category:    model.CategoryOfferReceived,
			description: "Offer letter attached.",
			aiGenerated: true,
		},
		{
			name:        "missing description",
			response:    "Status: Rejected",
			category:    model.CategoryRejected,
			description: "Application status to be determined",
			aiGenerated: true,
		},
		{
			name:        "missing status",
			response:    "Description: Something happened.",
			category:    model.CategoryApplied,
			description: "Something happened.",
			aiGenerated: true,
		},
		{
			name:        "unknown category is coerced",
			response:    "Status: Ghosted\nDescription: No reply in weeks.",
			category:    model.CategoryApplied,
			description: "No reply in weeks.",
			aiGenerated: false,
		},
		{
			name:     "reject sentinel",
			response: "Status: NOT_APPLICATION",
			reject:   true,
		},
		{
			name:        "empty response",
			response:    "",
			category:    model.CategoryApplied,
			description: "Application status to be determined",
			aiGenerated: true,
		},
		{
			name:        "preamble before lines",
			response:    "Sure, here is my analysis:\nStatus: Under Review\nDescription: The recruiter is reviewing the resume.",
			category:    model.CategoryUnderReview,
			description: "The recruiter is reviewing the resume.",
			aiGenerated: true,
		},
	}

	for _, tt := range tests {
		got, reject := ParseStatusResponse(tt.response)
		if reject != tt.reject {
			t.Errorf("%s: reject = %v; want %v", tt.name, reject, tt.reject)
			continue
		}
		if tt.reject {
			continue
		}
		if got.Category != tt.category {
			t.Errorf("%s: category = %q; want %q", tt.name, got.Category, tt.category)
		}
		if got.Description != tt.description {
			t.Errorf("%s: description = %q; want %q", tt.name, got.Description, tt.description)
		}
		if got.AIGenerated != tt.aiGenerated {
			t.Errorf("%s: aiGenerated = %v; want %v", tt.name, got.AIGenerated, tt.aiGenerated)
		}
	}
}

func fakeLLMServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeStatus(t *testing.T) {
	srv := fakeLLMServer(t, "Status: Technical Interview\nDescription: Coding assessment scheduled.", http.StatusOK)
	defer srv.Close()

	a := New(config.LLM{APIBase: srv.URL, Model: "test", MaxTokens: 128})
	got, reject := a.AnalyzeStatus(context.Background(), "Coding challenge", "hr@acme.com", "Please complete the assessment.")
	if reject {
		t.Fatal("unexpected reject")
	}
	if got.Category != model.CategoryTechnicalInterview {
		t.Errorf("category = %q; want %q", got.Category, model.CategoryTechnicalInterview)
	}
	if !got.AIGenerated {
		t.Error("expected AIGenerated=true")
	}
}

func TestAnalyzeStatusDegradesOnServerError(t *testing.T) {
	srv := fakeLLMServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	a := New(config.LLM{APIBase: srv.URL, Model: "test"})
	got, reject := a.AnalyzeStatus(context.Background(), "Thank you for applying", "hr@acme.com", "body")
	if reject {
		t.Fatal("outage must not reject the message")
	}
	if got.Category != model.CategoryApplied {
		t.Errorf("category = %q; want %q", got.Category, model.CategoryApplied)
	}
	if got.Description != "Status analysis unavailable" {
		t.Errorf("description = %q", got.Description)
	}
	if got.AIGenerated {
		t.Error("expected AIGenerated=false on degrade")
	}
}

func TestAnalyzeStatusDegradesOnUnreachableEndpoint(t *testing.T) {
	a := New(config.LLM{APIBase: "http://127.0.0.1:1", Model: "test"})
	got, reject := a.AnalyzeStatus(context.Background(), "subject", "sender@acme.com", "body")
	if reject {
		t.Fatal("outage must not reject the message")
	}
	if got.Category != model.CategoryApplied || got.AIGenerated {
		t.Errorf("got %+v; want degraded Applied status", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", promptBodyLimit); got != "short" {
		t.Errorf("truncate = %q; want unchanged", got)
	}
	long := strings.Repeat("x", promptBodyLimit+1)
	if got := truncate(long, promptBodyLimit); len(got) != promptBodyLimit+len("...") {
		t.Errorf("truncate length = %d; want %d", len(got), promptBodyLimit+3)
	}
	multibyte := strings.Repeat("面", promptBodyLimit+1)
	got := truncate(multibyte, promptBodyLimit)
	if !utf8.ValidString(got) {
		t.Error("truncate produced invalid UTF-8")
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q; want ... suffix", got[len(got)-12:])
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != promptBodyLimit {
		t.Errorf("truncate rune count = %d; want %d", n, promptBodyLimit)
	}
}
