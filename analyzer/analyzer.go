// Package analyzer calls an external LLM to gate and classify messages
// that survived the rule-based filters.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/masa23/jobmaild/config"
	"github.com/masa23/jobmaild/model"
)

// RejectStatus is the sentinel the model returns for messages that are
// not part of a real application lifecycle.
const RejectStatus = "NOT_APPLICATION"

const promptBodyLimit = 1000

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type StatusAnalyzer struct {
	conf       config.LLM
	httpClient *http.Client
}

func New(conf config.LLM) *StatusAnalyzer {
	return &StatusAnalyzer{
		conf: conf,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// AnalyzeStatus classifies a candidate message. reject=true means the
// model judged it job-board noise and no record should be written.
// A transport or parse failure degrades to a low-confidence Applied
// status instead of failing the scan.
func (a *StatusAnalyzer) AnalyzeStatus(ctx context.Context, subject, sender, body string) (model.StatusResult, bool) {
	prompt := buildPrompt(subject, sender, body)

	response, err := a.callLLM(ctx, prompt)
	if err != nil {
		log.Printf("status analysis unavailable for subject=%q: %v", subject, err)
		return model.StatusResult{
			Category:    model.CategoryApplied,
			Description: "Status analysis unavailable",
			AIGenerated: false,
		}, false
	}

	return ParseStatusResponse(response)
}

func buildPrompt(subject, sender, body string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this job-related email and determine the current application status.\n\n")
	fmt.Fprintf(&sb, "Subject: %s\nFrom: %s\nBody: %s\n\n", subject, sender, truncate(body, promptBodyLimit))
	sb.WriteString("First decide whether this is truly an email about one specific application " +
		"lifecycle from a specific employer. If it is job-board spam, a newsletter, a digest " +
		"or a generic hiring announcement, respond with:\nStatus: " + RejectStatus + "\n\n")
	sb.WriteString("Otherwise classify the status as one of these categories:\n")
	for _, c := range model.Categories {
		fmt.Fprintf(&sb, "- %q\n", string(c))
	}
	sb.WriteString("\nRespond in this exact format:\nStatus: [STATUS]\nDescription: [Brief 1-2 sentence description of the current situation]\n")
	return sb.String()
}

var (
	statusLineRe = regexp.MustCompile(`(?m)^\s*Status:\s*(.+)$`)
	descLineRe   = regexp.MustCompile(`(?m)^\s*Description:\s*(.+)$`)
)

// ParseStatusResponse extracts the two labeled lines from the model
// output. The two extractions are independent and never fail: a missing
// status defaults to Applied and a missing description to a placeholder.
func ParseStatusResponse(response string) (model.StatusResult, bool) {
	status := "Applied"
	if m := statusLineRe.FindStringSubmatch(response); m != nil {
		status = strings.Trim(strings.TrimSpace(m[1]), `"[]`)
	}

	if strings.EqualFold(status, RejectStatus) {
		return model.StatusResult{}, true
	}

	description := "Application status to be determined"
	if m := descLineRe.FindStringSubmatch(response); m != nil {
		description = strings.TrimSpace(m[1])
	}

	category, known := model.NormalizeCategory(status)
	return model.StatusResult{
		Category:    category,
		Description: description,
		AIGenerated: known,
	}, false
}

func (a *StatusAnalyzer) callLLM(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       a.conf.Model,
		Temperature: a.conf.Temperature,
		MaxTokens:   a.conf.MaxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.conf.APIBase+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.conf.APIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("LLM API status %d: %s", resp.StatusCode, string(body))
	}

	var llmResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return llmResp.Choices[0].Message.Content, nil
}

// truncate limits the prompt body to maxLen characters on a rune boundary.
func truncate(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	return string([]rune(text)[:maxLen]) + "..."
}
