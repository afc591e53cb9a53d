// Package mailsource provides the candidate message feed for the scan
// pipeline. Backends return raw, whitespace-normalized messages and are
// read-only against the mailbox.
package mailsource

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrNoCredentials marks the scan-fatal "needs (re)authorization"
// condition, as opposed to transient per-message failures.
var ErrNoCredentials = errors.New("mailbox credentials missing or expired")

// MessageRef identifies a candidate message; the ID is opaque and stable
// across repeated fetches.
type MessageRef struct {
	ID string
}

type RawMessage struct {
	ID       string
	Subject  string
	Sender   string
	SentAt   time.Time
	BodyText string
}

type Source interface {
	// List returns at most the backend's result cap of message refs
	// received since the given time.
	List(ctx context.Context, since time.Time) ([]MessageRef, error)
	// Fetch loads headers and body for one message. Failures are
	// per-item and do not invalidate the remaining refs.
	Fetch(ctx context.Context, ref MessageRef) (*RawMessage, error)
}

var (
	newlineRe    = regexp.MustCompile(`[\r\n]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeBody collapses newlines and runs of whitespace so the
// classifier stages see one clean line of text.
func NormalizeBody(s string) string {
	s = newlineRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
