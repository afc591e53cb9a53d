// Package scan orchestrates the per-message classification funnel:
// subject pre-filter, board detector, AI status analysis, extraction
// and the idempotent record write.
package scan

import (
	"context"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/masa23/jobmaild/classify"
	"github.com/masa23/jobmaild/extract"
	"github.com/masa23/jobmaild/mailsource"
	"github.com/masa23/jobmaild/model"
)

// RecordSource is the label written to every persisted record.
const RecordSource = "mailbox"

const defaultWorkers = 4

type StatusAnalyzer interface {
	AnalyzeStatus(ctx context.Context, subject, sender, body string) (model.StatusResult, bool)
}

type RecordSink interface {
	Upsert(ctx context.Context, rec *model.ApplicationRecord) error
}

type BodyArchiver interface {
	Archive(r io.Reader) (string, error)
}

type Scanner struct {
	Source   mailsource.Source
	Analyzer StatusAnalyzer
	Sink     RecordSink
	Archive  BodyArchiver // optional
	Workers  int
}

type Result struct {
	Success     bool `json:"success"`
	Count       int  `json:"count"`
	FilteredOut int  `json:"filtered_out"`
	DaysBack    int  `json:"days_back"`
}

// Scan lists candidate messages from the last daysBack days and runs
// each through the funnel. Messages are independent; a bounded worker
// pool keeps concurrent fetches and AI calls within the external
// services' rate limits. A single message failing is logged and counted
// as filtered; only a credentials failure aborts the scan.
func (sc *Scanner) Scan(ctx context.Context, daysBack int) (Result, error) {
	if daysBack < 1 {
		daysBack = 1
	}
	since := time.Now().AddDate(0, 0, -daysBack)

	refs, err := sc.Source.List(ctx, since)
	if err != nil {
		return Result{DaysBack: daysBack}, err
	}

	var persisted, filtered atomic.Int64

	workers := sc.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ref := range refs {
		g.Go(func() error {
			if sc.processMessage(gctx, ref) {
				persisted.Add(1)
			} else {
				filtered.Add(1)
			}
			return nil
		})
	}
	// workers never return errors; failures are counted per message
	_ = g.Wait()

	return Result{
		Success:     true,
		Count:       int(persisted.Load()),
		FilteredOut: int(filtered.Load()),
		DaysBack:    daysBack,
	}, nil
}

// processMessage runs the funnel for one message and reports whether a
// record was persisted. Which stage dropped a message is logged here
// and nowhere else; callers only see aggregate counts.
func (sc *Scanner) processMessage(ctx context.Context, ref mailsource.MessageRef) bool {
	msg, err := sc.Source.Fetch(ctx, ref)
	if err != nil {
		log.Printf("fetch %s failed: %v", ref.ID, err)
		return false
	}

	if classify.ClassifySubject(msg.Subject, msg.Sender) == classify.VerdictSkip {
		log.Printf("subject filter dropped %s subject=%q", msg.ID, msg.Subject)
		return false
	}
	if classify.IsBoardNoise(msg.Subject, msg.Sender, msg.BodyText) {
		log.Printf("board detector dropped %s subject=%q", msg.ID, msg.Subject)
		return false
	}

	status, reject := sc.Analyzer.AnalyzeStatus(ctx, msg.Subject, msg.Sender, msg.BodyText)
	if reject {
		log.Printf("analyzer rejected %s subject=%q", msg.ID, msg.Subject)
		return false
	}

	rec := &model.ApplicationRecord{
		MessageID:   msg.ID,
		Subject:     msg.Subject,
		Sender:      msg.Sender,
		SentAt:      msg.SentAt,
		Company:     extract.Company(msg.Sender, msg.Subject),
		Position:    extract.Position(msg.Subject, msg.BodyText),
		Status:      status,
		Source:      RecordSource,
		BodyExcerpt: excerpt(msg.BodyText, model.BodyExcerptLimit),
	}

	if sc.Archive != nil && msg.BodyText != "" {
		key, err := sc.Archive.Archive(strings.NewReader(msg.BodyText))
		if err != nil {
			// the record is still worth keeping without the archive
			log.Printf("archive %s failed: %v", msg.ID, err)
		} else {
			rec.ObjectStorageKey = key
		}
	}

	if err := sc.Sink.Upsert(ctx, rec); err != nil {
		log.Printf("upsert %s failed: %v", msg.ID, err)
		return false
	}
	return true
}

// excerpt keeps the first limit characters, never splitting a rune.
func excerpt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
