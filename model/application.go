package model

import (
	"strings"
	"time"
)

// Category is the closed set of application lifecycle states.
type Category string

const (
	CategoryApplied            Category = "Applied"
	CategoryUnderReview        Category = "Under Review"
	CategoryInterviewScheduled Category = "Interview Scheduled"
	CategoryTechnicalInterview Category = "Technical Interview"
	CategoryFinalRound         Category = "Final Round"
	CategoryOfferReceived      Category = "Offer Received"
	CategoryRejected           Category = "Rejected"
	CategoryWithdrawn          Category = "Withdrawn"
	CategoryFollowUpRequired   Category = "Follow-up Required"
)

var Categories = []Category{
	CategoryApplied,
	CategoryUnderReview,
	CategoryInterviewScheduled,
	CategoryTechnicalInterview,
	CategoryFinalRound,
	CategoryOfferReceived,
	CategoryRejected,
	CategoryWithdrawn,
	CategoryFollowUpRequired,
}

// NormalizeCategory maps free text onto the closed category set.
// Anything unrecognized falls back to Applied with ok=false.
func NormalizeCategory(s string) (Category, bool) {
	t := strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), t) {
			return c, true
		}
	}
	return CategoryApplied, false
}

type StatusResult struct {
	Category    Category `gorm:"type:varchar(64);not null" json:"category"`
	Description string   `gorm:"type:text;not null" json:"description"`
	AIGenerated bool     `gorm:"not null" json:"ai_generated"`
}

// BodyExcerptLimit is how much of the message body is kept on the record.
// The full body lives in object storage.
const BodyExcerptLimit = 500

type ApplicationRecord struct {
	MessageID        string       `gorm:"type:varchar(255);primaryKey" json:"message_id"`
	Subject          string       `gorm:"type:text;not null" json:"subject"`
	Sender           string       `gorm:"type:text;not null" json:"sender"`
	SentAt           time.Time    `gorm:"not null; index" json:"sent_at"`
	Company          string       `gorm:"type:varchar(255);not null" json:"company"`
	Position         string       `gorm:"type:varchar(255);not null" json:"position"`
	Status           StatusResult `gorm:"embedded;embeddedPrefix:status_" json:"status"`
	Source           string       `gorm:"type:varchar(64);not null" json:"source"`
	BodyExcerpt      string       `gorm:"type:text;not null" json:"body_excerpt"`
	ObjectStorageKey string       `gorm:"type:varchar(512)" json:"object_storage_key"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
