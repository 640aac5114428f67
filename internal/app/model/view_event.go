package model

import "time"

// StoryViewEvent is the analytics record published to NATS after a view is
// accepted, and persisted by the consumer as an append-only audit row. The
// view ledger itself stays authoritative; this stream only feeds analytics.
type StoryViewEvent struct {
	ID       string    `json:"id" gorm:"primaryKey;size:36"`
	StoryID  string    `json:"story_id" gorm:"size:36;index;not null"`
	ViewerID string    `json:"viewer_id" gorm:"size:36;index;not null"`
	AuthorID string    `json:"author_id" gorm:"size:36;index"`
	ViewedAt time.Time `json:"viewed_at"`
}

const (
	ViewStreamName     = "STORY_VIEWS"
	ViewStreamSubject  = "stories.views"
	ViewConsumerName   = "view-auditor"
	ViewStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
