package model

import "time"

// StoryTTL is the fixed visibility window of a story. ExpiresAt is computed
// once at creation and never mutated afterwards.
const StoryTTL = 24 * time.Hour

// MaxStoryContentLength bounds the optional caption text.
const MaxStoryContentLength = 500

// MediaType is the closed set of media kinds a story can carry.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether the media type is a recognized member of the enum.
func (m MediaType) Valid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}

// Story is a single piece of ephemeral content stored in Postgres.
//
// Active is an explicit kill-switch independent of time-based expiry: owner
// deletion and the periodic sweep both clear it, but read paths must never
// trust it alone (see VisibleAt).
type Story struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	AuthorID        string    `json:"author_id" gorm:"size:36;index;not null"`
	Content         string    `json:"content,omitempty" gorm:"size:500"`
	MediaURL        string    `json:"media_url" gorm:"type:text;not null"`
	MediaType       MediaType `json:"media_type" gorm:"size:16;not null;default:image"`
	Location        string    `json:"location,omitempty" gorm:"size:255"`
	EstablishmentID *string   `json:"establishment_id,omitempty" gorm:"size:36;index"`
	Active          bool      `json:"active" gorm:"not null;default:true;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt       time.Time `json:"expires_at" gorm:"index;not null"`

	Author        *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Establishment *Establishment `json:"establishment,omitempty" gorm:"foreignKey:EstablishmentID"`
	Views         []StoryView    `json:"-" gorm:"foreignKey:StoryID"`
}

// VisibleAt computes effective visibility from both the stored flag and the
// wall clock. Natural expiry never requires a write to be correct for reads.
func (s *Story) VisibleAt(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// StoryView records that a viewer has seen a story at least once. The
// composite primary key is the core invariant: a repeat view by the same
// viewer updates ViewedAt, never inserts a second row.
type StoryView struct {
	StoryID  string    `json:"story_id" gorm:"primaryKey;size:36"`
	ViewerID string    `json:"viewer_id" gorm:"primaryKey;size:36"`
	ViewedAt time.Time `json:"viewed_at" gorm:"not null"`

	Viewer *User `json:"viewer,omitempty" gorm:"foreignKey:ViewerID"`
}
