package model

import "time"

// MaxHighlightTitleLength bounds the required highlight title.
const MaxHighlightTitleLength = 120

// Highlight is an owner-curated, expiry-immune pointer to a story. It holds
// no copy of the story's media: reads join through StoryID to the live row,
// regardless of the story's active flag or expiry.
type Highlight struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	OwnerID      string    `json:"owner_id" gorm:"size:36;index;not null"`
	StoryID      string    `json:"story_id" gorm:"size:36;index;not null"`
	Title        string    `json:"title" gorm:"size:120;not null"`
	CoverImage   string    `json:"cover_image,omitempty" gorm:"type:text"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Story *Story `json:"story,omitempty" gorm:"foreignKey:StoryID"`
}
