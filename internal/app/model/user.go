package model

import "time"

// User is the minimal identity/profile record joined into story and
// highlight responses.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Handle      string    `json:"handle" gorm:"size:64;uniqueIndex;not null"`
	DisplayName string    `json:"display_name" gorm:"size:128"`
	AvatarURL   string    `json:"avatar_url,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Summary returns the display projection embedded in response envelopes.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Handle:      u.Handle,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// UserSummary is the public projection of a user.
type UserSummary struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Follow is a directed edge in the social graph: follower sees followee's
// stories in their feed.
type Follow struct {
	FollowerID string    `json:"follower_id" gorm:"primaryKey;size:36"`
	FolloweeID string    `json:"followee_id" gorm:"primaryKey;size:36"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Establishment is a venue a story can be tagged with.
type Establishment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Address   string    `json:"address,omitempty" gorm:"size:255"`
	City      string    `json:"city,omitempty" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
