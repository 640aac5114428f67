package service

import (
	"time"

	"github.com/snapbite/snapbite/internal/app/model"
)

// recentViewersLimit bounds the viewer identities attached to owner-facing
// story analytics.
const recentViewersLimit = 10

// StoryEnvelope is the enriched story record returned by all read paths.
type StoryEnvelope struct {
	ID              string               `json:"id"`
	AuthorID        string               `json:"author_id"`
	Content         string               `json:"content,omitempty"`
	MediaURL        string               `json:"media_url"`
	MediaType       model.MediaType      `json:"media_type"`
	Location        string               `json:"location,omitempty"`
	EstablishmentID *string              `json:"establishment_id,omitempty"`
	Active          bool                 `json:"active"`
	CreatedAt       time.Time            `json:"created_at"`
	ExpiresAt       time.Time            `json:"expires_at"`
	Author          model.UserSummary    `json:"author"`
	Establishment   *model.Establishment `json:"establishment,omitempty"`
	ViewCount       int                  `json:"view_count"`
	HasViewed       bool                 `json:"has_viewed"`
	RecentViewers   []RecentViewer       `json:"recent_viewers,omitempty"`
}

// RecentViewer pairs a viewer summary with when they last saw the story.
// Only the story's author receives these identities; everyone else gets the
// bare count.
type RecentViewer struct {
	model.UserSummary
	ViewedAt time.Time `json:"viewed_at"`
}

// AuthorFeed groups one author's active stories with their highlights and
// the viewer's aggregate unseen flag.
type AuthorFeed struct {
	AuthorID    string              `json:"author_id"`
	Author      model.UserSummary   `json:"author"`
	Stories     []StoryEnvelope     `json:"stories"`
	HasUnviewed bool                `json:"has_unviewed"`
	Highlights  []HighlightEnvelope `json:"highlights"`
}

// HighlightEnvelope is a highlight with its story's media fields read
// through the reference, bypassing the story's visibility computation.
type HighlightEnvelope struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	StoryID      string         `json:"story_id"`
	Title        string         `json:"title"`
	CoverImage   string         `json:"cover_image,omitempty"`
	DisplayOrder int            `json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	Story        HighlightStory `json:"story"`
}

// HighlightStory is the raw media projection of the referenced story.
type HighlightStory struct {
	ID        string          `json:"id"`
	MediaURL  string          `json:"media_url"`
	MediaType model.MediaType `json:"media_type"`
	Content   string          `json:"content,omitempty"`
}

// buildStoryEnvelope projects a story for the given viewer. Viewer
// identities are attached only when the viewer is the author.
func buildStoryEnvelope(story *model.Story, viewerID string) StoryEnvelope {
	env := StoryEnvelope{
		ID:              story.ID,
		AuthorID:        story.AuthorID,
		Content:         story.Content,
		MediaURL:        story.MediaURL,
		MediaType:       story.MediaType,
		Location:        story.Location,
		EstablishmentID: story.EstablishmentID,
		Active:          story.Active,
		CreatedAt:       story.CreatedAt,
		ExpiresAt:       story.ExpiresAt,
		Establishment:   story.Establishment,
		ViewCount:       len(story.Views),
	}

	if story.Author != nil {
		env.Author = story.Author.Summary()
	} else {
		env.Author = model.UserSummary{ID: story.AuthorID}
	}

	for _, view := range story.Views {
		if view.ViewerID == viewerID {
			env.HasViewed = true
			break
		}
	}

	if viewerID == story.AuthorID {
		// Views are preloaded newest first.
		for _, view := range story.Views {
			if len(env.RecentViewers) == recentViewersLimit {
				break
			}
			summary := model.UserSummary{ID: view.ViewerID}
			if view.Viewer != nil {
				summary = view.Viewer.Summary()
			}
			env.RecentViewers = append(env.RecentViewers, RecentViewer{
				UserSummary: summary,
				ViewedAt:    view.ViewedAt,
			})
		}
	}

	return env
}

// buildHighlightEnvelope projects a highlight with its join-through story
// media.
func buildHighlightEnvelope(highlight *model.Highlight) HighlightEnvelope {
	env := HighlightEnvelope{
		ID:           highlight.ID,
		OwnerID:      highlight.OwnerID,
		StoryID:      highlight.StoryID,
		Title:        highlight.Title,
		CoverImage:   highlight.CoverImage,
		DisplayOrder: highlight.DisplayOrder,
		CreatedAt:    highlight.CreatedAt,
	}
	if highlight.Story != nil {
		env.Story = HighlightStory{
			ID:        highlight.Story.ID,
			MediaURL:  highlight.Story.MediaURL,
			MediaType: highlight.Story.MediaType,
			Content:   highlight.Story.Content,
		}
	}
	return env
}
