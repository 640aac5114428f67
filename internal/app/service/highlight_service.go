package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
)

var (
	// ErrNotHighlightOwner signals that the actor does not own the
	// highlight they are trying to delete.
	ErrNotHighlightOwner = errors.New("not the highlight owner")
	// ErrMissingHighlightTitle signals a create request without a title.
	ErrMissingHighlightTitle = errors.New("highlight title is required")
	// ErrHighlightTitleTooLong signals a title over the bound.
	ErrHighlightTitleTooLong = errors.New("highlight title exceeds maximum length")
)

// HighlightService is the curator: it promotes owned stories into a
// permanent, ordered collection that survives the story's expiry.
type HighlightService interface {
	Create(ctx context.Context, ownerID string, input CreateHighlightInput) (*HighlightEnvelope, error)
	Delete(ctx context.Context, highlightID, ownerID string) error
	ListForUser(ctx context.Context, userID string) ([]HighlightEnvelope, error)
}

// CreateHighlightInput captures data required to create a highlight.
type CreateHighlightInput struct {
	StoryID      string
	Title        string
	CoverImage   string
	DisplayOrder int
}

type highlightService struct {
	highlights repository.HighlightRepository
	stories    repository.StoryRepository
	clock      Clock
}

// NewHighlightService returns a curator backed by the given repositories.
func NewHighlightService(highlights repository.HighlightRepository, stories repository.StoryRepository, clock Clock) HighlightService {
	if clock == nil {
		clock = SystemClock
	}
	return &highlightService{
		highlights: highlights,
		stories:    stories,
		clock:      clock,
	}
}

func (s *highlightService) Create(ctx context.Context, ownerID string, input CreateHighlightInput) (*HighlightEnvelope, error) {
	if input.Title == "" {
		return nil, ErrMissingHighlightTitle
	}
	if len(input.Title) > model.MaxHighlightTitleLength {
		return nil, ErrHighlightTitleTooLong
	}

	// The story must exist, but it does not have to be visible: curating
	// an already-expired story is allowed.
	story, err := s.stories.GetByID(ctx, input.StoryID)
	if err != nil {
		return nil, fmt.Errorf("load story: %w", err)
	}
	if story.AuthorID != ownerID {
		return nil, ErrNotStoryOwner
	}

	highlight := &model.Highlight{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		StoryID:      input.StoryID,
		Title:        input.Title,
		CoverImage:   input.CoverImage,
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    s.clock(),
	}
	if err := s.highlights.Create(ctx, highlight); err != nil {
		return nil, fmt.Errorf("create highlight: %w", err)
	}

	highlight.Story = story
	env := buildHighlightEnvelope(highlight)
	return &env, nil
}

func (s *highlightService) Delete(ctx context.Context, highlightID, ownerID string) error {
	highlight, err := s.highlights.GetByID(ctx, highlightID)
	if err != nil {
		return fmt.Errorf("load highlight: %w", err)
	}
	if highlight.OwnerID != ownerID {
		return ErrNotHighlightOwner
	}

	// Hard delete of the highlight row only; the story is untouched.
	if err := s.highlights.Delete(ctx, highlightID); err != nil {
		return fmt.Errorf("delete highlight: %w", err)
	}
	return nil
}

func (s *highlightService) ListForUser(ctx context.Context, userID string) ([]HighlightEnvelope, error) {
	highlights, err := s.highlights.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}

	envelopes := make([]HighlightEnvelope, 0, len(highlights))
	for i := range highlights {
		envelopes = append(envelopes, buildHighlightEnvelope(&highlights[i]))
	}
	return envelopes, nil
}
