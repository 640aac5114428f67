package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
	"github.com/snapbite/snapbite/internal/infra/metrics"
	"go.uber.org/zap"
)

var (
	// ErrNotStoryOwner signals that the actor does not own the story they
	// are trying to mutate.
	ErrNotStoryOwner = errors.New("not the story owner")
	// ErrStoryNotActive signals an action against a story that is expired
	// or deleted. Retrying cannot help.
	ErrStoryNotActive = errors.New("story is no longer active")
	// ErrInvalidMediaType signals an unrecognized media kind.
	ErrInvalidMediaType = errors.New("media type must be image or video")
	// ErrMissingMediaURL signals a create request without media.
	ErrMissingMediaURL = errors.New("media url is required")
	// ErrContentTooLong signals caption text over the bound.
	ErrContentTooLong = errors.New("content exceeds maximum length")
)

// ViewEventPublisher emits view analytics events. Publishing is best-effort:
// a failure never rejects the view itself.
type ViewEventPublisher interface {
	Publish(event model.StoryViewEvent) error
}

// StoryService is the story lifecycle manager: creation, view recording,
// owner deletion and the batch expiry sweep.
type StoryService interface {
	Create(ctx context.Context, authorID string, input CreateStoryInput) (*StoryEnvelope, error)
	View(ctx context.Context, storyID, viewerID string) error
	Delete(ctx context.Context, storyID, requesterID string) error
	SweepExpired(ctx context.Context) (int64, error)
}

// StoryServiceDeps groups the collaborators of the lifecycle manager.
type StoryServiceDeps struct {
	Logger         *zap.Logger
	Stories        repository.StoryRepository
	Establishments repository.EstablishmentRepository
	Clock          Clock
	Publisher      ViewEventPublisher
	FeedCache      *FeedCache
}

type storyService struct {
	logger         *zap.Logger
	stories        repository.StoryRepository
	establishments repository.EstablishmentRepository
	clock          Clock
	publisher      ViewEventPublisher
	feedCache      *FeedCache
}

// NewStoryService returns a lifecycle manager backed by the given
// repositories.
func NewStoryService(deps StoryServiceDeps) StoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &storyService{
		logger:         logger,
		stories:        deps.Stories,
		establishments: deps.Establishments,
		clock:          clock,
		publisher:      deps.Publisher,
		feedCache:      deps.FeedCache,
	}
}

// CreateStoryInput captures data required to create a story.
type CreateStoryInput struct {
	Content         string
	MediaURL        string
	MediaType       model.MediaType
	Location        string
	EstablishmentID *string
}

func (s *storyService) Create(ctx context.Context, authorID string, input CreateStoryInput) (*StoryEnvelope, error) {
	if input.MediaURL == "" {
		return nil, ErrMissingMediaURL
	}
	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = model.MediaTypeImage
	}
	if !mediaType.Valid() {
		return nil, ErrInvalidMediaType
	}
	if len(input.Content) > model.MaxStoryContentLength {
		return nil, ErrContentTooLong
	}

	if input.EstablishmentID != nil {
		if _, err := s.establishments.GetByID(ctx, *input.EstablishmentID); err != nil {
			return nil, fmt.Errorf("resolve establishment: %w", err)
		}
	}

	now := s.clock()
	story := &model.Story{
		ID:              uuid.New().String(),
		AuthorID:        authorID,
		Content:         input.Content,
		MediaURL:        input.MediaURL,
		MediaType:       mediaType,
		Location:        input.Location,
		EstablishmentID: input.EstablishmentID,
		Active:          true,
		CreatedAt:       now,
		ExpiresAt:       now.Add(model.StoryTTL),
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	metrics.StoriesCreated.Inc()

	// Re-read for the author/establishment summaries the envelope carries.
	created, err := s.stories.GetByID(ctx, story.ID)
	if err != nil {
		return nil, fmt.Errorf("load created story: %w", err)
	}

	env := buildStoryEnvelope(created, authorID)
	return &env, nil
}

func (s *storyService) View(ctx context.Context, storyID, viewerID string) error {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return fmt.Errorf("load story: %w", err)
	}

	now := s.clock()
	if !story.VisibleAt(now) {
		return ErrStoryNotActive
	}

	view := &model.StoryView{
		StoryID:  storyID,
		ViewerID: viewerID,
		ViewedAt: now,
	}
	if err := s.stories.UpsertView(ctx, view); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	metrics.ViewsRecorded.Inc()

	if s.feedCache != nil {
		// The viewer's own feed now has a stale unseen flag.
		s.feedCache.Invalidate(ctx, viewerID)
	}

	if s.publisher != nil {
		event := model.StoryViewEvent{
			ID:       uuid.New().String(),
			StoryID:  storyID,
			ViewerID: viewerID,
			AuthorID: story.AuthorID,
			ViewedAt: now,
		}
		go func() {
			if err := s.publisher.Publish(event); err != nil {
				s.logger.Error("failed to publish view event",
					zap.String("story_id", storyID),
					zap.String("viewer_id", viewerID),
					zap.Error(err))
			}
		}()
	}

	return nil
}

func (s *storyService) Delete(ctx context.Context, storyID, requesterID string) error {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return fmt.Errorf("load story: %w", err)
	}
	if story.AuthorID != requesterID {
		return ErrNotStoryOwner
	}

	if err := s.stories.Deactivate(ctx, storyID); err != nil {
		return fmt.Errorf("deactivate story: %w", err)
	}

	if s.feedCache != nil {
		s.feedCache.Invalidate(ctx, requesterID)
	}
	return nil
}

func (s *storyService) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.stories.DeactivateExpired(ctx, s.clock())
	if err != nil {
		return 0, fmt.Errorf("deactivate expired stories: %w", err)
	}
	if count > 0 {
		metrics.StoriesSwept.Add(float64(count))
	}
	return count, nil
}
