package service

import (
	"context"
	"fmt"

	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
	"go.uber.org/zap"
)

// FeedService is the read path: it groups visible stories by author and
// computes the viewer's unseen-content flags.
type FeedService interface {
	// Feed assembles the viewer's full feed: their own stories plus
	// everyone they follow.
	Feed(ctx context.Context, viewerID string) ([]AuthorFeed, error)
	// ActiveStoriesFor assembles a feed scoped to an explicit author set.
	ActiveStoriesFor(ctx context.Context, viewerID string, authorIDs []string) ([]AuthorFeed, error)
	// UserStoriesFor assembles a single author's group. The author must
	// exist; an author with no visible stories yields an empty story list,
	// not an error.
	UserStoriesFor(ctx context.Context, userID, viewerID string) (*AuthorFeed, error)
}

// FeedServiceDeps groups the collaborators of the feed assembler.
type FeedServiceDeps struct {
	Logger     *zap.Logger
	Stories    repository.StoryRepository
	Highlights repository.HighlightRepository
	Users      repository.UserRepository
	Clock      Clock
	Cache      *FeedCache
}

type feedService struct {
	logger     *zap.Logger
	stories    repository.StoryRepository
	highlights repository.HighlightRepository
	users      repository.UserRepository
	clock      Clock
	cache      *FeedCache
}

// NewFeedService returns a feed assembler backed by the given repositories.
func NewFeedService(deps FeedServiceDeps) FeedService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &feedService{
		logger:     logger,
		stories:    deps.Stories,
		highlights: deps.Highlights,
		users:      deps.Users,
		clock:      clock,
		cache:      deps.Cache,
	}
}

func (s *feedService) Feed(ctx context.Context, viewerID string) ([]AuthorFeed, error) {
	if s.cache != nil {
		if feed, ok := s.cache.Get(ctx, viewerID); ok {
			return feed, nil
		}
	}

	followed, err := s.users.FollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load followed ids: %w", err)
	}
	authorIDs := append([]string{viewerID}, followed...)

	feed, err := s.ActiveStoriesFor(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, viewerID, feed)
	}
	return feed, nil
}

func (s *feedService) ActiveStoriesFor(ctx context.Context, viewerID string, authorIDs []string) ([]AuthorFeed, error) {
	stories, err := s.stories.ActiveByAuthors(ctx, authorIDs, s.clock())
	if err != nil {
		return nil, fmt.Errorf("load active stories: %w", err)
	}

	// Stories arrive oldest first; group them preserving that order so a
	// viewing session always starts at an author's earliest visible story.
	// Authors with no visible stories are omitted.
	groups := make(map[string]*AuthorFeed)
	var order []string
	for i := range stories {
		story := &stories[i]
		group, ok := groups[story.AuthorID]
		if !ok {
			group = &AuthorFeed{
				AuthorID: story.AuthorID,
				Stories:  make([]StoryEnvelope, 0, 4),
			}
			if story.Author != nil {
				group.Author = story.Author.Summary()
			} else {
				group.Author = model.UserSummary{ID: story.AuthorID}
			}
			groups[story.AuthorID] = group
			order = append(order, story.AuthorID)
		}

		env := buildStoryEnvelope(story, viewerID)
		if !env.HasViewed {
			group.HasUnviewed = true
		}
		group.Stories = append(group.Stories, env)
	}

	feed := make([]AuthorFeed, 0, len(order))
	for _, authorID := range order {
		group := groups[authorID]
		if err := s.attachHighlights(ctx, group); err != nil {
			return nil, err
		}
		feed = append(feed, *group)
	}
	return feed, nil
}

func (s *feedService) UserStoriesFor(ctx context.Context, userID, viewerID string) (*AuthorFeed, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	stories, err := s.stories.ActiveByAuthors(ctx, []string{userID}, s.clock())
	if err != nil {
		return nil, fmt.Errorf("load active stories: %w", err)
	}

	group := &AuthorFeed{
		AuthorID: userID,
		Author:   user.Summary(),
		Stories:  make([]StoryEnvelope, 0, len(stories)),
	}
	for i := range stories {
		env := buildStoryEnvelope(&stories[i], viewerID)
		if !env.HasViewed {
			group.HasUnviewed = true
		}
		group.Stories = append(group.Stories, env)
	}

	if err := s.attachHighlights(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *feedService) attachHighlights(ctx context.Context, group *AuthorFeed) error {
	highlights, err := s.highlights.ListByOwner(ctx, group.AuthorID)
	if err != nil {
		return fmt.Errorf("load highlights: %w", err)
	}
	group.Highlights = make([]HighlightEnvelope, 0, len(highlights))
	for i := range highlights {
		group.Highlights = append(group.Highlights, buildHighlightEnvelope(&highlights[i]))
	}
	return nil
}
