package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
)

type mockUserRepository struct {
	createFn      func(ctx context.Context, user *model.User) error
	getFn         func(ctx context.Context, id string) (*model.User, error)
	getByHandleFn func(ctx context.Context, handle string) (*model.User, error)
	followedFn    func(ctx context.Context, userID string) ([]string, error)
	followFn      func(ctx context.Context, followerID, followeeID string) error
	unfollowFn    func(ctx context.Context, followerID, followeeID string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByHandle(ctx context.Context, handle string) (*model.User, error) {
	if m.getByHandleFn != nil {
		return m.getByHandleFn(ctx, handle)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FollowedIDs(ctx context.Context, userID string) ([]string, error) {
	if m.followedFn != nil {
		return m.followedFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	if m.followFn != nil {
		return m.followFn(ctx, followerID, followeeID)
	}
	return nil
}

func (m *mockUserRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if m.unfollowFn != nil {
		return m.unfollowFn(ctx, followerID, followeeID)
	}
	return nil
}

type mockHighlightRepository struct {
	createFn func(ctx context.Context, highlight *model.Highlight) error
	getFn    func(ctx context.Context, id string) (*model.Highlight, error)
	listFn   func(ctx context.Context, ownerID string) ([]model.Highlight, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockHighlightRepository) Create(ctx context.Context, highlight *model.Highlight) error {
	if m.createFn != nil {
		return m.createFn(ctx, highlight)
	}
	return nil
}

func (m *mockHighlightRepository) GetByID(ctx context.Context, id string) (*model.Highlight, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrHighlightNotFound
}

func (m *mockHighlightRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Highlight, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockHighlightRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func activeStory(id, authorID string, createdAt time.Time, views ...model.StoryView) model.Story {
	return model.Story{
		ID:        id,
		AuthorID:  authorID,
		MediaURL:  "https://cdn.example.com/" + id + ".jpg",
		MediaType: model.MediaTypeImage,
		Active:    true,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(model.StoryTTL),
		Author:    &model.User{ID: authorID, Handle: authorID},
		Views:     views,
	}
}

func TestFeedService_GroupsByAuthorOldestFirst(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	// The repository returns visible stories ordered created_at ascending
	// across all requested authors.
	stories := []model.Story{
		activeStory("s1", "alice", t0),
		activeStory("s2", "bob", t0.Add(30*time.Minute)),
		activeStory("s3", "alice", t0.Add(time.Hour)),
	}

	svc := NewFeedService(FeedServiceDeps{
		Stories: &mockStoryRepository{
			activeByAuthorsFn: func(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error) {
				return stories, nil
			},
		},
		Highlights: &mockHighlightRepository{},
		Users:      &mockUserRepository{},
		Clock:      fixedClock(t0.Add(2 * time.Hour)),
	})

	feed, err := svc.ActiveStoriesFor(context.Background(), "carol", []string{"alice", "bob", "dave"})
	if err != nil {
		t.Fatalf("ActiveStoriesFor returned error: %v", err)
	}

	// dave has no visible stories and must be omitted entirely.
	if len(feed) != 2 {
		t.Fatalf("expected 2 author groups, got %d", len(feed))
	}
	if feed[0].AuthorID != "alice" || feed[1].AuthorID != "bob" {
		t.Fatalf("unexpected group order: %s, %s", feed[0].AuthorID, feed[1].AuthorID)
	}
	if len(feed[0].Stories) != 2 {
		t.Fatalf("expected 2 stories for alice, got %d", len(feed[0].Stories))
	}
	if feed[0].Stories[0].ID != "s1" || feed[0].Stories[1].ID != "s3" {
		t.Fatalf("expected alice's stories oldest first, got %s then %s",
			feed[0].Stories[0].ID, feed[0].Stories[1].ID)
	}
}

func TestFeedService_HasUnviewed(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	stories := []model.Story{
		activeStory("s1", "alice", t0, model.StoryView{StoryID: "s1", ViewerID: "carol", ViewedAt: t0.Add(time.Minute)}),
		activeStory("s2", "alice", t0.Add(time.Hour)),
	}

	svc := NewFeedService(FeedServiceDeps{
		Stories: &mockStoryRepository{
			activeByAuthorsFn: func(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error) {
				return stories, nil
			},
		},
		Highlights: &mockHighlightRepository{},
		Users:      &mockUserRepository{},
		Clock:      fixedClock(t0.Add(2 * time.Hour)),
	})

	feed, err := svc.ActiveStoriesFor(context.Background(), "carol", []string{"alice"})
	if err != nil {
		t.Fatalf("ActiveStoriesFor returned error: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 group, got %d", len(feed))
	}
	if !feed[0].HasUnviewed {
		t.Fatal("expected hasUnviewed=true while s2 is unseen")
	}
	if !feed[0].Stories[0].HasViewed || feed[0].Stories[0].ViewCount != 1 {
		t.Fatalf("expected s1 viewed once by carol, got hasViewed=%v count=%d",
			feed[0].Stories[0].HasViewed, feed[0].Stories[0].ViewCount)
	}

	// Once carol has seen everything, the flag clears.
	stories[1].Views = []model.StoryView{{StoryID: "s2", ViewerID: "carol", ViewedAt: t0.Add(90 * time.Minute)}}
	feed, err = svc.ActiveStoriesFor(context.Background(), "carol", []string{"alice"})
	if err != nil {
		t.Fatalf("ActiveStoriesFor returned error: %v", err)
	}
	if feed[0].HasUnviewed {
		t.Fatal("expected hasUnviewed=false after all stories viewed")
	}
}

func TestFeedService_RecentViewersOnlyForAuthor(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	views := []model.StoryView{
		{StoryID: "s1", ViewerID: "bob", ViewedAt: t0.Add(23 * time.Hour), Viewer: &model.User{ID: "bob", Handle: "bob"}},
	}
	stories := []model.Story{activeStory("s1", "alice", t0, views...)}

	svc := NewFeedService(FeedServiceDeps{
		Stories: &mockStoryRepository{
			activeByAuthorsFn: func(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error) {
				return stories, nil
			},
		},
		Highlights: &mockHighlightRepository{},
		Users:      &mockUserRepository{},
		Clock:      fixedClock(t0.Add(23*time.Hour + time.Minute)),
	})

	// The author sees viewer identities.
	feed, err := svc.ActiveStoriesFor(context.Background(), "alice", []string{"alice"})
	if err != nil {
		t.Fatalf("ActiveStoriesFor returned error: %v", err)
	}
	env := feed[0].Stories[0]
	if len(env.RecentViewers) != 1 || env.RecentViewers[0].ID != "bob" {
		t.Fatalf("expected author to see bob in recent viewers, got %+v", env.RecentViewers)
	}
	if !env.RecentViewers[0].ViewedAt.Equal(t0.Add(23 * time.Hour)) {
		t.Fatalf("unexpected viewed_at: %v", env.RecentViewers[0].ViewedAt)
	}

	// Everyone else only gets the count.
	feed, err = svc.ActiveStoriesFor(context.Background(), "carol", []string{"alice"})
	if err != nil {
		t.Fatalf("ActiveStoriesFor returned error: %v", err)
	}
	env = feed[0].Stories[0]
	if env.RecentViewers != nil {
		t.Fatalf("expected no viewer identities for non-author, got %+v", env.RecentViewers)
	}
	if env.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", env.ViewCount)
	}
}

func TestFeedService_AttachesHighlights(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	stories := []model.Story{activeStory("s1", "alice", t0)}

	highlights := []model.Highlight{
		{
			ID: "h1", OwnerID: "alice", StoryID: "old-story", Title: "best bites", DisplayOrder: 0,
			Story: &model.Story{ID: "old-story", MediaURL: "https://cdn.example.com/old.jpg", MediaType: model.MediaTypeImage, Active: false},
		},
	}

	svc := NewFeedService(FeedServiceDeps{
		Stories: &mockStoryRepository{
			activeByAuthorsFn: func(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error) {
				return stories, nil
			},
		},
		Highlights: &mockHighlightRepository{
			listFn: func(ctx context.Context, ownerID string) ([]model.Highlight, error) {
				if ownerID != "alice" {
					return nil, nil
				}
				return highlights, nil
			},
		},
		Users: &mockUserRepository{},
		Clock: fixedClock(t0.Add(time.Hour)),
	})

	feed, err := svc.ActiveStoriesFor(context.Background(), "carol", []string{"alice"})
	if err != nil {
		t.Fatalf("ActiveStoriesFor returned error: %v", err)
	}
	if len(feed[0].Highlights) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(feed[0].Highlights))
	}
	// The highlight reads the story's raw media even though it is inactive.
	if feed[0].Highlights[0].Story.MediaURL != "https://cdn.example.com/old.jpg" {
		t.Fatalf("expected join-through media, got %+v", feed[0].Highlights[0].Story)
	}
}

func TestFeedService_UserStoriesFor_NotFound(t *testing.T) {
	svc := NewFeedService(FeedServiceDeps{
		Stories:    &mockStoryRepository{},
		Highlights: &mockHighlightRepository{},
		Users:      &mockUserRepository{},
	})

	_, err := svc.UserStoriesFor(context.Background(), "ghost", "carol")
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFeedService_UserStoriesFor_EmptyList(t *testing.T) {
	svc := NewFeedService(FeedServiceDeps{
		Stories:    &mockStoryRepository{},
		Highlights: &mockHighlightRepository{},
		Users: &mockUserRepository{
			getFn: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Handle: "alice"}, nil
			},
		},
	})

	group, err := svc.UserStoriesFor(context.Background(), "alice", "carol")
	if err != nil {
		t.Fatalf("UserStoriesFor returned error: %v", err)
	}
	if len(group.Stories) != 0 {
		t.Fatalf("expected empty story list, got %d", len(group.Stories))
	}
	if group.HasUnviewed {
		t.Fatal("expected hasUnviewed=false with no stories")
	}
}

func TestFeedService_Feed_IncludesSelfAndFollowed(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	var requested []string
	svc := NewFeedService(FeedServiceDeps{
		Stories: &mockStoryRepository{
			activeByAuthorsFn: func(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error) {
				requested = authorIDs
				return nil, nil
			},
		},
		Highlights: &mockHighlightRepository{},
		Users: &mockUserRepository{
			followedFn: func(ctx context.Context, userID string) ([]string, error) {
				return []string{"alice", "bob"}, nil
			},
		},
		Clock: fixedClock(t0),
	})

	if _, err := svc.Feed(context.Background(), "carol"); err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(requested) != 3 || requested[0] != "carol" {
		t.Fatalf("expected viewer plus followed set, got %v", requested)
	}
}
