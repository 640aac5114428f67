package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
)

type mockStoryRepository struct {
	createFn            func(ctx context.Context, story *model.Story) error
	getFn               func(ctx context.Context, id string) (*model.Story, error)
	activeByAuthorsFn   func(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error)
	deactivateFn        func(ctx context.Context, id string) error
	deactivateExpiredFn func(ctx context.Context, now time.Time) (int64, error)
	upsertViewFn        func(ctx context.Context, view *model.StoryView) error
}

func (m *mockStoryRepository) Create(ctx context.Context, story *model.Story) error {
	if m.createFn != nil {
		return m.createFn(ctx, story)
	}
	return nil
}

func (m *mockStoryRepository) GetByID(ctx context.Context, id string) (*model.Story, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrStoryNotFound
}

func (m *mockStoryRepository) ActiveByAuthors(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error) {
	if m.activeByAuthorsFn != nil {
		return m.activeByAuthorsFn(ctx, authorIDs, now)
	}
	return nil, nil
}

func (m *mockStoryRepository) Deactivate(ctx context.Context, id string) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, id)
	}
	return nil
}

func (m *mockStoryRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deactivateExpiredFn != nil {
		return m.deactivateExpiredFn(ctx, now)
	}
	return 0, nil
}

func (m *mockStoryRepository) UpsertView(ctx context.Context, view *model.StoryView) error {
	if m.upsertViewFn != nil {
		return m.upsertViewFn(ctx, view)
	}
	return nil
}

type mockEstablishmentRepository struct {
	createFn func(ctx context.Context, establishment *model.Establishment) error
	getFn    func(ctx context.Context, id string) (*model.Establishment, error)
}

func (m *mockEstablishmentRepository) Create(ctx context.Context, establishment *model.Establishment) error {
	if m.createFn != nil {
		return m.createFn(ctx, establishment)
	}
	return nil
}

func (m *mockEstablishmentRepository) GetByID(ctx context.Context, id string) (*model.Establishment, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrEstablishmentNotFound
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestStoryService_Create(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	var stored *model.Story
	repo := &mockStoryRepository{
		createFn: func(ctx context.Context, story *model.Story) error {
			stored = story
			return nil
		},
		getFn: func(ctx context.Context, id string) (*model.Story, error) {
			if stored == nil || stored.ID != id {
				return nil, repository.ErrStoryNotFound
			}
			enriched := *stored
			enriched.Author = &model.User{ID: stored.AuthorID, Handle: "alice"}
			return &enriched, nil
		},
	}

	svc := NewStoryService(StoryServiceDeps{
		Stories: repo,
		Clock:   fixedClock(t0),
	})

	env, err := svc.Create(context.Background(), "alice-id", CreateStoryInput{
		MediaURL: "https://cdn.example.com/ramen.jpg",
		Content:  "best tonkotsu in town",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if stored == nil {
		t.Fatal("expected story to be persisted")
	}
	if !stored.Active {
		t.Fatal("expected created story to be active")
	}
	if !stored.ExpiresAt.Equal(t0.Add(model.StoryTTL)) {
		t.Fatalf("expected expiry at creation + TTL, got %v", stored.ExpiresAt)
	}
	if stored.MediaType != model.MediaTypeImage {
		t.Fatalf("expected default media type image, got %s", stored.MediaType)
	}
	if env.ViewCount != 0 || env.HasViewed {
		t.Fatalf("fresh story must report zero views, got count=%d hasViewed=%v", env.ViewCount, env.HasViewed)
	}
	if env.Author.Handle != "alice" {
		t.Fatalf("expected author summary in envelope, got %+v", env.Author)
	}
}

func TestStoryService_Create_InvalidMediaType(t *testing.T) {
	svc := NewStoryService(StoryServiceDeps{Stories: &mockStoryRepository{}})

	_, err := svc.Create(context.Background(), "alice-id", CreateStoryInput{
		MediaURL:  "https://cdn.example.com/clip.gif",
		MediaType: "gif",
	})
	if !errors.Is(err, ErrInvalidMediaType) {
		t.Fatalf("expected ErrInvalidMediaType, got %v", err)
	}
}

func TestStoryService_Create_UnknownEstablishment(t *testing.T) {
	estID := "missing-venue"
	svc := NewStoryService(StoryServiceDeps{
		Stories:        &mockStoryRepository{},
		Establishments: &mockEstablishmentRepository{},
	})

	_, err := svc.Create(context.Background(), "alice-id", CreateStoryInput{
		MediaURL:        "https://cdn.example.com/ramen.jpg",
		EstablishmentID: &estID,
	})
	if !errors.Is(err, repository.ErrEstablishmentNotFound) {
		t.Fatalf("expected ErrEstablishmentNotFound, got %v", err)
	}
}

func TestStoryService_View_Idempotent(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	story := &model.Story{
		ID:        "story-1",
		AuthorID:  "alice-id",
		Active:    true,
		CreatedAt: t0,
		ExpiresAt: t0.Add(model.StoryTTL),
	}

	ledger := make(map[string]time.Time)
	repo := &mockStoryRepository{
		getFn: func(ctx context.Context, id string) (*model.Story, error) {
			return story, nil
		},
		upsertViewFn: func(ctx context.Context, view *model.StoryView) error {
			ledger[view.StoryID+"/"+view.ViewerID] = view.ViewedAt
			return nil
		},
	}

	now := t0
	svc := NewStoryService(StoryServiceDeps{
		Stories: repo,
		Clock:   func() time.Time { return now },
	})

	now = t0.Add(time.Hour)
	if err := svc.View(context.Background(), "story-1", "bob-id"); err != nil {
		t.Fatalf("first View returned error: %v", err)
	}

	now = t0.Add(2 * time.Hour)
	if err := svc.View(context.Background(), "story-1", "bob-id"); err != nil {
		t.Fatalf("second View returned error: %v", err)
	}

	if len(ledger) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d", len(ledger))
	}
	if got := ledger["story-1/bob-id"]; !got.Equal(t0.Add(2 * time.Hour)) {
		t.Fatalf("expected viewed_at refreshed to second view time, got %v", got)
	}
}

func TestStoryService_View_Expired(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	story := &model.Story{
		ID:        "story-1",
		AuthorID:  "alice-id",
		Active:    true,
		CreatedAt: t0,
		ExpiresAt: t0.Add(model.StoryTTL),
	}

	upserts := 0
	repo := &mockStoryRepository{
		getFn: func(ctx context.Context, id string) (*model.Story, error) {
			return story, nil
		},
		upsertViewFn: func(ctx context.Context, view *model.StoryView) error {
			upserts++
			return nil
		},
	}

	// 25 hours in: past expiry even though no sweep has run.
	svc := NewStoryService(StoryServiceDeps{
		Stories: repo,
		Clock:   fixedClock(t0.Add(25 * time.Hour)),
	})

	err := svc.View(context.Background(), "story-1", "bob-id")
	if !errors.Is(err, ErrStoryNotActive) {
		t.Fatalf("expected ErrStoryNotActive, got %v", err)
	}
	if upserts != 0 {
		t.Fatalf("expected no ledger write for expired story, got %d", upserts)
	}
}

func TestStoryService_View_Deleted(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	story := &model.Story{
		ID:        "story-1",
		AuthorID:  "alice-id",
		Active:    false,
		CreatedAt: t0,
		ExpiresAt: t0.Add(model.StoryTTL),
	}

	repo := &mockStoryRepository{
		getFn: func(ctx context.Context, id string) (*model.Story, error) {
			return story, nil
		},
	}

	svc := NewStoryService(StoryServiceDeps{
		Stories: repo,
		Clock:   fixedClock(t0.Add(time.Hour)),
	})

	err := svc.View(context.Background(), "story-1", "bob-id")
	if !errors.Is(err, ErrStoryNotActive) {
		t.Fatalf("expected ErrStoryNotActive for deleted story, got %v", err)
	}
}

func TestStoryService_Delete(t *testing.T) {
	story := &model.Story{ID: "story-1", AuthorID: "alice-id", Active: true}

	deactivated := false
	repo := &mockStoryRepository{
		getFn: func(ctx context.Context, id string) (*model.Story, error) {
			return story, nil
		},
		deactivateFn: func(ctx context.Context, id string) error {
			deactivated = true
			return nil
		},
	}

	svc := NewStoryService(StoryServiceDeps{Stories: repo})
	if err := svc.Delete(context.Background(), "story-1", "alice-id"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deactivated {
		t.Fatal("expected Deactivate to be called")
	}
}

func TestStoryService_Delete_NotOwner(t *testing.T) {
	story := &model.Story{ID: "story-1", AuthorID: "alice-id", Active: true}

	repo := &mockStoryRepository{
		getFn: func(ctx context.Context, id string) (*model.Story, error) {
			return story, nil
		},
		deactivateFn: func(ctx context.Context, id string) error {
			t.Fatal("Deactivate must not be called for a non-owner")
			return nil
		},
	}

	svc := NewStoryService(StoryServiceDeps{Stories: repo})
	err := svc.Delete(context.Background(), "story-1", "mallory-id")
	if !errors.Is(err, ErrNotStoryOwner) {
		t.Fatalf("expected ErrNotStoryOwner, got %v", err)
	}
}

func TestStoryService_Delete_NotFound(t *testing.T) {
	svc := NewStoryService(StoryServiceDeps{Stories: &mockStoryRepository{}})
	err := svc.Delete(context.Background(), "missing", "alice-id")
	if !errors.Is(err, repository.ErrStoryNotFound) {
		t.Fatalf("expected ErrStoryNotFound, got %v", err)
	}
}

func TestStoryService_SweepExpired(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	repo := &mockStoryRepository{
		deactivateExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			if !now.Equal(t0) {
				t.Fatalf("expected sweep to use injected clock, got %v", now)
			}
			return 7, nil
		},
	}

	svc := NewStoryService(StoryServiceDeps{Stories: repo, Clock: fixedClock(t0)})
	count, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7 stories swept, got %d", count)
	}
}
