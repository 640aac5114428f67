package repository

import (
	"context"
	"errors"
	"time"

	"github.com/snapbite/snapbite/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrStoryNotFound signals that the requested story does not exist.
	ErrStoryNotFound = errors.New("story not found")
)

// StoryRepository defines the data access contract for stories and their
// view ledger.
type StoryRepository interface {
	Create(ctx context.Context, story *model.Story) error
	GetByID(ctx context.Context, id string) (*model.Story, error)
	// ActiveByAuthors returns all stories by the given authors that are
	// still effectively visible at now, oldest first, with author,
	// establishment and view rows eager-loaded.
	ActiveByAuthors(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error)
	// Deactivate clears the active flag. It does not touch view rows or
	// highlights referencing the story.
	Deactivate(ctx context.Context, id string) error
	// DeactivateExpired flips active=false on every story whose expiry has
	// passed, in one statement, and reports how many rows changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	// UpsertView inserts the (story, viewer) ledger row or refreshes its
	// viewed_at if it already exists. Atomic against concurrent first views.
	UpsertView(ctx context.Context, view *model.StoryView) error
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository returns a GORM-backed StoryRepository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *model.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *storyRepository) GetByID(ctx context.Context, id string) (*model.Story, error) {
	var story model.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Establishment").
		Preload("Views", func(db *gorm.DB) *gorm.DB {
			return db.Order("viewed_at DESC")
		}).
		Preload("Views.Viewer").
		Where("id = ?", id).
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) ActiveByAuthors(ctx context.Context, authorIDs []string, now time.Time) ([]model.Story, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	var stories []model.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Establishment").
		Preload("Views", func(db *gorm.DB) *gorm.DB {
			return db.Order("viewed_at DESC")
		}).
		Preload("Views.Viewer").
		Where("author_id IN ? AND active = ? AND expires_at > ?", authorIDs, true, now).
		Order("created_at ASC").
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStoryNotFound
	}
	return nil
}

func (r *storyRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("active = ? AND expires_at < ?", true, now).
		Update("active", false)
	return result.RowsAffected, result.Error
}

func (r *storyRepository) UpsertView(ctx context.Context, view *model.StoryView) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "story_id"}, {Name: "viewer_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"viewed_at": view.ViewedAt}),
		}).
		Create(view).Error
}
