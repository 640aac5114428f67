package repository

import (
	"context"
	"errors"

	"github.com/snapbite/snapbite/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrHighlightNotFound signals that the requested highlight does not exist.
	ErrHighlightNotFound = errors.New("highlight not found")
)

// HighlightRepository defines the data access contract for highlights.
//
// Reads always join through to the live story row. They deliberately skip the
// visibility computation: a highlight outlives its story's expiry.
type HighlightRepository interface {
	Create(ctx context.Context, highlight *model.Highlight) error
	GetByID(ctx context.Context, id string) (*model.Highlight, error)
	// ListByOwner returns the owner's highlights ordered by display order,
	// ties broken by creation time.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Highlight, error)
	Delete(ctx context.Context, id string) error
}

type highlightRepository struct {
	db *gorm.DB
}

// NewHighlightRepository returns a GORM-backed HighlightRepository.
func NewHighlightRepository(db *gorm.DB) HighlightRepository {
	return &highlightRepository{db: db}
}

func (r *highlightRepository) Create(ctx context.Context, highlight *model.Highlight) error {
	return r.db.WithContext(ctx).Create(highlight).Error
}

func (r *highlightRepository) GetByID(ctx context.Context, id string) (*model.Highlight, error) {
	var highlight model.Highlight
	err := r.db.WithContext(ctx).
		Preload("Story").
		Where("id = ?", id).
		First(&highlight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHighlightNotFound
		}
		return nil, err
	}
	return &highlight, nil
}

func (r *highlightRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Highlight, error) {
	var highlights []model.Highlight
	err := r.db.WithContext(ctx).
		Preload("Story").
		Where("owner_id = ?", ownerID).
		Order("display_order ASC, created_at ASC").
		Find(&highlights).Error
	if err != nil {
		return nil, err
	}
	return highlights, nil
}

func (r *highlightRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Highlight{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHighlightNotFound
	}
	return nil
}
