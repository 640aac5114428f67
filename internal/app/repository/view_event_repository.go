package repository

import (
	"context"

	"github.com/snapbite/snapbite/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewEventRepository defines the data access contract for the append-only
// view analytics audit table.
type ViewEventRepository interface {
	Create(ctx context.Context, event *model.StoryViewEvent) error
}

type viewEventRepository struct {
	db *gorm.DB
}

// NewViewEventRepository returns a GORM-backed ViewEventRepository.
func NewViewEventRepository(db *gorm.DB) ViewEventRepository {
	return &viewEventRepository{db: db}
}

func (r *viewEventRepository) Create(ctx context.Context, event *model.StoryViewEvent) error {
	// JetStream redeliveries may replay an event id; inserting it again is
	// a no-op rather than an error.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event).Error
}
