package repository

import (
	"context"
	"errors"

	"github.com/snapbite/snapbite/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrEstablishmentNotFound signals that the referenced venue does not exist.
	ErrEstablishmentNotFound = errors.New("establishment not found")
)

// EstablishmentRepository defines the data access contract for the venue
// directory consulted during story creation.
type EstablishmentRepository interface {
	Create(ctx context.Context, establishment *model.Establishment) error
	GetByID(ctx context.Context, id string) (*model.Establishment, error)
}

type establishmentRepository struct {
	db *gorm.DB
}

// NewEstablishmentRepository returns a GORM-backed EstablishmentRepository.
func NewEstablishmentRepository(db *gorm.DB) EstablishmentRepository {
	return &establishmentRepository{db: db}
}

func (r *establishmentRepository) Create(ctx context.Context, establishment *model.Establishment) error {
	return r.db.WithContext(ctx).Create(establishment).Error
}

func (r *establishmentRepository) GetByID(ctx context.Context, id string) (*model.Establishment, error) {
	var establishment model.Establishment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&establishment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstablishmentNotFound
		}
		return nil, err
	}
	return &establishment, nil
}
