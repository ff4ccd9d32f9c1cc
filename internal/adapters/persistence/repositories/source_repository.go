package repositories

import (
	"context"
	"errors"

	"ninawa-bookdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SourceRepository handles booking source data access
type SourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new booking source repository
func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *SourceRepository) WithTx(tx *gorm.DB) *SourceRepository {
	return &SourceRepository{db: tx}
}

// Create creates a booking source
func (r *SourceRepository) Create(ctx context.Context, source *models.BookingSource) error {
	return r.db.WithContext(ctx).Create(source).Error
}

// GetByID gets a booking source by ID
func (r *SourceRepository) GetByID(ctx context.Context, id uint) (*models.BookingSource, error) {
	var source models.BookingSource
	err := r.db.WithContext(ctx).First(&source, id).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// ExistsByName checks if a source name is taken
func (r *SourceRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var source models.BookingSource
	err := r.db.WithContext(ctx).Select("id").Where("source_name = ?", name).First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update saves all fields of a booking source
func (r *SourceRepository) Update(ctx context.Context, source *models.BookingSource) error {
	return r.db.WithContext(ctx).Save(source).Error
}

// Delete soft deletes a booking source
func (r *SourceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BookingSource{}, id).Error
}

// List lists booking sources with pagination
func (r *SourceRepository) List(ctx context.Context, offset, limit int) ([]*models.BookingSource, int64, error) {
	var sources []*models.BookingSource
	var total int64

	r.db.WithContext(ctx).Model(&models.BookingSource{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("source_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&sources).Error

	return sources, total, err
}
