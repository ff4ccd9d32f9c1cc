package repositories

import (
	"context"
	"errors"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// OfficeRepository handles office data access
type OfficeRepository struct {
	db *gorm.DB
}

// NewOfficeRepository creates a new office repository
func NewOfficeRepository(db *gorm.DB) *OfficeRepository {
	return &OfficeRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *OfficeRepository) WithTx(tx *gorm.DB) *OfficeRepository {
	return &OfficeRepository{db: tx}
}

// Create creates an office
func (r *OfficeRepository) Create(ctx context.Context, office *models.Office) error {
	return r.db.WithContext(ctx).Create(office).Error
}

// GetByID gets an office by ID
func (r *OfficeRepository) GetByID(ctx context.Context, id uint) (*models.Office, error) {
	var office models.Office
	err := r.db.WithContext(ctx).First(&office, id).Error
	if err != nil {
		return nil, err
	}
	return &office, nil
}

// GetByUsername gets an office by login username
func (r *OfficeRepository) GetByUsername(ctx context.Context, username string) (*models.Office, error) {
	var office models.Office
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&office).Error
	if err != nil {
		return nil, err
	}
	return &office, nil
}

// GetByName gets an office by display name
func (r *OfficeRepository) GetByName(ctx context.Context, name string) (*models.Office, error) {
	var office models.Office
	err := r.db.WithContext(ctx).Where("office_name = ?", name).First(&office).Error
	if err != nil {
		return nil, err
	}
	return &office, nil
}

// ExistsByName checks if an office name is taken
func (r *OfficeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var office models.Office
	err := r.db.WithContext(ctx).Select("id").Where("office_name = ?", name).First(&office).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ExistsByUsername checks if an office username is taken
func (r *OfficeRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var office models.Office
	err := r.db.WithContext(ctx).Select("id").Where("username = ?", username).First(&office).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update saves all fields of an office
func (r *OfficeRepository) Update(ctx context.Context, office *models.Office) error {
	return r.db.WithContext(ctx).Save(office).Error
}

// Delete soft deletes an office
func (r *OfficeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Office{}, id).Error
}

// List lists offices with pagination
func (r *OfficeRepository) List(ctx context.Context, offset, limit int) ([]*models.Office, int64, error) {
	var offices []*models.Office
	var total int64

	r.db.WithContext(ctx).Model(&models.Office{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("office_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&offices).Error

	return offices, total, err
}

// Heartbeat records office presence
func (r *OfficeRepository) Heartbeat(ctx context.Context, id uint, seenAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Office{}).
		Where("id = ?", id).
		Update("last_seen", seenAt).Error
}

// SetForceLogout flips the cooperative kick flag
func (r *OfficeRepository) SetForceLogout(ctx context.Context, id uint, value bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Office{}).
		Where("id = ?", id).
		Update("force_logout", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountStale counts offices whose last heartbeat is older than the window
func (r *OfficeRepository) CountStale(ctx context.Context, window time.Duration) (int64, error) {
	var count int64
	cutoff := time.Now().Add(-window)
	err := r.db.WithContext(ctx).
		Model(&models.Office{}).
		Where("last_seen IS NULL OR last_seen < ?", cutoff).
		Count(&count).Error
	return count, err
}
