package repositories

import (
	"context"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// RecycleBinRepository handles trashed-record snapshots
type RecycleBinRepository struct {
	db *gorm.DB
}

// NewRecycleBinRepository creates a new recycle bin repository
func NewRecycleBinRepository(db *gorm.DB) *RecycleBinRepository {
	return &RecycleBinRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *RecycleBinRepository) WithTx(tx *gorm.DB) *RecycleBinRepository {
	return &RecycleBinRepository{db: tx}
}

// Create stores a snapshot
func (r *RecycleBinRepository) Create(ctx context.Context, entry *models.RecycleBinEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets a bin entry
func (r *RecycleBinRepository) GetByID(ctx context.Context, id uint) (*models.RecycleBinEntry, error) {
	var entry models.RecycleBinEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes a bin entry (restore consumed it, or purge)
func (r *RecycleBinRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RecycleBinEntry{}, id).Error
}

// ListSince lists entries deleted after the cutoff, newest first.
// Retention is enforced here as a query filter, not by a sweep.
func (r *RecycleBinRepository) ListSince(ctx context.Context, cutoff time.Time, offset, limit int) ([]*models.RecycleBinEntry, int64, error) {
	var entries []*models.RecycleBinEntry
	var total int64

	r.db.WithContext(ctx).Model(&models.RecycleBinEntry{}).Where("deleted_at > ?", cutoff).Count(&total)

	err := r.db.WithContext(ctx).
		Where("deleted_at > ?", cutoff).
		Order("deleted_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

// DeleteOlderThan physically purges entries deleted before the cutoff
func (r *RecycleBinRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("deleted_at < ?", cutoff).
		Delete(&models.RecycleBinEntry{})
	return result.RowsAffected, result.Error
}
