package repositories

import (
	"context"

	"ninawa-bookdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// The settlement ledgers are append-only: these repositories expose no
// update or delete methods. The running total for an entity is always a
// fresh SUM over immutable rows, never a stored counter.

// OfficeSettlementRepository handles the office payment ledger
type OfficeSettlementRepository struct {
	db *gorm.DB
}

// NewOfficeSettlementRepository creates a new office settlement repository
func NewOfficeSettlementRepository(db *gorm.DB) *OfficeSettlementRepository {
	return &OfficeSettlementRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *OfficeSettlementRepository) WithTx(tx *gorm.DB) *OfficeSettlementRepository {
	return &OfficeSettlementRepository{db: tx}
}

// Create appends a ledger entry
func (r *OfficeSettlementRepository) Create(ctx context.Context, entry *models.OfficeSettlement) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// SumByOffice returns the lifetime total paid by an office
func (r *OfficeSettlementRepository) SumByOffice(ctx context.Context, officeID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.OfficeSettlement{}).
		Where("office_id = ?", officeID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// ListByOffice lists an office's ledger entries, newest first
func (r *OfficeSettlementRepository) ListByOffice(ctx context.Context, officeID uint, offset, limit int) ([]*models.OfficeSettlement, int64, error) {
	var entries []*models.OfficeSettlement
	var total int64

	r.db.WithContext(ctx).Model(&models.OfficeSettlement{}).Where("office_id = ?", officeID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("office_id = ?", officeID).
		Order("transaction_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

// ListRecent lists the most recent ledger entries across all offices
func (r *OfficeSettlementRepository) ListRecent(ctx context.Context, limit int) ([]*models.OfficeSettlement, error) {
	var entries []*models.OfficeSettlement
	err := r.db.WithContext(ctx).
		Preload("Office").
		Order("transaction_date DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// SourceSettlementRepository handles the booking source payment ledger
type SourceSettlementRepository struct {
	db *gorm.DB
}

// NewSourceSettlementRepository creates a new source settlement repository
func NewSourceSettlementRepository(db *gorm.DB) *SourceSettlementRepository {
	return &SourceSettlementRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *SourceSettlementRepository) WithTx(tx *gorm.DB) *SourceSettlementRepository {
	return &SourceSettlementRepository{db: tx}
}

// Create appends a ledger entry
func (r *SourceSettlementRepository) Create(ctx context.Context, entry *models.SourceSettlement) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// SumBySource returns the lifetime total paid by a booking source
func (r *SourceSettlementRepository) SumBySource(ctx context.Context, sourceID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.SourceSettlement{}).
		Where("source_id = ?", sourceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// ListBySource lists a source's ledger entries, newest first
func (r *SourceSettlementRepository) ListBySource(ctx context.Context, sourceID uint, offset, limit int) ([]*models.SourceSettlement, int64, error) {
	var entries []*models.SourceSettlement
	var total int64

	r.db.WithContext(ctx).Model(&models.SourceSettlement{}).Where("source_id = ?", sourceID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("transaction_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

// ListRecent lists the most recent ledger entries across all sources
func (r *SourceSettlementRepository) ListRecent(ctx context.Context, limit int) ([]*models.SourceSettlement, error) {
	var entries []*models.SourceSettlement
	err := r.db.WithContext(ctx).
		Preload("Source").
		Order("transaction_date DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
