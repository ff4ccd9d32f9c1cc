package repositories

import (
	"context"
	"errors"

	"ninawa-bookdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// RecordFilters narrows person-record listings
type RecordFilters struct {
	CircleType  string
	IsBooked    *bool
	IsArchived  *bool
	OfficeID    *uint // office records only
	SourceID    *uint
	TableNumber string // office records only
	Search      string // matches full_name prefix
}

func applyRecordFilters(q *gorm.DB, f *RecordFilters) *gorm.DB {
	if f == nil {
		return q
	}
	if f.CircleType != "" {
		q = q.Where("circle_type = ?", f.CircleType)
	}
	if f.IsBooked != nil {
		q = q.Where("is_booked = ?", *f.IsBooked)
	}
	if f.IsArchived != nil {
		q = q.Where("is_archived = ?", *f.IsArchived)
	}
	if f.OfficeID != nil {
		q = q.Where("office_id = ?", *f.OfficeID)
	}
	if f.SourceID != nil {
		q = q.Where("booked_source_id = ?", *f.SourceID)
	}
	if f.TableNumber != "" {
		q = q.Where("table_number = ?", f.TableNumber)
	}
	if f.Search != "" {
		q = q.Where("full_name LIKE ?", f.Search+"%")
	}
	return q
}

// ============================================================
// Reviewer
// ============================================================

// ReviewerRepository handles reviewer data access
type ReviewerRepository struct {
	db *gorm.DB
}

// NewReviewerRepository creates a new reviewer repository
func NewReviewerRepository(db *gorm.DB) *ReviewerRepository {
	return &ReviewerRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *ReviewerRepository) WithTx(tx *gorm.DB) *ReviewerRepository {
	return &ReviewerRepository{db: tx}
}

// Create creates a reviewer. A preset ID is preserved (restore path).
func (r *ReviewerRepository) Create(ctx context.Context, reviewer *models.Reviewer) error {
	return r.db.WithContext(ctx).Create(reviewer).Error
}

// GetByID gets a reviewer with family members
func (r *ReviewerRepository) GetByID(ctx context.Context, id uint) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	err := r.db.WithContext(ctx).
		Preload("FamilyMembers").
		Preload("BookedSource").
		First(&reviewer, id).Error
	if err != nil {
		return nil, err
	}
	return &reviewer, nil
}

// ExistsByID checks whether a reviewer row occupies the given ID
func (r *ReviewerRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var reviewer models.Reviewer
	err := r.db.WithContext(ctx).Select("id").First(&reviewer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update saves all fields of a reviewer
func (r *ReviewerRepository) Update(ctx context.Context, reviewer *models.Reviewer) error {
	return r.db.WithContext(ctx).Save(reviewer).Error
}

// ClearBooking resets all booking and upload columns on a reviewer.
// An explicit column list: Save would re-save the preloaded BookedSource
// association and backfill the foreign key being cleared.
func (r *ReviewerRepository) ClearBooking(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Reviewer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_booked":          false,
			"booking_image":      "",
			"booking_date":       nil,
			"booking_created_at": nil,
			"booked_source_id":   nil,
			"booked_price":       0,
			"is_uploaded":        false,
			"uploaded_source_id": nil,
		}).Error
}

// Delete hard-deletes a reviewer (trash keeps the snapshot in the recycle bin)
func (r *ReviewerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Reviewer{}, id).Error
}

// List lists reviewers with pagination and filters
func (r *ReviewerRepository) List(ctx context.Context, f *RecordFilters, offset, limit int) ([]*models.Reviewer, int64, error) {
	var reviewers []*models.Reviewer
	var total int64

	applyRecordFilters(r.db.WithContext(ctx).Model(&models.Reviewer{}), f).Count(&total)

	err := applyRecordFilters(r.db.WithContext(ctx), f).
		Preload("FamilyMembers").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviewers).Error

	return reviewers, total, err
}

// ListUnsettledBySource lists unarchived reviewers linked to a booking source.
// A source linkage only exists for booked records, so no booking check is needed.
func (r *ReviewerRepository) ListUnsettledBySource(ctx context.Context, sourceID uint) ([]*models.Reviewer, error) {
	var reviewers []*models.Reviewer
	err := r.db.WithContext(ctx).
		Where("booked_source_id = ? AND is_archived = ?", sourceID, false).
		Find(&reviewers).Error
	return reviewers, err
}

// ArchiveBySource bulk-archives unarchived reviewers linked to a booking source
func (r *ReviewerRepository) ArchiveBySource(ctx context.Context, sourceID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Reviewer{}).
		Where("booked_source_id = ? AND is_archived = ?", sourceID, false).
		Update("is_archived", true)
	return result.RowsAffected, result.Error
}

// ============================================================
// OfficeRecord
// ============================================================

// OfficeRecordRepository handles office record data access
type OfficeRecordRepository struct {
	db *gorm.DB
}

// NewOfficeRecordRepository creates a new office record repository
func NewOfficeRecordRepository(db *gorm.DB) *OfficeRecordRepository {
	return &OfficeRecordRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *OfficeRecordRepository) WithTx(tx *gorm.DB) *OfficeRecordRepository {
	return &OfficeRecordRepository{db: tx}
}

// Create creates an office record. A preset ID is preserved (restore path).
func (r *OfficeRecordRepository) Create(ctx context.Context, record *models.OfficeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets an office record with family members
func (r *OfficeRecordRepository) GetByID(ctx context.Context, id uint) (*models.OfficeRecord, error) {
	var record models.OfficeRecord
	err := r.db.WithContext(ctx).
		Preload("FamilyMembers").
		Preload("Office").
		Preload("BookedSource").
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsByID checks whether an office record row occupies the given ID
func (r *OfficeRecordRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var record models.OfficeRecord
	err := r.db.WithContext(ctx).Select("id").First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update saves all fields of an office record
func (r *OfficeRecordRepository) Update(ctx context.Context, record *models.OfficeRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// ClearBooking resets all booking and upload columns on an office record.
// An explicit column list: Save would re-save the preloaded Office and
// BookedSource associations and backfill the foreign key being cleared.
func (r *OfficeRecordRepository) ClearBooking(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.OfficeRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_booked":          false,
			"booking_image":      "",
			"booking_date":       nil,
			"booking_created_at": nil,
			"booked_source_id":   nil,
			"booked_price":       0,
			"is_uploaded":        false,
			"uploaded_source_id": nil,
		}).Error
}

// Delete hard-deletes an office record (trash keeps the snapshot in the recycle bin)
func (r *OfficeRecordRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.OfficeRecord{}, id).Error
}

// List lists office records with pagination and filters
func (r *OfficeRecordRepository) List(ctx context.Context, f *RecordFilters, offset, limit int) ([]*models.OfficeRecord, int64, error) {
	var records []*models.OfficeRecord
	var total int64

	applyRecordFilters(r.db.WithContext(ctx).Model(&models.OfficeRecord{}), f).Count(&total)

	err := applyRecordFilters(r.db.WithContext(ctx), f).
		Preload("FamilyMembers").
		Preload("Office").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error

	return records, total, err
}

// ListUnsettledByOffice lists the records that still generate debt for an office:
// booked or carrying booking evidence, and not yet archived.
func (r *OfficeRecordRepository) ListUnsettledByOffice(ctx context.Context, officeID uint) ([]*models.OfficeRecord, error) {
	var records []*models.OfficeRecord
	err := r.db.WithContext(ctx).
		Where("office_id = ? AND is_archived = ? AND (is_booked = ? OR (booking_image IS NOT NULL AND booking_image <> ''))",
			officeID, false, true).
		Find(&records).Error
	return records, err
}

// ArchiveByOffice bulk-archives the debt-generating records of an office
// (same filter as ListUnsettledByOffice)
func (r *OfficeRecordRepository) ArchiveByOffice(ctx context.Context, officeID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OfficeRecord{}).
		Where("office_id = ? AND is_archived = ? AND (is_booked = ? OR (booking_image IS NOT NULL AND booking_image <> ''))",
			officeID, false, true).
		Update("is_archived", true)
	return result.RowsAffected, result.Error
}

// ListUnsettledBySource lists unarchived office records linked to a booking source
func (r *OfficeRecordRepository) ListUnsettledBySource(ctx context.Context, sourceID uint) ([]*models.OfficeRecord, error) {
	var records []*models.OfficeRecord
	err := r.db.WithContext(ctx).
		Where("booked_source_id = ? AND is_archived = ?", sourceID, false).
		Find(&records).Error
	return records, err
}

// ArchiveBySource bulk-archives unarchived office records linked to a booking source
func (r *OfficeRecordRepository) ArchiveBySource(ctx context.Context, sourceID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OfficeRecord{}).
		Where("booked_source_id = ? AND is_archived = ?", sourceID, false).
		Update("is_archived", true)
	return result.RowsAffected, result.Error
}

// ============================================================
// FamilyMember
// ============================================================

// FamilyMemberRepository handles family member data access
type FamilyMemberRepository struct {
	db *gorm.DB
}

// NewFamilyMemberRepository creates a new family member repository
func NewFamilyMemberRepository(db *gorm.DB) *FamilyMemberRepository {
	return &FamilyMemberRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction
func (r *FamilyMemberRepository) WithTx(tx *gorm.DB) *FamilyMemberRepository {
	return &FamilyMemberRepository{db: tx}
}

// Create creates a family member
func (r *FamilyMemberRepository) Create(ctx context.Context, member *models.FamilyMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a family member
func (r *FamilyMemberRepository) GetByID(ctx context.Context, id uint) (*models.FamilyMember, error) {
	var member models.FamilyMember
	err := r.db.WithContext(ctx).First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByRecord lists the family of one person record, in insertion order
func (r *FamilyMemberRepository) ListByRecord(ctx context.Context, recordType string, recordID uint) ([]*models.FamilyMember, error) {
	var members []*models.FamilyMember
	err := r.db.WithContext(ctx).
		Where("record_type = ? AND record_id = ?", recordType, recordID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// Update saves all fields of a family member
func (r *FamilyMemberRepository) Update(ctx context.Context, member *models.FamilyMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete removes a family member
func (r *FamilyMemberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FamilyMember{}, id).Error
}

// DeleteByRecord removes the whole family of one person record (trash path)
func (r *FamilyMemberRepository) DeleteByRecord(ctx context.Context, recordType string, recordID uint) error {
	return r.db.WithContext(ctx).
		Where("record_type = ? AND record_id = ?", recordType, recordID).
		Delete(&models.FamilyMember{}).Error
}
