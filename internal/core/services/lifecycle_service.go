package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lifecycle service errors
var (
	ErrBinEntryNotFound = errors.New("recycle bin entry not found")
	ErrBinEntryExpired  = errors.New("recycle bin entry has expired")
	ErrRestoreConflict  = errors.New("a record with the original id already exists")
)

// binSnapshot is the serialized form of a trashed record. Exactly one of
// Reviewer/OfficeRecord is set, matching Kind. Frozen price, timestamps
// and family members are preserved for a faithful restore.
type binSnapshot struct {
	Kind          domain.RecordKind      `json:"kind"`
	Reviewer      *models.Reviewer       `json:"reviewer,omitempty"`
	OfficeRecord  *models.OfficeRecord   `json:"office_record,omitempty"`
	FamilyMembers []*models.FamilyMember `json:"family_members"`
}

// LifecycleService governs archive, trash and restore transitions.
// Archival keeps the frozen price for audit history; trash snapshots the
// full record into the recycle bin before the live rows are deleted.
type LifecycleService struct {
	db               *gorm.DB
	reviewerRepo     *repositories.ReviewerRepository
	officeRecordRepo *repositories.OfficeRecordRepository
	familyRepo       *repositories.FamilyMemberRepository
	binRepo          *repositories.RecycleBinRepository
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	db *gorm.DB,
	reviewerRepo *repositories.ReviewerRepository,
	officeRecordRepo *repositories.OfficeRecordRepository,
	familyRepo *repositories.FamilyMemberRepository,
	binRepo *repositories.RecycleBinRepository,
) *LifecycleService {
	return &LifecycleService{
		db:               db,
		reviewerRepo:     reviewerRepo,
		officeRecordRepo: officeRecordRepo,
		familyRepo:       familyRepo,
		binRepo:          binRepo,
	}
}

// setArchived flips the archive flag on a record of either kind
func (s *LifecycleService) setArchived(ctx context.Context, kind domain.RecordKind, id uint, archived bool) error {
	switch kind {
	case domain.KindReviewer:
		reviewer, err := s.reviewerRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReviewerNotFound
			}
			return err
		}
		reviewer.IsArchived = archived
		return s.reviewerRepo.Update(ctx, reviewer)
	case domain.KindOfficeRecord:
		record, err := s.officeRecordRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOfficeRecordNotFound
			}
			return err
		}
		record.IsArchived = archived
		return s.officeRecordRepo.Update(ctx, record)
	default:
		return domain.ErrInvalidRecordKind
	}
}

// Archive removes a record from the debt aggregation without touching its
// frozen price
func (s *LifecycleService) Archive(ctx context.Context, kind domain.RecordKind, id uint) error {
	return s.setArchived(ctx, kind, id, true)
}

// Unarchive returns a record to the aggregator's active set. If its debt
// was already settled this re-creates debt; accepted behavior, the next
// settlement pass reconciles it.
func (s *LifecycleService) Unarchive(ctx context.Context, kind domain.RecordKind, id uint) error {
	return s.setArchived(ctx, kind, id, false)
}

// Trash snapshots a record with its family members into the recycle bin
// and deletes the live rows, in one transaction so no concurrent read can
// see neither copy.
func (s *LifecycleService) Trash(ctx context.Context, kind domain.RecordKind, id uint, deletedBy string) (*models.RecycleBinEntry, error) {
	var entry *models.RecycleBinEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviewerRepo := s.reviewerRepo.WithTx(tx)
		officeRecordRepo := s.officeRecordRepo.WithTx(tx)
		familyRepo := s.familyRepo.WithTx(tx)
		binRepo := s.binRepo.WithTx(tx)

		snapshot := binSnapshot{Kind: kind}
		var fullName string

		switch kind {
		case domain.KindReviewer:
			reviewer, err := reviewerRepo.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrReviewerNotFound
				}
				return err
			}
			family, err := familyRepo.ListByRecord(ctx, string(kind), id)
			if err != nil {
				return err
			}
			reviewer.FamilyMembers = nil
			reviewer.BookedSource = nil
			snapshot.Reviewer = reviewer
			snapshot.FamilyMembers = family
			fullName = reviewer.FullName
		case domain.KindOfficeRecord:
			record, err := officeRecordRepo.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrOfficeRecordNotFound
				}
				return err
			}
			family, err := familyRepo.ListByRecord(ctx, string(kind), id)
			if err != nil {
				return err
			}
			record.FamilyMembers = nil
			record.Office = nil
			record.BookedSource = nil
			snapshot.OfficeRecord = record
			snapshot.FamilyMembers = family
			fullName = record.FullName
		default:
			return domain.ErrInvalidRecordKind
		}

		raw, err := json.Marshal(&snapshot)
		if err != nil {
			return err
		}

		entry = &models.RecycleBinEntry{
			OriginalID:   id,
			RecordType:   string(kind),
			FullName:     fullName,
			DeletedBy:    deletedBy,
			DeletedAt:    time.Now(),
			OriginalData: datatypes.JSON(raw),
		}
		if err := binRepo.Create(ctx, entry); err != nil {
			return err
		}

		if err := familyRepo.DeleteByRecord(ctx, string(kind), id); err != nil {
			return err
		}
		switch kind {
		case domain.KindReviewer:
			return reviewerRepo.Delete(ctx, id)
		default:
			return officeRecordRepo.Delete(ctx, id)
		}
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Restore re-inserts a trashed record from its snapshot, preserving the
// original id and created_at so listing order survives the round trip.
// The bin entry is consumed. Entries past the retention window or whose
// original id is live again are rejected.
func (s *LifecycleService) Restore(ctx context.Context, binEntryID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviewerRepo := s.reviewerRepo.WithTx(tx)
		officeRecordRepo := s.officeRecordRepo.WithTx(tx)
		familyRepo := s.familyRepo.WithTx(tx)
		binRepo := s.binRepo.WithTx(tx)

		entry, err := binRepo.GetByID(ctx, binEntryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBinEntryNotFound
			}
			return err
		}

		if time.Since(entry.DeletedAt) > domain.BinRetention {
			return ErrBinEntryExpired
		}

		var snapshot binSnapshot
		if err := json.Unmarshal(entry.OriginalData, &snapshot); err != nil {
			return err
		}

		switch snapshot.Kind {
		case domain.KindReviewer:
			if snapshot.Reviewer == nil {
				return ErrBinEntryNotFound
			}
			exists, err := reviewerRepo.ExistsByID(ctx, entry.OriginalID)
			if err != nil {
				return err
			}
			if exists {
				return ErrRestoreConflict
			}
			if err := reviewerRepo.Create(ctx, snapshot.Reviewer); err != nil {
				return err
			}
		case domain.KindOfficeRecord:
			if snapshot.OfficeRecord == nil {
				return ErrBinEntryNotFound
			}
			exists, err := officeRecordRepo.ExistsByID(ctx, entry.OriginalID)
			if err != nil {
				return err
			}
			if exists {
				return ErrRestoreConflict
			}
			if err := officeRecordRepo.Create(ctx, snapshot.OfficeRecord); err != nil {
				return err
			}
		default:
			return domain.ErrInvalidRecordKind
		}

		for _, member := range snapshot.FamilyMembers {
			if err := familyRepo.Create(ctx, member); err != nil {
				return err
			}
		}

		return binRepo.Delete(ctx, entry.ID)
	})
}

// ListBin lists restorable bin entries: only those inside the retention
// window are visible, enforced by query filter rather than a sweep.
func (s *LifecycleService) ListBin(ctx context.Context, offset, limit int) ([]*models.RecycleBinEntry, int64, error) {
	cutoff := time.Now().Add(-domain.BinRetention)
	return s.binRepo.ListSince(ctx, cutoff, offset, limit)
}
