package services

import (
	"context"
	"errors"
	"log"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/core/domain"

	"gorm.io/gorm"
)

// SettlementService combines the debt aggregator, the payment ledger and
// the reconciliation step. Total owed is always derived fresh from the
// live record rows; total paid is always a sum over immutable ledger rows.
// Neither is ever stored as a running balance.
type SettlementService struct {
	db               *gorm.DB
	officeRepo       *repositories.OfficeRepository
	sourceRepo       *repositories.SourceRepository
	reviewerRepo     *repositories.ReviewerRepository
	officeRecordRepo *repositories.OfficeRecordRepository
	officeSettleRepo *repositories.OfficeSettlementRepository
	sourceSettleRepo *repositories.SourceSettlementRepository
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	db *gorm.DB,
	officeRepo *repositories.OfficeRepository,
	sourceRepo *repositories.SourceRepository,
	reviewerRepo *repositories.ReviewerRepository,
	officeRecordRepo *repositories.OfficeRecordRepository,
	officeSettleRepo *repositories.OfficeSettlementRepository,
	sourceSettleRepo *repositories.SourceSettlementRepository,
) *SettlementService {
	return &SettlementService{
		db:               db,
		officeRepo:       officeRepo,
		sourceRepo:       sourceRepo,
		reviewerRepo:     reviewerRepo,
		officeRecordRepo: officeRecordRepo,
		officeSettleRepo: officeSettleRepo,
		sourceSettleRepo: sourceSettleRepo,
	}
}

// computeOwedOffice sums the frozen prices of an office's debt-generating
// records. Records predating price freezing (frozen price 0) fall back to
// the office's current price for their circle type.
func (s *SettlementService) computeOwedOffice(ctx context.Context, officeRepo *repositories.OfficeRepository, recordRepo *repositories.OfficeRecordRepository, officeID uint) (float64, int, error) {
	office, err := officeRepo.GetByID(ctx, officeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrOfficeNotFound
		}
		return 0, 0, err
	}

	records, err := recordRepo.ListUnsettledByOffice(ctx, officeID)
	if err != nil {
		return 0, 0, err
	}

	var total float64
	for _, rec := range records {
		if rec.BookedPrice > 0 {
			total += rec.BookedPrice
		} else {
			total += office.PriceFor(domain.CircleType(rec.CircleType))
		}
	}
	return total, len(records), nil
}

// computeOwedSource sums frozen prices across both person collections for
// records linked to a booking source. Source linkage only exists on booked
// records, so only the archive flag filters here.
func (s *SettlementService) computeOwedSource(ctx context.Context, sourceRepo *repositories.SourceRepository, reviewerRepo *repositories.ReviewerRepository, recordRepo *repositories.OfficeRecordRepository, sourceID uint) (float64, int, error) {
	source, err := sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrSourceNotFound
		}
		return 0, 0, err
	}

	reviewers, err := reviewerRepo.ListUnsettledBySource(ctx, sourceID)
	if err != nil {
		return 0, 0, err
	}
	records, err := recordRepo.ListUnsettledBySource(ctx, sourceID)
	if err != nil {
		return 0, 0, err
	}

	var total float64
	for _, rec := range reviewers {
		if rec.BookedPrice > 0 {
			total += rec.BookedPrice
		} else {
			total += source.PriceFor(domain.CircleType(rec.CircleType))
		}
	}
	for _, rec := range records {
		if rec.BookedPrice > 0 {
			total += rec.BookedPrice
		} else {
			total += source.PriceFor(domain.CircleType(rec.CircleType))
		}
	}
	return total, len(reviewers) + len(records), nil
}

// ComputeOwed returns the raw total owed by an office or source, not yet
// netted against payments. Deterministic for a fixed record set.
func (s *SettlementService) ComputeOwed(ctx context.Context, entityType domain.EntityType, entityID uint) (float64, error) {
	switch entityType {
	case domain.EntityOffice:
		total, _, err := s.computeOwedOffice(ctx, s.officeRepo, s.officeRecordRepo, entityID)
		return total, err
	case domain.EntitySource:
		total, _, err := s.computeOwedSource(ctx, s.sourceRepo, s.reviewerRepo, s.officeRecordRepo, entityID)
		return total, err
	default:
		return 0, domain.ErrInvalidEntityType
	}
}

// TotalPaid returns the lifetime sum of ledger entries for an entity
func (s *SettlementService) TotalPaid(ctx context.Context, entityType domain.EntityType, entityID uint) (float64, error) {
	switch entityType {
	case domain.EntityOffice:
		return s.officeSettleRepo.SumByOffice(ctx, entityID)
	case domain.EntitySource:
		return s.sourceSettleRepo.SumBySource(ctx, entityID)
	default:
		return 0, domain.ErrInvalidEntityType
	}
}

// Balance returns the reconciliation view for an entity. Outstanding is
// floored at zero: overpayment is absorbed, never carried as credit.
func (s *SettlementService) Balance(ctx context.Context, entityType domain.EntityType, entityID uint) (*domain.Balance, error) {
	owed, err := s.ComputeOwed(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	paid, err := s.TotalPaid(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	outstanding := owed - paid
	if outstanding < 0 {
		outstanding = 0
	}

	return &domain.Balance{
		TotalOwed:   owed,
		TotalPaid:   paid,
		Outstanding: outstanding,
	}, nil
}

// SettleInput represents a settlement payment
type SettleInput struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Notes      string  `json:"notes,omitempty"`
	RecordedBy string  `json:"recorded_by,omitempty"`
}

// SettleResult reports the outcome of one settlement pass
type SettleResult struct {
	TotalOwed     float64 `json:"total_owed"`
	TotalPaid     float64 `json:"total_paid"`
	Outstanding   float64 `json:"outstanding"`
	Archived      bool    `json:"archived"`
	ArchivedCount int64   `json:"archived_count"`
}

// Settle records a payment and reconciles the entity's balance in one
// database transaction: ledger insert, fresh debt aggregation, and, on
// full settlement, bulk archival of the qualifying records. The just-
// recorded payment is included in the paid total directly rather than
// re-queried, so there is no read-after-write race inside the pass.
func (s *SettlementService) Settle(ctx context.Context, entityType domain.EntityType, entityID uint, input *SettleInput) (*SettleResult, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidSettlementAmount
	}

	switch entityType {
	case domain.EntityOffice, domain.EntitySource:
	default:
		return nil, domain.ErrInvalidEntityType
	}

	var result SettleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entityType == domain.EntityOffice {
			return s.settleOffice(ctx, tx, entityID, input, &result)
		}
		return s.settleSource(ctx, tx, entityID, input, &result)
	})
	if err != nil {
		return nil, err
	}

	if result.Archived {
		log.Printf("💰 %s %d fully settled, %d records archived", entityType, entityID, result.ArchivedCount)
	}
	return &result, nil
}

func (s *SettlementService) settleOffice(ctx context.Context, tx *gorm.DB, officeID uint, input *SettleInput, result *SettleResult) error {
	officeRepo := s.officeRepo.WithTx(tx)
	recordRepo := s.officeRecordRepo.WithTx(tx)
	settleRepo := s.officeSettleRepo.WithTx(tx)

	priorPaid, err := settleRepo.SumByOffice(ctx, officeID)
	if err != nil {
		return err
	}

	totalOwed, qualifying, err := s.computeOwedOffice(ctx, officeRepo, recordRepo, officeID)
	if err != nil {
		return err
	}

	entry := &models.OfficeSettlement{
		OfficeID:        officeID,
		Amount:          input.Amount,
		TransactionDate: time.Now(),
		RecordedBy:      input.RecordedBy,
		Notes:           input.Notes,
	}
	if err := settleRepo.Create(ctx, entry); err != nil {
		return err
	}

	totalPaid := priorPaid + input.Amount
	outstanding := totalOwed - totalPaid
	if outstanding < 0 {
		outstanding = 0
	}

	result.TotalOwed = totalOwed
	result.TotalPaid = totalPaid
	result.Outstanding = outstanding

	if totalPaid >= totalOwed && qualifying > 0 {
		archived, err := recordRepo.ArchiveByOffice(ctx, officeID)
		if err != nil {
			return err
		}
		result.Archived = archived > 0
		result.ArchivedCount = archived
	}
	return nil
}

func (s *SettlementService) settleSource(ctx context.Context, tx *gorm.DB, sourceID uint, input *SettleInput, result *SettleResult) error {
	sourceRepo := s.sourceRepo.WithTx(tx)
	reviewerRepo := s.reviewerRepo.WithTx(tx)
	recordRepo := s.officeRecordRepo.WithTx(tx)
	settleRepo := s.sourceSettleRepo.WithTx(tx)

	priorPaid, err := settleRepo.SumBySource(ctx, sourceID)
	if err != nil {
		return err
	}

	totalOwed, qualifying, err := s.computeOwedSource(ctx, sourceRepo, reviewerRepo, recordRepo, sourceID)
	if err != nil {
		return err
	}

	entry := &models.SourceSettlement{
		SourceID:        sourceID,
		Amount:          input.Amount,
		TransactionDate: time.Now(),
		RecordedBy:      input.RecordedBy,
		Notes:           input.Notes,
	}
	if err := settleRepo.Create(ctx, entry); err != nil {
		return err
	}

	totalPaid := priorPaid + input.Amount
	outstanding := totalOwed - totalPaid
	if outstanding < 0 {
		outstanding = 0
	}

	result.TotalOwed = totalOwed
	result.TotalPaid = totalPaid
	result.Outstanding = outstanding

	if totalPaid >= totalOwed && qualifying > 0 {
		archivedReviewers, err := reviewerRepo.ArchiveBySource(ctx, sourceID)
		if err != nil {
			return err
		}
		archivedRecords, err := recordRepo.ArchiveBySource(ctx, sourceID)
		if err != nil {
			return err
		}
		total := archivedReviewers + archivedRecords
		result.Archived = total > 0
		result.ArchivedCount = total
	}
	return nil
}

// ListOfficePayments lists an office's ledger history
func (s *SettlementService) ListOfficePayments(ctx context.Context, officeID uint, offset, limit int) ([]*models.OfficeSettlement, int64, error) {
	if _, err := s.officeRepo.GetByID(ctx, officeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrOfficeNotFound
		}
		return nil, 0, err
	}
	return s.officeSettleRepo.ListByOffice(ctx, officeID, offset, limit)
}

// ListSourcePayments lists a booking source's ledger history
func (s *SettlementService) ListSourcePayments(ctx context.Context, sourceID uint, offset, limit int) ([]*models.SourceSettlement, int64, error) {
	if _, err := s.sourceRepo.GetByID(ctx, sourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrSourceNotFound
		}
		return nil, 0, err
	}
	return s.sourceSettleRepo.ListBySource(ctx, sourceID, offset, limit)
}
