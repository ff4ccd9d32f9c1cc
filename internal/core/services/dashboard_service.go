package services

import (
	"context"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates counts and balances for the admin overview
type DashboardService struct {
	db                   *gorm.DB
	settlementService    *SettlementService
	officeRepo           *repositories.OfficeRepository
	sourceRepo           *repositories.SourceRepository
	officeSettlementRepo *repositories.OfficeSettlementRepository
	sourceSettlementRepo *repositories.SourceSettlementRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	db *gorm.DB,
	settlementService *SettlementService,
	officeRepo *repositories.OfficeRepository,
	sourceRepo *repositories.SourceRepository,
	officeSettlementRepo *repositories.OfficeSettlementRepository,
	sourceSettlementRepo *repositories.SourceSettlementRepository,
) *DashboardService {
	return &DashboardService{
		db:                   db,
		settlementService:    settlementService,
		officeRepo:           officeRepo,
		sourceRepo:           sourceRepo,
		officeSettlementRepo: officeSettlementRepo,
		sourceSettlementRepo: sourceSettlementRepo,
	}
}

// RecordCounts summarizes one record collection
type RecordCounts struct {
	Total    int64 `json:"total"`
	Booked   int64 `json:"booked"`
	Uploaded int64 `json:"uploaded"`
	Archived int64 `json:"archived"`
}

// CircleCount is a per-circle record tally
type CircleCount struct {
	CircleType string `json:"circle_type"`
	Count      int64  `json:"count"`
}

// EntityBalance pairs a financing entity with its outstanding debt
type EntityBalance struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	TotalOwed   float64 `json:"total_owed"`
	TotalPaid   float64 `json:"total_paid"`
	Outstanding float64 `json:"outstanding"`
}

// Overview is the full dashboard payload
type Overview struct {
	Reviewers       RecordCounts    `json:"reviewers"`
	OfficeRecords   RecordCounts    `json:"office_records"`
	ReviewerCircles []CircleCount   `json:"reviewer_circles"`
	OfficesOnline   int64           `json:"offices_online"`
	OfficesTotal    int64           `json:"offices_total"`
	SourcesTotal    int64           `json:"sources_total"`
	OfficeBalances  []EntityBalance `json:"office_balances"`
	SourceBalances  []EntityBalance `json:"source_balances"`
	RecycleBinSize  int64           `json:"recycle_bin_size"`
}

func (s *DashboardService) countRecords(ctx context.Context, model interface{}) (RecordCounts, error) {
	var counts RecordCounts
	base := s.db.WithContext(ctx).Model(model)

	if err := base.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_booked = ?", true).Count(&counts.Booked).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_uploaded = ?", true).Count(&counts.Uploaded).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_archived = ?", true).Count(&counts.Archived).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (s *DashboardService) circleBreakdown(ctx context.Context, model interface{}) ([]CircleCount, error) {
	var rows []CircleCount
	err := s.db.WithContext(ctx).
		Model(model).
		Select("circle_type, COUNT(*) as count").
		Group("circle_type").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// GetOverview builds the admin dashboard summary
func (s *DashboardService) GetOverview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}

	var err error
	if overview.Reviewers, err = s.countRecords(ctx, &models.Reviewer{}); err != nil {
		return nil, err
	}
	if overview.OfficeRecords, err = s.countRecords(ctx, &models.OfficeRecord{}); err != nil {
		return nil, err
	}
	if overview.ReviewerCircles, err = s.circleBreakdown(ctx, &models.Reviewer{}); err != nil {
		return nil, err
	}

	offices, total, err := s.officeRepo.List(ctx, 0, -1)
	if err != nil {
		return nil, err
	}
	overview.OfficesTotal = total
	for _, office := range offices {
		if office.ToResponse().Online {
			overview.OfficesOnline++
		}
		balance, err := s.settlementService.Balance(ctx, domain.EntityOffice, office.ID)
		if err != nil {
			return nil, err
		}
		if balance.Outstanding > 0 {
			overview.OfficeBalances = append(overview.OfficeBalances, EntityBalance{
				ID:          office.ID,
				Name:        office.OfficeName,
				TotalOwed:   balance.TotalOwed,
				TotalPaid:   balance.TotalPaid,
				Outstanding: balance.Outstanding,
			})
		}
	}

	sources, total, err := s.sourceRepo.List(ctx, 0, -1)
	if err != nil {
		return nil, err
	}
	overview.SourcesTotal = total
	for _, source := range sources {
		balance, err := s.settlementService.Balance(ctx, domain.EntitySource, source.ID)
		if err != nil {
			return nil, err
		}
		if balance.Outstanding > 0 {
			overview.SourceBalances = append(overview.SourceBalances, EntityBalance{
				ID:          source.ID,
				Name:        source.SourceName,
				TotalOwed:   balance.TotalOwed,
				TotalPaid:   balance.TotalPaid,
				Outstanding: balance.Outstanding,
			})
		}
	}

	if err := s.db.WithContext(ctx).Model(&models.RecycleBinEntry{}).Count(&overview.RecycleBinSize).Error; err != nil {
		return nil, err
	}

	return overview, nil
}

// RecentActivity bundles the latest ledger entries from both books
type RecentActivity struct {
	OfficePayments []*models.OfficeSettlement `json:"office_payments"`
	SourcePayments []*models.SourceSettlement `json:"source_payments"`
}

// GetRecentActivity returns the most recent settlement entries
func (s *DashboardService) GetRecentActivity(ctx context.Context, limit int) (*RecentActivity, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	officePayments, err := s.officeSettlementRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	sourcePayments, err := s.sourceSettlementRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &RecentActivity{
		OfficePayments: officePayments,
		SourcePayments: sourcePayments,
	}, nil
}
