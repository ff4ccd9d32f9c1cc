package services

import (
	"fmt"
	"testing"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return db
}

// testEnv bundles every repository and service against one database
type testEnv struct {
	db *gorm.DB

	reviewerRepo     *repositories.ReviewerRepository
	officeRecordRepo *repositories.OfficeRecordRepository
	familyRepo       *repositories.FamilyMemberRepository
	officeRepo       *repositories.OfficeRepository
	sourceRepo       *repositories.SourceRepository
	officeSettleRepo *repositories.OfficeSettlementRepository
	sourceSettleRepo *repositories.SourceSettlementRepository
	binRepo          *repositories.RecycleBinRepository

	booking    *BookingService
	settlement *SettlementService
	lifecycle  *LifecycleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:               db,
		reviewerRepo:     repositories.NewReviewerRepository(db),
		officeRecordRepo: repositories.NewOfficeRecordRepository(db),
		familyRepo:       repositories.NewFamilyMemberRepository(db),
		officeRepo:       repositories.NewOfficeRepository(db),
		sourceRepo:       repositories.NewSourceRepository(db),
		officeSettleRepo: repositories.NewOfficeSettlementRepository(db),
		sourceSettleRepo: repositories.NewSourceSettlementRepository(db),
		binRepo:          repositories.NewRecycleBinRepository(db),
	}

	env.booking = NewBookingService(env.reviewerRepo, env.officeRecordRepo, env.officeRepo, env.sourceRepo)
	env.settlement = NewSettlementService(db, env.officeRepo, env.sourceRepo, env.reviewerRepo, env.officeRecordRepo, env.officeSettleRepo, env.sourceSettleRepo)
	env.lifecycle = NewLifecycleService(db, env.reviewerRepo, env.officeRecordRepo, env.familyRepo, env.binRepo)

	return env
}

var officeSeq int

func (env *testEnv) createOffice(t *testing.T, name string, priceRightMosul float64) *models.Office {
	t.Helper()

	officeSeq++
	office := &models.Office{
		OfficeName:      name,
		Username:        fmt.Sprintf("office%d", officeSeq),
		Password:        "not-a-real-hash",
		PriceRightMosul: priceRightMosul,
		PriceOthers:     10000,
	}
	require.NoError(t, env.db.Create(office).Error)
	return office
}

func (env *testEnv) createSource(t *testing.T, name string, priceRightMosul float64) *models.BookingSource {
	t.Helper()

	source := &models.BookingSource{
		SourceName:      name,
		PriceRightMosul: priceRightMosul,
		PriceOthers:     10000,
	}
	require.NoError(t, env.db.Create(source).Error)
	return source
}

func (env *testEnv) createReviewer(t *testing.T, fullName string, circleType domain.CircleType) *models.Reviewer {
	t.Helper()

	reviewer := &models.Reviewer{
		FullName:   fullName,
		CircleType: string(circleType),
	}
	require.NoError(t, env.db.Create(reviewer).Error)
	return reviewer
}

func (env *testEnv) createOfficeRecord(t *testing.T, office *models.Office, fullName string, circleType domain.CircleType) *models.OfficeRecord {
	t.Helper()

	record := &models.OfficeRecord{
		OfficeID:    office.ID,
		Affiliation: office.OfficeName,
		FullName:    fullName,
		CircleType:  string(circleType),
	}
	require.NoError(t, env.db.Create(record).Error)
	return record
}
