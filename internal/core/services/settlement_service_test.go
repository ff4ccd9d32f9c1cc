package services

import (
	"context"
	"testing"

	"ninawa-bookdesk/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestOfficeSettlementLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 50000)

	for _, name := range []string{"Ahmed Khalil", "Omar Younis"} {
		record := env.createOfficeRecord(t, office, name, domain.CircleRightMosul)
		_, err := env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{BookingDate: "2026-09-01"})
		require.NoError(t, err)
	}

	balance, err := env.settlement.Balance(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Equal(t, 100000.0, balance.TotalOwed)
	require.Zero(t, balance.TotalPaid)
	require.Equal(t, 100000.0, balance.Outstanding)

	// Partial payment reduces the balance but archives nothing
	result, err := env.settlement.Settle(ctx, domain.EntityOffice, office.ID, &SettleInput{Amount: 40000})
	require.NoError(t, err)
	require.Equal(t, 100000.0, result.TotalOwed)
	require.Equal(t, 40000.0, result.TotalPaid)
	require.Equal(t, 60000.0, result.Outstanding)
	require.False(t, result.Archived)

	// Second payment completes the debt and archives the records
	result, err = env.settlement.Settle(ctx, domain.EntityOffice, office.ID, &SettleInput{Amount: 60000})
	require.NoError(t, err)
	require.Zero(t, result.Outstanding)
	require.True(t, result.Archived)
	require.Equal(t, int64(2), result.ArchivedCount)

	// Archived records leave the aggregation, payments remain on the ledger
	balance, err = env.settlement.Balance(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Zero(t, balance.TotalOwed)
	require.Equal(t, 100000.0, balance.TotalPaid)
	require.Zero(t, balance.Outstanding)
}

func TestOverpaymentFloorsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 50000)
	record := env.createOfficeRecord(t, office, "Ahmed Khalil", domain.CircleRightMosul)
	_, err := env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{BookingDate: "2026-09-01"})
	require.NoError(t, err)

	result, err := env.settlement.Settle(ctx, domain.EntityOffice, office.ID, &SettleInput{Amount: 70000})
	require.NoError(t, err)
	require.Equal(t, 50000.0, result.TotalOwed)
	require.Equal(t, 70000.0, result.TotalPaid)
	require.Zero(t, result.Outstanding)
	require.True(t, result.Archived)
}

func TestSourceSettlementSpansBothCollections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source := env.createSource(t, "Al-Najah", 50000)
	office := env.createOffice(t, "Mosul Gate Office", 45000)

	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)
	_, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	record := env.createOfficeRecord(t, office, "Omar Younis", domain.CircleRightMosul)
	_, err = env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	owed, err := env.settlement.ComputeOwed(ctx, domain.EntitySource, source.ID)
	require.NoError(t, err)
	require.Equal(t, 100000.0, owed)

	result, err := env.settlement.Settle(ctx, domain.EntitySource, source.ID, &SettleInput{Amount: 100000})
	require.NoError(t, err)
	require.True(t, result.Archived)
	require.Equal(t, int64(2), result.ArchivedCount)

	reloadedReviewer, err := env.reviewerRepo.GetByID(ctx, reviewer.ID)
	require.NoError(t, err)
	require.True(t, reloadedReviewer.IsArchived)

	reloadedRecord, err := env.officeRecordRepo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	require.True(t, reloadedRecord.IsArchived)
}

func TestSourceSettlementLeavesOfficeDebtAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source := env.createSource(t, "Al-Najah", 50000)
	office := env.createOffice(t, "Mosul Gate Office", 45000)

	// One record financed by the source, one by the office itself
	sourced := env.createOfficeRecord(t, office, "Ahmed Khalil", domain.CircleRightMosul)
	_, err := env.booking.BookOfficeRecord(ctx, sourced.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	owned := env.createOfficeRecord(t, office, "Omar Younis", domain.CircleRightMosul)
	_, err = env.booking.BookOfficeRecord(ctx, owned.ID, &BookInput{BookingDate: "2026-09-01"})
	require.NoError(t, err)

	_, err = env.settlement.Settle(ctx, domain.EntitySource, source.ID, &SettleInput{Amount: 50000})
	require.NoError(t, err)

	reloaded, err := env.officeRecordRepo.GetByID(ctx, owned.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsArchived)
}

func TestLegacyRecordFallsBackToCurrentPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)
	record := env.createOfficeRecord(t, office, "Ahmed Khalil", domain.CircleRightMosul)

	// Booked before price freezing existed: flag set, no frozen price
	record.IsBooked = true
	require.NoError(t, env.officeRecordRepo.Update(ctx, record))

	owed, err := env.settlement.ComputeOwed(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Equal(t, 45000.0, owed)

	// Legacy records track the live price list
	office.PriceRightMosul = 48000
	require.NoError(t, env.officeRepo.Update(ctx, office))

	owed, err = env.settlement.ComputeOwed(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Equal(t, 48000.0, owed)
}

func TestBookingImageAloneCreatesOfficeDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)
	record := env.createOfficeRecord(t, office, "Ahmed Khalil", domain.CircleRightMosul)

	record.BookingImage = "evidence.jpg"
	require.NoError(t, env.officeRecordRepo.Update(ctx, record))

	owed, err := env.settlement.ComputeOwed(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Equal(t, 45000.0, owed)
}

func TestArchivedRecordsExcludedFromDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)
	record := env.createOfficeRecord(t, office, "Ahmed Khalil", domain.CircleRightMosul)
	_, err := env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{BookingDate: "2026-09-01"})
	require.NoError(t, err)

	require.NoError(t, env.lifecycle.Archive(ctx, domain.KindOfficeRecord, record.ID))

	owed, err := env.settlement.ComputeOwed(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Zero(t, owed)
}

func TestComputeOwedIsDeterministic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)
	source := env.createSource(t, "Al-Najah", 50000)

	record := env.createOfficeRecord(t, office, "Ahmed Khalil", domain.CircleRightMosul)
	_, err := env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{BookingDate: "2026-09-01"})
	require.NoError(t, err)

	reviewer := env.createReviewer(t, "Sara Hasan", domain.CircleRightMosul)
	_, err = env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	// Repeated reads with no intervening writes agree
	first, err := env.settlement.ComputeOwed(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	second, err := env.settlement.ComputeOwed(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 45000.0, first)

	first, err = env.settlement.ComputeOwed(ctx, domain.EntitySource, source.ID)
	require.NoError(t, err)
	second, err = env.settlement.ComputeOwed(ctx, domain.EntitySource, source.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 50000.0, first)
}

func TestSettleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)

	_, err := env.settlement.Settle(ctx, domain.EntityOffice, office.ID, &SettleInput{Amount: 0})
	require.ErrorIs(t, err, domain.ErrInvalidSettlementAmount)

	_, err = env.settlement.Settle(ctx, domain.EntityOffice, office.ID, &SettleInput{Amount: -500})
	require.ErrorIs(t, err, domain.ErrInvalidSettlementAmount)

	_, err = env.settlement.Settle(ctx, domain.EntityType("bank"), office.ID, &SettleInput{Amount: 100})
	require.ErrorIs(t, err, domain.ErrInvalidEntityType)

	_, err = env.settlement.Settle(ctx, domain.EntityOffice, 999, &SettleInput{Amount: 100})
	require.ErrorIs(t, err, ErrOfficeNotFound)
}

func TestPaymentWithNoDebtRecordsArchivesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)

	result, err := env.settlement.Settle(ctx, domain.EntityOffice, office.ID, &SettleInput{Amount: 5000})
	require.NoError(t, err)
	require.Zero(t, result.TotalOwed)
	require.Equal(t, 5000.0, result.TotalPaid)
	require.Zero(t, result.Outstanding)
	require.False(t, result.Archived)
}

func TestLedgerKeepsFullHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)

	for _, amount := range []float64{10000, 20000, 5000} {
		_, err := env.settlement.Settle(ctx, domain.EntityOffice, office.ID, &SettleInput{
			Amount:     amount,
			RecordedBy: "admin",
		})
		require.NoError(t, err)
	}

	payments, total, err := env.settlement.ListOfficePayments(ctx, office.ID, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, payments, 3)

	paid, err := env.settlement.TotalPaid(ctx, domain.EntityOffice, office.ID)
	require.NoError(t, err)
	require.Equal(t, 35000.0, paid)
}
