package services

import (
	"context"
	"testing"

	"ninawa-bookdesk/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestBookReviewerFreezesSourcePrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source := env.createSource(t, "Al-Najah", 50000)
	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	booked, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookingImage:   "receipt.jpg",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	require.True(t, booked.IsBooked)
	require.Equal(t, 50000.0, booked.BookedPrice)
	require.NotNil(t, booked.BookedSourceID)
	require.Equal(t, source.ID, *booked.BookedSourceID)
	require.NotNil(t, booked.BookingDate)
	require.NotNil(t, booked.BookingCreatedAt)
	require.Equal(t, "receipt.jpg", booked.BookingImage)
}

func TestBookReviewerWithoutSourceFreezesZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewer := env.createReviewer(t, "Sara Hasan", domain.CircleRightMosul)

	booked, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{BookingDate: "2026-09-01"})
	require.NoError(t, err)

	require.True(t, booked.IsBooked)
	require.Zero(t, booked.BookedPrice)
	require.Nil(t, booked.BookedSourceID)
}

func TestBookReviewerIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source := env.createSource(t, "Al-Najah", 50000)
	other := env.createSource(t, "Al-Rafid", 99000)
	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	_, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	// Second book with a different source must not re-freeze
	again, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-02",
		BookedSourceID: &other.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 50000.0, again.BookedPrice)
	require.Equal(t, source.ID, *again.BookedSourceID)
}

func TestPriceListChangeDoesNotTouchFrozenPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source := env.createSource(t, "Al-Najah", 50000)
	first := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	_, err := env.booking.BookReviewer(ctx, first.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	// Raise the price after the first booking
	source.PriceRightMosul = 60000
	require.NoError(t, env.sourceRepo.Update(ctx, source))

	second := env.createReviewer(t, "Omar Younis", domain.CircleRightMosul)
	booked, err := env.booking.BookReviewer(ctx, second.ID, &BookInput{
		BookingDate:    "2026-09-02",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 60000.0, booked.BookedPrice)

	reloaded, err := env.reviewerRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 50000.0, reloaded.BookedPrice)
}

func TestBookOfficeRecordDefaultsToOfficePrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)
	record := env.createOfficeRecord(t, office, "Layla Sami", domain.CircleRightMosul)

	booked, err := env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{BookingDate: "2026-09-01"})
	require.NoError(t, err)
	require.Equal(t, 45000.0, booked.BookedPrice)

	// A source on the booking outranks the owning office
	source := env.createSource(t, "Al-Najah", 52000)
	record2 := env.createOfficeRecord(t, office, "Hana Walid", domain.CircleRightMosul)

	booked2, err := env.booking.BookOfficeRecord(ctx, record2.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 52000.0, booked2.BookedPrice)
}

func TestBookWithUnknownSourceFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)
	missing := uint(999)

	_, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &missing,
	})
	require.ErrorIs(t, err, ErrSourceNotFound)

	reloaded, err := env.reviewerRepo.GetByID(ctx, reviewer.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsBooked)
}

func TestUnbookClearsBookingState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source := env.createSource(t, "Al-Najah", 50000)
	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	_, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookingImage:   "receipt.jpg",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	_, err = env.booking.MarkReviewerUploaded(ctx, reviewer.ID, &source.ID)
	require.NoError(t, err)

	unbooked, err := env.booking.UnbookReviewer(ctx, reviewer.ID)
	require.NoError(t, err)

	require.False(t, unbooked.IsBooked)
	require.Zero(t, unbooked.BookedPrice)
	require.Nil(t, unbooked.BookedSourceID)
	require.Empty(t, unbooked.BookingImage)
	require.Nil(t, unbooked.BookingDate)
	require.Nil(t, unbooked.BookingCreatedAt)
	require.False(t, unbooked.IsUploaded)
	require.Nil(t, unbooked.UploadedSourceID)

	// The stored row must match, source linkage included
	reloaded, err := env.reviewerRepo.GetByID(ctx, reviewer.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsBooked)
	require.Zero(t, reloaded.BookedPrice)
	require.Nil(t, reloaded.BookedSourceID)
	require.False(t, reloaded.IsUploaded)
	require.Nil(t, reloaded.UploadedSourceID)

	// With the linkage gone the source carries no debt for this record
	owed, err := env.settlement.ComputeOwed(ctx, domain.EntitySource, source.ID)
	require.NoError(t, err)
	require.Zero(t, owed)
}

func TestUnbookOfficeRecordClearsSourceDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)
	source := env.createSource(t, "Al-Najah", 52000)
	record := env.createOfficeRecord(t, office, "Layla Sami", domain.CircleRightMosul)

	_, err := env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	_, err = env.booking.UnbookOfficeRecord(ctx, record.ID)
	require.NoError(t, err)

	reloaded, err := env.officeRecordRepo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsBooked)
	require.Zero(t, reloaded.BookedPrice)
	require.Nil(t, reloaded.BookedSourceID)
	require.Equal(t, office.ID, reloaded.OfficeID)

	owed, err := env.settlement.ComputeOwed(ctx, domain.EntitySource, source.ID)
	require.NoError(t, err)
	require.Zero(t, owed)
}

func TestUnbookRequiresBookedState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	_, err := env.booking.UnbookReviewer(ctx, reviewer.ID)
	require.ErrorIs(t, err, ErrNotBooked)
}

func TestBookRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	_, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{BookingDate: "01/09/2026"})
	require.Error(t, err)
}
