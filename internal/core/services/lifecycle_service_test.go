package services

import (
	"context"
	"testing"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestTrashRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source := env.createSource(t, "Al-Najah", 50000)
	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	_, err := env.booking.BookReviewer(ctx, reviewer.ID, &BookInput{
		BookingDate:    "2026-09-01",
		BookedSourceID: &source.ID,
	})
	require.NoError(t, err)

	member := &models.FamilyMember{
		RecordType:   string(domain.KindReviewer),
		RecordID:     reviewer.ID,
		Relationship: "spouse",
		FullName:     "Noor Ahmed",
	}
	require.NoError(t, env.familyRepo.Create(ctx, member))

	originalID := reviewer.ID
	original, err := env.reviewerRepo.GetByID(ctx, originalID)
	require.NoError(t, err)
	originalCreatedAt := original.CreatedAt

	entry, err := env.lifecycle.Trash(ctx, domain.KindReviewer, originalID, "admin")
	require.NoError(t, err)
	require.Equal(t, originalID, entry.OriginalID)
	require.Equal(t, "Ahmed Khalil", entry.FullName)
	require.Equal(t, "admin", entry.DeletedBy)

	// Live rows are gone
	exists, err := env.reviewerRepo.ExistsByID(ctx, originalID)
	require.NoError(t, err)
	require.False(t, exists)

	family, err := env.familyRepo.ListByRecord(ctx, string(domain.KindReviewer), originalID)
	require.NoError(t, err)
	require.Empty(t, family)

	require.NoError(t, env.lifecycle.Restore(ctx, entry.ID))

	restored, err := env.reviewerRepo.GetByID(ctx, originalID)
	require.NoError(t, err)
	require.Equal(t, originalID, restored.ID)
	require.Equal(t, "Ahmed Khalil", restored.FullName)
	require.Equal(t, 50000.0, restored.BookedPrice)
	require.True(t, restored.IsBooked)
	require.WithinDuration(t, originalCreatedAt, restored.CreatedAt, time.Second)
	require.Len(t, restored.FamilyMembers, 1)
	require.Equal(t, "Noor Ahmed", restored.FamilyMembers[0].FullName)

	// The bin entry is consumed
	_, _, err = env.lifecycle.ListBin(ctx, 0, 10)
	require.NoError(t, err)
	err = env.lifecycle.Restore(ctx, entry.ID)
	require.ErrorIs(t, err, ErrBinEntryNotFound)
}

func TestRestoreConflictOnReusedID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)
	originalID := reviewer.ID

	entry, err := env.lifecycle.Trash(ctx, domain.KindReviewer, originalID, "admin")
	require.NoError(t, err)

	// Another record takes the original ID before the restore
	clone := &models.Reviewer{FullName: "Imposter"}
	clone.ID = originalID
	require.NoError(t, env.reviewerRepo.Create(ctx, clone))

	err = env.lifecycle.Restore(ctx, entry.ID)
	require.ErrorIs(t, err, ErrRestoreConflict)
}

func TestRestoreRejectsExpiredEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	entry, err := env.lifecycle.Trash(ctx, domain.KindReviewer, reviewer.ID, "admin")
	require.NoError(t, err)

	expired := time.Now().Add(-domain.BinRetention - time.Hour)
	require.NoError(t, env.db.Model(&models.RecycleBinEntry{}).
		Where("id = ?", entry.ID).
		Update("deleted_at", expired).Error)

	err = env.lifecycle.Restore(ctx, entry.ID)
	require.ErrorIs(t, err, ErrBinEntryExpired)
}

func TestListBinHidesExpiredEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fresh := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)
	old := env.createReviewer(t, "Omar Younis", domain.CircleRightMosul)

	_, err := env.lifecycle.Trash(ctx, domain.KindReviewer, fresh.ID, "admin")
	require.NoError(t, err)

	oldEntry, err := env.lifecycle.Trash(ctx, domain.KindReviewer, old.ID, "admin")
	require.NoError(t, err)

	expired := time.Now().Add(-domain.BinRetention - time.Hour)
	require.NoError(t, env.db.Model(&models.RecycleBinEntry{}).
		Where("id = ?", oldEntry.ID).
		Update("deleted_at", expired).Error)

	entries, total, err := env.lifecycle.ListBin(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, fresh.ID, entries[0].OriginalID)
}

func TestTrashOfficeRecordRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.createOffice(t, "Mosul Gate Office", 45000)
	record := env.createOfficeRecord(t, office, "Layla Sami", domain.CircleRightMosul)
	_, err := env.booking.BookOfficeRecord(ctx, record.ID, &BookInput{BookingDate: "2026-09-01"})
	require.NoError(t, err)

	entry, err := env.lifecycle.Trash(ctx, domain.KindOfficeRecord, record.ID, "admin")
	require.NoError(t, err)
	require.Equal(t, string(domain.KindOfficeRecord), entry.RecordType)

	require.NoError(t, env.lifecycle.Restore(ctx, entry.ID))

	restored, err := env.officeRecordRepo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, office.ID, restored.OfficeID)
	require.Equal(t, 45000.0, restored.BookedPrice)
}

func TestArchiveUnarchive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewer := env.createReviewer(t, "Ahmed Khalil", domain.CircleRightMosul)

	require.NoError(t, env.lifecycle.Archive(ctx, domain.KindReviewer, reviewer.ID))
	reloaded, err := env.reviewerRepo.GetByID(ctx, reviewer.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsArchived)

	require.NoError(t, env.lifecycle.Unarchive(ctx, domain.KindReviewer, reviewer.ID))
	reloaded, err = env.reviewerRepo.GetByID(ctx, reviewer.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsArchived)

	err = env.lifecycle.Archive(ctx, domain.KindReviewer, 999)
	require.ErrorIs(t, err, domain.ErrReviewerNotFound)
}
