package services

import (
	"context"
	"log"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// binPurgeAge is how long expired recycle bin entries are kept before the
// nightly sweep removes them permanently. Entries stop being restorable
// after domain.BinRetention but stay on disk for auditing until this age.
const binPurgeAge = 30 * 24 * time.Hour

// CronService owns the background maintenance schedule
type CronService struct {
	cron       *cron.Cron
	binRepo    *repositories.RecycleBinRepository
	tokenRepo  repositories.RefreshTokenRepository
	officeRepo *repositories.OfficeRepository
}

// NewCronService creates a new cron service
func NewCronService(
	binRepo *repositories.RecycleBinRepository,
	tokenRepo repositories.RefreshTokenRepository,
	officeRepo *repositories.OfficeRepository,
) *CronService {
	return &CronService{
		cron:       cron.New(),
		binRepo:    binRepo,
		tokenRepo:  tokenRepo,
		officeRepo: officeRepo,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.runNightlyCleanup); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.runPresenceSweep); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron scheduler started (nightly cleanup 03:00, hourly presence sweep)")
	return nil
}

// Stop halts the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron scheduler stopped")
}

func (s *CronService) runNightlyCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := s.binRepo.DeleteOlderThan(ctx, time.Now().Add(-binPurgeAge))
	if err != nil {
		log.Printf("❌ Recycle bin purge failed: %v", err)
	} else if purged > 0 {
		log.Printf("🗑️ Purged %d recycle bin entries older than %s", purged, binPurgeAge)
	}

	deleted, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Refresh token cleanup failed: %v", err)
	} else if deleted > 0 {
		log.Printf("🗑️ Deleted %d expired refresh tokens", deleted)
	}
}

func (s *CronService) runPresenceSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stale, err := s.officeRepo.CountStale(ctx, models.PresenceWindow)
	if err != nil {
		log.Printf("❌ Presence sweep failed: %v", err)
		return
	}
	if stale > 0 {
		log.Printf("⚠️ %d offices offline (no heartbeat within %s)", stale, models.PresenceWindow)
	}
}
