// Package jobs runs the bot's scheduled background work.
package jobs

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/bookworm-labs/bookworm-bot/internal/storage"
	"github.com/bookworm-labs/bookworm-bot/pkg/metrics"
)

// BackupScheduler snapshots the JSON store on a fixed interval.
type BackupScheduler struct {
	scheduler *gocron.Scheduler
	store     storage.Store
	interval  time.Duration
	log       *slog.Logger
}

// NewBackupScheduler builds the scheduler without starting it.
func NewBackupScheduler(store storage.Store, interval time.Duration, log *slog.Logger) *BackupScheduler {
	if log == nil {
		log = slog.Default()
	}

	return &BackupScheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
		log:       log,
	}
}

// Start begins the backup loop in the background. A non-positive interval
// disables scheduled backups entirely.
func (s *BackupScheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("scheduled backups disabled")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.runBackup); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("backup scheduler started", slog.Duration("interval", s.interval))

	return nil
}

// Stop halts the scheduler and waits for a running backup to finish.
func (s *BackupScheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("backup scheduler stopped")
}

func (s *BackupScheduler) runBackup() {
	if err := s.store.CreateBackup(); err != nil {
		metrics.RecordBackup("error")
		s.log.Error("scheduled backup failed", slog.Any("error", err))
		return
	}

	metrics.RecordBackup("ok")
}
