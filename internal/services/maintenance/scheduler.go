package maintenance

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/interfaces"
)

// defaultSchedule prunes once a day at 03:00
const defaultSchedule = "0 3 * * *"

// Scheduler periodically prunes cached course records past their retention
// window so the cache does not grow without bound.
type Scheduler struct {
	storage       interfaces.CourseStorage
	cron          *cron.Cron
	logger        arbor.ILogger
	retentionDays int
}

// NewScheduler creates a new cache maintenance scheduler
func NewScheduler(storage interfaces.CourseStorage, retentionDays int, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		storage:       storage,
		cron:          cron.New(),
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// Start begins the scheduled pruning
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = defaultSchedule
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.PruneOnce()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Int("retention_days", s.retentionDays).
		Msg("Cache maintenance scheduler started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Cache maintenance scheduler stopped")
}

// PruneOnce runs a single synchronous pruning pass
func (s *Scheduler) PruneOnce() {
	if s.retentionDays <= 0 {
		s.logger.Debug().Msg("Retention disabled, skipping cache prune")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.storage.DeleteOlderThan(cutoff)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("Cache prune failed")
		return
	}

	remaining, err := s.storage.CountRecords()
	if err != nil {
		remaining = -1
	}

	s.logger.Info().
		Int("deleted", deleted).
		Int("remaining", remaining).
		Str("cutoff", cutoff.Format(time.RFC3339)).
		Msg("Cache prune completed")
}
