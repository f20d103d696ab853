// Package jobs runs the background maintenance schedule: purging spent and
// expired login challenges every few minutes and pruning read notifications
// past their retention window once a night.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gsdportal/reserva-api/internal/config"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/store"
)

// Cron schedules. Challenge purging runs often because stale rows pile up
// with every login; notification pruning is a nightly sweep.
const (
	purgeChallengesSpec    = "*/5 * * * *"
	pruneNotificationsSpec = "30 2 * * *"
)

// Scheduler owns the cron runner and the repositories the jobs operate on.
type Scheduler struct {
	cron          *cron.Cron
	challenges    store.ChallengeRepository
	notifications store.NotificationRepository
	retention     time.Duration
	logger        *logger.Logger
}

// NewScheduler builds a Scheduler from the jobs configuration. Jobs run in
// the server's local timezone.
func NewScheduler(challenges store.ChallengeRepository, notifications store.NotificationRepository, cfg config.Jobs, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		challenges:    challenges,
		notifications: notifications,
		retention:     cfg.NotificationRetention,
		logger:        log,
	}
}

// Start registers both jobs and launches the runner. The passed context
// bounds each job execution; Stop halts scheduling.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(purgeChallengesSpec, func() { s.purgeChallenges(ctx) })
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(pruneNotificationsSpec, func() { s.pruneNotifications(ctx) })
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Msg("maintenance scheduler started")
	return nil
}

// Stop halts the runner and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("maintenance scheduler stopped")
}

func (s *Scheduler) purgeChallenges(ctx context.Context) {
	purged, err := s.challenges.PurgeExpired(ctx, time.Now())
	if err != nil {
		s.logger.Err(err).Msg("challenge purge failed")
		return
	}
	if purged > 0 {
		s.logger.Info().Int64("purged", purged).Msg("purged spent login challenges")
	}
}

func (s *Scheduler) pruneNotifications(ctx context.Context) {
	pruned, err := s.notifications.PruneRead(ctx, time.Now().Add(-s.retention))
	if err != nil {
		s.logger.Err(err).Msg("notification prune failed")
		return
	}
	if pruned > 0 {
		s.logger.Info().Int64("pruned", pruned).Msg("pruned read notifications")
	}
}
