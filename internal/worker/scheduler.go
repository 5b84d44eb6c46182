// Package worker runs the background maintenance jobs: expiring trial
// limit overrides and stale team invites.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/designlab-hq/designlab/internal/domain/team"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

const jobTimeout = 30 * time.Second

// Scheduler owns the cron loop for the periodic maintenance jobs.
type Scheduler struct {
	users  user.Repository
	teams  team.Repository
	logger *logger.Logger
	cron   *cron.Cron
}

// NewScheduler creates a new maintenance scheduler
func NewScheduler(users user.Repository, teams team.Repository, log *logger.Logger) *Scheduler {
	return &Scheduler{
		users:  users,
		teams:  teams,
		logger: log,
		cron:   cron.New(),
	}
}

// Start registers the jobs and starts the cron loop. Trial override
// cleanup runs nightly; invite expiry runs hourly.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.clearExpiredCustomLimits); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 * * * *", s.expirePendingInvites); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Maintenance scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Maintenance scheduler stopped")
}

func (s *Scheduler) clearExpiredCustomLimits() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cleared, err := s.users.ClearExpiredCustomLimits(ctx, time.Now())
	if err != nil {
		s.logger.ErrorWithErr(err, "Expired custom limits cleanup failed")
		return
	}
	if cleared > 0 {
		s.logger.WithFields(map[string]interface{}{
			"users": cleared,
		}).Info("Expired custom limit overrides cleared")
	}
}

func (s *Scheduler) expirePendingInvites() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	expired, err := s.teams.ExpirePendingInvites(ctx, time.Now())
	if err != nil {
		s.logger.ErrorWithErr(err, "Pending invite expiry failed")
		return
	}
	if expired > 0 {
		s.logger.WithFields(map[string]interface{}{
			"invites": expired,
		}).Info("Stale team invites expired")
	}
}
