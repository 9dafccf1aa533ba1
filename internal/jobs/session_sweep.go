// File: internal/jobs/session_sweep.go
package jobs

import (
	"time"

	"university_portal_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IdleSweeper closes sessions that have been idle too long.
type IdleSweeper interface {
	SweepIdle() int
	Len() int
}

// SessionSweepJob periodically tears down idle sessions.
type SessionSweepJob struct {
	sweeper       IdleSweeper
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewSessionSweepJob creates a new SessionSweepJob.
func NewSessionSweepJob(sweeper IdleSweeper, logger *zap.Logger, cfg *config.Config) *SessionSweepJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)

	return &SessionSweepJob{
		sweeper:       sweeper,
		logger:        logger.Named("SessionSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *SessionSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.SessionSweepSchedule // e.g. "@every 5m"
	if jobSpec == "" {
		j.logger.Warn("Session sweep schedule not defined (SESSION_SWEEP_SCHEDULE). Idle sessions are only replaced on access.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule session sweep job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Session sweep job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *SessionSweepJob) runJob() {
	removed := j.sweeper.SweepIdle()
	if removed > 0 {
		j.logger.Info("Session sweep completed", zap.Int("sessions_closed", removed), zap.Int("sessions_active", j.sweeper.Len()))
		return
	}
	j.logger.Debug("Session sweep completed", zap.Int("sessions_active", j.sweeper.Len()))
}

// Stop gracefully stops the cron scheduler.
func (j *SessionSweepJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping session sweep scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Session sweep scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Session sweep scheduler stop timed out.")
		}
	}
}
