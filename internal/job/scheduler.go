package job

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a scheduler. A panicking job is logged and does not
// stop later runs; a job still running when its next run is due is skipped.
func NewScheduler(logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger: logger.Sugar()}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl))),
		logger: logger,
	}
}

// Add registers job under a cron schedule, e.g. "@every 1h" or "0 3 * * *"
func (s *Scheduler) Add(name, schedule string, job cron.Job) error {
	id, err := s.cron.AddJob(schedule, job)
	if err != nil {
		return err
	}
	s.logger.Info("Job scheduled", zap.String("job", name), zap.String("schedule", schedule), zap.Int("entry_id", int(id)))
	return nil
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
