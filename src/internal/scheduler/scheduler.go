package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

// JobFunc is one run of a scheduled job.
type JobFunc func(ctx context.Context) error

// JobTracker records the outcome of a job run.
type JobTracker interface {
	TrackJob(job string) func(error)
}

// Scheduler runs registered jobs on cron schedules. A panicking job is
// recovered and logged; it does not stop the scheduler.
type Scheduler struct {
	cron    *cron.Cron
	tracker JobTracker
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(location *time.Location, tracker JobTracker) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Slog().Handler(), slog.LevelInfo))
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		tracker: tracker,
		timeout: 30 * time.Minute,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds job under name with a standard five-field cron spec.
func (s *Scheduler) Register(name, spec string, job JobFunc) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("schedule %s job: %w", name, err)
	}
	logger.Info("scheduled job", logger.Fields{
		"job":      name,
		"schedule": spec,
	})
	return nil
}

func (s *Scheduler) run(name string, job JobFunc) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	done := func(error) {}
	if s.tracker != nil {
		done = s.tracker.TrackJob(name)
	}

	logger.Info("scheduled job started", logger.Fields{"job": name})
	err := job(ctx)
	done(err)
	if err != nil {
		logger.Error("scheduled job failed", err, logger.Fields{"job": name})
		return
	}
	logger.Info("scheduled job finished", logger.Fields{"job": name})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}
