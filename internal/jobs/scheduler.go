package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedules holds the cron specs (with seconds) of each job. An empty spec
// disables the job.
type Schedules struct {
	ReconcileMemberCounts  string
	RebuildMembershipIndex string
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron   *cron.Cron
	jobs   *JobRunner
	logger *zap.Logger
}

// NewScheduler creates a scheduler and registers every job with a schedule.
func NewScheduler(jobRunner *JobRunner, schedules Schedules, logger *zap.Logger) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)
	s := &Scheduler{cron: c, jobs: jobRunner, logger: logger}

	if err := s.register("ReconcileMemberCounts", schedules.ReconcileMemberCounts, jobRunner.ReconcileMemberCounts); err != nil {
		return nil, err
	}
	if err := s.register("RebuildMembershipIndex", schedules.RebuildMembershipIndex, jobRunner.RebuildMembershipIndex); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) register(name, spec string, job func()) error {
	if spec == "" {
		s.logger.Info("Job disabled", zap.String("job", name))
		return nil
	}
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("failed to register %s job with schedule %q: %w", name, spec, err)
	}
	s.logger.Info("Job registered", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
