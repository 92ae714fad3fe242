package cron

import (
	"context"
	"time"

	"cleanly/services/payout"
	"cleanly/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedules of the periodic jobs, in UTC.
const (
	PayoutSpec         = "@hourly"
	ExpireRequestsSpec = "15 0 * * *"
	LimiterCleanupSpec = "*/10 * * * *"
)

// StaleRequestExpirer expires pending requests whose appointment date passed.
type StaleRequestExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// Jobs are the services the scheduler drives. Nil members are skipped.
type Jobs struct {
	Payouts  payout.PayoutService
	Requests StaleRequestExpirer
	Cleanup  func()
	Timeout  time.Duration
}

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
}

func NewScheduler(jobs Jobs) (*Scheduler, error) {
	if jobs.Timeout == 0 {
		jobs.Timeout = 10 * time.Minute
	}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		jobs: jobs,
	}

	if jobs.Payouts != nil {
		if _, err := s.cron.AddFunc(PayoutSpec, s.RunPayouts); err != nil {
			return nil, err
		}
	}
	if jobs.Requests != nil {
		if _, err := s.cron.AddFunc(ExpireRequestsSpec, s.RunExpireRequests); err != nil {
			return nil, err
		}
	}
	if jobs.Cleanup != nil {
		if _, err := s.cron.AddFunc(LimiterCleanupSpec, jobs.Cleanup); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	utils.GetLogger().Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunPayouts transfers every due payout once.
func (s *Scheduler) RunPayouts() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobs.Timeout)
	defer cancel()

	logger := utils.GetLogger()
	result, err := s.jobs.Payouts.ProcessDue(ctx)
	if err != nil {
		logger.Error("Payout run failed", zap.Error(err))
		return
	}
	logger.Info("Payout run finished",
		zap.Int("paid", result.Paid),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
}

// RunExpireRequests marks stale pending requests expired.
func (s *Scheduler) RunExpireRequests() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobs.Timeout)
	defer cancel()

	expired, err := s.jobs.Requests.ExpireStale(ctx)
	if err != nil {
		utils.GetLogger().Error("Request expiry failed", zap.Error(err))
		return
	}
	utils.GetLogger().Info("Expired stale requests", zap.Int64("count", expired))
}
