package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout bounds a single scheduled run
const jobTimeout = 5 * time.Minute

// SchedulerService runs background jobs on cron specs.
// Standard five-field specs and descriptors such as "@every 30m" are accepted.
type SchedulerService struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
}

// NewSchedulerService creates a scheduler. Jobs run in UTC and a job still
// running when its next tick fires is skipped.
func NewSchedulerService(logger *zap.Logger) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		logger: logger,
	}
}

// AddJob registers fn under spec. An empty spec disables the job.
func (s *SchedulerService) AddJob(name, spec string, fn func(ctx context.Context) error) error {
	if spec == "" {
		s.logger.Info("⏭️ Scheduled job disabled", zap.String("job", name))
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			s.logger.Error("❌ Scheduled job failed", zap.String("job", name), zap.Duration("took", time.Since(start)), zap.Error(err))
			return
		}
		s.logger.Info("✅ Scheduled job completed", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	s.logger.Info("⏰ Scheduled job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Start begins dispatching jobs
func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("⏰ Scheduler service started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts dispatching and waits for running jobs or ctx, whichever comes first
func (s *SchedulerService) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("⏰ Scheduler service stopped")
	case <-ctx.Done():
		s.logger.Warn("⚠️ Scheduler stop timed out with jobs still running")
	}
}

// cronLogger adapts zap to cron's logger interface
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().With(zap.Error(err)).Errorw(msg, keysAndValues...)
}
