// Package scheduler runs background jobs on cron expressions.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	// ErrSchedulerRunning is returned when registering after Start
	ErrSchedulerRunning = errors.New("scheduler: already running")
	// ErrUnknownJob is returned by RunNow for an unregistered name
	ErrUnknownJob = errors.New("scheduler: unknown job")
)

// Job is one unit of scheduled work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Name() string                  { return j.JobName }
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// Config holds scheduler configuration
type Config struct {
	JobTimeout time.Duration
	Location   *time.Location
}

// DefaultConfig returns a 30 minute timeout in UTC
func DefaultConfig() Config {
	return Config{JobTimeout: 30 * time.Minute, Location: time.UTC}
}

// RunRecord describes the latest execution of a job
type RunRecord struct {
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// Scheduler wraps robfig/cron. Overlapping runs of the same job are skipped
// and panics are recovered.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	jobs    map[string]Job
	last    map[string]RunRecord
}

// New creates a stopped scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]Job),
		last:   make(map[string]RunRecord),
	}
}

// Register adds a job under a standard 5-field cron spec
func (s *Scheduler) Register(spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}
	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("scheduler: job %q already registered", job.Name())
	}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.execute(job) }); err != nil {
		return fmt.Errorf("scheduler: invalid spec %q for %s: %w", spec, job.Name(), err)
	}
	s.jobs[job.Name()] = job
	s.logger.Info("Job registered", zap.String("job", job.Name()), zap.String("spec", spec))
	return nil
}

// Start begins firing jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop stops firing, cancels running jobs and waits for them up to ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow executes a registered job synchronously, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return ErrUnknownJob
	}
	return s.execute(job)
}

// LastRun returns the latest run of a job, if any
func (s *Scheduler) LastRun(name string) (RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.last[name]
	return r, ok
}

func (s *Scheduler) execute(job Job) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("Job started", zap.String("job", job.Name()))
	err := job.Run(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.last[job.Name()] = RunRecord{StartedAt: start, Duration: elapsed, Err: err}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed", zap.String("job", job.Name()), zap.Duration("duration", elapsed), zap.Error(err))
		return err
	}
	s.logger.Info("Job completed", zap.String("job", job.Name()), zap.Duration("duration", elapsed))
	return nil
}
