package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named background task run by the Scheduler.
type Job struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler runs Jobs on cron specs. A run is skipped while the previous run of the same job is
// still going, and a panicking job is logged instead of taking the process down.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// cronLogger adapts zap to cron's logger interface.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, kv ...interface{}) { l.s.Debugw("[Cron] "+msg, kv...) }
func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw("[Cron] "+msg, append(kv, "error", err)...)
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cronLogger{s: log.Sugar()})),
		log:  log,
	}
}

// Add registers job under a standard cron spec or a descriptor such as "@every 1h".
func (s *Scheduler) Add(spec string, job Job) error {
	var running int32
	_, err := s.cron.AddFunc(spec, func() {
		if !atomic.CompareAndSwapInt32(&running, 0, 1) {
			s.log.Info("[Cron] previous run still in progress, skipping", zap.String("job", job.Name))
			return
		}
		defer atomic.StoreInt32(&running, 0)
		_ = s.runJob(context.Background(), job)
	})
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", job.Name, err)
	}
	return nil
}

// runJob executes one run with its timeout and recovers panics.
func (s *Scheduler) runJob(parent context.Context, job Job) (err error) {
	ctx := parent
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, job.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("[Cron] job panicked", zap.String("job", job.Name), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("%s panicked: %v", job.Name, r)
		}
	}()

	start := time.Now()
	if err = job.Run(ctx); err != nil {
		s.log.Error("[Cron] job failed", zap.String("job", job.Name), zap.Error(err))
		return err
	}
	s.log.Info("[Cron] job completed", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("[Cron] scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("[Cron] scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SessionPurgeJob removes expired sessions.
func SessionPurgeJob(auth *AuthService, log *zap.Logger) Job {
	return Job{
		Name:    "PurgeExpiredSessions",
		Timeout: time.Minute,
		Run: func(ctx context.Context) error {
			n, err := auth.PurgeExpiredSessions(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("[Auth] expired sessions purged", zap.Int("count", n))
			}
			return nil
		},
	}
}
