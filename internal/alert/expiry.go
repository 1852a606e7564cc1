package alert

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"medimanager/m/domain"
)

// ExpiryWindowDays is the fixed look-ahead window for the daily alert.
const ExpiryWindowDays = 30

// MedicineLister is the read-only slice of the medicine store the job needs.
type MedicineLister interface {
	ExpiringSoon(ctx context.Context, days int) ([]domain.Medicine, error)
}

// Job reports medicines expiring within the next 30 days once a day. It has
// no side effects on data and keeps no alert history; a failed run is logged
// and not retried until the next day.
type Job struct {
	medicines MedicineLister
	logger    *zap.Logger
	hour      int
	interval  time.Duration

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewJob creates a daily expiry alert job that fires at the given hour.
func NewJob(medicines MedicineLister, logger *zap.Logger, hour int) *Job {
	return &Job{
		medicines: medicines,
		logger:    logger,
		hour:      hour,
		interval:  time.Minute,
	}
}

// Start launches the schedule loop. Calling Start on a running job is a
// no-op.
func (j *Job) Start(ctx context.Context) {
	j.mu.Lock()
	if j.isRunning {
		j.mu.Unlock()
		return
	}
	j.isRunning = true
	j.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go j.runLoop(ctx)

	j.logger.Info("expiry alert job started",
		zap.Int("hour", j.hour),
		zap.Int("window_days", ExpiryWindowDays),
	)
}

// Stop cancels the schedule loop and waits for it to exit, or returns when
// ctx is done.
func (j *Job) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.isRunning {
		j.mu.Unlock()
		return nil
	}
	j.isRunning = false
	j.mu.Unlock()

	if j.cancel != nil {
		j.cancel()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.Info("expiry alert job stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) runLoop(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			j.maybeRun(ctx, now)
		}
	}
}

// maybeRun fires the check once per calendar day, at or after the configured
// hour.
func (j *Job) maybeRun(ctx context.Context, now time.Time) {
	today := now.Format(domain.DateLayout)

	j.mu.Lock()
	due := now.Hour() >= j.hour && j.lastRunDate != today
	if due {
		j.lastRunDate = today
	}
	j.mu.Unlock()

	if due {
		j.RunOnce(ctx)
	}
}

// RunOnce performs a single expiry check and reports the result through the
// logger.
func (j *Job) RunOnce(ctx context.Context) {
	expiring, err := j.medicines.ExpiringSoon(ctx, ExpiryWindowDays)
	if err != nil {
		j.logger.Error("expiry check failed", zap.Error(err))
		return
	}
	if len(expiring) == 0 {
		return
	}

	j.logger.Warn("medicines expiring soon", zap.Int("count", len(expiring)))
	for _, m := range expiring {
		j.logger.Warn("expiry alert",
			zap.String("name", m.Name),
			zap.String("expiry_date", m.ExpiryDate),
		)
	}
}
