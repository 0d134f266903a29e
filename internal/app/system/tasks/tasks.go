// Package tasks runs recurring background jobs on fixed intervals. Jobs are
// started once at boot and stopped together on shutdown; a panicking or
// failing run is logged and the ticker keeps going.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one recurring unit of background work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner owns the goroutines behind a set of jobs.
type Runner struct {
	log    *zap.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(log *zap.Logger) *Runner {
	return &Runner{log: log}
}

// Start launches one goroutine per job. Each job runs once shortly after
// start, then on its interval.
func (r *Runner) Start(ctx context.Context, jobs ...Job) {
	ctx, r.cancel = context.WithCancel(ctx)

	for _, job := range jobs {
		job := job
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.log.Info("background job started",
				zap.String("job", job.Name),
				zap.Duration("interval", job.Interval))

			ticker := time.NewTicker(job.Interval)
			defer ticker.Stop()

			r.runOnce(ctx, job)
			for {
				select {
				case <-ctx.Done():
					r.log.Info("background job stopped", zap.String("job", job.Name))
					return
				case <-ticker.C:
					r.runOnce(ctx, job)
				}
			}
		}()
	}
}

// Stop cancels all jobs and waits for in-flight runs to finish.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Runner) runOnce(ctx context.Context, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("background job panicked",
				zap.String("job", job.Name),
				zap.Any("panic", rec))
		}
	}()

	if err := job.Run(ctx); err != nil {
		r.log.Warn("background job failed",
			zap.String("job", job.Name),
			zap.Error(err))
	}
}
