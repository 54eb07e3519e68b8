package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named task run on a cron schedule.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs background maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	jobs   []Job
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a job. Jobs with an empty schedule are skipped.
func (s *Scheduler) Add(job Job) {
	if job.Schedule == "" || job.Run == nil {
		log.Printf("scheduler: job %q disabled", job.Name)
		return
	}
	s.jobs = append(s.jobs, job)
}

// Start validates every schedule and starts the cron loop.
func (s *Scheduler) Start() error {
	if len(s.jobs) == 0 {
		log.Println("scheduler: no jobs registered")
		return nil
	}
	for _, job := range s.jobs {
		job := job
		_, err := s.cron.AddFunc(job.Schedule, func() {
			if err := job.Run(s.ctx); err != nil {
				log.Printf("scheduler: job %q failed: %v", job.Name, err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule %q (%s): %w", job.Name, job.Schedule, err)
		}
		log.Printf("scheduler: job %q scheduled at %q", job.Name, job.Schedule)
	}

	s.cron.Start()
	return nil
}

// Stop cancels the context handed to running jobs, then waits for them to
// return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Println("scheduler: stopped")
}
