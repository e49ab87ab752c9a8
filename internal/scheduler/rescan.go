package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ScanEnqueuer queues a library scan. It is implemented by tasks.Client.
type ScanEnqueuer interface {
	EnqueueScan(root string) (string, error)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule validates a cron schedule string.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// NextRunTime returns the next time schedule fires after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// RescanScheduler periodically enqueues a scan of the library root.
type RescanScheduler struct {
	enqueuer ScanEnqueuer
	root     string
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewRescanScheduler creates a scheduler that enqueues a scan of root.
func NewRescanScheduler(enqueuer ScanEnqueuer, root, schedule string) *RescanScheduler {
	return &RescanScheduler{
		enqueuer: enqueuer,
		root:     root,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the job and starts the cron scheduler.
func (s *RescanScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueue()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rescan job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.schedule, time.Now())
	log.Info().Str("schedule", s.schedule).Time("next_run", next).Msg("Rescan scheduler started")
	return nil
}

// Stop stops the scheduler. It does not wait for queued scans.
func (s *RescanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Info().Msg("Rescan scheduler stopped")
}

// RunNow enqueues a scan immediately and returns the task ID.
func (s *RescanScheduler) RunNow() (string, error) {
	return s.enqueuer.EnqueueScan(s.root)
}

// IsRunning returns whether the scheduler is active.
func (s *RescanScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scan will be enqueued.
func (s *RescanScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}

func (s *RescanScheduler) enqueue() {
	id, err := s.enqueuer.EnqueueScan(s.root)
	if err != nil {
		log.Error().Err(err).Str("root", s.root).Msg("Scheduled rescan failed to enqueue")
		return
	}
	log.Info().Str("task_id", id).Str("root", s.root).Msg("Scheduled rescan enqueued")
}
