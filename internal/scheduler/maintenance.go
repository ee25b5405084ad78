package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/music-library/internal/tasks"
)

const DefaultSchedule = "0 3 * * *"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer accepts tasks for background processing.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// MaintenanceScheduler periodically enqueues every maintenance task.
type MaintenanceScheduler struct {
	enqueuer      Enqueuer
	schedule      string
	retentionDays int

	cron      *cron.Cron
	mu        sync.RWMutex
	isRunning bool
}

// NewMaintenanceScheduler creates a scheduler. An empty schedule falls
// back to DefaultSchedule.
func NewMaintenanceScheduler(enqueuer Enqueuer, schedule string, retentionDays int) *MaintenanceScheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &MaintenanceScheduler{
		enqueuer:      enqueuer,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start registers the job and starts the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow()
	}); err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v", s.schedule, s.nextRunLocked())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false

	log.Printf("Maintenance scheduler: stopped")
}

// RunNow enqueues every maintenance task and returns the ids that were
// accepted. A task that fails to enqueue does not stop the others.
func (s *MaintenanceScheduler) RunNow() []string {
	var ids []string
	for _, info := range tasks.Types() {
		task, err := tasks.NewTask(info.Type, s.retentionDays)
		if err != nil {
			log.Printf("Maintenance scheduler: %v", err)
			continue
		}
		id, err := s.enqueuer.Enqueue(task)
		if err != nil {
			log.Printf("Maintenance scheduler: failed to enqueue %s: %v", info.Type, err)
			continue
		}
		ids = append(ids, id)
	}
	log.Printf("Maintenance scheduler: enqueued %d tasks", len(ids))
	return ids
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the job fires next, or nil when stopped.
func (s *MaintenanceScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return nil
	}
	next := s.nextRunLocked()
	return &next
}

func (s *MaintenanceScheduler) nextRunLocked() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
