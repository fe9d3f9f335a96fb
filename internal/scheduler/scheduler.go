// package scheduler implements the recurring-task loop behind automatic
// mode.
//
// Time is injected through the Clock interface so the loop is testable
// with a fake clock; production code uses the real clock.
package scheduler

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// pollInterval is how often the loop checks for due tasks.
const pollInterval = time.Second

// statusInterval is how often the loop logs the pending task schedule.
const statusInterval = time.Hour

// Clock abstracts time for the scheduler loop.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is cancelled.
	Sleep(ctx context.Context, d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Task is one recurring job.
type Task struct {
	Name     string
	Interval time.Duration
	// RunNow schedules the first run immediately instead of one interval
	// from start.
	RunNow bool
	Run    func(ctx context.Context) error
}

type scheduledTask struct {
	Task
	nextDue time.Time
}

// Scheduler runs registered tasks on their intervals until its context is
// cancelled. Task errors and panics are contained: they are logged and the
// task stays scheduled.
type Scheduler struct {
	clock  Clock
	logger *log.Logger
	tasks  []*scheduledTask

	// Spacing, when positive, pauses between tasks that come due in the
	// same pass, so immediate runs at startup do not hit the targets
	// back-to-back.
	Spacing time.Duration
}

// New creates a Scheduler. A nil clock means the real one.
func New(logger *log.Logger, clock Clock) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	return &Scheduler{clock: clock, logger: logger}
}

// Add registers a task. Tasks with no interval or no run function are
// ignored with a warning.
func (s *Scheduler) Add(t Task) {
	if t.Interval <= 0 || t.Run == nil {
		s.logger.Warn("ignoring unschedulable task", "task", t.Name)
		return
	}
	s.tasks = append(s.tasks, &scheduledTask{Task: t})
}

// Run blocks executing due tasks until ctx is cancelled, then returns
// ctx.Err(). With no registered tasks it logs a warning and stays alive so
// a misconfigured service is visible rather than silently exiting.
func (s *Scheduler) Run(ctx context.Context) error {
	now := s.clock.Now()
	for _, t := range s.tasks {
		if t.RunNow {
			t.nextDue = now
		} else {
			t.nextDue = now.Add(t.Interval)
		}
		s.logger.Info("task scheduled", "task", t.Name, "interval", t.Interval, "next_run", t.nextDue)
	}
	if len(s.tasks) == 0 {
		s.logger.Warn("no tasks scheduled, idling")
	}

	lastStatus := now
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		now = s.clock.Now()
		ran := false
		for _, t := range s.tasks {
			if now.Before(t.nextDue) {
				continue
			}
			if ran && s.Spacing > 0 {
				s.clock.Sleep(ctx, s.Spacing)
			}
			s.runTask(ctx, t)
			t.advance(s.clock.Now())
			ran = true
		}

		if now.Sub(lastStatus) >= statusInterval {
			lastStatus = now
			s.logStatus(now)
		}

		s.clock.Sleep(ctx, pollInterval)
	}
}

// runTask executes one task, containing errors and panics.
func (s *Scheduler) runTask(ctx context.Context, t *scheduledTask) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked", "task", t.Name, "panic", r)
		}
	}()

	s.logger.Info("running task", "task", t.Name)
	if err := t.Run(ctx); err != nil {
		s.logger.Error("task failed", "task", t.Name, "error", err)
	}
}

// advance moves the task's next due time forward from the scheduled time,
// keeping the cadence anchored. A task that overran multiple intervals
// re-anchors one interval from now instead of firing repeatedly to catch
// up.
func (t *scheduledTask) advance(now time.Time) {
	t.nextDue = t.nextDue.Add(t.Interval)
	if !t.nextDue.After(now) {
		t.nextDue = now.Add(t.Interval)
	}
}

func (s *Scheduler) logStatus(now time.Time) {
	for _, t := range s.tasks {
		s.logger.Info("task pending", "task", t.Name, "next_run_in", t.nextDue.Sub(now).Round(time.Second))
	}
}
