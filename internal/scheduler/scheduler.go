// Package scheduler drives recurring crawls: a fixed-interval tick finds due
// projects and enqueues one crawl for each.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"elasti/internal/logger"
	"elasti/internal/queue"
	"elasti/models"
)

// ProjectSource is the slice of the metadata store the scheduler needs.
type ProjectSource interface {
	ListDueForCrawl(ctx context.Context, now time.Time) ([]models.Project, error)
	SetNextCrawlAt(ctx context.Context, id string, next time.Time) error
}

// Enqueuer submits crawl jobs; implemented by the queue client.
type Enqueuer interface {
	EnqueueCrawl(ctx context.Context, p queue.CrawlPayload) (string, error)
}

// Scheduler checks for due projects on every tick. The tick interval is
// fixed and independent of any project's cadence.
type Scheduler struct {
	projects        ProjectSource
	enqueuer        Enqueuer
	sched           *gocron.Scheduler
	interval        time.Duration
	defaultMaxPages int
}

func New(projects ProjectSource, enqueuer Enqueuer, interval time.Duration, defaultMaxPages int) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &Scheduler{
		projects:        projects,
		enqueuer:        enqueuer,
		sched:           s,
		interval:        interval,
		defaultMaxPages: defaultMaxPages,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.sched.Every(s.interval).Tag("due-crawls").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		s.ProcessDueCrawls(ctx, time.Now())
	}); err != nil {
		return err
	}

	s.sched.StartAsync()
	logger.Info("Scheduler started", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) Stop() {
	s.sched.Stop()
}

// ProcessDueCrawls enqueues one crawl per due project and advances its next
// crawl time. A per-project failure is logged and never blocks the rest of
// the tick.
func (s *Scheduler) ProcessDueCrawls(ctx context.Context, now time.Time) {
	due, err := s.projects.ListDueForCrawl(ctx, now)
	if err != nil {
		logger.Error("Scheduler failed to list due projects", "error", err)
		return
	}

	for _, project := range due {
		logger.Info("Triggering scheduled crawl", "project_id", project.ID, "name", project.Name)

		_, err := s.enqueuer.EnqueueCrawl(ctx, queue.CrawlPayload{
			ProjectID: project.ID,
			URL:       project.URL,
			MaxPages:  s.defaultMaxPages,
		})
		if err != nil {
			logger.Error("Failed to enqueue scheduled crawl", "project_id", project.ID, "error", err)
			continue
		}

		// Next run counts from the current wall clock, not the previous
		// scheduled time: a scheduler that was down for days produces one
		// catch-up crawl, not one per missed cycle.
		next := NextCrawlTime(project.CrawlSchedule, now)
		if err := s.projects.SetNextCrawlAt(ctx, project.ID, next); err != nil {
			logger.Error("Failed to advance next crawl time", "project_id", project.ID, "error", err)
		}
	}
}

// NextCrawlTime maps a recurrence schedule to the next due time relative to
// now. Unknown values fall back to daily.
func NextCrawlTime(schedule string, now time.Time) time.Time {
	switch schedule {
	case models.ScheduleWeekly:
		return now.AddDate(0, 0, 7)
	case models.ScheduleMonthly:
		return now.AddDate(0, 1, 0)
	case models.ScheduleDaily:
		return now.AddDate(0, 0, 1)
	default:
		return now.AddDate(0, 0, 1)
	}
}
