// Package queue decouples crawl requests from execution via asynq. Enqueue is
// fire-and-forget; progress is observed by polling job status. Crawls never
// auto-retry: a failed run stays failed until an operator or the scheduler's
// next cycle enqueues a new one.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"elasti/internal/crawler"
	"elasti/internal/logger"
	"elasti/internal/store"
)

const TaskCrawlRun = "crawl:run"

// How long finished jobs stay queryable before asynq reclaims them.
const completedTaskRetention = 24 * time.Hour

// CrawlPayload is the task input for one crawl job.
type CrawlPayload struct {
	ProjectID string `json:"project_id"`
	URL       string `json:"url"`
	MaxPages  int    `json:"max_pages"`
}

// NewCrawlTask builds the asynq task for a crawl. MaxRetry is zero on
// purpose; retry of a resource-heavy crawl is a deliberate operator action.
func NewCrawlTask(p CrawlPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskCrawlRun,
		payload,
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Minute),
		asynq.Retention(completedTaskRetention),
	), nil
}

// Processor executes crawl tasks. The mutex makes the one-crawl-at-a-time
// guarantee an explicit invariant rather than a side effect of server
// configuration.
type Processor struct {
	crawler  *crawler.Crawler
	projects *store.ProjectStore

	mu sync.Mutex
}

func NewProcessor(c *crawler.Crawler, projects *store.ProjectStore) *Processor {
	return &Processor{crawler: c, projects: projects}
}

func (p *Processor) HandleCrawl(ctx context.Context, t *asynq.Task) error {
	var payload CrawlPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	logger.Info("Starting crawl job", "project_id", payload.ProjectID, "url", payload.URL, "max_pages", payload.MaxPages)

	result, err := p.crawler.Crawl(ctx, payload.ProjectID, payload.URL, payload.MaxPages)
	if err != nil {
		return err
	}

	// Persist the crawl timestamp on the project record
	if err := p.projects.SetLastCrawledAt(ctx, payload.ProjectID, time.Now()); err != nil {
		logger.Warn("Failed to record crawl completion time", "project_id", payload.ProjectID, "error", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal crawl result: %w", err)
	}
	if _, err := t.ResultWriter().Write(data); err != nil {
		return fmt.Errorf("failed to write crawl result: %w", err)
	}

	logger.Info("Completed crawl job",
		"project_id", payload.ProjectID,
		"pages_processed", result.PagesProcessed,
		"chunks_created", result.ChunksCreated,
		"errors", len(result.Errors))

	return nil
}
