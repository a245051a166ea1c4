package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"elasti/models"
)

// Client enqueues crawl jobs and answers status queries.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewClient(redisOpt asynq.RedisConnOpt) *Client {
	return &Client{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

// EnqueueCrawl submits a crawl job and returns its id immediately.
func (c *Client) EnqueueCrawl(ctx context.Context, p CrawlPayload) (string, error) {
	task, err := NewCrawlTask(p)
	if err != nil {
		return "", fmt.Errorf("failed to build crawl task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue crawl task: %w", err)
	}
	return info.ID, nil
}

// JobStatus reports the queue's view of a job. Unknown ids map to the
// not_found status rather than an error; failures surface only here, via the
// retained failure reason.
func (c *Client) JobStatus(jobID string) (models.JobStatus, error) {
	info, err := c.inspector.GetTaskInfo("default", jobID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return models.JobStatus{Status: models.JobStatusNotFound}, nil
		}
		return models.JobStatus{}, fmt.Errorf("failed to inspect task: %w", err)
	}

	status := models.JobStatus{
		Status:       statusFromState(info.State),
		FailedReason: info.LastErr,
	}

	if len(info.Result) > 0 {
		var result models.CrawlResult
		if err := json.Unmarshal(info.Result, &result); err == nil {
			status.Result = &result
		}
	}

	return status, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// statusFromState collapses asynq's task states onto the job lifecycle:
// queued -> active -> completed | failed.
func statusFromState(state asynq.TaskState) string {
	switch state {
	case asynq.TaskStatePending, asynq.TaskStateScheduled, asynq.TaskStateAggregating:
		return models.JobStatusQueued
	case asynq.TaskStateActive:
		return models.JobStatusActive
	case asynq.TaskStateCompleted:
		return models.JobStatusCompleted
	case asynq.TaskStateRetry, asynq.TaskStateArchived:
		return models.JobStatusFailed
	default:
		return models.JobStatusNotFound
	}
}
