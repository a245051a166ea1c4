package models

// Job status values reported by the crawl queue.
const (
	JobStatusQueued    = "queued"
	JobStatusActive    = "active"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusNotFound  = "not_found"
)

// CrawlRequest is the body of POST /api/crawl.
type CrawlRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	URL       string `json:"url" binding:"required"`
	MaxPages  int    `json:"maxPages"`
}

// CrawlResult summarizes one finished crawl run.
type CrawlResult struct {
	PagesProcessed int      `json:"pagesProcessed"`
	ChunksCreated  int      `json:"chunksCreated"`
	Errors         []string `json:"errors"`
}

// JobStatus is the response of GET /api/crawl/status/:jobId.
type JobStatus struct {
	Status       string       `json:"status"`
	Result       *CrawlResult `json:"result,omitempty"`
	FailedReason string       `json:"failedReason,omitempty"`
}
