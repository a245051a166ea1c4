package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"elasti/internal/config"
	"elasti/internal/logger"
	"elasti/internal/queue"
	"elasti/internal/store"
	"elasti/middleware"
	"elasti/models"
)

func SetupCrawlRoutes(router *gin.Engine, cfg *config.Config, projects *store.ProjectStore, client *queue.Client, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/api/crawl")
	group.Use(authMiddleware.RequireAuth())

	// Enqueue a crawl and return immediately; progress is polled via the
	// status endpoint.
	group.POST("", func(c *gin.Context) {
		var req models.CrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "projectId and url are required",
				"details":    gin.H{"error": err.Error()},
			})
			return
		}

		if _, err := projects.Get(c.Request.Context(), req.ProjectID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error_code": "project_not_found",
					"message":    "Project not found",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "get_failed",
				"message":    "Failed to load project",
			})
			return
		}

		maxPages := req.MaxPages
		if maxPages <= 0 {
			maxPages = cfg.DefaultMaxPages
		}

		jobID, err := client.EnqueueCrawl(c.Request.Context(), queue.CrawlPayload{
			ProjectID: req.ProjectID,
			URL:       req.URL,
			MaxPages:  maxPages,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "enqueue_failed",
				"message":    "Failed to enqueue crawl job",
			})
			return
		}

		logger.Info("Enqueued crawl job", "job_id", jobID, "project_id", req.ProjectID, "url", req.URL)
		c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
	})

	group.GET("/status/:jobId", func(c *gin.Context) {
		status, err := client.JobStatus(c.Param("jobId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "status_failed",
				"message":    "Failed to look up job status",
			})
			return
		}

		if status.Status == models.JobStatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error_code": "job_not_found",
				"message":    "Job not found or expired",
			})
			return
		}

		c.JSON(http.StatusOK, status)
	})
}
