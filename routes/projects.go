package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"elasti/internal/logger"
	"elasti/internal/search"
	"elasti/internal/store"
	"elasti/middleware"
	"elasti/models"
)

type createProjectRequest struct {
	Name              string   `json:"name" binding:"required"`
	URL               string   `json:"url" binding:"required"`
	CrossReferenceIDs []string `json:"crossReferenceIds"`
	CrawlSchedule     string   `json:"crawlSchedule"`
}

func validSchedule(s string) bool {
	switch s {
	case "", models.ScheduleDaily, models.ScheduleWeekly, models.ScheduleMonthly:
		return true
	}
	return false
}

func SetupProjectRoutes(router *gin.Engine, projects *store.ProjectStore, index search.Index, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/api/projects")
	group.Use(authMiddleware.RequireAuth())

	group.GET("", func(c *gin.Context) {
		list, err := projects.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "list_failed",
				"message":    "Failed to list projects",
			})
			return
		}
		if list == nil {
			list = []models.Project{}
		}
		c.JSON(http.StatusOK, list)
	})

	group.GET("/:id", func(c *gin.Context) {
		project, err := projects.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error_code": "project_not_found",
				"message":    "Project not found",
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "get_failed",
				"message":    "Failed to load project",
			})
			return
		}
		c.JSON(http.StatusOK, project)
	})

	group.POST("", func(c *gin.Context) {
		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "Name and URL are required",
				"details":    gin.H{"error": err.Error()},
			})
			return
		}

		if !validSchedule(req.CrawlSchedule) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_schedule",
				"message":    "crawlSchedule must be daily, weekly or monthly",
			})
			return
		}

		now := time.Now()
		project := &models.Project{
			ID:                uuid.New().String(),
			Name:              req.Name,
			URL:               req.URL,
			CrossReferenceIDs: req.CrossReferenceIDs,
			CrawlSchedule:     req.CrawlSchedule,
			CreatedAt:         now,
		}
		if project.CrossReferenceIDs == nil {
			project.CrossReferenceIDs = []string{}
		}
		if project.CrawlSchedule != "" {
			// First scheduled crawl is due immediately
			project.NextCrawlAt = &now
		}

		if err := projects.Create(c.Request.Context(), project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "create_failed",
				"message":    "Failed to create project",
			})
			return
		}

		logger.Info("Created project", "project_id", project.ID, "name", project.Name)
		c.JSON(http.StatusCreated, project)
	})

	group.PATCH("/:id", func(c *gin.Context) {
		var update models.ProjectUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "Invalid request data",
				"details":    gin.H{"error": err.Error()},
			})
			return
		}

		if update.CrawlSchedule != nil && !validSchedule(*update.CrawlSchedule) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_schedule",
				"message":    "crawlSchedule must be daily, weekly or monthly",
			})
			return
		}

		project, err := projects.Update(c.Request.Context(), c.Param("id"), update)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error_code": "project_not_found",
				"message":    "Project not found",
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "update_failed",
				"message":    "Failed to update project",
			})
			return
		}
		c.JSON(http.StatusOK, project)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")

		err := projects.Delete(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error_code": "project_not_found",
				"message":    "Project not found",
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "delete_failed",
				"message":    "Failed to delete project",
			})
			return
		}

		// Cascade: the indexed chunks go with the project record
		if err := index.DeleteProject(c.Request.Context(), id); err != nil {
			logger.Error("Failed to delete project chunks", "project_id", id, "error", err)
		}

		logger.Info("Deleted project", "project_id", id)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})
}
