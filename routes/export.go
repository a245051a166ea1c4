package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"elasti/internal/logger"
	"elasti/internal/store"
	"elasti/middleware"
	"elasti/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func SetupExportRoutes(router *gin.Engine, projects *store.ProjectStore, exporter *services.ExportService, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/api/projects")
	group.Use(authMiddleware.RequireAuth())

	group.GET("/:id/export", func(c *gin.Context) {
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

		data, count, err := exporter.ExportProjectChunks(c.Request.Context(), project)
		if err != nil {
			logger.Error("Export failed", "project_id", project.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "export_failed",
				"message":    "Failed to export project content",
			})
			return
		}

		logger.Info("Exported project content", "project_id", project.ID, "chunks", count)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-content.xlsx", project.ID))
		c.Data(http.StatusOK, xlsxContentType, data)
	})
}
