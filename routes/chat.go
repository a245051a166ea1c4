package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"elasti/internal/logger"
	"elasti/internal/qa"
	"elasti/internal/store"
	"elasti/middleware"
	"elasti/models"
)

func SetupChatRoutes(router *gin.Engine, engine *qa.Engine, projects *store.ProjectStore, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/api/chat")
	group.Use(authMiddleware.RequireAuth())

	group.POST("", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "projectId and question are required",
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

		response, err := engine.Answer(c.Request.Context(), req.ProjectID, req.Question)
		if err != nil {
			logger.Error("Chat request failed", "project_id", req.ProjectID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "chat_failed",
				"message":    "Failed to answer question",
			})
			return
		}

		c.JSON(http.StatusOK, response)
	})
}
