package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elasti/internal/auth"
	"elasti/internal/config"
	"elasti/internal/logger"
	"elasti/middleware"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, authMiddleware *middleware.AuthMiddleware) {
	group := router.Group("/api/auth")

	group.POST("/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "Username and password are required",
			})
			return
		}

		if req.Username != cfg.AdminUsername ||
			!auth.CheckPassword(req.Password, cfg.AdminPassword, cfg.AdminPasswordHash) {
			logger.Warn("Failed login attempt", "username", req.Username, "ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "invalid_credentials",
				"message":    "Invalid username or password",
			})
			return
		}

		token, err := auth.IssueToken(req.Username, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code": "token_generation_failed",
				"message":    "Failed to generate token",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"username": req.Username,
		})
	})

	group.GET("/me", authMiddleware.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": middleware.GetUsername(c),
		})
	})
}
