package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dpk1212/heartglow-go/internal/engine"
)

// GetUserProfile returns a user's gamification profile
func GetUserProfile(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDParam := c.Param("id")
		userID, err := uuid.Parse(userIDParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
			return
		}

		profile, err := eng.GetProfile(c.Request.Context(), userID)
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, profile)
	}
}

// GetUserHistory returns a user's challenge history, newest first
func GetUserHistory(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDParam := c.Param("id")
		userID, err := uuid.Parse(userIDParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
			return
		}

		history, err := eng.GetHistory(c.Request.Context(), userID)
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"history": history,
			"count":   len(history),
		})
	}
}
