package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpk1212/heartglow-go/internal/catalog"
	"github.com/dpk1212/heartglow-go/internal/engine"
	"github.com/dpk1212/heartglow-go/internal/middleware"
)

// SelectChallengeRequest is the request body for choosing a challenge
type SelectChallengeRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
}

// ListChallenges returns all active catalog entries
func ListChallenges(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defs, err := catalog.ListActive(c.Request.Context(), pool)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenges", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"challenges": defs,
			"count":      len(defs),
		})
	}
}

// SkipChallenge retires the caller's active challenge without reward.
// Having nothing to skip is a successful no-op, not an error.
func SkipChallenge(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		result, err := eng.SkipChallenge(c.Request.Context(), userID)
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// SelectChallenge assigns a catalog challenge chosen by the caller
func SelectChallenge(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var req SelectChallengeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		active, err := eng.SelectChallenge(c.Request.Context(), userID, req.ChallengeID)
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":          "Challenge selected",
			"active_challenge": active,
		})
	}
}
