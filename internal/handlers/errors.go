package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dpk1212/heartglow-go/internal/database"
	"github.com/dpk1212/heartglow-go/internal/engine"
)

// respondEngineError maps engine errors onto HTTP statuses. Transient
// storage conflicts come back 503 so callers know to retry the whole
// operation; nothing was partially applied.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, engine.ErrChallengeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
	case errors.Is(err, engine.ErrChallengeAlreadyActive):
		c.JSON(http.StatusConflict, gin.H{"error": "A challenge is already active"})
	case errors.Is(err, engine.ErrChallengeInactive):
		c.JSON(http.StatusConflict, gin.H{"error": "Challenge is no longer active"})
	case errors.Is(err, database.ErrTxRetriesExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage conflict, please retry", "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}
