package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dpk1212/heartglow-go/internal/engine"
	"github.com/dpk1212/heartglow-go/internal/middleware"
	"github.com/dpk1212/heartglow-go/internal/models"
)

// PostProgressEvent applies one logged message to the caller's
// gamification state. The message itself must already be durably stored by
// the messaging subsystem; this endpoint only does the bookkeeping and is
// safe to retry with the same message_id.
func PostProgressEvent(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var ev models.MessageEvent
		if err := c.ShouldBindJSON(&ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		summary, err := eng.ApplyMessageEvent(c.Request.Context(), userID, ev)
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
