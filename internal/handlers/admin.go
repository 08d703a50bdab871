package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/dpk1212/heartglow-go/internal/engine"
)

// RunAssignments triggers the weekly assignment batch immediately. Used by
// external schedulers and for operational catch-up; duplicate invocation
// is safe.
func RunAssignments(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := eng.AssignWeeklyChallenges(c.Request.Context())
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

// CreateUserRequest is the request body for provisioning a profile
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	IsAdmin     bool   `json:"is_admin"`
}

// CreateUser provisions a fresh profile: zero XP, lowest tier, no streak,
// no challenge.
func CreateUser(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		var passwordHash *string
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			h := string(hash)
			passwordHash = &h
		}

		userID := uuid.New()
		displayName := req.DisplayName
		if displayName == "" {
			displayName = req.Username
		}

		_, err := pool.Exec(c.Request.Context(), `
			INSERT INTO user_profiles (user_id, username, display_name, password_hash, glow_score_tier, is_admin)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, userID, req.Username, displayName, passwordHash, engine.TierLowest, req.IsAdmin)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create user", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user_id":  userID,
			"username": req.Username,
		})
	}
}
