package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpk1212/heartglow-go/internal/models"
)

// GetWeeklyLeaderboard returns the weekly message-count leaderboard
func GetWeeklyLeaderboard(pool *pgxpool.Pool) gin.HandlerFunc {
	return leaderboardHandler(pool, "week", `
		SELECT
			user_id,
			username,
			display_name,
			glow_score_xp,
			glow_score_tier,
			weekly_message_count,
			current_streak
		FROM user_profiles
		WHERE is_active = true
		ORDER BY weekly_message_count DESC, glow_score_xp DESC, username ASC
		LIMIT 50
	`)
}

// GetAllTimeLeaderboard returns the all-time glow-score leaderboard
func GetAllTimeLeaderboard(pool *pgxpool.Pool) gin.HandlerFunc {
	return leaderboardHandler(pool, "alltime", `
		SELECT
			user_id,
			username,
			display_name,
			glow_score_xp,
			glow_score_tier,
			weekly_message_count,
			current_streak
		FROM user_profiles
		WHERE is_active = true
		ORDER BY glow_score_xp DESC, current_streak DESC, username ASC
		LIMIT 50
	`)
}

func leaderboardHandler(pool *pgxpool.Pool, period, query string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := pool.Query(c.Request.Context(), query)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query leaderboard", "details": err.Error()})
			return
		}
		defer rows.Close()

		leaderboard := []models.LeaderboardEntry{}
		rank := 1

		for rows.Next() {
			var entry models.LeaderboardEntry
			err := rows.Scan(
				&entry.UserID,
				&entry.Username,
				&entry.DisplayName,
				&entry.GlowScoreXP,
				&entry.GlowScoreTier,
				&entry.WeeklyMessageCount,
				&entry.CurrentStreak,
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse leaderboard data", "details": err.Error()})
				return
			}

			entry.Rank = rank
			leaderboard = append(leaderboard, entry)
			rank++
		}

		c.JSON(http.StatusOK, models.LeaderboardResponse{
			Period:      period,
			Leaderboard: leaderboard,
			TotalUsers:  len(leaderboard),
		})
	}
}
