package models

import "github.com/google/uuid"

// LeaderboardEntry represents a user's position on the glow-score leaderboard
type LeaderboardEntry struct {
	Rank               int       `json:"rank"`
	UserID             uuid.UUID `json:"user_id"`
	Username           string    `json:"username"`
	DisplayName        string    `json:"display_name"`
	GlowScoreXP        int       `json:"glow_score_xp"`
	GlowScoreTier      string    `json:"glow_score_tier"`
	WeeklyMessageCount int       `json:"weekly_message_count"`
	CurrentStreak      int       `json:"current_streak"`
}

// LeaderboardResponse is the API response for leaderboards
type LeaderboardResponse struct {
	Period      string             `json:"period"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"total_users"`
}
