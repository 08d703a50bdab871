package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile represents a user's gamification state. It is mutated only
// through the engine's transactional procedures.
type UserProfile struct {
	UserID               uuid.UUID        `json:"user_id" db:"user_id"`
	Username             string           `json:"username" db:"username"`
	DisplayName          string           `json:"display_name" db:"display_name"`
	GlowScoreXP          int              `json:"glow_score_xp" db:"glow_score_xp"`
	GlowScoreTier        string           `json:"glow_score_tier" db:"glow_score_tier"`
	CurrentStreak        int              `json:"current_streak" db:"current_streak"`
	LastMessageAt        *time.Time       `json:"last_message_at,omitempty" db:"last_message_at"`
	ActiveChallenge      *ActiveChallenge `json:"active_challenge,omitempty"`
	WeeklyMessageCount   int              `json:"weekly_message_count" db:"weekly_message_count"`
	ToneCounts           map[string]int   `json:"tone_counts" db:"tone_counts"`
	ReflectionsCompleted int              `json:"reflections_completed" db:"reflections_completed"`
	UnlockedFeatures     []string         `json:"unlocked_features"`
	IsAdmin              bool             `json:"is_admin" db:"is_admin"`
	IsActive             bool             `json:"is_active" db:"is_active"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
}

// ProfileResponse is the API response for a single profile read.
type ProfileResponse struct {
	UserID                  uuid.UUID        `json:"user_id"`
	Username                string           `json:"username"`
	DisplayName             string           `json:"display_name"`
	GlowScoreXP             int              `json:"glow_score_xp"`
	GlowScoreTier           string           `json:"glow_score_tier"`
	CurrentStreak           int              `json:"current_streak"`
	LastMessageAt           *time.Time       `json:"last_message_at,omitempty"`
	ActiveChallenge         *ActiveChallenge `json:"active_challenge,omitempty"`
	WeeklyMessageCount      int              `json:"weekly_message_count"`
	UniqueConnectionsWeekly int              `json:"unique_connections_weekly"`
	ToneCounts              map[string]int   `json:"tone_counts"`
	ReflectionsCompleted    int              `json:"reflections_completed"`
	UnlockedFeatures        []string         `json:"unlocked_features"`
}

// ProgressSummary is returned to the caller after a message event has been
// applied. It is a display hint only; persisted state is never derived from it.
type ProgressSummary struct {
	XPEarned           int    `json:"xp_earned"`
	NewXP              int    `json:"new_xp"`
	NewTier            string `json:"new_tier"`
	TierChanged        bool   `json:"tier_changed"`
	NewStreak          int    `json:"new_streak"`
	ChallengeCompleted bool   `json:"challenge_completed"`
	Duplicate          bool   `json:"duplicate"`
}
