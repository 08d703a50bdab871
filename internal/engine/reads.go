package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dpk1212/heartglow-go/internal/models"
)

// GetProfile assembles the full profile view: gamification state, active
// challenge, weekly metrics, and unlocks.
func (e *Engine) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileResponse, error) {
	var resp models.ProfileResponse
	var toneJSON []byte
	var activeID *string
	var active models.ActiveChallenge

	err := e.pool.QueryRow(ctx, `
		SELECT p.user_id, p.username, p.display_name,
		       p.glow_score_xp, p.glow_score_tier, p.current_streak, p.last_message_at,
		       p.weekly_message_count, p.tone_counts, p.reflections_completed,
		       p.active_challenge_id,
		       COALESCE(p.active_progress, 0), COALESCE(p.active_goal, 0),
		       COALESCE(p.active_assigned_at, NOW()), COALESCE(p.active_reward_xp, 0),
		       p.active_reward_unlock,
		       (SELECT COUNT(*) FROM weekly_connections w WHERE w.user_id = p.user_id)
		FROM user_profiles p
		WHERE p.user_id = $1 AND p.is_active = true
	`, userID).Scan(
		&resp.UserID,
		&resp.Username,
		&resp.DisplayName,
		&resp.GlowScoreXP,
		&resp.GlowScoreTier,
		&resp.CurrentStreak,
		&resp.LastMessageAt,
		&resp.WeeklyMessageCount,
		&toneJSON,
		&resp.ReflectionsCompleted,
		&activeID,
		&active.Progress,
		&active.Goal,
		&active.AssignedAt,
		&active.RewardXP,
		&active.RewardUnlock,
		&resp.UniqueConnectionsWeekly,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	resp.ToneCounts = map[string]int{}
	if len(toneJSON) > 0 {
		if err := json.Unmarshal(toneJSON, &resp.ToneCounts); err != nil {
			return nil, fmt.Errorf("failed to decode tone counts: %w", err)
		}
	}
	if activeID != nil {
		active.ChallengeID = *activeID
		resp.ActiveChallenge = &active
	}

	unlocks, err := e.unlockedFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp.UnlockedFeatures = unlocks

	return &resp, nil
}

// GetHistory returns the user's challenge history, newest first. The store
// keeps at most 20 entries per user.
func (e *Engine) GetHistory(ctx context.Context, userID uuid.UUID) ([]models.ChallengeHistoryEntry, error) {
	rows, err := e.pool.Query(ctx, `
		SELECT challenge_id, status, assigned_at, completed_at
		FROM challenge_history
		WHERE user_id = $1
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []models.ChallengeHistoryEntry{}
	for rows.Next() {
		var entry models.ChallengeHistoryEntry
		if err := rows.Scan(&entry.ChallengeID, &entry.Status, &entry.AssignedAt, &entry.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (e *Engine) unlockedFeatures(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := e.pool.Query(ctx, `
		SELECT token FROM user_unlocks WHERE user_id = $1 ORDER BY granted_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocks: %w", err)
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
