package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dpk1212/heartglow-go/internal/catalog"
	"github.com/dpk1212/heartglow-go/internal/database"
	"github.com/dpk1212/heartglow-go/internal/models"
)

// recentHistoryWindow is how many recent challenges are excluded from
// re-assignment to keep rotation fresh.
const recentHistoryWindow = 5

// AssignWeeklyChallenges hands an eligible random challenge to every active
// user without one and resets weekly metrics for the users assigned. Safe
// to invoke more than once per week: users holding a challenge are skipped.
func (e *Engine) AssignWeeklyChallenges(ctx context.Context) (*models.AssignmentReport, error) {
	return e.AssignWeeklyChallengesAt(ctx, time.Now().UTC())
}

// AssignWeeklyChallengesAt is AssignWeeklyChallenges with an injected clock.
func (e *Engine) AssignWeeklyChallengesAt(ctx context.Context, now time.Time) (*models.AssignmentReport, error) {
	defs, err := catalog.ListActive(ctx, e.pool)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		// Never leave the population without a selectable challenge.
		return nil, ErrNoActiveDefinitions
	}

	rows, err := e.pool.Query(ctx, `SELECT user_id FROM user_profiles WHERE is_active = true ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	// One transaction per user: a conflict or bad record on one user must
	// not block the rest of the cohort.
	report := &models.AssignmentReport{}
	for _, userID := range userIDs {
		assigned, err := e.assignUser(ctx, userID, defs, now)
		switch {
		case err != nil:
			log.Printf("⚠️  assignment failed for user %s: %v", userID, err)
			report.Failed++
		case assigned:
			report.Assigned++
		default:
			report.Skipped++
		}
	}

	log.Printf("📋 weekly assignment: %d assigned, %d skipped, %d failed",
		report.Assigned, report.Skipped, report.Failed)
	return report, nil
}

func (e *Engine) assignUser(ctx context.Context, userID uuid.UUID, defs []models.ChallengeDefinition, now time.Time) (bool, error) {
	assigned := false

	err := database.WithTx(ctx, e.pool, func(tx pgx.Tx) error {
		assigned = false

		state, err := lockProfile(ctx, tx, userID)
		if err != nil {
			return err
		}
		// Never overwrite an in-flight challenge. Read fresh under the row
		// lock, so a re-run after a partial batch cannot double-assign.
		if state.hasActive() {
			return nil
		}

		recent, err := recentChallengeIDs(ctx, tx, userID)
		if err != nil {
			return err
		}

		eligible := excludeRecent(defs, recent)
		if len(eligible) == 0 {
			// Repeats beat leaving the user with nothing.
			eligible = defs
		}

		def := eligible[e.intn(len(eligible))]
		if err := applyAssignment(ctx, tx, userID, def, now); err != nil {
			return err
		}
		assigned = true
		return nil
	})

	return assigned, err
}

// applyAssignment writes the snapshotted active challenge and resets the
// weekly metrics. Shared by the batch and the select operation.
func applyAssignment(ctx context.Context, tx pgx.Tx, userID uuid.UUID, def models.ChallengeDefinition, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE user_profiles
		SET active_challenge_id = $2,
			active_progress = 0,
			active_goal = $3,
			active_assigned_at = $4,
			active_reward_xp = $5,
			active_reward_unlock = $6,
			weekly_message_count = 0,
			tone_counts = '{}',
			reflections_completed = 0,
			updated_at = NOW()
		WHERE user_id = $1
	`, userID, def.ID, def.Criteria.Goal(), now, def.RewardXP, def.RewardUnlock)
	if err != nil {
		return fmt.Errorf("failed to assign challenge: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM weekly_connections WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to reset weekly connections: %w", err)
	}
	return clearChallengeConnections(ctx, tx, userID)
}

// recentChallengeIDs returns the challenge ids of the user's most recent
// history entries, newest first.
func recentChallengeIDs(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (map[string]bool, error) {
	rows, err := tx.Query(ctx, `
		SELECT challenge_id FROM challenge_history
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, userID, recentHistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent history: %w", err)
	}
	defer rows.Close()

	recent := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan history id: %w", err)
		}
		recent[id] = true
	}
	return recent, rows.Err()
}

func excludeRecent(defs []models.ChallengeDefinition, recent map[string]bool) []models.ChallengeDefinition {
	var eligible []models.ChallengeDefinition
	for _, def := range defs {
		if !recent[def.ID] {
			eligible = append(eligible, def)
		}
	}
	return eligible
}

// intn draws from the injected rand source. The batch walks users
// sequentially but the engine is shared across request goroutines.
func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}
