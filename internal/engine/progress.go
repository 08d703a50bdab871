package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpk1212/heartglow-go/internal/catalog"
	"github.com/dpk1212/heartglow-go/internal/database"
	"github.com/dpk1212/heartglow-go/internal/models"
)

// processedMessageKeep bounds the per-user idempotency ledger.
const processedMessageKeep = 50

// Engine runs every mutation of user gamification state. All writes happen
// inside per-user transactions; concurrent callers on the same profile are
// serialized by a row lock and transient conflicts are retried from a fresh
// read, so every procedure here must be safe to re-run from scratch.
type Engine struct {
	pool *pgxpool.Pool

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates the engine. The rand source is injected so challenge
// assignment is reproducible in tests; pass nil for a time-seeded one.
func New(pool *pgxpool.Pool, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{pool: pool, rng: rng}
}

// profileState is the locked snapshot a transaction works on.
type profileState struct {
	xp            int
	tier          string
	streak        int
	lastMessageAt *time.Time
	weeklyCount   int
	toneCounts    map[string]int

	activeID           *string
	activeProgress     int
	activeGoal         int
	activeAssignedAt   time.Time
	activeRewardXP     int
	activeRewardUnlock *string
}

func (p *profileState) hasActive() bool { return p.activeID != nil }

func (p *profileState) clearActive() {
	p.activeID = nil
	p.activeProgress = 0
	p.activeGoal = 0
	p.activeAssignedAt = time.Time{}
	p.activeRewardXP = 0
	p.activeRewardUnlock = nil
}

// ApplyMessageEvent applies one durably persisted message to the user's
// gamification state: streak, XP, tier, weekly metrics, and (when eligible)
// active-challenge progress, all in a single transaction. Redelivery of a
// message ID already applied is a successful no-op.
func (e *Engine) ApplyMessageEvent(ctx context.Context, userID uuid.UUID, ev models.MessageEvent) (*models.ProgressSummary, error) {
	var summary *models.ProgressSummary

	err := database.WithTx(ctx, e.pool, func(tx pgx.Tx) error {
		var err error
		summary, err = e.applyMessageEventTx(ctx, tx, userID, ev)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (e *Engine) applyMessageEventTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, ev models.MessageEvent) (*models.ProgressSummary, error) {
	state, err := lockProfile(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Idempotency guard: each message ID is credited at most once per user,
	// even across caller retries after a reported failure.
	applied, err := markProcessed(ctx, tx, userID, ev.MessageID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return &models.ProgressSummary{
			NewXP:     state.xp,
			NewTier:   state.tier,
			NewStreak: state.streak,
			Duplicate: true,
		}, nil
	}

	xpEarned := BaseXPPerMessage
	newStreak := NextStreak(state.lastMessageAt, ev.Timestamp, state.streak)
	challengeCompleted := false

	if ev.AppliedToChallenge && state.hasActive() {
		completed, rewardXP, err := e.advanceChallenge(ctx, tx, userID, state, ev)
		if err != nil {
			return nil, err
		}
		if completed {
			challengeCompleted = true
			xpEarned += rewardXP
		}
	}

	// Weekly metrics
	state.weeklyCount++
	if ev.RecipientID != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO weekly_connections (user_id, connection_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, userID, *ev.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("failed to record weekly connection: %w", err)
		}
	}
	if ev.Tone != "" {
		state.toneCounts[ev.Tone]++
	}

	oldTier := state.tier
	state.xp += xpEarned
	state.tier = TierFor(state.xp)
	state.streak = newStreak
	ts := ev.Timestamp
	state.lastMessageAt = &ts

	if err := writeProfile(ctx, tx, userID, state); err != nil {
		return nil, err
	}

	return &models.ProgressSummary{
		XPEarned:           xpEarned,
		NewXP:              state.xp,
		NewTier:            state.tier,
		TierChanged:        state.tier != oldTier,
		NewStreak:          newStreak,
		ChallengeCompleted: challengeCompleted,
	}, nil
}

// advanceChallenge credits the event against the active challenge and
// handles completion. Returns whether the challenge completed and the
// snapshotted reward XP to add.
func (e *Engine) advanceChallenge(ctx context.Context, tx pgx.Tx, userID uuid.UUID, state *profileState, ev models.MessageEvent) (bool, int, error) {
	def, err := catalog.Get(ctx, tx, *state.activeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			// The active challenge references a deleted definition. Recover
			// by clearing the dangling reference; the message still counts
			// toward streak, XP, and metrics.
			log.Printf("⚠️  user %s: active challenge %s has no definition, clearing", userID, *state.activeID)
			if err := clearChallengeConnections(ctx, tx, userID); err != nil {
				return false, 0, err
			}
			state.clearActive()
			return false, 0, nil
		}
		return false, 0, err
	}

	matched, err := Matches(def.Criteria, ev)
	if err != nil {
		log.Printf("⚠️  challenge %s: %v (treating as non-matching)", def.ID, err)
		return false, 0, nil
	}
	if !matched {
		return false, 0, nil
	}

	if def.Criteria.Type == models.CriteriaDistinctRecipients {
		// Progress counts distinct recipients since assignment, not raw
		// messages. A repeat recipient does not advance the challenge.
		if ev.RecipientID == nil {
			return false, 0, nil
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO challenge_connections (user_id, connection_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, userID, *ev.RecipientID)
		if err != nil {
			return false, 0, fmt.Errorf("failed to record challenge connection: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return false, 0, nil
		}
	}

	state.activeProgress++

	if state.activeProgress < state.activeGoal {
		return false, 0, nil
	}

	// Completion: history entry, reward XP, unlock token, then the active
	// slot empties — all in this same transaction.
	completedAt := ev.Timestamp
	if err := appendHistory(ctx, tx, userID, models.ChallengeHistoryEntry{
		ChallengeID: *state.activeID,
		Status:      models.ChallengeCompleted,
		AssignedAt:  state.activeAssignedAt,
		CompletedAt: &completedAt,
	}); err != nil {
		return false, 0, err
	}

	if state.activeRewardUnlock != nil {
		_, err := tx.Exec(ctx, `
			INSERT INTO user_unlocks (user_id, token)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, userID, *state.activeRewardUnlock)
		if err != nil {
			return false, 0, fmt.Errorf("failed to grant unlock: %w", err)
		}
	}

	if err := clearChallengeConnections(ctx, tx, userID); err != nil {
		return false, 0, err
	}

	rewardXP := state.activeRewardXP
	state.clearActive()
	return true, rewardXP, nil
}

// lockProfile reads the profile row FOR UPDATE, serializing all mutations
// for this user behind the row lock.
func lockProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*profileState, error) {
	var state profileState
	var toneJSON []byte
	var progress, goal, rewardXP *int
	var assignedAt *time.Time

	err := tx.QueryRow(ctx, `
		SELECT glow_score_xp, glow_score_tier, current_streak, last_message_at,
		       weekly_message_count, tone_counts,
		       active_challenge_id, active_progress, active_goal,
		       active_assigned_at, active_reward_xp, active_reward_unlock
		FROM user_profiles
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(
		&state.xp,
		&state.tier,
		&state.streak,
		&state.lastMessageAt,
		&state.weeklyCount,
		&toneJSON,
		&state.activeID,
		&progress,
		&goal,
		&assignedAt,
		&rewardXP,
		&state.activeRewardUnlock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	state.toneCounts = map[string]int{}
	if len(toneJSON) > 0 {
		if err := json.Unmarshal(toneJSON, &state.toneCounts); err != nil {
			return nil, fmt.Errorf("failed to decode tone counts: %w", err)
		}
	}
	if state.activeID != nil {
		if progress != nil {
			state.activeProgress = *progress
		}
		if goal != nil {
			state.activeGoal = *goal
		}
		if assignedAt != nil {
			state.activeAssignedAt = *assignedAt
		}
		if rewardXP != nil {
			state.activeRewardXP = *rewardXP
		}
	}

	return &state, nil
}

// writeProfile persists the full mutated state back onto the locked row.
func writeProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID, state *profileState) error {
	toneJSON, err := json.Marshal(state.toneCounts)
	if err != nil {
		return fmt.Errorf("failed to encode tone counts: %w", err)
	}

	var progress, goal, rewardXP *int
	var assignedAt *time.Time
	if state.activeID != nil {
		progress = &state.activeProgress
		goal = &state.activeGoal
		assignedAt = &state.activeAssignedAt
		rewardXP = &state.activeRewardXP
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_profiles
		SET glow_score_xp = $2,
			glow_score_tier = $3,
			current_streak = $4,
			last_message_at = $5,
			weekly_message_count = $6,
			tone_counts = $7,
			active_challenge_id = $8,
			active_progress = $9,
			active_goal = $10,
			active_assigned_at = $11,
			active_reward_xp = $12,
			active_reward_unlock = $13,
			updated_at = NOW()
		WHERE user_id = $1
	`, userID, state.xp, state.tier, state.streak, state.lastMessageAt,
		state.weeklyCount, toneJSON,
		state.activeID, progress, goal, assignedAt, rewardXP, state.activeRewardUnlock)
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// markProcessed records the message ID and reports whether it was new.
// The ledger keeps only the most recent entries per user.
func markProcessed(ctx context.Context, tx pgx.Tx, userID uuid.UUID, messageID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO processed_messages (user_id, message_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, userID, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to record message id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM processed_messages
		WHERE user_id = $1 AND message_id NOT IN (
			SELECT message_id FROM processed_messages
			WHERE user_id = $1
			ORDER BY processed_at DESC, message_id DESC
			LIMIT $2
		)
	`, userID, processedMessageKeep)
	if err != nil {
		return false, fmt.Errorf("failed to prune message ids: %w", err)
	}
	return true, nil
}

// appendHistory inserts one history entry and trims the user's history to
// the newest 20.
func appendHistory(ctx context.Context, tx pgx.Tx, userID uuid.UUID, entry models.ChallengeHistoryEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO challenge_history (user_id, challenge_id, status, assigned_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, entry.ChallengeID, entry.Status, entry.AssignedAt, entry.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM challenge_history
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM challenge_history
			WHERE user_id = $1
			ORDER BY id DESC
			LIMIT 20
		)
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

func clearChallengeConnections(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM challenge_connections WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear challenge connections: %w", err)
	}
	return nil
}
