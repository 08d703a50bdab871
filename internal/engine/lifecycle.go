package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dpk1212/heartglow-go/internal/catalog"
	"github.com/dpk1212/heartglow-go/internal/database"
	"github.com/dpk1212/heartglow-go/internal/models"
)

// SkipChallenge retires the user's active challenge to history without
// reward. Skipping with nothing active is a successful no-op.
func (e *Engine) SkipChallenge(ctx context.Context, userID uuid.UUID) (*models.SkipResult, error) {
	result := &models.SkipResult{}

	err := database.WithTx(ctx, e.pool, func(tx pgx.Tx) error {
		*result = models.SkipResult{}

		state, err := lockProfile(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !state.hasActive() {
			return nil
		}

		result.Skipped = true
		result.ChallengeID = *state.activeID

		if err := appendHistory(ctx, tx, userID, models.ChallengeHistoryEntry{
			ChallengeID: *state.activeID,
			Status:      models.ChallengeSkipped,
			AssignedAt:  state.activeAssignedAt,
			CompletedAt: nil,
		}); err != nil {
			return err
		}
		if err := clearChallengeConnections(ctx, tx, userID); err != nil {
			return err
		}

		state.clearActive()
		return writeProfile(ctx, tx, userID, state)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SelectChallenge lets a user with no pre-assigned challenge choose one
// from the catalog. Fails when a challenge is already active or the
// definition is missing or retired.
func (e *Engine) SelectChallenge(ctx context.Context, userID uuid.UUID, challengeID string) (*models.ActiveChallenge, error) {
	return e.SelectChallengeAt(ctx, userID, challengeID, time.Now().UTC())
}

// SelectChallengeAt is SelectChallenge with an injected clock.
func (e *Engine) SelectChallengeAt(ctx context.Context, userID uuid.UUID, challengeID string, now time.Time) (*models.ActiveChallenge, error) {
	var active *models.ActiveChallenge

	err := database.WithTx(ctx, e.pool, func(tx pgx.Tx) error {
		state, err := lockProfile(ctx, tx, userID)
		if err != nil {
			return err
		}
		if state.hasActive() {
			return ErrChallengeAlreadyActive
		}

		def, err := catalog.Get(ctx, tx, challengeID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
			}
			return err
		}
		if !def.IsActive {
			return fmt.Errorf("%w: %s", ErrChallengeInactive, challengeID)
		}

		if err := applyAssignment(ctx, tx, userID, *def, now); err != nil {
			return err
		}

		active = &models.ActiveChallenge{
			ChallengeID:  def.ID,
			Progress:     0,
			Goal:         def.Criteria.Goal(),
			AssignedAt:   now,
			RewardXP:     def.RewardXP,
			RewardUnlock: def.RewardUnlock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return active, nil
}
