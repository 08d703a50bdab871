// Package catalog holds the versioned challenge catalog. The code is the
// source of truth: Seed upserts every built-in definition at startup, so
// catalog edits ship as deploys.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpk1212/heartglow-go/internal/models"
)

func strPtr(s string) *string { return &s }

// builtin is the shipped challenge catalog.
var builtin = []models.ChallengeDefinition{
	{
		ID:          "daily-glow",
		Name:        "Daily Glow",
		Description: "Send one heartfelt message today.",
		RewardXP:    20,
		IsActive:    true,
		Criteria:    models.Criteria{Type: models.CriteriaAnyMessage},
	},
	{
		ID:          "reconnect-three",
		Name:        "Rekindle Three Flames",
		Description: "Reach out to three different people this week.",
		RewardXP:    50,
		IsActive:    true,
		Criteria:    models.Criteria{Type: models.CriteriaDistinctRecipients, Target: 3},
	},
	{
		ID:          "gratitude-note",
		Name:        "Gratitude Note",
		Description: "Send a message expressing gratitude.",
		RewardXP:    30,
		IsActive:    true,
		Criteria:    models.Criteria{Type: models.CriteriaMatchIntent, Value: "gratitude"},
	},
	{
		ID:           "warm-tone-week",
		Name:         "Warmth Streak",
		Description:  "Send three messages in a warm tone.",
		RewardXP:     40,
		RewardUnlock: strPtr("tone_insights"),
		IsActive:     true,
		Criteria:     models.Criteria{Type: models.CriteriaMatchTone, Value: "warm", Target: 3},
	},
	{
		ID:           "family-first",
		Name:         "Family First",
		Description:  "Message two family members.",
		RewardXP:     35,
		RewardUnlock: strPtr("family_insights"),
		IsActive:     true,
		Criteria:     models.Criteria{Type: models.CriteriaMatchRecipient, Value: "family", Target: 2},
	},
	{
		ID:           "old-friend-outreach",
		Name:         "Old Friend Outreach",
		Description:  "Reconnect with three old friends.",
		RewardXP:     60,
		RewardUnlock: strPtr("memory_prompts"),
		IsActive:     true,
		Criteria:     models.Criteria{Type: models.CriteriaMatchRecipient, Value: "old-friend", Target: 3},
	},
	{
		ID:          "quiet-reflection",
		Name:        "Quiet Reflection",
		Description: "Complete a guided reflection. Tracked outside the message flow.",
		RewardXP:    25,
		IsActive:    true,
		Criteria:    models.Criteria{Type: models.CriteriaOther},
	},
}

// Builtin returns a copy of the shipped catalog.
func Builtin() []models.ChallengeDefinition {
	out := make([]models.ChallengeDefinition, len(builtin))
	copy(out, builtin)
	return out
}

// Seed upserts every built-in definition. Catalog entries removed from the
// code are left in place but should be retired by flipping is_active.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, def := range builtin {
		_, err := pool.Exec(ctx, `
			INSERT INTO challenge_definitions
				(id, name, description, reward_xp, reward_unlock, criteria_type, criteria_value, criteria_target, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				reward_xp = EXCLUDED.reward_xp,
				reward_unlock = EXCLUDED.reward_unlock,
				criteria_type = EXCLUDED.criteria_type,
				criteria_value = EXCLUDED.criteria_value,
				criteria_target = EXCLUDED.criteria_target,
				is_active = EXCLUDED.is_active
		`, def.ID, def.Name, def.Description, def.RewardXP, def.RewardUnlock,
			string(def.Criteria.Type), def.Criteria.Value, def.Criteria.Goal(), def.IsActive)
		if err != nil {
			return fmt.Errorf("failed to seed challenge %s: %w", def.ID, err)
		}
	}
	return nil
}

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so definitions can
// be read inside or outside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const definitionColumns = `id, name, description, reward_xp, reward_unlock,
	criteria_type, criteria_value, criteria_target, is_active`

// ErrNotFound is returned when a definition id is unknown.
var ErrNotFound = errors.New("challenge definition not found")

// Get loads one definition by id.
func Get(ctx context.Context, q Querier, id string) (*models.ChallengeDefinition, error) {
	row := q.QueryRow(ctx, `SELECT `+definitionColumns+` FROM challenge_definitions WHERE id = $1`, id)
	def, err := scanDefinition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load challenge %s: %w", id, err)
	}
	return def, nil
}

// ListActive loads every active definition, ordered by id for stable output.
func ListActive(ctx context.Context, q Querier) ([]models.ChallengeDefinition, error) {
	rows, err := q.Query(ctx, `SELECT `+definitionColumns+` FROM challenge_definitions WHERE is_active = true ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenge definitions: %w", err)
	}
	defer rows.Close()

	var defs []models.ChallengeDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge definition: %w", err)
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

func scanDefinition(row pgx.Row) (*models.ChallengeDefinition, error) {
	var def models.ChallengeDefinition
	var criteriaType string
	err := row.Scan(
		&def.ID,
		&def.Name,
		&def.Description,
		&def.RewardXP,
		&def.RewardUnlock,
		&criteriaType,
		&def.Criteria.Value,
		&def.Criteria.Target,
		&def.IsActive,
	)
	if err != nil {
		return nil, err
	}
	def.Criteria.Type = models.CriteriaType(criteriaType)
	return &def, nil
}
