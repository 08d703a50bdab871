package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements are applied one at a time at startup: pgx's extended
// protocol rejects multi-statement strings. Every statement is idempotent
// so a restart against an existing database is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
	user_id               UUID PRIMARY KEY,
	username              TEXT NOT NULL UNIQUE,
	display_name          TEXT NOT NULL DEFAULT '',
	password_hash         TEXT,
	glow_score_xp         INTEGER NOT NULL DEFAULT 0,
	glow_score_tier       TEXT NOT NULL DEFAULT 'Opening Up',
	current_streak        INTEGER NOT NULL DEFAULT 0,
	last_message_at       TIMESTAMPTZ,
	active_challenge_id   TEXT,
	active_progress       INTEGER,
	active_goal           INTEGER,
	active_assigned_at    TIMESTAMPTZ,
	active_reward_xp      INTEGER,
	active_reward_unlock  TEXT,
	weekly_message_count  INTEGER NOT NULL DEFAULT 0,
	tone_counts           JSONB NOT NULL DEFAULT '{}',
	reflections_completed INTEGER NOT NULL DEFAULT 0,
	is_admin              BOOLEAN NOT NULL DEFAULT false,
	is_active             BOOLEAN NOT NULL DEFAULT true,
	login_enabled         BOOLEAN NOT NULL DEFAULT true,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,

	`CREATE TABLE IF NOT EXISTS challenge_definitions (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	reward_xp       INTEGER NOT NULL DEFAULT 0,
	reward_unlock   TEXT,
	criteria_type   TEXT NOT NULL,
	criteria_value  TEXT NOT NULL DEFAULT '',
	criteria_target INTEGER NOT NULL DEFAULT 1,
	is_active       BOOLEAN NOT NULL DEFAULT true
);`,

	`CREATE TABLE IF NOT EXISTS challenge_history (
	id           BIGSERIAL PRIMARY KEY,
	user_id      UUID NOT NULL REFERENCES user_profiles(user_id) ON DELETE CASCADE,
	challenge_id TEXT NOT NULL,
	status       TEXT NOT NULL,
	assigned_at  TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,

	`CREATE INDEX IF NOT EXISTS idx_challenge_history_user
	ON challenge_history (user_id, id DESC);`,

	`CREATE TABLE IF NOT EXISTS user_unlocks (
	user_id    UUID NOT NULL REFERENCES user_profiles(user_id) ON DELETE CASCADE,
	token      TEXT NOT NULL,
	granted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, token)
);`,

	`CREATE TABLE IF NOT EXISTS weekly_connections (
	user_id       UUID NOT NULL REFERENCES user_profiles(user_id) ON DELETE CASCADE,
	connection_id UUID NOT NULL,
	PRIMARY KEY (user_id, connection_id)
);`,

	`CREATE TABLE IF NOT EXISTS challenge_connections (
	user_id       UUID NOT NULL REFERENCES user_profiles(user_id) ON DELETE CASCADE,
	connection_id UUID NOT NULL,
	PRIMARY KEY (user_id, connection_id)
);`,

	`CREATE TABLE IF NOT EXISTS processed_messages (
	user_id      UUID NOT NULL REFERENCES user_profiles(user_id) ON DELETE CASCADE,
	message_id   TEXT NOT NULL,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, message_id)
);`,

	`CREATE TABLE IF NOT EXISTS engine_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
}

// ApplySchema creates all engine tables if they do not exist yet.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
