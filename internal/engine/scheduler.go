package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
)

const assignLastRunKey = "assignments_last_run"

// RunWeeklyScheduler fires the assignment batch on the first check of each
// ISO week. Blocks until ctx is cancelled. Duplicate firing across restarts
// or replicas is harmless: the batch skips users who already hold a
// challenge, and the last-run marker is only advanced after a full pass.
func (e *Engine) RunWeeklyScheduler(ctx context.Context, checkInterval time.Duration) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	// Catch up immediately in case the process was down over the boundary.
	e.maybeRunWeekly(ctx, time.Now().UTC())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.maybeRunWeekly(ctx, time.Now().UTC())
		}
	}
}

func (e *Engine) maybeRunWeekly(ctx context.Context, now time.Time) {
	last, err := e.getState(ctx, assignLastRunKey)
	if err != nil {
		log.Printf("⚠️  scheduler: read last run: %v", err)
		return
	}
	if last != "" {
		t, err := time.Parse(time.RFC3339, last)
		if err == nil && isoWeek(t) == isoWeek(now) {
			return
		}
	}

	if _, err := e.AssignWeeklyChallengesAt(ctx, now); err != nil {
		log.Printf("⚠️  scheduler: weekly assignment: %v", err)
		return
	}
	if err := e.setState(ctx, assignLastRunKey, now.Format(time.RFC3339)); err != nil {
		log.Printf("⚠️  scheduler: store last run: %v", err)
	}
}

func (e *Engine) getState(ctx context.Context, key string) (string, error) {
	var value string
	err := e.pool.QueryRow(ctx, `SELECT value FROM engine_state WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read engine state %s: %w", key, err)
	}
	return value, nil
}

func (e *Engine) setState(ctx context.Context, key, value string) error {
	_, err := e.pool.Exec(ctx, `
		INSERT INTO engine_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write engine state %s: %w", key, err)
	}
	return nil
}

// isoWeek returns "YYYY-Www" for the given time.
func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
