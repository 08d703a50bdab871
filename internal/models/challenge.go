package models

import (
	"time"
)

// CriteriaType identifies how a challenge decides whether a message counts.
type CriteriaType string

const (
	CriteriaAnyMessage         CriteriaType = "send_any_message"
	CriteriaDistinctRecipients CriteriaType = "send_distinct_recipients"
	CriteriaMatchIntent        CriteriaType = "match_intent"
	CriteriaMatchTone          CriteriaType = "match_tone"
	CriteriaMatchRecipient     CriteriaType = "match_recipient_category"
	CriteriaOther              CriteriaType = "other"
)

// ChallengeStatus values recorded in challenge history.
const (
	ChallengeCompleted = "completed"
	ChallengeSkipped   = "skipped"
)

// Criteria is the matching rule attached to a challenge definition.
// Value carries the intent/tone/category to match; Target carries the
// numeric goal for multi-target criteria types.
type Criteria struct {
	Type        CriteriaType `json:"type" db:"criteria_type"`
	Value       string       `json:"value,omitempty" db:"criteria_value"`
	Target      int          `json:"target,omitempty" db:"criteria_target"`
	Description string       `json:"description,omitempty"`
}

// Goal derives the progress goal for a challenge assigned from this
// criteria, clamped to a minimum of 1.
func (c Criteria) Goal() int {
	if c.Target > 1 {
		return c.Target
	}
	return 1
}

// ChallengeDefinition is a read-only catalog entry.
type ChallengeDefinition struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Description  string   `json:"description" db:"description"`
	RewardXP     int      `json:"reward_xp" db:"reward_xp"`
	RewardUnlock *string  `json:"reward_unlock,omitempty" db:"reward_unlock"`
	IsActive     bool     `json:"is_active" db:"is_active"`
	Criteria     Criteria `json:"criteria"`
}

// ActiveChallenge is the user's in-flight challenge. Reward and goal are
// snapshotted at assignment time so later catalog edits do not change an
// in-flight challenge.
type ActiveChallenge struct {
	ChallengeID  string    `json:"challenge_id"`
	Progress     int       `json:"progress"`
	Goal         int       `json:"goal"`
	AssignedAt   time.Time `json:"assigned_at"`
	RewardXP     int       `json:"reward_xp"`
	RewardUnlock *string   `json:"reward_unlock,omitempty"`
}

// ChallengeHistoryEntry is an immutable record of a finished challenge.
type ChallengeHistoryEntry struct {
	ChallengeID string     `json:"challenge_id" db:"challenge_id"`
	Status      string     `json:"status" db:"status"`
	AssignedAt  time.Time  `json:"assigned_at" db:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// AssignmentReport summarizes one run of the weekly assignment batch.
type AssignmentReport struct {
	Assigned int `json:"assigned"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// SkipResult reports the outcome of a skip request. Skipping with no
// active challenge is a successful no-op, not an error.
type SkipResult struct {
	Skipped     bool   `json:"skipped"`
	ChallengeID string `json:"challenge_id,omitempty"`
}
