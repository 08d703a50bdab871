package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dpk1212/heartglow-go/internal/models"
)

func event(mutate func(*models.MessageEvent)) models.MessageEvent {
	recipient := uuid.New()
	ev := models.MessageEvent{
		MessageID:             uuid.NewString(),
		Timestamp:             time.Now().UTC(),
		Intent:                "check-in",
		Tone:                  "warm",
		RecipientRelationship: "friend",
		RecipientID:           &recipient,
		AppliedToChallenge:    true,
	}
	if mutate != nil {
		mutate(&ev)
	}
	return ev
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.Criteria
		ev       models.MessageEvent
		want     bool
	}{
		{"any message", models.Criteria{Type: models.CriteriaAnyMessage}, event(nil), true},
		{"distinct recipients", models.Criteria{Type: models.CriteriaDistinctRecipients, Target: 3}, event(nil), true},
		{"intent match", models.Criteria{Type: models.CriteriaMatchIntent, Value: "check-in"}, event(nil), true},
		{"intent mismatch", models.Criteria{Type: models.CriteriaMatchIntent, Value: "gratitude"}, event(nil), false},
		{"intent case-insensitive", models.Criteria{Type: models.CriteriaMatchIntent, Value: "Check-In"}, event(nil), true},
		{"tone match", models.Criteria{Type: models.CriteriaMatchTone, Value: "warm"}, event(nil), true},
		{"tone mismatch", models.Criteria{Type: models.CriteriaMatchTone, Value: "playful"}, event(nil), false},
		{"recipient category match", models.Criteria{Type: models.CriteriaMatchRecipient, Value: "friend"}, event(nil), true},
		{"recipient category mismatch", models.Criteria{Type: models.CriteriaMatchRecipient, Value: "family"}, event(nil), false},
		{"other never auto-matches", models.Criteria{Type: models.CriteriaOther}, event(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.criteria, tt.ev)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches_UnknownTypeFailsClosed(t *testing.T) {
	got, err := Matches(models.Criteria{Type: "send_telegram"}, event(nil))
	assert.False(t, got)
	assert.ErrorIs(t, err, ErrUnknownCriteria)
}
