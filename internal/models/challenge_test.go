package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteriaGoal(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{"single-event type defaults to 1", Criteria{Type: CriteriaAnyMessage}, 1},
		{"multi-target uses target", Criteria{Type: CriteriaDistinctRecipients, Target: 3}, 3},
		{"zero target clamps to 1", Criteria{Type: CriteriaMatchTone, Target: 0}, 1},
		{"negative target clamps to 1", Criteria{Type: CriteriaMatchIntent, Target: -2}, 1},
		{"target of one", Criteria{Type: CriteriaMatchRecipient, Target: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Goal())
		})
	}
}
