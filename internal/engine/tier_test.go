package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "Opening Up"},
		{50, "Opening Up"},
		{51, "Making Moves"},
		{75, "Making Moves"},
		{150, "Making Moves"},
		{151, "Communicator in Bloom"},
		{300, "Communicator in Bloom"},
		{301, "HeartGuide"},
		{500, "HeartGuide"},
		{501, "Legacy Builder"},
		{10000, "Legacy Builder"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.xp), "xp=%d", tt.xp)
	}
}

func TestTierFor_NegativeXP(t *testing.T) {
	assert.Equal(t, TierLowest, TierFor(-10))
}

func TestTierFor_Monotonic(t *testing.T) {
	rank := map[string]int{
		"Opening Up":            0,
		"Making Moves":          1,
		"Communicator in Bloom": 2,
		"HeartGuide":            3,
		"Legacy Builder":        4,
	}

	prev := 0
	for xp := 0; xp <= 600; xp++ {
		r, ok := rank[TierFor(xp)]
		assert.True(t, ok, "unknown tier at xp=%d", xp)
		assert.GreaterOrEqual(t, r, prev, "tier regressed at xp=%d", xp)
		prev = r
	}
}
