package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestNextStreak_FirstMessage(t *testing.T) {
	assert.Equal(t, 1, NextStreak(nil, ts(2025, 7, 1, 12, 0), 0))
}

func TestNextStreak_NewCalendarDay(t *testing.T) {
	// Just before midnight, then just after: different UTC days, small gap.
	last := ts(2025, 7, 1, 23, 50)
	next := ts(2025, 7, 2, 0, 10)
	assert.Equal(t, 4, NextStreak(&last, next, 3))
}

func TestNextStreak_SameDayUnchanged(t *testing.T) {
	last := ts(2025, 7, 1, 23, 50)
	next := ts(2025, 7, 1, 23, 55)
	assert.Equal(t, 3, NextStreak(&last, next, 3))
}

func TestNextStreak_GapBreaksStreak(t *testing.T) {
	last := ts(2025, 7, 1, 8, 0)
	next := last.Add(40 * time.Hour)
	assert.Equal(t, 1, NextStreak(&last, next, 7))
}

func TestNextStreak_ExactWindowBoundary(t *testing.T) {
	// Exactly 36h is still inside the window; the day changed, so extend.
	last := ts(2025, 7, 1, 0, 0)
	next := last.Add(StreakResetWindow)
	assert.Equal(t, 6, NextStreak(&last, next, 5))

	// One second past the window resets.
	assert.Equal(t, 1, NextStreak(&last, next.Add(time.Second), 5))
}

func TestNextStreak_LateNightToNextEvening(t *testing.T) {
	// More than 24h apart but next calendar day, within the window.
	last := ts(2025, 7, 1, 1, 0)
	next := ts(2025, 7, 2, 2, 0)
	assert.Equal(t, 3, NextStreak(&last, next, 2))
}

func TestNextStreak_SameDayZeroPrevious(t *testing.T) {
	// A counted message always implies at least a one-day streak.
	last := ts(2025, 7, 1, 9, 0)
	next := ts(2025, 7, 1, 10, 0)
	assert.Equal(t, 1, NextStreak(&last, next, 0))
}
