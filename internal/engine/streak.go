package engine

import "time"

// StreakResetWindow is the maximum gap between messages before a streak
// breaks. Wider than 24h so one late evening followed by an early morning
// two days later still counts.
const StreakResetWindow = 36 * time.Hour

// NextStreak returns the consecutive-day streak after a message at next.
// last is the previous counted message, nil for the first message ever.
// Days are UTC calendar dates: multiple messages on the same day leave the
// streak unchanged, a new day within the window extends it, and a gap
// beyond the window restarts at 1.
func NextStreak(last *time.Time, next time.Time, previous int) int {
	if last == nil {
		return 1
	}

	if next.Sub(*last) > StreakResetWindow {
		return 1
	}

	if sameUTCDay(*last, next) {
		if previous < 1 {
			return 1
		}
		return previous
	}

	return previous + 1
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
