// Package progress holds the pure computations behind the progress
// dashboard and the leaderboard: the study-streak walk and the composite
// score formula.
package progress

import (
	"time"

	"github.com/wrenhall/tome-api/internal/domain"
)

// ComputeStreak counts consecutive calendar days of study activity
// ending at today.
//
// The walk starts at today when today has activity. When today is bare
// but yesterday has activity, the streak is not yet broken: the day
// simply is not over, so counting starts at yesterday (the grace rule).
// With neither day active the streak is 0. From the starting day the
// count extends backward one day at a time until the first gap.
//
// The result is insensitive to activity older than the first gap, and
// removing activity dates can only lower it.
func ComputeStreak(activityDates []time.Time, today time.Time) int {
	if len(activityDates) == 0 {
		return 0
	}

	active := make(map[time.Time]struct{}, len(activityDates))
	for _, d := range activityDates {
		active[domain.DateOf(d)] = struct{}{}
	}

	day := domain.DateOf(today)
	if _, ok := active[day]; !ok {
		// Grace day: yesterday's activity keeps the streak alive.
		day = day.AddDate(0, 0, -1)
		if _, ok := active[day]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := active[day]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}
