package booking

import "time"

const (
	JoinOpensBefore = 15 * time.Minute
	JoinClosesAfter = 60 * time.Minute
)

// IsJoinable reports whether a session room may be entered at now: a room
// must exist and now must lie in [scheduled-15m, scheduled+60m].
func IsJoinable(scheduled time.Time, roomURL string, now time.Time) bool {
	if roomURL == "" {
		return false
	}
	opens := scheduled.Add(-JoinOpensBefore)
	closes := scheduled.Add(JoinClosesAfter)
	return !now.Before(opens) && !now.After(closes)
}
