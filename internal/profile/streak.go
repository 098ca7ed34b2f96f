package profile

import "time"

// NextStreak computes the login streak for a session starting today, given
// the stored streak and last login date.
//
//	1 day later    -> streak+1
//	>1 day later   -> 1
//	same day       -> unchanged (0 becomes 1)
//	earlier (skew) -> unchanged (0 becomes 1), date restamped
//
// An unparseable last date counts as a broken streak.
func NextStreak(streak int, lastLogin string, today time.Time) (int, string) {
	todayStr := DateOf(today)

	last, err := time.ParseInLocation(dateLayout, lastLogin, today.Location())
	if err != nil {
		return 1, todayStr
	}

	switch d := daysBetween(last, today); {
	case d == 1:
		return streak + 1, todayStr
	case d > 1:
		return 1, todayStr
	default:
		if streak == 0 {
			return 1, todayStr
		}
		if d < 0 {
			return streak, todayStr
		}
		return streak, lastLogin
	}
}

// ApplyStreak returns p with its streak recomputed for today and whether
// anything changed (the caller persists only then).
func ApplyStreak(p UserProfile, today time.Time) (UserProfile, bool) {
	streak, last := NextStreak(p.StreakDays, p.LastLoginDate, today)
	if streak == p.StreakDays && last == p.LastLoginDate {
		return p, false
	}
	p.StreakDays = streak
	p.LastLoginDate = last
	return p, true
}

// daysBetween counts calendar days from a to b, ignoring clock time and
// DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
