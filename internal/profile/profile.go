package profile

import (
	"errors"
	"fmt"
	"time"
)

// XP rewards and level size.
const (
	LessonXP    = 50
	QuestionXP  = 10
	XPPerLevel  = 1000
	DefaultName = "Student"
)

// ErrInvalidProfile is returned when a profile breaks its invariants.
var ErrInvalidProfile = errors.New("invalid profile")

// dateLayout is the calendar-date encoding used for LastLoginDate.
const dateLayout = "2006-01-02"

// UserProfile is the learner's persisted progression record.
type UserProfile struct {
	Name          string `json:"name"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	StoriesRead   int    `json:"storiesRead"`
	QuizzesTaken  int    `json:"quizzesTaken"`
	PerfectScores int    `json:"perfectScores"`
	StreakDays    int    `json:"streakDays"`
	LastLoginDate string `json:"lastLoginDate"`
}

// Default returns the first-run profile.
func Default(today time.Time) UserProfile {
	return UserProfile{
		Name:          DefaultName,
		Level:         1,
		LastLoginDate: DateOf(today),
	}
}

// LevelFor derives the level from total XP.
func LevelFor(xp int) int {
	return xp/XPPerLevel + 1
}

// DateOf formats t as a calendar date in t's own location.
func DateOf(t time.Time) string {
	return t.Format(dateLayout)
}

// Validate checks the counters and the level/XP relationship.
func (p UserProfile) Validate() error {
	switch {
	case p.XP < 0:
		return fmt.Errorf("%w: negative xp %d", ErrInvalidProfile, p.XP)
	case p.Level != LevelFor(p.XP):
		return fmt.Errorf("%w: level %d does not match xp %d", ErrInvalidProfile, p.Level, p.XP)
	case p.StoriesRead < 0 || p.QuizzesTaken < 0 || p.PerfectScores < 0 || p.StreakDays < 0:
		return fmt.Errorf("%w: negative counter", ErrInvalidProfile)
	case p.PerfectScores > p.QuizzesTaken:
		return fmt.Errorf("%w: %d perfect scores from %d quizzes", ErrInvalidProfile, p.PerfectScores, p.QuizzesTaken)
	}
	if _, err := time.Parse(dateLayout, p.LastLoginDate); err != nil {
		return fmt.Errorf("%w: last login date %q", ErrInvalidProfile, p.LastLoginDate)
	}
	return nil
}

// normalize repairs fields that older or hand-edited records may carry:
// a missing name, a stale level, negative counters.
func (p UserProfile) normalize(today time.Time) UserProfile {
	if p.Name == "" {
		p.Name = DefaultName
	}
	p.XP = max(p.XP, 0)
	p.StoriesRead = max(p.StoriesRead, 0)
	p.QuizzesTaken = max(p.QuizzesTaken, 0)
	p.PerfectScores = min(max(p.PerfectScores, 0), p.QuizzesTaken)
	p.StreakDays = max(p.StreakDays, 0)
	p.Level = LevelFor(p.XP)
	if _, err := time.Parse(dateLayout, p.LastLoginDate); err != nil {
		p.LastLoginDate = DateOf(today)
	}
	return p
}
