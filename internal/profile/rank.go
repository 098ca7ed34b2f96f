package profile

// Title returns the rank name shown for a level.
func Title(level int) string {
	switch {
	case level < 5:
		return "Novice Learner"
	case level < 10:
		return "Curious Explorer"
	case level < 20:
		return "Knowledge Seeker"
	case level < 30:
		return "Wise Scholar"
	default:
		return "Grand Sage"
	}
}

// NextLevelXP is the total XP at which level ends.
func NextLevelXP(level int) int {
	return level * XPPerLevel
}

// LevelProgress returns how far through the current level the profile is,
// in [0, 1).
func LevelProgress(p UserProfile) float64 {
	into := p.XP - (p.Level-1)*XPPerLevel
	return float64(into) / float64(XPPerLevel)
}

// Badge is an achievement shown on the profile screen.
type Badge struct {
	Name        string
	Description string
	Earned      bool
}

// Badges lists every achievement with its earned state, in display order.
func Badges(p UserProfile) []Badge {
	return []Badge{
		{Name: "First Steps", Description: "Read your first story", Earned: p.StoriesRead >= 1},
		{Name: "Quiz Whiz", Description: "Get a perfect quiz score", Earned: p.PerfectScores >= 1},
		{Name: "Library Builder", Description: "Create 5 stories", Earned: p.StoriesRead >= 5},
	}
}
