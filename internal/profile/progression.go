package profile

// OnLessonCreated credits a newly generated lesson.
func OnLessonCreated(p UserProfile) UserProfile {
	p.StoriesRead++
	p.XP += LessonXP
	p.Level = LevelFor(p.XP)
	return p
}

// OnQuizCompleted credits a finished quiz. score is clamped into [0, total].
func OnQuizCompleted(p UserProfile, score, total int) UserProfile {
	total = max(total, 0)
	score = min(max(score, 0), total)

	p.XP += score * QuestionXP
	p.QuizzesTaken++
	if score == total {
		p.PerfectScores++
	}
	p.Level = LevelFor(p.XP)
	return p
}

// QuizXP is the XP a quiz result is worth.
func QuizXP(score, total int) int {
	return min(max(score, 0), max(total, 0)) * QuestionXP
}
