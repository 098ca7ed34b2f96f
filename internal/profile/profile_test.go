package profile

import (
	"testing"
	"time"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{50, 1},
		{999, 1},
		{1000, 2},
		{1049, 2},
		{25000, 26},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestOnLessonCreated(t *testing.T) {
	tests := []struct {
		name string
		in   UserProfile
	}{
		{"fresh", UserProfile{Level: 1}},
		{"just below level-up", UserProfile{XP: 960, Level: 1, StoriesRead: 19}},
		{"high level", UserProfile{XP: 12345, Level: 13, StoriesRead: 200, QuizzesTaken: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnLessonCreated(tt.in)
			if got.XP != tt.in.XP+50 {
				t.Errorf("xp = %d, want %d", got.XP, tt.in.XP+50)
			}
			if got.Level != got.XP/1000+1 {
				t.Errorf("level = %d for xp %d", got.Level, got.XP)
			}
			if got.StoriesRead != tt.in.StoriesRead+1 {
				t.Errorf("storiesRead = %d, want %d", got.StoriesRead, tt.in.StoriesRead+1)
			}
			if got.QuizzesTaken != tt.in.QuizzesTaken || got.PerfectScores != tt.in.PerfectScores || got.StreakDays != tt.in.StreakDays {
				t.Errorf("unrelated fields changed: %+v -> %+v", tt.in, got)
			}
		})
	}
}

func TestOnQuizCompleted(t *testing.T) {
	base := UserProfile{XP: 50, Level: 1, StoriesRead: 1, QuizzesTaken: 2, PerfectScores: 1}

	tests := []struct {
		name        string
		score       int
		total       int
		wantXP      int
		wantPerfect int
	}{
		{"partial", 4, 5, 90, 1},
		{"perfect", 5, 5, 100, 2},
		{"zero", 0, 5, 50, 1},
		{"empty quiz counts as perfect", 0, 0, 50, 2},
		{"score above total clamps", 9, 5, 100, 2},
		{"negative score clamps", -3, 5, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnQuizCompleted(base, tt.score, tt.total)
			if got.XP != tt.wantXP {
				t.Errorf("xp = %d, want %d", got.XP, tt.wantXP)
			}
			if got.PerfectScores != tt.wantPerfect {
				t.Errorf("perfectScores = %d, want %d", got.PerfectScores, tt.wantPerfect)
			}
			if got.QuizzesTaken != base.QuizzesTaken+1 {
				t.Errorf("quizzesTaken = %d, want %d", got.QuizzesTaken, base.QuizzesTaken+1)
			}
			if got.Level != LevelFor(got.XP) {
				t.Errorf("level = %d for xp %d", got.Level, got.XP)
			}
			if got.StoriesRead != base.StoriesRead {
				t.Errorf("storiesRead changed")
			}
		})
	}
}

func TestOnQuizCompletedCrossesLevel(t *testing.T) {
	got := OnQuizCompleted(UserProfile{XP: 980, Level: 1}, 3, 5)
	if got.XP != 1010 || got.Level != 2 {
		t.Errorf("got xp=%d level=%d, want 1010/2", got.XP, got.Level)
	}
}

func TestValidate(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	good := Default(today)
	if err := good.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}

	bad := []UserProfile{
		{XP: 1500, Level: 1, LastLoginDate: "2026-03-10"},
		{XP: -1, Level: 1, LastLoginDate: "2026-03-10"},
		{XP: 0, Level: 1, StreakDays: -2, LastLoginDate: "2026-03-10"},
		{XP: 0, Level: 1, QuizzesTaken: 1, PerfectScores: 2, LastLoginDate: "2026-03-10"},
		{XP: 0, Level: 1, LastLoginDate: "yesterday"},
	}
	for i, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, p)
		}
	}
}

func TestNormalize(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	got := UserProfile{XP: 2500, Level: 1, QuizzesTaken: 1, PerfectScores: 4}.normalize(today)

	if got.Name != DefaultName {
		t.Errorf("name = %q", got.Name)
	}
	if got.Level != 3 {
		t.Errorf("level = %d, want 3", got.Level)
	}
	if got.PerfectScores != 1 {
		t.Errorf("perfectScores = %d, want 1", got.PerfectScores)
	}
	if got.LastLoginDate != "2026-03-10" {
		t.Errorf("lastLoginDate = %q", got.LastLoginDate)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("normalized profile invalid: %v", err)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "Novice Learner"},
		{4, "Novice Learner"},
		{5, "Curious Explorer"},
		{10, "Knowledge Seeker"},
		{20, "Wise Scholar"},
		{29, "Wise Scholar"},
		{30, "Grand Sage"},
	}
	for _, tt := range tests {
		if got := Title(tt.level); got != tt.want {
			t.Errorf("Title(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	p := UserProfile{XP: 1250, Level: 2}
	if got := LevelProgress(p); got != 0.25 {
		t.Errorf("progress = %v, want 0.25", got)
	}
	if NextLevelXP(2) != 2000 {
		t.Errorf("NextLevelXP(2) = %d", NextLevelXP(2))
	}
}

func TestBadges(t *testing.T) {
	none := Badges(UserProfile{})
	for _, b := range none {
		if b.Earned {
			t.Errorf("badge %q earned on empty profile", b.Name)
		}
	}

	some := Badges(UserProfile{StoriesRead: 5, PerfectScores: 0})
	want := map[string]bool{"First Steps": true, "Quiz Whiz": false, "Library Builder": true}
	for _, b := range some {
		if b.Earned != want[b.Name] {
			t.Errorf("badge %q earned = %v, want %v", b.Name, b.Earned, want[b.Name])
		}
	}
}
