package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/store"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"stats"},
	Short:   "Show learning progress, rank and badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p := e.profiles.Get()
		fmt.Printf("%s · %s\n", p.Name, profile.Title(p.Level))
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-16s %d (%d%% to level %d)\n", "Level", p.Level, int(profile.LevelProgress(p)*100), p.Level+1)
		fmt.Printf("%-16s %d / %d\n", "XP", p.XP, profile.NextLevelXP(p.Level))
		fmt.Printf("%-16s %d\n", "Stories read", p.StoriesRead)
		fmt.Printf("%-16s %d\n", "Quizzes taken", p.QuizzesTaken)
		fmt.Printf("%-16s %d\n", "Perfect scores", p.PerfectScores)
		fmt.Printf("%-16s %d\n", "Daily streak", p.StreakDays)
		fmt.Printf("%-16s %d\n", "Saved lessons", len(e.library.Get()))

		fmt.Println()
		fmt.Println("Badges")
		for _, b := range profile.Badges(p) {
			mark := "  "
			if b.Earned {
				mark = "✓ "
			}
			fmt.Printf("  %s%-16s %s\n", mark, b.Name, b.Description)
		}

		if recent <= 0 {
			return nil
		}
		events, err := e.store.EventRepo().QueryActivity(cmd.Context(), store.QueryOpts{Limit: recent})
		if err != nil {
			return fmt.Errorf("query activity: %w", err)
		}
		if len(events) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println("Recent activity")
		for _, ev := range events {
			fmt.Printf("  %s  %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04"), describeActivity(ev))
		}
		return nil
	},
}

func describeActivity(ev store.ActivityEvent) string {
	switch ev.Kind {
	case store.ActivityLessonCreated:
		return fmt.Sprintf("Created %q (+%d XP)", ev.Title, ev.XPDelta)
	case store.ActivityQuizCompleted:
		return fmt.Sprintf("Quiz on %q: %d/%d (+%d XP)", ev.Title, ev.Score, ev.Total, ev.XPDelta)
	case store.ActivityLessonDeleted:
		return fmt.Sprintf("Deleted %q", ev.Title)
	}
	return ev.Kind
}

func init() {
	profileCmd.Flags().IntP("recent", "n", 10, "Number of recent activity entries to show")
}
