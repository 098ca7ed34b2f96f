package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/gyankosh/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "gyankosh",
	Short: "Illustrated lessons for curious learners",
	Long: `Gyankosh creates illustrated, narrated lessons on any topic for a chosen
class, subject and language, then quizzes you on them.

Set one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or
OPENROUTER_API_KEY (or GYANKOSH_LLM_PROVIDER with its key) to create lessons.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GYANKOSH_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (default: gyankosh.log next to the database)")
	rootCmd.PersistentFlags().String("log-mode", "dev", "Log format: dev (console) or prod (JSON)")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GYANKOSH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
