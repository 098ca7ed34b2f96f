package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gyankosh/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the learner profile and saved lessons",
	Long: `Erase the learner profile (XP, level, streak, badges) and every saved
lesson. The LLM request log is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		if !yes && !confirm(fmt.Sprintf("Erase all progress and lessons in %s?", dbPath)) {
			fmt.Println("Nothing was changed.")
			return nil
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		docs := st.DocumentRepo()
		for _, key := range []string{store.KeyProfile, store.KeyLibrary, store.KeyProfile + ".corrupt", store.KeyLibrary + ".corrupt"} {
			if err := docs.Delete(cmd.Context(), key); err != nil {
				return fmt.Errorf("erase %s: %w", key, err)
			}
		}
		fmt.Println("Progress and lessons erased.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Erase without asking")
}
