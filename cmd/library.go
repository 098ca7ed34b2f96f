package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gyankosh/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse and manage saved lessons",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved lessons, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lib := e.library.Get()
		if len(lib) == 0 {
			fmt.Println("No saved lessons yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-12s  %-9s  %-10s  %s\n",
			"ID", "Date", "Subject", "Class", "Language", "Title")
		fmt.Println(strings.Repeat("─", 120))

		shown := 0
		for _, s := range lib {
			if subject != "" && !strings.EqualFold(s.Subject, subject) {
				continue
			}
			fmt.Printf("%-36s  %-16s  %-12s  %-9s  %-10s  %s\n",
				s.ID,
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(s.Subject, 12),
				s.Grade,
				truncate(s.Language, 10),
				s.Title,
			)
			shown++
		}
		fmt.Printf("\n%d lessons\n", shown)
		return nil
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetBool("answers")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, ok := e.library.Get().Find(args[0])
		if !ok {
			return fmt.Errorf("lesson %s not found", args[0])
		}
		printStory(s, answers)
		return nil
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, ok := e.library.Get().Find(args[0])
		if !ok {
			return fmt.Errorf("lesson %s not found", args[0])
		}
		if !yes && !confirm(fmt.Sprintf("Delete %q?", s.Title)) {
			fmt.Println("Kept.")
			return nil
		}

		m := e.session(nil)
		if err := m.DeleteSaved(cmd.Context(), s.ID); err != nil {
			return fmt.Errorf("delete lesson: %w", err)
		}
		fmt.Printf("Deleted %q.\n", s.Title)
		return nil
	},
}

func printStory(s library.Story, answers bool) {
	sep := strings.Repeat("─", 60)

	fmt.Println(s.Title)
	fmt.Printf("%s · %s · %s · %s\n\n", s.Subject, s.Grade, s.Language, s.CreatedAt.Local().Format("2 Jan 2006"))
	fmt.Println(s.Summary)

	if len(s.Vocabulary) > 0 {
		fmt.Println()
		fmt.Println("Words to know:")
		for _, v := range s.Vocabulary {
			fmt.Printf("  %s: %s\n", v.Word, v.Definition)
		}
	}

	for i, p := range s.Pages {
		fmt.Println()
		fmt.Println(sep)
		header := fmt.Sprintf("Page %d of %d", i+1, len(s.Pages))
		if p.PartTitle != "" {
			header += " · " + p.PartTitle
		}
		fmt.Println(header)
		fmt.Println(sep)
		fmt.Println(p.Text)
		for _, c := range p.KeyConcepts {
			fmt.Printf("  • %s\n", c)
		}
		if p.TeacherTip != "" {
			fmt.Printf("\nTip: %s\n", p.TeacherTip)
		}
		if p.DeepDive != "" {
			fmt.Printf("\nDeep dive: %s\n", p.DeepDive)
		}
	}

	if len(s.Quiz) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(sep)
	fmt.Println("QUIZ")
	fmt.Println(sep)
	for i, q := range s.Quiz {
		fmt.Printf("%d. %s\n", i+1, q.Question)
		for j, o := range q.Options {
			mark := " "
			if answers && j == q.CorrectIndex {
				mark = "✓"
			}
			fmt.Printf("   %s %c) %s\n", mark, 'A'+j, o)
		}
		if answers && q.Explanation != "" {
			fmt.Printf("   %s\n", q.Explanation)
		}
	}
}

// confirm asks a yes/no question on stdin. Anything but y or yes is no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func init() {
	libraryListCmd.Flags().String("subject", "", "Only show lessons for this subject")
	libraryShowCmd.Flags().Bool("answers", false, "Mark the correct quiz answers")
	libraryDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
}
