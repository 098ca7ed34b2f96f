package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/session"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create and save a lesson without opening the TUI",
	Example: `  gyankosh create --grade "Class 3" --subject Science --topic "The water cycle"
  gyankosh create --grade "Class 9" --subject Physics --surprise --language Hindi`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("grade", "", "Class, e.g. \"Class 3\" (default: first class)")
	createCmd.Flags().String("subject", "", "Subject offered for the class (required)")
	createCmd.Flags().String("topic", "", "What the lesson is about")
	createCmd.Flags().String("language", "", "Lesson language (default: English)")
	createCmd.Flags().Bool("surprise", false, "Pick a random topic for the subject")
	_ = createCmd.MarkFlagRequired("subject")
}

func runCreate(cmd *cobra.Command, args []string) error {
	grade, _ := cmd.Flags().GetString("grade")
	subject, _ := cmd.Flags().GetString("subject")
	topic, _ := cmd.Flags().GetString("topic")
	language, _ := cmd.Flags().GetString("language")
	surprise, _ := cmd.Flags().GetBool("surprise")

	if topic == "" && !surprise {
		return errors.New("give a --topic or use --surprise")
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	gen, err := e.generator(cmd)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	m := e.session(gen)
	cat := e.catalog

	if grade != "" && !m.SelectGrade(grade) {
		return fmt.Errorf("unknown class %q (choose from: %s)", grade, strings.Join(cat.Grades(), ", "))
	}
	st := m.State()
	if !m.SelectSubject(subject) {
		return fmt.Errorf("%s does not offer %q (choose from: %s)", st.Grade, subject, strings.Join(cat.SubjectsFor(st.Grade), ", "))
	}
	if language != "" && !m.SelectLanguage(language) {
		var names []string
		for _, l := range cat.Languages() {
			names = append(names, l.Name)
		}
		return fmt.Errorf("unknown language %q (choose from: %s)", language, strings.Join(names, ", "))
	}
	if surprise {
		rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		if !m.SurpriseTopic(rng) {
			return fmt.Errorf("no suggested topics for %s %s, give a --topic", st.Grade, subject)
		}
	} else {
		m.EditTopic(topic)
	}

	st = m.State()
	fmt.Printf("Writing a %s %s lesson on %q in %s...\n", st.Grade, st.Subject, st.Topic, st.Language)

	before := m.Profile().XP
	story, err := m.Create(cmd.Context())
	if err != nil {
		var genErr *content.GenerationError
		if errors.As(err, &genErr) {
			return fmt.Errorf("the lesson could not be written (%s step): %w", genErr.Stage, genErr.Err)
		}
		if errors.Is(err, session.ErrRejected) {
			return errors.New("the lesson request is incomplete")
		}
		return err
	}

	fmt.Println()
	fmt.Printf("  %s\n", story.Title)
	fmt.Printf("  %s\n\n", story.Summary)
	fmt.Printf("  ID:       %s\n", story.ID)
	fmt.Printf("  Pages:    %d\n", len(story.Pages))
	fmt.Printf("  Quiz:     %d questions\n", len(story.Quiz))
	fmt.Printf("  XP:       +%d\n", m.Profile().XP-before)
	fmt.Println()
	fmt.Println("Open it from the library in the app, or run: gyankosh library show", story.ID)
	return nil
}
