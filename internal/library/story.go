package library

import (
	"fmt"
	"slices"
	"time"
)

// Layout controls how a page arranges text and art.
type Layout string

const (
	LayoutTextLeft   Layout = "text-left"
	LayoutTextRight  Layout = "text-right"
	LayoutTextTop    Layout = "text-top"
	LayoutTextBottom Layout = "text-bottom"
	LayoutFullVisual Layout = "full-visual"
)

// Layouts lists every valid layout.
var Layouts = []Layout{LayoutTextLeft, LayoutTextRight, LayoutTextTop, LayoutTextBottom, LayoutFullVisual}

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return slices.Contains(Layouts, l)
}

// VisualStyle is the kind of artwork requested for a page.
type VisualStyle string

const (
	StyleIllustration VisualStyle = "illustration"
	StyleChart        VisualStyle = "chart"
	StyleDiagram      VisualStyle = "diagram"
	StyleComicPanel   VisualStyle = "comic-panel"
	StyleShape        VisualStyle = "shape"
)

// VisualStyles lists every valid visual style.
var VisualStyles = []VisualStyle{StyleIllustration, StyleChart, StyleDiagram, StyleComicPanel, StyleShape}

// Valid reports whether s is a known visual style.
func (s VisualStyle) Valid() bool {
	return slices.Contains(VisualStyles, s)
}

// Illustration is a fetched page image.
type Illustration struct {
	MIMEType    string `json:"mimeType"`
	Data        []byte `json:"data"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// VocabularyItem is a glossary entry.
type VocabularyItem struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// Page is one screen of a story. TeacherTip, KeyConcepts and DeepDive are
// optional and empty when the lesson has none. Illustration stays nil until
// fetched.
type Page struct {
	PageNumber   int           `json:"pageNumber"`
	PartTitle    string        `json:"partTitle"`
	Text         string        `json:"text"`
	ImagePrompt  string        `json:"imagePrompt"`
	Layout       Layout        `json:"layout"`
	VisualStyle  VisualStyle   `json:"visualStyle"`
	TeacherTip   string        `json:"teacherTip,omitempty"`
	KeyConcepts  []string      `json:"keyConcepts,omitempty"`
	DeepDive     string        `json:"deepDive,omitempty"`
	Illustration *Illustration `json:"illustration,omitempty"`
}

// QuizQuestion is a multiple-choice question.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswerIndex"`
	Explanation  string   `json:"explanation"`
}

// Story is one generated lesson.
type Story struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"createdAt"`
	Title        string           `json:"title"`
	Subject      string           `json:"subject"`
	Grade        string           `json:"classLevel"`
	Language     string           `json:"language"`
	CoverPrompt  string           `json:"coverImagePrompt"`
	Summary      string           `json:"summary"`
	ChapterParts []string         `json:"chapterParts"`
	Vocabulary   []VocabularyItem `json:"vocabulary"`
	Pages        []Page           `json:"pages"`
	Quiz         []QuizQuestion   `json:"quizQuestions,omitempty"`
}

// HasQuiz reports whether the story ends with a quiz.
func (s *Story) HasQuiz() bool {
	return len(s.Quiz) > 0
}

// Validate checks the invariants a stored story must satisfy.
func (s *Story) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("story has no id")
	}
	if s.Title == "" {
		return fmt.Errorf("story %s has no title", s.ID)
	}
	if len(s.Pages) == 0 {
		return fmt.Errorf("story %s has no pages", s.ID)
	}
	for i, q := range s.Quiz {
		if len(q.Options) < 2 {
			return fmt.Errorf("story %s question %d has %d options", s.ID, i+1, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("story %s question %d answer index %d out of range", s.ID, i+1, q.CorrectIndex)
		}
	}
	return nil
}
