package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/gyankosh/internal/catalog"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/llm"
	"github.com/abhisek/gyankosh/internal/logger"
)

func validStoryJSON() string {
	return `{
		"title": "The Journey of a Raindrop",
		"coverImagePrompt": "A cheerful raindrop over an Indian village",
		"summary": "Water moves between the sky and the ground in a cycle.",
		"chapterParts": ["Evaporation", "Condensation", " ", "Precipitation"],
		"vocabulary": [{"word": "Vapour", "definition": "Water as a gas"}, {"word": "", "definition": "dropped"}],
		"pages": [
			{"pageNumber": 7, "partTitle": "Evaporation", "text": "Meera watched the puddle shrink in the sun.", "teacherTip": "Heat makes water rise", "keyConcepts": ["evaporation"], "imagePrompt": "a puddle", "layout": "text-left", "visualStyle": "illustration"},
			{"pageNumber": 3, "partTitle": "Clouds", "text": "   ", "imagePrompt": "x", "layout": "text-top", "visualStyle": "chart"},
			{"pageNumber": 2, "partTitle": "Condensation", "text": "The vapour cooled and formed clouds.", "imagePrompt": "clouds", "layout": "sideways", "visualStyle": "watercolour"}
		],
		"quizQuestions": [
			{"question": "What makes puddles dry?", "options": ["Sun", "Moon", "Wind", "Frogs"], "correctAnswerIndex": 0, "explanation": "Heat from the sun."},
			{"question": "Broken", "options": ["Only one"], "correctAnswerIndex": 0, "explanation": ""},
			{"question": "Out of range", "options": ["a", "b"], "correctAnswerIndex": 5, "explanation": ""},
			{"question": "What dries clothes fastest?", "options": ["Cold", "", "Heat", "Wind"], "correctAnswerIndex": 2, "explanation": "Heat speeds up evaporation."},
			{"question": "Blank answer", "options": ["Rain", " ", "Snow"], "correctAnswerIndex": 1, "explanation": ""}
		]
	}`
}

func newTestGenerator(mock *llm.MockProvider) *Generator {
	return NewGenerator(mock, catalog.Default(), DefaultConfig(), nil)
}

func waterRequest() Request {
	return Request{Grade: "Class 3", Subject: "Science", Topic: "Water", Language: "Hindi"}
}

func TestGenerateLesson_RepairsModelOutput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validStoryJSON())})
	story, err := newTestGenerator(mock).GenerateLesson(context.Background(), waterRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if story.Title != "The Journey of a Raindrop" {
		t.Errorf("title = %q", story.Title)
	}
	if story.Language != "Hindi" {
		t.Errorf("language = %q, want the requested language", story.Language)
	}
	if story.ID != "" {
		t.Errorf("generator must not assign ids, got %q", story.ID)
	}
	if len(story.Pages) != 2 {
		t.Fatalf("expected blank page to be dropped, got %d pages", len(story.Pages))
	}
	for i, p := range story.Pages {
		if p.PageNumber != i+1 {
			t.Errorf("page %d numbered %d", i, p.PageNumber)
		}
	}
	if story.Pages[1].Layout != library.LayoutTextLeft {
		t.Errorf("unknown layout not defaulted: %q", story.Pages[1].Layout)
	}
	if story.Pages[1].VisualStyle != library.StyleIllustration {
		t.Errorf("unknown style not defaulted: %q", story.Pages[1].VisualStyle)
	}
	if story.Pages[1].TeacherTip != "" || story.Pages[1].DeepDive != "" {
		t.Errorf("missing optional fields should stay empty")
	}
	if len(story.Quiz) != 2 {
		t.Fatalf("expected broken questions to be dropped, got %d", len(story.Quiz))
	}
	q := story.Quiz[1]
	if len(q.Options) != 3 {
		t.Errorf("expected blank option dropped, got %q", q.Options)
	}
	if got := q.Options[q.CorrectIndex]; got != "Heat" {
		t.Errorf("correct answer changed from %q to %q", "Heat", got)
	}
	if len(story.Vocabulary) != 1 {
		t.Errorf("expected empty vocabulary entry dropped, got %d", len(story.Vocabulary))
	}
	if len(story.ChapterParts) != 3 {
		t.Errorf("expected blank chapter part dropped, got %v", story.ChapterParts)
	}
}

func TestGenerateLesson_TemperatureByGrade(t *testing.T) {
	tests := []struct {
		grade string
		want  float64
	}{
		{"Class 1", 0.7},
		{"Class 8", 0.7},
		{"Class 9", 0.3},
		{"Class 10", 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.grade, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validStoryJSON())})
			req := waterRequest()
			req.Grade = tt.grade
			if _, err := newTestGenerator(mock).GenerateLesson(context.Background(), req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			call := mock.Calls[0]
			if call.Temperature != tt.want {
				t.Errorf("temperature = %v, want %v", call.Temperature, tt.want)
			}
			if call.Schema != StorySchema {
				t.Error("expected lesson schema on request")
			}
			if !strings.Contains(call.Messages[0].Content, tt.grade) {
				t.Errorf("prompt does not mention grade %q", tt.grade)
			}
		})
	}
}

func TestGenerateLesson_SalvagesFencedJSON(t *testing.T) {
	fenced := "Here you go!\n```json\n" + validStoryJSON() + "\n```\nEnjoy."
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrInvalidResponse{Content: json.RawMessage(fenced), Err: errors.New("invalid JSON")},
	})
	story, err := newTestGenerator(mock).GenerateLesson(context.Background(), waterRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if story.Title != "The Journey of a Raindrop" {
		t.Errorf("title = %q", story.Title)
	}
}

func TestGenerateLesson_Failures(t *testing.T) {
	tests := []struct {
		name  string
		resp  llm.MockResponse
		stage string
	}{
		{
			name:  "provider error",
			resp:  llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
			stage: "request",
		},
		{
			name:  "not json",
			resp:  llm.MockResponse{Content: json.RawMessage(`Sorry, I cannot help.`)},
			stage: "decode",
		},
		{
			name:  "no title",
			resp:  llm.MockResponse{Content: json.RawMessage(`{"title":" ","pages":[{"text":"hi"}]}`)},
			stage: "validate",
		},
		{
			name:  "no usable pages",
			resp:  llm.MockResponse{Content: json.RawMessage(`{"title":"Water","pages":[{"text":""}]}`)},
			stage: "validate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			story, err := newTestGenerator(mock).GenerateLesson(context.Background(), waterRequest())
			if story != nil {
				t.Fatal("expected no partial lesson")
			}
			if !errors.Is(err, ErrGeneration) {
				t.Fatalf("expected ErrGeneration, got %v", err)
			}
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected *GenerationError, got %T", err)
			}
			if genErr.Stage != tt.stage {
				t.Errorf("stage = %q, want %q", genErr.Stage, tt.stage)
			}
		})
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Sure! {\"a\":{\"b\":2}} hope this helps", `{"a":{"b":2}}`},
		{"  no braces here ", "no braces here"},
	}
	for _, tt := range tests {
		if got := cleanJSON(tt.in); got != tt.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrompts(t *testing.T) {
	hs := buildLessonUserMessage(Request{Grade: "Class 10", Subject: "Physics", Topic: "Electricity", Language: "English"}, true)
	if !strings.Contains(hs, "Class 9-10") || !strings.Contains(hs, `"Electricity"`) {
		t.Errorf("high school prompt missing guidance:\n%s", hs)
	}
	primary := buildLessonUserMessage(waterRequest(), false)
	if !strings.Contains(primary, "Class 1-8") || !strings.Contains(primary, "Output language: Hindi") {
		t.Errorf("primary prompt missing guidance:\n%s", primary)
	}
	if buildLessonSystemPrompt(true) == buildLessonSystemPrompt(false) {
		t.Error("expected distinct personas")
	}
}

func nopLog() *logger.Logger { return logger.Nop() }
