package content

import (
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/llm"
)

func enumOf[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func strList(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": desc,
		"items":       map[string]any{"type": "string"},
	}
}

// StorySchema is the structured output contract for a whole lesson.
var StorySchema = &llm.Schema{
	Name:        "illustrated-lesson",
	Description: "A multi-page illustrated lesson with vocabulary and a quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":            str("A catchy title in the requested language. Story style for Classes 1-5, academic style for 6-10"),
			"coverImagePrompt": str("A vivid prompt for the cover illustration"),
			"summary":          str("A 2-3 sentence summary of the concept in the requested language"),
			"chapterParts":     strList("The 4-6 sub-topics this chapter is divided into"),
			"vocabulary": map[string]any{
				"type":        "array",
				"description": "3-5 difficult words or technical terms with meanings in the requested language",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word":       str("The term"),
						"definition": str("Meaning in the requested language"),
					},
					"required":             []any{"word", "definition"},
					"additionalProperties": false,
				},
			},
			"pages": map[string]any{
				"type":        "array",
				"description": "6-10 pages in reading order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"pageNumber":  map[string]any{"type": "integer"},
						"partTitle":   str("The chapter part this page covers"),
						"text":        str("4-8 sentences of lesson content adapted to the class level"),
						"teacherTip":  str("A short tip, mnemonic or fun fact. For Class 9-10 an exam tip"),
						"keyConcepts": strList("2-3 key terms introduced on this page"),
						"deepDive":    str("An advanced paragraph. For Class 9-10 include formulas, reactions, dates or analysis. May be empty"),
						"imagePrompt": str("A detailed visual description for the page artwork"),
						"layout": map[string]any{
							"type": "string",
							"enum": enumOf(library.Layouts),
						},
						"visualStyle": map[string]any{
							"type":        "string",
							"enum":        enumOf(library.VisualStyles),
							"description": "Prefer chart, diagram or shape for Science, Maths and Geography",
						},
					},
					"required":             []any{"pageNumber", "partTitle", "text", "teacherTip", "keyConcepts", "deepDive", "imagePrompt", "layout", "visualStyle"},
					"additionalProperties": false,
				},
			},
			"quizQuestions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":           str("Question in the requested language"),
						"options":            strList("Answer options in the requested language"),
						"correctAnswerIndex": map[string]any{"type": "integer"},
						"explanation":        str("Why the answer is correct, in the requested language"),
					},
					"required":             []any{"question", "options", "correctAnswerIndex", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "coverImagePrompt", "summary", "chapterParts", "vocabulary", "pages", "quizQuestions"},
		"additionalProperties": false,
	},
}
