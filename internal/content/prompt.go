package content

import (
	"fmt"
	"strings"
)

const highSchoolPersona = `You are an expert CBSE/NCERT academic tutor for Class 9 and 10 in India. Your goal is to help students score well in board exams. Explain topics with precision using points to remember, formal definitions, chemical equations for Chemistry, derivations for Physics and map references for Geography. Tone: academic, encouraging, precise.`

const primaryPersona = `You are a friendly Indian school teacher. You teach young students (Class 1-8) through storytelling, Indian cultural examples such as Diwali, the peepal tree or cricket, and simple analogies. Tone: warm, playful, story-like.`

const highSchoolGuidance = `Content requirements for Class 9-10:
1. Follow NCERT syllabus depth.
2. deepDive must contain important definitions, reactions, formulas or dates as the subject requires.
3. teacherTip is an exam tip or a common mistake to avoid.
4. Image prompts ask for labelled diagrams or clean data charts.`

const primaryGuidance = `Content requirements for Class 1-8:
1. Explain through a narrative or a dialogue between characters, for example Rohan and his grandmother.
2. Use Indian names and everyday context such as counting mangoes or the monsoon.
3. teacherTip is a fun fact or a memory aid.
4. Image prompts describe bright, colourful illustrations.`

const structureGuidance = `Structure:
1. Divide the topic into 4-6 parts in chapterParts.
2. Write 6-10 pages in total.
3. Give keyConcepts for every page.
4. For Maths, Physics, Chemistry, Biology and Geography prefer diagram, chart or shape as visualStyle. For History, English and Hindi use illustration or comic-panel.
5. End with 3-5 multiple choice quiz questions, each with 4 options.

Return JSON matching the schema.`

// Request is what the learner asked for.
type Request struct {
	Grade    string
	Subject  string
	Topic    string
	Language string
}

func buildLessonSystemPrompt(highSchool bool) string {
	if highSchool {
		return highSchoolPersona
	}
	return primaryPersona
}

func buildLessonUserMessage(req Request, highSchool bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create an educational module for an Indian student in %s studying %s.\n", req.Grade, req.Subject)
	fmt.Fprintf(&b, "Topic: %q\n", req.Topic)
	fmt.Fprintf(&b, "Output language: %s\n\n", req.Language)
	if highSchool {
		b.WriteString(highSchoolGuidance)
	} else {
		b.WriteString(primaryGuidance)
	}
	b.WriteString("\n\n")
	b.WriteString(structureGuidance)
	return b.String()
}

const explainPrompt = `You are a helpful Indian school tutor. Read the educational text and explain the core concept simply, in at most 2 sentences.`

const askPrompt = `You are a smart private tutor for a student in India. Answer accurately and encouragingly. For Science or Maths give a precise answer. Keep the answer under 60 words.`

func buildExplainMessage(text, language string) string {
	return fmt.Sprintf("Target language: %s\nText: %q", language, text)
}

func buildAskMessage(passage, question, language string) string {
	return fmt.Sprintf("Answer in %s.\nContext: %q\nStudent question: %q", language, passage, question)
}
