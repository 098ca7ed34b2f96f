package session

import "github.com/abhisek/gyankosh/internal/library"

// View is the screen the learner is currently on.
type View string

const (
	ViewHome    View = "home"
	ViewLesson  View = "lesson"
	ViewQuiz    View = "quiz"
	ViewLibrary View = "library"
	ViewProfile View = "profile"
)

// Notices shown to the learner.
const (
	NoticeGenerationFailed = "Oops! Something went wrong while writing your lesson. Please try again."
	NoticeSaveFailed       = "Your progress could not be saved. Please try again."
	NoticeDeleteFailed     = "That lesson could not be deleted. Please try again."
	NoticeRecovered        = "Some saved data could not be read and was reset."
)

// State is the transient session state. It is never persisted.
type State struct {
	View     View
	Grade    string
	Subject  string // "" when no subject is selected
	Language string
	Topic    string

	// Loading is true only while a lesson request is in flight.
	Loading bool

	// Active is the lesson being read or quizzed, nil otherwise.
	Active *library.Story

	// Notice is a dismissible message for the learner.
	Notice string
}

// Ticket identifies one lesson request. Completions carrying a ticket
// other than the in-flight one are ignored.
type Ticket uint64
