package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document key has never been written.
var ErrNotFound = errors.New("store: not found")

// Well-known document keys.
const (
	KeyProfile = "user_profile"
	KeyLibrary = "user_library"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose and FailedOnly filter LLM events only.
	Purpose    string
	FailedOnly bool
}

// DocumentRepo persists whole JSON documents under fixed keys. Each Put is
// a single statement, so a write either lands completely or not at all.
type DocumentRepo interface {
	// Get returns the stored bytes or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put inserts or replaces the document under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Activity kinds.
const (
	ActivityLessonCreated = "lesson_created"
	ActivityQuizCompleted = "quiz_completed"
	ActivityLessonDeleted = "lesson_deleted"
)

// ActivityEventData records a learner-visible progress event.
type ActivityEventData struct {
	Kind    string
	StoryID string
	Title   string
	Subject string
	Grade   string
	Score   int
	Total   int
	XPDelta int
}

// ActivityEvent is a stored activity event.
type ActivityEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ActivityEventData
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendActivity records a lesson or quiz milestone.
	AppendActivity(ctx context.Context, data ActivityEventData) error
}
