package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gyankosh/internal/catalog"
	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/store"
)

// ErrRejected is returned when an event is not valid in the current state.
var ErrRejected = errors.New("event not allowed in current state")

// LessonGenerator writes a lesson for a request.
type LessonGenerator interface {
	GenerateLesson(ctx context.Context, req content.Request) (*library.Story, error)
}

// Machine owns the session state and applies learner events to it. Every
// event that touches the profile or the library persists through the
// stores before the session moves on. A Machine is driven from a single
// goroutine; it is not safe for concurrent use.
type Machine struct {
	cat      *catalog.Catalog
	profiles *profile.Store
	lib      *library.Store
	gen      LessonGenerator
	events   store.EventRepo
	log      *logger.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)

	state    State
	inflight Ticket
}

// Options configures a Machine.
type Options struct {
	Catalog   *catalog.Catalog
	Profiles  *profile.Store
	Library   *library.Store
	Generator LessonGenerator

	// Events receives activity events. Optional.
	Events store.EventRepo
	Logger *logger.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// New returns a machine on the home view with the default grade and
// language and nothing selected.
func New(opts Options) *Machine {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Machine{
		cat:      opts.Catalog,
		profiles: opts.Profiles,
		lib:      opts.Library,
		gen:      opts.Generator,
		events:   opts.Events,
		log:      opts.Logger.With("component", "session"),
		now:      opts.Now,
		newID:    uuid.NewV7,
		state: State{
			View:     ViewHome,
			Grade:    opts.Catalog.DefaultGrade(),
			Language: opts.Catalog.DefaultLanguage(),
		},
	}
	if opts.Profiles.Recovered() || opts.Library.Recovered() {
		m.state.Notice = NoticeRecovered
	}
	return m
}

// State returns a snapshot of the session state.
func (m *Machine) State() State {
	return m.state
}

// Profile returns the current learner profile.
func (m *Machine) Profile() profile.UserProfile {
	return m.profiles.Get()
}

// Library returns the saved lessons, most recent first.
func (m *Machine) Library() library.Library {
	return m.lib.Get()
}

// Catalog returns the curriculum the machine validates selections against.
func (m *Machine) Catalog() *catalog.Catalog {
	return m.cat
}

// Recommendations suggests unread topics for the current grade.
func (m *Machine) Recommendations(rng *rand.Rand) []library.Recommendation {
	return library.Recommend(m.lib.Get(), m.state.Grade, m.cat, rng)
}

// SelectGrade changes the grade. A subject the new grade does not offer is
// cleared together with the topic.
func (m *Machine) SelectGrade(grade string) bool {
	if !m.cat.HasGrade(grade) {
		return false
	}
	m.state.Grade = grade
	if m.state.Subject != "" && !m.cat.Offers(grade, m.state.Subject) {
		m.state.Subject = ""
		m.state.Topic = ""
	}
	return true
}

// SelectSubject picks a subject offered for the current grade and clears
// the topic.
func (m *Machine) SelectSubject(subject string) bool {
	if !m.cat.Offers(m.state.Grade, subject) {
		return false
	}
	m.state.Subject = subject
	m.state.Topic = ""
	return true
}

// SelectLanguage changes only the lesson language.
func (m *Machine) SelectLanguage(language string) bool {
	if !m.cat.HasLanguage(language) {
		return false
	}
	m.state.Language = language
	return true
}

// EditTopic stores the topic text verbatim.
func (m *Machine) EditTopic(text string) {
	m.state.Topic = text
}

// SurpriseTopic fills the topic with a random suggestion for the current
// grade and subject. It is a no-op without a subject or suggestions.
func (m *Machine) SurpriseTopic(rng *rand.Rand) bool {
	if m.state.Subject == "" {
		return false
	}
	topic, ok := m.cat.RandomTopic(m.state.Grade, m.state.Subject, rng)
	if !ok {
		return false
	}
	m.state.Topic = topic
	return true
}

// PickRecommendation selects a recommended subject and topic.
func (m *Machine) PickRecommendation(rec library.Recommendation) bool {
	if !m.SelectSubject(rec.Subject) {
		return false
	}
	m.state.Topic = rec.Topic
	return true
}

// ApplyTranscript uses a voice transcript as the topic. Empty transcripts
// leave the topic alone.
func (m *Machine) ApplyTranscript(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	m.state.Topic = text
	return true
}

// DismissNotice clears the current notice.
func (m *Machine) DismissNotice() {
	m.state.Notice = ""
}

// CanCreate reports whether a lesson request would be accepted.
func (m *Machine) CanCreate() bool {
	return m.state.Subject != "" && strings.TrimSpace(m.state.Topic) != "" && !m.state.Loading
}

// BeginCreate starts a lesson request. When the guard fails nothing
// changes and ok is false. Otherwise loading is set and the caller runs
// the returned request against the generator, then reports back through
// CompleteCreate with the ticket.
func (m *Machine) BeginCreate() (ticket Ticket, req content.Request, ok bool) {
	if !m.CanCreate() {
		return 0, content.Request{}, false
	}
	m.inflight++
	m.state.Loading = true
	m.state.Notice = ""
	req = content.Request{
		Grade:    m.state.Grade,
		Subject:  m.state.Subject,
		Topic:    strings.TrimSpace(m.state.Topic),
		Language: m.state.Language,
	}
	m.log.Info("lesson requested", "grade", req.Grade, "subject", req.Subject, "topic", req.Topic, "language", req.Language)
	return m.inflight, req, true
}

// CompleteCreate applies the outcome of the request identified by ticket.
// On success the lesson is saved, credited and opened. On failure the
// learner stays on home with their selections and sees a notice. Stale
// tickets are ignored and reported as false.
func (m *Machine) CompleteCreate(ctx context.Context, ticket Ticket, req content.Request, story *library.Story, genErr error) bool {
	if !m.state.Loading || ticket != m.inflight {
		m.log.Debug("ignoring stale lesson result", "ticket", ticket, "inflight", m.inflight)
		return false
	}
	m.complete(ctx, req, story, genErr)
	return true
}

func (m *Machine) complete(ctx context.Context, req content.Request, story *library.Story, genErr error) error {
	m.state.Loading = false

	if genErr == nil && story == nil {
		genErr = &content.GenerationError{Stage: "decode", Err: errors.New("no lesson returned")}
	}
	if genErr != nil {
		m.log.Warn("lesson generation failed", "topic", req.Topic, "error", genErr)
		m.state.Notice = NoticeGenerationFailed
		return genErr
	}

	saved, err := m.saveLesson(ctx, req, *story)
	if err != nil {
		m.log.Error("saving lesson failed", "error", err)
		m.state.Notice = NoticeSaveFailed
		return err
	}

	m.state.Active = &saved
	m.state.View = ViewLesson
	return nil
}

// Create runs a whole lesson request synchronously. It returns ErrRejected
// when the guard fails and the generation or save error otherwise.
func (m *Machine) Create(ctx context.Context) (*library.Story, error) {
	_, req, ok := m.BeginCreate()
	if !ok {
		return nil, ErrRejected
	}
	story, err := m.gen.GenerateLesson(ctx, req)
	if err := m.complete(ctx, req, story, err); err != nil {
		return nil, err
	}
	return m.state.Active, nil
}

// Generate runs the generator for a request started with BeginCreate.
func (m *Machine) Generate(ctx context.Context, req content.Request) (*library.Story, error) {
	return m.gen.GenerateLesson(ctx, req)
}

func (m *Machine) saveLesson(ctx context.Context, req content.Request, s library.Story) (library.Story, error) {
	id, err := m.newID()
	if err != nil {
		return s, fmt.Errorf("lesson id: %w", err)
	}
	s.ID = id.String()
	s.CreatedAt = m.now().UTC()
	s.Subject = req.Subject
	s.Grade = req.Grade
	s.Language = req.Language

	if err := m.lib.Prepend(ctx, s); err != nil {
		return s, err
	}
	if _, err := m.profiles.Update(ctx, profile.OnLessonCreated); err != nil {
		if rerr := m.lib.Delete(ctx, s.ID); rerr != nil {
			m.log.Error("rolling back saved lesson failed", "id", s.ID, "error", rerr)
		}
		return s, err
	}

	m.record(ctx, store.ActivityEventData{
		Kind:    store.ActivityLessonCreated,
		StoryID: s.ID,
		Title:   s.Title,
		Subject: s.Subject,
		Grade:   s.Grade,
		XPDelta: profile.LessonXP,
	})
	m.log.Info("lesson saved", "id", s.ID, "title", s.Title, "pages", len(s.Pages), "questions", len(s.Quiz))
	return s, nil
}

// FinishLesson leaves playback. Lessons with a quiz continue to it, the
// rest return home.
func (m *Machine) FinishLesson() bool {
	if m.state.View != ViewLesson || m.state.Active == nil {
		return false
	}
	if m.state.Active.HasQuiz() {
		m.state.View = ViewQuiz
		return true
	}
	m.goHome()
	return true
}

// CompleteQuiz credits the quiz result and returns home with the lesson,
// subject and topic cleared. If the profile cannot be saved the learner
// stays on the quiz with a notice.
func (m *Machine) CompleteQuiz(ctx context.Context, score, total int) error {
	if m.state.View != ViewQuiz || m.state.Active == nil {
		return ErrRejected
	}
	if total < 0 || score < 0 || score > total {
		return fmt.Errorf("%w: score %d of %d", ErrRejected, score, total)
	}

	if _, err := m.profiles.Update(ctx, func(p profile.UserProfile) profile.UserProfile {
		return profile.OnQuizCompleted(p, score, total)
	}); err != nil {
		m.log.Error("saving quiz result failed", "error", err)
		m.state.Notice = NoticeSaveFailed
		return err
	}

	s := m.state.Active
	m.record(ctx, store.ActivityEventData{
		Kind:    store.ActivityQuizCompleted,
		StoryID: s.ID,
		Title:   s.Title,
		Subject: s.Subject,
		Grade:   s.Grade,
		Score:   score,
		Total:   total,
		XPDelta: profile.QuizXP(score, total),
	})
	m.log.Info("quiz completed", "id", s.ID, "score", score, "total", total)

	m.goHome()
	m.state.Subject = ""
	m.state.Topic = ""
	return nil
}

// OpenSaved opens a saved lesson for playback without generating.
func (m *Machine) OpenSaved(id string) bool {
	s, ok := m.lib.Get().Find(id)
	if !ok {
		return false
	}
	m.state.Active = &s
	m.state.View = ViewLesson
	return true
}

// DeleteSaved removes a saved lesson. The active lesson and the view are
// left alone. Unknown ids are a no-op.
func (m *Machine) DeleteSaved(ctx context.Context, id string) error {
	s, ok := m.lib.Get().Find(id)
	if !ok {
		return nil
	}
	if err := m.lib.Delete(ctx, id); err != nil {
		m.log.Error("deleting lesson failed", "id", id, "error", err)
		m.state.Notice = NoticeDeleteFailed
		return err
	}
	m.record(ctx, store.ActivityEventData{
		Kind:    store.ActivityLessonDeleted,
		StoryID: s.ID,
		Title:   s.Title,
		Subject: s.Subject,
		Grade:   s.Grade,
	})
	return nil
}

// AttachIllustration saves a fetched illustration on a saved lesson page.
// Failures are logged only; the picture is fetched again next time.
func (m *Machine) AttachIllustration(ctx context.Context, id string, pageIndex int, img *library.Illustration) {
	if img == nil || img.Placeholder {
		return
	}
	if err := m.lib.AttachIllustration(ctx, id, pageIndex, img); err != nil {
		m.log.Warn("saving illustration failed", "id", id, "page", pageIndex, "error", err)
		return
	}
	if m.state.Active != nil && m.state.Active.ID == id {
		if s, ok := m.lib.Get().Find(id); ok {
			m.state.Active = &s
		}
	}
}

// Navigate switches between home, library and profile. It is rejected
// during playback and quizzes, which are left through their own events.
func (m *Machine) Navigate(v View) bool {
	switch v {
	case ViewHome, ViewLibrary, ViewProfile:
	default:
		return false
	}
	if m.state.View == ViewLesson || m.state.View == ViewQuiz {
		return false
	}
	m.state.View = v
	return true
}

// Back returns home from anywhere and drops the active lesson.
func (m *Machine) Back() {
	m.goHome()
}

func (m *Machine) goHome() {
	m.state.Active = nil
	m.state.View = ViewHome
}

func (m *Machine) record(ctx context.Context, data store.ActivityEventData) {
	if m.events == nil {
		return
	}
	if err := m.events.AppendActivity(ctx, data); err != nil {
		m.log.Warn("recording activity failed", "kind", data.Kind, "error", err)
	}
}
