package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyankosh/internal/catalog"
	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/store"
)

var today = time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

type fakeGenerator struct {
	story *library.Story
	err   error
	calls []content.Request
}

func (f *fakeGenerator) GenerateLesson(_ context.Context, req content.Request) (*library.Story, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	s := *f.story
	return &s, nil
}

// failingDocs fails writes to one key while fail is set.
type failingDocs struct {
	store.DocumentRepo
	key  string
	fail bool
}

func (f *failingDocs) Put(ctx context.Context, key string, value []byte) error {
	if f.fail && key == f.key {
		return errors.New("disk full")
	}
	return f.DocumentRepo.Put(ctx, key, value)
}

type harness struct {
	m      *Machine
	gen    *fakeGenerator
	events *store.EventStore
	docs   store.DocumentRepo
}

func newHarness(t *testing.T, docs func(store.DocumentRepo) store.DocumentRepo) *harness {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "gyankosh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	repo := st.DocumentRepo()
	if docs != nil {
		repo = docs(repo)
	}
	ctx := context.Background()
	profiles, err := profile.Load(ctx, repo, logger.Nop(), today)
	require.NoError(t, err)
	lib, err := library.Load(ctx, repo, logger.Nop())
	require.NoError(t, err)

	gen := &fakeGenerator{story: generatedStory(8, 5)}
	m := New(Options{
		Catalog:   catalog.Default(),
		Profiles:  profiles,
		Library:   lib,
		Generator: gen,
		Events:    st.EventRepo(),
		Now:       func() time.Time { return today },
	})
	return &harness{m: m, gen: gen, events: st.EventRepo(), docs: repo}
}

func generatedStory(pages, questions int) *library.Story {
	s := &library.Story{
		Title:   "The Journey of Water",
		Summary: "Where rain comes from and where it goes.",
	}
	for i := range pages {
		s.Pages = append(s.Pages, library.Page{
			PageNumber:  i + 1,
			Text:        fmt.Sprintf("Page %d about water.", i+1),
			Layout:      library.LayoutTextLeft,
			VisualStyle: library.StyleIllustration,
		})
	}
	for i := range questions {
		s.Quiz = append(s.Quiz, library.QuizQuestion{
			Question: fmt.Sprintf("Question %d?", i+1),
			Options:  []string{"Yes", "No"},
		})
	}
	return s
}

func selectWater(t *testing.T, m *Machine) {
	t.Helper()
	require.True(t, m.SelectGrade("Class 3"))
	require.True(t, m.SelectSubject("Science"))
	m.EditTopic("Water")
}

func TestNew_InitialState(t *testing.T) {
	h := newHarness(t, nil)
	st := h.m.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Equal(t, "Class 1", st.Grade)
	assert.Equal(t, "English", st.Language)
	assert.Empty(t, st.Subject)
	assert.Empty(t, st.Topic)
	assert.Nil(t, st.Active)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Notice)
}

func TestEndToEnd_CreateThenQuiz(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	selectWater(t, h.m)

	story, err := h.m.Create(ctx)
	require.NoError(t, err)
	require.Len(t, h.gen.calls, 1)
	assert.Equal(t, content.Request{Grade: "Class 3", Subject: "Science", Topic: "Water", Language: "English"}, h.gen.calls[0])

	assert.NotEmpty(t, story.ID)
	assert.Equal(t, today, story.CreatedAt)
	assert.Equal(t, "Science", story.Subject)
	assert.Equal(t, "Class 3", story.Grade)

	st := h.m.State()
	assert.Equal(t, ViewLesson, st.View)
	assert.False(t, st.Loading)
	require.NotNil(t, st.Active)
	assert.Equal(t, story.ID, st.Active.ID)

	assert.Len(t, h.m.Library(), 1)
	p := h.m.Profile()
	assert.Equal(t, 1, p.StoriesRead)
	assert.Equal(t, 50, p.XP)
	assert.Equal(t, 1, p.Level)

	require.True(t, h.m.FinishLesson())
	assert.Equal(t, ViewQuiz, h.m.State().View)

	require.NoError(t, h.m.CompleteQuiz(ctx, 4, 5))
	p = h.m.Profile()
	assert.Equal(t, 90, p.XP)
	assert.Equal(t, 1, p.QuizzesTaken)
	assert.Equal(t, 0, p.PerfectScores)

	st = h.m.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Nil(t, st.Active)
	assert.Empty(t, st.Subject)
	assert.Empty(t, st.Topic)
	assert.Equal(t, "Class 3", st.Grade)

	activity, err := h.events.QueryActivity(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, activity, 2)
	kinds := []string{activity[0].Kind, activity[1].Kind}
	assert.ElementsMatch(t, []string{store.ActivityLessonCreated, store.ActivityQuizCompleted}, kinds)
}

func TestSelectGrade(t *testing.T) {
	t.Run("clears subject the grade does not offer", func(t *testing.T) {
		h := newHarness(t, nil)
		selectWater(t, h.m)
		require.True(t, h.m.SelectGrade("Class 1"))
		st := h.m.State()
		assert.Equal(t, "Class 1", st.Grade)
		assert.Empty(t, st.Subject)
		assert.Empty(t, st.Topic)
	})

	t.Run("keeps subject the grade offers", func(t *testing.T) {
		h := newHarness(t, nil)
		selectWater(t, h.m)
		require.True(t, h.m.SelectGrade("Class 7"))
		st := h.m.State()
		assert.Equal(t, "Science", st.Subject)
		assert.Equal(t, "Water", st.Topic)
	})

	t.Run("rejects unknown grade", func(t *testing.T) {
		h := newHarness(t, nil)
		assert.False(t, h.m.SelectGrade("Class 13"))
		assert.Equal(t, "Class 1", h.m.State().Grade)
	})
}

func TestSelectSubjectClearsTopic(t *testing.T) {
	h := newHarness(t, nil)
	selectWater(t, h.m)
	require.True(t, h.m.SelectSubject("Maths"))
	assert.Empty(t, h.m.State().Topic)

	assert.False(t, h.m.SelectSubject("Physics"), "Class 3 has no Physics")
	assert.Equal(t, "Maths", h.m.State().Subject)
}

func TestSelectLanguageTouchesNothingElse(t *testing.T) {
	h := newHarness(t, nil)
	selectWater(t, h.m)
	before := h.m.State()

	require.True(t, h.m.SelectLanguage("Hindi"))
	after := h.m.State()
	assert.Equal(t, "Hindi", after.Language)
	after.Language = before.Language
	assert.Equal(t, before, after)

	assert.False(t, h.m.SelectLanguage("Klingon"))
}

func TestSurpriseTopic(t *testing.T) {
	h := newHarness(t, nil)
	rng := rand.New(rand.NewPCG(1, 2))

	assert.False(t, h.m.SurpriseTopic(rng), "no subject selected")
	assert.Empty(t, h.m.State().Topic)

	require.True(t, h.m.SelectGrade("Class 3"))
	require.True(t, h.m.SelectSubject("Science"))
	require.True(t, h.m.SurpriseTopic(rng))
	assert.Contains(t, h.m.Catalog().Topics("Class 3", "Science"), h.m.State().Topic)
}

func TestCreateRejected(t *testing.T) {
	cases := []struct {
		name  string
		setup func(m *Machine)
	}{
		{"no subject", func(m *Machine) { m.EditTopic("Water") }},
		{"empty topic", func(m *Machine) { m.SelectGrade("Class 3"); m.SelectSubject("Science") }},
		{"whitespace topic", func(m *Machine) {
			m.SelectGrade("Class 3")
			m.SelectSubject("Science")
			m.EditTopic("   \t")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)
			tc.setup(h.m)
			before := h.m.State()

			_, err := h.m.Create(context.Background())
			assert.ErrorIs(t, err, ErrRejected)
			assert.Equal(t, before, h.m.State())
			assert.Empty(t, h.gen.calls)
		})
	}
}

func TestCreateRejectedWhileLoading(t *testing.T) {
	h := newHarness(t, nil)
	selectWater(t, h.m)

	_, _, ok := h.m.BeginCreate()
	require.True(t, ok)
	assert.True(t, h.m.State().Loading)

	_, _, ok = h.m.BeginCreate()
	assert.False(t, ok)
	_, err := h.m.Create(context.Background())
	assert.ErrorIs(t, err, ErrRejected)
	assert.Empty(t, h.gen.calls)
}

func TestCreateFailureKeepsSelections(t *testing.T) {
	h := newHarness(t, nil)
	selectWater(t, h.m)
	h.gen.err = &content.GenerationError{Stage: "decode", Err: errors.New("not json")}

	_, err := h.m.Create(context.Background())
	assert.ErrorIs(t, err, content.ErrGeneration)

	st := h.m.State()
	assert.Equal(t, ViewHome, st.View)
	assert.False(t, st.Loading)
	assert.Equal(t, NoticeGenerationFailed, st.Notice)
	assert.Equal(t, "Science", st.Subject)
	assert.Equal(t, "Water", st.Topic)
	assert.Empty(t, h.m.Library())
	assert.Equal(t, 0, h.m.Profile().XP)

	h.m.DismissNotice()
	assert.Empty(t, h.m.State().Notice)
}

func TestStaleCompletionIgnored(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	selectWater(t, h.m)

	ticket, req, ok := h.m.BeginCreate()
	require.True(t, ok)
	assert.False(t, h.m.CompleteCreate(ctx, ticket+1, req, generatedStory(2, 0), nil))
	assert.True(t, h.m.State().Loading)

	assert.True(t, h.m.CompleteCreate(ctx, ticket, req, generatedStory(2, 0), nil))
	assert.False(t, h.m.CompleteCreate(ctx, ticket, req, generatedStory(2, 0), nil), "already completed")
	assert.Len(t, h.m.Library(), 1)
}

func TestCreateRollsBackWhenProfileSaveFails(t *testing.T) {
	var docs *failingDocs
	h := newHarness(t, func(r store.DocumentRepo) store.DocumentRepo {
		docs = &failingDocs{DocumentRepo: r, key: store.KeyProfile}
		return docs
	})
	selectWater(t, h.m)
	docs.fail = true

	_, err := h.m.Create(context.Background())
	assert.Error(t, err)

	st := h.m.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Equal(t, NoticeSaveFailed, st.Notice)
	assert.Nil(t, st.Active)
	assert.Empty(t, h.m.Library())
	assert.Equal(t, 0, h.m.Profile().StoriesRead)
}

func TestCreateFailsWhenLibrarySaveFails(t *testing.T) {
	var docs *failingDocs
	h := newHarness(t, func(r store.DocumentRepo) store.DocumentRepo {
		docs = &failingDocs{DocumentRepo: r, key: store.KeyLibrary}
		return docs
	})
	selectWater(t, h.m)
	docs.fail = true

	_, err := h.m.Create(context.Background())
	assert.Error(t, err)
	assert.Equal(t, NoticeSaveFailed, h.m.State().Notice)
	assert.Equal(t, 0, h.m.Profile().XP)
}

func TestFinishLessonWithoutQuizGoesHome(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.story = generatedStory(3, 0)
	selectWater(t, h.m)
	_, err := h.m.Create(context.Background())
	require.NoError(t, err)

	require.True(t, h.m.FinishLesson())
	st := h.m.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Nil(t, st.Active)
}

func TestCompleteQuizPerfectScore(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	selectWater(t, h.m)
	_, err := h.m.Create(ctx)
	require.NoError(t, err)
	require.True(t, h.m.FinishLesson())

	assert.ErrorIs(t, h.m.CompleteQuiz(ctx, 6, 5), ErrRejected)
	require.NoError(t, h.m.CompleteQuiz(ctx, 5, 5))
	p := h.m.Profile()
	assert.Equal(t, 100, p.XP)
	assert.Equal(t, 1, p.PerfectScores)
}

func TestCompleteQuizOutsideQuizRejected(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.m.CompleteQuiz(context.Background(), 1, 1), ErrRejected)
	assert.Equal(t, 0, h.m.Profile().QuizzesTaken)
}

func TestOpenAndDeleteSaved(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	selectWater(t, h.m)
	first, err := h.m.Create(ctx)
	require.NoError(t, err)
	h.m.Back()

	h.m.SelectSubject("Maths")
	h.m.EditTopic("Shapes")
	second, err := h.m.Create(ctx)
	require.NoError(t, err)
	h.m.Back()
	assert.Equal(t, []string{second.ID, first.ID}, []string{h.m.Library()[0].ID, h.m.Library()[1].ID})

	require.True(t, h.m.OpenSaved(first.ID))
	st := h.m.State()
	assert.Equal(t, ViewLesson, st.View)
	assert.Equal(t, first.ID, st.Active.ID)
	assert.Len(t, h.gen.calls, 2, "opening a saved lesson does not generate")

	require.NoError(t, h.m.DeleteSaved(ctx, first.ID))
	assert.Len(t, h.m.Library(), 1)
	st = h.m.State()
	assert.Equal(t, ViewLesson, st.View, "deleting leaves the view alone")
	assert.Equal(t, first.ID, st.Active.ID)

	require.NoError(t, h.m.DeleteSaved(ctx, "missing"))
	assert.Len(t, h.m.Library(), 1)
	assert.False(t, h.m.OpenSaved("missing"))
}

func TestNavigate(t *testing.T) {
	h := newHarness(t, nil)
	assert.True(t, h.m.Navigate(ViewLibrary))
	assert.Equal(t, ViewLibrary, h.m.State().View)
	assert.True(t, h.m.Navigate(ViewProfile))
	assert.False(t, h.m.Navigate(ViewQuiz))
	assert.True(t, h.m.Navigate(ViewHome))

	selectWater(t, h.m)
	_, err := h.m.Create(context.Background())
	require.NoError(t, err)
	assert.False(t, h.m.Navigate(ViewLibrary), "lesson is left through its own events")
	assert.Equal(t, ViewLesson, h.m.State().View)

	h.m.Back()
	st := h.m.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Nil(t, st.Active)
}

func TestPickRecommendationAndTranscript(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.m.SelectGrade("Class 3"))

	assert.True(t, h.m.PickRecommendation(library.Recommendation{Subject: "Science", Topic: "Air Around Us"}))
	st := h.m.State()
	assert.Equal(t, "Science", st.Subject)
	assert.Equal(t, "Air Around Us", st.Topic)

	assert.False(t, h.m.ApplyTranscript("  "))
	assert.Equal(t, "Air Around Us", h.m.State().Topic)
	assert.True(t, h.m.ApplyTranscript(" volcanoes "))
	assert.Equal(t, "volcanoes", h.m.State().Topic)
}

func TestAttachIllustrationUpdatesActive(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	selectWater(t, h.m)
	s, err := h.m.Create(ctx)
	require.NoError(t, err)

	h.m.AttachIllustration(ctx, s.ID, 1, &library.Illustration{MIMEType: "image/png", Data: []byte("png")})
	require.NotNil(t, h.m.State().Active.Pages[1].Illustration)

	h.m.AttachIllustration(ctx, s.ID, 2, &library.Illustration{Placeholder: true})
	assert.Nil(t, h.m.State().Active.Pages[2].Illustration, "placeholders are not saved")
}

func TestRecoveredStoresRaiseNotice(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "gyankosh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	docs := st.DocumentRepo()
	require.NoError(t, docs.Put(ctx, store.KeyLibrary, []byte("not json")))

	profiles, err := profile.Load(ctx, docs, logger.Nop(), today)
	require.NoError(t, err)
	lib, err := library.Load(ctx, docs, logger.Nop())
	require.NoError(t, err)

	m := New(Options{Profiles: profiles, Library: lib})
	assert.Equal(t, NoticeRecovered, m.State().Notice)
}
