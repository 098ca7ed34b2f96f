package playback

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/logger"
)

// DefaultConcurrency bounds simultaneous media requests.
const DefaultConcurrency = 3

// Media produces artwork and narration. Implementations never fail: they
// return a placeholder image or nil audio instead.
type Media interface {
	GenerateIllustration(ctx context.Context, prompt string) *library.Illustration
	GenerateNarration(ctx context.Context, text, voice string) []byte
}

type imageKey struct {
	story string
	page  int
}

type audioKey struct {
	story string
	page  int
	voice string
}

// Fetched is an illustration that arrived during a Prefetch call.
type Fetched struct {
	StoryID string
	Page    int
	Image   *library.Illustration
}

// Prefetcher caches media for the active lesson in keyed slots. A slot is
// written once; results for a lesson that is no longer active are dropped.
type Prefetcher struct {
	media Media
	limit int
	log   *logger.Logger

	mu       sync.Mutex
	storyID  string
	voice    string
	images   map[imageKey]*library.Illustration
	audio    map[audioKey][]byte
	inflight map[any]bool
}

// NewPrefetcher creates a prefetcher running at most limit fetches at once.
func NewPrefetcher(media Media, limit int, log *logger.Logger) *Prefetcher {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Prefetcher{
		media:    media,
		limit:    limit,
		log:      log.With("component", "prefetch"),
		images:   make(map[imageKey]*library.Illustration),
		audio:    make(map[audioKey][]byte),
		inflight: make(map[any]bool),
	}
}

// SetStory makes s the active lesson, forgetting media for any other and
// seeding saved illustrations. A nil story clears everything.
func (p *Prefetcher) SetStory(s *library.Story) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := ""
	if s != nil {
		id = s.ID
	}
	if id != p.storyID {
		p.storyID = id
		clear(p.images)
		clear(p.audio)
		clear(p.inflight)
	}
	if s == nil {
		return
	}
	for i := range s.Pages {
		if img := s.Pages[i].Illustration; img != nil {
			k := imageKey{id, i}
			if _, ok := p.images[k]; !ok {
				p.images[k] = img
			}
		}
	}
}

// SetVoice switches narration voice. Cached narration is discarded.
func (p *Prefetcher) SetVoice(voice string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if voice == p.voice {
		return
	}
	p.voice = voice
	clear(p.audio)
}

// Voice returns the current narration voice.
func (p *Prefetcher) Voice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voice
}

// Illustration returns the cached artwork for page, if fetched.
func (p *Prefetcher) Illustration(page int) (*library.Illustration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	img, ok := p.images[imageKey{p.storyID, page}]
	return img, ok
}

// Narration returns cached audio for page in the current voice. ok with nil
// audio means narration was attempted and is unavailable.
func (p *Prefetcher) Narration(page int) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pcm, ok := p.audio[audioKey{p.storyID, page, p.voice}]
	return pcm, ok
}

// Prefetch fills missing slots for the given page indexes of s and waits
// for them. It returns the illustrations that were stored, so the caller
// can persist them.
func (p *Prefetcher) Prefetch(ctx context.Context, s *library.Story, pages []int) ([]Fetched, error) {
	p.mu.Lock()
	if s == nil || s.ID != p.storyID {
		p.mu.Unlock()
		return nil, nil
	}
	voice := p.voice
	var imgJobs []imageKey
	var audioJobs []audioKey
	for _, page := range pages {
		ik := imageKey{s.ID, page}
		if _, ok := p.images[ik]; !ok && !p.inflight[ik] {
			p.inflight[ik] = true
			imgJobs = append(imgJobs, ik)
		}
		ak := audioKey{s.ID, page, voice}
		if _, ok := p.audio[ak]; !ok && !p.inflight[ak] && voice != "" {
			p.inflight[ak] = true
			audioJobs = append(audioJobs, ak)
		}
	}
	p.mu.Unlock()

	var (
		fmu     sync.Mutex
		fetched []Fetched
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)

	for _, k := range imgJobs {
		prompt := ImagePrompt(s, k.page)
		g.Go(func() error {
			img := p.media.GenerateIllustration(gctx, prompt)
			if p.storeImage(k, img) {
				fmu.Lock()
				fetched = append(fetched, Fetched{StoryID: k.story, Page: k.page, Image: img})
				fmu.Unlock()
			}
			return gctx.Err()
		})
	}
	for _, k := range audioJobs {
		text := NarrationText(s, k.page)
		g.Go(func() error {
			pcm := p.media.GenerateNarration(gctx, text, k.voice)
			p.storeAudio(k, pcm)
			return gctx.Err()
		})
	}

	err := g.Wait()
	return fetched, err
}

func (p *Prefetcher) storeImage(k imageKey, img *library.Illustration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, k)
	if k.story != p.storyID || img == nil {
		return false
	}
	if _, ok := p.images[k]; ok {
		return false
	}
	p.images[k] = img
	return true
}

func (p *Prefetcher) storeAudio(k audioKey, pcm []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, k)
	if k.story != p.storyID || k.voice != p.voice {
		p.log.Debug("dropping stale narration", "story", k.story, "page", k.page, "voice", k.voice)
		return
	}
	if _, ok := p.audio[k]; ok {
		return
	}
	p.audio[k] = pcm
}
