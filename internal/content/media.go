package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/store"
)

// Narration audio format returned by the speech model.
const (
	NarrationSampleRate = 24000
	NarrationChannels   = 1
)

const illustrationSuffix = " High quality. If a diagram or chart: clean lines, white background, textbook style, legible labels. If an illustration: detailed and vibrant."

// modelClient is the slice of the genai Models service used here.
type modelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Media produces page art and narration. Without a client every call
// degrades: illustrations become placeholders and narration is nil.
type Media struct {
	models modelClient
	cfg    MediaConfig
	events store.EventRepo
	log    *logger.Logger
}

// NewMedia connects to Gemini when cfg has a key. events may be nil.
func NewMedia(ctx context.Context, cfg MediaConfig, events store.EventRepo, log *logger.Logger) (*Media, error) {
	if log == nil {
		log = logger.Nop()
	}
	m := &Media{cfg: cfg, events: events, log: log.With("component", "media")}
	if cfg.APIKey == "" {
		m.log.Info("no media API key, using placeholders and silent narration")
		return m, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini media client: %w", err)
	}
	m.models = client.Models
	return m, nil
}

// Available reports whether a media backend is configured.
func (m *Media) Available() bool {
	return m.models != nil
}

// GenerateIllustration returns page art for prompt. It always returns an
// image; any failure yields a locally drawn placeholder.
func (m *Media) GenerateIllustration(ctx context.Context, prompt string) *library.Illustration {
	if m.models == nil {
		return Placeholder(prompt)
	}

	start := time.Now()
	resp, err := m.models.GenerateContent(ctx, m.cfg.ImageModel, genai.Text(prompt+illustrationSuffix), nil)
	blob := firstInline(resp, err)
	m.record(ctx, "illustration", m.cfg.ImageModel, start, blob, err)
	if blob == nil {
		m.log.Warn("illustration unavailable, drawing placeholder", "error", errOrEmpty(err))
		return Placeholder(prompt)
	}

	mime := blob.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &library.Illustration{MIMEType: mime, Data: blob.Data}
}

// GenerateNarration speaks text with the named prebuilt voice. The result
// is raw 16-bit little-endian PCM at NarrationSampleRate, or nil when
// speech is unavailable.
func (m *Media) GenerateNarration(ctx context.Context, text, voice string) []byte {
	if m.models == nil || text == "" {
		return nil
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	start := time.Now()
	resp, err := m.models.GenerateContent(ctx, m.cfg.SpeechModel, genai.Text(text), cfg)
	blob := firstInline(resp, err)
	m.record(ctx, "narration", m.cfg.SpeechModel, start, blob, err)
	if blob == nil {
		m.log.Warn("narration unavailable", "voice", voice, "error", errOrEmpty(err))
		return nil
	}
	return blob.Data
}

func firstInline(resp *genai.GenerateContentResponse, err error) *genai.Blob {
	if err != nil || resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	c := resp.Candidates[0].Content
	if c == nil {
		return nil
	}
	for _, part := range c.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

func (m *Media) record(ctx context.Context, purpose, model string, start time.Time, blob *genai.Blob, err error) {
	if m.events == nil {
		return
	}
	data := store.LLMRequestEventData{
		Provider:  "gemini",
		Model:     model,
		Purpose:   purpose,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   blob != nil,
	}
	switch {
	case err != nil:
		data.ErrorMessage = err.Error()
	case blob == nil:
		data.ErrorMessage = errNoMedia.Error()
	default:
		data.ResponseBody = fmt.Sprintf("[%s, %d bytes]", blob.MIMEType, len(blob.Data))
	}
	if rerr := m.events.AppendLLMRequest(ctx, data); rerr != nil {
		m.log.Warn("failed to record media event", "error", rerr)
	}
}

var errNoMedia = errors.New("response carried no inline data")

func errOrEmpty(err error) error {
	if err == nil {
		return errNoMedia
	}
	return err
}
