package voice

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/abhisek/gyankosh/internal/logger"
)

// DefaultListenDuration is how long one utterance may last.
const DefaultListenDuration = 5 * time.Second

type recognizeClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
}

// Recognizer records from the microphone and transcribes with Google
// Cloud Speech.
type Recognizer struct {
	rec      Recorder
	client   recognizeClient
	closer   func() error
	language func() string
	duration time.Duration
	log      *logger.Logger
}

// Options configures Detect.
type Options struct {
	// Enabled gates the whole capability. Off means Unsupported.
	Enabled bool
	// Recorder forces one capture tool by name.
	Recorder string
	// Language returns the catalog language to transcribe, read at each
	// Listen so it follows the learner's current selection.
	Language func() string
	Duration time.Duration
}

// OptionsFromEnv reads GYANKOSH_SPEECH_ENABLED and GYANKOSH_RECORDER.
func OptionsFromEnv() Options {
	enabled := strings.ToLower(strings.TrimSpace(os.Getenv("GYANKOSH_SPEECH_ENABLED")))
	return Options{
		Enabled:  enabled == "1" || enabled == "true" || enabled == "yes",
		Recorder: strings.TrimSpace(os.Getenv("GYANKOSH_RECORDER")),
		Duration: DefaultListenDuration,
	}
}

// Detect decides the capability for this run. Any missing piece yields
// Unsupported; the reason is logged.
func Detect(ctx context.Context, opts Options, log *logger.Logger) Capability {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "voice")
	if !opts.Enabled {
		log.Info("voice input disabled")
		return Unsupported{}
	}
	rec, err := FindRecorder(opts.Recorder)
	if err != nil {
		log.Info("voice input unavailable", "error", err)
		return Unsupported{}
	}
	client, err := speech.NewClient(ctx, clientOptionsFromEnv()...)
	if err != nil {
		log.Warn("speech client unavailable", "error", err)
		return Unsupported{}
	}
	log.Info("voice input ready", "recorder", rec.Path)
	return newRecognizer(rec, client, client.Close, opts, log)
}

func newRecognizer(rec Recorder, client recognizeClient, closer func() error, opts Options, log *logger.Logger) *Recognizer {
	if opts.Duration <= 0 {
		opts.Duration = DefaultListenDuration
	}
	if opts.Language == nil {
		opts.Language = func() string { return "English" }
	}
	return &Recognizer{rec: rec, client: client, closer: closer, language: opts.Language, duration: opts.Duration, log: log}
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (r *Recognizer) Available() bool { return true }

// Listen records one utterance and returns the best transcript.
func (r *Recognizer) Listen(ctx context.Context) (string, error) {
	audio, err := r.rec.Record(ctx, r.duration)
	if err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", nil
	}

	resp, err := r.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            SampleRate,
			AudioChannelCount:          Channels,
			LanguageCode:               LanguageCode(r.language()),
			EnableAutomaticPunctuation: true,
			MaxAlternatives:            1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var parts []string
	for _, res := range resp.GetResults() {
		if alts := res.GetAlternatives(); len(alts) > 0 {
			if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
				parts = append(parts, t)
			}
		}
	}
	transcript := strings.Join(parts, " ")
	r.log.Debug("transcribed utterance", "bytes", len(audio), "chars", len(transcript))
	return transcript, nil
}

// Close releases the speech client.
func (r *Recognizer) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

var languageCodes = map[string]string{
	"English":   "en-IN",
	"Hindi":     "hi-IN",
	"Marathi":   "mr-IN",
	"Bengali":   "bn-IN",
	"Gujarati":  "gu-IN",
	"Tamil":     "ta-IN",
	"Telugu":    "te-IN",
	"Kannada":   "kn-IN",
	"Malayalam": "ml-IN",
	"Punjabi":   "pa-Guru-IN",
}

// LanguageCode maps a catalog language to a BCP-47 tag, defaulting to
// Indian English.
func LanguageCode(language string) string {
	if code, ok := languageCodes[language]; ok {
		return code
	}
	return "en-IN"
}
