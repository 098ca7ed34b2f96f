package content

import "os"

// Config holds generation settings.
type Config struct {
	LessonMaxTokens int
	TutorMaxTokens  int

	// Lessons for Class 9 and 10 stay close to the syllabus.
	HighSchoolTemperature float64
	PrimaryTemperature    float64
	TutorTemperature      float64
}

// DefaultConfig returns sensible defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		LessonMaxTokens:       8192,
		TutorMaxTokens:        256,
		HighSchoolTemperature: 0.3,
		PrimaryTemperature:    0.7,
		TutorTemperature:      0.5,
	}
}

// MediaConfig selects the Gemini models used for pictures and speech.
type MediaConfig struct {
	APIKey      string
	ImageModel  string
	SpeechModel string
}

// DefaultMediaConfig returns the media models with no key set.
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{
		ImageModel:  "gemini-2.5-flash-image",
		SpeechModel: "gemini-2.5-flash-preview-tts",
	}
}

// MediaConfigFromEnv reads GYANKOSH_MEDIA_API_KEY, falling back to
// GEMINI_API_KEY. Model overrides come from GYANKOSH_IMAGE_MODEL and
// GYANKOSH_SPEECH_MODEL.
func MediaConfigFromEnv() MediaConfig {
	cfg := DefaultMediaConfig()
	cfg.APIKey = os.Getenv("GYANKOSH_MEDIA_API_KEY")
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if m := os.Getenv("GYANKOSH_IMAGE_MODEL"); m != "" {
		cfg.ImageModel = m
	}
	if m := os.Getenv("GYANKOSH_SPEECH_MODEL"); m != "" {
		cfg.SpeechModel = m
	}
	return cfg
}
