package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/gyankosh/internal/app"
	"github.com/abhisek/gyankosh/internal/audio"
	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/playback"
	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/voice"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := app.Options{
		Logger:    e.log,
		Tutor:     content.Unavailable{},
		ExportDir: filepath.Join(filepath.Dir(e.dbPath), "pictures"),
	}

	var gen session.LessonGenerator = content.Unavailable{}
	if g, err := e.generator(cmd); err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Lesson creation will be unavailable.")
	} else {
		gen = g
		opts.Tutor = g
		opts.LLMReady = true
	}
	m := e.session(gen)
	opts.Session = m

	media, err := content.NewMedia(ctx, content.MediaConfigFromEnv(), e.store.EventRepo(), e.log)
	if err != nil {
		e.log.Warn("media unavailable, using placeholders", "error", err)
		media, _ = content.NewMedia(ctx, content.DefaultMediaConfig(), nil, e.log)
	}
	opts.Prefetcher = playback.NewPrefetcher(media, playback.DefaultConcurrency, e.log)
	opts.Player = audio.NewPlayer(audio.Detect(), audio.Format{
		SampleRate: content.NarrationSampleRate,
		Channels:   content.NarrationChannels,
	}, e.log)

	vopts := voice.OptionsFromEnv()
	vopts.Language = func() string { return m.State().Language }
	capability := voice.Detect(ctx, vopts, e.log)
	if c, ok := capability.(io.Closer); ok {
		defer c.Close()
	}
	opts.Voice = capability

	opts.Greeting = greeting(m.Profile())
	return app.Run(ctx, opts)
}

// greeting is the welcome screen line for returning learners.
func greeting(p profile.UserProfile) string {
	switch {
	case p.StreakDays > 1:
		return fmt.Sprintf("%d-day streak! Keep it going.", p.StreakDays)
	case p.StoriesRead > 0:
		return fmt.Sprintf("Welcome back, %s!", p.Name)
	}
	return ""
}
