package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyankosh/internal/logger"
)

type fakeRecorder struct {
	audio []byte
	err   error
	got   time.Duration
}

func (f *fakeRecorder) Record(_ context.Context, d time.Duration) ([]byte, error) {
	f.got = d
	return f.audio, f.err
}

type fakeSpeech struct {
	resp *speechpb.RecognizeResponse
	err  error
	req  *speechpb.RecognizeRequest
}

func (f *fakeSpeech) Recognize(_ context.Context, req *speechpb.RecognizeRequest, _ ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	f.req = req
	return f.resp, f.err
}

func result(text string) *speechpb.SpeechRecognitionResult {
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text}},
	}
}

func TestRecognizer_Listen(t *testing.T) {
	rec := &fakeRecorder{audio: []byte{1, 2, 3, 4}}
	client := &fakeSpeech{resp: &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{result("the water "), result(" cycle")},
	}}
	r := newRecognizer(rec, client, nil, Options{Language: func() string { return "Hindi" }}, logger.Nop())

	assert.True(t, r.Available())
	text, err := r.Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "the water cycle", text)
	assert.Equal(t, DefaultListenDuration, rec.got)

	cfg := client.req.GetConfig()
	assert.Equal(t, "hi-IN", cfg.GetLanguageCode())
	assert.Equal(t, int32(SampleRate), cfg.GetSampleRateHertz())
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, cfg.GetEncoding())
	assert.Equal(t, []byte{1, 2, 3, 4}, client.req.GetAudio().GetContent())
	assert.NoError(t, r.Close())
}

func TestRecognizer_SilenceYieldsEmpty(t *testing.T) {
	client := &fakeSpeech{}
	r := newRecognizer(&fakeRecorder{}, client, nil, Options{}, logger.Nop())

	text, err := r.Listen(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Nil(t, client.req, "nothing recorded, nothing sent")
}

func TestRecognizer_Errors(t *testing.T) {
	r := newRecognizer(&fakeRecorder{err: errors.New("mic busy")}, &fakeSpeech{}, nil, Options{}, logger.Nop())
	_, err := r.Listen(context.Background())
	assert.ErrorContains(t, err, "mic busy")

	r = newRecognizer(&fakeRecorder{audio: []byte{0}}, &fakeSpeech{err: errors.New("quota")}, nil, Options{}, logger.Nop())
	_, err = r.Listen(context.Background())
	assert.ErrorContains(t, err, "quota")
}

func TestUnsupported(t *testing.T) {
	var c Capability = Unsupported{}
	assert.False(t, c.Available())
	_, err := c.Listen(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDetect_DisabledIsUnsupported(t *testing.T) {
	c := Detect(context.Background(), Options{Enabled: false}, nil)
	assert.IsType(t, Unsupported{}, c)
}

func TestDetect_UnknownRecorderIsUnsupported(t *testing.T) {
	c := Detect(context.Background(), Options{Enabled: true, Recorder: "tape-deck"}, nil)
	assert.IsType(t, Unsupported{}, c)
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("GYANKOSH_SPEECH_ENABLED", "true")
	t.Setenv("GYANKOSH_RECORDER", "arecord")
	opts := OptionsFromEnv()
	assert.True(t, opts.Enabled)
	assert.Equal(t, "arecord", opts.Recorder)

	t.Setenv("GYANKOSH_SPEECH_ENABLED", "")
	assert.False(t, OptionsFromEnv().Enabled)
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "ta-IN", LanguageCode("Tamil"))
	assert.Equal(t, "en-IN", LanguageCode("Klingon"))
}

func TestCommandRecorderArgs(t *testing.T) {
	for _, r := range knownRecorders {
		assert.NotEmpty(t, r.args(3*time.Second), r.name)
	}
	assert.Equal(t, 1, seconds(200*time.Millisecond))
	assert.Equal(t, 5, seconds(5*time.Second))
}
