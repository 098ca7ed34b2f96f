package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Audio captured for recognition: 16 kHz mono signed 16-bit little endian.
const (
	SampleRate = 16000
	Channels   = 1
)

// Recorder captures raw PCM in the format above.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) ([]byte, error)
}

// CommandRecorder shells out to a capture tool that writes raw PCM to
// stdout.
type CommandRecorder struct {
	Path string
	Args func(d time.Duration) []string
}

// knownRecorders are probed in order.
var knownRecorders = []struct {
	name string
	args func(d time.Duration) []string
}{
	{"arecord", func(d time.Duration) []string {
		return []string{"-q", "-f", "S16_LE", "-r", strconv.Itoa(SampleRate), "-c", strconv.Itoa(Channels),
			"-t", "raw", "-d", strconv.Itoa(seconds(d))}
	}},
	{"parec", func(time.Duration) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + strconv.Itoa(SampleRate), "--channels=" + strconv.Itoa(Channels)}
	}},
	{"ffmpeg", func(d time.Duration) []string {
		return []string{"-hide_banner", "-loglevel", "error", "-f", "pulse", "-i", "default",
			"-t", strconv.Itoa(seconds(d)), "-ac", strconv.Itoa(Channels), "-ar", strconv.Itoa(SampleRate),
			"-f", "s16le", "-"}
	}},
}

func seconds(d time.Duration) int {
	s := int(d.Round(time.Second) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// FindRecorder returns the first capture tool on PATH. preferred, when
// set, must name one of arecord, parec or ffmpeg.
func FindRecorder(preferred string) (*CommandRecorder, error) {
	for _, r := range knownRecorders {
		if preferred != "" && r.name != preferred {
			continue
		}
		if path, err := exec.LookPath(r.name); err == nil {
			return &CommandRecorder{Path: path, Args: r.args}, nil
		}
	}
	if preferred != "" {
		return nil, fmt.Errorf("recorder %q not found", preferred)
	}
	return nil, errors.New("no audio recorder found")
}

// Record captures for d or until ctx is done, whichever is first. Tools
// without a duration flag are stopped by the deadline; whatever they
// captured is returned.
func (r *CommandRecorder) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d+time.Second)
	defer cancel()

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Path, r.Args(d)...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	err := cmd.Run()
	if out.Len() > 0 {
		return out.Bytes(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("record with %s: %w: %s", r.Path, err, strings.TrimSpace(stderr.String()))
	}
	return nil, nil
}
