package audio

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

type command struct {
	name string
	args func(f Format) []string
}

var players = []command{
	{"aplay", func(f Format) []string {
		return []string{"-q", "-f", "S16_LE", "-r", strconv.Itoa(f.SampleRate), "-c", strconv.Itoa(f.Channels), "-t", "raw"}
	}},
	{"paplay", func(f Format) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + strconv.Itoa(f.SampleRate), "--channels=" + strconv.Itoa(f.Channels)}
	}},
	{"ffplay", func(f Format) []string {
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-f", "s16le",
			"-ar", strconv.Itoa(f.SampleRate), "-ac", strconv.Itoa(f.Channels), "-i", "-"}
	}},
}

// Detect picks the first player command on PATH, or a silent sink.
func Detect() Sink {
	for _, c := range players {
		if path, err := exec.LookPath(c.name); err == nil {
			return &CommandSink{path: path, cmd: c}
		}
	}
	return SilentSink{}
}

// CommandSink pipes PCM into an external player process.
type CommandSink struct {
	path string
	cmd  command
}

func (s *CommandSink) Name() string { return s.cmd.name }

func (s *CommandSink) Start(pcm []byte, f Format) (Handle, error) {
	cmd := exec.Command(s.path, s.cmd.args(f)...)
	cmd.Stdin = bytes.NewReader(pcm)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	h := &procHandle{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()
	return h, nil
}

type procHandle struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (h *procHandle) Done() <-chan struct{} { return h.done }

func (h *procHandle) Stop() error {
	var err error
	h.once.Do(func() {
		select {
		case <-h.done:
			return
		default:
		}
		if kerr := h.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}
		<-h.done
	})
	return err
}

// SilentSink keeps time without producing sound, so callers waiting for
// narration to end still advance.
type SilentSink struct{}

func (SilentSink) Name() string { return "silent" }

func (SilentSink) Start(pcm []byte, f Format) (Handle, error) {
	h := &timerHandle{done: make(chan struct{})}
	h.timer = time.AfterFunc(Duration(len(pcm), f), h.finish)
	return h, nil
}

type timerHandle struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

func (h *timerHandle) finish() { h.once.Do(func() { close(h.done) }) }

func (h *timerHandle) Done() <-chan struct{} { return h.done }

func (h *timerHandle) Stop() error {
	h.timer.Stop()
	h.finish()
	return nil
}

// Duration is how long n bytes of PCM in format f last.
func Duration(n int, f Format) time.Duration {
	bytesPerSecond := f.SampleRate * f.Channels * 2
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bytesPerSecond)
}
