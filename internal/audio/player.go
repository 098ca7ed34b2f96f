// Package audio plays narration buffers, one at a time.
package audio

import (
	"sync"

	"github.com/abhisek/gyankosh/internal/logger"
)

// Format describes raw PCM: signed 16-bit little endian samples.
type Format struct {
	SampleRate int
	Channels   int
}

// Handle is one playing buffer.
type Handle interface {
	// Stop ends playback and releases the backend. Safe to call twice.
	Stop() error
	// Done is closed when playback ends for any reason.
	Done() <-chan struct{}
}

// Sink starts playback of a buffer.
type Sink interface {
	Name() string
	Start(pcm []byte, f Format) (Handle, error)
}

// Player owns the single currently playing handle.
type Player struct {
	mu      sync.Mutex
	sink    Sink
	format  Format
	current Handle
	log     *logger.Logger
}

// NewPlayer plays through sink in format f.
func NewPlayer(sink Sink, f Format, log *logger.Logger) *Player {
	if log == nil {
		log = logger.Nop()
	}
	return &Player{sink: sink, format: f, log: log.With("component", "audio", "sink", sink.Name())}
}

// Play stops whatever is playing and starts pcm. The returned channel is
// closed when this buffer finishes or is stopped.
func (p *Player) Play(pcm []byte) (<-chan struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked()
	h, err := p.sink.Start(pcm, p.format)
	if err != nil {
		p.log.Warn("playback failed", "error", err)
		return nil, err
	}
	p.current = h
	return h.Done(), nil
}

// Stop ends playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

// Playing reports whether a buffer is still playing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return false
	}
	select {
	case <-p.current.Done():
		return false
	default:
		return true
	}
}

// Close releases the handle. The player may be reused afterwards.
func (p *Player) Close() error {
	p.Stop()
	return nil
}

func (p *Player) releaseLocked() {
	if p.current == nil {
		return
	}
	if err := p.current.Stop(); err != nil {
		p.log.Debug("stop playback", "error", err)
	}
	p.current = nil
}
