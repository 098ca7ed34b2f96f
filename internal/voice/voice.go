// Package voice turns a short spoken phrase into a lesson topic.
package voice

import (
	"context"
	"errors"
)

// UnsupportedNotice is shown when voice input is attempted without a
// working backend.
const UnsupportedNotice = "Voice input is not supported on this system."

// ErrUnsupported is returned by Listen on the Unsupported capability.
var ErrUnsupported = errors.New("voice input unsupported")

// Capability is decided once at startup.
type Capability interface {
	// Available reports whether Listen can succeed at all.
	Available() bool
	// Listen records one utterance and returns its final transcript, or ""
	// when nothing was recognized.
	Listen(ctx context.Context) (string, error)
}

// Unsupported is the capability for systems without a recorder or speech
// credentials.
type Unsupported struct{}

func (Unsupported) Available() bool { return false }

func (Unsupported) Listen(context.Context) (string, error) {
	return "", ErrUnsupported
}
