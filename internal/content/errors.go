package content

import (
	"errors"
	"fmt"
)

// ErrGeneration is matched by every lesson generation failure.
var ErrGeneration = errors.New("lesson generation failed")

// GenerationError reports why a lesson could not be produced. No partial
// lesson accompanies it.
type GenerationError struct {
	// Stage is where generation stopped: "request", "decode" or "validate".
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("lesson generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGeneration) hold for any GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}
