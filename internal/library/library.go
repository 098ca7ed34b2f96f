// Package library holds generated lessons: the story model, the ordered
// collection of saved stories, and the recommendations derived from it.
package library

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateStory is returned when prepending an ID that is already saved.
var ErrDuplicateStory = errors.New("duplicate story id")

// Library is the saved stories, most recently created first.
type Library []Story

// Prepend returns a new library with s in front.
func (l Library) Prepend(s Story) (Library, error) {
	if l.Index(s.ID) >= 0 {
		return l, fmt.Errorf("%w: %s", ErrDuplicateStory, s.ID)
	}
	out := make(Library, 0, len(l)+1)
	out = append(out, s)
	return append(out, l...), nil
}

// Delete returns a new library without id. Unknown ids leave it as is.
func (l Library) Delete(id string) Library {
	i := l.Index(id)
	if i < 0 {
		return l
	}
	return slices.Delete(slices.Clone(l), i, i+1)
}

// Index returns the position of id, or -1.
func (l Library) Index(id string) int {
	return slices.IndexFunc(l, func(s Story) bool { return s.ID == id })
}

// Find returns a copy of the story with id.
func (l Library) Find(id string) (Story, bool) {
	i := l.Index(id)
	if i < 0 {
		return Story{}, false
	}
	return l[i], true
}

// AttachIllustration returns a library where page pageIndex of story id
// carries img. Unknown stories or pages are ignored; ok reports whether
// anything was attached.
func (l Library) AttachIllustration(id string, pageIndex int, img *Illustration) (Library, bool) {
	i := l.Index(id)
	if i < 0 || pageIndex < 0 || pageIndex >= len(l[i].Pages) {
		return l, false
	}
	out := slices.Clone(l)
	pages := slices.Clone(out[i].Pages)
	pages[pageIndex].Illustration = img
	out[i].Pages = pages
	return out, true
}

// Validate checks every story and that ids are unique.
func (l Library) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for i := range l {
		if err := l[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[l[i].ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateStory, l[i].ID)
		}
		seen[l[i].ID] = struct{}{}
	}
	return nil
}
