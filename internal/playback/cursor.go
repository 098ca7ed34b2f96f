// Package playback tracks the reader's position in a lesson and keeps the
// pages around it illustrated and narrated.
package playback

import "github.com/abhisek/gyankosh/internal/library"

// Cover is the cursor index of the cover page.
const Cover = -1

// Lookahead is how many pages past the current one are prefetched.
const Lookahead = 2

// Cursor walks from the cover to the last page.
type Cursor struct {
	index int
	pages int
}

// NewCursor starts on the cover of a lesson with pages pages.
func NewCursor(pages int) Cursor {
	return Cursor{index: Cover, pages: pages}
}

func (c Cursor) Index() int    { return c.index }
func (c Cursor) IsCover() bool { return c.index == Cover }
func (c Cursor) Pages() int    { return c.pages }

// AtEnd reports whether the cursor is on the last page.
func (c Cursor) AtEnd() bool {
	return c.index == c.pages-1
}

// Next advances one page. It reports false at the end.
func (c *Cursor) Next() bool {
	if c.index >= c.pages-1 {
		return false
	}
	c.index++
	return true
}

// Prev goes back one page. It reports false on the cover.
func (c *Cursor) Prev() bool {
	if c.index <= Cover {
		return false
	}
	c.index--
	return true
}

// Window lists the current index and up to Lookahead following ones.
func (c Cursor) Window() []int {
	out := []int{c.index}
	for i := 1; i <= Lookahead && c.index+i < c.pages; i++ {
		out = append(out, c.index+i)
	}
	return out
}

// NarrationText is what gets read aloud at index.
func NarrationText(s *library.Story, index int) string {
	if index == Cover {
		return s.Title + ". " + s.Summary
	}
	if index < 0 || index >= len(s.Pages) {
		return ""
	}
	return s.Pages[index].Text
}

// ImagePrompt is the artwork prompt at index.
func ImagePrompt(s *library.Story, index int) string {
	if index == Cover {
		return s.CoverPrompt
	}
	if index < 0 || index >= len(s.Pages) {
		return ""
	}
	return s.Pages[index].ImagePrompt
}
