package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/store"
)

// Store is the single owner of the saved library. Mutations go through
// Update, which validates and persists before the in-memory copy moves.
type Store struct {
	mu        sync.Mutex
	repo      store.DocumentRepo
	log       *logger.Logger
	current   Library
	recovered bool
}

// Load reads the library once at startup. A missing record is an empty
// library. A malformed record is kept under "<key>.corrupt" and replaced by
// an empty library; individually invalid stories are dropped.
func Load(ctx context.Context, repo store.DocumentRepo, log *logger.Logger) (*Store, error) {
	s := &Store{repo: repo, log: log.With("store", store.KeyLibrary)}

	raw, err := repo.Get(ctx, store.KeyLibrary)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load library: %w", err)
	}

	var lib Library
	if err := json.Unmarshal(raw, &lib); err != nil {
		s.log.Warn("saved library is malformed, starting empty", "error", err)
		if berr := repo.Put(ctx, store.KeyLibrary+".corrupt", raw); berr != nil {
			s.log.Warn("could not back up malformed library", "error", berr)
		}
		s.recovered = true
		if err := s.write(ctx, nil); err != nil {
			return nil, err
		}
		return s, nil
	}

	kept := lib[:0]
	seen := make(map[string]bool, len(lib))
	for i := range lib {
		if err := lib[i].Validate(); err != nil || seen[lib[i].ID] {
			s.log.Warn("dropping unreadable saved story", "id", lib[i].ID, "error", err)
			s.recovered = true
			continue
		}
		seen[lib[i].ID] = true
		kept = append(kept, lib[i])
	}
	s.current = kept
	return s, nil
}

// Get returns a copy of the library.
func (s *Store) Get() Library {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.current)
}

// Recovered reports whether startup discarded malformed data.
func (s *Store) Recovered() bool {
	return s.recovered
}

// Update applies fn, validates and persists the result, then makes it
// current. On any error the library is unchanged.
func (s *Store) Update(ctx context.Context, fn func(Library) (Library, error)) (Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(slices.Clone(s.current))
	if err != nil {
		return s.current, err
	}
	if err := next.Validate(); err != nil {
		return s.current, err
	}
	if err := s.write(ctx, next); err != nil {
		return s.current, err
	}
	s.current = next
	return slices.Clone(next), nil
}

// Prepend saves a new story at the front.
func (s *Store) Prepend(ctx context.Context, story Story) error {
	_, err := s.Update(ctx, func(l Library) (Library, error) {
		return l.Prepend(story)
	})
	return err
}

// Delete removes a story by id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.Update(ctx, func(l Library) (Library, error) {
		return l.Delete(id), nil
	})
	return err
}

// AttachIllustration stores a fetched illustration on a saved page. It is
// a no-op when the story was deleted in the meantime.
func (s *Store) AttachIllustration(ctx context.Context, id string, pageIndex int, img *Illustration) error {
	_, err := s.Update(ctx, func(l Library) (Library, error) {
		next, _ := l.AttachIllustration(id, pageIndex, img)
		return next, nil
	})
	return err
}

func (s *Store) write(ctx context.Context, lib Library) error {
	if lib == nil {
		lib = Library{}
	}
	data, err := json.Marshal(lib)
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := s.repo.Put(ctx, store.KeyLibrary, data); err != nil {
		return fmt.Errorf("save library: %w", err)
	}
	return nil
}
