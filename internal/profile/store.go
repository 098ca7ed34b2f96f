package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/store"
)

// Store is the single owner of the learner profile. Every change goes
// through Update, which validates and persists before the in-memory copy
// moves forward.
type Store struct {
	mu        sync.Mutex
	repo      store.DocumentRepo
	log       *logger.Logger
	current   UserProfile
	recovered bool
}

// Load reads the profile once at startup. A missing record yields the
// defaults. A malformed record is kept under "<key>.corrupt", replaced by
// the defaults, and reported through Recovered. The login streak is then
// recomputed for today and written back if it changed.
func Load(ctx context.Context, repo store.DocumentRepo, log *logger.Logger, today time.Time) (*Store, error) {
	s := &Store{repo: repo, log: log.With("store", store.KeyProfile)}

	p, err := s.read(ctx, today)
	if err != nil {
		return nil, err
	}
	s.current = p

	if next, changed := ApplyStreak(p, today); changed || s.recovered {
		if err := s.write(ctx, next); err != nil {
			return nil, err
		}
		s.current = next
		s.log.Info("streak updated", "streak", next.StreakDays, "last_login", next.LastLoginDate)
	}
	return s, nil
}

func (s *Store) read(ctx context.Context, today time.Time) (UserProfile, error) {
	raw, err := s.repo.Get(ctx, store.KeyProfile)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("no saved profile, starting fresh")
		return Default(today), nil
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("load profile: %w", err)
	}

	var p UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Warn("saved profile is malformed, resetting to defaults", "error", err)
		if berr := s.repo.Put(ctx, store.KeyProfile+".corrupt", raw); berr != nil {
			s.log.Warn("could not back up malformed profile", "error", berr)
		}
		s.recovered = true
		return Default(today), nil
	}
	return p.normalize(today), nil
}

// Get returns a copy of the current profile.
func (s *Store) Get() UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Recovered reports whether startup discarded a malformed record.
func (s *Store) Recovered() bool {
	return s.recovered
}

// Update applies fn to the current profile. The result is validated and
// persisted; only then does it become current. On error nothing changes.
func (s *Store) Update(ctx context.Context, fn func(UserProfile) UserProfile) (UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.current)
	if err := next.Validate(); err != nil {
		return s.current, err
	}
	if err := s.write(ctx, next); err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

func (s *Store) write(ctx context.Context, p UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.repo.Put(ctx, store.KeyProfile, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
