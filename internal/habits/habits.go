// Package habits owns the in-memory habit collection and keeps it in step
// with a durable key-value slot.
//
// A Store is built once at startup, loaded with Init, and then used as the
// single source of truth. Every mutation updates memory and then writes the
// complete snapshot to the slot before returning.
package habits

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scbrown/habits/internal/model"
	"github.com/scbrown/habits/internal/store"
)

// maxIDAttempts bounds how often AddHabit asks for a fresh id on collision.
const maxIDAttempts = 5

// Store holds the habit state and persists it to a store.Store.
type Store struct {
	mu         sync.Mutex
	backend    store.Store
	key        string
	log        *zap.Logger
	now        func() time.Time
	newID      func() string
	migrations map[int]Migration

	state model.State
}

// New returns a Store holding the default state. Call Init to load what is
// already stored.
func New(backend store.Store, opts ...Option) *Store {
	s := &Store{backend: backend, state: model.DefaultState()}
	defaultOptions(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key the state is written under.
func (s *Store) Key() string { return s.key }

// Init loads the stored state. An empty slot is initialised with the current
// in-memory state. A legacy object value is rewritten as text before it is
// adopted. A value that cannot be decoded is logged, deleted and replaced by
// the in-memory state; that failure is never returned. Backend errors are.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.key, err)
	}
	if v.Kind == store.KindNone {
		s.log.Debug("no stored habit state; writing default", zap.String("key", s.key))
		return s.persistLocked(ctx)
	}

	p, migrated, err := s.load(v)
	if err != nil {
		s.log.Error("failed to load habits from storage; resetting key",
			zap.String("key", s.key),
			zap.Stringer("kind", v.Kind),
			zap.Error(err),
		)
		if err := s.backend.Delete(ctx, s.key); err != nil {
			return fmt.Errorf("reset %s: %w", s.key, err)
		}
		return s.persistLocked(ctx)
	}

	next := p.Apply(s.state)
	if v.Kind == store.KindObject || migrated {
		text, err := encodeState(next)
		if err != nil {
			return err
		}
		if err := s.backend.Set(ctx, s.key, text); err != nil {
			return fmt.Errorf("rewrite %s: %w", s.key, err)
		}
		s.log.Info("normalized stored habit state",
			zap.String("key", s.key),
			zap.Stringer("from", v.Kind),
			zap.Bool("migrated", migrated),
		)
	}
	s.state = next
	s.log.Debug("loaded habit state",
		zap.String("key", s.key),
		zap.Int("version", s.state.Version),
		zap.Int("habits", len(s.state.Habits)),
	)
	return nil
}

func (s *Store) load(v store.Value) (Patch, bool, error) {
	p, err := decodeValue(v)
	if err != nil {
		return Patch{}, false, err
	}
	return s.normalize(p)
}

// Persist writes the complete current state to the slot.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	text, err := encodeState(s.state)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.key, text); err != nil {
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	return nil
}

// AddHabit appends a new active habit and persists. It returns the habit as
// stored.
func (s *Store) AddHabit(ctx context.Context, title string, cadence model.Cadence) (model.Habit, error) {
	if strings.TrimSpace(title) == "" {
		return model.Habit{}, fmt.Errorf("%w: title is empty", model.ErrInvalid)
	}
	if !cadence.Valid() {
		return model.Habit{}, fmt.Errorf("%w: unknown cadence %q", model.ErrInvalid, cadence)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueIDLocked()
	if err != nil {
		return model.Habit{}, err
	}
	h := model.Habit{
		ID:        id,
		Title:     title,
		Cadence:   cadence,
		CreatedAt: s.now().UnixMilli(),
	}
	s.state.Habits = append(s.state.Habits, h)
	if err := s.persistLocked(ctx); err != nil {
		return h, err
	}
	return h, nil
}

func (s *Store) uniqueIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique habit id after %d attempts", maxIDAttempts)
}

func (s *Store) indexLocked(id string) int {
	for i, h := range s.state.Habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// ArchiveHabit marks the habit archived and persists. An unknown id is a
// no-op, so archiving is idempotent.
func (s *Store) ArchiveHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.state.Habits[i].Archived = true
	return s.persistLocked(ctx)
}

// RemoveHabit drops every habit with the given id and persists, whether or
// not anything matched.
func (s *Store) RemoveHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.Habit, 0, len(s.state.Habits))
	for _, h := range s.state.Habits {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	s.state.Habits = kept
	return s.persistLocked(ctx)
}

// ExportJSON returns the text Persist would write for the current state.
func (s *Store) ExportJSON() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return encodeState(s.state)
}

// ImportJSON decodes text and applies it as a shallow patch, then persists.
// Malformed or invalid text returns an error wrapping ErrDecode and leaves
// the state unchanged.
func (s *Store) ImportJSON(ctx context.Context, text string) error {
	p, err := decodeText(text)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err = s.normalize(p)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.state = p.Apply(s.state)
	return s.persistLocked(ctx)
}

// ResetStorage restores the default state, deletes the key and writes the
// default back, leaving storage as on a fresh install.
func (s *Store) ResetStorage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = model.DefaultState()
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("reset %s: %w", s.key, err)
	}
	return s.persistLocked(ctx)
}

// FetchByID returns the habit with the given id.
func (s *Store) FetchByID(id string) (model.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.Habit{}, false
	}
	return s.state.Habits[i], true
}

// Version returns the schema version of the in-memory state.
func (s *Store) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Version
}

// Habits returns a copy of all habits in display order.
func (s *Store) Habits() []model.Habit {
	return s.Snapshot().Habits
}

// Snapshot returns a copy of the complete in-memory state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Active returns the habits that are not archived.
func (s *Store) Active() []model.Habit {
	return s.filter(func(h model.Habit) bool { return !h.Archived })
}

// Archived returns the archived habits.
func (s *Store) Archived() []model.Habit {
	return s.filter(func(h model.Habit) bool { return h.Archived })
}

func (s *Store) filter(keep func(model.Habit) bool) []model.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Habit{}
	for _, h := range s.state.Habits {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}
