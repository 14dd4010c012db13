package habits

import (
	"fmt"

	"github.com/scbrown/habits/internal/model"
)

// Migration upgrades a payload written at one schema version. It must
// return a Patch whose Version is greater than the one it was given.
type Migration func(p Patch) (Patch, error)

// MigrateUnversioned upgrades a version 0 payload (written before the
// version field was introduced) to version 1. A missing habits list becomes
// an empty one.
func MigrateUnversioned(p Patch) (Patch, error) {
	v := 1
	out := Patch{Version: &v, Habits: p.Habits}
	if out.Habits == nil {
		out.Habits = &[]model.Habit{}
	}
	return out, nil
}

// normalize brings p to the current schema version and validates it. A
// payload without a version is taken to be in the current shape.
func (s *Store) normalize(p Patch) (Patch, bool, error) {
	migrated := false
	if p.Version != nil {
		for *p.Version != model.CurrentVersion {
			from := *p.Version
			if from > model.CurrentVersion {
				return Patch{}, false, fmt.Errorf("%w: version %d is newer than supported version %d", ErrDecode, from, model.CurrentVersion)
			}
			m, ok := s.migrations[from]
			if !ok {
				return Patch{}, false, fmt.Errorf("%w: no migration from version %d", ErrDecode, from)
			}
			next, err := m(p)
			if err != nil {
				return Patch{}, false, fmt.Errorf("%w: migrate from version %d: %w", ErrDecode, from, err)
			}
			if next.Version == nil || *next.Version <= from {
				return Patch{}, false, fmt.Errorf("%w: migration from version %d did not advance the version", ErrDecode, from)
			}
			p = next
			migrated = true
		}
	}
	if p.Habits != nil {
		if err := model.ValidateHabits(*p.Habits); err != nil {
			return Patch{}, false, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}
	return p, migrated, nil
}
