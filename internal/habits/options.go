package habits

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultKey is the storage key the habit state lives under.
const DefaultKey = "habits_state_v1"

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used to report recovered load failures and
// migrations. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc sets the generator for new habit ids.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithMigration registers m to upgrade payloads stored at version from.
func WithMigration(from int, m Migration) Option {
	return func(s *Store) { s.migrations[from] = m }
}

func defaultOptions(s *Store) {
	s.key = DefaultKey
	s.log = zap.NewNop()
	s.now = time.Now
	s.newID = uuid.NewString
	s.migrations = make(map[int]Migration)
}
