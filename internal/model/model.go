// Package model defines core types for habits: a Habit (a tracked recurring
// item) and State (the versioned snapshot written to durable storage).
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CurrentVersion is the schema version of the State shape defined here.
const CurrentVersion = 1

// ErrInvalid is wrapped by every validation failure in this package.
var ErrInvalid = errors.New("invalid habit data")

// Cadence is the recurrence category of a habit.
type Cadence string

const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
	Custom  Cadence = "custom"
)

// Cadences returns every known cadence in display order.
func Cadences() []Cadence {
	return []Cadence{Daily, Weekly, Monthly, Custom}
}

// Valid reports whether c is one of the known cadences.
func (c Cadence) Valid() bool {
	switch c {
	case Daily, Weekly, Monthly, Custom:
		return true
	}
	return false
}

// ParseCadence converts user input (case-insensitive) into a Cadence.
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown cadence %q (use daily, weekly, monthly or custom)", ErrInvalid, s)
	}
	return c, nil
}

// Habit is a single tracked item.
type Habit struct {
	ID        string  `json:"id" yaml:"id"`
	Title     string  `json:"title" yaml:"title"`
	Cadence   Cadence `json:"cadence" yaml:"cadence"`
	Archived  bool    `json:"archived,omitempty" yaml:"archived,omitempty"`
	CreatedAt int64   `json:"createdAt" yaml:"createdAt"` // Unix milliseconds.
}

// Created returns CreatedAt as a time.Time in UTC.
func (h Habit) Created() time.Time {
	return time.UnixMilli(h.CreatedAt).UTC()
}

// Validate checks the field constraints of a single habit.
func (h Habit) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("%w: habit id is empty", ErrInvalid)
	}
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("%w: habit %s has an empty title", ErrInvalid, h.ID)
	}
	if !h.Cadence.Valid() {
		return fmt.Errorf("%w: habit %s has unknown cadence %q", ErrInvalid, h.ID, h.Cadence)
	}
	if h.CreatedAt < 0 {
		return fmt.Errorf("%w: habit %s has negative createdAt", ErrInvalid, h.ID)
	}
	return nil
}

// State is the complete snapshot persisted to the durable slot.
type State struct {
	Version int     `json:"version" yaml:"version"`
	Habits  []Habit `json:"habits" yaml:"habits"`
}

// DefaultState returns the snapshot of a fresh install.
func DefaultState() State {
	return State{Version: CurrentVersion, Habits: []Habit{}}
}

// Validate checks the version and every habit, and rejects duplicate ids.
func (s State) Validate() error {
	if s.Version < 1 {
		return fmt.Errorf("%w: version %d is not positive", ErrInvalid, s.Version)
	}
	return ValidateHabits(s.Habits)
}

// ValidateHabits validates each habit and checks that ids are unique.
func ValidateHabits(habits []Habit) error {
	seen := make(map[string]bool, len(habits))
	for i, h := range habits {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habits[%d]: %w", i, err)
		}
		if seen[h.ID] {
			return fmt.Errorf("%w: duplicate habit id %s", ErrInvalid, h.ID)
		}
		seen[h.ID] = true
	}
	return nil
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Version: s.Version, Habits: make([]Habit, len(s.Habits))}
	copy(out.Habits, s.Habits)
	return out
}
