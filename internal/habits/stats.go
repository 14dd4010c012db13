package habits

import (
	"time"

	"github.com/scbrown/habits/internal/model"
)

// CadenceCount holds per-cadence habit counts.
type CadenceCount struct {
	Cadence  model.Cadence `json:"cadence" yaml:"cadence"`
	Active   int           `json:"active" yaml:"active"`
	Archived int           `json:"archived" yaml:"archived"`
}

// Stats summarises the habit collection.
type Stats struct {
	Version   int            `json:"version" yaml:"version"`
	Total     int            `json:"total" yaml:"total"`
	Active    int            `json:"active" yaml:"active"`
	Archived  int            `json:"archived" yaml:"archived"`
	ByCadence []CadenceCount `json:"by_cadence" yaml:"by_cadence"`
	Earliest  time.Time      `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest    time.Time      `json:"latest,omitempty" yaml:"latest,omitempty"`
}

// Stats computes summary counts. ByCadence lists every known cadence in
// display order, including ones with no habits.
func (s *Store) Stats() Stats {
	snap := s.Snapshot()

	st := Stats{Version: snap.Version, Total: len(snap.Habits)}
	idx := make(map[model.Cadence]int)
	for i, c := range model.Cadences() {
		st.ByCadence = append(st.ByCadence, CadenceCount{Cadence: c})
		idx[c] = i
	}

	for _, h := range snap.Habits {
		i := idx[h.Cadence]
		if h.Archived {
			st.Archived++
			st.ByCadence[i].Archived++
		} else {
			st.Active++
			st.ByCadence[i].Active++
		}
		created := h.Created()
		if st.Earliest.IsZero() || created.Before(st.Earliest) {
			st.Earliest = created
		}
		if created.After(st.Latest) {
			st.Latest = created
		}
	}
	return st
}
