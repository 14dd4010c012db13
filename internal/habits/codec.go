package habits

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/scbrown/habits/internal/model"
	"github.com/scbrown/habits/internal/store"
)

// ErrDecode is wrapped by every failure to turn stored or imported data into
// a valid State.
var ErrDecode = errors.New("decode habit state")

// Patch is a decoded payload. A nil field was absent (or null) in the
// payload and leaves the corresponding State field untouched when applied.
type Patch struct {
	Version *int
	Habits  *[]model.Habit
}

// Apply returns s with every field present in p replaced. It is a shallow
// patch: a present Habits list replaces the whole list.
func (p Patch) Apply(s model.State) model.State {
	out := s.Clone()
	if p.Version != nil {
		out.Version = *p.Version
	}
	if p.Habits != nil {
		out.Habits = make([]model.Habit, len(*p.Habits))
		copy(out.Habits, *p.Habits)
	}
	return out
}

// decodeValue converts a stored value into a Patch. Text values are the
// current format; object values are the legacy format. Both end in the same
// decodeFields step.
func decodeValue(v store.Value) (Patch, error) {
	switch v.Kind {
	case store.KindText:
		return decodeText(v.Text)
	case store.KindObject:
		return decodeObject(v.Object)
	default:
		return Patch{}, fmt.Errorf("%w: nothing to decode (kind %s)", ErrDecode, v.Kind)
	}
}

// decodeText parses the string-encoded current format.
func decodeText(text string) (Patch, error) {
	if !json.Valid([]byte(text)) {
		return Patch{}, fmt.Errorf("%w: value is not valid JSON", ErrDecode)
	}
	return decodeFields([]byte(text))
}

// decodeObject reads the legacy format, an object stored without string
// encoding.
func decodeObject(obj json.RawMessage) (Patch, error) {
	trimmed := bytes.TrimSpace(obj)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return Patch{}, fmt.Errorf("%w: legacy object is not valid JSON", ErrDecode)
	}
	return decodeFields(trimmed)
}

func decodeFields(data []byte) (Patch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Patch{}, fmt.Errorf("%w: top-level value must be an object", ErrDecode)
	}

	var p Patch
	if raw, ok := fields["version"]; ok && !isNull(raw) {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return Patch{}, fmt.Errorf("%w: version: %w", ErrDecode, err)
		}
		p.Version = &v
	}
	if raw, ok := fields["habits"]; ok && !isNull(raw) {
		var hs []model.Habit
		if err := json.Unmarshal(raw, &hs); err != nil {
			return Patch{}, fmt.Errorf("%w: habits: %w", ErrDecode, err)
		}
		if hs == nil {
			hs = []model.Habit{}
		}
		p.Habits = &hs
	}
	return p, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// encodeState produces the string-encoded current format.
func encodeState(s model.State) (string, error) {
	if s.Habits == nil {
		s.Habits = []model.Habit{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}
