// Package store defines the durable key-value slot that habit state is
// written to, and the backends that implement it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Kind tags the encoding form of a stored value.
type Kind int

const (
	// KindNone means nothing is stored under the key.
	KindNone Kind = iota
	// KindText is a string-encoded value (the current format).
	KindText
	// KindObject is a structured object stored without string encoding
	// (the legacy format). Its content is carried as JSON bytes.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindText:
		return "text"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the raw content of a slot as read from a backend.
type Value struct {
	Kind   Kind
	Text   string          // Set when Kind is KindText.
	Object json.RawMessage // Set when Kind is KindObject.
}

// Store is a device-local key-value store holding string values.
type Store interface {
	// Get returns the value under key. A missing key is reported as a
	// Value with KindNone, not as an error.
	Get(ctx context.Context, key string) (Value, error)

	// Set stores text under key, overwriting any prior value of any kind.
	Set(ctx context.Context, key, text string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ObjectSetter is implemented by backends that can hold a structured object
// under a key, the way older versions of the app wrote state.
type ObjectSetter interface {
	SetObject(ctx context.Context, key string, obj json.RawMessage) error
}
