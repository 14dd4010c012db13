package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore implements Store in process memory. It never fails on its own;
// FailNext can be used to inject a backend error into the next call.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]Value
	writes int
	fail   error
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string]Value)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (Value, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return Value{}, err
	}
	v, ok := m.values[key]
	if !ok {
		return Value{Kind: KindNone}, nil
	}
	if v.Kind == KindObject {
		v.Object = append(json.RawMessage(nil), v.Object...)
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.values[key] = Value{Kind: KindText, Text: text}
	m.writes++
	return nil
}

// SetObject stores obj under key as a legacy structured value.
func (m *MemoryStore) SetObject(ctx context.Context, key string, obj json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.values[key] = Value{Kind: KindObject, Object: append(json.RawMessage(nil), obj...)}
	m.writes++
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Writes returns how many successful Set/SetObject calls have been made.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailNext makes the next Get, Set, SetObject or Delete return err.
func (m *MemoryStore) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *MemoryStore) takeFailure() error {
	err := m.fail
	m.fail = nil
	return err
}
