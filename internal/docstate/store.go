// Package docstate keeps small per-document values, such as the persistent
// word list, the way an editor keeps per-view settings.
package docstate

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Store is document-scoped key/value storage. Values are strings or ints;
// reading a missing key returns the supplied default.
type Store interface {
	String(ctx context.Context, key, def string) (string, error)
	SetString(ctx context.Context, key, value string) error
	Int(ctx context.Context, key string, def int) (int, error)
	SetInt(ctx context.Context, key string, value int) error
	Erase(ctx context.Context, key string) error
}

// Memory is a Store held in memory. The zero value is ready to use.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// String implements Store.
func (m *Memory) String(_ context.Context, key, def string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetString implements Store.
func (m *Memory) SetString(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// Int implements Store.
func (m *Memory) Int(ctx context.Context, key string, def int) (int, error) {
	s, err := m.String(ctx, key, "")
	if err != nil || s == "" {
		return def, err
	}
	return parseInt(key, s)
}

// SetInt implements Store.
func (m *Memory) SetInt(ctx context.Context, key string, value int) error {
	return m.SetString(ctx, key, strconv.Itoa(value))
}

// Erase implements Store.
func (m *Memory) Erase(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

func parseInt(key, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("value of %q is not an int: %w", key, err)
	}
	return n, nil
}
