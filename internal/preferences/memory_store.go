package preferences

import (
	"context"
	"sync"

	"github.com/tphakala/skydash/internal/weather"
)

// MemoryStore keeps preferences in process memory. Used by the one-shot
// report command and tests.
type MemoryStore struct {
	mu       sync.Mutex
	raw      map[string]string
	defaults Preferences
	// FailWrites makes every save return this error when set.
	FailWrites error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(defaults Preferences) *MemoryStore {
	return &MemoryStore{raw: make(map[string]string), defaults: defaults}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context) (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decode(m.raw, m.defaults), nil
}

// SaveUnits implements Store.
func (m *MemoryStore) SaveUnits(_ context.Context, units weather.Units) error {
	return m.put(KeyUnits, string(units))
}

// SaveTheme implements Store.
func (m *MemoryStore) SaveTheme(_ context.Context, theme Theme) error {
	return m.put(KeyTheme, string(theme))
}

// Raw returns the stored value for key.
func (m *MemoryStore) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.raw[key]
	return v, ok
}

func (m *MemoryStore) put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.raw[key] = value
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
