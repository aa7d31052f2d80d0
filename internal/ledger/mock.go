package ledger

import (
	"context"
	"sync"

	"github.com/szczypior/szczypior-bot/internal/model"
)

// MockLedger is an in-memory Ledger for tests.
type MockLedger struct {
	mu      sync.Mutex
	entries []model.Entry
	history map[string][]model.UserActivity

	BuildIndexErr error
	RecordErr     error
	HistoryErr    error
}

// NewMockLedger creates an empty mock ledger.
func NewMockLedger() *MockLedger {
	return &MockLedger{history: make(map[string][]model.UserActivity)}
}

// BuildIndex is a no-op for the mock; entries recorded in-memory are always
// indexed.
func (m *MockLedger) BuildIndex(_ context.Context) error {
	return m.BuildIndexErr
}

// Exists reports whether the identity was recorded or seeded.
func (m *MockLedger) Exists(identity model.MessageIdentity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Identity == identity {
			return true
		}
	}
	return false
}

// Record stores the entry unless its identity already exists.
func (m *MockLedger) Record(_ context.Context, entry model.Entry) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Identity == entry.Identity {
			return nil
		}
	}
	m.entries = append(m.entries, entry)
	return nil
}

// UserHistory returns seeded history for the nick.
func (m *MockLedger) UserHistory(_ context.Context, nick string) ([]model.UserActivity, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history[nick], nil
}

// AllActivities returns all seeded history rows.
func (m *MockLedger) AllActivities(_ context.Context) ([]model.UserActivity, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.UserActivity
	for _, acts := range m.history {
		all = append(all, acts...)
	}
	return all, nil
}

// SeedHistory pre-populates the history a nick will see.
func (m *MockLedger) SeedHistory(nick string, activities []model.UserActivity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[nick] = activities
}

// SeedIdentity marks an identity as already recorded.
func (m *MockLedger) SeedIdentity(identity model.MessageIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, model.Entry{Identity: identity})
}

// Entries returns a copy of everything recorded so far.
func (m *MockLedger) Entries() []model.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
