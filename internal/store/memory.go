package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"EscapeThePaycheck/internal/model"
)

// MemoryStore keeps everything in process. It is used when no database path
// is configured and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	history  []model.HistoryRecord
	profiles map[string]model.Profile
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]model.Profile), now: time.Now}
}

func (m *MemoryStore) AddHistory(_ context.Context, rec model.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Seq = int64(len(m.history) + 1)
	m.history = append(m.history, rec)
	return nil
}

func (m *MemoryStore) ListHistory(_ context.Context, username string, limit int) ([]model.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HistoryRecord
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].Username != username {
			continue
		}
		out = append(out, m.history[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) HistoryAfter(_ context.Context, seq int64) ([]model.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq < 0 {
		seq = 0
	}
	if seq >= int64(len(m.history)) {
		return nil, nil
	}
	return append([]model.HistoryRecord(nil), m.history[seq:]...), nil
}

func (m *MemoryStore) TopEscapes(_ context.Context, limit int) ([]model.HistoryRecord, error) {
	m.mu.Lock()
	var out []model.HistoryRecord
	for _, rec := range m.history {
		if rec.Escaped {
			out = append(out, rec)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].NetWorth.GreaterThan(out[j].NetWorth) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) GetProfile(_ context.Context, username string) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[username]; ok {
		return p, nil
	}
	return newProfile(username), nil
}

func (m *MemoryStore) ApplyScore(_ context.Context, username string, delta int) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[username]
	if !ok {
		p = newProfile(username)
	}
	p = nextProfile(p, delta, m.now())
	m.profiles[username] = p
	return p, nil
}

func (m *MemoryStore) Close() error { return nil }
