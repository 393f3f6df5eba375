package session

import (
	"context"
	"encoding/json"
	"sync"

	"hotelsearch/internal/clock"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/service"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. Used when Redis is not configured.
// Sessions are stored encoded so callers never share state.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	clock    clock.Clock
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
		clock:    clk,
	}
}

var _ service.SessionStore = (*MemoryStore)(nil)

func (m *MemoryStore) Create(ctx context.Context) (*service.Session, error) {
	s := service.NewSession(uuid.NewString(), m.clock.Now())
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*service.Session, error) {
	m.mu.RLock()
	raw, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errs.NotFound("session %s not found", id)
	}
	return decode(raw)
}

func (m *MemoryStore) Save(_ context.Context, s *service.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errs.Wrap(err, "encode session")
	}
	m.mu.Lock()
	m.sessions[s.ID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errs.NotFound("session %s not found", id)
	}
	delete(m.sessions, id)
	return nil
}

func decode(raw []byte) (*service.Session, error) {
	var s service.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errs.Wrap(err, "decode session")
	}
	if s.Preferences == nil {
		s.Preferences = service.NewPreferenceState()
	}
	return &s, nil
}
