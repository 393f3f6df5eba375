package service

import (
	"context"
	"sync"
	"time"

	"hotelsearch/internal/errs"
	"hotelsearch/internal/model"
)

type fakeHotelClient struct {
	hotels []model.HotelRecord
	err    error
	calls  []model.SearchCriteria
}

func (f *fakeHotelClient) SearchHotels(_ context.Context, criteria model.SearchCriteria) ([]model.HotelRecord, error) {
	f.calls = append(f.calls, criteria)
	if f.err != nil {
		return nil, f.err
	}
	return f.hotels, nil
}

type fakeGeocoder struct {
	places map[string]model.Coordinates
}

func (f *fakeGeocoder) Resolve(_ context.Context, place string) (model.Coordinates, error) {
	c, ok := f.places[place]
	if !ok {
		return model.Coordinates{}, errs.NotFound("no match for %s", place)
	}
	return c, nil
}

// scriptedAI replays canned completions in order
type scriptedAI struct {
	replies  []ChatMessage
	err      error
	requests []ChatCompletionRequest
}

func (s *scriptedAI) IsEnabled() bool { return true }

func (s *scriptedAI) ChatCompletion(_ context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return nil, errs.New("script exhausted")
	}
	msg := s.replies[0]
	s.replies = s.replies[1:]
	return &ChatCompletionResponse{Choices: []ChatChoice{{Message: msg}}}, nil
}

// mapStore is a minimal SessionStore keeping deep copies
type mapStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	saveErr  error
}

func newMapStore() *mapStore {
	return &mapStore{sessions: map[string]*Session{}}
}

func (m *mapStore) Create(_ context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := NewSession("sess-1", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	m.sessions[s.ID] = s
	return s.Clone()
}

func (m *mapStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errs.NotFound("session %s not found", id)
	}
	return s.Clone()
}

func (m *mapStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c, err := s.Clone()
	if err != nil {
		return err
	}
	m.sessions[s.ID] = c
	return nil
}

func (m *mapStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errs.NotFound("session %s not found", id)
	}
	delete(m.sessions, id)
	return nil
}

func toolCall(id string, kind ToolKind, args string) ToolCall {
	return ToolCall{ID: id, Type: "function", Function: FunctionCall{Name: string(kind), Arguments: args}}
}

func date(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
