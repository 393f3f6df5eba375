package service

import (
	"context"
	"encoding/json"
	"time"

	"hotelsearch/internal/model"
)

// SessionStore persists conversation sessions. Load returns an error marked
// errs.ErrNotFound for unknown or expired ids.
type SessionStore interface {
	Create(ctx context.Context) (*Session, error)
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Session is the per-conversation state: preferences, transcript and the
// results of the last search.
type Session struct {
	ID          string                    `json:"id"`
	Preferences *PreferenceState          `json:"preferences"`
	History     []ChatMessage             `json:"history"`
	LastResults []model.RankedHotelRecord `json:"last_results,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// NewSession returns an empty session
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:          id,
		Preferences: NewPreferenceState(),
		History:     []ChatMessage{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone deep-copies the session so a failed turn can be discarded
func (s *Session) Clone() (*Session, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var c Session
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.Preferences == nil {
		c.Preferences = NewPreferenceState()
	}
	return &c, nil
}

// trimHistory keeps at most max messages, cutting only at a user message so
// tool results never lose the assistant call they answer.
func trimHistory(history []ChatMessage, max int) []ChatMessage {
	if max <= 0 || len(history) <= max {
		return history
	}
	start := len(history) - max
	for start < len(history) && history[start].Role != RoleUser {
		start++
	}
	if start == len(history) {
		return history
	}
	return append([]ChatMessage(nil), history[start:]...)
}
