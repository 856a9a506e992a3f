package conversation

import (
	"context"
	"sync"
	"time"
)

// DefaultSessionID is used when the caller does not supply one.
const DefaultSessionID = "default_session"

// PendingClarification is set while a clarifying question is outstanding.
type PendingClarification struct {
	Intent Intent `json:"intent"`
	Query  string `json:"query"`
}

// ConversationState is the per-session memory carried across turns. LastPlaceID is the
// resolved anchor for follow-ups and reviews; LastPlaceQuery is the free-text form.
type ConversationState struct {
	LastLang             ResponseLang          `json:"last_lang,omitempty"`
	LastIntent           Intent                `json:"last_intent,omitempty"`
	LastPlaceID          string                `json:"last_place_id,omitempty"`
	LastPlaceQuery       string                `json:"last_place_query,omitempty"`
	LastBootcampID       string                `json:"last_bootcamp_id,omitempty"`
	LastOriginQuery      string                `json:"last_origin_query,omitempty"`
	LastDestinationQuery string                `json:"last_destination_query,omitempty"`
	LastOriginID         string                `json:"last_origin_id,omitempty"`
	LastDestinationID    string                `json:"last_destination_id,omitempty"`
	Pending              *PendingClarification `json:"pending,omitempty"`
	UpdatedAt            time.Time             `json:"updated_at,omitempty"`
}

func (s ConversationState) clone() ConversationState {
	if s.Pending != nil {
		p := *s.Pending
		s.Pending = &p
	}
	return s
}

// StateStore holds conversation state keyed by session id. Get returns a fresh state for
// unknown sessions; Set overwrites and stamps UpdatedAt.
type StateStore interface {
	Get(ctx context.Context, sessionID string) (ConversationState, error)
	Set(ctx context.Context, sessionID string, state ConversationState) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStateStore is a process-local StateStore with no expiry.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]ConversationState
	now    func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[string]ConversationState),
		now:    time.Now,
	}
}

func (s *MemoryStateStore) Get(_ context.Context, sessionID string) (ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[sessionID]
	if !ok {
		return ConversationState{}, nil
	}
	return state.clone(), nil
}

func (s *MemoryStateStore) Set(_ context.Context, sessionID string, state ConversationState) error {
	state = state.clone()
	state.UpdatedAt = s.now().UTC()
	s.mu.Lock()
	s.states[sessionID] = state
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}
