package session

import (
	"context"
	"sync"
	"time"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
)

// MemoryStorage keeps user states in process memory. It is the default
// backend: browsing sessions are cursors into re-fetchable data, so losing
// them on restart is acceptable.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[int64]*UserState
}

// NewMemoryStorage creates an empty in-memory Storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		states: make(map[int64]*UserState),
	}
}

// GetState returns the stored user state or ErrStateNotFound when absent.
func (s *MemoryStorage) GetState(ctx context.Context, userID int64) (*UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return nil, ErrStateNotFound
	}

	return cloneState(state), nil
}

// SetState saves the provided user state.
func (s *MemoryStorage) SetState(ctx context.Context, userID int64, state *UserState) error {
	state.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = cloneState(state)
	return nil
}

// ClearState removes the stored state for the given user.
func (s *MemoryStorage) ClearState(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	return nil
}

// GetAllStates returns a snapshot of every stored user state.
func (s *MemoryStorage) GetAllStates(ctx context.Context) ([]*UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*UserState, 0, len(s.states))
	for _, state := range s.states {
		result = append(result, cloneState(state))
	}

	return result, nil
}

func cloneState(state *UserState) *UserState {
	if state == nil {
		return nil
	}

	copied := *state
	if state.Browsing != nil {
		browsing := *state.Browsing
		browsing.Books = append([]domain.Book(nil), state.Browsing.Books...)
		copied.Browsing = &browsing
	}

	return &copied
}
