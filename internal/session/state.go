package session

import (
	"time"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
)

// State represents a finite-state machine state of a user conversation.
type State string

const (
	// StateIdle indicates that no genre browsing is in progress.
	StateIdle State = "idle"
	// StateBrowsing indicates that the user is paging through a book list.
	StateBrowsing State = "browsing"
	// StateError indicates that the conversation requires recovery.
	StateError State = "error"
)

// Browsing is the ephemeral per-user cursor over a fetched book list. It is
// re-fetchable data, so losing it on restart is acceptable.
type Browsing struct {
	Books []domain.Book `json:"books"`
	Index int           `json:"index"`
}

// UserState captures the current FSM state for a Telegram user.
type UserState struct {
	UserID       int64     `json:"user_id"`
	CurrentState State     `json:"current_state"`
	Browsing     *Browsing `json:"browsing,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
