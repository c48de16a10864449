package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
)

const (
	userLockKeyPattern = "session:lock:%d"
	lockTTL            = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that a requested FSM transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStateNotFound indicates that a user state record does not exist.
	ErrStateNotFound = errors.New("user state not found")
	// ErrStateLocked indicates that a concurrent operation already holds the lock.
	ErrStateLocked = errors.New("state is locked, try again later")
	// ErrNoActiveBooks indicates that a browsing action arrived without an
	// active, in-range book list. Stale cursors map here too.
	ErrNoActiveBooks = errors.New("no active book list")
	// ErrEmptyBookList indicates an attempt to start browsing an empty list.
	ErrEmptyBookList = errors.New("cannot browse an empty book list")
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe FSM transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// Machine describes the operations supported by the browsing FSM controller.
type Machine interface {
	// GetState returns the full state record for the user.
	GetState(ctx context.Context, userID int64) (*UserState, error)
	// StartBrowsing enters the browsing state over a non-empty book list,
	// with the cursor at zero.
	StartBrowsing(ctx context.Context, userID int64, books []domain.Book) error
	// Current returns the book under the cursor without changing state.
	Current(ctx context.Context, userID int64) (domain.Book, error)
	// Advance moves the cursor circularly and returns the new current book.
	Advance(ctx context.Context, userID int64) (domain.Book, error)
	// Reset discards the book list and cursor, returning the user to idle.
	Reset(ctx context.Context, userID int64) error
	// GetAllStates returns every persisted user state.
	GetAllStates(ctx context.Context) ([]*UserState, error)
}

// machine is a concrete Machine backed by Storage and optional Redis locking.
type machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client
}

// NewMachine creates a browsing FSM controller. The redis client is optional
// and only used for cross-process user locks.
func NewMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) Machine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

func (m *machine) GetState(ctx context.Context, userID int64) (*UserState, error) {
	return m.storage.GetState(ctx, userID)
}

func (m *machine) GetAllStates(ctx context.Context) ([]*UserState, error) {
	return m.storage.GetAllStates(ctx)
}

func (m *machine) StartBrowsing(ctx context.Context, userID int64, books []domain.Book) error {
	if len(books) == 0 {
		return ErrEmptyBookList
	}

	if err := m.lock(ctx, userID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID)

	current := m.currentStateLocked(ctx, userID)
	if !IsTransitionAllowed(current, StateBrowsing) {
		m.log.Warn("invalid state transition", "user_id", userID, "from", current, "to", StateBrowsing)
		return ErrInvalidTransition
	}

	transitionRecorder(string(current), string(StateBrowsing))

	return m.storage.SetState(ctx, userID, &UserState{
		UserID:       userID,
		CurrentState: StateBrowsing,
		Browsing:     &Browsing{Books: books, Index: 0},
	})
}

func (m *machine) Current(ctx context.Context, userID int64) (domain.Book, error) {
	state, err := m.storage.GetState(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return domain.Book{}, ErrNoActiveBooks
		}
		return domain.Book{}, err
	}

	return bookAtCursor(state)
}

func (m *machine) Advance(ctx context.Context, userID int64) (domain.Book, error) {
	if err := m.lock(ctx, userID); err != nil {
		return domain.Book{}, err
	}
	defer m.unlock(ctx, userID)

	state, err := m.storage.GetState(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return domain.Book{}, ErrNoActiveBooks
		}
		return domain.Book{}, err
	}

	if _, err := bookAtCursor(state); err != nil {
		return domain.Book{}, err
	}

	state.Browsing.Index = (state.Browsing.Index + 1) % len(state.Browsing.Books)
	if err := m.storage.SetState(ctx, userID, state); err != nil {
		return domain.Book{}, err
	}

	return state.Browsing.Books[state.Browsing.Index], nil
}

func (m *machine) Reset(ctx context.Context, userID int64) error {
	if err := m.lock(ctx, userID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID)

	current := m.currentStateLocked(ctx, userID)
	transitionRecorder(string(current), string(StateIdle))

	return m.storage.SetState(ctx, userID, &UserState{
		UserID:       userID,
		CurrentState: StateIdle,
	})
}

func (m *machine) currentStateLocked(ctx context.Context, userID int64) State {
	current := StateIdle

	stored, err := m.storage.GetState(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			m.log.Warn("failed to read current state", "user_id", userID, "error", err)
		}
		return current
	}

	if stored != nil {
		current = stored.CurrentState
	}

	return current
}

// bookAtCursor validates the session and cursor range. Anything out of range
// is reported as "no books" rather than indexed.
func bookAtCursor(state *UserState) (domain.Book, error) {
	if state == nil || state.CurrentState != StateBrowsing || state.Browsing == nil {
		return domain.Book{}, ErrNoActiveBooks
	}

	browsing := state.Browsing
	if len(browsing.Books) == 0 || browsing.Index < 0 || browsing.Index >= len(browsing.Books) {
		return domain.Book{}, ErrNoActiveBooks
	}

	return browsing.Books[browsing.Index], nil
}

func (m *machine) lock(ctx context.Context, userID int64) error {
	if m.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(userLockKeyPattern, userID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		m.log.Error("failed to acquire session lock", "user_id", userID, "error", err)
		return err
	}

	if !acquired {
		m.log.Warn("session lock already held", "user_id", userID)
		return ErrStateLocked
	}

	return nil
}

func (m *machine) unlock(ctx context.Context, userID int64) {
	if m.redisClient == nil {
		return
	}

	key := fmt.Sprintf(userLockKeyPattern, userID)
	if err := m.redisClient.Del(ctx, key).Err(); err != nil {
		m.log.Error("failed to release session lock", "user_id", userID, "error", err)
	}
}
