package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBooks(ids ...string) []domain.Book {
	books := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		books = append(books, domain.Book{
			ID:         id,
			VolumeInfo: domain.VolumeInfo{Title: "book " + id},
		})
	}
	return books
}

func TestMachine_StartBrowsing(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	err := machine.StartBrowsing(ctx, 1, testBooks("a", "b", "c"))
	require.NoError(t, err)

	state, err := machine.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateBrowsing, state.CurrentState)
	require.NotNil(t, state.Browsing)
	assert.Equal(t, 0, state.Browsing.Index)
	assert.Len(t, state.Browsing.Books, 3)
}

func TestMachine_StartBrowsing_EmptyList(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	err := machine.StartBrowsing(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrEmptyBookList)

	_, err = machine.GetState(ctx, 1)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestMachine_StartBrowsing_ReplacesActiveList(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	require.NoError(t, machine.StartBrowsing(ctx, 1, testBooks("a", "b")))
	_, err := machine.Advance(ctx, 1)
	require.NoError(t, err)

	// picking a new genre mid-browse starts over at the first book
	require.NoError(t, machine.StartBrowsing(ctx, 1, testBooks("x", "y")))

	current, err := machine.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", current.ID)
}

func TestMachine_Current_NoSession(t *testing.T) {
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	_, err := machine.Current(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoActiveBooks)
}

func TestMachine_Current_AfterReset(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	require.NoError(t, machine.StartBrowsing(ctx, 1, testBooks("a")))
	require.NoError(t, machine.Reset(ctx, 1))

	_, err := machine.Current(ctx, 1)
	assert.ErrorIs(t, err, ErrNoActiveBooks)

	_, err = machine.Advance(ctx, 1)
	assert.ErrorIs(t, err, ErrNoActiveBooks)
}

func TestMachine_Advance_WrapsAround(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)
	require.NoError(t, machine.StartBrowsing(ctx, 1, testBooks("a", "b", "c")))

	expected := []string{"b", "c", "a", "b"}
	for _, want := range expected {
		book, err := machine.Advance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, want, book.ID)
	}
}

func TestMachine_Advance_SingleBook(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)
	require.NoError(t, machine.StartBrowsing(ctx, 1, testBooks("only")))

	book, err := machine.Advance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "only", book.ID)
}

func TestMachine_Advance_StaleCursor(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	machine := NewMachine(storage, testLogger(), nil)

	// a cursor past the end of the list must not be indexed
	require.NoError(t, storage.SetState(ctx, 1, &UserState{
		UserID:       1,
		CurrentState: StateBrowsing,
		Browsing:     &Browsing{Books: testBooks("a"), Index: 5},
	}))

	_, err := machine.Advance(ctx, 1)
	assert.ErrorIs(t, err, ErrNoActiveBooks)
}

func TestMachine_Reset_WithoutSession(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	require.NoError(t, machine.Reset(ctx, 1))

	state, err := machine.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, state.CurrentState)
	assert.Nil(t, state.Browsing)
}

func TestMachine_IsolatesUsers(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	require.NoError(t, machine.StartBrowsing(ctx, 1, testBooks("a", "b")))
	require.NoError(t, machine.StartBrowsing(ctx, 2, testBooks("x")))

	_, err := machine.Advance(ctx, 1)
	require.NoError(t, err)

	current, err := machine.Current(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "x", current.ID)
}

func TestIsTransitionAllowed(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		allowed bool
	}{
		{"idle to browsing", StateIdle, StateBrowsing, true},
		{"browsing to browsing", StateBrowsing, StateBrowsing, true},
		{"browsing to idle", StateBrowsing, StateIdle, true},
		{"error to idle", StateError, StateIdle, true},
		{"any to error", StateBrowsing, StateError, true},
		{"error to browsing", StateError, StateBrowsing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, IsTransitionAllowed(tt.from, tt.to))
		})
	}
}
