package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/internal/repository"
	"github.com/rocketscienceinc/xo-engine/internal/repository/storage"
	"github.com/rocketscienceinc/xo-engine/internal/tictactoe"
)

const (
	stateKey    = "xoGameState"
	darkModeKey = "darkMode"
)

var errRedisDown = errors.New("redis down")

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	session  *GameSession
	memory   *storage.MemoryStorage
	snapshot repository.SnapshotRepository
	now      *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	memory := storage.NewMemoryStorage()
	now := testNow

	snapshotRepo := repository.NewSnapshotRepository(memory, stateKey)
	preferenceRepo := repository.NewPreferenceRepository(memory, darkModeKey)

	session, err := NewGameSession(testLogger(), snapshotRepo, preferenceRepo, 3,
		tictactoe.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	return &fixture{
		session:  session,
		memory:   memory,
		snapshot: snapshotRepo,
		now:      &now,
	}
}

func (that *fixture) reload(t *testing.T) *GameSession {
	t.Helper()

	session, err := NewGameSession(testLogger(), that.snapshot,
		repository.NewPreferenceRepository(that.memory, darkModeKey), 3,
		tictactoe.WithClock(func() time.Time { return *that.now }))
	require.NoError(t, err)
	require.NoError(t, session.Load(context.Background()))

	return session
}

func TestNewGameSession(t *testing.T) {
	_, err := NewGameSession(testLogger(), &mockSnapshotRepo{}, &mockPreferenceRepo{}, 1)

	require.ErrorIs(t, err, apperror.ErrInvalidSize)
}

func TestGameSession_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Legal move is saved immediately", func(t *testing.T) {
		// Given: a fresh session
		fx := newFixture(t)

		// When: X plays the centre
		state, err := fx.session.MakeMove(ctx, 4)
		require.NoError(t, err)

		// Then: the saved snapshot already holds the move
		saved, err := fx.snapshot.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.MarkX, saved.Board[4])
		assert.Equal(t, entity.PlayerO, saved.CurrentPlayer)
		assert.Equal(t, testNow.UnixMilli(), saved.Timer.StartedAt)
		assert.Equal(t, entity.PlayerO, state.CurrentPlayer)
	})

	t.Run("Illegal move writes nothing", func(t *testing.T) {
		// Given: a session with a mock repository
		snapshotRepoMock := &mockSnapshotRepo{}
		session, err := NewGameSession(testLogger(), snapshotRepoMock, &mockPreferenceRepo{}, 3)
		require.NoError(t, err)

		// When: playing outside the board
		_, err = session.MakeMove(ctx, 42)

		// Then: the move is rejected and Save is never called
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		snapshotRepoMock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Save failure is returned", func(t *testing.T) {
		// Given: a repository that can't save
		snapshotRepoMock := &mockSnapshotRepo{}
		snapshotRepoMock.On("Save", mock.Anything, mock.AnythingOfType("*entity.Snapshot")).
			Return(errRedisDown).
			Once()

		session, err := NewGameSession(testLogger(), snapshotRepoMock, &mockPreferenceRepo{}, 3)
		require.NoError(t, err)

		// When: making a legal move
		state, err := session.MakeMove(ctx, 0)

		// Then: the storage error surfaces, the move itself stands
		require.ErrorIs(t, err, errRedisDown)
		assert.Equal(t, entity.MarkX, state.Board[0])
		snapshotRepoMock.AssertExpectations(t)
	})
}

func TestGameSession_Persistence(t *testing.T) {
	ctx := context.Background()

	t.Run("Reload restores the same observable state", func(t *testing.T) {
		// Given: a won round, then a round in progress on a 4x4 board
		fx := newFixture(t)
		for _, cell := range []int{0, 3, 1, 4, 2} {
			_, err := fx.session.MakeMove(ctx, cell)
			require.NoError(t, err)
		}
		_, err := fx.session.Resize(ctx, 4)
		require.NoError(t, err)
		_, err = fx.session.MakeMove(ctx, 5)
		require.NoError(t, err)

		// When: a new session loads the saved game
		reloaded := fx.reload(t)

		// Then: the state matches
		assert.Equal(t, fx.session.State(), reloaded.State())
		assert.Equal(t, 4, reloaded.State().Size)
	})

	t.Run("Scores survive reset and reload", func(t *testing.T) {
		fx := newFixture(t)
		for _, cell := range []int{0, 3, 1, 4, 2} {
			_, err := fx.session.MakeMove(ctx, cell)
			require.NoError(t, err)
		}

		_, err := fx.session.Reset(ctx)
		require.NoError(t, err)

		reloaded := fx.reload(t)
		assert.Equal(t, entity.Scores{X: 1}, reloaded.State().Scores)
		assert.False(t, reloaded.HasGameStarted())
	})

	t.Run("Elapsed time follows the clock across a reload", func(t *testing.T) {
		// Given: a move made at testNow
		fx := newFixture(t)
		_, err := fx.session.MakeMove(ctx, 0)
		require.NoError(t, err)

		// When: the game is reloaded 90 seconds later and ticked
		*fx.now = testNow.Add(90 * time.Second)
		reloaded := fx.reload(t)
		reloaded.Tick(*fx.now)

		// Then: elapsed counts from the first move
		assert.Equal(t, 90, reloaded.State().ElapsedSeconds)
	})

	t.Run("Tick is not saved", func(t *testing.T) {
		snapshotRepoMock := &mockSnapshotRepo{}
		snapshotRepoMock.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		session, err := NewGameSession(testLogger(), snapshotRepoMock, &mockPreferenceRepo{}, 3,
			tictactoe.WithClock(func() time.Time { return testNow }))
		require.NoError(t, err)

		_, err = session.MakeMove(ctx, 0)
		require.NoError(t, err)

		assert.True(t, session.Tick(testNow.Add(3*time.Second)))
		snapshotRepoMock.AssertNumberOfCalls(t, "Save", 1)
	})
}

func TestGameSession_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Nothing saved keeps the fresh game", func(t *testing.T) {
		fx := newFixture(t)

		require.NoError(t, fx.session.Load(ctx))

		assert.Equal(t, 3, fx.session.State().Size)
		assert.False(t, fx.session.HasGameStarted())
	})

	t.Run("Undecodable record falls back to defaults", func(t *testing.T) {
		// Given: garbage under the state key
		fx := newFixture(t)
		require.NoError(t, fx.memory.Set(ctx, stateKey, "]["))

		// When: loading
		err := fx.session.Load(ctx)

		// Then: no error and a fresh game
		require.NoError(t, err)
		assert.Equal(t, entity.StatusActive, fx.session.State().Status)
		assert.False(t, fx.session.HasGameStarted())
	})

	t.Run("Invalid record falls back to defaults", func(t *testing.T) {
		fx := newFixture(t)
		require.NoError(t, fx.memory.Set(ctx, stateKey, `{"board":["X","Q","","","","","","",""],"board_size":3}`))

		require.NoError(t, fx.session.Load(ctx))

		assert.Equal(t, make([]entity.Cell, 9), fx.session.State().Board)
	})

	t.Run("Legacy record is playable", func(t *testing.T) {
		// Given: a record from before resizable boards
		fx := newFixture(t)
		legacy := `{"board":["X","","","","O","","","",""],"currentPlayer":"X","gameActive":true,"scores":{"X":5,"O":2}}`
		require.NoError(t, fx.memory.Set(ctx, stateKey, legacy))

		// When: loading and moving
		require.NoError(t, fx.session.Load(ctx))
		state, err := fx.session.MakeMove(ctx, 8)

		// Then: the old scores and marks are kept
		require.NoError(t, err)
		assert.Equal(t, entity.Scores{X: 5, O: 2}, state.Scores)
		assert.Equal(t, entity.MarkO, state.Board[4])
		assert.Equal(t, entity.MarkX, state.Board[8])
	})

	t.Run("Storage failure is returned", func(t *testing.T) {
		snapshotRepoMock := &mockSnapshotRepo{}
		snapshotRepoMock.On("Load", mock.Anything).Return(nil, errRedisDown).Once()

		session, err := NewGameSession(testLogger(), snapshotRepoMock, &mockPreferenceRepo{}, 3)
		require.NoError(t, err)

		err = session.Load(ctx)

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameSession_Resize(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid size writes nothing", func(t *testing.T) {
		snapshotRepoMock := &mockSnapshotRepo{}
		session, err := NewGameSession(testLogger(), snapshotRepoMock, &mockPreferenceRepo{}, 3)
		require.NoError(t, err)

		_, err = session.Resize(ctx, 2)

		require.ErrorIs(t, err, apperror.ErrInvalidSize)
		snapshotRepoMock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Same size writes nothing", func(t *testing.T) {
		snapshotRepoMock := &mockSnapshotRepo{}
		session, err := NewGameSession(testLogger(), snapshotRepoMock, &mockPreferenceRepo{}, 3)
		require.NoError(t, err)

		_, err = session.Resize(ctx, 3)

		require.NoError(t, err)
		snapshotRepoMock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestGameSession_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("ClearScores is saved", func(t *testing.T) {
		fx := newFixture(t)
		for _, cell := range []int{0, 3, 1, 4, 2} {
			_, err := fx.session.MakeMove(ctx, cell)
			require.NoError(t, err)
		}

		_, err := fx.session.ClearScores(ctx)
		require.NoError(t, err)

		saved, err := fx.snapshot.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.Scores{}, saved.Scores)
	})

	t.Run("ClearAll deletes the saved game and keeps dark mode", func(t *testing.T) {
		// Given: a saved game and dark mode on
		fx := newFixture(t)
		_, err := fx.session.Resize(ctx, 5)
		require.NoError(t, err)
		_, err = fx.session.MakeMove(ctx, 0)
		require.NoError(t, err)
		require.NoError(t, fx.session.SetDarkMode(ctx, true))

		// When: clearing all data
		state, err := fx.session.ClearAll(ctx)
		require.NoError(t, err)

		// Then: the saved game is gone, the preference is not
		_, err = fx.snapshot.Load(ctx)
		require.ErrorIs(t, err, apperror.ErrNotFound)

		enabled, err := fx.session.DarkMode(ctx)
		require.NoError(t, err)
		assert.True(t, enabled)

		assert.Equal(t, 3, state.Size)
		assert.Equal(t, entity.Scores{}, state.Scores)
	})
}

func TestGameSession_DarkMode(t *testing.T) {
	ctx := context.Background()

	t.Run("Toggle flips and stores the preference", func(t *testing.T) {
		fx := newFixture(t)

		enabled, err := fx.session.ToggleDarkMode(ctx)
		require.NoError(t, err)
		assert.True(t, enabled)

		raw, err := fx.memory.Get(ctx, darkModeKey)
		require.NoError(t, err)
		assert.Equal(t, "true", raw)

		enabled, err = fx.session.ToggleDarkMode(ctx)
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("Toggle reports a read failure", func(t *testing.T) {
		preferenceRepoMock := &mockPreferenceRepo{}
		preferenceRepoMock.On("DarkMode", mock.Anything).Return(false, errRedisDown).Once()

		session, err := NewGameSession(testLogger(), &mockSnapshotRepo{}, preferenceRepoMock, 3)
		require.NoError(t, err)

		_, err = session.ToggleDarkMode(ctx)

		require.ErrorIs(t, err, errRedisDown)
		preferenceRepoMock.AssertNotCalled(t, "SetDarkMode", mock.Anything, mock.Anything)
	})
}

func TestGameSession_Notifications(t *testing.T) {
	ctx := context.Background()

	// Given: a subscribed notifier
	fx := newFixture(t)
	notifier := &recordingNotifier{}
	fx.session.Subscribe(notifier)

	// When: a legal and an illegal move
	_, err := fx.session.MakeMove(ctx, 0)
	require.NoError(t, err)
	_, err = fx.session.MakeMove(ctx, 0)
	require.Error(t, err)

	// Then: both reach the subscriber in order
	require.Len(t, notifier.notifications, 2)
	assert.Equal(t, entity.KindState, notifier.notifications[0].Kind)
	assert.True(t, notifier.notifications[1].IsIllegalMove())
}

func TestGameSession_Concurrent(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	// When: moves and ticks race
	var wg sync.WaitGroup
	for cell := 0; cell < 9; cell++ {
		cell := cell
		wg.Add(2)

		go func() {
			defer wg.Done()
			_, _ = fx.session.MakeMove(ctx, cell)
		}()

		go func() {
			defer wg.Done()
			fx.session.Tick(testNow.Add(time.Duration(cell) * time.Second))
		}()
	}
	wg.Wait()

	// Then: every mark on the board was saved consistently
	state := fx.session.State()
	saved, err := fx.snapshot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Board, saved.Board)
	assert.NotEqual(t, entity.StatusActive, state.Status)
}
