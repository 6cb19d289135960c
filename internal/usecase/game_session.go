package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/internal/tictactoe"
)

type snapshotRepo interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Load(ctx context.Context) (*entity.Snapshot, error)
	Delete(ctx context.Context) error
}

type preferenceRepo interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, enabled bool) error
}

// GameSession is the single writer of the game: every call runs to completion
// before the next one starts, and each successful change is saved right away.
type GameSession struct {
	logger *slog.Logger

	mu     sync.Mutex
	engine *tictactoe.Engine

	subscribersMu sync.RWMutex
	subscribers   []tictactoe.Notifier

	snapshotRepo   snapshotRepo
	preferenceRepo preferenceRepo
}

func NewGameSession(
	logger *slog.Logger,
	snapshotRepo snapshotRepo,
	preferenceRepo preferenceRepo,
	size int,
	opts ...tictactoe.Option,
) (*GameSession, error) {
	session := &GameSession{
		logger: logger,

		snapshotRepo:   snapshotRepo,
		preferenceRepo: preferenceRepo,
	}

	engine, err := tictactoe.NewEngine(size, append(opts, tictactoe.WithNotifier(session))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	session.engine = engine

	return session, nil
}

// Subscribe registers a notifier for every engine notification. Notifiers are
// called while the session is locked and must not call back into it.
func (that *GameSession) Subscribe(notifier tictactoe.Notifier) {
	that.subscribersMu.Lock()
	defer that.subscribersMu.Unlock()

	that.subscribers = append(that.subscribers, notifier)
}

// Notify fans engine notifications out to the subscribers.
func (that *GameSession) Notify(notification entity.Notification) {
	that.subscribersMu.RLock()
	defer that.subscribersMu.RUnlock()

	for _, subscriber := range that.subscribers {
		subscriber.Notify(notification)
	}
}

// Load restores the saved game. A missing record keeps the fresh game; a
// corrupt one is logged and replaced by the default game.
func (that *GameSession) Load(ctx context.Context) error {
	log := that.logger.With("method", "Load")

	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot, err := that.snapshotRepo.Load(ctx)

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		log.Debug("no saved game, starting fresh")
		return nil
	case errors.Is(err, apperror.ErrCorruptSnapshot):
		log.Warn("saved game is corrupt, starting fresh", "error", err)
		that.engine.ClearAll()
		return nil
	case err != nil:
		return fmt.Errorf("failed to load game: %w", err)
	}

	if err = that.engine.Restore(snapshot); err != nil {
		log.Warn("saved game is invalid, starting fresh", "error", err)
		return nil
	}

	log.Info("game restored", "size", that.engine.Size(), "status", that.engine.Status())

	return nil
}

func (that *GameSession) MakeMove(ctx context.Context, cell int) (entity.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.engine.ApplyMove(cell); err != nil {
		return that.engine.State(), fmt.Errorf("failed make move: %w", err)
	}

	return that.save(ctx)
}

func (that *GameSession) Reset(ctx context.Context) (entity.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine.Reset()

	return that.save(ctx)
}

func (that *GameSession) Resize(ctx context.Context, size int) (entity.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if size == that.engine.Size() {
		return that.engine.State(), nil
	}

	if err := that.engine.Resize(size); err != nil {
		return that.engine.State(), fmt.Errorf("failed resize: %w", err)
	}

	return that.save(ctx)
}

func (that *GameSession) ClearScores(ctx context.Context) (entity.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine.ClearScores()

	return that.save(ctx)
}

// ClearAll returns to the default game and forgets the saved one. The display
// preference is kept.
func (that *GameSession) ClearAll(ctx context.Context) (entity.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine.ClearAll()

	if err := that.snapshotRepo.Delete(ctx); err != nil {
		return that.engine.State(), fmt.Errorf("failed clear saved game: %w", err)
	}

	return that.engine.State(), nil
}

// Tick advances the round timer. Ticks are not saved: the stored first-move
// time is enough to recompute elapsed time after a reload.
func (that *GameSession) Tick(now time.Time) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.engine.Tick(now)
}

func (that *GameSession) State() entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.engine.State()
}

func (that *GameSession) HasGameStarted() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.engine.HasGameStarted()
}

func (that *GameSession) DarkMode(ctx context.Context) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.preferenceRepo.DarkMode(ctx)
}

func (that *GameSession) SetDarkMode(ctx context.Context, enabled bool) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.preferenceRepo.SetDarkMode(ctx, enabled)
}

func (that *GameSession) ToggleDarkMode(ctx context.Context) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	enabled, err := that.preferenceRepo.DarkMode(ctx)
	if err != nil {
		return false, err
	}

	if err = that.preferenceRepo.SetDarkMode(ctx, !enabled); err != nil {
		return enabled, err
	}

	return !enabled, nil
}

// save writes the current snapshot. The caller holds mu.
func (that *GameSession) save(ctx context.Context) (entity.State, error) {
	state := that.engine.State()

	if err := that.snapshotRepo.Save(ctx, that.engine.Snapshot()); err != nil {
		that.logger.Error("failed to save game", "error", err)
		return state, fmt.Errorf("failed save game: %w", err)
	}

	return state, nil
}
