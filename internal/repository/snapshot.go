package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/internal/repository/storage"
)

// legacyBoardSize is the size of records written before boards could be resized.
const legacyBoardSize = 3

type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Load(ctx context.Context) (*entity.Snapshot, error)
	Delete(ctx context.Context) error
}

// snapshotRecord accepts both the current record and the older camelCase
// record that carried no size or timer.
type snapshotRecord struct {
	Board         []entity.Cell      `json:"board"`
	CurrentPlayer *entity.Player     `json:"current_player"`
	GameActive    *bool              `json:"game_active"`
	Scores        *entity.Scores     `json:"scores"`
	BoardSize     *int               `json:"board_size"`
	Timer         *entity.TimerState `json:"timer"`

	LegacyCurrentPlayer *entity.Player `json:"currentPlayer"`
	LegacyGameActive    *bool          `json:"gameActive"`
}

type dbSnapshot struct {
	storage KeyValueStorage
	key     string
}

func NewSnapshotRepository(storage KeyValueStorage, key string) SnapshotRepository {
	return &dbSnapshot{
		storage: storage,
		key:     key,
	}
}

func (that *dbSnapshot) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err = that.storage.Set(ctx, that.key, string(snapshotJSON)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Load returns apperror.ErrNotFound when nothing is stored and
// apperror.ErrCorruptSnapshot when the stored record can't be decoded.
func (that *dbSnapshot) Load(ctx context.Context) (*entity.Snapshot, error) {
	response, err := that.storage.Get(ctx, that.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("snapshot %w", apperror.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var record snapshotRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptSnapshot, err)
	}

	return record.snapshot(), nil
}

func (that *dbSnapshot) Delete(ctx context.Context) error {
	if err := that.storage.Delete(ctx, that.key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

// snapshot fills the fields older records did not carry.
func (that *snapshotRecord) snapshot() *entity.Snapshot {
	snapshot := &entity.Snapshot{
		Board:         that.Board,
		CurrentPlayer: entity.PlayerX,
		GameActive:    true,
	}

	switch {
	case that.BoardSize != nil:
		snapshot.BoardSize = *that.BoardSize
	case that.Board != nil:
		snapshot.BoardSize = squareSide(len(that.Board))
	default:
		snapshot.BoardSize = legacyBoardSize
	}

	if snapshot.Board == nil && snapshot.BoardSize > 0 {
		snapshot.Board = make([]entity.Cell, snapshot.BoardSize*snapshot.BoardSize)
	}

	if player := firstNonNil(that.CurrentPlayer, that.LegacyCurrentPlayer); player != nil && *player != "" {
		snapshot.CurrentPlayer = *player
	}

	if active := firstNonNil(that.GameActive, that.LegacyGameActive); active != nil {
		snapshot.GameActive = *active
	}

	if that.Scores != nil {
		snapshot.Scores = *that.Scores
	}

	if that.Timer != nil {
		snapshot.Timer = *that.Timer
	}

	return snapshot
}

// squareSide returns n's integer square root, or 0 when n is not a perfect square.
func squareSide(n int) int {
	side := int(math.Sqrt(float64(n)))
	if side*side != n {
		return 0
	}

	return side
}

func firstNonNil[T any](values ...*T) *T {
	for _, value := range values {
		if value != nil {
			return value
		}
	}

	return nil
}
