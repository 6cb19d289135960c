package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/xo-engine/internal/repository/storage"
)

type PreferenceRepository interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, enabled bool) error
}

type dbPreference struct {
	storage     KeyValueStorage
	darkModeKey string
}

func NewPreferenceRepository(storage KeyValueStorage, darkModeKey string) PreferenceRepository {
	return &dbPreference{
		storage:     storage,
		darkModeKey: darkModeKey,
	}
}

// DarkMode is enabled only when the stored value is exactly "true".
func (that *dbPreference) DarkMode(ctx context.Context) (bool, error) {
	value, err := that.storage.Get(ctx, that.darkModeKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to get dark mode: %w", err)
	}

	return value == "true", nil
}

func (that *dbPreference) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := that.storage.Set(ctx, that.darkModeKey, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("failed to set dark mode: %w", err)
	}

	return nil
}
