package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/xo-engine/internal/config"
	"github.com/rocketscienceinc/xo-engine/internal/repository"
	"github.com/rocketscienceinc/xo-engine/internal/repository/storage"
	"github.com/rocketscienceinc/xo-engine/internal/tictactoe"
	"github.com/rocketscienceinc/xo-engine/internal/tui"
	"github.com/rocketscienceinc/xo-engine/internal/usecase"
	"github.com/rocketscienceinc/xo-engine/transport/rest"
	"github.com/rocketscienceinc/xo-engine/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage driver")
)

type keyValueStorage interface {
	repository.KeyValueStorage
	Close() error
}

type ticker interface {
	Tick(now time.Time) bool
}

// RunApp - runs the websocket and REST servers until a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kvStorage, err := openStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = kvStorage.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	session, err := newGameSession(ctx, logger, conf, kvStorage)
	if err != nil {
		return err
	}

	wsServer := websocket.New(logger, session, conf.Game.MaxSize)
	session.Subscribe(wsServer)

	go runTicker(ctx, session, conf.Game.TickInterval)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, session)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// RunTUI - runs the terminal game until the player quits or a signal arrives.
func RunTUI(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "tui")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kvStorage, err := openStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = kvStorage.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	session, err := newGameSession(ctx, logger, conf, kvStorage)
	if err != nil {
		return err
	}

	return tui.Run(ctx, session, tui.Options{
		MaxSize:      conf.Game.MaxSize,
		TickInterval: conf.Game.TickInterval,
	})
}

func openStorage(ctx context.Context, conf *config.Config) (keyValueStorage, error) {
	switch conf.Storage.Driver {
	case config.StorageRedis:
		if conf.Redis.Host == "" || conf.Redis.Port == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return redisStorage, nil

	case config.StorageSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(ctx, conf.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		return sqliteStorage, nil

	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage.Driver)
}

func newGameSession(
	ctx context.Context,
	logger *slog.Logger,
	conf *config.Config,
	kvStorage repository.KeyValueStorage,
) (*usecase.GameSession, error) {
	snapshotRepo := repository.NewSnapshotRepository(kvStorage, conf.Game.StateKey)
	preferenceRepo := repository.NewPreferenceRepository(kvStorage, conf.Game.DarkModeKey)

	session, err := usecase.NewGameSession(logger, snapshotRepo, preferenceRepo, conf.Game.DefaultSize,
		tictactoe.WithDefaultSize(conf.Game.DefaultSize))
	if err != nil {
		return nil, err
	}

	if err = session.Load(ctx); err != nil {
		return nil, fmt.Errorf("could not load game: %w", err)
	}

	return session, nil
}

// runTicker drives the round timer until ctx is done.
func runTicker(ctx context.Context, session ticker, interval time.Duration) {
	clock := time.NewTicker(interval)
	defer clock.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-clock.C:
			session.Tick(now)
		}
	}
}
