package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

const minBoardSize = 3

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat  string  `yaml:"log-format" env:"LOG_FORMAT" env-default:"json"`
	LogFile    string  `yaml:"log-file" env:"LOG_FILE"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    Storage `yaml:"storage"`
	Redis      Redis   `yaml:"redis"`
	Game       Game    `yaml:"game"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"./xo.db"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	DefaultSize  int           `yaml:"default-size" env:"GAME_DEFAULT_SIZE" env-default:"3"`
	MaxSize      int           `yaml:"max-size" env:"GAME_MAX_SIZE" env-default:"10"`
	TickInterval time.Duration `yaml:"tick-interval" env:"GAME_TICK_INTERVAL" env-default:"1s"`
	StateKey     string        `yaml:"state-key" env:"GAME_STATE_KEY" env-default:"xoGameState"`
	DarkModeKey  string        `yaml:"dark-mode-key" env:"GAME_DARK_MODE_KEY" env-default:"darkMode"`
}

// MustLoad - load all configurations in config.yml file, or from the environment when there is no file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Game.DefaultSize < minBoardSize {
		return fmt.Errorf("%w: game.default-size %d is below %d", ErrInvalidConfig, that.Game.DefaultSize, minBoardSize)
	}

	if that.Game.MaxSize < that.Game.DefaultSize {
		return fmt.Errorf("%w: game.max-size %d is below game.default-size %d",
			ErrInvalidConfig, that.Game.MaxSize, that.Game.DefaultSize)
	}

	if that.Game.TickInterval <= 0 {
		return fmt.Errorf("%w: game.tick-interval must be positive", ErrInvalidConfig)
	}

	if !slices.Contains([]string{StorageRedis, StorageSQLite, StorageMemory}, that.Storage.Driver) {
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, that.Storage.Driver)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
