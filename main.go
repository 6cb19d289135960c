package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/xo-engine/internal"
	"github.com/rocketscienceinc/xo-engine/internal/config"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "xo",
	Short: "XO - tic-tac-toe on any board size",
	Long: `XO is a two-player tic-tac-toe game on an N×N board where three in a row wins.
Scores, the round timer and the board survive restarts.

Available commands:
  play   - Play in the terminal
  serve  - Serve the game over WebSocket and REST`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over WebSocket and REST",
	RunE: func(*cobra.Command, []string) error {
		conf := initConfig()
		logger := initLogger(conf, os.Stdout)

		if err := app.RunApp(logger, conf); err != nil {
			return fmt.Errorf("app run failed: %w", err)
		}

		return nil
	},
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play XO in the terminal.

Controls:
  Arrows/hjkl - Move the cursor
  Enter/Space - Place a mark
  R           - New round
  +/-         - Bigger/smaller board
  C           - Clear scores
  X           - Clear all saved data
  D           - Toggle dark mode
  Q/Ctrl+C    - Quit`,
	RunE: func(*cobra.Command, []string) error {
		conf := initConfig()

		logOutput, closeLog, err := playLogOutput(conf)
		if err != nil {
			return err
		}
		defer closeLog()

		if err = app.RunTUI(initLogger(conf, logOutput), conf); err != nil {
			return fmt.Errorf("play failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yml", "Path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
}

// main - is the entry point of the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initialize config.
func initConfig() *config.Config {
	path := flagConfig
	if !filepath.IsAbs(path) {
		baseDir, err := os.Getwd()
		if err != nil {
			panic(fmt.Errorf("failed to get current directory: %w", err))
		}

		path = filepath.Join(baseDir, path)
	}

	return config.MustLoad(path)
}

// initialize logger.
func initLogger(conf *config.Config, output io.Writer) *slog.Logger {
	var level slog.Level

	switch strings.ToLower(conf.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if conf.LogFormat == "text" {
		return slog.New(charmlog.NewWithOptions(output, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			Prefix:          "xo",
		}))
	}

	return slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}))
}

// playLogOutput keeps logs off the terminal the game is drawn on.
func playLogOutput(conf *config.Config) (io.Writer, func(), error) {
	if conf.LogFile == "" {
		return io.Discard, func() {}, nil
	}

	file, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
