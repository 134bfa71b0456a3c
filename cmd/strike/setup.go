package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/engine"
	"github.com/vovakirdan/star-strike/internal/storage"
)

// newLogger builds the command logger. Interactive commands pass
// io.Discard as fallback so logs never draw over the game screen.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", openErr)
			os.Exit(1)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn
}

// openStore opens the scores database, or returns nil when it is unavailable.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// storedSetting reads a setting, empty when the store is missing.
func storedSetting(store *storage.Store, key string) string {
	if store == nil {
		return ""
	}
	v, _, err := store.Setting(key)
	if err != nil {
		return ""
	}
	return v
}

// loadGameConfig loads the YAML config and applies the difficulty preset.
// An empty difficulty falls back to the stored setting.
func loadGameConfig(path, difficulty string, store *storage.Store) (config.Config, config.DifficultyPreset) {
	if difficulty == "" {
		difficulty = storedSetting(store, engine.SettingDifficulty)
	}
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, preset
}

// newEngine builds an engine over cfg. A nil store is left out.
func newEngine(cfg config.Config, store *storage.Store, logger *log.Logger) *engine.Engine {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []engine.Option{engine.WithLogger(logger), engine.WithSeed(seed)}
	if store != nil {
		opts = append(opts, engine.WithStore(store))
	}
	return engine.New(cfg, opts...)
}
