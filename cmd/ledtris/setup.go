package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ledtris/internal/config"
	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/game"
	"github.com/vovakirdan/ledtris/internal/storage"
)

// loadConfig loads the config and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	return cfg, nil
}

func newLogger(w io.Writer, level, prefix string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           lvl,
	}), nil
}

// openBoard opens the database and loads the highscore board.
func openBoard(cfg config.StorageConfig, logger *log.Logger) (*storage.Store, *storage.Board, error) {
	store, err := storage.Open(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	board := storage.NewBoard(store, cfg.Namespace, cfg.Key, logger)
	board.Load()
	return store, board, nil
}

func newMachine(cfg config.GameConfig, clock core.Clock, sink game.ScoreSink, logger *log.Logger) *game.Machine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("piece generator seeded", "seed", seed)
	return game.NewMachine(cfg.Rules(), rand.New(rand.NewSource(seed)), sink, clock.Now())
}
