package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/keel/internal/coach"
	"github.com/sandeepkv93/keel/internal/config"
	"github.com/sandeepkv93/keel/internal/llm"
	"github.com/sandeepkv93/keel/internal/logging"
	"github.com/sandeepkv93/keel/internal/planner"
	"github.com/sandeepkv93/keel/internal/storage"
)

// app holds the services shared by every subcommand.
type app struct {
	cfg     config.RuntimeConfig
	log     *logrus.Logger
	repo    *storage.SQLiteRepository
	coach   *coach.Engine
	planner *planner.Planner
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogJSON)

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}

	opts := cfg.LLMOptions()
	if cfg.Model == llm.DefaultModel {
		if stored, err := repo.GetSetting(ctx, storage.SettingModel); err == nil && stored != "" {
			opts.Model = stored
		}
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		repo:    repo,
		coach:   coach.NewEngine(llm.NewFactory(opts), log, coach.WithMaxTokens(cfg.MaxTokens)),
		planner: planner.New(repo, log, cfg.EnergyWindowDays),
	}
	log.WithFields(logrus.Fields{
		"db":     cfg.DBPath,
		"model":  opts.Model,
		"remote": a.apiKey(ctx) != "",
	}).Debug("keel started")
	return a, nil
}

// apiKey prefers the configured key and falls back to the one saved with the
// key command. An empty result means the local heuristics are used.
func (a *app) apiKey(ctx context.Context) string {
	if a.cfg.APIKey != "" {
		return a.cfg.APIKey
	}
	key, err := a.repo.GetSetting(ctx, storage.SettingAPIKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.log.WithError(err).Warn("could not read stored api key")
		}
		return ""
	}
	return key
}

func (a *app) Close() error {
	return a.repo.Close()
}
