package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/glabrego/vidfeed/internal/app"
	"github.com/glabrego/vidfeed/internal/config"
	"github.com/glabrego/vidfeed/internal/feedapi"
	"github.com/glabrego/vidfeed/internal/logging"
	"github.com/glabrego/vidfeed/internal/storage"
)

// runtime is everything a subcommand needs, built from the environment.
type runtime struct {
	cfg       config.Config
	log       *slog.Logger
	logCloser io.Closer
	repo      *storage.Repository
	service   *app.Service
	tracker   *app.Tracker
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, logCloser, err := logging.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repo.Init(ctx); err != nil {
		_ = repo.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}

	client := feedapi.NewClient(cfg.BaseURL, nil)
	return &runtime{
		cfg:       cfg,
		log:       logger,
		logCloser: logCloser,
		repo:      repo,
		service:   app.NewService(client, repo, logger),
		tracker:   app.NewTracker(client, repo, cfg.TrackRate, cfg.TrackBurst, logger),
	}, nil
}

func (r *runtime) Close() error {
	return errors.Join(r.repo.Close(), r.logCloser.Close())
}
