package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/importer"
	"github.com/desertthunder/plimport/internal/metrics"
	"github.com/desertthunder/plimport/internal/services"
	"github.com/desertthunder/plimport/internal/shared"
)

const (
	appName           = "plimport"
	defaultConfigPath = "config.toml"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	runner, err := buildRunner(config, logger)
	if err != nil {
		logger.Fatalf("failed to initialize: %v", err)
	}

	app := &cli.Command{
		Name:     appName,
		Usage:    "Import playlists from Spotify links or plain text and match them on YouTube Music",
		Version:  "0.1.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// buildRunner wires the importer and catalog described by config.
func buildRunner(config *shared.Config, logger *log.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	fetcher := services.NewHTTPFetcher(config.Scraper.Timeout(), services.WithMaxBodyBytes(config.Scraper.MaxBodyBytes))
	spotify := importer.NewSpotifyParser(fetcher, config.Scraper.UserAgent, shared.WithLogger(logger, "component", "scraper"))

	youtube, err := services.NewYouTubeService(
		config.Catalog.ProxyURL,
		services.WithRateLimit(config.Catalog.RequestsPerSecond, config.Catalog.Burst),
		services.WithCacheSize(config.Catalog.CacheSize),
		services.WithTimeout(config.Catalog.Timeout()),
		services.WithLogger(shared.WithLogger(logger, "component", "catalog")),
	)
	if err != nil {
		return nil, err
	}
	if config.Catalog.AuthFile != "" {
		if err := youtube.Authenticate(context.Background(), map[string]string{"auth_file": config.Catalog.AuthFile}); err != nil {
			return nil, err
		}
	}

	return NewRunner(RunnerOpts{
		Config:   config,
		Importer: importer.New(spotify, logger),
		Catalog:  youtube,
		Recorder: metrics.NewRecorder(),
		Logger:   logger,
	}), nil
}
