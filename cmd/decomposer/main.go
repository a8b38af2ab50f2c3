package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Decomposer/internal/api/tickdata"
	"github.com/Alias1177/Decomposer/internal/config"
	"github.com/Alias1177/Decomposer/internal/database"
	"github.com/Alias1177/Decomposer/internal/estimate"
	"github.com/Alias1177/Decomposer/internal/report"
	"github.com/Alias1177/Decomposer/internal/ticks"
	"github.com/Alias1177/Decomposer/models"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting Tick Decomposer")

	// 3. Resolve the datasets for this run
	datasets, err := resolveDatasets(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve datasets")
	}

	// 4. Open the run store if enabled
	var db *database.DB
	if cfg.EnableStore {
		db, err = database.New(database.ParamsFromEnv())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to run store")
		}
		defer db.Close()
	}

	// 5. Decompose each dataset
	failed := 0
	for _, ds := range datasets {
		if err := runDataset(ctx, cfg, db, ds); err != nil {
			log.Error().Err(err).Str("symbol", ds.Symbol).Msg("Decomposition failed")
			failed++
		}
	}

	if failed == len(datasets) {
		os.Exit(1)
	}
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
		os.Exit(0)
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// resolveDatasets lists the datasets to decompose: the YAML manifest when
// configured, otherwise the single instrument described by the environment.
func resolveDatasets(cfg *config.Config) ([]config.Dataset, error) {
	if cfg.ManifestFile != "" {
		manifest, err := config.LoadManifest(cfg.ManifestFile)
		if err != nil {
			return nil, err
		}
		log.Info().Int("datasets", len(manifest.Datasets)).Str("manifest", cfg.ManifestFile).
			Msg("Loaded dataset manifest")
		return manifest.Datasets, nil
	}

	return []config.Dataset{{
		Name:     cfg.Symbol,
		Symbol:   cfg.Symbol,
		Path:     cfg.DataFile,
		TickSize: cfg.TickSize,
	}}, nil
}

// runDataset executes the full pipeline for one dataset: load, classify,
// fit, report, persist.
func runDataset(ctx context.Context, cfg *config.Config, db *database.DB, ds config.Dataset) error {
	logger := log.With().Str("symbol", ds.Symbol).Logger()

	tickSeries, err := loadTicks(ctx, cfg, ds)
	if err != nil {
		return fmt.Errorf("loading ticks: %w", err)
	}
	logger.Info().Int("ticks", len(tickSeries)).Msg("Loaded tick series")

	changes, err := ticks.ChangeSeries(tickSeries, ds.TickSize)
	if err != nil {
		return fmt.Errorf("classifying price changes: %w", err)
	}

	result, err := estimate.Fit(changes)
	if err != nil {
		return fmt.Errorf("estimating sub-models: %w", err)
	}

	run := &models.DecompositionRun{
		ID:        uuid.NewString(),
		Symbol:    ds.Symbol,
		TickSize:  ds.TickSize,
		TickCount: len(tickSeries),
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}

	text, err := report.Format(run, changes, cfg.CDFRangeTicks)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}
	fmt.Println(text)

	if db != nil {
		if err := db.SaveRun(run); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		logger.Info().Str("run_id", run.ID).Msg("Run persisted")
	}

	return nil
}

// loadTicks reads the dataset's CSV file, falling back to the HTTP tick
// source when no file is configured.
func loadTicks(ctx context.Context, cfg *config.Config, ds config.Dataset) ([]models.Tick, error) {
	if ds.Path != "" {
		return ticks.LoadCSV(ds.Path)
	}

	if cfg.TickAPIBaseURL == "" {
		return nil, fmt.Errorf("dataset %s has no file and TICK_API_URL is not set", ds.Symbol)
	}

	client := tickdata.NewClient(tickdata.ClientOptions{
		BaseURL:        cfg.TickAPIBaseURL,
		APIKey:         cfg.TickAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: 5,
	})

	return client.GetTicks(ctx, ds.Symbol, cfg.TickCount)
}
