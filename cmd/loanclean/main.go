package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"loancli/internal/config"
	"loancli/internal/dataprocessing"
	"loancli/internal/exporter"
	"loancli/internal/infrastructure"
	"loancli/internal/operations"
	"loancli/internal/reports"
	"loancli/internal/storage"
	"loancli/pkg/contracts/domain"
)

func main() {
	input := flag.String("input", "", "raw loan CSV file (defaults to data/loan_data.csv)")
	output := flag.String("output", "", "cleaned CSV output path (defaults to data/loan_data_cleaned.csv)")
	dsn := flag.String("dsn", "", "optional Postgres DSN; overrides config when set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *input == "" {
		*input = cfg.GetInputPath()
	}
	if *output == "" {
		*output = cfg.GetCleanPath()
	}
	if *dsn == "" {
		*dsn = cfg.Database.DSN
	}

	ctx := context.Background()

	logger.Info("starting loan data cleaning",
		slog.String("input", *input),
		slog.String("output", *output),
		slog.Bool("database_enabled", *dsn != ""))

	staging, err := dataprocessing.LoadStagingCSV(*input, logger)
	if err != nil {
		logger.Error("failed to load raw data",
			slog.String("path", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipeline := operations.New(logger, operations.Options{
		ImputeCreditScore:      cfg.Cleaning.ImputeCreditScore,
		ImputeEmploymentLength: cfg.Cleaning.ImputeEmploymentLength,
	})

	result, err := pipeline.Run(ctx, staging)
	if err != nil {
		logger.Error("cleaning pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	quality := reports.BuildQualityReport(result.Cleaned)
	quality.Log(ctx, logger)

	csvWriter := exporter.NewCSVWriter(logger)
	if err := csvWriter.WriteCleanSnapshot(*output, result.Cleaned); err != nil {
		logger.Error("failed to write cleaned snapshot",
			slog.String("path", *output),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if _, err := csvWriter.WriteTable(cfg.GetReportsDir(), quality.Table()); err != nil {
		logger.Error("failed to write quality report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *dsn != "" {
		if err := persist(ctx, logger, *dsn, result, staging); err != nil {
			logger.Error("failed to persist snapshots", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("loan data cleaning completed",
		slog.String("run_id", result.RunID),
		slog.Int("input_rows", result.Input),
		slog.Int("cleaned_rows", len(result.Cleaned)),
		slog.Int("dropped_rows", result.DroppedTotal()),
		slog.Duration("duration", result.Duration))
}

func persist(ctx context.Context, logger *slog.Logger, dsn string, result *operations.Result, staging []domain.StagingRecord) error {
	store, err := storage.Open(dsn, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ReplaceStaging(ctx, staging); err != nil {
		return err
	}
	if err := store.ReplaceClean(ctx, result.Cleaned); err != nil {
		return err
	}

	stagingCount, cleanCount, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	logger.Info("persisted snapshots to database",
		slog.Int64("staging_rows", stagingCount),
		slog.Int64("clean_rows", cleanCount))

	return nil
}
