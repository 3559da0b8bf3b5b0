package main

import (
	"flag"
	"log/slog"
	"os"

	"loancli/internal/config"
	"loancli/internal/dataprocessing"
	"loancli/internal/exporter"
	"loancli/internal/infrastructure"
	"loancli/internal/reports"
)

func main() {
	input := flag.String("input", "", "cleaned loan CSV file (defaults to data/loan_data_cleaned.csv)")
	outDir := flag.String("outdir", "", "directory for report CSVs (defaults to data/reports)")
	workbook := flag.String("workbook", "", "optional XLSX workbook path bundling all reports")
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
		*input = cfg.GetCleanPath()
	}
	if *outDir == "" {
		*outDir = cfg.GetReportsDir()
	}

	logger.Info("starting loan report generation",
		slog.String("input", *input),
		slog.String("output_dir", *outDir),
		slog.Bool("workbook_enabled", *workbook != ""))

	records, err := dataprocessing.LoadCleanCSV(*input, logger)
	if err != nil {
		logger.Error("failed to load cleaned data",
			slog.String("path", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	tables := reports.AllTables(records)

	csvWriter := exporter.NewCSVWriter(logger)
	for _, table := range tables {
		path, err := csvWriter.WriteTable(*outDir, table)
		if err != nil {
			logger.Error("failed to write report",
				slog.String("report", table.Name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("wrote report",
			slog.String("report", table.Name),
			slog.String("path", path),
			slog.Int("row_count", len(table.Rows)))
	}

	if *workbook != "" {
		excelWriter := exporter.NewExcelWriter(logger)
		if err := excelWriter.WriteWorkbook(*workbook, tables); err != nil {
			logger.Error("failed to write workbook",
				slog.String("path", *workbook),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("loan report generation completed",
		slog.Int("record_count", len(records)),
		slog.Int("report_count", len(tables)))
}
