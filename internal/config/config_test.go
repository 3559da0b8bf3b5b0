package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "loan_data.csv", cfg.Paths.InputFile)
	assert.Equal(t, "loan_data_cleaned.csv", cfg.Paths.CleanFile)
	assert.Empty(t, cfg.Database.DSN)
	assert.True(t, cfg.Cleaning.ImputeCreditScore)
	assert.True(t, cfg.Cleaning.ImputeEmploymentLength)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "reports", cfg.Paths.ReportsDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOAN_PATHS_DATA_DIR", "/srv/loans")
	t.Setenv("LOAN_LOGGING_LEVEL", "debug")
	t.Setenv("LOAN_DATABASE_DSN", "postgres://localhost/loans?sslmode=disable")
	t.Setenv("LOAN_CLEANING_IMPUTE_CREDIT_SCORE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/loans", cfg.Paths.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "postgres://localhost/loans?sslmode=disable", cfg.Database.DSN)
	assert.False(t, cfg.Cleaning.ImputeCreditScore)
}

func TestMergeConfigsEnvWins(t *testing.T) {
	fileConfig := Config{
		Logging: LoggingConfig{Level: "warn", Format: "text"},
		Paths:   PathsConfig{DataDir: "/from/file", InputFile: "file.csv"},
		Database: DatabaseConfig{
			DSN: "postgres://file-host/loans",
		},
	}
	envConfig := Config{
		Logging: LoggingConfig{Level: "debug"},
		Paths:   PathsConfig{DataDir: "/from/env"},
	}

	merged := mergeConfigs(fileConfig, envConfig)

	// Env values stand; zero-valued env fields fall back to the file.
	assert.Equal(t, "debug", merged.Logging.Level)
	assert.Equal(t, "text", merged.Logging.Format)
	assert.Equal(t, "/from/env", merged.Paths.DataDir)
	assert.Equal(t, "file.csv", merged.Paths.InputFile)
	assert.Equal(t, "postgres://file-host/loans", merged.Database.DSN)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = ""
	require.Error(t, cfg.validate())

	cfg = Default()
	cfg.Paths.InputFile = ""
	require.Error(t, cfg.validate())

	// Unknown formats are coerced back to JSON, not rejected.
	cfg = Default()
	cfg.Logging.Format = "xml"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestPathResolution(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join("data", "loan_data.csv"), cfg.GetInputPath())
	assert.Equal(t, filepath.Join("data", "loan_data_cleaned.csv"), cfg.GetCleanPath())
	assert.Equal(t, filepath.Join("data", "reports"), cfg.GetReportsDir())
	assert.Equal(t, filepath.Join("data", "logs", "clean.log"), cfg.GetLogPath("clean.log"))

	// Absolute paths bypass the data directory.
	cfg.Paths.InputFile = "/var/loans/in.csv"
	cfg.Paths.ReportsDir = "/var/loans/reports"
	assert.Equal(t, "/var/loans/in.csv", cfg.GetInputPath())
	assert.Equal(t, "/var/loans/reports", cfg.GetReportsDir())
}
