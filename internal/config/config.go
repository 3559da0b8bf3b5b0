package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/loancli.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE" default:"loan_data.csv"`
	CleanFile  string `yaml:"clean_file" envconfig:"CLEAN_FILE" default:"loan_data_cleaned.csv"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// DatabaseConfig contains the optional Postgres sink configuration.
// An empty DSN disables persistence entirely.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" envconfig:"DSN" default:""`
}

// CleaningConfig contains cleaning pipeline configuration
type CleaningConfig struct {
	ImputeCreditScore      bool `yaml:"impute_credit_score" envconfig:"IMPUTE_CREDIT_SCORE" default:"true"`
	ImputeEmploymentLength bool `yaml:"impute_employment_length" envconfig:"IMPUTE_EMPLOYMENT_LENGTH" default:"true"`
}

// Load loads configuration from environment variables and config file.
// Environment variables (prefix LOAN) take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("LOAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// Only fields the environment left at their zero value fall back to the file.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.InputFile == "" {
		envConfig.Paths.InputFile = fileConfig.Paths.InputFile
	}
	if envConfig.Paths.CleanFile == "" {
		envConfig.Paths.CleanFile = fileConfig.Paths.CleanFile
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Database.DSN == "" {
		envConfig.Database.DSN = fileConfig.Database.DSN
	}

	return envConfig
}

// GetInputPath returns the resolved raw input file path
func (c *Config) GetInputPath() string {
	return c.resolve(c.Paths.InputFile)
}

// GetCleanPath returns the resolved cleaned snapshot path
func (c *Config) GetCleanPath() string {
	return c.resolve(c.Paths.CleanFile)
}

// GetReportsDir returns the resolved reports directory
func (c *Config) GetReportsDir() string {
	if filepath.IsAbs(c.Paths.ReportsDir) {
		return c.Paths.ReportsDir
	}
	return filepath.Join(c.Paths.DataDir, c.Paths.ReportsDir)
}

// GetLogPath returns the resolved path for a named log file
func (c *Config) GetLogPath(name string) string {
	if filepath.IsAbs(c.Paths.LogsDir) {
		return filepath.Join(c.Paths.LogsDir, name)
	}
	return filepath.Join(c.Paths.DataDir, c.Paths.LogsDir, name)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.DataDir, path)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("data directory must be set")
	}
	if c.Paths.InputFile == "" {
		return fmt.Errorf("input file must be set")
	}
	if c.Paths.CleanFile == "" {
		return fmt.Errorf("clean file must be set")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/loancli.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/loancli.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			InputFile:  "loan_data.csv",
			CleanFile:  "loan_data_cleaned.csv",
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
		Cleaning: CleaningConfig{
			ImputeCreditScore:      true,
			ImputeEmploymentLength: true,
		},
	}
}
