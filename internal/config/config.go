package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Grading    GradingConfig    `yaml:"grading" envconfig:"GRADING"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
}

// GradingConfig contains the scoring rules applied during processing
type GradingConfig struct {
	// PassThreshold is the minimum total score counted as a pass.
	PassThreshold float64 `yaml:"pass_threshold" envconfig:"PASS_THRESHOLD" default:"50" validate:"min=0,max=100"`

	// UpgradeMin enables the management upgrade rule: scores in
	// [UpgradeMin, 49] are raised to 50 before grading. 0 disables.
	UpgradeMin int `yaml:"upgrade_min" envconfig:"UPGRADE_MIN" default:"0" validate:"omitempty,min=45,max=49"`
}

// ProcessingConfig contains batch-run configuration
type ProcessingConfig struct {
	Program     string `yaml:"program" envconfig:"PROGRAM" default:"ND" validate:"oneof=ND BN BM"`
	SelectedSet string `yaml:"selected_set" envconfig:"SELECTED_SET"`

	// Workers bounds the number of raw files parsed concurrently.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"min=1,max=32"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/examcli.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// BaseDir is the root of the EXAMS_INTERNAL tree. Relative paths
	// are resolved against the executable directory.
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR" default:"EXAMS_INTERNAL"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("EXAM", &cfg); err != nil {
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

	if err := cfg.Validate(); err != nil {
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

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Grading.PassThreshold == 0 {
		envConfig.Grading.PassThreshold = fileConfig.Grading.PassThreshold
	}
	if envConfig.Grading.UpgradeMin == 0 {
		envConfig.Grading.UpgradeMin = fileConfig.Grading.UpgradeMin
	}
	if envConfig.Processing.SelectedSet == "" {
		envConfig.Processing.SelectedSet = fileConfig.Processing.SelectedSet
	}
	if fileConfig.Paths.BaseDir != "" && os.Getenv("EXAM_PATHS_BASE_DIR") == "" {
		envConfig.Paths.BaseDir = fileConfig.Paths.BaseDir
	}

	return envConfig
}

// Validate checks the configuration against the struct-level rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	// Always JSON, always dual output for batch runs.
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/examcli.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
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
		Grading: GradingConfig{
			PassThreshold: 50,
			UpgradeMin:    0,
		},
		Processing: ProcessingConfig{
			Program: "ND",
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/examcli.log",
		},
		Paths: PathsConfig{
			BaseDir: "EXAMS_INTERNAL",
			LogsDir: "logs",
		},
	}
}
