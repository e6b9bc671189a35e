package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Garmin   GarminConfig   `json:"garmin" yaml:"garmin"`
	Web      WebConfig      `json:"web" yaml:"web"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Athlete  AthleteConfig  `json:"athlete" yaml:"athlete"`
}

// DatabaseConfig holds the sqlite path and the FIT download directory
type DatabaseConfig struct {
	Path    string `json:"path" yaml:"path"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// GarminConfig holds Garmin Connect API credentials
type GarminConfig struct {
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
	// RateLimitDelay is the minimum number of seconds between API calls.
	RateLimitDelay float64 `json:"rate_limit_delay" yaml:"rate_limit_delay"`
}

// WebConfig holds settings for the upload/read API server
type WebConfig struct {
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	MaxFileSize int64  `json:"max_file_size" yaml:"max_file_size"`
	TempDir     string `json:"temp_dir" yaml:"temp_dir"`
}

// LoggingConfig holds logging preferences
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file" yaml:"file"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	FTP      float64 `json:"ftp" yaml:"ftp"`
	MaxHR    float64 `json:"max_hr" yaml:"max_hr"`
	WeightKG float64 `json:"weight_kg" yaml:"weight_kg"`
}

// ErrNoConfig is returned when no config file exists
var ErrNoConfig = errors.New("config file not found")

// Config file names probed in order inside the config directory.
var configNames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Garmin: GarminConfig{
			RateLimitDelay: 1.0,
		},
		Web: WebConfig{
			Host:        "127.0.0.1",
			Port:        8000,
			MaxFileSize: 100 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Athlete: AthleteConfig{
			FTP:      200,
			MaxHR:    185,
			WeightKG: 70,
		},
	}
}

// Load reads the configuration from ~/.garmin-fitness/config.json (or the
// .yaml/.yml variant), applies environment overrides, and backfills
// defaults for missing values.
func Load() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	path, err := findConfigFile(dir)
	if errors.Is(err, ErrNoConfig) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults(dir)

	return &cfg, nil
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	if v := os.Getenv("GARMIN_CLIENT_ID"); v != "" {
		c.Garmin.ClientID = v
	}
	if v := os.Getenv("GARMIN_CLIENT_SECRET"); v != "" {
		c.Garmin.ClientSecret = v
	}
	if v := os.Getenv("GARMIN_FITNESS_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("GARMIN_FITNESS_DATA_DIR"); v != "" {
		c.Database.DataDir = v
	}
	if v := os.Getenv("GARMIN_FITNESS_WEB_HOST"); v != "" {
		c.Web.Host = v
	}
	if v := os.Getenv("GARMIN_FITNESS_WEB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Web.Port = port
		}
	}
	if v := os.Getenv("GARMIN_FITNESS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GARMIN_FITNESS_FTP"); v != "" {
		if ftp, err := strconv.ParseFloat(v, 64); err == nil {
			c.Athlete.FTP = ftp
		}
	}
}

// applyDefaults backfills missing values, resolving paths under dir.
func (c *Config) applyDefaults(dir string) {
	defaults := DefaultConfig()
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(dir, "fitness.db")
	}
	if c.Database.DataDir == "" {
		c.Database.DataDir = filepath.Join(dir, "activities")
	}
	if c.Garmin.RateLimitDelay <= 0 {
		c.Garmin.RateLimitDelay = defaults.Garmin.RateLimitDelay
	}
	if c.Web.Host == "" {
		c.Web.Host = defaults.Web.Host
	}
	if c.Web.Port == 0 {
		c.Web.Port = defaults.Web.Port
	}
	if c.Web.MaxFileSize == 0 {
		c.Web.MaxFileSize = defaults.Web.MaxFileSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Athlete.FTP == 0 {
		c.Athlete.FTP = defaults.Athlete.FTP
	}
	if c.Athlete.MaxHR == 0 {
		c.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if c.Athlete.WeightKG == 0 {
		c.Athlete.WeightKG = defaults.Athlete.WeightKG
	}
}

// Save writes the configuration to ~/.garmin-fitness/config.json
func Save(cfg *Config) error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if _, err := findConfigFile(dir); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Garmin.ClientID = "YOUR_CLIENT_ID"
	example.Garmin.ClientSecret = "YOUR_CLIENT_SECRET"

	return Save(&example)
}

// Validate checks that numeric settings are sane. Garmin credentials are
// checked separately because local-only commands don't need them.
func (c *Config) Validate() error {
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port must be between 0 and 65535, got %d", c.Web.Port)
	}
	if c.Web.MaxFileSize < 0 {
		return fmt.Errorf("web.max_file_size must not be negative, got %d", c.Web.MaxFileSize)
	}
	if c.Athlete.FTP < 0 {
		return fmt.Errorf("athlete.ftp must not be negative, got %v", c.Athlete.FTP)
	}
	if c.Athlete.MaxHR < 0 {
		return fmt.Errorf("athlete.max_hr must not be negative, got %v", c.Athlete.MaxHR)
	}
	if c.Athlete.WeightKG < 0 {
		return fmt.Errorf("athlete.weight_kg must not be negative, got %v", c.Athlete.WeightKG)
	}
	return nil
}

// ValidateGarmin checks that Garmin API credentials are configured. Only
// the auth, sync and serve paths require them.
func (c *Config) ValidateGarmin() error {
	if c.Garmin.ClientID == "" || c.Garmin.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("garmin.client_id is required - register an application in the Garmin developer portal")
	}
	if c.Garmin.ClientSecret == "" || c.Garmin.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("garmin.client_secret is required - register an application in the Garmin developer portal")
	}
	return nil
}

// findConfigFile returns the first config file present in dir.
func findConfigFile(dir string) (string, error) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNoConfig
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".garmin-fitness"), nil
}
