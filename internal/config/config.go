// Package config handles reading and writing ~/.examcoach/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	APIBaseURL      string        `yaml:"api_base_url" mapstructure:"api_base_url"`
	StudentID       int           `yaml:"student_id" mapstructure:"student_id"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"` // 0 = no timeout
	NotificationTTL time.Duration `yaml:"notification_ttl" mapstructure:"notification_ttl"`
	DataDir         string        `yaml:"data_dir" mapstructure:"data_dir"`
	Log             LogConfig     `yaml:"log" mapstructure:"log"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"` // "debug" | "info" | "warn" | "error"
	File       string `yaml:"file" mapstructure:"file"`   // relative to DataDir unless absolute
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
}

const (
	appDir     = ".examcoach"
	configFile = "config.yaml"
	stateFile  = "state.db"
	envPrefix  = "EXAMCOACH"
)

// DefaultDir returns ~/.examcoach, or .examcoach in the working directory
// when the home directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appDir
	}
	return filepath.Join(home, appDir)
}

// DefaultPath returns the default location of config.yaml.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), configFile)
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:      "http://localhost:8000",
		StudentID:       1,
		RequestTimeout:  0,
		NotificationTTL: 4 * time.Second,
		DataDir:         DefaultDir(),
		Log: LogConfig{
			Level:      "info",
			File:       "examcoach.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads the config file at path, layering EXAMCOACH_* environment
// variables (and a .env file next to the config, if any) over it.
// A missing file is not an error: defaults plus environment are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.DataDir = expandHome(cfg.DataDir)

	return &cfg, nil
}

// Validate reports configuration values the client cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: api_base_url must not be empty")
	}
	if c.StudentID <= 0 {
		return fmt.Errorf("config: student_id must be positive, got %d", c.StudentID)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.NotificationTTL <= 0 {
		return fmt.Errorf("config: notification_ttl must be positive, got %s", c.NotificationTTL)
	}
	return nil
}

// LogPath resolves the log file location against DataDir.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, c.Log.File)
}

// StatePath returns the location of the credential store.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, stateFile)
}

// fileConfig is the on-disk form of Config, with durations spelled as
// strings such as "4s".
type fileConfig struct {
	APIBaseURL      string    `yaml:"api_base_url"`
	StudentID       int       `yaml:"student_id"`
	RequestTimeout  string    `yaml:"request_timeout"`
	NotificationTTL string    `yaml:"notification_ttl"`
	DataDir         string    `yaml:"data_dir"`
	Log             LogConfig `yaml:"log"`
}

// MarshalYAML implements yaml.Marshaler.
func (c Config) MarshalYAML() (interface{}, error) {
	return fileConfig{
		APIBaseURL:      c.APIBaseURL,
		StudentID:       c.StudentID,
		RequestTimeout:  c.RequestTimeout.String(),
		NotificationTTL: c.NotificationTTL.String(),
		DataDir:         c.DataDir,
		Log:             c.Log,
	}, nil
}

// WriteConfig writes cfg as YAML to path, creating parent directories.
func WriteConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api_base_url", d.APIBaseURL)
	v.SetDefault("student_id", d.StudentID)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("notification_ttl", d.NotificationTTL)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
