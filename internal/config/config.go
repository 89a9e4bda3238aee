// Package config loads settings from defaults, an optional YAML file, a
// .env file and QUIZBUCKET_* environment variables, in increasing order of
// precedence. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/learn"
)

// Config holds every setting of the application.
type Config struct {
	Questions  string    `mapstructure:"questions"`
	Stats      string    `mapstructure:"stats"`
	DB         string    `mapstructure:"db"`
	BucketSize int       `mapstructure:"bucket_size"`
	Threshold  string    `mapstructure:"threshold"`
	Log        LogConfig `mapstructure:"log"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Console    bool   `mapstructure:"console"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Questions:  "questions.json",
		BucketSize: 20,
		Threshold:  "9/10",
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// Load reads configuration. When path is empty, quizbucket.yaml is looked
// up in the working directory and the user config directory; a missing
// file is fine. An explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	def := Default()
	v.SetDefault("questions", def.Questions)
	v.SetDefault("stats", def.Stats)
	v.SetDefault("db", def.DB)
	v.SetDefault("bucket_size", def.BucketSize)
	v.SetDefault("threshold", def.Threshold)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age_days", def.Log.MaxAgeDays)
	v.SetDefault("log.console", def.Log.Console)

	v.SetEnvPrefix("QUIZBUCKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quizbucket")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "quizbucket"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LearnConfig converts the bucket settings and validates them.
func (c *Config) LearnConfig() (learn.Config, error) {
	threshold, err := fraction.Parse(c.Threshold)
	if err != nil {
		return learn.Config{}, fmt.Errorf("threshold: %w", err)
	}
	lc := learn.Config{BucketSize: c.BucketSize, MasteryThreshold: threshold}
	if err := lc.Validate(); err != nil {
		return learn.Config{}, err
	}
	return lc, nil
}
