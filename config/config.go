// Package config loads the dashboard's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"cytodiag/i18n"
)

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Dataset struct {
		Path string `yaml:"path"`
	} `yaml:"dataset"`
	Model struct {
		Kind       string `yaml:"kind"`
		Path       string `yaml:"path"`
		ScalerPath string `yaml:"scaler_path"`
	} `yaml:"model"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Locale struct {
		Default string `yaml:"default"`
	} `yaml:"locale"`
	Log Log `yaml:"log"`
}

// Log configures the zap logger and its optional rotating file sink.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	var c Config
	c.Http.Port = 8501
	c.Http.Timeout = 30 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Dataset.Path = "data/data.csv"
	c.Model.Kind = "logistic_regression"
	c.Model.Path = "models/model.json"
	c.Model.ScalerPath = "models/scaler.json"
	c.Cache.Size = 1024
	c.Locale.Default = i18n.Indonesian
	c.Log = Log{
		Level:      "info",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
	return &c
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.Http.Port))
	}
	if c.Http.Timeout <= 0 {
		errs = append(errs, errors.New("http.timeout must be positive"))
	}
	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset.path is required"))
	}
	if c.Model.Path == "" || c.Model.ScalerPath == "" {
		errs = append(errs, errors.New("model.path and model.scaler_path are required"))
	}
	if !i18n.Supported(c.Locale.Default) {
		errs = append(errs, fmt.Errorf("locale.default %q is not supported", c.Locale.Default))
	}
	return errors.Join(errs...)
}
