package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
)

type Config struct {
	StateDir           string
	StatePath          string
	DBPath             string
	LogPath            string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	RequestTimeout     time.Duration
	LogLevel           string
}

// fileConfig mirrors <state-dir>/config.yaml.
type fileConfig struct {
	APIURL             string `yaml:"api_url"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	RequestTimeout     string `yaml:"request_timeout"`
	LogLevel           string `yaml:"log_level"`
}

func New(stateDir string) (Config, error) {
	if stateDir == "" {
		return Config{}, fmt.Errorf("state dir is required")
	}
	return Config{
		StateDir:       stateDir,
		StatePath:      filepath.Join(stateDir, "state.json"),
		DBPath:         filepath.Join(stateDir, "history.db"),
		LogPath:        filepath.Join(stateDir, "rehab.log"),
		BaseURL:        DefaultBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		LogLevel:       DefaultLogLevel,
	}, nil
}

// Load builds the config for stateDir, applying config.yaml, then .env, then
// the process environment.
func Load(stateDir string) (Config, error) {
	cfg, err := New(stateDir)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(filepath.Join(stateDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return c.apply(fc.APIURL, fc.GoogleClientID, fc.GoogleClientSecret, fc.RequestTimeout, fc.LogLevel)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	return c.apply(
		getenv("REHAB_API_URL"),
		getenv("GOOGLE_CLIENT_ID"),
		getenv("GOOGLE_CLIENT_SECRET"),
		getenv("REHAB_REQUEST_TIMEOUT"),
		getenv("REHAB_LOG_LEVEL"),
	)
}

func (c *Config) apply(apiURL, clientID, clientSecret, timeout, level string) error {
	if v := strings.TrimSpace(apiURL); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(clientID); v != "" {
		c.GoogleClientID = v
	}
	if v := strings.TrimSpace(clientSecret); v != "" {
		c.GoogleClientSecret = v
	}
	if v := strings.TrimSpace(timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse request timeout %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	if v := strings.TrimSpace(level); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url %q", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}
