package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the client. It is built once at startup
// and passed explicitly to every component that needs it.
type Config struct {
	// BaseURL is the backend project URL without a trailing path.
	BaseURL string
	// AnonKey is sent as the apikey header on every request.
	AnonKey string

	PollInterval   time.Duration
	RequestTimeout time.Duration

	// DataDir holds the local SQLite database with the persisted session.
	DataDir string
	// SessionPassphrase, when set, seals the persisted session at rest.
	SessionPassphrase string

	LogFormat string
	LogLevel  string

	// S3 credentials for the storage S3-compatible endpoint. Presigning is
	// disabled when the access key is empty.
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

var (
	ErrMissingBaseURL = errors.New("base url is required")
	ErrMissingAnonKey = errors.New("anon key is required")
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.PollInterval = time.Second
	c.RequestTimeout = 10 * time.Second
	c.DataDir = "data"
	c.LogFormat = "text"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.AnonKey == "" {
		return ErrMissingAnonKey
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
