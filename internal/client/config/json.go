package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"github.com/void2610/online-type-game/internal/flagx"
	"github.com/void2610/online-type-game/internal/timex"
)

// jsonConfig is the on-disk shape. Zero values leave the current setting alone.
type jsonConfig struct {
	BaseURL           string         `json:"base_url"`
	AnonKey           string         `json:"anon_key"`
	PollInterval      timex.Duration `json:"poll_interval"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	DataDir           string         `json:"data_dir"`
	SessionPassphrase string         `json:"session_passphrase"`
	LogFormat         string         `json:"log_format"`
	LogLevel          string         `json:"log_level"`
	S3Region          string         `json:"s3_region"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
}

// parseJSON overlays cfg with the file named by -c/-config or $TYPEGAME_CONFIG.
// A missing selection is not an error; an unreadable or invalid file is.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.AnonKey, jc.AnonKey)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.SessionPassphrase, jc.SessionPassphrase)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
