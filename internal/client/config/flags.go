package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/void2610/online-type-game/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only -u, -k, -i and -d are looked at; everything else in args is left for
// other parsers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-u", "-k", "-i", "-d"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "backend base URL")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "anonymous API key")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	pollSeconds := fs.Int("i", int(cfg.PollInterval.Seconds()), "change poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "i" {
			return
		}
		if *pollSeconds <= 0 {
			err = fmt.Errorf("poll interval must be positive, got %d", *pollSeconds)
			return
		}
		cfg.PollInterval = time.Duration(*pollSeconds) * time.Second
	})
	return err
}
