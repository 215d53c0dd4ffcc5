package client

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/void2610/online-type-game/internal/client/auth"
	"github.com/void2610/online-type-game/internal/client/config"
	"github.com/void2610/online-type-game/internal/client/functions"
	"github.com/void2610/online-type-game/internal/client/gateway"
	"github.com/void2610/online-type-game/internal/client/poller"
	"github.com/void2610/online-type-game/internal/client/query"
	"github.com/void2610/online-type-game/internal/client/ranking"
	"github.com/void2610/online-type-game/internal/client/storage"
	"github.com/void2610/online-type-game/internal/logging"
)

type Client struct {
	Gateway *gateway.Gateway
	Auth    *auth.Manager
	Ranking *ranking.Service
	// Presigner is nil unless S3 access keys are configured.
	Presigner *storage.Presigner

	logger   logging.Logger
	pollOpts poller.Options
}

// New wires a client from cfg. db holds the persisted session.
func New(ctx context.Context, cfg *config.Config, db *sql.DB, logger logging.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	gw, err := gateway.New(gateway.Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.AnonKey,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	manager, err := auth.NewManager(auth.Options{
		Transport: gw,
		Store:     auth.NewMetadataStore(db, cfg.SessionPassphrase),
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	pollOpts := poller.Options{Interval: cfg.PollInterval, Logger: logger}
	c := &Client{
		Gateway:  gw,
		Auth:     manager,
		Ranking:  ranking.NewService(gw, logger, pollOpts),
		logger:   logger,
		pollOpts: pollOpts,
	}

	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		c.Presigner, err = storage.NewPresigner(ctx, storage.PresignerOptions{
			BaseURL:   cfg.BaseURL,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create presigner: %w", err)
		}
	}
	return c, nil
}

// Table starts a typed query against table.
func Table[T any](c *Client, table string) query.Builder[T] {
	return query.From[T](c.Gateway, table)
}

// Watch returns a stopped poller over source using the configured interval.
func Watch[T poller.Timestamped](c *Client, source query.Builder[T]) *poller.Poller[T] {
	return poller.New(source, c.pollOpts)
}

// Invoke calls the named edge function with the client's credentials and
// decodes its reply.
func Invoke[T any](ctx context.Context, c *Client, name string, body any) (*T, error) {
	return functions.Invoke[T](ctx, c.Gateway, name, body, nil)
}

// Call invokes the named edge function and discards its reply.
func (c *Client) Call(ctx context.Context, name string, body any) error {
	return functions.Call(ctx, c.Gateway, name, body, nil)
}

// Bucket addresses a storage bucket.
func (c *Client) Bucket(name string) *storage.Bucket {
	return storage.NewBucket(c.Gateway, name)
}
