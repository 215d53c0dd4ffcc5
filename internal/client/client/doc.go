// Package client assembles the backend client from configuration.
//
// InitDatabase opens the local SQLite file and applies the embedded goose
// migrations; New wires the gateway, the session manager (persisting into
// that database), storage and, when S3 keys are configured, a presigner.
// Typed queries start from Table:
//
//	c, err := client.New(ctx, cfg, db, logger)
//	rows, err := client.Table[models.RankingEntry](c, "rankings").Limit(5).Execute(ctx)
package client
