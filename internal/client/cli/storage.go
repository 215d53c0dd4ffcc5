package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/void2610/online-type-game/internal/netx"
)

// Upload: upload <bucket> <path> <file>. With S3 keys configured the file
// goes through a presigned URL, otherwise through the storage API.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: upload <bucket> <path> <file>", errUsage)
	}
	bucket, path, file := args[0], args[1], args[2]

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(file))

	if p := a.client.Presigner; p != nil {
		url, err := p.PresignPut(ctx, bucket, path)
		if err != nil {
			return err
		}
		if err := netx.UploadToPresignedURL(ctx, nil, url, data, contentType); err != nil {
			return err
		}
		a.printf("Uploaded %d bytes to %s/%s\n", len(data), bucket, path)
		return nil
	}

	key, err := a.client.Bucket(bucket).Upload(ctx, path, data, contentType)
	if err != nil {
		return err
	}
	a.printf("Uploaded %d bytes as %s\n", len(data), key)
	return nil
}

// Download: download <bucket> <path> <file>
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: download <bucket> <path> <file>", errUsage)
	}
	bucket, path, file := args[0], args[1], args[2]

	data, err := a.client.Bucket(bucket).Download(ctx, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	a.printf("Saved %d bytes to %s\n", len(data), file)
	return nil
}
