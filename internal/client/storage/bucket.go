// Package storage talks to the object storage API: a Bucket for direct
// uploads and downloads through the gateway, and a Presigner that mints
// S3-compatible presigned URLs for the same buckets.
package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/void2610/online-type-game/internal/client/gateway"
)

const (
	objectPrefix = "/storage/v1/object/"

	DefaultContentType = "application/octet-stream"
)

// Transport is the part of the gateway a Bucket uses.
type Transport interface {
	BaseURL() string
	Send(ctx context.Context, method, path string, body any, header http.Header) ([]byte, error)
	Raw(ctx context.Context, method, path, contentType string, body io.Reader, header http.Header) ([]byte, error)
}

// Bucket addresses one storage bucket. Object paths may contain '/'.
type Bucket struct {
	transport Transport
	name      string
}

func NewBucket(t Transport, name string) *Bucket {
	return &Bucket{transport: t, name: name}
}

func (b *Bucket) Name() string { return b.name }

type uploadResponse struct {
	Key string `json:"Key"`
}

// Upload stores data at path and returns the storage key ("bucket/path").
func (b *Bucket) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = DefaultContentType
	}
	body, err := b.transport.Raw(ctx, http.MethodPost, b.objectPath(path), contentType, bytes.NewReader(data), nil)
	if err != nil {
		return "", err
	}
	resp, err := gateway.Decode[uploadResponse](body)
	if err != nil || resp == nil {
		return "", err
	}
	return resp.Key, nil
}

// Download returns the object's bytes.
func (b *Bucket) Download(ctx context.Context, path string) ([]byte, error) {
	return b.transport.Raw(ctx, http.MethodGet, b.objectPath(path), "", nil, nil)
}

// Remove deletes one object.
func (b *Bucket) Remove(ctx context.Context, path string) error {
	_, err := b.transport.Send(ctx, http.MethodDelete, b.objectPath(path), nil, nil)
	return err
}

// RemoveMany deletes every listed object in one request.
func (b *Bucket) RemoveMany(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	body := struct {
		Prefixes []string `json:"prefixes"`
	}{Prefixes: paths}
	_, err := b.transport.Send(ctx, http.MethodDelete, objectPrefix+url.PathEscape(b.name), body, nil)
	return err
}

// PublicURL is the unauthenticated URL of an object in a public bucket.
func (b *Bucket) PublicURL(path string) string {
	return b.transport.BaseURL() + objectPrefix + "public/" + url.PathEscape(b.name) + "/" + escapeObjectPath(path)
}

func (b *Bucket) objectPath(path string) string {
	return objectPrefix + url.PathEscape(b.name) + "/" + escapeObjectPath(path)
}

func escapeObjectPath(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
