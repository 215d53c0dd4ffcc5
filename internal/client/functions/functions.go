// Package functions invokes edge functions through the gateway.
package functions

import (
	"context"
	"net/http"
	"net/url"

	"github.com/void2610/online-type-game/internal/client/gateway"
)

const pathPrefix = "/functions/v1/"

// Sender is the part of the gateway used to call functions.
type Sender interface {
	Send(ctx context.Context, method, path string, body any, header http.Header) ([]byte, error)
}

// Path returns the endpoint for the named function.
func Path(name string) string {
	return pathPrefix + url.PathEscape(name)
}

// Invoke POSTs body to the function and decodes its JSON reply. An empty
// reply yields (nil, nil).
func Invoke[T any](ctx context.Context, s Sender, name string, body any, header http.Header) (*T, error) {
	data, err := s.Send(ctx, http.MethodPost, Path(name), body, header)
	if err != nil {
		return nil, err
	}
	return gateway.Decode[T](data)
}

// Call invokes the function and discards its reply.
func Call(ctx context.Context, s Sender, name string, body any, header http.Header) error {
	_, err := s.Send(ctx, http.MethodPost, Path(name), body, header)
	return err
}
