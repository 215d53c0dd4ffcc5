// Package gateway sends single HTTP requests to the backend, attaching the
// project API key and the current bearer token, and maps failures onto
// TransportError and APIError. It holds no auth logic: the session manager
// pushes tokens in through SetAccessToken and ClearAccessToken.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/void2610/online-type-game/internal/logging"
)

// MaxResponseSize bounds how much of a response body is read into memory.
const MaxResponseSize int64 = 256 << 20

const (
	HeaderAPIKey        = "apikey"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderPrefer        = "Prefer"
	HeaderRequestID     = "X-Request-Id"

	ContentTypeJSON = "application/json"
)

// Options configures a Gateway. BaseURL and APIKey are required.
type Options struct {
	BaseURL string
	APIKey  string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger receives one debug line per request. If nil, logging.Nop() is used.
	Logger logging.Logger
}

type Gateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logging.Logger

	mu    sync.RWMutex
	token string
}

func New(opts Options) (*Gateway, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("gateway: BaseURL is required")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gateway: APIKey is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Gateway{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		logger:     logger.With("component", "gateway"),
	}, nil
}

// BaseURL returns the configured backend URL without a trailing slash.
func (g *Gateway) BaseURL() string { return g.baseURL }

func (g *Gateway) SetAccessToken(token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

func (g *Gateway) ClearAccessToken() {
	g.SetAccessToken("")
}

func (g *Gateway) AccessToken() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// Send performs a JSON request and returns the raw 2xx response body.
// A nil body is sent as {} for POST and PATCH and omitted otherwise.
func (g *Gateway) Send(ctx context.Context, method, path string, body any, header http.Header) ([]byte, error) {
	var reader io.Reader
	if body == nil && (method == http.MethodPost || method == http.MethodPatch) {
		body = struct{}{}
	}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	contentType := ""
	if reader != nil {
		contentType = ContentTypeJSON
	}
	return g.do(ctx, method, path, contentType, reader, header)
}

// Raw performs a request with an opaque body, for binary object storage.
func (g *Gateway) Raw(ctx context.Context, method, path, contentType string, body io.Reader, header http.Header) ([]byte, error) {
	return g.do(ctx, method, path, contentType, body, header)
}

// Execute sends a JSON request and decodes the response into T. An empty
// response body yields (nil, nil).
func Execute[T any](ctx context.Context, g *Gateway, method, path string, body any, header http.Header) (*T, error) {
	data, err := g.Send(ctx, method, path, body, header)
	if err != nil {
		return nil, err
	}
	return Decode[T](data)
}

// Decode unmarshals a response body. Blank bodies decode to nil.
func Decode[T any](data []byte) (*T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("gateway: %w: %w", ErrMalformedResponse, err)
	}
	return &v, nil
}

func (g *Gateway) do(ctx context.Context, method, path, contentType string, body io.Reader, header http.Header) ([]byte, error) {
	requestURL := g.baseURL + "/" + strings.TrimLeft(path, "/")

	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: create request: %w", err)
	}

	requestID := uuid.NewString()
	request.Header.Set(HeaderAPIKey, g.apiKey)
	request.Header.Set(HeaderRequestID, requestID)
	if token := g.AccessToken(); token != "" {
		request.Header.Set(HeaderAuthorization, "Bearer "+token)
	}
	if contentType != "" {
		request.Header.Set(HeaderContentType, contentType)
	}
	for k, values := range header {
		request.Header.Del(k)
		for _, v := range values {
			request.Header.Add(k, v)
		}
	}

	response, err := g.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, MaxResponseSize))
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("read response body: %w", err)}
	}

	g.logger.Debug(ctx, "request done",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
	)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}
	return nil, newAPIError(response.StatusCode, responseBody)
}
