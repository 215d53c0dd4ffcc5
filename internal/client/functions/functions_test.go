package functions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/void2610/online-type-game/internal/client/gateway"
)

func newGateway(t *testing.T, h http.HandlerFunc) *gateway.Gateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	gw, err := gateway.New(gateway.Options{BaseURL: srv.URL, APIKey: "anon"})
	require.NoError(t, err)
	return gw
}

func TestInvoke(t *testing.T) {
	var gotPath, gotBody, gotHeader string
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("X-Region")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_ = json.NewEncoder(w).Encode(map[string]int{"rank": 3})
	})

	type result struct {
		Rank int `json:"rank"`
	}
	h := http.Header{}
	h.Set("X-Region", "eu")

	got, err := Invoke[result](context.Background(), gw, "player-rank", map[string]string{"name": "Ann"}, h)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Rank)
	assert.Equal(t, "/functions/v1/player-rank", gotPath)
	assert.JSONEq(t, `{"name":"Ann"}`, gotBody)
	assert.Equal(t, "eu", gotHeader)
}

func TestCall_NilBodyAndEmptyReply(t *testing.T) {
	var gotBody string
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, Call(context.Background(), gw, "cleanup", nil, nil))
	assert.Equal(t, "{}", gotBody)

	got, err := Invoke[map[string]any](context.Background(), gw, "cleanup", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInvoke_APIError(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Function not found"}`))
	})

	_, err := Invoke[map[string]any](context.Background(), gw, "missing", nil, nil)
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Function not found", apiErr.Message)
}

func TestPath_Escapes(t *testing.T) {
	assert.Equal(t, "/functions/v1/a%2Fb", Path("a/b"))
}
