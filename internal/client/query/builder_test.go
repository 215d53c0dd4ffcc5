package query

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID         int64   `json:"id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Accuracy   float64 `json:"accuracy"`
}

type sentRequest struct {
	method string
	path   string
	body   any
	header http.Header
}

type fakeSender struct {
	requests []sentRequest
	response []byte
	err      error
}

func (f *fakeSender) Send(_ context.Context, method, path string, body any, header http.Header) ([]byte, error) {
	f.requests = append(f.requests, sentRequest{method: method, path: path, body: body, header: header})
	return f.response, f.err
}

func TestBuilder_QueryString(t *testing.T) {
	s := &fakeSender{}
	base := From[row](s, "rankings")

	tests := []struct {
		name string
		b    Builder[row]
		want string
	}{
		{"empty", base, ""},
		{"select all", base.Select(), "select=*"},
		{"select columns", base.Select("id, player_name", "score"), "select=id,player_name,score"},
		{
			"filter order and limit",
			base.Eq("score", 42).Order("score", false).Limit(3),
			"score=eq.42&order=score.desc&limit=3",
		},
		{
			"filters keep call order",
			base.Gt("score", 10).Lt("score", 20).Neq("player_name", "Bob"),
			"score=gt.10&score=lt.20&player_name=neq.Bob",
		},
		{"last limit wins", base.Limit(5).Limit(1), "limit=1"},
		{"offset", base.Offset(10).Limit(5), "limit=5&offset=10"},
		{
			"multiple orders",
			base.Order("score", false).Order("created_at", true),
			"order=score.desc,created_at.asc",
		},
		{"nil is null", base.Eq("deleted_at", nil), "deleted_at=eq.null"},
		{"string null is quoted", base.Eq("player_name", "null"), "player_name=eq.%22null%22"},
		{"reserved characters are quoted", base.Eq("email", "a.b@x.io"), "email=eq.%22a.b%40x.io%22"},
		{"quoted set member", base.In("player_name", "Ann", "x,y"), "player_name=in.(Ann,%22x%2Cy%22)"},
		{"escaped value", base.Eq("player_name", "a&b c"), "player_name=eq.a%26b+c"},
		{"in set", base.In("id", 1, 2, 3), "id=in.(1,2,3)"},
		{"like", base.Like("player_name", "A*"), "player_name=like.A%2A"},
		{"bool and float", base.Eq("active", true).Gte("accuracy", 0.5), "active=eq.true&accuracy=gte.0.5"},
		{
			"time",
			base.Gte("updated_at", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
			"updated_at=gte.2024-01-02T03%3A04%3A05Z",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.b.QueryString())
		})
	}
}

func TestBuilder_IsImmutable(t *testing.T) {
	s := &fakeSender{}
	base := From[row](s, "rankings").Select("*").Eq("player_name", "Ann")

	a := base.Gt("score", 1)
	b := base.Lt("score", 2)
	_ = base.Order("score", true).Limit(9)

	assert.Equal(t, "select=*&player_name=eq.Ann", base.QueryString())
	assert.Equal(t, "select=*&player_name=eq.Ann&score=gt.1", a.QueryString())
	assert.Equal(t, "select=*&player_name=eq.Ann&score=lt.2", b.QueryString())
}

func TestBuilder_Path(t *testing.T) {
	s := &fakeSender{}
	assert.Equal(t, "/rest/v1/rankings", From[row](s, "rankings").Path())
	assert.Equal(t, "/rest/v1/rankings?limit=1", From[row](s, "rankings").Limit(1).Path())
}

func TestBuilder_Execute(t *testing.T) {
	s := &fakeSender{response: []byte(`[{"id":1,"player_name":"Ann","score":120,"accuracy":0.95}]`)}

	rows, err := From[row](s, "rankings").Select("*").Order("score", false).Limit(10).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ann", rows[0].PlayerName)

	require.Len(t, s.requests, 1)
	assert.Equal(t, http.MethodGet, s.requests[0].method)
	assert.Equal(t, "/rest/v1/rankings?select=*&order=score.desc&limit=10", s.requests[0].path)
	assert.Nil(t, s.requests[0].body)
}

func TestBuilder_ExecuteEmptyResponses(t *testing.T) {
	for _, body := range []string{"", "null", "[]"} {
		s := &fakeSender{response: []byte(body)}
		rows, err := From[row](s, "rankings").Execute(context.Background())
		require.NoError(t, err, body)
		assert.NotNil(t, rows, body)
		assert.Empty(t, rows, body)
	}
}

func TestBuilder_ExecuteMalformed(t *testing.T) {
	s := &fakeSender{response: []byte(`{"not":"an array"`)}
	_, err := From[row](s, "rankings").Execute(context.Background())
	require.Error(t, err)
}

func TestBuilder_ExecutePropagatesSenderError(t *testing.T) {
	want := errors.New("boom")
	s := &fakeSender{err: want}
	_, err := From[row](s, "rankings").Execute(context.Background())
	assert.ErrorIs(t, err, want)
}

func TestBuilder_EmptyInSet(t *testing.T) {
	s := &fakeSender{}
	b := From[row](s, "rankings").In("id").Eq("score", 1)

	_, err := b.Execute(context.Background())
	assert.ErrorIs(t, err, ErrEmptyInSet)
	_, err = b.Delete(context.Background())
	assert.ErrorIs(t, err, ErrEmptyInSet)
	assert.Empty(t, s.requests)
}

func TestBuilder_Single(t *testing.T) {
	s := &fakeSender{response: []byte(`[]`)}
	got, err := From[row](s, "rankings").Eq("player_name", "Nobody").Single(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "/rest/v1/rankings?player_name=eq.Nobody&limit=1", s.requests[0].path)

	s.response = []byte(`[{"id":7,"player_name":"Ann"}]`)
	got, err = From[row](s, "rankings").Single(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)
}

func TestBuilder_Insert(t *testing.T) {
	s := &fakeSender{response: []byte(`[{"id":1,"player_name":"Ann","score":120,"accuracy":0.95}]`)}
	in := map[string]any{"player_name": "Ann", "score": 120, "accuracy": 0.95}

	got, err := From[row](s, "rankings").Eq("ignored", 1).Insert(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, row{ID: 1, PlayerName: "Ann", Score: 120, Accuracy: 0.95}, *got)

	require.Len(t, s.requests, 1)
	req := s.requests[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/rest/v1/rankings", req.path)
	assert.Equal(t, in, req.body)
	assert.Equal(t, "return=representation", req.header.Get("Prefer"))
}

func TestBuilder_InsertEmptyEcho(t *testing.T) {
	s := &fakeSender{response: []byte(`[]`)}
	got, err := From[row](s, "rankings").Insert(context.Background(), row{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBuilder_Upsert(t *testing.T) {
	s := &fakeSender{response: []byte(`[{"id":1},{"id":2}]`)}
	got, err := From[row](s, "rankings").Upsert(context.Background(), []row{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "return=representation,resolution=merge-duplicates", s.requests[0].header.Get("Prefer"))
}

func TestBuilder_UpdateAndDeleteUseFiltersOnly(t *testing.T) {
	s := &fakeSender{response: []byte(`[{"id":3}]`)}
	b := From[row](s, "rankings").Eq("id", 3).Order("score", false).Limit(1)

	got, err := b.Update(context.Background(), map[string]any{"score": 10})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = b.Delete(context.Background())
	require.NoError(t, err)

	require.Len(t, s.requests, 2)
	assert.Equal(t, http.MethodPatch, s.requests[0].method)
	assert.Equal(t, "/rest/v1/rankings?id=eq.3", s.requests[0].path)
	assert.Equal(t, http.MethodDelete, s.requests[1].method)
	assert.Equal(t, "/rest/v1/rankings?id=eq.3", s.requests[1].path)
	assert.Nil(t, s.requests[1].body)
}

func TestRPC(t *testing.T) {
	s := &fakeSender{response: []byte(`{"rank":4}`)}
	type rank struct {
		Rank int `json:"rank"`
	}

	got, err := RPC[rank](context.Background(), s, "player_rank", map[string]string{"name": "Ann"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.Rank)
	assert.Equal(t, http.MethodPost, s.requests[0].method)
	assert.Equal(t, "/rest/v1/rpc/player_rank", s.requests[0].path)
}

func TestEncodeValue(t *testing.T) {
	var nilPtr *string
	name := "Ann"

	assert.Equal(t, "null", EncodeValue(nil))
	assert.Equal(t, "null", EncodeValue(nilPtr))
	assert.Equal(t, "Ann", EncodeValue(&name))
	assert.Equal(t, "42", EncodeValue(42))
	assert.Equal(t, "-1", EncodeValue(int64(-1)))
	assert.Equal(t, "1.25", EncodeValue(1.25))
	assert.Equal(t, "false", EncodeValue(false))
}

func TestEncodeValue_NullStringDiffersFromNil(t *testing.T) {
	assert.NotEqual(t, EncodeValue(nil), EncodeValue("null"))
	assert.Equal(t, "%22null%22", EncodeValue("null"))
	assert.Equal(t, "%22NULL%22", EncodeValue("NULL"))

	var nilPtr *string
	null := "null"
	assert.NotEqual(t, EncodeValue(nilPtr), EncodeValue(&null))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Ann", "Ann"},
		{"parens", "f(x)", "%22f%28x%29%22"},
		{"colon", "a:b", "%22a%3Ab%22"},
		{"embedded quote", `say "hi".`, "%22say+%5C%22hi%5C%22.%22"},
		{"backslash", `a`, "%22a%5C%5Cb%22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeValue(tt.in))
		})
	}
}
