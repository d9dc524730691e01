package remote

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/docmirror/internal/apperr"
)

type board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newServer(t *testing.T, r chi.Router) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetJSON_DecodesAndSendsAuth(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v2/boards/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		assert.Equal(t, "frame", req.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + chi.URLParam(req, "id") + `","name":"Arch"}`))
	})
	srv := newServer(t, r)

	c := NewClient(srv.URL+"/v2/", nil, BearerAuth("tok"))
	var got board
	err := c.GetJSON(context.Background(), "boards/b1", url.Values{"type": {"frame"}}, &got)
	require.NoError(t, err)
	assert.Equal(t, board{ID: "b1", Name: "Arch"}, got)
}

func TestGetJSON_HeaderAuth(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/files/{key}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "figd", req.Header.Get("X-Figma-Token"))
		assert.Empty(t, req.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	})
	srv := newServer(t, r)

	var out map[string]any
	err := NewClient(srv.URL, nil, HeaderAuth("X-Figma-Token", "figd")).GetJSON(context.Background(), "/files/k", nil, &out)
	require.NoError(t, err)
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/boards/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	})
	srv := newServer(t, r)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	c := NewClient(srv.URL, nil, nil, WithLogger(logger))

	var out board
	err := c.GetJSON(context.Background(), "boards/b1", nil, &out)
	require.ErrorIs(t, err, apperr.ErrRemoteStatus)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, logs.String(), `"status":403`)
	assert.Contains(t, logs.String(), strings.Repeat("x", maxErrorBody))
	assert.NotContains(t, logs.String(), strings.Repeat("x", maxErrorBody+1))
}

func TestGetJSON_MalformedBody(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/boards/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})
	srv := newServer(t, r)

	var out board
	err := NewClient(srv.URL, nil, nil).GetJSON(context.Background(), "boards/b1", nil, &out)
	require.ErrorIs(t, err, apperr.ErrMalformedResponse)
}

func TestGetJSON_Timeout(t *testing.T) {
	release := make(chan struct{})
	r := chi.NewRouter()
	r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-release:
		case <-req.Context().Done():
		}
	})
	srv := newServer(t, r)
	defer close(release)

	c := NewClient(srv.URL, NewHTTPClient(50*time.Millisecond, nil), nil)
	var out board
	err := c.GetJSON(context.Background(), "slow", nil, &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrRemoteStatus)
}

func TestGetJSON_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out board
	err := NewClient("http://127.0.0.1:1", nil, nil).GetJSON(ctx, "boards", nil, &out)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRebase(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/pages/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"id":"` + chi.URLParam(req, "id") + `"}`))
	})
	srv := newServer(t, r)

	rt, err := Rebase(srv.URL+"/api", "https://api.notion.com", nil)
	require.NoError(t, err)
	hc := &http.Client{Transport: rt}

	resp, err := hc.Get("https://api.notion.com/v1/pages/p1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRebase_DefaultKeepsTransport(t *testing.T) {
	rt, err := Rebase("https://api.notion.com/", "https://api.notion.com", http.DefaultTransport)
	require.NoError(t, err)
	assert.Same(t, http.DefaultTransport, rt)

	rt, err = Rebase("", "https://api.notion.com", nil)
	require.NoError(t, err)
	assert.Nil(t, rt)
}
