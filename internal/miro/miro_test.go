package miro

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/docmirror/internal/apperr"
	"github.com/starford/docmirror/internal/document"
	"github.com/starford/docmirror/internal/mirror"
	"github.com/starford/docmirror/internal/storage"
)

const boardID = "uXjVGPKWI70="

// fakeMiro serves a board with two frames and items split over two pages.
func fakeMiro(t *testing.T, boardStatus int) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	r := chi.NewRouter()
	r.Get("/v2/boards/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, boardID, chi.URLParam(req, "id"))
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		if boardStatus != http.StatusOK {
			w.WriteHeader(boardStatus)
			_, _ = w.Write([]byte(`{"message":"no access"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"` + boardID + `","name":"System Map","description":"",` +
			`"createdAt":"2024-05-01T09:00:00Z","modifiedAt":"2025-01-15T18:30:00Z"}`))
	})
	r.Get("/v2/boards/{id}/items", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		seen = append(seen, q.Get("type")+"@"+q.Get("cursor"))
		assert.Equal(t, "50", q.Get("limit"))
		switch {
		case q.Get("type") == "frame":
			_, _ = w.Write([]byte(`{"data":[{"id":"f1","type":"frame","data":{"title":"Backend"}},` +
				`{"id":"f2","type":"frame","data":{}}],"cursor":""}`))
		case q.Get("cursor") == "":
			_, _ = w.Write([]byte(`{"data":[{"id":"1","type":"sticky_note"},{"id":"2","type":"frame"}],"cursor":"next"}`))
		default:
			_, _ = w.Write([]byte(`{"data":[{"id":"3","type":"sticky_note"},{"id":"4","type":"card"}]}`))
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestSource(t *testing.T, api API) (*Source, string, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	env := mirror.Env{
		Writer: document.NewWriter(store),
		Out:    out,
		Now:    func() time.Time { return time.Date(2026, 2, 1, 8, 0, 0, 0, time.Local) },
	}
	cfg := Config{
		BoardID:      boardID,
		DefaultTitle: "Architecture Board",
		Folder:       "Architecture",
		Tags:         []string{"docs", "miro"},
		TokenEnv:     "MIRO_ACCESS_TOKEN",
	}
	return NewSource(cfg, api, env), root, out
}

func readIndex(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "Architecture", "index.md"))
	require.NoError(t, err)
	return string(data)
}

func TestClient_ItemsPaginates(t *testing.T) {
	srv, seen := fakeMiro(t, http.StatusOK)
	c := NewClient(srv.URL+"/v2", "tok", nil, 0)

	first, err := c.Items(context.Background(), boardID, "", "")
	require.NoError(t, err)
	assert.True(t, first.HasMore)
	assert.Equal(t, "next", first.NextCursor)

	second, err := c.Items(context.Background(), boardID, "", first.NextCursor)
	require.NoError(t, err)
	assert.False(t, second.HasMore)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, []string{"@", "@next"}, *seen)
}

func TestClient_BoardError(t *testing.T) {
	srv, _ := fakeMiro(t, http.StatusUnauthorized)
	_, err := NewClient(srv.URL+"/v2", "tok", nil, 0).Board(context.Background(), boardID)
	require.ErrorIs(t, err, apperr.ErrRemoteStatus)
}

func TestSource_SyncWritesBoardDocument(t *testing.T) {
	srv, _ := fakeMiro(t, http.StatusOK)
	src, root, _ := newTestSource(t, NewClient(srv.URL+"/v2", "tok", nil, 0))

	require.NoError(t, src.Sync(context.Background()))
	index := readIndex(t, root)

	assert.Contains(t, index, `title: "System Map"`)
	assert.Contains(t, index, "source_url: https://miro.com/app/board/uXjVGPKWI70=/")
	assert.Contains(t, index, "# System Map\n\n_No description_\n")
	assert.Contains(t, index, "- Created: 2024-05-01\n- Last modified: 2025-01-15\n")
	assert.Contains(t, index, "## Frames\n\n- **Backend**\n- **Untitled Frame**\n")
	assert.Contains(t, index, "## Content Summary\n\n- card: 1\n- frame: 1\n- sticky_note: 2\n")
	assert.Contains(t, index, "_Source: [Miro Board](https://miro.com/app/board/uXjVGPKWI70=/)_")
}

func TestSource_PlaceholderOnBoardFailure(t *testing.T) {
	srv, seen := fakeMiro(t, http.StatusForbidden)
	src, root, out := newTestSource(t, NewClient(srv.URL+"/v2", "tok", nil, 0))

	require.NoError(t, src.Sync(context.Background()))
	index := readIndex(t, root)
	assert.Contains(t, index, `title: "Architecture Board"`)
	assert.Contains(t, index, "## API Setup (Optional)")
	assert.Contains(t, out.String(), "creating placeholder")
	assert.Empty(t, *seen)
}

func TestSource_PlaceholderWithoutToken(t *testing.T) {
	src, root, _ := newTestSource(t, nil)
	require.NoError(t, src.Sync(context.Background()))
	assert.Contains(t, readIndex(t, root), "MIRO_ACCESS_TOKEN=your_token_here")
}

func TestDay(t *testing.T) {
	assert.Equal(t, "Unknown", day(""))
	assert.Equal(t, "2024-05-01", day("2024-05-01T09:00:00Z"))
	assert.Equal(t, "2024", day("2024"))
}
