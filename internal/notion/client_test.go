package notion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/docmirror/internal/apperr"
	"github.com/starford/docmirror/internal/remote"
)

const testPageID = "2e60a5be-7bbe-80e6-8b23-f1f5f158aaee"

func fakeNotion(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	rt, err := remote.Rebase(srv.URL, "https://api.notion.com", nil)
	require.NoError(t, err)
	return NewClient("secret", remote.NewHTTPClient(0, rt))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_ListChildren(t *testing.T) {
	var cursors []string
	r := chi.NewRouter()
	r.Get("/v1/blocks/{id}/children", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, testPageID, chi.URLParam(req, "id"))
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
		cursors = append(cursors, req.URL.Query().Get("start_cursor"))

		if req.URL.Query().Get("start_cursor") == "" {
			writeJSON(w, http.StatusOK, `{
				"object": "list",
				"results": [
					{"object": "block", "id": "b1", "type": "heading_2", "has_children": false,
					 "heading_2": {"rich_text": [{"type": "text", "text": {"content": "Overview"}, "plain_text": "Overview",
					   "annotations": {"bold": true}}]}},
					{"object": "block", "id": "b2", "type": "to_do", "has_children": false,
					 "to_do": {"checked": true, "rich_text": [{"type": "text", "text": {"content": "Buy milk"}, "plain_text": "Buy milk"}]}}
				],
				"next_cursor": "cur-2",
				"has_more": true
			}`)
			return
		}
		writeJSON(w, http.StatusOK, `{
			"object": "list",
			"results": [
				{"object": "block", "id": "b3", "type": "child_page", "has_children": true,
				 "child_page": {"title": "Sprint/Plan"}}
			],
			"next_cursor": null,
			"has_more": false
		}`)
	})
	c := fakeNotion(t, r)

	blocks := NewFetcher(c, nil).Children(context.Background(), testPageID)
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"", "cur-2"}, cursors)

	assert.Equal(t, Heading{Base: Base{ID: "b1"}, Level: 2, Text: RichText{{Text: "Overview", Bold: true}}}, blocks[0])
	assert.Equal(t, ToDo{Base: Base{ID: "b2"}, Checked: true, Text: RichText{{Text: "Buy milk"}}}, blocks[1])
	assert.Equal(t, ChildPage{Base: Base{ID: "b3", HasChildren: true}, Title: "Sprint/Plan"}, blocks[2])
}

func TestClient_PageTitle(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/pages/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"object": "page",
			"id": "`+testPageID+`",
			"properties": {
				"title": {"id": "title", "type": "title",
				  "title": [{"type": "text", "text": {"content": "Team "}, "plain_text": "Team "},
				            {"type": "text", "text": {"content": "Docs"}, "plain_text": "Docs"}]}
			}
		}`)
	})
	c := fakeNotion(t, r)

	title, err := c.PageTitle(context.Background(), testPageID)
	require.NoError(t, err)
	assert.Equal(t, "Team Docs", title)
}

func TestClient_PageTitleNotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/pages/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`)
	})
	c := fakeNotion(t, r)

	_, err := c.PageTitle(context.Background(), testPageID)
	require.ErrorIs(t, err, apperr.ErrRemoteStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_RateLimitedNotRetried(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/v1/pages/{id}", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusTooManyRequests, `{"object":"error","status":429,"code":"rate_limited","message":"Slow down"}`)
	})
	c := fakeNotion(t, r)

	_, err := c.PageTitle(context.Background(), testPageID)
	require.ErrorIs(t, err, apperr.ErrRemoteStatus)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, testPageID, NormalizeID("2e60a5be7bbe80e68b23f1f5f158aaee"))
	assert.Equal(t, testPageID, NormalizeID(testPageID))
	assert.Equal(t, "not-an-id", NormalizeID("not-an-id"))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://www.notion.so/2e60a5be7bbe80e68b23f1f5f158aaee", PageURL(WebBase, testPageID))
}
