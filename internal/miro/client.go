// Package miro mirrors a Miro board's metadata, frames and content summary
// into a single vault document.
package miro

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/starford/docmirror/internal/pager"
	"github.com/starford/docmirror/internal/remote"
)

// DefaultBaseURL is the Miro REST API v2 root.
const DefaultBaseURL = "https://api.miro.com/v2"

// DefaultPageSize is the item listing limit per request.
const DefaultPageSize = 50

// Board is the subset of board metadata that is mirrored.
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	ModifiedAt  string `json:"modifiedAt"`
}

// Item is one widget on a board.
type Item struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Title string `json:"title"`
	} `json:"data"`
}

type itemList struct {
	Data   []Item `json:"data"`
	Cursor string `json:"cursor"`
}

// API is the subset of the Miro API the source depends on.
type API interface {
	Board(ctx context.Context, boardID string) (Board, error)
	// Items lists one page of board items, optionally filtered by type.
	Items(ctx context.Context, boardID, itemType, cursor string) (pager.Page[Item], error)
}

// Client implements API over the REST endpoints.
type Client struct {
	rest     *remote.Client
	pageSize int
}

var _ API = (*Client)(nil)

// NewClient creates a client authenticated with a bearer token.
func NewClient(baseURL, token string, httpClient *http.Client, pageSize int, opts ...remote.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		rest:     remote.NewClient(baseURL, httpClient, remote.BearerAuth(token), opts...),
		pageSize: pageSize,
	}
}

// Board fetches board metadata.
func (c *Client) Board(ctx context.Context, boardID string) (Board, error) {
	var b Board
	err := c.rest.GetJSON(ctx, "boards/"+url.PathEscape(boardID), nil, &b)
	return b, err
}

// Items fetches one page of items. An empty cursor starts at the beginning.
func (c *Client) Items(ctx context.Context, boardID, itemType, cursor string) (pager.Page[Item], error) {
	q := url.Values{"limit": {strconv.Itoa(c.pageSize)}}
	if itemType != "" {
		q.Set("type", itemType)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var list itemList
	if err := c.rest.GetJSON(ctx, "boards/"+url.PathEscape(boardID)+"/items", q, &list); err != nil {
		return pager.Page[Item]{}, err
	}
	return pager.Page[Item]{
		Items:      list.Data,
		NextCursor: list.Cursor,
		HasMore:    list.Cursor != "",
	}, nil
}

// BoardURL is the browser URL of a board.
func BoardURL(boardID string) string {
	return "https://miro.com/app/board/" + boardID + "/"
}
