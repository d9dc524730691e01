// Package figma mirrors a Figma file's pages, frames and components into a
// single vault document.
package figma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/starford/docmirror/internal/remote"
)

// DefaultBaseURL is the Figma REST API v1 root.
const DefaultBaseURL = "https://api.figma.com/v1"

// tokenHeader carries the personal access token.
const tokenHeader = "X-Figma-Token"

// Node is one node of a file's document tree.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Children []Node `json:"children"`
}

// File is the subset of file metadata that is mirrored.
type File struct {
	Name         string `json:"name"`
	LastModified string `json:"lastModified"`
	Version      string `json:"version"`
	Document     Node   `json:"document"`
}

// Component is a published component of a file.
type Component struct {
	Key    string `json:"key"`
	NodeID string `json:"node_id"`
	Name   string `json:"name"`
}

// Components decodes either a JSON array of components or an object keyed by
// component ID. Object entries are ordered by key.
type Components []Component

// UnmarshalJSON implements json.Unmarshaler.
func (c *Components) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}
	if data[0] == '[' {
		var list []Component
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*c = list
		return nil
	}

	var keyed map[string]Component
	if err := json.Unmarshal(data, &keyed); err != nil {
		return fmt.Errorf("figma: components: %w", err)
	}
	ids := make([]string, 0, len(keyed))
	for id := range keyed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make(Components, 0, len(ids))
	for _, id := range ids {
		out = append(out, keyed[id])
	}
	*c = out
	return nil
}

type componentsResponse struct {
	Meta struct {
		Components Components `json:"components"`
	} `json:"meta"`
}

// API is the subset of the Figma API the source depends on.
type API interface {
	File(ctx context.Context, key string) (File, error)
	Components(ctx context.Context, key string) (Components, error)
}

// Client implements API over the REST endpoints.
type Client struct {
	rest *remote.Client
}

var _ API = (*Client)(nil)

// NewClient creates a client authenticated with a personal access token.
func NewClient(baseURL, token string, httpClient *http.Client, opts ...remote.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{rest: remote.NewClient(baseURL, httpClient, remote.HeaderAuth(tokenHeader, token), opts...)}
}

// File fetches file metadata and its document tree.
func (c *Client) File(ctx context.Context, key string) (File, error) {
	var f File
	err := c.rest.GetJSON(ctx, "files/"+url.PathEscape(key), nil, &f)
	return f, err
}

// Components fetches the file's published components.
func (c *Client) Components(ctx context.Context, key string) (Components, error) {
	var resp componentsResponse
	if err := c.rest.GetJSON(ctx, "files/"+url.PathEscape(key)+"/components", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Meta.Components, nil
}
