// Package notion mirrors a Notion page and its child pages into Markdown.
package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jomei/notionapi"

	"github.com/starford/docmirror/internal/apperr"
	"github.com/starford/docmirror/internal/pager"
)

// DefaultBaseURL is the API host the SDK talks to.
const DefaultBaseURL = "https://api.notion.com"

// listPageSize is the page_size requested from the block children endpoint.
const listPageSize = 100

// maxAttempts caps SDK requests at one, so a 429 fails the call on the first
// response like any other non-OK status.
const maxAttempts = 1

// API is the subset of the Notion API the source depends on.
type API interface {
	ChildLister
	// PageTitle returns the title of a page, "" when it has none.
	PageTitle(ctx context.Context, pageID string) (string, error)
}

// Client implements API on top of the notionapi SDK.
type Client struct {
	api *notionapi.Client
}

var _ API = (*Client)(nil)

// NewClient creates a client authenticated with token. httpClient carries the
// request timeout and, in tests, a rebased transport.
func NewClient(token string, httpClient *http.Client) *Client {
	return &Client{
		api: notionapi.NewClient(notionapi.Token(token),
			notionapi.WithHTTPClient(httpClient),
			notionapi.WithRetry(maxAttempts)),
	}
}

// ListChildren returns one page of a block's children.
func (c *Client) ListChildren(ctx context.Context, blockID, cursor string) (pager.Page[Block], error) {
	resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    listPageSize,
	})
	if err != nil {
		return pager.Page[Block]{}, wrapErr("list children of "+blockID, err)
	}

	blocks := make([]Block, 0, len(resp.Results))
	for _, b := range resp.Results {
		blocks = append(blocks, convertBlock(b))
	}
	return pager.Page[Block]{
		Items:      blocks,
		NextCursor: string(resp.NextCursor),
		HasMore:    resp.HasMore,
	}, nil
}

// PageTitle fetches page metadata and extracts its title property.
func (c *Client) PageTitle(ctx context.Context, pageID string) (string, error) {
	page, err := c.api.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return "", wrapErr("get page "+pageID, err)
	}
	return pageTitle(page.Properties), nil
}

func pageTitle(props notionapi.Properties) string {
	if t, ok := titleText(props["title"]); ok {
		return t
	}
	for _, p := range props {
		if t, ok := titleText(p); ok {
			return t
		}
	}
	return ""
}

func titleText(p notionapi.Property) (string, bool) {
	v, ok := p.(*notionapi.TitleProperty)
	if !ok || v == nil {
		return "", false
	}
	return convertRichText(v.Title).Plain(), true
}

const maxErrorDetail = 200

func wrapErr(op string, err error) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if len(msg) > maxErrorDetail {
			msg = msg[:maxErrorDetail]
		}
		return fmt.Errorf("notion: %s: %w %d: %s", op, apperr.ErrRemoteStatus, apiErr.Status, msg)
	}
	var rateErr *notionapi.RateLimitedError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("notion: %s: %w %d", op, apperr.ErrRemoteStatus, http.StatusTooManyRequests)
	}
	return fmt.Errorf("notion: %s: %w", op, err)
}

// NormalizeID returns id in canonical dashed UUID form. Both the dashed and
// the 32-hex form used in Notion URLs are accepted; anything else is returned
// unchanged.
func NormalizeID(id string) string {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return id
	}
	return u.String()
}

// PageURL is the browser URL of a page.
func PageURL(webBase, id string) string {
	return strings.TrimRight(webBase, "/") + "/" + strings.ReplaceAll(id, "-", "")
}
