// Package pager drains cursor-paginated listings.
package pager

import (
	"context"
	"fmt"

	"github.com/starford/docmirror/internal/apperr"
)

// Page is one response of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// FetchFunc requests the listing page that starts at cursor ("" for the first page).
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Collect requests pages until the listing reports no more and returns all
// items in response order. It is best effort: when a request fails, the items
// gathered so far are returned together with the error.
func Collect[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	var (
		out    []T
		cursor string
		seen   = make(map[string]struct{})
	)
	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return out, err
		}
		out = append(out, page.Items...)

		if !page.HasMore {
			return out, nil
		}
		if page.NextCursor == "" {
			return out, fmt.Errorf("pager: more pages reported without a cursor: %w", apperr.ErrMalformedResponse)
		}
		if _, dup := seen[page.NextCursor]; dup {
			return out, fmt.Errorf("pager: cursor %q repeated: %w", page.NextCursor, apperr.ErrMalformedResponse)
		}
		seen[page.NextCursor] = struct{}{}
		cursor = page.NextCursor
	}
}
