package notion

import (
	"context"
	"log/slog"

	"github.com/starford/docmirror/internal/pager"
)

// ChildLister returns one page of a block's children, starting at cursor.
type ChildLister interface {
	ListChildren(ctx context.Context, blockID, cursor string) (pager.Page[Block], error)
}

// ChildRef identifies a child page found while scanning a page's blocks.
type ChildRef struct {
	ID    string
	Title string
}

// Page is a fetched page with its top-level blocks.
type Page struct {
	ID       string
	Title    string
	Blocks   []Block
	Children []ChildRef
}

// Fetcher walks paginated block listings.
type Fetcher struct {
	lister ChildLister
	logger *slog.Logger
}

// NewFetcher creates a fetcher on top of lister.
func NewFetcher(lister ChildLister, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{lister: lister, logger: logger}
}

// Children returns every child of blockID in listing order. A failed request
// ends the walk and whatever was gathered before it is returned.
func (f *Fetcher) Children(ctx context.Context, blockID string) []Block {
	blocks, err := pager.Collect(ctx, func(ctx context.Context, cursor string) (pager.Page[Block], error) {
		return f.lister.ListChildren(ctx, blockID, cursor)
	})
	if err != nil {
		f.logger.Warn("notion: child listing incomplete",
			slog.String("block_id", blockID),
			slog.Int("fetched", len(blocks)),
			slog.String("error", err.Error()))
	}
	return blocks
}

// Page fetches the top-level blocks of page id and collects its child pages.
func (f *Fetcher) Page(ctx context.Context, id, title string) Page {
	blocks := f.Children(ctx, id)
	return Page{
		ID:       id,
		Title:    title,
		Blocks:   blocks,
		Children: ChildPages(blocks),
	}
}

// ChildPages scans blocks, without descending, for child page references.
func ChildPages(blocks []Block) []ChildRef {
	var refs []ChildRef
	for _, b := range blocks {
		if cp, ok := b.(ChildPage); ok {
			refs = append(refs, ChildRef{ID: cp.ID, Title: cp.Title})
		}
	}
	return refs
}
