package notion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/docmirror/internal/pager"
)

// pagedLister serves a fixed sequence of listing pages for one block.
type pagedLister struct {
	pages   []pager.Page[Block]
	failAt  int // request index that fails, -1 for none
	cursors []string
}

func (l *pagedLister) ListChildren(_ context.Context, _ string, cursor string) (pager.Page[Block], error) {
	i := len(l.cursors)
	l.cursors = append(l.cursors, cursor)
	if i == l.failAt {
		return pager.Page[Block]{}, errors.New("boom")
	}
	return l.pages[i], nil
}

func threePages() []pager.Page[Block] {
	return []pager.Page[Block]{
		{Items: []Block{Paragraph{Base: Base{ID: "1"}}, ChildPage{Base: Base{ID: "c1"}, Title: "Alpha"}}, NextCursor: "k1", HasMore: true},
		{Items: []Block{Paragraph{Base: Base{ID: "2"}}}, NextCursor: "k2", HasMore: true},
		{Items: []Block{ChildPage{Base: Base{ID: "c2"}, Title: "Beta"}}},
	}
}

func TestFetcher_ChildrenFollowsCursors(t *testing.T) {
	l := &pagedLister{pages: threePages(), failAt: -1}
	blocks := NewFetcher(l, nil).Children(context.Background(), "root")

	require.Len(t, blocks, 4)
	assert.Equal(t, []string{"", "k1", "k2"}, l.cursors)
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = IDOf(b)
	}
	assert.Equal(t, []string{"1", "c1", "2", "c2"}, ids)
}

func TestFetcher_ChildrenKeepsPartialResults(t *testing.T) {
	l := &pagedLister{pages: threePages(), failAt: 1}
	blocks := NewFetcher(l, nil).Children(context.Background(), "root")

	assert.Len(t, blocks, 2)
	assert.Len(t, l.cursors, 2)
}

func TestFetcher_PageCollectsChildPages(t *testing.T) {
	l := &pagedLister{pages: threePages(), failAt: -1}
	page := NewFetcher(l, nil).Page(context.Background(), "root", "Home")

	assert.Equal(t, "Home", page.Title)
	assert.Equal(t, []ChildRef{{ID: "c1", Title: "Alpha"}, {ID: "c2", Title: "Beta"}}, page.Children)
}

func TestChildPages_SingleLevel(t *testing.T) {
	blocks := []Block{
		Toggle{Base: Base{ID: "t", HasChildren: true}},
		ChildDatabase{Base: Base{ID: "db"}, Title: "Tasks"},
	}
	assert.Empty(t, ChildPages(blocks))
}
