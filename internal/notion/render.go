package notion

import (
	"context"
	"log/slog"
	"strings"

	"github.com/starford/docmirror/internal/document"
)

// DefaultMaxDepth bounds toggle recursion when no depth is configured.
const DefaultMaxDepth = 8

// ChildFetcher returns the complete ordered children of a block.
type ChildFetcher interface {
	Children(ctx context.Context, blockID string) []Block
}

// Renderer converts blocks to Markdown, fetching toggle children on demand.
type Renderer struct {
	children ChildFetcher
	maxDepth int
	logger   *slog.Logger
}

// NewRenderer creates a renderer. maxDepth <= 0 selects DefaultMaxDepth.
func NewRenderer(children ChildFetcher, maxDepth int, logger *slog.Logger) *Renderer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{children: children, maxDepth: maxDepth, logger: logger}
}

// Render converts blocks to Markdown in their given order.
func (r *Renderer) Render(ctx context.Context, blocks []Block) string {
	return strings.Join(r.lines(ctx, blocks, 0), "\n")
}

func (r *Renderer) lines(ctx context.Context, blocks []Block, depth int) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, r.block(ctx, b, depth)...)
	}
	return out
}

func (r *Renderer) block(ctx context.Context, b Block, depth int) []string {
	switch b := b.(type) {
	case Paragraph:
		return []string{b.Text.Markdown(), ""}
	case Heading:
		level := max(b.Level, 1)
		return []string{strings.Repeat("#", level) + " " + b.Text.Markdown(), ""}
	case BulletedItem:
		return []string{"- " + b.Text.Markdown()}
	case NumberedItem:
		// Every item is "1."; Markdown renderers renumber the list.
		return []string{"1. " + b.Text.Markdown()}
	case ToDo:
		mark := " "
		if b.Checked {
			mark = "x"
		}
		return []string{"- [" + mark + "] " + b.Text.Markdown()}
	case Toggle:
		return r.toggle(ctx, b, depth)
	case Code:
		return []string{"```" + b.Language, b.Text.Markdown(), "```", ""}
	case Quote:
		return []string{"> " + b.Text.Markdown(), ""}
	case Divider:
		return []string{"---", ""}
	case Callout:
		prefix := "> "
		if b.Emoji != "" {
			prefix += b.Emoji + " "
		}
		return []string{prefix + b.Text.Markdown(), ""}
	case Image:
		return []string{"![" + b.Caption.Markdown() + "](" + b.URL + ")", ""}
	case Bookmark:
		text := b.Caption.Markdown()
		if text == "" {
			text = b.URL
		}
		return []string{"[" + text + "](" + b.URL + ")", ""}
	case ChildPage:
		return []string{"- " + WikiLink(b.Title)}
	case ChildDatabase:
		return []string{"📊 **Database:** " + b.Title, ""}
	case Table:
		return []string{"_[Table content - see Notion]_", ""}
	default:
		return nil
	}
}

func (r *Renderer) toggle(ctx context.Context, b Toggle, depth int) []string {
	out := []string{"<details><summary>" + b.Text.Markdown() + "</summary>", ""}
	if b.HasChildren {
		if depth+1 > r.maxDepth {
			r.logger.Warn("notion: toggle nesting too deep, children skipped",
				slog.String("block_id", b.ID),
				slog.String("summary", b.Text.Plain()),
				slog.Int("max_depth", r.maxDepth))
		} else {
			out = append(out, r.lines(ctx, r.children.Children(ctx, b.ID), depth+1)...)
		}
	}
	return append(out, "</details>", "")
}

// WikiLink formats an Obsidian link to the file a page titled title is
// saved as, displaying the original title.
func WikiLink(title string) string {
	return "[[" + FileName(title) + "|" + title + "]]"
}

// FileName is the vault file name, without extension, for a page title.
// Names that sanitize to nothing become "Untitled"; a child named like the
// root index file is renamed so it cannot replace it.
func FileName(title string) string {
	name := document.Sanitize(title)
	switch {
	case name == "":
		return "Untitled"
	case strings.EqualFold(name, document.IndexName):
		return name + " (page)"
	default:
		return name
	}
}
