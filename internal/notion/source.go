package notion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/docmirror/internal/document"
	"github.com/starford/docmirror/internal/mirror"
)

// WebBase is the public address pages are linked to.
const WebBase = "https://www.notion.so"

// Config describes which page tree is mirrored and where it goes.
type Config struct {
	PageID       string
	DefaultTitle string
	Folder       string
	Tags         []string
	MaxDepth     int
	// TokenEnv names the variable the token was read from; used in setup hints.
	TokenEnv string
}

// Source mirrors a root page and its direct child pages.
type Source struct {
	cfg Config
	api API
	env mirror.Env
}

var _ mirror.Source = (*Source)(nil)

// NewSource creates the Notion source. A nil api means no token is configured
// and Sync writes a setup placeholder instead of fetching.
func NewSource(cfg Config, api API, env mirror.Env) *Source {
	cfg.PageID = NormalizeID(cfg.PageID)
	return &Source{cfg: cfg, api: api, env: env}
}

func (s *Source) Name() string   { return "notion" }
func (s *Source) Label() string  { return "Notion" }
func (s *Source) Folder() string { return s.cfg.Folder }

// Sync fetches the root page and its children and writes one file per page.
// Failing to read the root page's metadata fails the source; block listing
// errors only truncate the affected page.
func (s *Source) Sync(ctx context.Context) error {
	log := s.env.Log().With(slog.String("source", s.Name()))

	if s.api == nil {
		s.env.Printf("%s not set, writing setup placeholder", s.cfg.TokenEnv)
		log.Warn("notion: token missing", slog.String("env", s.cfg.TokenEnv))
		return s.placeholder()
	}

	s.env.Printf("Fetching main page...")
	title, err := s.api.PageTitle(ctx, s.cfg.PageID)
	if err != nil {
		return fmt.Errorf("notion: root page: %w", err)
	}
	if title == "" {
		title = s.cfg.DefaultTitle
	}

	fetcher := NewFetcher(s.api, log)
	renderer := NewRenderer(fetcher, s.cfg.MaxDepth, log)
	now := s.env.Clock()

	root := fetcher.Page(ctx, s.cfg.PageID, title)
	rel, err := s.env.Writer.Save(s.cfg.Folder, document.IndexName, s.document(root.ID, title, renderer.Render(ctx, root.Blocks), now))
	if err != nil {
		return err
	}
	s.env.Printf("Saved: %s", rel)

	for _, child := range root.Children {
		s.env.Printf("Fetching: %s...", child.Title)
		page := fetcher.Page(ctx, child.ID, child.Title)
		rel, err := s.env.Writer.Save(s.cfg.Folder, FileName(child.Title), s.document(page.ID, child.Title, renderer.Render(ctx, page.Blocks), now))
		if err != nil {
			return err
		}
		s.env.Printf("Saved: %s", rel)
	}

	log.Info("notion: synced",
		slog.String("page_id", s.cfg.PageID),
		slog.Int("children", len(root.Children)))
	return nil
}

func (s *Source) document(id, title, body string, now time.Time) document.Document {
	return document.Document{
		Header: document.Header{
			Source:    s.Name(),
			SourceURL: PageURL(WebBase, id),
			SourceID:  id,
			Title:     title,
			SyncedAt:  now,
			Tags:      s.cfg.Tags,
		},
		SourceLabel: s.Label(),
		Body:        body,
	}
}

func (s *Source) placeholder() error {
	url := PageURL(WebBase, s.cfg.PageID)
	body := strings.Join([]string{
		"## Quick Links",
		"",
		"- **[Open in Notion](" + url + ")** - View the documentation",
		"",
		"## API Setup (Required for full sync)",
		"",
		"To enable full sync with page content:",
		"",
		"1. Create an integration at https://www.notion.so/my-integrations",
		"2. Copy the Internal Integration Token",
		"3. In Notion, open the page, choose Share and invite the integration",
		"4. Add the token to the `.env` file:",
		"   ```",
		"   " + s.cfg.TokenEnv + "=secret_your_token_here",
		"   ```",
		"5. Run the sync again: `docmirror --notion --force`",
	}, "\n")

	rel, err := s.env.Writer.Save(s.cfg.Folder, document.IndexName, s.document(s.cfg.PageID, s.cfg.DefaultTitle, body, s.env.Clock()))
	if err != nil {
		return err
	}
	s.env.Printf("Created placeholder: %s", rel)
	return nil
}
