package miro

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/starford/docmirror/internal/document"
	"github.com/starford/docmirror/internal/mirror"
	"github.com/starford/docmirror/internal/pager"
)

// Config describes which board is mirrored and where it goes.
type Config struct {
	BoardID      string
	DefaultTitle string
	Folder       string
	Tags         []string
	TokenEnv     string
}

// Source mirrors one board into <Folder>/index.md.
type Source struct {
	cfg Config
	api API
	env mirror.Env
}

var _ mirror.Source = (*Source)(nil)

// NewSource creates the Miro source. A nil api means no token is configured.
func NewSource(cfg Config, api API, env mirror.Env) *Source {
	return &Source{cfg: cfg, api: api, env: env}
}

func (s *Source) Name() string   { return "miro" }
func (s *Source) Label() string  { return "Miro" }
func (s *Source) Folder() string { return s.cfg.Folder }

// Sync writes the board document. A missing token or an unreachable board
// produces a placeholder instead; only write errors fail the source.
func (s *Source) Sync(ctx context.Context) error {
	log := s.env.Log().With(slog.String("source", s.Name()))

	if s.api == nil {
		s.env.Printf("%s not set, writing setup placeholder", s.cfg.TokenEnv)
		log.Warn("miro: token missing", slog.String("env", s.cfg.TokenEnv))
		return s.placeholder()
	}

	s.env.Printf("Fetching board info...")
	board, err := s.api.Board(ctx, s.cfg.BoardID)
	if err != nil {
		log.Warn("miro: board unavailable, writing placeholder",
			slog.String("board_id", s.cfg.BoardID),
			slog.String("error", err.Error()))
		s.env.Printf("Could not fetch board, creating placeholder")
		return s.placeholder()
	}

	frames := s.list(ctx, log, "frame")
	items := s.list(ctx, log, "")

	title := board.Name
	if title == "" {
		title = s.cfg.DefaultTitle
	}
	rel, err := s.env.Writer.Save(s.cfg.Folder, document.IndexName, s.document(title, boardBody(board, BoardURL(s.cfg.BoardID), frames, items), s.env.Clock()))
	if err != nil {
		return err
	}
	s.env.Printf("Saved: %s", rel)
	log.Info("miro: synced",
		slog.String("board_id", s.cfg.BoardID),
		slog.Int("frames", len(frames)),
		slog.Int("items", len(items)))
	return nil
}

// list collects every item of itemType. Listing errors are logged and the
// items gathered so far are kept.
func (s *Source) list(ctx context.Context, log *slog.Logger, itemType string) []Item {
	items, err := pager.Collect(ctx, func(ctx context.Context, cursor string) (pager.Page[Item], error) {
		return s.api.Items(ctx, s.cfg.BoardID, itemType, cursor)
	})
	if err != nil {
		log.Warn("miro: item listing incomplete",
			slog.String("type", itemType),
			slog.Int("fetched", len(items)),
			slog.String("error", err.Error()))
	}
	return items
}

func (s *Source) document(title, body string, now time.Time) document.Document {
	return document.Document{
		Header: document.Header{
			Source:    s.Name(),
			SourceURL: BoardURL(s.cfg.BoardID),
			SourceID:  s.cfg.BoardID,
			Title:     title,
			SyncedAt:  now,
			Tags:      s.cfg.Tags,
		},
		SourceLabel: "Miro Board",
		Body:        body,
	}
}

func boardBody(b Board, boardURL string, frames, items []Item) string {
	var sb strings.Builder

	desc := b.Description
	if desc == "" {
		desc = "_No description_"
	}
	sb.WriteString(desc + "\n\n")

	sb.WriteString("## Quick Links\n\n")
	fmt.Fprintf(&sb, "- **[Open in Miro](%s)** - View and edit the board\n", boardURL)
	fmt.Fprintf(&sb, "- Created: %s\n", day(b.CreatedAt))
	fmt.Fprintf(&sb, "- Last modified: %s\n", day(b.ModifiedAt))

	if len(frames) > 0 {
		sb.WriteString("\n## Frames\n\n")
		for _, f := range frames {
			title := f.Data.Title
			if title == "" {
				title = "Untitled Frame"
			}
			fmt.Fprintf(&sb, "- **%s**\n", title)
		}
	}

	if len(items) > 0 {
		sb.WriteString("\n## Content Summary\n\n")
		counts := map[string]int{}
		for _, it := range items {
			t := it.Type
			if t == "" {
				t = "unknown"
			}
			counts[t]++
		}
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(&sb, "- %s: %d\n", t, counts[t])
		}
	}

	sb.WriteString("\n## Usage\n\n")
	sb.WriteString("This board contains architecture diagrams and visual documentation.\n\n")
	sb.WriteString("To view or edit:\n")
	sb.WriteString("1. Click the link above to open in Miro\n")
	sb.WriteString("2. Or use the Miro app on your device")
	return sb.String()
}

// day keeps the date part of an ISO timestamp.
func day(ts string) string {
	switch {
	case ts == "":
		return "Unknown"
	case len(ts) > 10:
		return ts[:10]
	default:
		return ts
	}
}

func (s *Source) placeholder() error {
	boardURL := BoardURL(s.cfg.BoardID)
	body := strings.Join([]string{
		"## Quick Links",
		"",
		"- **[Open in Miro](" + boardURL + ")** - View the architecture diagrams",
		"",
		"## API Setup (Optional)",
		"",
		"To enable full sync with board metadata:",
		"",
		"1. Go to https://miro.com/app/settings/user-profile/apps",
		"2. Create a new app or use an existing one",
		"3. Generate an access token",
		"4. Add it to the `.env` file:",
		"   ```",
		"   " + s.cfg.TokenEnv + "=your_token_here",
		"   ```",
		"5. Run the sync again: `docmirror --miro --force`",
	}, "\n")

	rel, err := s.env.Writer.Save(s.cfg.Folder, document.IndexName, s.document(s.cfg.DefaultTitle, body, s.env.Clock()))
	if err != nil {
		return err
	}
	s.env.Printf("Created placeholder: %s", rel)
	return nil
}
