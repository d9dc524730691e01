package figma

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/starford/docmirror/internal/document"
	"github.com/starford/docmirror/internal/mirror"
)

// maxComponents caps the component list in the document.
const maxComponents = 20

// Config describes which file is mirrored and where it goes.
type Config struct {
	FileKey string
	// NodeID is the main frame linked from Quick Links, in browser form (2004-4099).
	NodeID string
	// FileName is the slug used in browser links.
	FileName     string
	DefaultTitle string
	Folder       string
	Tags         []string
	TokenEnv     string
}

// FileURL is the browser URL of the file.
func (c Config) FileURL() string {
	return "https://figma.com/design/" + c.FileKey + "/" + url.PathEscape(c.FileName)
}

// Source mirrors one file into <Folder>/index.md.
type Source struct {
	cfg Config
	api API
	env mirror.Env
}

var _ mirror.Source = (*Source)(nil)

// NewSource creates the Figma source. A nil api means no token is configured.
func NewSource(cfg Config, api API, env mirror.Env) *Source {
	return &Source{cfg: cfg, api: api, env: env}
}

func (s *Source) Name() string   { return "figma" }
func (s *Source) Label() string  { return "Figma" }
func (s *Source) Folder() string { return s.cfg.Folder }

// Sync writes the file document. A missing token or an unreachable file
// produces a placeholder instead; only write errors fail the source.
func (s *Source) Sync(ctx context.Context) error {
	log := s.env.Log().With(slog.String("source", s.Name()))

	if s.api == nil {
		s.env.Printf("%s not set, writing setup placeholder", s.cfg.TokenEnv)
		log.Warn("figma: token missing", slog.String("env", s.cfg.TokenEnv))
		return s.placeholder()
	}

	s.env.Printf("Fetching file info...")
	file, err := s.api.File(ctx, s.cfg.FileKey)
	if err != nil {
		log.Warn("figma: file unavailable, writing placeholder",
			slog.String("file_key", s.cfg.FileKey),
			slog.String("error", err.Error()))
		s.env.Printf("Could not fetch file, creating placeholder")
		return s.placeholder()
	}

	components, err := s.api.Components(ctx, s.cfg.FileKey)
	if err != nil {
		log.Warn("figma: components unavailable", slog.String("error", err.Error()))
		components = nil
	}

	title := file.Name
	if title == "" {
		title = s.cfg.DefaultTitle
	}
	pages := Pages(file.Document)
	rel, err := s.env.Writer.Save(s.cfg.Folder, document.IndexName, s.document(title, s.body(file, pages, components), s.env.Clock()))
	if err != nil {
		return err
	}
	s.env.Printf("Saved: %s", rel)
	log.Info("figma: synced",
		slog.String("file_key", s.cfg.FileKey),
		slog.Int("pages", len(pages)),
		slog.Int("components", len(components)))
	return nil
}

func (s *Source) document(title, body string, now time.Time) document.Document {
	return document.Document{
		Header: document.Header{
			Source:    s.Name(),
			SourceURL: s.cfg.FileURL(),
			SourceID:  s.cfg.FileKey,
			Title:     title,
			SyncedAt:  now,
			Tags:      s.cfg.Tags,
		},
		SourceLabel: s.Label(),
		Body:        body,
	}
}

func (s *Source) quickLinks(sb *strings.Builder, verb string) {
	fileURL := s.cfg.FileURL()
	sb.WriteString("## Quick Links\n\n")
	fmt.Fprintf(sb, "- **[Open in Figma](%s)** - %s\n", fileURL, verb)
	if s.cfg.NodeID != "" {
		fmt.Fprintf(sb, "- **[Main frame](%s)** - Primary design frame\n", NodeURL(fileURL, s.cfg.NodeID))
	}
}

func (s *Source) body(f File, pages []Page, components Components) string {
	var sb strings.Builder
	s.quickLinks(&sb, "View and edit the design")

	modified := "Unknown"
	if f.LastModified != "" {
		modified = f.LastModified[:min(10, len(f.LastModified))]
	}
	fmt.Fprintf(&sb, "- Last modified: %s\n", modified)
	fmt.Fprintf(&sb, "- Version: %s\n", f.Version)

	if len(pages) > 0 {
		sb.WriteString("\n## Pages & Frames\n")
		for _, p := range pages {
			fmt.Fprintf(&sb, "\n### %s\n\n", p.Name)
			if len(p.Frames) == 0 {
				sb.WriteString("_No frames_\n")
				continue
			}
			for _, fr := range p.Frames {
				fmt.Fprintf(&sb, "- [%s](%s)\n", fr.Name, NodeURL(s.cfg.FileURL(), fr.ID))
			}
		}
	}

	if len(components) > 0 {
		sb.WriteString("\n## Components\n\n")
		for _, c := range components[:min(maxComponents, len(components))] {
			name := c.Name
			if name == "" {
				name = "Unnamed"
			}
			fmt.Fprintf(&sb, "- %s\n", name)
		}
		if extra := len(components) - maxComponents; extra > 0 {
			fmt.Fprintf(&sb, "- _...and %d more_\n", extra)
		}
	}

	sb.WriteString("\n## Usage\n\n")
	sb.WriteString("To view or edit:\n")
	sb.WriteString("1. Click the link above to open in Figma\n")
	sb.WriteString("2. Or use the Figma app on your device")
	return sb.String()
}

func (s *Source) placeholder() error {
	var sb strings.Builder
	s.quickLinks(&sb, "View the design")
	sb.WriteString(strings.Join([]string{
		"",
		"## API Setup (Optional)",
		"",
		"To enable full sync with file metadata:",
		"",
		"1. Go to Figma Settings, Account, Personal access tokens",
		"2. Generate a new token",
		"3. Add it to the `.env` file:",
		"   ```",
		"   " + s.cfg.TokenEnv + "=figd_your_token_here",
		"   ```",
		"4. Run the sync again: `docmirror --figma --force`",
	}, "\n"))

	rel, err := s.env.Writer.Save(s.cfg.Folder, document.IndexName, s.document(s.cfg.DefaultTitle, sb.String(), s.env.Clock()))
	if err != nil {
		return err
	}
	s.env.Printf("Created placeholder: %s", rel)
	return nil
}
