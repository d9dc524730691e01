// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/starford/docmirror/internal/apperr"
	"github.com/starford/docmirror/internal/cache"
	"github.com/starford/docmirror/internal/document"
	"github.com/starford/docmirror/internal/figma"
	"github.com/starford/docmirror/internal/miro"
	"github.com/starford/docmirror/internal/mirror"
	"github.com/starford/docmirror/internal/notion"
	"github.com/starford/docmirror/internal/remote"
	"github.com/starford/docmirror/internal/storage"
)

// ErrNothingSelected is returned when neither a source nor the status report
// was requested.
var ErrNothingSelected = errors.New("no source selected")

// SourceNames lists every source in processing order.
var SourceNames = []string{"notion", "miro", "figma"}

// Run syncs the selected sources, or prints the cache report, with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		out:    os.Stdout,
		logOut: os.Stderr,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if !app.status && len(app.sources) == 0 {
		return ErrNothingSelected
	}

	cfg := app.config

	level := cfg.App.LogLevel
	if app.verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(app.logOut, level)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.Int("max_age_days", cfg.Cache.MaxAgeDays),
		slog.Duration("http_timeout", cfg.HTTP.Timeout),
		slog.String("log_level", level.String()))

	store, err := openVault(cfg.Vault.Path, app.status)
	if err != nil {
		return err
	}

	env := mirror.Env{
		Writer: document.NewWriter(store),
		Logger: logger,
		Out:    app.out,
		Now:    app.now,
	}
	sources, err := buildSources(cfg, env)
	if err != nil {
		return fmt.Errorf("init sources: %w", err)
	}

	policy := cache.Policy{MaxAgeDays: cfg.Cache.MaxAgeDays, Now: app.now}
	runner := mirror.NewRunner(store, sources, policy, app.out, logger)

	if app.status {
		runner.Status(app.out)
		return nil
	}

	ok, err := runner.Sync(ctx, app.sources, app.force)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrSyncFailed
	}
	return nil
}

// openVault prepares the vault root. The status report only reads, so it
// resolves the path and leaves a missing vault uncreated.
func openVault(path string, readOnly bool) (*storage.FS, error) {
	if readOnly {
		store, err := storage.Resolve(path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		return store, nil
	}

	// Ensure vault directory exists.
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

// newLogger writes text to terminals and JSON everywhere else.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// buildSources wires each source to its API client. A source whose token
// variable is unset gets no client and writes a setup placeholder.
func buildSources(cfg *Config, env mirror.Env) ([]mirror.Source, error) {
	withLogger := remote.WithLogger(env.Logger)

	var notionAPI notion.API
	if token := os.Getenv(cfg.Notion.TokenEnv); token != "" {
		rt, err := remote.Rebase(cfg.Notion.BaseURL, notion.DefaultBaseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("notion base url: %w", err)
		}
		notionAPI = notion.NewClient(token, remote.NewHTTPClient(cfg.HTTP.Timeout, rt))
	}

	var miroAPI miro.API
	if token := os.Getenv(cfg.Miro.TokenEnv); token != "" {
		miroAPI = miro.NewClient(cfg.Miro.BaseURL, token, remote.NewHTTPClient(cfg.HTTP.Timeout, nil), cfg.Miro.PageSize, withLogger)
	}

	var figmaAPI figma.API
	if token := os.Getenv(cfg.Figma.TokenEnv); token != "" {
		figmaAPI = figma.NewClient(cfg.Figma.BaseURL, token, remote.NewHTTPClient(cfg.HTTP.Timeout, nil), withLogger)
	}

	return []mirror.Source{
		notion.NewSource(notion.Config{
			PageID:       cfg.Notion.PageID,
			DefaultTitle: cfg.Notion.DefaultTitle,
			Folder:       cfg.Notion.Folder,
			Tags:         cfg.Notion.Tags,
			MaxDepth:     cfg.Notion.MaxDepth,
			TokenEnv:     cfg.Notion.TokenEnv,
		}, notionAPI, env),
		miro.NewSource(miro.Config{
			BoardID:      cfg.Miro.BoardID,
			DefaultTitle: cfg.Miro.DefaultTitle,
			Folder:       cfg.Miro.Folder,
			Tags:         cfg.Miro.Tags,
			TokenEnv:     cfg.Miro.TokenEnv,
		}, miroAPI, env),
		figma.NewSource(figma.Config{
			FileKey:      cfg.Figma.FileKey,
			NodeID:       cfg.Figma.NodeID,
			FileName:     cfg.Figma.FileName,
			DefaultTitle: cfg.Figma.DefaultTitle,
			Folder:       cfg.Figma.Folder,
			Tags:         cfg.Figma.Tags,
			TokenEnv:     cfg.Figma.TokenEnv,
		}, figmaAPI, env),
	}, nil
}
