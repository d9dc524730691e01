package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/starford/docmirror/internal/cache"
	"github.com/starford/docmirror/internal/storage"
)

// Runner drives the configured sources in a fixed order.
type Runner struct {
	store   storage.Provider
	sources []Source
	policy  cache.Policy
	out     io.Writer
	logger  *slog.Logger
}

// NewRunner creates a runner. sources are processed in slice order.
func NewRunner(store storage.Provider, sources []Source, policy cache.Policy, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{store: store, sources: sources, policy: policy, out: out, logger: logger}
}

// Names lists the selection keys of all sources in processing order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// Sync runs every selected source whose folder is stale, or all selected
// sources when force is set. It reports whether every source that ran
// succeeded; skipped sources do not count.
func (r *Runner) Sync(ctx context.Context, names []string, force bool) (bool, error) {
	selected, err := r.selection(names)
	if err != nil {
		return false, err
	}

	success := true
	for _, src := range selected {
		fmt.Fprintf(r.out, "\nSyncing %s...\n", src.Label())

		dir, err := r.store.Path(src.Folder())
		if err != nil {
			r.logger.Error("mirror: bad output folder",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			success = false
			continue
		}

		info := cache.Inspect(dir)
		if !force && r.policy.Fresh(info.SyncedAt) {
			fmt.Fprintf(r.out, "   Using cached version (synced %d days ago)\n", r.policy.AgeDays(info.SyncedAt))
			fmt.Fprintln(r.out, "   Use --force to update")
			r.logger.Debug("mirror: cache fresh, skipped",
				slog.String("source", src.Name()),
				slog.Time("synced_at", info.SyncedAt))
			continue
		}

		start := time.Now()
		if err := src.Sync(ctx); err != nil {
			r.logger.Error("mirror: source failed",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			fmt.Fprintf(r.out, "   Failed: %v\n", err)
			success = false
			continue
		}
		r.logger.Info("mirror: source synced",
			slog.String("source", src.Name()),
			slog.Duration("elapsed", time.Since(start)))
	}

	fmt.Fprintln(r.out, "\n"+strings.Repeat("=", 60))
	if success {
		fmt.Fprintln(r.out, "Sync completed successfully!")
	} else {
		fmt.Fprintln(r.out, "Sync completed with some errors")
	}
	return success, nil
}

func (r *Runner) selection(names []string) ([]Source, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = true
	}
	var out []Source
	for _, s := range r.sources {
		if want[s.Name()] {
			out = append(out, s)
			delete(want, s.Name())
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("mirror: unknown source %s (known: %s)", strings.Join(unknown, ", "), strings.Join(r.Names(), ", "))
	}
	return out, nil
}

// Status prints file counts and freshness for every source folder.
func (r *Runner) Status(w io.Writer) {
	now := time.Now()
	if r.policy.Now != nil {
		now = r.policy.Now()
	}

	fmt.Fprintln(w, "\nDocumentation cache status")
	fmt.Fprintf(w, "\nVault folder: %s\n\n", r.store.Root())
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for _, src := range r.sources {
		files := 0
		status := "Not synced"
		if dir, err := r.store.Path(src.Folder()); err == nil {
			info := cache.Inspect(dir)
			files = info.Files
			status = r.describe(info, now)
		}
		fmt.Fprintf(w, "%-10s %3d files   %s\n", src.Label(), files, status)
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "\nCache freshness: %d days\n", r.policy.MaxAgeDays)
	fmt.Fprintln(w, "Use --force to update regardless of cache age")
}

func (r *Runner) describe(info cache.Info, now time.Time) string {
	switch {
	case !info.Exists || info.Files == 0:
		return "Not synced"
	case !info.HasTimestamp():
		return "Unknown age"
	}
	age := r.policy.AgeDays(info.SyncedAt)
	state := "Stale"
	if r.policy.Fresh(info.SyncedAt) {
		state = "Fresh"
	}
	return fmt.Sprintf("%s (%d days ago; last sync %s)", state, age, humanize.RelTime(info.SyncedAt, now, "ago", "from now"))
}
