// Package mirror decides, per source, whether to fetch fresh content or keep
// the cached vault folder, and reports cache status.
package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/starford/docmirror/internal/document"
)

// Source is one remote service mirrored into its own vault folder.
type Source interface {
	// Name is the selection key, e.g. "notion".
	Name() string
	// Label is the display name, e.g. "Notion".
	Label() string
	// Folder is the vault-relative output folder.
	Folder() string
	// Sync fetches and writes the source's documents. Degraded outcomes such as
	// a placeholder document are not errors; a returned error marks the source failed.
	Sync(ctx context.Context) error
}

// Env carries the collaborators shared by every source.
type Env struct {
	Writer *document.Writer
	Logger *slog.Logger
	// Out receives human-readable progress lines.
	Out io.Writer
	Now func() time.Time
}

// Printf writes one progress line to Out.
func (e Env) Printf(format string, args ...any) {
	if e.Out == nil {
		return
	}
	fmt.Fprintf(e.Out, "   "+format+"\n", args...)
}

// Clock returns Now, defaulting to time.Now.
func (e Env) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Log returns Logger, defaulting to slog.Default.
func (e Env) Log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
