// Package cache inspects vault folders for the newest synced_at timestamp
// and decides whether a folder is still fresh.
package cache

import (
	"bytes"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxAgeDays is the freshness threshold used when none is configured.
const DefaultMaxAgeDays = 7

// Info describes the cached state of one output folder.
type Info struct {
	Exists bool
	// Files is the number of Markdown files directly inside the folder.
	Files int
	// SyncedAt is the newest valid synced_at header value, zero when none was found.
	SyncedAt time.Time
}

// HasTimestamp reports whether any file carried a usable synced_at value.
func (i Info) HasTimestamp() bool {
	return !i.SyncedAt.IsZero()
}

// Inspect scans dir. A missing directory yields Info{Exists: false}.
func Inspect(dir string) Info {
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return Info{}
	}
	info := InspectFS(os.DirFS(dir))
	info.Exists = true
	return info
}

// InspectFS scans the top level of fsys for *.md files. Unreadable files and
// missing or unparsable timestamps are skipped.
func InspectFS(fsys fs.FS) Info {
	names, err := doublestar.Glob(fsys, "*.md", doublestar.WithFilesOnly())
	if err != nil {
		return Info{}
	}

	info := Info{Files: len(names)}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			continue
		}
		ts, ok := headerTimestamp(data)
		if ok && ts.After(info.SyncedAt) {
			info.SyncedAt = ts
		}
	}
	return info
}

type header struct {
	SyncedAt string `yaml:"synced_at"`
}

func headerTimestamp(data []byte) (time.Time, bool) {
	var h header
	if _, err := frontmatter.Parse(bytes.NewReader(data), &h); err != nil {
		return time.Time{}, false
	}
	return ParseTimestamp(h.SyncedAt)
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Any zone is dropped: the wall
// clock is kept and read as local time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local), true
	}
	return time.Time{}, false
}

// Policy decides freshness against a fixed age threshold in days.
type Policy struct {
	MaxAgeDays int
	// Now defaults to time.Now.
	Now func() time.Time
}

func (p Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// AgeDays returns the whole days elapsed since ts, rounded down.
func (p Policy) AgeDays(ts time.Time) int {
	const day = 24 * time.Hour
	d := wall(p.now()).Sub(wall(ts))
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// Fresh reports whether ts is younger than the threshold. A zero ts is never fresh.
func (p Policy) Fresh(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return p.AgeDays(ts) < p.MaxAgeDays
}

// wall re-labels t's local wall clock as UTC so differences ignore DST shifts.
func wall(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
