package internal

import (
	"io"
	"time"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	sources []string
	force   bool
	status  bool
	verbose bool
	out     io.Writer
	logOut  io.Writer
	now     func() time.Time
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSources selects the sources to sync by name.
func WithSources(names ...string) Option {
	return func(a *application) {
		a.sources = append(a.sources, names...)
	}
}

// WithForce syncs selected sources even when their cache is fresh.
func WithForce(force bool) Option {
	return func(a *application) {
		a.force = force
	}
}

// WithStatus prints the cache report instead of syncing.
func WithStatus(status bool) Option {
	return func(a *application) {
		a.status = status
	}
}

// WithVerbose lowers the log level to debug.
func WithVerbose(verbose bool) Option {
	return func(a *application) {
		a.verbose = verbose
	}
}

// WithOutput redirects the human-readable report, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput redirects structured logs, stderr by default.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithClock overrides the time source used for sync stamps and cache age.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}
