package platform

import (
	"log/slog"

	"github.com/aretw0/folio/pkg/core"
)

// options holds the internal configuration for a folio service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	include    string
}

// Option defines a functional option for configuring folio.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the repository and the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInclude sets the doublestar pattern selecting content files below the root.
// Defaults to fs.DefaultInclude.
func WithInclude(pattern string) Option {
	return func(o *options) {
		o.include = pattern
	}
}

// WithRepository injects a repository (e.g. a mock) instead of the filesystem adapter.
// The root argument is then ignored.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}
