package folio

import (
	"log/slog"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/core"
)

// --- Types ---

// Post is a public alias for the core post model.
type Post = core.Post

// Service is a public alias for the core service.
type Service = core.Service

// --- Configuration ---

// Option defines a functional option for configuring folio.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithInclude sets the pattern selecting content files, e.g. "posts/**/*.md".
func WithInclude(pattern string) Option {
	return platform.WithInclude(pattern)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// --- Factory ---

// New creates a Service reading posts from the content root.
func New(root string, opts ...Option) (*Service, error) {
	return platform.New(root, opts...)
}

// Open returns the initialized repository without wrapping it in a Service.
func Open(root string, opts ...Option) (core.Repository, error) {
	return platform.Open(root, opts...)
}

// FindRoot searches upwards for a site directory (folio.yaml or .git).
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
