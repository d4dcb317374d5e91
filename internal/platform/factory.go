package platform

import (
	"context"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

// Open builds the repository for a content root and validates it.
// Configuration errors (missing or unreadable root, bad include pattern) surface here.
func Open(root string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo := o.repository
	if repo == nil {
		repo = fs.NewRepository(fs.Config{
			Path:    root,
			Include: o.include,
			Logger:  o.logger,
		})
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// New creates a Service over the content root.
//
//	svc, err := folio.New("./content", folio.WithLogger(logger))
func New(root string, opts ...Option) (*core.Service, error) {
	repo, err := Open(root, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return core.NewService(repo, o.logger), nil
}
