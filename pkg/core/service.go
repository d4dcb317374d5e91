package core

import (
	"context"
	"errors"
	"log/slog"
)

// Service exposes posts to the presentation layer.
// Every method is a fresh query against the repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// ListPosts returns all visible posts, newest first.
func (s *Service) ListPosts(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}

// GetPost retrieves a single post by slug.
func (s *Service) GetPost(ctx context.Context, slug string) (Post, error) {
	if slug == "" {
		return Post{}, ErrNotFound
	}
	return s.repo.Get(ctx, slug)
}

// Scan returns the listing together with the per-file problems found while building it.
func (s *Service) Scan(ctx context.Context) (Snapshot, error) {
	sc, ok := s.repo.(Scanner)
	if !ok {
		return Snapshot{}, errors.New("repository does not support scanning")
	}
	return sc.Scan(ctx)
}

// PostsByTag returns the posts carrying tag, compared case-insensitively.
func (s *Service) PostsByTag(ctx context.Context, tag string) ([]Post, error) {
	return s.filter(ctx, func(p Post) bool { return p.HasTag(tag) })
}

// PostsByCategory returns the posts in category, compared case-insensitively.
func (s *Service) PostsByCategory(ctx context.Context, category string) ([]Post, error) {
	folded := Fold(category)
	return s.filter(ctx, func(p Post) bool { return Fold(p.Category) == folded })
}

// PinnedPosts returns the posts marked with pin, in listing order.
func (s *Service) PinnedPosts(ctx context.Context) ([]Post, error) {
	return s.filter(ctx, func(p Post) bool { return p.Pin })
}

// Tags returns the folded set of tags used by visible posts, sorted.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return CollectTags(posts), nil
}

func (s *Service) filter(ctx context.Context, keep func(Post) bool) ([]Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Post{}
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	s.logger.Debug("filtered posts", "total", len(posts), "kept", len(out))
	return out, nil
}
