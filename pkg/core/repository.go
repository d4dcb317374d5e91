package core

import "context"

// Repository defines the contract for retrieving posts.
// Implementations derive posts from their source on every call and keep no state
// between calls, so concurrent callers need no coordination.
type Repository interface {
	// List returns every visible, well-formed post, newest first, ties broken by slug.
	List(ctx context.Context) ([]Post, error)

	// Get retrieves a visible post by its slug. It returns ErrNotFound if none matches.
	Get(ctx context.Context, slug string) (Post, error)

	// Initialize checks that the underlying source is usable.
	Initialize(ctx context.Context) error
}

// Scanner is implemented by repositories that can report per-file problems
// alongside the listing.
type Scanner interface {
	Scan(ctx context.Context) (Snapshot, error)
}
