package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultInclude matches Markdown and MDX files at any depth.
const DefaultInclude = "**/*.{md,mdx,markdown}"

// Repository implements core.Repository over a directory of content files.
// It holds configuration only: every query re-reads the directory.
type Repository struct {
	Path   string
	config Config
	logger *slog.Logger
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path    string       // Content root.
	Include string       // doublestar pattern relative to Path; DefaultInclude when empty.
	Logger  *slog.Logger // nil discards.
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Include == "" {
		config.Include = DefaultInclude
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		logger: logger,
	}
}

// Initialize validates the content root and the include pattern.
func (r *Repository) Initialize(ctx context.Context) error {
	if !doublestar.ValidatePattern(r.config.Include) {
		return fmt.Errorf("%w: invalid include pattern %q", core.ErrConfiguration, r.config.Include)
	}
	return r.checkRoot()
}

func (r *Repository) checkRoot() error {
	if r.Path == "" {
		return fmt.Errorf("%w: content root is not set", core.ErrConfiguration)
	}
	info, err := os.Stat(r.Path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: content root does not exist: %s", core.ErrConfiguration, r.Path)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: content root is not a directory: %s", core.ErrConfiguration, r.Path)
	}
	if _, err := os.ReadDir(r.Path); err != nil {
		return fmt.Errorf("%w: content root is unreadable: %v", core.ErrConfiguration, err)
	}
	return nil
}

// List returns every visible, well-formed post, newest first.
// Files that cannot become posts are logged and skipped.
func (r *Repository) List(ctx context.Context) ([]core.Post, error) {
	snap, err := r.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Posts, nil
}

// Get retrieves a visible post by slug.
// The post is taken from a full scan so it is identical to its List entry.
func (r *Repository) Get(ctx context.Context, slug string) (core.Post, error) {
	snap, err := r.Scan(ctx)
	if err != nil {
		return core.Post{}, err
	}
	for _, p := range snap.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return core.Post{}, fmt.Errorf("%w: %s", core.ErrNotFound, slug)
}

// Scan walks the content root and builds a snapshot.
//
// Strategy:
//  1. Validate the root (the only fatal failure).
//  2. Walk the tree in lexical order, skipping hidden entries and node_modules.
//  3. Parse every file matching the include pattern; record failures as problems.
//  4. Drop hidden posts, reject duplicate slugs (first path wins), sort.
func (r *Repository) Scan(ctx context.Context) (core.Snapshot, error) {
	if err := r.checkRoot(); err != nil {
		return core.Snapshot{}, err
	}

	files, problems, err := r.discover(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}

	snap := core.Snapshot{Posts: []core.Post{}, Problems: problems}
	owners := make(map[string]string)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return core.Snapshot{}, err
		}

		post, err := r.load(rel)
		if err != nil {
			snap.Problems = append(snap.Problems, core.Malformed(rel, "%w", err))
			continue
		}
		if !post.Visible {
			r.logger.Debug("skipping hidden post", "path", rel, "slug", post.Slug)
			snap.Hidden++
			continue
		}
		if owner, taken := owners[post.Slug]; taken {
			snap.Problems = append(snap.Problems,
				core.Malformed(rel, "%w: %q already used by %s", core.ErrDuplicateSlug, post.Slug, owner))
			continue
		}
		owners[post.Slug] = rel
		snap.Posts = append(snap.Posts, post)
	}

	for _, p := range snap.Problems {
		r.logger.Warn("skipping malformed content", "path", p.Path, "error", p.Err)
	}

	core.SortPosts(snap.Posts)
	return snap, nil
}

func (r *Repository) load(rel string) (core.Post, error) {
	f, err := os.Open(filepath.Join(r.Path, filepath.FromSlash(rel)))
	if err != nil {
		return core.Post{}, err
	}
	defer f.Close()

	return parsePost(f, rel)
}

// discover returns the slash-separated relative paths of candidate files in lexical order.
func (r *Repository) discover(ctx context.Context) ([]string, []*core.ContentError, error) {
	var files []string
	var problems []*core.ContentError

	err := filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(r.Path, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			if rel == "." {
				return fmt.Errorf("%w: %v", core.ErrConfiguration, err)
			}
			problems = append(problems, core.Malformed(rel, "%w", err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == "." {
			return nil
		}

		if skipName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		match, matchErr := doublestar.Match(r.config.Include, rel)
		if matchErr != nil {
			return fmt.Errorf("%w: %v", core.ErrConfiguration, matchErr)
		}
		if match {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		if errors.Is(err, core.ErrConfiguration) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to walk content root: %w", err)
	}
	return files, problems, nil
}

// skipName reports whether a directory entry is never content.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "node_modules"
}

var _ core.Repository = (*Repository)(nil)
var _ core.Scanner = (*Repository)(nil)
