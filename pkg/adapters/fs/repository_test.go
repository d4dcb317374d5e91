package fs_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

// setupRepo creates a repository over a fresh content root.
// It returns the repository and the root path.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.MkdirAll(root, 0755))

	cfg := fs.Config{Path: root}
	for _, opt := range opts {
		opt(&cfg)
	}

	return fs.NewRepository(cfg), root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func post(title, date, body string) string {
	return fmt.Sprintf("---\ntitle: %s\ndate: %s\n---\n%s\n", title, date, body)
}

func slugsOf(posts []core.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestInitialize(t *testing.T) {
	t.Run("Accepts Existing Directory", func(t *testing.T) {
		repo, _ := setupRepo(t)
		assert.NoError(t, repo.Initialize(context.Background()))
	})

	t.Run("Fails If Root Is Missing", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "nope")})

		err := repo.Initialize(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrConfiguration))
	})

	t.Run("Fails If Root Is A File", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.md")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		repo := fs.NewRepository(fs.Config{Path: file})

		err := repo.Initialize(context.Background())
		assert.True(t, errors.Is(err, core.ErrConfiguration))
	})

	t.Run("Fails If Root Is Unset", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{})
		assert.True(t, errors.Is(repo.Initialize(context.Background()), core.ErrConfiguration))
	})

	t.Run("Fails On Invalid Include Pattern", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) {
			c.Include = "posts/[a-"
		})
		assert.True(t, errors.Is(repo.Initialize(context.Background()), core.ErrConfiguration))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Root Yields Empty Slice", func(t *testing.T) {
		repo, _ := setupRepo(t)

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("Newest First", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "a.md", post("A", "2023-01-01", "first"))
		writeFile(t, root, "b.md", post("B", "2023-06-15", "second"))

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, slugsOf(posts))
	})

	t.Run("Equal Dates Ordered By Slug", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "z.md", post("Z", "2023-01-01", "zed"))
		writeFile(t, root, "a.md", post("A", "2023-01-01", "ay"))

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "z"}, slugsOf(posts))
	})

	t.Run("Order Is Total And Deterministic", func(t *testing.T) {
		repo, root := setupRepo(t)
		dates := []string{"2021-05-01", "2023-01-01", "2021-05-01", "2022-12-31", "2023-01-01", "2021-05-01"}
		for i, d := range dates {
			writeFile(t, root, fmt.Sprintf("post-%d.md", i), post(fmt.Sprintf("P%d", i), d, "body"))
		}

		first, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, first, len(dates))

		for i := 1; i < len(first); i++ {
			prev, cur := first[i-1], first[i]
			assert.False(t, cur.Date.After(prev.Date), "dates must not increase")
			if cur.Date.Equal(prev.Date) {
				assert.Less(t, prev.Slug, cur.Slug)
			}
		}

		second, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Malformed Files Do Not Block Valid Ones", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "good.md", post("Good", "2023-03-03", "fine"))
		writeFile(t, root, "no-title.md", "---\ndate: 2023-01-01\n---\nbody\n")
		writeFile(t, root, "no-date.md", "---\ntitle: Missing Date\n---\nbody\n")
		writeFile(t, root, "bad-date.md", post("Bad Date", "someday", "body"))
		writeFile(t, root, "no-frontmatter.md", "# Just markdown\n")
		writeFile(t, root, "broken-yaml.md", "---\ntitle: [unclosed\ndate: 2023-01-01\n---\nbody\n")
		writeFile(t, root, "empty-body.md", "---\ntitle: Empty\ndate: 2023-01-01\n---\n\n")
		writeFile(t, root, "wrong-type.md", "---\ntitle: Typed\ndate: 2023-01-01\nvisible: \"yes\"\n---\nbody\n")

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"good"}, slugsOf(posts))

		snap, err := repo.Scan(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Problems, 7)
		for _, p := range snap.Problems {
			assert.True(t, errors.Is(p, core.ErrMalformedContent), "problem %v", p)
		}
	})

	t.Run("Hidden Posts Are Excluded", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "shown.md", post("Shown", "2023-01-01", "x"))
		writeFile(t, root, "hidden.md", "---\ntitle: Hidden\ndate: 2023-01-02\nvisible: false\n---\nx\n")

		snap, err := repo.Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"shown"}, slugsOf(snap.Posts))
		assert.Equal(t, 1, snap.Hidden)
		assert.Empty(t, snap.Problems)

		_, err = repo.Get(ctx, "hidden")
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("Duplicate Slugs Keep The First Path", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "hello.md", post("From MD", "2023-01-01", "md"))
		writeFile(t, root, "hello.mdx", post("From MDX", "2023-02-01", "mdx"))
		writeFile(t, root, "other.md", "---\ntitle: Other\ndate: 2023-03-01\nslug: hello\n---\nother\n")

		snap, err := repo.Scan(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Posts, 1)
		assert.Equal(t, "From MD", snap.Posts[0].Title)

		require.Len(t, snap.Problems, 2)
		for _, p := range snap.Problems {
			assert.True(t, errors.Is(p, core.ErrDuplicateSlug))
		}
		assert.Equal(t, "hello.mdx", snap.Problems[0].Path)
		assert.Equal(t, "other.md", snap.Problems[1].Path)
	})

	t.Run("Filenames Keep Their Characters", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "深度学习.md", post("深度学习笔记", "2023-01-05", "x"))
		writeFile(t, root, "c++.md", post("C++", "2023-01-04", "x"))
		writeFile(t, root, "c.md", post("C", "2023-01-03", "x"))
		writeFile(t, root, "My Post.md", post("Mine", "2023-01-02", "x"))

		snap, err := repo.Scan(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Problems)
		assert.Equal(t, []string{"深度学习", "c++", "c", "my-post"}, slugsOf(snap.Posts))

		got, err := repo.Get(ctx, "深度学习")
		require.NoError(t, err)
		assert.Equal(t, "深度学习.md", got.Path)
	})

	t.Run("Nested Paths And Skipped Entries", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "posts/2023/hello.md", post("Hello", "2023-01-01", "x"))
		writeFile(t, root, "notes/rl/index.mdx", post("RL", "2023-01-02", "x"))
		writeFile(t, root, ".git/ignored.md", post("Git", "2023-01-03", "x"))
		writeFile(t, root, "_drafts/wip.md", post("Draft", "2023-01-04", "x"))
		writeFile(t, root, "node_modules/pkg/readme.md", post("Dep", "2023-01-05", "x"))
		writeFile(t, root, "images/cover.png", "not a post")
		writeFile(t, root, "notes/.scratch.md", post("Scratch", "2023-01-06", "x"))

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"notes/rl", "posts/2023/hello"}, slugsOf(posts))
		assert.Equal(t, "notes/rl/index.mdx", posts[0].Path)
	})

	t.Run("Custom Include Pattern", func(t *testing.T) {
		repo, root := setupRepo(t, func(c *fs.Config) {
			c.Include = "blog/**/*.md"
		})
		writeFile(t, root, "blog/one.md", post("One", "2023-01-01", "x"))
		writeFile(t, root, "blog/deep/two.md", post("Two", "2023-01-02", "x"))
		writeFile(t, root, "pages/about.md", post("About", "2023-01-03", "x"))

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"blog/deep/two", "blog/one"}, slugsOf(posts))
	})

	t.Run("Root Removed After Initialize", func(t *testing.T) {
		repo, root := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))
		require.NoError(t, os.RemoveAll(root))

		_, err := repo.List(ctx)
		assert.True(t, errors.Is(err, core.ErrConfiguration))
	})

	t.Run("Cancelled Context Aborts", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "a.md", post("A", "2023-01-01", "x"))

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.List(cctx)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	repo, root := setupRepo(t)
	writeFile(t, root, "a.md", post("A", "2023-01-01", "alpha"))
	writeFile(t, root, "b.md", post("B", "2023-06-15", "beta"))
	writeFile(t, root, "sub/c.md", post("C", "2023-06-15", "gamma"))

	t.Run("Every Listed Post Round Trips", func(t *testing.T) {
		posts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)

		for _, p := range posts {
			got, err := repo.Get(ctx, p.Slug)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		}
	})

	t.Run("Unknown Slug", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("Fields", func(t *testing.T) {
		got, err := repo.Get(ctx, "sub/c")
		require.NoError(t, err)
		assert.Equal(t, "C", got.Title)
		assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), got.Date)
		assert.Equal(t, "gamma", strings.TrimSpace(got.Content))
		assert.Equal(t, "sub/c.md", got.Path)
		assert.True(t, got.Visible)
	})
}

// TestConcurrentReads verifies that independent callers can query the same
// root at the same time without coordination.
func TestConcurrentReads(t *testing.T) {
	ctx := context.Background()
	repo, root := setupRepo(t)
	for i := 0; i < 20; i++ {
		writeFile(t, root, fmt.Sprintf("p%02d.md", i), post(fmt.Sprintf("P%d", i), "2023-01-01", "x"))
	}

	want, err := repo.List(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.List(ctx)
			if err != nil {
				errs <- err
				return
			}
			if len(got) != len(want) {
				errs <- fmt.Errorf("got %d posts, want %d", len(got), len(want))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestState(t *testing.T) {
	repo, root := setupRepo(t)

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, root, state.Path)
	assert.Equal(t, fs.DefaultInclude, state.Include)
	assert.True(t, state.RootExists)
	assert.Equal(t, "fs-repository", repo.ComponentType())
}
