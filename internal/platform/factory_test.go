package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/core"
)

type stubRepo struct {
	posts   []core.Post
	initErr error
}

func (s *stubRepo) List(ctx context.Context) ([]core.Post, error) { return s.posts, nil }

func (s *stubRepo) Get(ctx context.Context, slug string) (core.Post, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return core.Post{}, core.ErrNotFound
}

func (s *stubRepo) Initialize(ctx context.Context) error { return s.initErr }

func TestNew(t *testing.T) {
	t.Run("Filesystem Root", func(t *testing.T) {
		root := t.TempDir()
		content := "---\ntitle: Hi\ndate: 2024-02-03\n---\nbody\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, "hi.md"), []byte(content), 0644))

		svc, err := platform.New(root)
		require.NoError(t, err)

		posts, err := svc.ListPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "hi", posts[0].Slug)
	})

	t.Run("Missing Root", func(t *testing.T) {
		_, err := platform.New(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("Include Pattern", func(t *testing.T) {
		root := t.TempDir()
		content := "---\ntitle: Hi\ndate: 2024-02-03\n---\nbody\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, "hi.md"), []byte(content), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "hi.txt"), []byte(content), 0644))

		svc, err := platform.New(root, platform.WithInclude("*.txt"))
		require.NoError(t, err)

		posts, err := svc.ListPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "hi.txt", posts[0].Path)
	})

	t.Run("Injected Repository", func(t *testing.T) {
		repo := &stubRepo{posts: []core.Post{{Slug: "x", Title: "X"}}}
		svc, err := platform.New("ignored", platform.WithRepository(repo))
		require.NoError(t, err)

		p, err := svc.GetPost(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, "X", p.Title)
	})

	t.Run("Initialize Error Surfaces", func(t *testing.T) {
		repo := &stubRepo{initErr: core.ErrConfiguration}
		_, err := platform.Open("ignored", platform.WithRepository(repo))
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})
}
