package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   site/ (folio.yaml)
	//     content/
	//       posts/
	//   empty/
	baseDir := t.TempDir()
	siteDir := filepath.Join(baseDir, "site")
	contentDir := filepath.Join(siteDir, "content")
	postsDir := filepath.Join(contentDir, "posts")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(postsDir, 0755))
	require.NoError(t, os.MkdirAll(emptyDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, ConfigName), []byte("name: Blog\n"), 0644))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "Start at Root", startPath: siteDir, wantRoot: siteDir},
		{name: "Start in Subdir", startPath: contentDir, wantRoot: siteDir},
		{name: "Start Nested Deeply", startPath: postsDir, wantRoot: siteDir},
		{name: "No Root Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if tt.wantErr {
				// A .git or folio.yaml above the temp dir would satisfy the search.
				if err == nil {
					t.Skipf("found marker above temp dir at %s", got)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}

	t.Run("Git Directory Marks Root", func(t *testing.T) {
		repo := filepath.Join(t.TempDir(), "repo")
		nested := filepath.Join(repo, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0755))
		require.NoError(t, os.Mkdir(filepath.Join(repo, ".git"), 0755))

		got, err := FindRoot(nested)
		require.NoError(t, err)
		assert.Equal(t, repo, got)
	})
}
