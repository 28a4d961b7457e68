package git

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesdrop/internal/testutil"
)

func TestCurrentBranch(t *testing.T) {
	t.Run("committed branch", func(t *testing.T) {
		dir, _ := testutil.InitSiteRepository(t, "gh-pages")
		branch, err := CurrentBranch(dir)
		require.NoError(t, err)
		assert.Equal(t, "gh-pages", branch)
	})

	t.Run("unborn branch", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "empty")
		_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
			InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
		})
		require.NoError(t, err)

		branch, err := CurrentBranch(dir)
		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	})

	t.Run("detached head", func(t *testing.T) {
		dir, repo := testutil.InitSiteRepository(t, "main")
		head, err := repo.Head()
		require.NoError(t, err)
		require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, head.Hash())))

		_, err = CurrentBranch(dir)
		assert.Error(t, err)
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := CurrentBranch(t.TempDir())
		assert.Error(t, err)
	})
}

func TestRemoteURL(t *testing.T) {
	dir, repo := testutil.InitSiteRepository(t, "main")

	_, err := RemoteURL(dir, "origin")
	assert.Error(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/alice/spacerift.git"},
	})
	require.NoError(t, err)

	url, err := RemoteURL(dir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/alice/spacerift.git", url)
}
