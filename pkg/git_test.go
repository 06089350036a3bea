package release

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with one commit containing package.json.
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(packageJSON), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("package.json")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, repo
}

func TestGitRepositoryChanges(t *testing.T) {
	dir, _ := initRepo(t)
	g, err := OpenGitRepository(dir)
	require.NoError(t, err)

	changes, err := g.Changes()
	require.NoError(t, err)
	assert.Empty(t, changes)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte("# log\n"), 0644))

	changes, err = g.Changes()
	require.NoError(t, err)
	assert.Equal(t, []string{"CHANGELOG.md", "package.json"}, changes)
}

func TestGitRepositoryFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "packages", "core")
	require.NoError(t, os.MkdirAll(sub, 0755))

	_, err := OpenGitRepository(sub)
	require.NoError(t, err)

	_, err = OpenGitRepository(t.TempDir())
	assert.Error(t, err)
}

func TestGitRepositoryTagExists(t *testing.T) {
	dir, repo := initRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.0.0", head.Hash(), nil)
	require.NoError(t, err)

	g, err := OpenGitRepository(dir)
	require.NoError(t, err)

	ok, err := g.TagExists("v1.0.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.TagExists("v1.1.0")
	require.NoError(t, err)
	assert.False(t, ok)
}
