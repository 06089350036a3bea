package release

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository is the read-only view of version control the release needs.
// Mutations (add, commit, tag, push) run through the git binary as
// pipeline steps so their output and credential helpers behave as usual.
type Repository interface {
	// Changes lists paths that differ from HEAD, including untracked files.
	Changes() ([]string, error)
	// TagExists reports whether a tag with the given name exists.
	TagExists(name string) (bool, error)
}

// GitRepository reads a working tree with go-git.
type GitRepository struct {
	repo *git.Repository
}

// OpenGitRepository opens the repository containing dir.
func OpenGitRepository(dir string) (*GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}
	return &GitRepository{repo: repo}, nil
}

func (g *GitRepository) Changes() ([]string, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to check git status: %w", err)
	}
	var paths []string
	for path, fs := range status {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

func (g *GitRepository) TagExists(name string) (bool, error) {
	_, err := g.repo.Reference(plumbing.NewTagReferenceName(name), false)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up tag %s: %w", name, err)
	}
}
