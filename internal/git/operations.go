package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultBranch is pushed when the checked-out branch cannot be determined
const DefaultBranch = "main"

// openRepository opens the repository containing path, walking up to the
// enclosing .git directory like the git executable does.
func openRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return repo, nil
}

// CurrentBranch returns the short name of the branch HEAD points to. A fresh
// repository without commits still reports the branch it will commit to.
func CurrentBranch(path string) (string, error) {
	repo, err := openRepository(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}

	return "", fmt.Errorf("HEAD is detached at %s", head.Hash())
}

// RemoteURL returns the first URL configured for the named remote
func RemoteURL(path, name string) (string, error) {
	repo, err := openRepository(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("remote %q is not configured", name)
		}
		return "", fmt.Errorf("failed to read remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}
