package pipeline

import (
	"github.com/go-git/go-git/v5"
)

// headRevision returns the commit checked out at root, or "" when root is
// not inside a git work tree or has no commits yet.
func headRevision(root string) string {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
