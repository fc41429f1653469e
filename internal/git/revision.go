// Package git reads repository files at a fixed revision.
package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrResolveFailed is returned when a revision cannot be resolved to a commit
var ErrResolveFailed = errors.New("cannot resolve revision")

// ErrFileNotFound is returned when a path does not exist at the revision
var ErrFileNotFound = errors.New("file not found at revision")

// RevisionSource reads files from the tree of one commit. It satisfies
// loader.ScriptSource.
type RevisionSource struct {
	revision string
	tree     *object.Tree
}

// OpenRevisionSource opens the repository at path and pins rev. An empty
// rev means HEAD.
func OpenRevisionSource(path, rev string) (*RevisionSource, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	return NewRevisionSource(repo, rev)
}

// NewRevisionSource pins rev in an already opened repository
func NewRevisionSource(repo *git.Repository, rev string) (*RevisionSource, error) {
	if rev == "" {
		rev = "HEAD"
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrResolveFailed, rev, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for %q: %w", rev, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for %q: %w", rev, err)
	}

	return &RevisionSource{revision: rev, tree: tree}, nil
}

// Revision returns the pinned revision
func (s *RevisionSource) Revision() string {
	return s.revision
}

// ReadFile returns the contents of path at the pinned revision
func (s *RevisionSource) ReadFile(path string) (string, error) {
	f, err := s.tree.File(strings.TrimPrefix(path, "/"))
	if errors.Is(err, object.ErrFileNotFound) {
		return "", fmt.Errorf("%w: %s@%s", ErrFileNotFound, path, s.revision)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s@%s: %w", path, s.revision, err)
	}

	contents, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %s@%s: %w", path, s.revision, err)
	}
	return contents, nil
}
