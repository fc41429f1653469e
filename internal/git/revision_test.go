package git

import (
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/sourceplane/pipeshift/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, path, content, message string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, util.WriteFile(wt.Filesystem, path, []byte(content), 0644))

	_, err = wt.Add(path)
	require.NoError(t, err)

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestRevisionSource(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	first := commitFile(t, repo, "src/slv/orders.py", "v1", "first")
	commitFile(t, repo, "src/slv/orders.py", "v2", "second")

	head, err := NewRevisionSource(repo, "")
	require.NoError(t, err)
	assert.Equal(t, "HEAD", head.Revision())

	text, err := head.ReadFile("src/slv/orders.py")
	require.NoError(t, err)
	assert.Equal(t, "v2", text)

	old, err := NewRevisionSource(repo, first.String())
	require.NoError(t, err)
	text, err = old.ReadFile("/src/slv/orders.py")
	require.NoError(t, err)
	assert.Equal(t, "v1", text)

	_, err = head.ReadFile("src/missing.py")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = NewRevisionSource(repo, "no-such-branch")
	assert.True(t, errors.Is(err, ErrResolveFailed))
}

func TestRevisionSourceFeedsScriptFetch(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	commitFile(t, repo, "jobs/a.py", "print('a')", "add job")

	src, err := NewRevisionSource(repo, "HEAD")
	require.NoError(t, err)

	var _ loader.ScriptSource = src
	text, err := src.ReadFile("jobs/a.py")
	require.NoError(t, err)
	assert.Equal(t, "print('a')", text)
}

func TestOpenRevisionSourceMissingRepo(t *testing.T) {
	_, err := OpenRevisionSource(t.TempDir(), "HEAD")
	assert.Error(t, err)
}
