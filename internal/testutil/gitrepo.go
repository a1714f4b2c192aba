package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo is a throwaway repository built with go-git. Commits are made with
// a monotonically increasing clock so history order is deterministic.
type GitRepo struct {
	t     *testing.T
	Dir   string
	Repo  *git.Repository
	clock time.Time
	seq   int
}

// NewGitRepo initializes an empty repository in a fresh temp directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("initializing repository: %v", err)
	}

	return &GitRepo{
		t:     t,
		Dir:   dir,
		Repo:  repo,
		clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Path returns the absolute path of rel inside the repository.
func (r *GitRepo) Path(rel string) string {
	return filepath.Join(r.Dir, filepath.FromSlash(rel))
}

// Commit writes a file unique to this commit, stages it and commits with
// message. Returns the commit hash.
func (r *GitRepo) Commit(message string) string {
	r.t.Helper()

	r.seq++
	name := fmt.Sprintf("file-%03d.txt", r.seq)
	if err := os.WriteFile(r.Path(name), []byte(message), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}

	wt, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("adding %s: %v", name, err)
	}

	r.clock = r.clock.Add(time.Hour)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:    r.signature(),
		Committer: r.signature(),
	})
	if err != nil {
		r.t.Fatalf("committing %q: %v", message, err)
	}
	return hash.String()
}

// Tag creates a lightweight tag at HEAD.
func (r *GitRepo) Tag(name string) {
	r.t.Helper()
	if _, err := r.Repo.CreateTag(name, r.head(), nil); err != nil {
		r.t.Fatalf("creating tag %s: %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag at HEAD.
func (r *GitRepo) AnnotatedTag(name, message string) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, r.head(), &git.CreateTagOptions{
		Tagger:  r.signature(),
		Message: message,
	})
	if err != nil {
		r.t.Fatalf("creating annotated tag %s: %v", name, err)
	}
}

// StagingStatus returns the index status of rel (e.g. git.Added, git.Unmodified).
func (r *GitRepo) StagingStatus(rel string) git.StatusCode {
	r.t.Helper()

	wt, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	status, err := wt.Status()
	if err != nil {
		r.t.Fatalf("getting status: %v", err)
	}
	return status.File(rel).Staging
}

func (r *GitRepo) head() plumbing.Hash {
	r.t.Helper()
	ref, err := r.Repo.Head()
	if err != nil {
		r.t.Fatalf("getting HEAD: %v", err)
	}
	return ref.Hash()
}

func (r *GitRepo) signature() *object.Signature {
	return &object.Signature{Name: "Test", Email: "test@test.com", When: r.clock}
}
