// Package git provides the repository access convlog needs: locating the
// repository, discovering the latest release tag, walking commit history with
// the tags pointing at each commit, and staging a file. It uses the go-git
// library so no git CLI is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/ariel-frischer/convlog/internal/release"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// RepositoryRoot returns the absolute path to the worktree root containing path.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] RepositoryRoot: %s", root)
	return root, nil
}

// CommitInfo is a commit from a history walk together with the names of the
// tags pointing at it.
type CommitInfo struct {
	Hash    string
	Message string
	When    time.Time
	Tags    []string
}

// History walks the commits reachable from HEAD, newest first.
// An empty repository yields no commits and no error.
func History(ctx context.Context, path string) ([]CommitInfo, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		logDebug("[git] History: repository has no commits")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	tags, err := tagsByCommit(repo)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading log from %s: %w", head.Hash(), err)
	}
	defer iter.Close()

	var commits []CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, CommitInfo{
			Hash:    c.Hash.String(),
			Message: c.Message,
			When:    c.Committer.When,
			Tags:    tags[c.Hash],
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	logDebug("[git] History: %d commits, %d tagged", len(commits), len(tags))
	return commits, nil
}

// LatestTag returns the newest release tag reachable from HEAD, in the manner
// of `git describe --tags --abbrev=0` restricted to semver tags. When several
// release tags point at the same commit the highest version wins.
// Returns "" when no release tag is reachable.
func LatestTag(ctx context.Context, path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	tags, err := tagsByCommit(repo)
	if err != nil {
		return "", err
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("reading log from %s: %w", head.Hash(), err)
	}
	defer iter.Close()

	latest := ""
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tag := highestReleaseTag(tags[c.Hash]); tag != "" {
			latest = tag
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history: %w", err)
	}

	logDebug("[git] LatestTag: %q", latest)
	return latest, nil
}

// tagsByCommit maps commit hashes to the tags pointing at them, resolving
// annotated tags to their target commit. Names are sorted for stable output.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash][]string, error) {
	refs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tags := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()

		tagObj, err := repo.TagObject(ref.Hash())
		switch {
		case err == nil:
			commit, err := tagObj.Commit()
			if err != nil {
				logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
				return nil
			}
			target = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("reading tag %s: %w", ref.Name().Short(), err)
		}

		tags[target] = append(tags[target], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	for hash := range tags {
		sort.Strings(tags[hash])
	}
	return tags, nil
}

// highestReleaseTag returns the highest release tag among names, or "".
func highestReleaseTag(names []string) string {
	var best string
	var bestVersion *semver.Version

	for _, name := range names {
		if !release.IsReleaseTag(name) {
			continue
		}
		v, err := semver.NewVersion(name)
		if err != nil {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = name, v
		}
	}
	return best
}

// Stage adds path to the index of the repository containing it.
// This is the go-git equivalent of `git add <path>`.
func Stage(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	repo, err := openRepo(filepath.Dir(abs))
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	rel, err := relativeToRoot(worktree.Filesystem.Root(), abs)
	if err != nil {
		return err
	}

	if _, err := worktree.Add(rel); err != nil {
		return fmt.Errorf("staging %s: %w", rel, err)
	}

	logDebug("[git] Stage: added %s", rel)
	return nil
}

// relativeToRoot returns path relative to the worktree root using forward
// slashes. Symlinks are resolved on both sides so /tmp vs /private/tmp style
// aliases do not produce "../" paths.
func relativeToRoot(root, path string) (string, error) {
	dir, file := filepath.Split(path)
	resolvedRoot, rootErr := filepath.EvalSymlinks(root)
	resolvedDir, dirErr := filepath.EvalSymlinks(dir)
	if rootErr == nil && dirErr == nil {
		root = resolvedRoot
		path = filepath.Join(resolvedDir, file)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("computing path of %s relative to %s: %w", path, root, err)
	}
	if rel == ".." || filepath.IsAbs(rel) || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
