package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/ariel-frischer/convlog/internal/release"
	"go.uber.org/zap"
)

// ErrPreviousTagNotFound is returned when a range changelog is requested from
// a previous tag that no commit reachable from HEAD carries.
var ErrPreviousTagNotFound = errors.New("previous tag not found in history")

// Builtin renders changelogs from the local git history with the built-in
// conventional-commits engine.
type Builtin struct {
	// Now dates the release being produced. Defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Generate reads history eagerly so repository errors surface immediately,
// then renders on a goroutine into the returned pipe.
func (b *Builtin) Generate(ctx context.Context, opts Options, rc release.Context) (io.ReadCloser, error) {
	logger := loggerOrNop(b.Logger)

	preset, err := changelog.LookupPreset(opts.Preset)
	if err != nil {
		return nil, err
	}
	preset = preset.WithTypes(opts.Types)

	history, err := git.History(ctx, opts.Dir)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	logger.Debug("builtin generator",
		zap.String("version", rc.Version),
		zap.String("previous_tag", rc.PreviousTag),
		zap.String("current_tag", rc.CurrentTag),
		zap.Int("release_count", opts.ReleaseCount),
		zap.Int("commits", len(history)))

	entries := toLogEntries(history, logger)
	releases := changelog.GroupReleases(entries, changelog.GroupOptions{
		Context:      rc,
		ReleaseCount: opts.ReleaseCount,
		Now:          now(),
	})
	if opts.ReleaseCount == 1 && !rc.IsFirstRelease() && releases[0].PreviousTag == "" {
		return nil, fmt.Errorf("%w: %s is not reachable from HEAD", ErrPreviousTagNotFound, rc.PreviousTag)
	}
	renderOpts := changelog.RenderOptions{Preset: preset, RepositoryURL: opts.RepositoryURL}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(changelog.RenderMarkdown(pw, releases, renderOpts))
	}()
	return pr, nil
}

// toLogEntries parses each commit. Non-conventional commits are kept so their
// tags still bound releases; the renderer skips them.
func toLogEntries(history []git.CommitInfo, logger *zap.Logger) []changelog.LogEntry {
	entries := make([]changelog.LogEntry, 0, len(history))
	for _, c := range history {
		commit, err := changelog.ParseCommit(c.Hash, c.Message, c.When)
		if errors.Is(err, changelog.ErrNotConventional) {
			logger.Debug("skipping non-conventional commit", zap.String("hash", commit.ShortHash()), zap.String("header", commit.Header))
		}
		entries = append(entries, changelog.LogEntry{Commit: commit, Tags: c.Tags})
	}
	return entries
}
