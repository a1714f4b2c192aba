package changelog

import (
	"strings"
	"time"

	"github.com/ariel-frischer/convlog/internal/release"
)

// GroupOptions controls how a commit log is split into releases.
type GroupOptions struct {
	// Context is the release being produced. Commits newer than the first
	// release tag are attributed to it.
	Context release.Context
	// ReleaseCount limits the number of releases returned, newest first.
	// Zero means every release in history.
	ReleaseCount int
	// Now dates the release being produced.
	Now time.Time
}

// GroupReleases splits a newest-first log into releases.
//
// With ReleaseCount 1 and a previous tag in the context, the walk stops at the
// commit carrying that tag. Without a previous tag it stops at the first
// semver tag. Otherwise every semver tag (and the context's previous tag,
// semver or not) opens an older release. The current tag never splits, so a
// release tagged ahead of time still groups correctly.
func GroupReleases(log []LogEntry, opts GroupOptions) []Release {
	rc := opts.Context
	releases := []Release{{
		Version:    rc.Version,
		CurrentTag: rc.CurrentTag,
		Date:       opts.Now,
	}}

	rangeOnly := opts.ReleaseCount == 1

	for _, entry := range log {
		tag := boundaryTag(entry.Tags, rc, rangeOnly)
		if tag != "" {
			releases[len(releases)-1].PreviousTag = tag
			if rangeOnly || (opts.ReleaseCount > 0 && len(releases) >= opts.ReleaseCount) {
				break
			}
			releases = append(releases, Release{
				Version:    TagVersion(tag),
				CurrentTag: tag,
				Date:       entry.Commit.Date,
			})
		}
		last := &releases[len(releases)-1]
		last.Commits = append(last.Commits, entry.Commit)
	}

	return releases
}

// boundaryTag returns the tag on a commit that closes the release being
// collected, or "" if the commit belongs to it.
func boundaryTag(tags []string, rc release.Context, rangeOnly bool) string {
	for _, tag := range tags {
		if tag == rc.CurrentTag {
			continue
		}
		if rangeOnly && !rc.IsFirstRelease() {
			if tag == rc.PreviousTag {
				return tag
			}
			continue
		}
		if tag == rc.PreviousTag || release.IsReleaseTag(tag) {
			return tag
		}
	}
	return ""
}

// TagVersion strips a leading "v" from a release tag.
func TagVersion(tag string) string {
	return strings.TrimPrefix(tag, "v")
}
