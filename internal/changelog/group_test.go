package changelog

import (
	"testing"
	"time"

	"github.com/ariel-frischer/convlog/internal/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleLog is newest first: two commits since v1.1.0, one for v1.1.0, two for v1.0.0.
func sampleLog() []LogEntry {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	return []LogEntry{
		{Commit: Commit{Hash: "e5", Type: "feat", Subject: "five", Date: day(5)}},
		{Commit: Commit{Hash: "d4", Type: "fix", Subject: "four", Date: day(4)}, Tags: []string{"not-a-release"}},
		{Commit: Commit{Hash: "c3", Type: "feat", Subject: "three", Date: day(3)}, Tags: []string{"v1.1.0"}},
		{Commit: Commit{Hash: "b2", Type: "fix", Subject: "two", Date: day(2)}, Tags: []string{"v1.0.0"}},
		{Commit: Commit{Hash: "a1", Type: "feat", Subject: "one", Date: day(1)}},
	}
}

func hashes(commits []Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Hash)
	}
	return out
}

func TestGroupReleases_RangeStopsAtPreviousTag(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rc := release.Context{Version: "1.2.0", PreviousTag: "v1.1.0", CurrentTag: "v1.2.0"}

	got := GroupReleases(sampleLog(), GroupOptions{Context: rc, ReleaseCount: 1, Now: now})

	require.Len(t, got, 1)
	assert.Equal(t, "1.2.0", got[0].Version)
	assert.Equal(t, "v1.2.0", got[0].CurrentTag)
	assert.Equal(t, "v1.1.0", got[0].PreviousTag)
	assert.Equal(t, now, got[0].Date)
	assert.Equal(t, []string{"e5", "d4"}, hashes(got[0].Commits))
}

func TestGroupReleases_RangeHonorsOlderPreviousTag(t *testing.T) {
	rc := release.Context{Version: "1.2.0", PreviousTag: "v1.0.0", CurrentTag: "v1.2.0"}

	got := GroupReleases(sampleLog(), GroupOptions{Context: rc, ReleaseCount: 1})

	require.Len(t, got, 1)
	assert.Equal(t, []string{"e5", "d4", "c3"}, hashes(got[0].Commits))
	assert.Equal(t, "v1.0.0", got[0].PreviousTag)
}

func TestGroupReleases_RangeWithoutPreviousTagStopsAtFirstReleaseTag(t *testing.T) {
	rc := release.Context{Version: "1.2.0", CurrentTag: "1.2.0"}

	got := GroupReleases(sampleLog(), GroupOptions{Context: rc, ReleaseCount: 1})

	require.Len(t, got, 1)
	assert.Equal(t, []string{"e5", "d4"}, hashes(got[0].Commits))
	assert.Equal(t, "v1.1.0", got[0].PreviousTag)
}

func TestGroupReleases_FullHistory(t *testing.T) {
	rc := release.Context{Version: "1.2.0", PreviousTag: "v1.1.0", CurrentTag: "v1.2.0"}

	got := GroupReleases(sampleLog(), GroupOptions{Context: rc, ReleaseCount: 0})

	require.Len(t, got, 3)

	assert.Equal(t, "1.2.0", got[0].Version)
	assert.Equal(t, "v1.1.0", got[0].PreviousTag)
	assert.Equal(t, []string{"e5", "d4"}, hashes(got[0].Commits))

	assert.Equal(t, "1.1.0", got[1].Version)
	assert.Equal(t, "v1.1.0", got[1].CurrentTag)
	assert.Equal(t, "v1.0.0", got[1].PreviousTag)
	assert.Equal(t, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), got[1].Date)
	assert.Equal(t, []string{"c3"}, hashes(got[1].Commits))

	assert.Equal(t, "1.0.0", got[2].Version)
	assert.Empty(t, got[2].PreviousTag)
	assert.Equal(t, []string{"b2", "a1"}, hashes(got[2].Commits))
}

func TestGroupReleases_ReleaseCountLimits(t *testing.T) {
	rc := release.Context{Version: "1.2.0", PreviousTag: "v1.1.0", CurrentTag: "v1.2.0"}

	got := GroupReleases(sampleLog(), GroupOptions{Context: rc, ReleaseCount: 2})

	require.Len(t, got, 2)
	assert.Equal(t, "v1.0.0", got[1].PreviousTag)
	assert.Equal(t, []string{"c3"}, hashes(got[1].Commits))
}

func TestGroupReleases_CurrentTagDoesNotSplit(t *testing.T) {
	log := []LogEntry{
		{Commit: Commit{Hash: "b2", Type: "feat"}, Tags: []string{"v2.0.0"}},
		{Commit: Commit{Hash: "a1", Type: "fix"}, Tags: []string{"v1.0.0"}},
	}
	rc := release.Context{Version: "2.0.0", PreviousTag: "v1.0.0", CurrentTag: "v2.0.0"}

	got := GroupReleases(log, GroupOptions{Context: rc, ReleaseCount: 1})

	require.Len(t, got, 1)
	assert.Equal(t, []string{"b2"}, hashes(got[0].Commits))
}

func TestGroupReleases_EmptyLog(t *testing.T) {
	rc := release.Context{Version: "0.1.0", CurrentTag: "0.1.0"}

	got := GroupReleases(nil, GroupOptions{Context: rc, ReleaseCount: 0})

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Commits)
}
