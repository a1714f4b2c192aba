package changelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommit(t *testing.T) {
	date := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		message  string
		expected Commit
	}{
		"type and subject": {
			message: "feat: add tag inference",
			expected: Commit{
				Hash:    "abc1234def",
				Header:  "feat: add tag inference",
				Type:    "feat",
				Subject: "add tag inference",
				Date:    date,
			},
		},
		"scoped fix with body and reference": {
			message: "fix(writer): keep existing content\n\nThe old file was truncated.\n\nCloses #42",
			expected: Commit{
				Hash:       "abc1234def",
				Header:     "fix(writer): keep existing content",
				Type:       "fix",
				Scope:      "writer",
				Subject:    "keep existing content",
				Body:       "The old file was truncated.\n\nCloses #42",
				References: []Reference{{Action: "closes", Issue: "42"}},
				Date:       date,
			},
		},
		"bang marks breaking change": {
			message: "feat(api)!: drop legacy flag",
			expected: Commit{
				Hash:     "abc1234def",
				Header:   "feat(api)!: drop legacy flag",
				Type:     "feat",
				Scope:    "api",
				Subject:  "drop legacy flag",
				Breaking: true,
				Notes:    []Note{{Title: "BREAKING CHANGE", Text: "drop legacy flag"}},
				Date:     date,
			},
		},
		"breaking footer spans lines": {
			message: "refactor: rename option\n\nBREAKING CHANGE: `tag` is now `tag_name`\nupdate configs accordingly",
			expected: Commit{
				Hash:     "abc1234def",
				Header:   "refactor: rename option",
				Type:     "refactor",
				Subject:  "rename option",
				Body:     "BREAKING CHANGE: `tag` is now `tag_name`\nupdate configs accordingly",
				Breaking: true,
				Notes:    []Note{{Title: "BREAKING CHANGE", Text: "`tag` is now `tag_name`\nupdate configs accordingly"}},
				Date:     date,
			},
		},
		"reference footer ends breaking note": {
			message: "fix(core): a bug\n\nBREAKING CHANGE: api gone\n\nCloses #12",
			expected: Commit{
				Hash:       "abc1234def",
				Header:     "fix(core): a bug",
				Type:       "fix",
				Scope:      "core",
				Subject:    "a bug",
				Body:       "BREAKING CHANGE: api gone\n\nCloses #12",
				Breaking:   true,
				Notes:      []Note{{Title: "BREAKING CHANGE", Text: "api gone"}},
				References: []Reference{{Action: "closes", Issue: "12"}},
				Date:       date,
			},
		},
		"git revert message": {
			message: "Revert \"feat: add tag inference\"\n\nThis reverts commit 0123456789abcdef.",
			expected: Commit{
				Hash:    "abc1234def",
				Header:  "Revert \"feat: add tag inference\"",
				Type:    "revert",
				Subject: "feat: add tag inference",
				Body:    "This reverts commit 0123456789abcdef.",
				Revert:  &Revert{Header: "feat: add tag inference", Hash: "0123456789abcdef"},
				Date:    date,
			},
		},
		"upper case type is normalized": {
			message: "Fix: handle CRLF\r\n",
			expected: Commit{
				Hash:    "abc1234def",
				Header:  "Fix: handle CRLF",
				Type:    "fix",
				Subject: "handle CRLF",
				Date:    date,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCommit("abc1234def", tt.message, date)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCommit_NotConventional(t *testing.T) {
	tests := map[string]string{
		"plain sentence": "Update README",
		"missing space":  "feat:no space",
		"empty type":     ": subject",
		"merge commit":   "Merge branch 'main' into feature",
		"empty message":  "",
	}

	for name, message := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCommit("0123456789", message, time.Time{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotConventional)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "0123456789", pe.Hash)
			assert.False(t, got.IsConventional())
			assert.Contains(t, err.Error(), "0123456")
		})
	}
}

func TestParseCommit_NonConventionalKeepsBreakingNotes(t *testing.T) {
	got, err := ParseCommit("h", "Rework config\n\nBREAKING-CHANGE: infile is required", time.Time{})
	require.ErrorIs(t, err, ErrNotConventional)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "infile is required", got.Notes[0].Text)
}

func TestParseReferences_Deduplicates(t *testing.T) {
	refs := parseReferences("Fixes #3, closes #3 and resolves #7")
	assert.Equal(t, []Reference{
		{Action: "fixes", Issue: "3"},
		{Action: "resolves", Issue: "7"},
	}, refs)
}
