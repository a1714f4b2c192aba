package cli

import (
	"os"
	"strings"
	"testing"

	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/testutil"
	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// releasedRepo returns a repository with one tagged release and one fix on top,
// and makes it the working directory.
func releasedRepo(t *testing.T) *testutil.GitRepo {
	t.Helper()

	repo := testutil.NewGitRepo(t)
	repo.Commit("feat: first feature")
	repo.Tag("v0.1.0")
	repo.Commit("fix: first fix")
	t.Chdir(repo.Dir)
	return repo
}

func TestUpdate_CreatesAndStagesChangelog(t *testing.T) {
	repo := releasedRepo(t)

	stdout, stderr, err := executeCommand(t, "update", "--version", "0.2.0")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Created CHANGELOG.md with full history for v0.2.0 (staged)")
	assert.Contains(t, stderr, "Writing changelog to CHANGELOG.md")

	data, err := os.ReadFile(repo.Path("CHANGELOG.md"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "## 0.2.0 ("), "got %q", content)
	assert.Contains(t, content, "first fix")
	assert.Contains(t, content, "## 0.1.0 (")
	assert.Contains(t, content, "first feature")
	assert.Equal(t, gogit.Added, repo.StagingStatus("CHANGELOG.md"))
}

func TestUpdate_PrependsToExistingChangelog(t *testing.T) {
	repo := releasedRepo(t)
	existing := "## 0.1.0 (2026-01-01)\n\n* first feature\n"
	require.NoError(t, os.WriteFile(repo.Path("CHANGELOG.md"), []byte(existing), 0o644))

	stdout, _, err := executeCommand(t, "update", "--version", "0.2.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Changelog for v0.2.0 written to CHANGELOG.md")

	data, err := os.ReadFile(repo.Path("CHANGELOG.md"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "## 0.2.0 ("))
	assert.True(t, strings.HasSuffix(content, existing))
	assert.Equal(t, 1, strings.Count(content, "first feature"), "only the new range is generated")
}

func TestUpdate_FirstReleaseAndTagTemplate(t *testing.T) {
	repo := releasedRepo(t)

	stdout, _, err := executeCommand(t, "update",
		"--version", "1.0.0", "--first-release", "--tag-name", "release-${version}", "--infile", "HISTORY.md")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created HISTORY.md with full history for release-1.0.0")

	_, err = os.Stat(repo.Path("HISTORY.md"))
	require.NoError(t, err)
	_, err = os.Stat(repo.Path("CHANGELOG.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdate_VPrefixedVersion(t *testing.T) {
	repo := releasedRepo(t)

	stdout, _, err := executeCommand(t, "update", "--version", "v0.2.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "full history for v0.2.0 (staged)")

	data, err := os.ReadFile(repo.Path("CHANGELOG.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "## 0.2.0 ("), "got %q", string(data))
}

func TestUpdate_DryRun(t *testing.T) {
	repo := releasedRepo(t)

	stdout, stderr, err := executeCommand(t, "update", "--version", "0.2.0", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run: CHANGELOG.md not modified (release v0.2.0)")
	assert.Contains(t, stderr, "dry_run")

	_, err = os.Stat(repo.Path("CHANGELOG.md"))
	assert.True(t, os.IsNotExist(err), "dry run must not create the file")
}

func TestUpdate_EmptyInfileIsNoop(t *testing.T) {
	repo := releasedRepo(t)

	stdout, _, err := executeCommand(t, "update", "--version", "0.2.0", "--infile", "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No infile configured")

	_, err = os.Stat(repo.Path("CHANGELOG.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdate_ProjectConfig(t *testing.T) {
	repo := releasedRepo(t)
	require.NoError(t, os.WriteFile(repo.Path(".convlog.yml"), []byte("infile: NEWS.md\ntag_name: ${version}\n"), 0o644))

	stdout, _, err := executeCommand(t, "update", "--version", "0.2.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created NEWS.md with full history for 0.2.0")
}

func TestUpdate_Errors(t *testing.T) {
	tests := map[string]struct {
		args         []string
		inRepo       bool
		wantCategory clierrors.ErrorCategory
		wantExit     int
		wantMsg      string
	}{
		"missing version": {
			args:         []string{"update"},
			inRepo:       true,
			wantCategory: clierrors.Argument,
			wantExit:     ExitInvalidArguments,
			wantMsg:      "release version is required",
		},
		"invalid version": {
			args:         []string{"update", "--version", "not-semver"},
			inRepo:       true,
			wantCategory: clierrors.Argument,
			wantExit:     ExitInvalidArguments,
			wantMsg:      "invalid release version",
		},
		"not a repository": {
			args:         []string{"update", "--version", "0.2.0"},
			wantCategory: clierrors.Prerequisite,
			wantExit:     ExitMissingDependencies,
			wantMsg:      "not a git repository",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.inRepo {
				releasedRepo(t)
			} else {
				t.Chdir(t.TempDir())
			}

			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)

			cliErr := classify(err)
			assert.Equal(t, tt.wantCategory, cliErr.Category)
			assert.Contains(t, cliErr.Message, tt.wantMsg)
			assert.Equal(t, tt.wantExit, ExitCode(err))
		})
	}
}

func TestUpdate_PreviousTagConflictsWithFirstRelease(t *testing.T) {
	releasedRepo(t)

	_, _, err := executeCommand(t, "update", "--version", "0.2.0", "--previous-tag", "v0.1.0", "--first-release")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}
