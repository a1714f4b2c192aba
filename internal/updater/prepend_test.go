package updater

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrependFile(t *testing.T) {
	tests := map[string]struct {
		existing *string
		text     string
		want     string
	}{
		"creates missing file": {
			text: "new\n\n",
			want: "new\n\n",
		},
		"prepends to content": {
			existing: ptr("old\n"),
			text:     "new\n\n",
			want:     "new\n\nold\n",
		},
		"empty existing file": {
			existing: ptr(""),
			text:     "new\n\n",
			want:     "new\n\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "CHANGELOG.md")
			if tt.existing != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.existing), 0o644))
			}

			require.NoError(t, PrependFile(path, tt.text))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assertNoTempFiles(t, filepath.Dir(path))
		})
	}
}

func TestPrependFile_NewFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	require.NoError(t, PrependFile(path, "x"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestPrependFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "CHANGELOG.md")

	err := PrependFile(path, "x")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
	assert.NoFileExists(t, path)
}

func TestPrependFile_ReadFailure(t *testing.T) {
	// A directory at the target path cannot be read as a file.
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	require.NoError(t, os.Mkdir(path, 0o755))

	err := PrependFile(path, "x")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
}

func ptr(s string) *string { return &s }
