package config

import (
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.yml")
	empty := filepath.Join(dir, "empty.yml")
	broken := filepath.Join(dir, "broken.yml")
	writeFile(t, valid, "infile: CHANGELOG.md\n")
	writeFile(t, empty, "   \n")
	writeFile(t, broken, "infile: CHANGELOG.md\n  bad indent: x\n")

	assert.NoError(t, ValidateYAMLSyntax(valid))
	assert.NoError(t, ValidateYAMLSyntax(empty))
	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(dir, "missing.yml")))

	err := ValidateYAMLSyntax(broken)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, broken, vErr.FilePath)
	assert.Positive(t, vErr.Line)
}

func TestValidationErrorFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with line": {
			err:  ValidationError{FilePath: ".convlog.yml", Line: 3, Column: 5, Message: "bad"},
			want: ".convlog.yml:3:5: bad",
		},
		"with field": {
			err:  ValidationError{FilePath: "config", Field: "generator.engine", Message: "bad"},
			want: "config: field 'generator.engine': bad",
		},
		"plain": {
			err:  ValidationError{FilePath: "config", Message: "bad"},
			want: "config: bad",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestExtractLineColumn(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		msg       string
		line, col int
	}{
		"line and column": {msg: "yaml: line 5: column 3: bad", line: 5, col: 3},
		"line only":       {msg: "yaml: line 7: could not find expected ':'", line: 7, col: 1},
		"no position":     {msg: "something else", line: 0, col: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			line, col := extractLineColumn(tt.msg)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestValidateTypes(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateTypes(nil))
	assert.NoError(t, validateTypes([]changelog.TypeConfig{
		{Type: "feat", Section: "Features"},
		{Type: "chore", Hidden: true},
	}))
	assert.ErrorContains(t, validateTypes([]changelog.TypeConfig{
		{Type: "feat", Section: "Features"},
		{Type: "Feat", Section: "More"},
	}), "duplicate type")
	assert.ErrorContains(t, validateTypes([]changelog.TypeConfig{{Type: "fix"}}), "section is required")
}
