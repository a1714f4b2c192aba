package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategoryString(t *testing.T) {
	t.Parallel()

	tests := map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		Prerequisite:      "Prerequisite Error",
		Generation:        "Generation Error",
		IO:                "IO Error",
		Runtime:           "Runtime Error",
		ErrorCategory(42): "Error",
	}

	for category, want := range tests {
		assert.Equal(t, want, category.String())
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")

	wrapped := WrapWithMessage(cause, IO, "cannot update changelog", "free some space")
	assert.Equal(t, "cannot update changelog: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, IO, wrapped.Category)

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "x"))
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	cliErr := NewPrerequisiteError("boom")
	outer := fmt.Errorf("running update: %w", cliErr)

	assert.Same(t, cliErr, AsCLIError(outer))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := MissingVersion("update")
	got := FormatErrorPlain(err)

	want := "Error [Argument Error]: release version is required\n" +
		"\nUsage: convlog update --version <semver>\n" +
		"\nTo fix this:\n" +
		"  • Pass the version being released, e.g. --version 1.4.0\n"
	assert.Equal(t, want, got)
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFormatErrorWithoutOptionalSections(t *testing.T) {
	t.Parallel()

	got := FormatErrorPlain(Wrap(stderrors.New("interrupted"), Runtime))
	assert.Equal(t, "Error [Runtime Error]: interrupted\n", got)
}

func TestFprintErrorPlainWhenRedirected(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	err := GenerationFailed(stderrors.New("exit status 2"), "exec")

	var buf bytes.Buffer
	FprintError(&buf, err)
	assert.Equal(t, FormatErrorPlain(err), buf.String())
	assert.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	FprintError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestMessages(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("cause")

	tests := map[string]struct {
		err          *CLIError
		wantCategory ErrorCategory
		wantContains string
	}{
		"invalid version":  {err: InvalidVersion(cause), wantCategory: Argument, wantContains: "invalid release version"},
		"not a repository": {err: GitNotRepository("/tmp/x"), wantCategory: Prerequisite, wantContains: "/tmp/x"},
		"config":           {err: ConfigParseError(cause), wantCategory: Configuration, wantContains: "invalid configuration"},
		"unknown key":      {err: UnknownConfigKey("foo"), wantCategory: Argument, wantContains: "foo"},
		"generation":       {err: GenerationFailed(cause, "builtin"), wantCategory: Generation, wantContains: "generation failed"},
		"write":            {err: ChangelogWriteFailed("CHANGELOG.md", cause), wantCategory: IO, wantContains: "CHANGELOG.md"},
		"stage":            {err: ChangelogStageFailed("CHANGELOG.md", cause), wantCategory: IO, wantContains: "could not be staged"},
		"flags":            {err: InvalidFlagCombination("--a, --b", "pick one"), wantCategory: Argument, wantContains: "--a, --b"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantCategory, tt.err.Category)
			assert.Contains(t, tt.err.Error(), tt.wantContains)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}

func TestGenerationFailedRemediationByEngine(t *testing.T) {
	t.Parallel()

	exec := GenerationFailed(stderrors.New("x"), "exec")
	builtin := GenerationFailed(stderrors.New("x"), "builtin")

	assert.Contains(t, exec.Remediation[0], "generator.command")
	assert.NotEqual(t, exec.Remediation, builtin.Remediation)
}
