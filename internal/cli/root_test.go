package cli

import (
	"bytes"
	"context"
	"testing"

	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: tests that execute commands cannot run in parallel because they use
// the global rootCmd and its package-level flag variables.

// executeCommand runs the root command with args against a fresh user config
// directory and returns what it wrote to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag in the command tree to its default so state
// does not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "convlog", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName  string
		shorthand string
	}{
		"config flag exists":   {flagName: "config", shorthand: "c"},
		"dry-run flag exists":  {flagName: "dry-run"},
		"debug flag exists":    {flagName: "debug"},
		"infile flag exists":   {flagName: "infile"},
		"tag-name flag exists": {flagName: "tag-name"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "Flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	want := []string{"update", "preview", "config", "doctor", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, "subcommand %s", name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestReleaseCommands_Flags(t *testing.T) {
	t.Parallel()

	for _, cmd := range []*cobra.Command{updateCmd, previewCmd} {
		for _, name := range []string{"version", "previous-tag", "first-release"} {
			assert.NotNil(t, cmd.Flags().Lookup(name), "%s should have --%s", cmd.Name(), name)
		}
	}
	assert.NotNil(t, previewCmd.Flags().Lookup("diff"))
	assert.NotNil(t, previewCmd.Flags().Lookup("plain"))
}

func TestExecute_DebugLogsConfiguration(t *testing.T) {
	t.Chdir(t.TempDir())

	_, stderr, err := executeCommand(t, "config", "show", "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "DEBUG")
	assert.Contains(t, stderr, "configuration loaded")
}

func TestExecute_InfoLevelByDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	_, stderr, err := executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "configuration loaded")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, clierrors.MissingVersion("update"))
	assert.Contains(t, buf.String(), "release version is required")
	assert.Contains(t, buf.String(), "convlog update --version <semver>")
}
