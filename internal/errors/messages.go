package errors

import "fmt"

// Common error messages for the convlog CLI.
// These templates ensure consistent, actionable error messages.

// MissingVersion creates an error for a missing --version flag.
func MissingVersion(command string) *CLIError {
	return NewArgumentErrorWithUsage(
		"release version is required",
		fmt.Sprintf("convlog %s --version <semver>", command),
		"Pass the version being released, e.g. --version 1.4.0",
	)
}

// InvalidVersion creates an error for a version that is not semver.
func InvalidVersion(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"invalid release version",
		"Use a semantic version such as 1.4.0 or 1.4.0-rc.1",
		"The tag prefix comes from tag_name (or the previous tag), not from --version",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", path),
		"Run convlog from inside the repository being released",
		"Or initialize one with: git init",
	)
}

// ConfigParseError creates an error for an invalid config file or value.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check .convlog.yml (or ~/.config/convlog/config.yml) for typos",
		"List valid keys with: convlog config keys",
		"Show the effective configuration with: convlog config show",
	)
}

// UnknownConfigKey creates an error for a key missing from the schema.
func UnknownConfigKey(key string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown configuration key: %s", key),
		"List valid keys with: convlog config keys",
	)
}

// GenerationFailed creates an error when the changelog engine fails.
func GenerationFailed(err error, engine string) *CLIError {
	remediation := []string{
		"Check that the previous tag exists: git tag --list",
		"Re-run with --debug to see the commits being parsed",
	}
	if engine == "exec" {
		remediation = []string{
			"Check that generator.command is installed and on your PATH",
			"Run the command by hand to see its full output",
			"Or switch to the built-in engine: convlog config set generator.engine builtin",
		}
	}
	return WrapWithMessage(err, Generation, "changelog generation failed", remediation...)
}

// ChangelogWriteFailed creates an error when the changelog file cannot be written.
func ChangelogWriteFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, IO,
		fmt.Sprintf("cannot update changelog %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure the parent directory exists and is writable",
		"The file was left unchanged",
	)
}

// ChangelogStageFailed creates an error when a new changelog cannot be staged.
func ChangelogStageFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, IO,
		fmt.Sprintf("changelog %s was written but could not be staged", path),
		"Stage it manually with: git add "+path,
		"Check that the file is inside the repository worktree",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'convlog <command> --help' to see valid options",
	)
}
