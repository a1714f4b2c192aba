package cli

import (
	"context"
	"errors"
	"os/exec"

	"github.com/ariel-frischer/convlog/internal/config"
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/generator"
	"github.com/ariel-frischer/convlog/internal/release"
	"github.com/ariel-frischer/convlog/internal/updater"
	gogit "github.com/go-git/go-git/v5"
)

// Exit codes for the convlog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitGenerationFailed indicates the changelog engine failed
	ExitGenerationFailed = 1

	// ExitIOFailed indicates the changelog file could not be read, written or staged
	ExitIOFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates the repository or engine command is missing
	ExitMissingDependencies = 4

	// ExitInvalidConfig indicates invalid configuration
	ExitInvalidConfig = 5

	// ExitInterrupted indicates the command was cancelled by a signal
	ExitInterrupted = 130
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch classify(err).Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitInvalidConfig
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	case clierrors.IO:
		return ExitIOFailed
	default:
		return ExitGenerationFailed
	}
}

// classify turns an error from a command into a CLIError with remediation.
// Errors that already carry a CLIError keep it.
func classify(err error) *clierrors.CLIError {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		validationErr *config.ValidationError
		generationErr *generator.GenerationError
		ioErr         *updater.IOError
		unknownKey    config.ErrUnknownKey
	)

	switch {
	case errors.Is(err, context.Canceled):
		return clierrors.Wrap(err, clierrors.Runtime, "The command was interrupted; the changelog was left unchanged")
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		return clierrors.GitNotRepository(".")
	case errors.Is(err, release.ErrInvalidVersion):
		return clierrors.InvalidVersion(err)
	case errors.As(err, &unknownKey):
		return clierrors.UnknownConfigKey(unknownKey.Key)
	case errors.As(err, &validationErr):
		return clierrors.ConfigParseError(err)
	case errors.As(err, &generationErr):
		if errors.Is(err, exec.ErrNotFound) {
			return clierrors.WrapWithMessage(err, clierrors.Prerequisite,
				"changelog engine command not found",
				"Install it (e.g. npm install -g conventional-changelog-cli)",
				"Or switch to the built-in engine: convlog config set generator.engine builtin")
		}
		return clierrors.GenerationFailed(err, engineFromError(err))
	case errors.As(err, &ioErr):
		if ioErr.Op == "stage" {
			return clierrors.ChangelogStageFailed(ioErr.Path, err)
		}
		return clierrors.ChangelogWriteFailed(ioErr.Path, err)
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}

// engineFromError reports "exec" when the failure came from an external command.
func engineFromError(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return generator.EngineExec
	}
	return generator.EngineBuiltin
}
