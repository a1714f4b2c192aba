package cli

import (
	"os"

	"github.com/ariel-frischer/convlog/internal/config"
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/generator"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/ariel-frischer/convlog/internal/progress"
	"github.com/ariel-frischer/convlog/internal/release"
	"github.com/ariel-frischer/convlog/internal/updater"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// releaseFlags are the host-context flags shared by update and preview.
type releaseFlags struct {
	version      string
	previousTag  string
	firstRelease bool
}

func (f *releaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.version, "version", "", "Version being released (semver, required)")
	cmd.Flags().StringVar(&f.previousTag, "previous-tag", "", "Tag of the previous release (default: latest semver tag reachable from HEAD)")
	cmd.Flags().BoolVar(&f.firstRelease, "first-release", false, "Treat this as the first release (no previous tag)")
	cmd.MarkFlagsMutuallyExclusive("previous-tag", "first-release")
}

// releaseEnv is everything a release command needs, resolved from flags,
// configuration and the repository.
type releaseEnv struct {
	cfg     *config.Configuration
	opts    generator.Options
	context release.Context
	updater *updater.Updater
}

// prepareRelease loads configuration, locates the repository and builds the
// release context and the updater for cmd.
func prepareRelease(cmd *cobra.Command, f *releaseFlags) (*releaseEnv, error) {
	if f.version == "" {
		return nil, clierrors.MissingVersion(cmd.Name())
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dir, err := git.RepositoryRoot(cwd)
	if err != nil {
		logger.Debug("repository lookup failed", zap.Error(err))
		return nil, clierrors.GitNotRepository(cwd)
	}

	previous := f.previousTag
	if !f.firstRelease && !cmd.Flags().Changed("previous-tag") {
		previous, err = git.LatestTag(cmd.Context(), dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("previous tag discovered", zap.String("previous_tag", previous))
	}

	opts := cfg.GeneratorOptions(dir)
	gen, err := generator.New(opts, logger)
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}

	return &releaseEnv{
		cfg:     cfg,
		opts:    opts,
		context: release.Context{Version: f.version, PreviousTag: previous},
		updater: &updater.Updater{
			Generator: gen,
			Stager:    updater.StagerFunc(git.Stage),
			Logger:    logger,
			DryRun:    cfg.DryRun,
		},
	}, nil
}

// newSpinner returns a spinner on the command's stderr.
func newSpinner(cmd *cobra.Command) *progress.Spinner {
	var caps progress.TerminalCapabilities
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}
	return progress.NewSpinner(cmd.ErrOrStderr(), caps)
}
