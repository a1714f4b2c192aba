// Package cli implements the convlog command tree: update and preview run the
// changelog release step; config and version are supporting commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/convlog/internal/config"
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile     string
	dryRunFlag  bool
	debugFlag   bool
	infileFlag  string
	tagNameFlag string

	// logger is built in PersistentPreRunE; commands log through it.
	logger   = zap.NewNop()
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

var rootCmd = &cobra.Command{
	Use:   "convlog",
	Short: "Prepend a conventional-commits changelog entry for each release",
	Long: `convlog generates a changelog from the commits between the previous release
tag and the one being created, and prepends it to a changelog file.

When the changelog file does not exist yet it is seeded with the whole
history and staged in git so it lands in the release commit.

Source: https://github.com/ariel-frischer/convlog`,
	Example: `  # Prepend the changes since the latest tag for release 1.4.0
  convlog update --version 1.4.0

  # See what would be written
  convlog preview --version 1.4.0 --diff

  # Use the conventionalcommits preset for this project
  convlog config set generator.preset conventionalcommits`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Project config file (default .convlog.yml, or .convlog.json)")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Log the update without generating or writing")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&infileFlag, "infile", "", "Changelog file (overrides config; empty string disables the update)")
	rootCmd.PersistentFlags().StringVar(&tagNameFlag, "tag-name", "", "Tag template with a ${version} placeholder (overrides config)")
}

// initLogger builds the console logger on the command's stderr. The level is
// atomic so a debug setting found later in the configuration can raise it.
func initLogger(cmd *cobra.Command, args []string) error {
	logLevel.SetLevel(zapcore.InfoLevel)
	if debugFlag {
		logLevel.SetLevel(zapcore.DebugLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg.EncoderConfig),
		zapcore.AddSync(cmd.ErrOrStderr()),
		logLevel,
	)
	logger = zap.New(core)

	sugar := logger.Sugar()
	git.SetDebugLogger(sugar.Debugf)
	return nil
}

// loadConfig loads layered configuration and applies the persistent flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: cfgFile,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("infile") {
		cfg.Infile = infileFlag
	}
	if flags.Changed("tag-name") {
		cfg.TagName = tagNameFlag
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRunFlag
	}
	if flags.Changed("debug") {
		cfg.Debug = debugFlag
	}

	if cfg.Debug {
		logLevel.SetLevel(zapcore.DebugLevel)
	}
	logger.Debug("configuration loaded",
		zap.String("infile", cfg.Infile),
		zap.String("engine", cfg.Generator.Engine),
		zap.String("preset", cfg.Generator.Preset),
		zap.Int("release_count", cfg.Generator.ReleaseCount),
		zap.Bool("dry_run", cfg.DryRun))
	return cfg, nil
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
// Errors are printed with remediation hints; the caller maps them to an exit
// code with ExitCode.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError prints err in the structured CLI error format.
func printError(w io.Writer, err error) {
	cliErr := classify(err)
	clierrors.FprintError(w, cliErr)
	if debugFlag && cliErr.Err != nil {
		fmt.Fprintf(w, "\ncause: %+v\n", cliErr.Err)
	}
}
