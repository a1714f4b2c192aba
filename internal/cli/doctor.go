package cli

import (
	"fmt"
	"os"

	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/health"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"doc"},
	Short:   "Check that a release can update the changelog (doc)",
	Long: `Check the repository, configuration, changelog engine and changelog file.

Nothing is generated or written. Exits non-zero when a check fails.`,
	Example: `  convlog doctor`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		opts := health.Options{Dir: cwd}
		cfg, err := loadConfig(cmd)
		if err != nil {
			opts.ConfigErr = err
		} else {
			opts.Infile = cfg.Infile
			opts.Engine = cfg.Generator.Engine
			opts.Command = cfg.Generator.Command
		}

		report := health.RunHealthChecks(cmd.Context(), opts)
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
		if !report.Passed {
			return clierrors.NewPrerequisiteError("one or more checks failed",
				"Fix the items marked ✗ above and run convlog doctor again")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
