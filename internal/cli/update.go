package cli

import (
	"fmt"

	"github.com/ariel-frischer/convlog/internal/output"
	"github.com/spf13/cobra"
)

var updateFlags releaseFlags

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Prepend this release's changelog to the changelog file",
	Long: `Generate the changelog for the commits between the previous release tag and
the tag of the release being created, and prepend it to the changelog file.

If the changelog file does not exist, it is created with the whole history
and staged in git. With --dry-run nothing is generated or written.

The tag of the new release is derived from --version and the tag template:
tag_name from configuration or --tag-name, otherwise "v${version}" when the
previous tag starts with "v" and "${version}" when it does not.`,
	Example: `  # Release 1.4.0; the previous tag is discovered from git
  convlog update --version 1.4.0

  # First release of a project
  convlog update --version 0.1.0 --first-release

  # Custom tag naming
  convlog update --version 2.0.0 --tag-name 'release-${version}'`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateFlags.register(updateCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	env, err := prepareRelease(cmd, &updateFlags)
	if err != nil {
		return err
	}

	infile := env.cfg.Infile
	generating := infile != "" && !env.cfg.DryRun

	spin := newSpinner(cmd)
	if generating {
		spin.Start("Generating changelog for " + infile)
	}

	result, err := env.updater.UpdateChangelog(cmd.Context(), env.context, env.opts)
	if err != nil {
		if generating {
			spin.Fail("Changelog update failed")
		}
		return err
	}
	if generating {
		spin.Stop()
	}

	out := cmd.OutOrStdout()
	switch {
	case infile == "":
		fmt.Fprintln(out, "No infile configured; changelog not updated")
	case env.cfg.DryRun:
		fmt.Fprintf(out, "Dry run: %s not modified (release %s)\n", infile, result.Context.CurrentTag)
	case result.Created:
		output.PrintSummary(out, fmt.Sprintf("Created %s with full history for %s (staged)", infile, result.Context.CurrentTag))
	default:
		output.PrintSummary(out, fmt.Sprintf("Changelog for %s written to %s", result.Context.CurrentTag, infile))
	}
	return nil
}
