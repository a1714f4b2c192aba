package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/output"
	"github.com/ariel-frischer/convlog/internal/updater"
	"github.com/spf13/cobra"
)

var (
	previewFlags releaseFlags
	previewDiff  bool
	previewPlain bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the changelog for a release without writing it",
	Long: `Generate the changelog for the commits between the previous release tag and
the new release and print it. The changelog file is never modified.

With --diff, show a unified diff between the current changelog file and what
'convlog update' would write (the whole history when the file is new).`,
	Example: `  # Release notes for 1.4.0
  convlog preview --version 1.4.0

  # Diff against CHANGELOG.md
  convlog preview --version 1.4.0 --diff

  # Raw markdown, e.g. for a release description
  convlog preview --version 1.4.0 --plain > notes.md`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewFlags.register(previewCmd)
	previewCmd.Flags().BoolVar(&previewDiff, "diff", false, "Show a unified diff against the changelog file")
	previewCmd.Flags().BoolVar(&previewPlain, "plain", false, "Print raw markdown without headers or colors")
	previewCmd.MarkFlagsMutuallyExclusive("diff", "plain")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	env, err := prepareRelease(cmd, &previewFlags)
	if err != nil {
		return err
	}
	if previewDiff {
		return runPreviewDiff(cmd, env)
	}

	spin := newSpinner(cmd)
	spin.Start("Generating changelog")
	rc, text, err := env.updater.Preview(cmd.Context(), env.context, env.opts)
	spin.Stop()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if previewPlain {
		fmt.Fprintln(out, text)
		return nil
	}
	output.PrintRule(out, rc.CurrentTag, output.GetTerminalWidth())
	output.PrintChangelog(out, text)
	return nil
}

func runPreviewDiff(cmd *cobra.Command, env *releaseEnv) error {
	infile := env.cfg.Infile
	if infile == "" {
		return clierrors.InvalidFlagCombination("--diff", "No changelog file is configured; set infile or pass --infile")
	}

	rc, err := updater.ResolveContext(env.context, env.opts)
	if err != nil {
		return err
	}

	spin := newSpinner(cmd)
	spin.Start("Generating changelog")
	plan, err := env.updater.Plan(cmd.Context(), rc, env.opts)
	spin.Stop()
	if err != nil {
		return err
	}

	diff, err := output.UnifiedDiff(infile, string(plan.Current), plan.Content())
	if err != nil {
		return err
	}
	if !plan.Exists {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s does not exist; it would be created with the whole history\n", infile)
	}
	output.PrintDiff(cmd.OutOrStdout(), diff)
	return nil
}
