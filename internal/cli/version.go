package cli

import (
	"fmt"
	"runtime"

	"github.com/ariel-frischer/convlog/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/convlog"

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for convlog",
	Example: `  # Show version info
  convlog version

  # Plain output (for scripts)
  convlog version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionPlain {
			fmt.Fprintf(out, "convlog %s\n", build.Version)
			fmt.Fprintf(out, "commit: %s\n", build.Commit)
			fmt.Fprintf(out, "built: %s\n", build.BuildDate)
			fmt.Fprintf(out, "go: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()
		fmt.Fprintln(out, cyan(build.Info()))
		if build.IsDevBuild() {
			fmt.Fprintln(out, dim("development build (version not set via ldflags)"))
		}
		fmt.Fprintln(out, dim(fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)))
		fmt.Fprintln(out, dim(SourceURL))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}
