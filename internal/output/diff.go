package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff returns a unified diff between the current file content and
// the content after an update. An empty string means no change.
func UnifiedDiff(path, current, updated string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(updated),
		FromFile: path,
		ToFile:   path + " (updated)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("computing diff for %s: %w", path, err)
	}
	return text, nil
}

// PrintDiff prints a unified diff with added lines in green and removed lines in red.
func PrintDiff(out io.Writer, diff string) {
	add := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()
	hunk := color.New(color.FgCyan).SprintFunc()
	header := color.New(color.Bold).SprintFunc()

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			fmt.Fprintln(out, header(text))
		case strings.HasPrefix(text, "@@"):
			fmt.Fprintln(out, hunk(text))
		case strings.HasPrefix(text, "+"):
			fmt.Fprintln(out, add(text))
		case strings.HasPrefix(text, "-"):
			fmt.Fprintln(out, del(text))
		default:
			fmt.Fprintln(out, text)
		}
	}
}
