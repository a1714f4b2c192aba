// Package output renders changelog previews for the terminal.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintRule prints a dim separator with a centered label, sized to width.
func PrintRule(out io.Writer, label string, width int) {
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (width - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintChangelog prints changelog markdown with release and section headings
// highlighted. Colors are dropped automatically when output is not a terminal.
func PrintChangelog(out io.Writer, markdown string) {
	release := color.New(color.FgCyan, color.Bold).SprintFunc()
	section := color.New(color.FgYellow, color.Bold).SprintFunc()
	breaking := color.New(color.FgRed, color.Bold).SprintFunc()

	for _, line := range strings.Split(markdown, "\n") {
		switch {
		case strings.HasPrefix(line, "### ") && strings.Contains(line, "BREAKING"):
			fmt.Fprintln(out, breaking(line))
		case strings.HasPrefix(line, "### "):
			fmt.Fprintln(out, section(line))
		case strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "# "):
			fmt.Fprintln(out, release(line))
		default:
			fmt.Fprintln(out, line)
		}
	}
}

// PrintSummary prints the outcome of an update ("✓ Changelog written to X").
func PrintSummary(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}
