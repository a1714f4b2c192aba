package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// Color functions honor color.NoColor, which is set when stdout is not a terminal.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// style renders a fragment; plain mode returns it untouched.
type style func(a ...interface{}) string

func plain(a ...interface{}) string { return fmt.Sprint(a...) }

// FormatError formats a CLIError for display in the terminal.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	pick := func(s style) style {
		if useColors {
			return s
		}
		return plain
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		pick(errorLabel)("Error"), pick(categoryFmt)(err.Category.String()), pick(errorMsg)(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", pick(usageLabel)("Usage: "), pick(usageText)(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", pick(fixLabel)("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", pick(bullet)("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to w. Colors are used only when w
// is a terminal; redirected output gets plain text.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if isTerminal(w) {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
