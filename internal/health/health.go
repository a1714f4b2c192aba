// Package health provides release-readiness checks for convlog. It validates
// that the repository, configuration, changelog engine and changelog file are
// usable before a release runs, returning structured reports used by the
// 'convlog doctor' command.
package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/convlog/internal/generator"
	"github.com/ariel-frischer/convlog/internal/git"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options is what the checks inspect. ConfigErr is the error from loading
// configuration; when set, the engine and changelog checks are skipped.
type Options struct {
	Dir       string
	Infile    string
	Engine    string
	Command   string
	ConfigErr error
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, 5),
		Passed: true,
	}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed {
			report.Passed = false
		}
	}

	root, repoCheck := CheckRepository(opts.Dir)
	add(repoCheck)
	if repoCheck.Passed {
		add(CheckReleaseTag(ctx, root))
	}

	add(CheckConfiguration(opts.ConfigErr))
	if opts.ConfigErr != nil {
		return report
	}

	add(CheckEngine(opts.Engine, opts.Command))
	add(CheckChangelogFile(opts.Infile))
	return report
}

// CheckRepository checks that dir is inside a git repository and returns its root.
func CheckRepository(dir string) (string, CheckResult) {
	root, err := git.RepositoryRoot(dir)
	if err != nil {
		return "", CheckResult{
			Name:    "Git repository",
			Passed:  false,
			Message: fmt.Sprintf("not a git repository: %s", dir),
		}
	}
	return root, CheckResult{
		Name:    "Git repository",
		Passed:  true,
		Message: root,
	}
}

// CheckReleaseTag reports the tag the next release would start from.
// A repository without release tags passes: the next release is the first.
func CheckReleaseTag(ctx context.Context, root string) CheckResult {
	tag, err := git.LatestTag(ctx, root)
	if err != nil {
		return CheckResult{
			Name:    "Previous release",
			Passed:  false,
			Message: fmt.Sprintf("reading tags: %v", err),
		}
	}
	if tag == "" {
		return CheckResult{
			Name:    "Previous release",
			Passed:  true,
			Message: "no release tag yet (next release is the first)",
		}
	}
	return CheckResult{
		Name:    "Previous release",
		Passed:  true,
		Message: tag,
	}
}

// CheckConfiguration reports whether configuration loaded cleanly.
func CheckConfiguration(err error) CheckResult {
	if err != nil {
		return CheckResult{
			Name:    "Configuration",
			Passed:  false,
			Message: err.Error(),
		}
	}
	return CheckResult{
		Name:    "Configuration",
		Passed:  true,
		Message: "valid",
	}
}

// CheckEngine checks that the exec engine's command is on PATH.
func CheckEngine(engine, command string) CheckResult {
	if engine != generator.EngineExec {
		return CheckResult{
			Name:    "Changelog engine",
			Passed:  true,
			Message: "built-in",
		}
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return CheckResult{
			Name:    "Changelog engine",
			Passed:  false,
			Message: "exec engine selected but generator.command is empty",
		}
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return CheckResult{
			Name:    "Changelog engine",
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH", fields[0]),
		}
	}
	return CheckResult{
		Name:    "Changelog engine",
		Passed:  true,
		Message: fmt.Sprintf("exec (%s)", path),
	}
}

// CheckChangelogFile checks that the changelog file can be written, or
// created when it does not exist yet. The file is never modified.
func CheckChangelogFile(infile string) CheckResult {
	const name = "Changelog file"
	if infile == "" {
		return CheckResult{Name: name, Passed: true, Message: "disabled (infile is empty)"}
	}

	f, err := os.OpenFile(infile, os.O_WRONLY, 0)
	switch {
	case err == nil:
		f.Close()
		return CheckResult{Name: name, Passed: true, Message: infile + " is writable"}
	case !errors.Is(err, fs.ErrNotExist):
		return CheckResult{Name: name, Passed: false, Message: fmt.Sprintf("%s is not writable: %v", infile, err)}
	}

	dir := filepath.Dir(infile)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return CheckResult{Name: name, Passed: false, Message: fmt.Sprintf("directory %s does not exist", dir)}
	}
	return CheckResult{Name: name, Passed: true, Message: infile + " will be created with the whole history"}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		if check.Passed {
			fmt.Fprintf(&sb, "✓ %s: %s\n", check.Name, check.Message)
		} else {
			fmt.Fprintf(&sb, "✗ %s: %s\n", check.Name, check.Message)
		}
	}
	return sb.String()
}
