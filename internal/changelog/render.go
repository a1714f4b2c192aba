package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderOptions configures markdown output.
type RenderOptions struct {
	Preset Preset
	// RepositoryURL enables compare, commit and issue links when set
	// (e.g. "https://github.com/org/repo").
	RepositoryURL string
}

// RenderMarkdown writes the given releases, newest first, in the preset's
// markdown style. Releases are separated by a blank line; the output carries
// no trailing blank line.
func RenderMarkdown(w io.Writer, releases []Release, opts RenderOptions) error {
	for i := range releases {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if err := renderRelease(w, &releases[i], opts); err != nil {
			return fmt.Errorf("rendering release %s: %w", releases[i].Version, err)
		}
	}
	return nil
}

func renderRelease(w io.Writer, r *Release, opts RenderOptions) error {
	var b strings.Builder
	b.WriteString(formatReleaseHeader(r, opts.RepositoryURL))

	for _, section := range groupSections(r.Commits, opts.Preset) {
		b.WriteString("\n\n### " + section.title + "\n")
		for _, c := range section.commits {
			b.WriteString("\n" + formatCommitLine(c, opts.RepositoryURL))
		}
	}

	notes := collectNotes(r.Commits)
	if len(notes) > 0 {
		b.WriteString("\n\n### " + opts.Preset.BreakingTitle + "\n")
		for _, n := range notes {
			b.WriteString("\n" + n)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatReleaseHeader formats "## [1.2.0](compare) (2026-01-15)".
func formatReleaseHeader(r *Release, repoURL string) string {
	date := ""
	if !r.Date.IsZero() {
		date = " (" + r.Date.Format("2006-01-02") + ")"
	}

	if repoURL != "" && r.PreviousTag != "" && r.CurrentTag != "" {
		return fmt.Sprintf("## [%s](%s/compare/%s...%s)%s", r.Version, repoURL, r.PreviousTag, r.CurrentTag, date)
	}
	return fmt.Sprintf("## %s%s", r.Version, date)
}

type section struct {
	title   string
	commits []Commit
}

// groupSections buckets visible commits by type in preset order.
// Sections sharing a title are merged.
func groupSections(commits []Commit, preset Preset) []section {
	var sections []section
	index := make(map[string]int)

	for _, tc := range preset.Types {
		if tc.Hidden {
			continue
		}
		if _, ok := index[tc.Section]; !ok {
			index[tc.Section] = len(sections)
			sections = append(sections, section{title: tc.Section})
		}
	}

	for _, c := range commits {
		if !c.IsConventional() {
			continue
		}
		tc, ok := preset.lookupType(c.Type)
		if !ok || tc.Hidden {
			continue
		}
		i := index[tc.Section]
		sections[i].commits = append(sections[i].commits, c)
	}

	nonEmpty := sections[:0]
	for _, s := range sections {
		if len(s.commits) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return nonEmpty
}

// formatCommitLine formats "* **scope:** subject ([abc1234](url)), closes #12".
func formatCommitLine(c Commit, repoURL string) string {
	var b strings.Builder
	b.WriteString("* ")
	if c.Scope != "" {
		b.WriteString("**" + c.Scope + ":** ")
	}
	b.WriteString(c.Subject)

	if c.Hash != "" {
		if repoURL != "" {
			fmt.Fprintf(&b, " ([%s](%s/commit/%s))", c.ShortHash(), repoURL, c.Hash)
		} else {
			fmt.Fprintf(&b, " (%s)", c.ShortHash())
		}
	}

	if len(c.References) > 0 {
		refs := make([]string, 0, len(c.References))
		for _, ref := range c.References {
			if repoURL != "" {
				refs = append(refs, fmt.Sprintf("[#%s](%s/issues/%s)", ref.Issue, repoURL, ref.Issue))
			} else {
				refs = append(refs, "#"+ref.Issue)
			}
		}
		b.WriteString(", closes " + strings.Join(refs, " "))
	}

	return b.String()
}

// collectNotes formats breaking-change notes, including those on hidden types.
func collectNotes(commits []Commit) []string {
	var notes []string
	for _, c := range commits {
		for _, n := range c.Notes {
			line := "* "
			if c.Scope != "" {
				line += "**" + c.Scope + ":** "
			}
			notes = append(notes, line+n.Text)
		}
	}
	return notes
}
