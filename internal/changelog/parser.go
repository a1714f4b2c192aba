package changelog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrNotConventional is returned when a commit header does not follow the
// conventional commit format.
var ErrNotConventional = errors.New("not a conventional commit")

var (
	headerPattern    = regexp.MustCompile(`^(\w*)(?:\(([\w$.\-*/ ,]*)\))?(!)?: (.+)$`)
	revertPattern    = regexp.MustCompile(`(?s)^(?:Revert|revert:)\s"?(.+?)"?\s*This reverts commit (\w+)\.?`)
	notePattern      = regexp.MustCompile(`^(BREAKING CHANGE|BREAKING-CHANGE):\s*(.*)$`)
	referencePattern = regexp.MustCompile(`(?i)\b(close|closes|closed|fix|fixes|fixed|resolve|resolves|resolved)\s+#(\d+)`)
)

// ParseError describes a commit that could not be interpreted.
type ParseError struct {
	Hash   string
	Header string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("commit %s: %q: %v", shortHash(e.Hash), e.Header, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseCommit interprets a raw commit message. Non-conventional commits are
// returned with an empty Type together with a ParseError wrapping
// ErrNotConventional, so callers may keep or drop them.
func ParseCommit(hash, message string, date time.Time) (Commit, error) {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	header, body, _ := strings.Cut(strings.TrimSpace(message), "\n")

	c := Commit{
		Hash:   hash,
		Header: strings.TrimSpace(header),
		Body:   strings.TrimSpace(body),
		Date:   date,
	}

	c.Notes = parseNotes(c.Body)
	c.References = parseReferences(c.Body)
	c.Revert = parseRevert(message)

	if c.Revert != nil {
		c.Type = "revert"
		c.Subject = c.Revert.Header
		return c, nil
	}

	m := headerPattern.FindStringSubmatch(c.Header)
	if m == nil || m[1] == "" {
		return c, &ParseError{Hash: hash, Header: c.Header, Err: ErrNotConventional}
	}

	c.Type = strings.ToLower(m[1])
	c.Scope = strings.TrimSpace(m[2])
	c.Subject = strings.TrimSpace(m[4])
	c.Breaking = m[3] == "!" || len(c.Notes) > 0

	if m[3] == "!" && len(c.Notes) == 0 {
		c.Notes = []Note{{Title: "BREAKING CHANGE", Text: c.Subject}}
	}

	return c, nil
}

// parseNotes collects BREAKING CHANGE footers. A note runs until the next
// note, an issue reference line or the end of the body.
func parseNotes(body string) []Note {
	var notes []Note
	var current *Note

	for _, line := range strings.Split(body, "\n") {
		if m := notePattern.FindStringSubmatch(line); m != nil {
			notes = append(notes, Note{Title: "BREAKING CHANGE", Text: m[2]})
			current = &notes[len(notes)-1]
			continue
		}
		if referencePattern.MatchString(line) {
			current = nil
			continue
		}
		if current != nil {
			current.Text = strings.TrimSpace(current.Text + "\n" + line)
		}
	}

	for i := range notes {
		notes[i].Text = strings.TrimSpace(notes[i].Text)
	}
	return notes
}

// parseReferences extracts closing issue references from the body.
func parseReferences(body string) []Reference {
	var refs []Reference
	seen := make(map[string]bool)

	for _, m := range referencePattern.FindAllStringSubmatch(body, -1) {
		if seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		refs = append(refs, Reference{Action: strings.ToLower(m[1]), Issue: m[2]})
	}
	return refs
}

// parseRevert recognizes messages produced by `git revert`.
func parseRevert(message string) *Revert {
	m := revertPattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	return &Revert{Header: strings.TrimSpace(m[1]), Hash: m[2]}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
