package changelog

import (
	"fmt"
	"strings"
	"time"
)

// Commit is a single commit interpreted as a conventional commit.
// Type is empty when the header does not follow the convention.
type Commit struct {
	Hash       string
	Header     string
	Type       string
	Scope      string
	Subject    string
	Body       string
	Breaking   bool
	Notes      []Note
	References []Reference
	Revert     *Revert
	Date       time.Time
}

// Note is a footer note such as "BREAKING CHANGE: ...".
type Note struct {
	Title string
	Text  string
}

// Reference is an issue referenced from the commit message (e.g. "Closes #12").
type Reference struct {
	Action string
	Issue  string
}

// Revert identifies the commit reverted by a revert commit.
type Revert struct {
	Header string
	Hash   string
}

// ShortHash returns the abbreviated commit hash used in rendered links.
func (c Commit) ShortHash() string {
	return shortHash(c.Hash)
}

// IsConventional returns true if the header parsed as a conventional commit.
func (c Commit) IsConventional() bool {
	return c.Type != ""
}

// LogEntry is one commit of a newest-first history walk together with the
// names of the tags pointing at it.
type LogEntry struct {
	Commit Commit
	Tags   []string
}

// Release is the set of commits between two release tags.
// PreviousTag is empty for the oldest release in history.
type Release struct {
	Version     string
	CurrentTag  string
	PreviousTag string
	Date        time.Time
	Commits     []Commit
}

// TypeConfig maps a commit type to the section it is rendered under.
// Hidden types are omitted from the output unless they carry breaking notes.
type TypeConfig struct {
	Type    string `koanf:"type" yaml:"type"`
	Section string `koanf:"section" yaml:"section"`
	Hidden  bool   `koanf:"hidden" yaml:"hidden"`
}

// Preset is a named rendering convention.
type Preset struct {
	Name          string
	Types         []TypeConfig
	BreakingTitle string
}

// defaultTypes is the commit type table shared by the supported presets.
func defaultTypes() []TypeConfig {
	return []TypeConfig{
		{Type: "feat", Section: "Features"},
		{Type: "fix", Section: "Bug Fixes"},
		{Type: "perf", Section: "Performance Improvements"},
		{Type: "revert", Section: "Reverts"},
		{Type: "docs", Section: "Documentation", Hidden: true},
		{Type: "style", Section: "Styles", Hidden: true},
		{Type: "chore", Section: "Miscellaneous Chores", Hidden: true},
		{Type: "refactor", Section: "Code Refactoring", Hidden: true},
		{Type: "test", Section: "Tests", Hidden: true},
		{Type: "build", Section: "Build System", Hidden: true},
		{Type: "ci", Section: "Continuous Integration", Hidden: true},
	}
}

// PresetNames returns the supported preset names.
func PresetNames() []string {
	return []string{"angular", "conventionalcommits"}
}

// LookupPreset returns the preset with the given name. An empty name selects angular.
func LookupPreset(name string) (Preset, error) {
	switch strings.ToLower(name) {
	case "", "angular":
		return Preset{Name: "angular", Types: defaultTypes(), BreakingTitle: "BREAKING CHANGES"}, nil
	case "conventionalcommits":
		return Preset{Name: "conventionalcommits", Types: defaultTypes(), BreakingTitle: "⚠ BREAKING CHANGES"}, nil
	default:
		return Preset{}, fmt.Errorf("unknown preset %q; available: %v", name, PresetNames())
	}
}

// WithTypes returns a copy of p using types instead of the preset table.
// An empty slice keeps the preset table.
func (p Preset) WithTypes(types []TypeConfig) Preset {
	if len(types) > 0 {
		p.Types = append([]TypeConfig(nil), types...)
	}
	return p
}

// lookupType returns the configuration for typ, if any.
func (p Preset) lookupType(typ string) (TypeConfig, bool) {
	for _, tc := range p.Types {
		if tc.Type == typ {
			return tc, true
		}
	}
	return TypeConfig{}, false
}
