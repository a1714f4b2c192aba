// Package release holds the release context shared between the host orchestrator
// and the changelog updater, and the tag-name template rules that tie a version
// to its tag.
package release

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
)

// VersionPlaceholder is substituted with the release version in tag templates.
const VersionPlaceholder = "${version}"

// ErrInvalidVersion is returned when a context carries an empty or non-semver version.
var ErrInvalidVersion = errors.New("invalid release version")

// Context describes the release being produced. It is passed by value; helpers
// return an updated copy instead of mutating the caller's value.
type Context struct {
	Version     string `json:"version" yaml:"version"`
	PreviousTag string `json:"previousTag,omitempty" yaml:"previous_tag,omitempty"`
	CurrentTag  string `json:"currentTag" yaml:"current_tag"`
}

// IsFirstRelease returns true if there is no previous tag.
func (c Context) IsFirstRelease() bool {
	return c.PreviousTag == ""
}

// Validate checks that Version is a semantic version. A leading "v" is
// accepted; ResolveCurrentTag strips it.
func (c Context) Validate() error {
	if strings.TrimSpace(c.Version) == "" {
		return fmt.Errorf("%w: version is empty", ErrInvalidVersion)
	}
	if _, err := semver.NewVersion(c.Version); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidVersion, c.Version, err)
	}
	return nil
}

// IsReleaseTag reports whether tag names a semantic version with at least
// major and minor parts, optionally prefixed with "v".
func IsReleaseTag(tag string) bool {
	if !strings.Contains(tag, ".") {
		return false
	}
	_, err := semver.NewVersion(tag)
	return err == nil
}

// TagTemplate returns the template used to name the tag for this release.
// An explicit template always wins. Otherwise the previous tag decides: a
// leading "v" yields "v${version}", anything else (including no previous tag)
// yields "${version}".
func TagTemplate(explicit, previousTag string) string {
	if explicit != "" {
		return explicit
	}
	if strings.HasPrefix(previousTag, "v") {
		return "v" + VersionPlaceholder
	}
	return VersionPlaceholder
}

// ApplyTemplate substitutes the first ${version} placeholder in tmpl.
func ApplyTemplate(tmpl, version string) string {
	return strings.Replace(tmpl, VersionPlaceholder, version, 1)
}

// NormalizeVersion strips a leading "v" so the version can be substituted
// into a tag template that carries its own prefix.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}

// ResolveCurrentTag returns a copy of c with a normalized Version and a
// CurrentTag derived from it using the explicit template or the one inferred
// from PreviousTag.
func ResolveCurrentTag(c Context, explicitTemplate string) Context {
	c.Version = NormalizeVersion(c.Version)
	c.CurrentTag = ApplyTemplate(TagTemplate(explicitTemplate, c.PreviousTag), c.Version)
	return c
}
