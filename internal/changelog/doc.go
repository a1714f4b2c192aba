// Package changelog is convlog's built-in conventional-commits engine.
//
// This package implements:
//   - Conventional commit message parsing (type, scope, breaking marker, notes, references, reverts)
//   - Grouping of a newest-first commit log into releases bounded by release tags
//   - Markdown rendering in the angular / conventionalcommits preset style
//
// It knows nothing about git; callers feed it parsed commits and the tags that
// point at them. See internal/generator for the go-git backed producer.
package changelog
