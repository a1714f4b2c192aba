// Package generator turns a release context into changelog text. A Generator
// produces a lazy byte stream; Run buffers it into a single trimmed string and
// reports failures as *GenerationError.
package generator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/ariel-frischer/convlog/internal/release"
	"go.uber.org/zap"
)

// Engine names accepted by New.
const (
	EngineBuiltin = "builtin"
	EngineExec    = "exec"
)

// Options is the changelog configuration handed to a Generator. It is built
// once from configuration; per-call changes go through With.
type Options struct {
	// Infile is the changelog file the output is prepended to.
	Infile string
	// TagName is the tag template ("v${version}"); empty means inferred.
	TagName string
	// Engine selects the Generator implementation (builtin or exec).
	Engine string
	// Preset names the rendering convention (angular, conventionalcommits).
	Preset string
	// ReleaseCount is the number of releases to render; 0 renders the whole history.
	ReleaseCount int
	// RepositoryURL enables compare/commit/issue links in builtin output.
	RepositoryURL string
	// Types replaces the preset's commit type table when non-empty.
	Types []changelog.TypeConfig
	// Command is the external engine executable.
	Command string
	// Args are passed verbatim to the external engine.
	Args []string
	// Dir is the repository directory; empty means the working directory.
	Dir string
}

// Overrides are call-specific changes applied on top of configured Options.
type Overrides struct {
	ReleaseCount *int
}

// With returns a copy of o with the overrides applied. Overrides win over
// configured values.
func (o Options) With(ov Overrides) Options {
	if ov.ReleaseCount != nil {
		o.ReleaseCount = *ov.ReleaseCount
	}
	return o
}

// FullHistory is the override that renders every release in history.
func FullHistory() Overrides {
	zero := 0
	return Overrides{ReleaseCount: &zero}
}

// Generator produces changelog text for a release as a stream. Read errors
// on the returned stream signal generation failure.
type Generator interface {
	Generate(ctx context.Context, opts Options, rc release.Context) (io.ReadCloser, error)
}

// GenerationError reports a generator that failed to start or whose stream failed.
type GenerationError struct {
	// Stage is "start" or "stream".
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating changelog (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// New returns the Generator selected by opts.Engine. An empty engine selects builtin.
func New(opts Options, logger *zap.Logger) (Generator, error) {
	switch opts.Engine {
	case "", EngineBuiltin:
		return &Builtin{Logger: logger}, nil
	case EngineExec:
		return &Exec{Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown generator engine %q; available: [%s %s]", opts.Engine, EngineBuiltin, EngineExec)
	}
}

// Run invokes g and buffers its stream into a trimmed string.
func Run(ctx context.Context, g Generator, opts Options, rc release.Context) (string, error) {
	stream, err := g.Generate(ctx, opts, rc)
	if err != nil {
		return "", &GenerationError{Stage: "start", Err: err}
	}
	return Collect(stream)
}

// Collect reads r to completion, closes it and trims surrounding whitespace.
func Collect(r io.ReadCloser) (string, error) {
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &GenerationError{Stage: "stream", Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
