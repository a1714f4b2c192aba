// Package updater implements the release step that writes a generated
// changelog entry to the front of the changelog file.
package updater

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ariel-frischer/convlog/internal/generator"
	"github.com/ariel-frischer/convlog/internal/release"
	"go.uber.org/zap"
)

// Stager adds a newly created file to the next version-control commit.
type Stager interface {
	Stage(ctx context.Context, path string) error
}

// StagerFunc adapts a function to the Stager interface.
type StagerFunc func(ctx context.Context, path string) error

// Stage calls f(ctx, path).
func (f StagerFunc) Stage(ctx context.Context, path string) error {
	return f(ctx, path)
}

// IOError reports a file-system or staging failure on the changelog file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Updater is the changelog release step. It depends only on the capabilities
// it is given: a generator, a stager, a logger and the dry-run flag.
type Updater struct {
	Generator generator.Generator
	Stager    Stager
	Logger    *zap.Logger
	DryRun    bool
}

// Result describes what UpdateChangelog did.
type Result struct {
	// Context is the release context with CurrentTag resolved.
	Context release.Context
	// Written is false when the step was skipped (no infile or dry-run).
	Written bool
	// Created is true when the infile did not exist and was seeded with full history.
	Created bool
	// Changelog is the text prepended, without the trailing separator.
	Changelog string
}

func (u *Updater) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}

// ResolveContext validates rc and derives its current tag from the version
// using opts.TagName or the template inferred from the previous tag.
func ResolveContext(rc release.Context, opts generator.Options) (release.Context, error) {
	if err := rc.Validate(); err != nil {
		return rc, err
	}
	return release.ResolveCurrentTag(rc, opts.TagName), nil
}

// Preview generates the changelog for the previous -> current tag range
// without touching the file.
func (u *Updater) Preview(ctx context.Context, rc release.Context, opts generator.Options) (release.Context, string, error) {
	rc, err := ResolveContext(rc, opts)
	if err != nil {
		return rc, "", err
	}

	text, err := generator.Run(ctx, u.Generator, opts, rc)
	if err != nil {
		return rc, "", err
	}
	u.logger().Debug("generated changelog", zap.String("current_tag", rc.CurrentTag), zap.Int("bytes", len(text)))
	return rc, text, nil
}

// UpdateChangelog prepends the changelog for this release to opts.Infile.
//
// An empty infile skips the step. Under dry-run the step is announced but
// nothing is generated or written. When the infile does not exist yet it is
// seeded with the whole history and staged. Generation and file errors
// abort the step and leave the infile untouched.
func (u *Updater) UpdateChangelog(ctx context.Context, rc release.Context, opts generator.Options) (Result, error) {
	log := u.logger()

	if opts.Infile == "" {
		log.Debug("no infile configured, skipping changelog update")
		return Result{Context: release.ResolveCurrentTag(rc, opts.TagName)}, nil
	}

	rc, err := ResolveContext(rc, opts)
	if err != nil {
		return Result{Context: rc}, err
	}
	result := Result{Context: rc}

	log.Info("Writing changelog to "+opts.Infile,
		zap.String("infile", opts.Infile),
		zap.String("current_tag", rc.CurrentTag),
		zap.Bool("dry_run", u.DryRun))

	if u.DryRun {
		return result, nil
	}

	plan, err := u.Plan(ctx, rc, opts)
	if err != nil {
		return result, err
	}

	if err := PrependFile(opts.Infile, plan.Entry()); err != nil {
		return result, err
	}
	result.Written = true
	result.Created = !plan.Exists
	result.Changelog = plan.Changelog

	if result.Created && u.Stager != nil {
		if err := u.Stager.Stage(ctx, opts.Infile); err != nil {
			return result, &IOError{Op: "stage", Path: opts.Infile, Err: err}
		}
		log.Debug("staged new changelog", zap.String("infile", opts.Infile))
	}

	return result, nil
}

// Plan is what an update would write, computed without touching the file.
type Plan struct {
	// Context is the release context with CurrentTag resolved.
	Context release.Context
	// Infile is the changelog path.
	Infile string
	// Exists reports whether Infile existed; when false Changelog covers the whole history.
	Exists bool
	// Current is the existing content of Infile.
	Current []byte
	// Changelog is the trimmed generator output.
	Changelog string
}

// Entry is the text prepended to the file: the changelog and two line terminators.
func (p Plan) Entry() string {
	return p.Changelog + EOL + EOL
}

// Content is the full file content after the update.
func (p Plan) Content() string {
	return p.Entry() + string(p.Current)
}

// Plan reads opts.Infile and generates the changelog an update would prepend:
// the range since the previous tag for an existing file, the whole history
// for a new one. rc must already carry its resolved CurrentTag.
func (u *Updater) Plan(ctx context.Context, rc release.Context, opts generator.Options) (Plan, error) {
	log := u.logger()
	plan := Plan{Context: rc, Infile: opts.Infile}

	current, err := os.ReadFile(opts.Infile)
	switch {
	case err == nil:
		plan.Exists = true
		plan.Current = current
	case errors.Is(err, fs.ErrNotExist):
	default:
		return plan, &IOError{Op: "read", Path: opts.Infile, Err: err}
	}

	genOpts := opts
	if !plan.Exists {
		log.Debug("infile does not exist, generating full history", zap.String("infile", opts.Infile))
		genOpts = opts.With(generator.FullHistory())
	}

	text, err := generator.Run(ctx, u.Generator, genOpts, rc)
	if err != nil {
		return plan, err
	}
	log.Debug("generated changelog", zap.Int("bytes", len(text)), zap.Int("release_count", genOpts.ReleaseCount))

	plan.Changelog = text
	return plan, nil
}
