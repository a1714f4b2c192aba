package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ariel-frischer/convlog/internal/release"
	"go.uber.org/zap"
)

// DefaultCommand is the conventional-changelog CLI.
const DefaultCommand = "conventional-changelog"

// Exec delegates generation to an external conventional-changelog compatible
// CLI. Options.Command may carry leading arguments ("npx conventional-changelog").
// The release context is handed over as a JSON file via --context and
// the command's stdout becomes the changelog stream.
type Exec struct {
	// Env is appended to the inherited environment.
	Env    []string
	Logger *zap.Logger
}

// Generate starts the command. A non-zero exit surfaces as a read error on
// the returned stream, carrying the command's stderr.
func (e *Exec) Generate(ctx context.Context, opts Options, rc release.Context) (io.ReadCloser, error) {
	logger := loggerOrNop(e.Logger)

	contextFile, err := writeContextFile(rc)
	if err != nil {
		return nil, err
	}

	command, leading := splitCommand(opts.Command)
	args := append(leading, buildArgs(opts, contextFile)...)

	logger.Debug("exec generator", zap.String("command", command), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), e.Env...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.Remove(contextFile)
		return nil, fmt.Errorf("connecting to %s stdout: %w", command, err)
	}
	if err := cmd.Start(); err != nil {
		os.Remove(contextFile)
		return nil, fmt.Errorf("starting %s: %w", command, err)
	}

	pr, pw := io.Pipe()
	go func() {
		_, copyErr := io.Copy(pw, stdout)
		if copyErr != nil {
			// Reader went away; drain so the process is not blocked on a full pipe.
			_, _ = io.Copy(io.Discard, stdout)
		}

		closeErr := copyErr
		if err := cmd.Wait(); err != nil {
			closeErr = fmt.Errorf("%s: %w", command, err)
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				closeErr = fmt.Errorf("%s: %w: %s", command, err, msg)
			}
		}

		os.Remove(contextFile)
		pw.CloseWithError(closeErr)
	}()
	return pr, nil
}

// splitCommand splits a command line such as "npx conventional-changelog"
// on whitespace into the executable and its leading arguments.
func splitCommand(command string) (string, []string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return DefaultCommand, nil
	}
	return fields[0], fields[1:]
}

// buildArgs maps options onto conventional-changelog CLI flags. Extra args
// come last so they can override the derived ones.
func buildArgs(opts Options, contextFile string) []string {
	var args []string
	if opts.Preset != "" {
		args = append(args, "--preset", opts.Preset)
	}
	args = append(args, "--release-count", strconv.Itoa(opts.ReleaseCount))
	args = append(args, "--context", contextFile)
	return append(args, opts.Args...)
}

// writeContextFile stores rc as JSON in a temp file for --context.
func writeContextFile(rc release.Context) (string, error) {
	data, err := json.Marshal(rc)
	if err != nil {
		return "", fmt.Errorf("encoding release context: %w", err)
	}

	f, err := os.CreateTemp("", "convlog-context-*.json")
	if err != nil {
		return "", fmt.Errorf("creating context file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing context file: %w", err)
	}
	return f.Name(), nil
}
