package updater

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// EOL is the platform line terminator used to separate a new entry from
// existing content.
var EOL = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// PrependFile writes text followed by the current content of path, creating
// the file if needed. The new content is written to a temp file in the same
// directory and renamed over path, so a failure leaves path unchanged. An
// existing file keeps its permissions.
func PrependFile(path, text string) error {
	existing, err := os.ReadFile(path)
	mode := fs.FileMode(0o644)
	switch {
	case err == nil:
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode().Perm()
		}
	case errors.Is(err, fs.ErrNotExist):
		existing = nil
	default:
		return &IOError{Op: "read", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if err := writeAll(tmp, text, existing); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func writeAll(f *os.File, text string, existing []byte) error {
	if _, err := f.WriteString(text); err != nil {
		return err
	}
	if _, err := f.Write(existing); err != nil {
		return err
	}
	return f.Sync()
}
