// Package atomicfile writes an output file through a temporary sibling that is renamed
// into place only on success, so a failed run never leaves a partial artifact behind.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

var errFinished = errors.New("atomicfile: already committed or aborted")

// File is a read-write temporary file destined for a final path. It satisfies
// io.WriteSeeker through the embedded *os.File.
type File struct {
	*os.File

	path string
	done bool
}

// Create opens a temporary file in the directory of path.
func Create(path string) (*File, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file for %s: %w", path, err)
	}

	return &File{File: tmp, path: path}, nil
}

// Path returns the final path.
func (f *File) Path() string {
	return f.path
}

// Commit syncs and closes the temporary file and renames it over the final path. On
// failure the temporary file is removed.
func (f *File) Commit() error {
	if f.done {
		return errFinished
	}
	f.done = true

	tmp := f.Name()
	if err := multierr.Combine(f.Sync(), f.Close()); err != nil {
		return multierr.Append(fmt.Errorf("finishing %s: %w", f.path, err), os.Remove(tmp))
	}
	if err := os.Chmod(tmp, 0o644); err != nil { //nolint:gosec
		return multierr.Append(err, os.Remove(tmp))
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return multierr.Append(fmt.Errorf("renaming into %s: %w", f.path, err), os.Remove(tmp))
	}

	return nil
}

// Abort closes and removes the temporary file. It is a no-op after Commit, so it can be
// deferred unconditionally.
func (f *File) Abort() error {
	if f.done {
		return nil
	}
	f.done = true

	return multierr.Combine(f.Close(), os.Remove(f.Name()))
}
