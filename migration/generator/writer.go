package generator

import (
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/stokaro/pgforge/core/renderer"
	"github.com/stokaro/pgforge/migration/migrationfile"
)

// Outcome is the result of writing a single migration.
type Outcome int

const (
	// Created means the file did not exist and was written
	Created Outcome = iota + 1
	// SkippedExisting means a file was already present and left untouched
	SkippedExisting
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case SkippedExisting:
		return "skipped"
	default:
		return "unknown"
	}
}

// Writer persists rendered migrations into a directory, at most once each.
type Writer struct {
	fs  vfs.FileSystem
	dir string
}

// NewWriter creates a writer targeting dir on fs.
func NewWriter(fs vfs.FileSystem, dir string) *Writer {
	return &Writer{fs: fs, dir: dir}
}

// Path returns the target path of a migration file name.
func (w *Writer) Path(fileName string) string {
	return filepath.Join(w.dir, fileName)
}

// Write stores m unless a file with the same name already exists. An existing
// file is never overwritten, so hand edits to generated migrations survive
// reruns.
func (w *Writer) Write(m *renderer.RenderedMigration) (Outcome, error) {
	path := w.Path(m.FileName)

	_, err := w.fs.Stat(path)
	switch {
	case err == nil:
		return SkippedExisting, nil
	case !vfs.IsErrNotExist(err):
		return 0, &migrationfile.IOError{Op: "stat", Path: path, Err: err}
	}

	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return 0, &migrationfile.IOError{Op: "create directory", Path: w.dir, Err: err}
	}

	if err := vfs.WriteFile(w.fs, path, []byte(m.SQL), 0644); err != nil { //nolint:gosec // 0644 is fine
		return 0, &migrationfile.IOError{Op: "write", Path: path, Err: err}
	}
	return Created, nil
}
