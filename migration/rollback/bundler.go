// Package rollback derives rollback scripts from forward migration files.
//
// Rollbacks are generated from the SQL text on disk, not from the catalog, so
// migrations written or edited by hand are covered as well. Every forward file
// gets its own rollbacks/down_{file}, and rollbacks/rollback_all.sql runs all
// of them, newest first, inside one transaction. Rollback output is a pure
// derivation of the forward files and is overwritten on every run.
package rollback

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/stokaro/pgforge/config"
	"github.com/stokaro/pgforge/core/extractor"
	"github.com/stokaro/pgforge/core/object"
	"github.com/stokaro/pgforge/migration/migrationfile"
)

const cascadeNote = "-- Note: This will cascade delete all dependent objects"

// Entry is the rollback generated for one forward migration.
type Entry struct {
	Migration migrationfile.File
	// RollbackPath is where the rollback file was written
	RollbackPath string
	Description  string
	Object       object.Object
	Statement    Statement
}

// Collision records several migrations whose rollbacks target the same object.
type Collision struct {
	Object object.Object
	Files  []string
}

// Bundle is the result of a rollback run, ordered newest migration first.
type Bundle struct {
	Entries []Entry
	// ScriptPath is the path of the aggregate rollback script
	ScriptPath string
	collisions []Collision
}

// Manual returns the entries whose rollback has to be written by hand.
func (b *Bundle) Manual() []Entry {
	var out []Entry
	for _, e := range b.Entries {
		if e.Statement.Manual {
			out = append(out, e)
		}
	}
	return out
}

// Duplicates returns objects dropped by more than one rollback.
func (b *Bundle) Duplicates() []Collision {
	return slices.Clone(b.collisions)
}

// Bundler reads forward migrations from a directory and writes their rollbacks.
type Bundler struct {
	fs       vfs.FileSystem
	dir      string
	renderer *Renderer
	logger   *slog.Logger
}

// NewBundler creates a bundler for the migrations in dir. A nil opts keeps
// no extension.
func NewBundler(fs vfs.FileSystem, dir string, opts *config.RollbackOptions) *Bundler {
	return &Bundler{
		fs:       fs,
		dir:      dir,
		renderer: NewRenderer(opts),
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the bundler
func (b *Bundler) WithLogger(l *slog.Logger) *Bundler {
	tmp := *b
	tmp.logger = l
	return &tmp
}

// RollbackDir returns the directory rollback files are written to.
func (b *Bundler) RollbackDir() string {
	return filepath.Join(b.dir, migrationfile.RollbackDir)
}

// Bundle discovers every forward migration in the directory and generates
// the rollback set for it.
func (b *Bundler) Bundle() (*Bundle, error) {
	files, err := migrationfile.Discover(b.fs, b.dir)
	if err != nil {
		return nil, fmt.Errorf("error discovering migrations: %w", err)
	}
	return b.BundleFiles(files)
}

// BundleFiles generates rollbacks for the given forward migrations, processing
// them in descending number order whatever order they are passed in. Files
// whose primary object cannot be identified get a manual-rollback comment and
// do not stop the run; only I/O failures do.
func (b *Bundler) BundleFiles(files []migrationfile.File) (*Bundle, error) {
	files = slices.Clone(files)
	migrationfile.SortDescending(files)

	rollbackDir := b.RollbackDir()
	if err := b.fs.MkdirAll(rollbackDir, 0755); err != nil {
		return nil, &migrationfile.IOError{Op: "create directory", Path: rollbackDir, Err: err}
	}

	b.logger.Info("Generating rollback scripts", "migrations", len(files))

	bundle := &Bundle{Entries: make([]Entry, 0, len(files))}
	seen := make(map[string]int) // object key -> collision index or -1

	for _, f := range files {
		entry, err := b.processFile(f)
		if err != nil {
			return bundle, err
		}
		bundle.Entries = append(bundle.Entries, *entry)

		b.logger.Info("Created rollback",
			"file", f.RollbackFileName(),
			"kind", entry.Object.Kind.Label(),
			"name", entry.Object.Name)
		if entry.Statement.Manual {
			b.logger.Warn("Manual rollback required",
				"migration", f.FileName(),
				"kind", entry.Object.Kind.Label(),
				"name", entry.Object.Name)
			continue
		}

		key := entry.Object.Key()
		idx, ok := seen[key]
		switch {
		case !ok:
			seen[key] = -1
		case idx < 0:
			first := findEntry(bundle.Entries, key)
			bundle.collisions = append(bundle.collisions, Collision{
				Object: entry.Object,
				Files:  []string{first, f.FileName()},
			})
			seen[key] = len(bundle.collisions) - 1
		default:
			bundle.collisions[idx].Files = append(bundle.collisions[idx].Files, f.FileName())
		}
		if ok {
			b.logger.Warn("Several migrations roll back the same object",
				"object", entry.Object.String(),
				"migration", f.FileName())
		}
	}

	scriptPath := filepath.Join(rollbackDir, migrationfile.AggregateFileName)
	if err := vfs.WriteFile(b.fs, scriptPath, []byte(aggregateScript(files)), 0644); err != nil { //nolint:gosec // 0644 is fine
		return bundle, &migrationfile.IOError{Op: "write", Path: scriptPath, Err: err}
	}
	bundle.ScriptPath = scriptPath

	b.logger.Info("Generated rollback scripts",
		"count", len(bundle.Entries),
		"dir", rollbackDir,
		"manual", len(bundle.Manual()))
	return bundle, nil
}

func (b *Bundler) processFile(f migrationfile.File) (*Entry, error) {
	path := filepath.Join(b.dir, f.FileName())
	data, err := vfs.ReadFile(b.fs, path)
	if err != nil {
		return nil, &migrationfile.IOError{Op: "read", Path: path, Err: err}
	}
	sql := string(data)

	obj := extractor.Extract(sql)
	entry := &Entry{
		Migration:    f,
		RollbackPath: filepath.Join(b.RollbackDir(), f.RollbackFileName()),
		Description:  extractor.Description(sql, f.FileName()),
		Object:       obj,
		Statement:    b.renderer.Render(obj),
	}

	if err := vfs.WriteFile(b.fs, entry.RollbackPath, []byte(rollbackFile(entry)), 0644); err != nil { //nolint:gosec // 0644 is fine
		return nil, &migrationfile.IOError{Op: "write", Path: entry.RollbackPath, Err: err}
	}
	return entry, nil
}

// findEntry returns the file name of the first processed entry with key.
func findEntry(entries []Entry, key string) string {
	for _, e := range entries {
		if !e.Statement.Manual && e.Object.Key() == key {
			return e.Migration.FileName()
		}
	}
	return ""
}

func rollbackFile(e *Entry) string {
	var sb strings.Builder
	sb.WriteString("-- Rollback: " + e.Description + "\n")
	sb.WriteString(e.Statement.SQL)
	if e.Object.Kind == object.KindTable {
		sb.WriteString("\n\n" + cascadeNote)
	}
	sb.WriteString("\n")
	return sb.String()
}

// aggregateScript includes every rollback file, in the order given, inside a
// single transaction. \ir resolves paths relative to the script itself, so
// the script works from any working directory.
func aggregateScript(files []migrationfile.File) string {
	var sb strings.Builder
	sb.WriteString("-- Complete rollback of all migrations\n")
	sb.WriteString("-- Run this to completely remove the schema\n\n")
	sb.WriteString("BEGIN;\n\n")
	for _, f := range files {
		sb.WriteString(`\ir ` + f.RollbackFileName() + "\n")
	}
	sb.WriteString("\nCOMMIT;\n")
	return sb.String()
}
