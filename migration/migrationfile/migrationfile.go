// Package migrationfile defines the on-disk naming contract shared by the
// forward and rollback generators and discovers forward migration files in a
// directory.
//
// Layout:
//
//	{number}_{name}.sql                    forward migration
//	rollbacks/down_{number}_{name}.sql     rollback of one migration
//	rollbacks/rollback_all.sql             transactional aggregate rollback
package migrationfile

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

const (
	// RollbackDir is the rollback output directory, relative to the migrations directory
	RollbackDir = "rollbacks"
	// RollbackPrefix prefixes the forward file name to form the rollback file name
	RollbackPrefix = "down_"
	// AggregateFileName is the name of the aggregate rollback script inside RollbackDir
	AggregateFileName = "rollback_all.sql"
)

// IOError reports a filesystem failure while reading or writing migrations.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// File identifies a forward migration file.
type File struct {
	Number string
	Name   string
}

// FileName returns "{number}_{name}.sql".
func (f File) FileName() string {
	return FileName(f.Number, f.Name)
}

// RollbackFileName returns "down_{number}_{name}.sql".
func (f File) RollbackFileName() string {
	return RollbackPrefix + f.FileName()
}

// FileName returns the forward migration file name for number and name.
func FileName(number, name string) string {
	return number + "_" + name + ".sql"
}

var fileNameRe = regexp.MustCompile(`^([0-9]{3})_(.+)\.sql$`)

// ErrNotMigration is returned by Parse for names outside the naming convention.
var ErrNotMigration = errors.New("not a migration file name")

// Parse splits a forward migration file name into number and name.
func Parse(fileName string) (File, error) {
	m := fileNameRe.FindStringSubmatch(fileName)
	if m == nil {
		return File{}, fmt.Errorf("%w: %s", ErrNotMigration, fileName)
	}
	return File{Number: m[1], Name: m[2]}, nil
}

// Discover lists the forward migration files directly inside dir, in
// ascending number order. Subdirectories (including the rollback directory)
// and non-matching files are ignored.
func Discover(fs vfs.FileSystem, dir string) ([]File, error) {
	entries, err := vfs.ReadDir(fs, dir)
	if err != nil {
		return nil, &IOError{Op: "read directory", Path: dir, Err: err}
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := Parse(entry.Name())
		if err != nil {
			continue
		}
		files = append(files, f)
	}

	SortAscending(files)
	return files, nil
}

// SortAscending orders files by number, then by name for equal numbers.
func SortAscending(files []File) {
	slices.SortFunc(files, compare)
}

// SortDescending orders files in reverse application order.
func SortDescending(files []File) {
	slices.SortFunc(files, func(a, b File) int {
		return compare(b, a)
	})
}

func compare(a, b File) int {
	if c := strings.Compare(a.Number, b.Number); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}
