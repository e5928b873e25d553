// Package generator emits forward migration files from a catalog.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/stokaro/pgforge/core/catalog"
	"github.com/stokaro/pgforge/core/renderer"
)

// Entry records what happened to one migration during a run.
type Entry struct {
	Number   string
	FileName string
	Path     string
	Outcome  Outcome
}

// Report lists the outcome of every migration in catalog order.
type Report struct {
	Entries []Entry
}

// Created returns the file names written during the run.
func (r *Report) Created() []string {
	return r.fileNames(Created)
}

// Skipped returns the file names left untouched because they already existed.
func (r *Report) Skipped() []string {
	return r.fileNames(SkippedExisting)
}

func (r *Report) fileNames(outcome Outcome) []string {
	var names []string
	for _, e := range r.Entries {
		if e.Outcome == outcome {
			names = append(names, e.FileName)
		}
	}
	return names
}

// Generator renders a catalog and writes the forward migrations.
type Generator struct {
	writer *Writer
	logger *slog.Logger
}

// New creates a generator writing into dir on fs.
func New(fs vfs.FileSystem, dir string) *Generator {
	return &Generator{
		writer: NewWriter(fs, dir),
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the generator
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	tmp := *g
	tmp.logger = l
	return &tmp
}

// Generate renders every definition of cat and writes the resulting files in
// ascending number order. All definitions are rendered before anything is
// written, so a render error leaves the directory untouched. Files that
// already exist are skipped and reported as such.
func (g *Generator) Generate(cat *catalog.Catalog) (*Report, error) {
	rendered := make([]*renderer.RenderedMigration, 0, cat.Len())
	numbers := make([]string, 0, cat.Len())
	for def := range cat.All() {
		m, err := renderer.RenderMigration(def)
		if err != nil {
			return nil, fmt.Errorf("error rendering migrations: %w", err)
		}
		rendered = append(rendered, m)
		numbers = append(numbers, def.Number)
	}

	report := &Report{Entries: make([]Entry, 0, len(rendered))}
	for i, m := range rendered {
		outcome, err := g.writer.Write(m)
		if err != nil {
			return report, fmt.Errorf("error writing migration %s: %w", m.FileName, err)
		}

		switch outcome {
		case Created:
			g.logger.Info("Created migration", "file", m.FileName)
		case SkippedExisting:
			g.logger.Info("Skipping migration, file already exists", "file", m.FileName)
		}

		report.Entries = append(report.Entries, Entry{
			Number:   numbers[i],
			FileName: m.FileName,
			Path:     g.writer.Path(m.FileName),
			Outcome:  outcome,
		})
	}

	g.logger.Debug("Forward generation finished",
		"created", len(report.Created()), "skipped", len(report.Skipped()))
	return report, nil
}
