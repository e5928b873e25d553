package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-extras/cobraflags"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/spf13/cobra"

	"github.com/stokaro/pgforge/cmd/internal/output"
	"github.com/stokaro/pgforge/cmd/internal/settings"
	"github.com/stokaro/pgforge/migration/generator"
	"github.com/stokaro/pgforge/migration/rollback"
)

var generateCmd = &cobra.Command{
	Use:   "generate [migrations|rollbacks]",
	Short: "Generate forward migrations from the catalog or rollbacks from migration files",
	Long: `Generate forward migration files from the migration catalog, or rollback
scripts from the migration files found on disk.

Available subcommands:
  migrations - Write one {number}_{name}.sql file per catalog entry (existing files are kept)
  rollbacks  - Write rollbacks/down_*.sql for every migration plus rollbacks/rollback_all.sql

Examples:
  pgforge generate migrations --dir supabase/migrations
  pgforge generate migrations --catalog catalog.yaml
  pgforge generate rollbacks --dir supabase/migrations`,
}

// Migration generation flags
const (
	catalogFlag = "catalog"
)

var migrationsFlags = map[string]cobraflags.Flag{
	catalogFlag: &cobraflags.StringFlag{
		Name:  catalogFlag,
		Value: "",
		Usage: "Catalog file (YAML, TOML or JSON). If empty, the built-in catalog is used",
	},
}

func NewGenerateCommand() *cobra.Command {
	generateCmd.AddCommand(newMigrationsCommand())
	generateCmd.AddCommand(newRollbacksCommand())
	return generateCmd
}

// newMigrationsCommand creates the migrations subcommand
func newMigrationsCommand() *cobra.Command {
	migrationsCmd := &cobra.Command{
		Use:   "migrations",
		Short: "Generate forward migration files from the catalog",
		Long: `Render every catalog entry and write it as {number}_{name}.sql.

A file that already exists is never overwritten, so migrations edited by hand
after generation are preserved. The command reports which files were created
and which were skipped.`,
		RunE: migrationsCommand,
	}

	cobraflags.RegisterMap(migrationsCmd, migrationsFlags)
	return migrationsCmd
}

// newRollbacksCommand creates the rollbacks subcommand
func newRollbacksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollbacks",
		Short: "Generate rollback scripts for the migration files on disk",
		Long: `Read every {number}_{name}.sql file in the migrations directory, detect the
object it creates and write the matching DROP statement to
rollbacks/down_{number}_{name}.sql. Files are processed newest first and
rollbacks/rollback_all.sql runs all rollbacks in one transaction.

Migrations whose object cannot be detected get a manual-rollback comment and
are listed at the end for follow-up.`,
		RunE: rollbacksCommand,
	}
}

func migrationsCommand(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	cat, err := settings.Catalog(migrationsFlags[catalogFlag].GetString())
	if err != nil {
		return err
	}

	report, err := generator.New(osfs.New(), dir).Generate(cat)
	if err != nil {
		return fmt.Errorf("error generating migrations: %w", err)
	}

	rows := make([][]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		rows = append(rows, []string{e.FileName, e.Outcome.String()})
	}
	out := cmd.OutOrStdout()
	if err := output.Table(out, []string{"FILE", "OUTCOME"}, rows); err != nil {
		return fmt.Errorf("error printing report: %w", err)
	}

	fmt.Fprintf(out, "\nCreated %d, skipped %d migration(s) in %s\n",
		len(report.Created()), len(report.Skipped()), dir)
	return nil
}

func rollbacksCommand(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	bundle, err := rollback.NewBundler(osfs.New(), dir, settings.RollbackOptions()).Bundle()
	if err != nil {
		return fmt.Errorf("error generating rollbacks: %w", err)
	}

	rows := make([][]string, 0, len(bundle.Entries))
	for _, e := range bundle.Entries {
		rows = append(rows, []string{
			e.Migration.FileName(),
			e.Object.Kind.Label(),
			e.Object.Name,
			filepath.Base(e.RollbackPath),
		})
	}
	out := cmd.OutOrStdout()
	if err := output.Table(out, []string{"MIGRATION", "KIND", "NAME", "ROLLBACK"}, rows); err != nil {
		return fmt.Errorf("error printing report: %w", err)
	}

	fmt.Fprintf(out, "\nGenerated %d rollback script(s) in %s\n", len(bundle.Entries), filepath.Dir(bundle.ScriptPath))
	fmt.Fprintf(out, "Run %s to completely remove the schema\n", bundle.ScriptPath)

	if manual := bundle.Manual(); len(manual) > 0 {
		fmt.Fprintln(out, "\nManual rollback required:")
		for _, e := range manual {
			fmt.Fprintf(out, "  %s (%s)\n", e.Migration.FileName(), e.Object)
		}
	}
	if dups := bundle.Duplicates(); len(dups) > 0 {
		fmt.Fprintln(out, "\nObjects dropped by more than one rollback:")
		for _, d := range dups {
			fmt.Fprintf(out, "  %s: %v\n", d.Object, d.Files)
		}
	}
	return nil
}

func resolveDir() (string, error) {
	absPath, err := filepath.Abs(settings.Dir())
	if err != nil {
		return "", fmt.Errorf("error resolving path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", absPath)
	}
	return absPath, nil
}
