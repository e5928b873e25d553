package catalog

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/pgforge/cmd/internal/output"
	"github.com/stokaro/pgforge/cmd/internal/settings"
	"github.com/stokaro/pgforge/core/renderer"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the migration catalog",
}

const catalogFlag = "catalog"

var listFlags = map[string]cobraflags.Flag{
	catalogFlag: &cobraflags.StringFlag{
		Name:  catalogFlag,
		Value: "",
		Usage: "Catalog file (YAML, TOML or JSON). If empty, the built-in catalog is used",
	},
}

func NewCatalogCommand() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries in apply order",
		Long: `List every catalog entry in ascending number order together with its kind,
the file it generates and whether the kind has a built-in template.`,
		RunE: listCommand,
	}
	cobraflags.RegisterMap(listCmd, listFlags)

	catalogCmd.AddCommand(listCmd)
	return catalogCmd
}

func listCommand(cmd *cobra.Command, _ []string) error {
	cat, err := settings.Catalog(listFlags[catalogFlag].GetString())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, cat.Len())
	for def := range cat.All() {
		template := "yes"
		if !renderer.HasTemplate(def.Kind) {
			template = "placeholder"
		}
		rows = append(rows, []string{def.Number, def.Kind.Label(), def.FileName(), template})
	}

	if err := output.Table(cmd.OutOrStdout(), []string{"NUMBER", "KIND", "FILE", "TEMPLATE"}, rows); err != nil {
		return fmt.Errorf("error printing catalog: %w", err)
	}
	return nil
}
