package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stokaro/pgforge/cmd/catalog"
	"github.com/stokaro/pgforge/cmd/generate"
	"github.com/stokaro/pgforge/cmd/internal/settings"
)

const configFlag = "config"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pgforge",
		Short: "Generate PostgreSQL migrations from a catalog and derive their rollbacks",
		Long: `pgforge renders a catalog of declarative migration definitions into
numbered SQL files and derives rollback scripts from the SQL files on disk.

Configuration is read from flags, PGFORGE_* environment variables and an
optional pgforge.yaml in the working directory (or the file given by --config).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
	}

	flags := rootCmd.PersistentFlags()
	flags.String(configFlag, "", "Config file (default ./pgforge.yaml if present)")
	flags.String(settings.DirKey, ".", "Migrations directory")
	flags.String(settings.LogLevelKey, "info", "Log level (debug, info, warn, error)")
	flags.StringSlice(settings.KeepExtensionsKey, nil, "Extensions rollbacks leave installed (e.g. plpgsql)")

	for _, key := range []string{settings.DirKey, settings.LogLevelKey, settings.KeepExtensionsKey} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(generate.NewGenerateCommand())
	rootCmd.AddCommand(catalog.NewCatalogCommand())
	return rootCmd
}

func initialize(cmd *cobra.Command, _ []string) error {
	viper.SetEnvPrefix("pgforge")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if path, _ := cmd.Flags().GetString(configFlag); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("pgforge")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	lvl, err := settings.LogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
			Level:      lvl,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
			TimeFormat: "15:04:05.000",
		}),
	))

	if used := viper.ConfigFileUsed(); used != "" {
		slog.Debug("Loaded configuration", "file", used)
	}
	return nil
}
