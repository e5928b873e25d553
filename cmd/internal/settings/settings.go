// Package settings exposes the command line configuration resolved by viper
// from flags, PGFORGE_* environment variables and the optional config file.
package settings

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/stokaro/pgforge/config"
	"github.com/stokaro/pgforge/core/catalog"
)

// Configuration keys.
const (
	DirKey               = "dir"
	CatalogKey           = "catalog"
	KeepExtensionsKey    = "keep-extensions"
	LogLevelKey          = "log-level"
)

// Dir returns the migrations directory.
func Dir() string {
	if dir := viper.GetString(DirKey); dir != "" {
		return dir
	}
	return "."
}

// Catalog loads the catalog named by path, falling back to the configured
// catalog file and then to the built-in catalog.
func Catalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		path = viper.GetString(CatalogKey)
	}
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}
	return cat, nil
}

// RollbackOptions returns the configured rollback options.
func RollbackOptions() *config.RollbackOptions {
	return config.KeepExtensions(viper.GetStringSlice(KeepExtensionsKey)...)
}

// LogLevel parses the configured log level, defaulting to info.
func LogLevel() (slog.Level, error) {
	var lvl slog.Level
	raw := viper.GetString(LogLevelKey)
	if raw == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return lvl, nil
}
