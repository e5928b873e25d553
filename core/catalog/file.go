package catalog

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
)

const migrationsKey = "migrations"

// LoadFile reads a catalog file and returns the validated catalog. Any format
// viper understands (YAML, TOML, JSON) is accepted, selected by extension.
//
// The file holds a single list:
//
//	migrations:
//	  - number: "001"
//	    name: enable_uuid_extension
//	    kind: extension
//	    content:
//	      extension: uuid-ossp
//	      description: Enable UUID generation extension
//	      details: Required for primary key generation
//
// Numbers should be quoted; an unquoted 001 decodes as the integer 1 and
// fails validation.
func LoadFile(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return fromViper(v)
}

// Load reads a catalog in the given format ("yaml", "toml", "json") from r.
func Load(r io.Reader, format string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Catalog, error) {
	if !v.IsSet(migrationsKey) {
		return nil, fmt.Errorf("catalog has no %q list", migrationsKey)
	}

	var defs []Definition
	if err := v.UnmarshalKey(migrationsKey, &defs); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(defs...)
}
