// Package config holds the policy applied when migrations are turned into
// rollback scripts.
package config

import (
	"slices"
	"strings"
)

// RollbackOptions controls rollback rendering. The zero value drops every
// object the extractor recognises, extensions included.
type RollbackOptions struct {
	// KeptExtensions are extensions a rollback leaves installed, typically
	// ones the server provisions itself. Their rollback is a comment and the
	// entry is reported as manual.
	KeptExtensions []string
}

// DefaultRollbackOptions returns options that keep no extension.
func DefaultRollbackOptions() *RollbackOptions {
	return &RollbackOptions{}
}

// KeepExtensions returns options that keep the named extensions. Each
// argument may be a comma separated list; names are trimmed, surrounding
// double quotes are removed and duplicates or blanks are dropped.
func KeepExtensions(names ...string) *RollbackOptions {
	var kept []string
	for _, arg := range names {
		for _, name := range strings.Split(arg, ",") {
			name = strings.Trim(strings.TrimSpace(name), `"`)
			if name == "" || slices.Contains(kept, name) {
				continue
			}
			kept = append(kept, name)
		}
	}
	return &RollbackOptions{KeptExtensions: kept}
}

// Keeps reports whether the extension must survive a rollback. Extension
// names compare exactly, as PostgreSQL does. A nil receiver keeps nothing.
func (o *RollbackOptions) Keeps(extension string) bool {
	if o == nil {
		return false
	}
	return slices.Contains(o.KeptExtensions, extension)
}
