package catalog

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/stokaro/pgforge/core/object"
)

// Definition is a single declarative migration entry.
type Definition struct {
	// Number is the zero-padded ordering key, e.g. "011"
	Number string `mapstructure:"number"`
	// Name is combined with Number to form the file name stem
	Name string `mapstructure:"name"`
	// Kind selects the template and the required content keys
	Kind object.Kind `mapstructure:"kind"`
	// Content holds the named template parameters
	Content map[string]string `mapstructure:"content"`
}

// FileName returns the forward migration file name, "{number}_{name}.sql".
func (d Definition) FileName() string {
	return d.Number + "_" + d.Name + ".sql"
}

// String identifies the definition in logs and errors.
func (d Definition) String() string {
	return d.Number + "_" + d.Name
}

func (d Definition) clone() Definition {
	d.Content = maps.Clone(d.Content)
	return d
}

var requiredKeys = map[object.Kind][]string{
	object.KindExtension: {"description", "details", "extension"},
	object.KindTable:     {"description", "table_name", "columns", "comment"},
	object.KindIndex:     {"description", "index_name", "table_name", "index_def"},
	object.KindFunction:  {"description", "function_name", "function_body"},
	object.KindTrigger:   {"description", "trigger_name", "trigger_timing", "trigger_event", "table_name", "function_name"},
}

// RequiredKeys returns the content keys a definition of the given kind must carry.
// Kinds without a built-in template require none.
func RequiredKeys(kind object.Kind) []string {
	return append([]string(nil), requiredKeys[kind]...)
}

var (
	numberRe = regexp.MustCompile(`^[0-9]{3}$`)
	nameRe   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// validate checks the definition in isolation; uniqueness is checked by New.
func (d Definition) validate() error {
	if !numberRe.MatchString(d.Number) {
		return d.errorf("number must be three digits, got %q", d.Number)
	}
	if !nameRe.MatchString(d.Name) {
		return d.errorf("name must be a non-empty identifier, got %q", d.Name)
	}
	if !d.Kind.Valid() {
		return d.errorf("unsupported kind %q", d.Kind)
	}

	var missing []string
	for _, key := range requiredKeys[d.Kind] {
		if strings.TrimSpace(d.Content[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return d.errorf("missing required content for %s: %s", d.Kind, strings.Join(missing, ", "))
	}
	return nil
}

func (d Definition) errorf(format string, args ...any) *DefinitionError {
	return &DefinitionError{
		Number: d.Number,
		Name:   d.Name,
		Reason: fmt.Sprintf(format, args...),
	}
}
